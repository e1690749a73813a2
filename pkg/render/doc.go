// Package render paints tree snapshots onto a [canvas.Surface].
//
// # Layout
//
// Each node sits at the midpoint of its horizontal interval, on the row of
// its depth:
//
//	x = (start + end) / 2
//	y = depth*rowHeight + TopMargin
//
// [Draw] derives the row height from the surface height so the deepest row
// fits, then calls [Render].
//
// # Drawing order
//
// Rendering is a pre-order walk. For every child the edge from the parent
// is stroked first and the child subtree rendered right after, so edges of
// later siblings are painted over earlier subtrees. A node's own disc is
// filled only after all of its children are done, which keeps discs on top
// of the edges that meet them.
//
// Tags in [Theme.Labeled] get their tag name drawn next to the disc.
//
// # Subpackages
//
// [nodelink] exports snapshots as Graphviz node-link diagrams.
package render
