// Package nodelink exports tree snapshots as node-link diagrams.
//
// [ToDOT] writes Graphviz DOT source with one box per snapshot node and an
// edge from every parent to each child, laid out top to bottom like the
// disc rendering. [RenderSVG] lays the DOT out in-process with
// [github.com/goccy/go-graphviz].
//
//	dot := nodelink.ToDOT(snap, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools.
package nodelink
