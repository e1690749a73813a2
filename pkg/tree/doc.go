// Package tree builds immutable layout snapshots of hierarchical trees.
//
// # Overview
//
// A [Source] is anything that looks like a tree node: it has a tag, an
// ordered list of children, an attribute bag and optionally a stable
// identifier. [Build] walks a Source and produces a [Snapshot], a fully
// materialized copy of the tree in which every [Node] carries its depth and
// a horizontal [Interval] on the drawing surface.
//
// Intervals are assigned top-down: the root receives the interval passed to
// Build and every node splits its own interval into equal-width shares, one
// per child, in source order. Sibling intervals are therefore disjoint,
// ordered, and exactly cover their parent.
//
// # Re-rooting
//
// *Node itself satisfies Source, so a subtree of an existing snapshot can be
// rebuilt as a new snapshot with its own full-width layout:
//
//	snap, err := tree.Build(doc, 0, 800)
//	sub, err := tree.Build(snap.Lookup("main"), 0, 800)
//
// Attribute maps are shared between chained snapshots rather than copied;
// snapshots are never mutated after Build returns, so sharing is safe.
//
// # Indices
//
// While building, the snapshot also collects an identifier index
// ([Snapshot.Lookup]) and per-tag indices driven by an [Action] table
// ([Snapshot.Slot], [Snapshot.Collection]), similar to document.body or
// document.links in a browser.
//
// # Hit testing
//
// [FindNodeAt] maps a surface point back to a node using the same row
// height as the renderer.
package tree
