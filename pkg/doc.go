// Package pkg provides the core libraries for Treescope document tree
// exploration.
//
// # Overview
//
// Treescope turns a document tree (parsed HTML or a DOM captured from a
// live browser) into an immutable snapshot whose nodes carry horizontal
// intervals and depths, draws that snapshot onto a 2D surface, and lets a
// pointer drill into any node and back out again.
//
// # Architecture
//
// The typical data flow:
//
//	file / stdin / URL / live page
//	         ↓
//	    [source/htmldoc], [source/cdp], [source/fetch]
//	         ↓
//	    [tree] package (Build: snapshot, intervals, indices)
//	         ↓
//	    [render] package (edges, discs, labels on a [canvas] surface)
//	         ↓
//	    [nav] package (click → hit test → rebuild → repaint; back stack)
//
// # Quick Start
//
//	doc, _ := htmldoc.Parse(strings.NewReader(page))
//	snap, _ := tree.Build(doc, 0, 800, tree.WithPrune(tree.SkipTags(htmldoc.PseudoTags...)))
//
//	surface, _ := canvas.NewRaster(800, 600)
//	ctrl, _ := nav.Attach(surface, snap)
//
//	pointer := &nav.Dispatcher{}
//	ctrl.Bind(pointer)
//	pointer.Click(420, 130) // drill
//	pointer.Click(5, 5)     // back
//
// # Main Packages
//
// [tree] - Snapshot builder with interval layout, id/slot/collection
// indices and the hit tester.
//
// [canvas] - The Surface interface plus a PNG raster (gg), an SVG writer, a
// terminal cell grid and an op recorder for tests.
//
// [render] - Recursive node-link drawing with themes and the back arrow.
// [render/nodelink] exports snapshots as Graphviz DOT or SVG.
//
// [nav] - Navigation controller and pointer sources.
//
// [pipeline] - Load → build → render orchestration used by the CLI.
//
// [cache] - File and null caches for fetched pages and captured DOMs.
//
// [errors] - Coded errors shared by all packages.
//
// [observability] - No-op hook interfaces for builds, navigation, cache
// and HTTP events.
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/treescope/pkg/tree
// [canvas]: https://pkg.go.dev/github.com/matzehuels/treescope/pkg/canvas
// [render]: https://pkg.go.dev/github.com/matzehuels/treescope/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/treescope/pkg/render/nodelink
// [nav]: https://pkg.go.dev/github.com/matzehuels/treescope/pkg/nav
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/treescope/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/treescope/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/treescope/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/treescope/pkg/observability
// [source/htmldoc]: https://pkg.go.dev/github.com/matzehuels/treescope/pkg/source/htmldoc
// [source/cdp]: https://pkg.go.dev/github.com/matzehuels/treescope/pkg/source/cdp
// [source/fetch]: https://pkg.go.dev/github.com/matzehuels/treescope/pkg/source/fetch
package pkg
