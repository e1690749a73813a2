// Package nav implements drill-down / drill-back navigation over tree
// snapshots drawn on a surface.
//
// A [Controller] owns one surface, the snapshot currently shown, and a
// stack of previously shown snapshots. A click inside the back zone (the
// top-left BackZone x BackZone square) pops the stack while it is
// non-empty. Any other click hit-tests the current snapshot, rebuilds a
// snapshot rooted at the node found, pushes the old one, and repaints.
//
// Popping restores the exact snapshot that was pushed, so N drills
// followed by N back clicks return to the original snapshot pointer.
//
// A Controller is not safe for concurrent use. Front ends that deliver
// clicks from several goroutines must serialize calls themselves.
package nav
