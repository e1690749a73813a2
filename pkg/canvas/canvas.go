// Package canvas defines the drawing surface the renderer paints on and
// provides its implementations.
//
// A [Surface] exposes its pixel dimensions and a small set of immediate-mode
// primitives: clear, stroke/fill color selection, lines, discs, text, and
// filled polygons. Colors are CSS hex strings ("#rrggbb").
//
// Implementations:
//
//   - [Raster]: anti-aliased bitmap backed by fogleman/gg, encodes to PNG
//   - [SVG]: scalable vector document
//   - [Cells]: character grid for terminals, styled with lipgloss
//   - [Recorder]: operation log, used by tests
package canvas

// Surface is a 2D drawing target with pixel coordinates, origin top-left.
type Surface interface {
	Width() float64
	Height() float64

	// Clear erases everything drawn so far.
	Clear()

	SetStrokeColor(c string)
	SetFillColor(c string)

	StrokeLine(x0, y0, x1, y1 float64)
	FillDisc(x, y, r float64)
	// FillText draws text with its baseline starting at (x, y).
	FillText(text string, x, y float64)
	FillPolygon(pts []Point)
}

// Point is a position on a surface.
type Point struct {
	X, Y float64
}

// Default colors used before any Set*Color call.
const (
	DefaultStroke     = "#000000"
	DefaultFill       = "#000000"
	DefaultBackground = "#ffffff"
)
