package canvas

import (
	"fmt"
	"image"
	"io"

	"github.com/fogleman/gg"

	"github.com/matzehuels/treescope/pkg/errors"
	"github.com/matzehuels/treescope/pkg/fonts"
)

// Raster is a bitmap surface backed by a gg drawing context.
type Raster struct {
	dc         *gg.Context
	stroke     string
	fill       string
	background string
	lineWidth  float64
}

// RasterOption configures a Raster.
type RasterOption func(*Raster)

// WithBackground sets the color Clear paints. An empty string clears to
// transparent.
func WithBackground(c string) RasterOption {
	return func(r *Raster) { r.background = c }
}

// WithLineWidth sets the stroke width for lines.
func WithLineWidth(w float64) RasterOption {
	return func(r *Raster) { r.lineWidth = w }
}

// NewRaster creates a width x height bitmap, cleared to the background.
func NewRaster(width, height int, opts ...RasterOption) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidSurface,
			"raster size must be positive, got %dx%d", width, height)
	}
	face, err := fonts.Face(fonts.DefaultSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load label font")
	}

	r := &Raster{
		dc:         gg.NewContext(width, height),
		stroke:     DefaultStroke,
		fill:       DefaultFill,
		background: DefaultBackground,
		lineWidth:  1,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.dc.SetFontFace(face)
	r.Clear()
	return r, nil
}

func (r *Raster) Width() float64  { return float64(r.dc.Width()) }
func (r *Raster) Height() float64 { return float64(r.dc.Height()) }

func (r *Raster) Clear() {
	if r.background == "" {
		r.dc.SetRGBA(0, 0, 0, 0)
	} else {
		r.dc.SetHexColor(r.background)
	}
	r.dc.Clear()
}

func (r *Raster) SetStrokeColor(c string) { r.stroke = c }
func (r *Raster) SetFillColor(c string)   { r.fill = c }

func (r *Raster) StrokeLine(x0, y0, x1, y1 float64) {
	r.dc.SetHexColor(r.stroke)
	r.dc.SetLineWidth(r.lineWidth)
	r.dc.DrawLine(x0, y0, x1, y1)
	r.dc.Stroke()
}

func (r *Raster) FillDisc(x, y, radius float64) {
	r.dc.SetHexColor(r.fill)
	r.dc.DrawCircle(x, y, radius)
	r.dc.Fill()
}

func (r *Raster) FillText(text string, x, y float64) {
	r.dc.SetHexColor(r.fill)
	r.dc.DrawString(text, x, y)
}

func (r *Raster) FillPolygon(pts []Point) {
	if len(pts) < 3 {
		return
	}
	r.dc.SetHexColor(r.fill)
	r.dc.NewSubPath()
	r.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		r.dc.LineTo(p.X, p.Y)
	}
	r.dc.ClosePath()
	r.dc.Fill()
}

// Image returns the underlying bitmap.
func (r *Raster) Image() image.Image { return r.dc.Image() }

// EncodePNG writes the current bitmap as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if err := r.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

var _ Surface = (*Raster)(nil)
