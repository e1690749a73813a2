package canvas

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/treescope/pkg/fonts"
)

// SVG accumulates drawing operations as SVG elements.
type SVG struct {
	width, height float64
	stroke, fill  string
	background    string
	body          bytes.Buffer
}

// NewSVG creates an empty SVG surface. Sizes are not validated here; use
// errors.ValidateDimensions on user input first.
func NewSVG(width, height float64) *SVG {
	return &SVG{
		width:      width,
		height:     height,
		stroke:     DefaultStroke,
		fill:       DefaultFill,
		background: DefaultBackground,
	}
}

func (s *SVG) Width() float64  { return s.width }
func (s *SVG) Height() float64 { return s.height }

func (s *SVG) Clear() { s.body.Reset() }

func (s *SVG) SetStrokeColor(c string) { s.stroke = c }
func (s *SVG) SetFillColor(c string)   { s.fill = c }

func (s *SVG) StrokeLine(x0, y0, x1, y1 float64) {
	fmt.Fprintf(&s.body, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"/>`+"\n",
		x0, y0, x1, y1, escapeXML(s.stroke))
}

func (s *SVG) FillDisc(x, y, r float64) {
	fmt.Fprintf(&s.body, `  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
		x, y, r, escapeXML(s.fill))
}

func (s *SVG) FillText(text string, x, y float64) {
	fmt.Fprintf(&s.body, `  <text x="%.2f" y="%.2f" font-family="%s" font-size="%d" fill="%s">%s</text>`+"\n",
		x, y, escapeXML(fonts.FontFamily), fonts.DefaultSize, escapeXML(s.fill), escapeXML(text))
}

func (s *SVG) FillPolygon(pts []Point) {
	if len(pts) < 3 {
		return
	}
	var points bytes.Buffer
	for i, p := range pts {
		if i > 0 {
			points.WriteByte(' ')
		}
		fmt.Fprintf(&points, "%.2f,%.2f", p.X, p.Y)
	}
	fmt.Fprintf(&s.body, `  <polygon points="%s" fill="%s"/>`+"\n", points.String(), escapeXML(s.fill))
}

// Bytes returns the complete SVG document for everything drawn since the
// last Clear.
func (s *SVG) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		s.width, s.height, s.width, s.height)
	if s.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(s.background))
	}
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

var _ Surface = (*SVG)(nil)
