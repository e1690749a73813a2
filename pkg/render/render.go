package render

import (
	"github.com/matzehuels/treescope/pkg/canvas"
	"github.com/matzehuels/treescope/pkg/tree"
)

// TopMargin is the vertical offset of the root row.
const TopMargin = 20

// BackArrow is the triangle painted in the top-left corner while there is
// somewhere to navigate back to.
var BackArrow = []canvas.Point{{X: 16, Y: 4}, {X: 4, Y: 10}, {X: 16, Y: 16}}

// Option configures rendering.
type Option func(*renderer)

// WithTheme overrides the default theme.
func WithTheme(t Theme) Option {
	return func(r *renderer) { r.theme = t }
}

type renderer struct {
	s         canvas.Surface
	theme     Theme
	rowHeight float64
}

func newRenderer(s canvas.Surface, rowHeight float64, opts []Option) *renderer {
	r := &renderer{s: s, theme: DefaultTheme(), rowHeight: rowHeight}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Position returns where a node is drawn for the given row height.
func Position(n *tree.Node, rowHeight float64) canvas.Point {
	return canvas.Point{
		X: n.Interval().Mid(),
		Y: float64(n.Depth())*rowHeight + TopMargin,
	}
}

// Render paints snap onto s using a fixed row height. It does not clear
// the surface.
func Render(s canvas.Surface, snap *tree.Snapshot, rowHeight float64, opts ...Option) {
	if s == nil || snap == nil {
		return
	}
	newRenderer(s, rowHeight, opts).node(snap.Root())
}

// Draw paints snap with the row height that fits the surface height.
func Draw(s canvas.Surface, snap *tree.Snapshot, opts ...Option) {
	if s == nil || snap == nil {
		return
	}
	Render(s, snap, snap.RowHeight(s.Height()), opts...)
}

// DrawBackArrow paints the back affordance.
func DrawBackArrow(s canvas.Surface, opts ...Option) {
	r := newRenderer(s, 0, opts)
	s.SetFillColor(r.theme.Arrow)
	s.FillPolygon(BackArrow)
}

func (r *renderer) node(n *tree.Node) {
	p := Position(n, r.rowHeight)
	for _, child := range n.Nodes() {
		c := Position(child, r.rowHeight)
		r.s.SetStrokeColor(r.theme.Edge)
		r.s.StrokeLine(p.X, p.Y, c.X, c.Y)
		r.node(child)
	}

	r.s.SetFillColor(r.theme.ColorOf(n.Tag()))
	r.s.FillDisc(p.X, p.Y, r.theme.Radius)

	if r.theme.Labeled[n.Tag()] {
		r.s.SetFillColor(r.theme.Label)
		r.s.FillText(n.Tag(), p.X+r.theme.LabelOffset.X, p.Y+r.theme.LabelOffset.Y)
	}
}
