package canvas

// OpKind identifies a recorded drawing operation.
type OpKind string

const (
	OpLine    OpKind = "line"
	OpDisc    OpKind = "disc"
	OpText    OpKind = "text"
	OpPolygon OpKind = "polygon"
)

// Op is one recorded drawing call. Color is the stroke color for lines
// and the fill color otherwise.
type Op struct {
	Kind   OpKind
	Color  string
	Args   []float64
	Text   string
	Points []Point
}

// Recorder is a surface that logs operations instead of drawing them.
type Recorder struct {
	Ops    []Op
	Clears int

	width, height float64
	stroke, fill  string
}

// NewRecorder creates a recorder reporting the given dimensions.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{width: width, height: height, stroke: DefaultStroke, fill: DefaultFill}
}

func (r *Recorder) Width() float64  { return r.width }
func (r *Recorder) Height() float64 { return r.height }

// Clear drops the recorded operations and counts the call.
func (r *Recorder) Clear() {
	r.Ops = nil
	r.Clears++
}

func (r *Recorder) SetStrokeColor(c string) { r.stroke = c }
func (r *Recorder) SetFillColor(c string)   { r.fill = c }

func (r *Recorder) StrokeLine(x0, y0, x1, y1 float64) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, Color: r.stroke, Args: []float64{x0, y0, x1, y1}})
}

func (r *Recorder) FillDisc(x, y, radius float64) {
	r.Ops = append(r.Ops, Op{Kind: OpDisc, Color: r.fill, Args: []float64{x, y, radius}})
}

func (r *Recorder) FillText(text string, x, y float64) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Color: r.fill, Args: []float64{x, y}, Text: text})
}

func (r *Recorder) FillPolygon(pts []Point) {
	r.Ops = append(r.Ops, Op{Kind: OpPolygon, Color: r.fill, Points: append([]Point(nil), pts...)})
}

// Filter returns the recorded operations of one kind, in order.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

var _ Surface = (*Recorder)(nil)
