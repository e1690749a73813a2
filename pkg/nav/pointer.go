package nav

// PointerSource delivers clicks in surface coordinates.
type PointerSource interface {
	OnClick(fn func(x, y float64))
}

// Dispatcher is an in-process PointerSource. Front ends translate their
// own input events into Click calls.
type Dispatcher struct {
	handlers []func(x, y float64)
}

// OnClick implements PointerSource.
func (d *Dispatcher) OnClick(fn func(x, y float64)) {
	d.handlers = append(d.handlers, fn)
}

// Click delivers a click to every subscriber.
func (d *Dispatcher) Click(x, y float64) {
	for _, fn := range d.handlers {
		fn(x, y)
	}
}
