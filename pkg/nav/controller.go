package nav

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treescope/pkg/canvas"
	"github.com/matzehuels/treescope/pkg/errors"
	"github.com/matzehuels/treescope/pkg/observability"
	"github.com/matzehuels/treescope/pkg/render"
	"github.com/matzehuels/treescope/pkg/tree"
)

// BackZone is the default side length of the back click square.
const BackZone = 20

// Transition reports what a click did.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionBack
	TransitionDrill
)

func (t Transition) String() string {
	switch t {
	case TransitionBack:
		return "back"
	case TransitionDrill:
		return "drill"
	}
	return "none"
}

// Controller drives navigation for one surface.
type Controller struct {
	surface canvas.Surface
	current *tree.Snapshot
	history []*tree.Snapshot
	bound   bool

	backZone   float64
	logger     *log.Logger
	buildOpts  []tree.Option
	renderOpts []render.Option
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for navigation events.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTheme sets the theme used on every repaint.
func WithTheme(t render.Theme) Option {
	return func(c *Controller) { c.renderOpts = append(c.renderOpts, render.WithTheme(t)) }
}

// WithBuildOptions passes options to tree.Build on every drill.
func WithBuildOptions(opts ...tree.Option) Option {
	return func(c *Controller) { c.buildOpts = append(c.buildOpts, opts...) }
}

// WithBackZone changes the size of the back click square.
func WithBackZone(size float64) Option {
	return func(c *Controller) {
		if size > 0 {
			c.backZone = size
		}
	}
}

// Attach creates a controller for s showing initial and paints it.
func Attach(s canvas.Surface, initial *tree.Snapshot, opts ...Option) (*Controller, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeMissingSurface, "no drawing surface")
	}
	if initial == nil {
		return nil, errors.New(errors.ErrCodeMissingSource, "no initial snapshot")
	}
	c := &Controller{
		surface:  s,
		current:  initial,
		backZone: BackZone,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Redraw()
	return c, nil
}

// Bind subscribes the controller to p. Each controller accepts exactly
// one pointer source.
func (c *Controller) Bind(p PointerSource) error {
	if p == nil {
		return errors.New(errors.ErrCodeInvalidInput, "no pointer source")
	}
	if c.bound {
		return errors.New(errors.ErrCodeAlreadyBound, "controller already has a pointer source")
	}
	c.bound = true
	p.OnClick(func(x, y float64) {
		if _, err := c.Click(x, y); err != nil {
			c.logger.Error("click failed", "x", x, "y", y, "err", err)
		}
	})
	return nil
}

// Click handles a click at surface coordinates (x, y).
func (c *Controller) Click(x, y float64) (Transition, error) {
	if x < c.backZone && y < c.backZone && c.Back() {
		return TransitionBack, nil
	}

	node := c.current.NodeAt(x, y, c.surface.Height())
	next, err := tree.Build(node, 0, c.surface.Width(), c.buildOpts...)
	if err != nil {
		return TransitionNone, fmt.Errorf("drill into %s: %w", node.Path(), err)
	}

	from := c.current
	c.history = append(c.history, from)
	c.current = next
	c.Redraw()

	c.logger.Debug("drill", "from", from.Tag(), "to", node.Path(), "nodes", next.Len(), "depth", len(c.history))
	observability.Navigation().OnDrill(from.Tag(), next.Tag(), len(c.history))
	return TransitionDrill, nil
}

// Back pops one snapshot and repaints. It reports false when there is no
// history.
func (c *Controller) Back() bool {
	if len(c.history) == 0 {
		return false
	}
	last := len(c.history) - 1
	c.current = c.history[last]
	c.history[last] = nil
	c.history = c.history[:last]
	c.Redraw()

	c.logger.Debug("back", "to", c.current.Tag(), "depth", len(c.history))
	observability.Navigation().OnBack(c.current.Tag(), len(c.history))
	return true
}

// Reset returns to the first snapshot, discarding the history.
func (c *Controller) Reset() bool {
	if len(c.history) == 0 {
		return false
	}
	c.current = c.history[0]
	clear(c.history)
	c.history = c.history[:0]
	c.Redraw()

	c.logger.Debug("reset", "to", c.current.Tag())
	observability.Navigation().OnBack(c.current.Tag(), 0)
	return true
}

// Redraw clears the surface and paints the current snapshot, plus the back
// arrow when there is history.
func (c *Controller) Redraw() {
	c.surface.Clear()
	render.Draw(c.surface, c.current, c.renderOpts...)
	if len(c.history) > 0 {
		render.DrawBackArrow(c.surface, c.renderOpts...)
	}
}

// Current returns the snapshot on screen.
func (c *Controller) Current() *tree.Snapshot { return c.current }

// Depth returns the number of snapshots that Back can return to.
func (c *Controller) Depth() int { return len(c.history) }

// Surface returns the surface the controller paints on.
func (c *Controller) Surface() canvas.Surface { return c.surface }
