package nav

import (
	"iter"
	"maps"
	"testing"

	"github.com/matzehuels/treescope/pkg/canvas"
	"github.com/matzehuels/treescope/pkg/errors"
	"github.com/matzehuels/treescope/pkg/observability"
	"github.com/matzehuels/treescope/pkg/tree"
)

type src struct {
	tag  string
	kids []*src
}

func el(tag string, kids ...*src) *src { return &src{tag: tag, kids: kids} }

func (s *src) Tag() string     { return s.tag }
func (s *src) ChildCount() int { return len(s.kids) }
func (s *src) Children() []tree.Source {
	out := make([]tree.Source, len(s.kids))
	for i, k := range s.kids {
		out[i] = k
	}
	return out
}
func (s *src) Attrs() iter.Seq2[string, string] { return maps.All(map[string]string(nil)) }
func (s *src) ID() (string, bool)               { return "", false }

func attach(t *testing.T) (*Controller, *canvas.Recorder, *tree.Snapshot) {
	t.Helper()
	snap, err := tree.Build(el("root", el("a", el("a0"), el("a1")), el("b", el("b0"), el("b1"))), 0, 400)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	rec := canvas.NewRecorder(400, 60)
	c, err := Attach(rec, snap)
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	return c, rec, snap
}

func TestAttachPreconditions(t *testing.T) {
	snap, _ := tree.Build(el("root"), 0, 10)

	if _, err := Attach(nil, snap); !errors.Is(err, errors.ErrCodeMissingSurface) {
		t.Errorf("Attach(nil surface) error = %v, want MISSING_SURFACE", err)
	}
	if _, err := Attach(canvas.NewRecorder(10, 10), nil); !errors.Is(err, errors.ErrCodeMissingSource) {
		t.Errorf("Attach(nil snapshot) error = %v, want MISSING_SOURCE", err)
	}
}

func TestAttachPaints(t *testing.T) {
	c, rec, snap := attach(t)
	if rec.Clears != 1 {
		t.Errorf("Clears = %d, want 1", rec.Clears)
	}
	if got := len(rec.Filter(canvas.OpDisc)); got != snap.Len() {
		t.Errorf("discs = %d, want %d", got, snap.Len())
	}
	if len(rec.Filter(canvas.OpPolygon)) != 0 {
		t.Error("back arrow drawn without history")
	}
	if c.Current() != snap || c.Depth() != 0 || c.Surface() != rec {
		t.Error("accessors disagree with Attach arguments")
	}
}

func TestClickDrillAndBack(t *testing.T) {
	c, rec, initial := attach(t)

	tr, err := c.Click(250, 45)
	if err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if tr != TransitionDrill {
		t.Errorf("Click(250, 45) = %v, want drill", tr)
	}
	if got := c.Current().Tag(); got != "b0" {
		t.Errorf("Current() = %q, want b0", got)
	}
	if got := c.Current().Interval(); got != (tree.Interval{Start: 0, End: 400}) {
		t.Errorf("re-rooted interval = %v, want [0, 400)", got)
	}
	if c.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", c.Depth())
	}
	if rec.Clears != 2 {
		t.Errorf("Clears = %d, want 2", rec.Clears)
	}
	if len(rec.Filter(canvas.OpPolygon)) != 1 {
		t.Error("back arrow missing after drill")
	}

	tr, err = c.Click(5, 5)
	if err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if tr != TransitionBack {
		t.Errorf("Click(5, 5) = %v, want back", tr)
	}
	if c.Current() != initial {
		t.Error("back did not restore the original snapshot")
	}
	if len(rec.Filter(canvas.OpPolygon)) != 0 {
		t.Error("back arrow drawn with empty history")
	}
}

func TestClickBackZoneWithoutHistory(t *testing.T) {
	c, _, initial := attach(t)

	tr, err := c.Click(5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if tr != TransitionDrill {
		t.Errorf("Click(5, 5) with no history = %v, want drill", tr)
	}
	if c.Current() == initial || c.Current().Tag() != "root" {
		t.Errorf("expected a fresh root snapshot, got %q", c.Current().Tag())
	}
	if c.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", c.Depth())
	}
}

func TestDrillsThenBacksRestoreIdentity(t *testing.T) {
	c, _, initial := attach(t)

	clicks := []struct {
		x, y float64
		tag  string
	}{
		{300, 30, "b"},
		{100, 45, "b0"},
		{50, 50, "b0"},
	}
	seen := []*tree.Snapshot{initial}
	for _, click := range clicks {
		if _, err := c.Click(click.x, click.y); err != nil {
			t.Fatalf("Click(%v, %v) error = %v", click.x, click.y, err)
		}
		if got := c.Current().Tag(); got != click.tag {
			t.Fatalf("Click(%v, %v) -> %q, want %q", click.x, click.y, got, click.tag)
		}
		seen = append(seen, c.Current())
	}

	for i := len(seen) - 2; i >= 0; i-- {
		if tr, _ := c.Click(5, 5); tr != TransitionBack {
			t.Fatalf("back #%d = %v", len(seen)-1-i, tr)
		}
		if c.Current() != seen[i] {
			t.Errorf("after back, Current() = %p, want %p", c.Current(), seen[i])
		}
	}
	if c.Current() != initial || c.Depth() != 0 {
		t.Error("did not return to the initial snapshot")
	}
}

func TestBackAndReset(t *testing.T) {
	c, _, initial := attach(t)
	if c.Back() {
		t.Error("Back() with no history = true")
	}
	if c.Reset() {
		t.Error("Reset() with no history = true")
	}

	c.Click(300, 30)
	c.Click(100, 45)
	if !c.Reset() {
		t.Fatal("Reset() = false")
	}
	if c.Current() != initial || c.Depth() != 0 {
		t.Errorf("Reset(): current=%q depth=%d", c.Current().Tag(), c.Depth())
	}
}

func TestBind(t *testing.T) {
	c, _, _ := attach(t)
	var d Dispatcher

	if err := c.Bind(&d); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if err := c.Bind(&d); !errors.Is(err, errors.ErrCodeAlreadyBound) {
		t.Errorf("second Bind() error = %v, want ALREADY_BOUND", err)
	}
	if err := c.Bind(nil); err == nil {
		t.Error("Bind(nil) succeeded")
	}

	d.Click(250, 45)
	if got := c.Current().Tag(); got != "b0" {
		t.Errorf("after dispatched click Current() = %q, want b0", got)
	}
	d.Click(5, 5)
	if c.Depth() != 0 {
		t.Errorf("after dispatched back Depth() = %d, want 0", c.Depth())
	}
}

type navHooks struct {
	drills, backs []string
}

func (h *navHooks) OnDrill(from, to string, _ int) { h.drills = append(h.drills, from+">"+to) }
func (h *navHooks) OnBack(tag string, _ int)       { h.backs = append(h.backs, tag) }

func TestNavigationHooks(t *testing.T) {
	hooks := &navHooks{}
	observability.SetNavigationHooks(hooks)
	t.Cleanup(observability.Reset)

	c, _, _ := attach(t)
	c.Click(300, 30)
	c.Click(5, 5)

	if len(hooks.drills) != 1 || hooks.drills[0] != "root>b" {
		t.Errorf("drills = %v, want [root>b]", hooks.drills)
	}
	if len(hooks.backs) != 1 || hooks.backs[0] != "root" {
		t.Errorf("backs = %v, want [root]", hooks.backs)
	}
}

func TestTransitionString(t *testing.T) {
	tests := map[Transition]string{
		TransitionNone:  "none",
		TransitionBack:  "back",
		TransitionDrill: "drill",
	}
	for tr, want := range tests {
		if got := tr.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", tr, got, want)
		}
	}
}
