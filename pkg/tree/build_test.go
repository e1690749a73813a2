package tree

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"testing"

	errs "github.com/matzehuels/treescope/pkg/errors"
)

func TestBuildThreeLevelIntervals(t *testing.T) {
	snap := mustBuild(threeLevel(), 0, 400)

	if got := snap.Interval(); got != (Interval{0, 400}) {
		t.Errorf("root interval = %v, want [0,400)", got)
	}

	kids := snap.Nodes()
	if len(kids) != 2 {
		t.Fatalf("root children = %d, want 2", len(kids))
	}
	want := []Interval{{0, 200}, {200, 400}}
	for i, c := range kids {
		if c.Interval() != want[i] {
			t.Errorf("child %d interval = %v, want %v", i, c.Interval(), want[i])
		}
	}

	grand := kids[0].Nodes()
	wantGrand := []Interval{{0, 100}, {100, 200}}
	for i, g := range grand {
		if g.Interval() != wantGrand[i] {
			t.Errorf("grandchild %d interval = %v, want %v", i, g.Interval(), wantGrand[i])
		}
	}

	if snap.MaxDepth() != 2 {
		t.Errorf("MaxDepth() = %d, want 2", snap.MaxDepth())
	}
	if snap.Len() != 7 {
		t.Errorf("Len() = %d, want 7", snap.Len())
	}
}

func TestBuildIntervalInvariants(t *testing.T) {
	trees := map[string]*fake{
		"three level": threeLevel(),
		"uneven": el("r",
			el("x"),
			el("y", el("y0"), el("y1"), el("y2")),
			el("z", el("z0", el("z00", el("z000")))),
		),
		"wide": wide(7),
		"single": el("only"),
	}

	for name, src := range trees {
		t.Run(name, func(t *testing.T) {
			snap := mustBuild(src, 13, 977)
			maxDepth := 0
			snap.Walk(func(n *Node) bool {
				if n.Depth() > maxDepth {
					maxDepth = n.Depth()
				}
				if p := n.Parent(); p != nil {
					if n.Depth() != p.Depth()+1 {
						t.Errorf("%s depth = %d, parent depth = %d", n.Path(), n.Depth(), p.Depth())
					}
					if !n.Interval().Within(p.Interval()) {
						t.Errorf("%s interval %v not within parent %v", n.Path(), n.Interval(), p.Interval())
					}
				} else if n.Depth() != 0 {
					t.Errorf("root depth = %d, want 0", n.Depth())
				}

				kids := n.Nodes()
				if len(kids) == 0 {
					return true
				}
				if kids[0].Interval().Start != n.Interval().Start {
					t.Errorf("%s first child starts at %v, want %v", n.Path(), kids[0].Interval().Start, n.Interval().Start)
				}
				if kids[len(kids)-1].Interval().End != n.Interval().End {
					t.Errorf("%s last child ends at %v, want %v", n.Path(), kids[len(kids)-1].Interval().End, n.Interval().End)
				}
				share := n.Interval().Width() / float64(len(kids))
				for i := 1; i < len(kids); i++ {
					if kids[i].Interval().Start != kids[i-1].Interval().End {
						t.Errorf("%s children %d and %d are not contiguous", n.Path(), i-1, i)
					}
				}
				for _, c := range kids {
					if math.Abs(c.Interval().Width()-share) > 1e-9 {
						t.Errorf("%s width = %v, want %v", c.Path(), c.Interval().Width(), share)
					}
				}
				return true
			})
			if snap.MaxDepth() != maxDepth {
				t.Errorf("MaxDepth() = %d, want %d", snap.MaxDepth(), maxDepth)
			}
		})
	}
}

func wide(n int) *fake {
	kids := make([]*fake, n)
	for i := range kids {
		kids[i] = el(fmt.Sprintf("c%d", i))
	}
	return el("r", kids...)
}

func TestBuildChildCountMismatch(t *testing.T) {
	bad := el("body", el("div"), el("p"))
	bad.kids[0].declared = 3
	src := el("html", bad)

	_, err := Build(src, 0, 100)
	if err == nil {
		t.Fatal("Build() error = nil, want INVALID_SOURCE")
	}
	if !errs.Is(err, errs.ErrCodeInvalidSource) {
		t.Errorf("code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidSource)
	}
	const wantPath = "html/body[0]/div[0]"
	if msg := errs.UserMessage(err); !strings.Contains(msg, wantPath) {
		t.Errorf("message %q does not name %q", msg, wantPath)
	}
}

func TestBuildFewerDeclaredThanExposed(t *testing.T) {
	src := el("ul", el("li"), el("li"))
	src.declared = 1
	if _, err := Build(src, 0, 100); !errs.Is(err, errs.ErrCodeInvalidSource) {
		t.Errorf("Build() error = %v, want INVALID_SOURCE", err)
	}
}

func TestBuildPreconditions(t *testing.T) {
	tests := []struct {
		name       string
		src        Source
		start, end float64
		code       errs.Code
	}{
		{"nil source", nil, 0, 100, errs.ErrCodeMissingSource},
		{"nil node", (*Node)(nil), 0, 100, errs.ErrCodeMissingSource},
		{"reversed", el("x"), 100, 0, errs.ErrCodeInvalidInterval},
		{"nan", el("x"), math.NaN(), 10, errs.ErrCodeInvalidInterval},
		{"inf", el("x"), 0, math.Inf(1), errs.ErrCodeInvalidInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.src, tt.start, tt.end)
			if !errs.Is(err, tt.code) {
				t.Errorf("Build() error = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestBuildZeroWidth(t *testing.T) {
	snap := mustBuild(threeLevel(), 0, 0)
	snap.Walk(func(n *Node) bool {
		if n.Interval().Width() != 0 {
			t.Errorf("%s width = %v, want 0", n.Path(), n.Interval().Width())
		}
		return true
	})
}

func TestBuildCopiesLiveAttributes(t *testing.T) {
	src := el("a").withAttr("href", "/x")
	snap := mustBuild(src, 0, 10)

	src.attrs["href"] = "/changed"
	src.kids = append(src.kids, el("span"))

	if v, _ := snap.Attr("href"); v != "/x" {
		t.Errorf("Attr(href) = %q, want %q", v, "/x")
	}
	if len(snap.Nodes()) != 0 {
		t.Errorf("snapshot picked up a child added after Build")
	}
}

func TestBuildSharesSnapshotAttributes(t *testing.T) {
	src := el("div", el("a").withAttr("href", "/x"))
	first := mustBuild(src, 0, 100)
	link := first.Nodes()[0]

	second := mustBuild(link, 0, 100)
	if got, want := fmt.Sprintf("%p", second.sharedAttrs()), fmt.Sprintf("%p", link.sharedAttrs()); got != want {
		t.Errorf("re-rooted snapshot copied attributes (map %s, want %s)", got, want)
	}
}

func TestBuildReRootIsomorphic(t *testing.T) {
	first := mustBuild(threeLevel(), 0, 400)
	again := mustBuild(first.Root(), 0, 400)

	if signature(again.Root()) != signature(first.Root()) {
		t.Errorf("signature = %s, want %s", signature(again.Root()), signature(first.Root()))
	}
	if again.Root() == first.Root() {
		t.Error("re-rooted snapshot reuses the original root node")
	}
	if again.MaxDepth() != first.MaxDepth() || again.Len() != first.Len() {
		t.Errorf("MaxDepth/Len = %d/%d, want %d/%d", again.MaxDepth(), again.Len(), first.MaxDepth(), first.Len())
	}
}

func TestBuildReRootSubtree(t *testing.T) {
	first := mustBuild(threeLevel(), 0, 400)
	b := first.Nodes()[1]

	sub := mustBuild(b, 0, 400)
	if sub.Tag() != "b" || sub.Depth() != 0 || sub.Parent() != nil {
		t.Errorf("sub root = %s depth %d, want b depth 0 without parent", sub.Tag(), sub.Depth())
	}
	if sub.MaxDepth() != 1 {
		t.Errorf("MaxDepth() = %d, want 1", sub.MaxDepth())
	}
	want := []Interval{{0, 200}, {200, 400}}
	for i, c := range sub.Nodes() {
		if c.Interval() != want[i] {
			t.Errorf("child %d interval = %v, want %v", i, c.Interval(), want[i])
		}
	}
	// original untouched
	if b.Depth() != 1 || b.Interval() != (Interval{200, 400}) {
		t.Errorf("original node changed: depth %d interval %v", b.Depth(), b.Interval())
	}
}

func TestBuildIndices(t *testing.T) {
	src := el("html",
		el("head", el("title")),
		el("body",
			el("a").withAttr("href", "/one"),
			el("a").withID("anchor"),
			el("img"),
			el("form", el("img")),
			el("body").withID("second-body"),
			el("div").withID("main"),
			el("div").withID("main"),
		),
	)
	snap := mustBuild(src, 0, 100)

	if n := snap.Slot("body"); n == nil || n.Depth() != 1 {
		t.Errorf("Slot(body) = %v, want the first body at depth 1", n)
	}
	if n := snap.Slot("title"); n == nil || n.Tag() != "title" {
		t.Errorf("Slot(title) = %v", n)
	}
	if got := len(snap.Collection("links")); got != 1 {
		t.Errorf("links = %d, want 1 (anchor without href is skipped)", got)
	}
	if got := len(snap.Collection("images")); got != 2 {
		t.Errorf("images = %d, want 2", got)
	}
	if got := len(snap.Collection("forms")); got != 1 {
		t.Errorf("forms = %d, want 1", got)
	}
	main, ok := snap.Lookup("main")
	if !ok {
		t.Fatal("Lookup(main) missing")
	}
	if main != snap.Slot("body").Nodes()[5] {
		t.Error("Lookup(main) should return the first node with that id")
	}
	if _, ok := snap.Lookup("missing"); ok {
		t.Error("Lookup(missing) = ok")
	}
	if snap.IDs() != 3 {
		t.Errorf("IDs() = %d, want 3", snap.IDs())
	}
	names := snap.SlotNames()
	slices.Sort(names)
	if !slices.Equal(names, []string{"body", "head", "title"}) {
		t.Errorf("SlotNames() = %v, want [body head title]", names)
	}
}

func TestBuildWithActions(t *testing.T) {
	src := el("root", el("leaf"), el("leaf"))
	snap := mustBuild(src, 0, 10, WithActions(map[string]Action{
		"leaf": {Kind: AppendCollection, Name: "leaves"},
	}))
	if got := len(snap.Collection("leaves")); got != 2 {
		t.Errorf("leaves = %d, want 2", got)
	}

	none := mustBuild(el("html", el("body")), 0, 10, WithActions(nil))
	if none.Slot("body") != nil {
		t.Error("nil action table should disable slots")
	}
}

func TestBuildWithPrune(t *testing.T) {
	src := el("p", el("#text"), el("b"), el("#comment"), el("i"))
	snap := mustBuild(src, 0, 100, WithPrune(SkipTags("#TEXT", "#comment")))

	kids := snap.Nodes()
	if len(kids) != 2 || kids[0].Tag() != "b" || kids[1].Tag() != "i" {
		t.Fatalf("children = %v, want [b i]", signature(snap.Root()))
	}
	if kids[0].Interval() != (Interval{0, 50}) {
		t.Errorf("b interval = %v, want [0,50)", kids[0].Interval())
	}
}

func TestNodePath(t *testing.T) {
	snap := mustBuild(threeLevel(), 0, 400)
	g := snap.Nodes()[1].Nodes()[0]
	if got := g.Path(); got != "root/b[1]/b0[0]" {
		t.Errorf("Path() = %q, want %q", got, "root/b[1]/b0[0]")
	}
}

func TestRowHeight(t *testing.T) {
	tests := []struct {
		height   float64
		maxDepth int
		want     float64
	}{
		{600, 2, 200},
		{60, 2, 20},
		{0, 3, 1},
		{2, 9, 1},
	}
	for _, tt := range tests {
		if got := RowHeight(tt.height, tt.maxDepth); got != tt.want {
			t.Errorf("RowHeight(%v, %d) = %v, want %v", tt.height, tt.maxDepth, got, tt.want)
		}
	}
}

