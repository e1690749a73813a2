package tree

import (
	"iter"
	"maps"
)

// fake is a minimal live Source used across the package tests.
type fake struct {
	tag      string
	id       string
	attrs    map[string]string
	kids     []*fake
	declared int // -1 means len(kids)
}

func el(tag string, kids ...*fake) *fake {
	return &fake{tag: tag, kids: kids, declared: -1}
}

func (f *fake) withID(id string) *fake { f.id = id; return f }

func (f *fake) withAttr(k, v string) *fake {
	if f.attrs == nil {
		f.attrs = map[string]string{}
	}
	f.attrs[k] = v
	return f
}

func (f *fake) Tag() string { return f.tag }

func (f *fake) ChildCount() int {
	if f.declared >= 0 {
		return f.declared
	}
	return len(f.kids)
}

func (f *fake) Children() []Source {
	out := make([]Source, len(f.kids))
	for i, k := range f.kids {
		out[i] = k
	}
	return out
}

func (f *fake) Attrs() iter.Seq2[string, string] { return maps.All(f.attrs) }

func (f *fake) ID() (string, bool) { return f.id, f.id != "" }

// threeLevel is root -> 2 children -> 2 grandchildren each.
func threeLevel() *fake {
	return el("root",
		el("a", el("a0"), el("a1")),
		el("b", el("b0"), el("b1")),
	)
}

func mustBuild(src Source, start, end float64, opts ...Option) *Snapshot {
	s, err := Build(src, start, end, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func signature(n *Node) string {
	s := n.Tag()
	if len(n.children) == 0 {
		return s
	}
	s += "("
	for i, c := range n.children {
		if i > 0 {
			s += ","
		}
		s += signature(c)
	}
	return s + ")"
}
