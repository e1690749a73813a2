package tree

import (
	"iter"
	"maps"
	"strconv"
	"strings"
)

// Interval is a half-open horizontal range [Start, End) on the surface.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Width returns End - Start.
func (iv Interval) Width() float64 { return iv.End - iv.Start }

// Mid returns the horizontal center of the interval.
func (iv Interval) Mid() float64 { return (iv.Start + iv.End) / 2 }

// Contains reports whether x lies strictly inside the interval. Both
// bounds are exclusive, matching the hit tester's descent rule.
func (iv Interval) Contains(x float64) bool { return iv.Start < x && x < iv.End }

// Within reports whether iv lies inside outer.
func (iv Interval) Within(outer Interval) bool {
	return iv.Start >= outer.Start && iv.End <= outer.End
}

// Node is a laid-out tree node owned by the snapshot that built it.
type Node struct {
	tag      string
	attrs    map[string]string
	children []*Node
	parent   *Node
	depth    int
	interval Interval
	id       string
	hasID    bool
}

// Tag returns the node's kind, e.g. "div".
func (n *Node) Tag() string { return n.tag }

// Depth returns the distance from the snapshot root (root = 0).
func (n *Node) Depth() int { return n.depth }

// Interval returns the node's horizontal range.
func (n *Node) Interval() Interval { return n.interval }

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Nodes returns the children in layout order.
func (n *Node) Nodes() []*Node { return n.children }

// Attr returns a single attribute value.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// Attributes returns a copy of the attribute map.
func (n *Node) Attributes() map[string]string { return maps.Clone(n.attrs) }

// ChildCount implements Source.
func (n *Node) ChildCount() int { return len(n.children) }

// Children implements Source.
func (n *Node) Children() []Source {
	out := make([]Source, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Attrs implements Source.
func (n *Node) Attrs() iter.Seq2[string, string] { return maps.All(n.attrs) }

// ID implements Source.
func (n *Node) ID() (string, bool) { return n.id, n.hasID }

func (n *Node) sharedAttrs() map[string]string { return n.attrs }

// Walk visits n and its descendants in pre-order. Returning false from fn
// stops the walk below that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Path returns a slash-separated tag path from the root, with sibling
// indices, e.g. "html/body[1]/div[0]".
func (n *Node) Path() string {
	var parts []string
	for cur := n; cur != nil; cur = cur.parent {
		parts = append(parts, cur.step())
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

func (n *Node) step() string {
	if n.parent == nil {
		return n.tag
	}
	for i, s := range n.parent.children {
		if s == n {
			return n.tag + "[" + strconv.Itoa(i) + "]"
		}
	}
	return n.tag
}
