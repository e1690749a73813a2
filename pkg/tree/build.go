package tree

import (
	"math"
	"time"

	errs "github.com/matzehuels/treescope/pkg/errors"
	"github.com/matzehuels/treescope/pkg/observability"
)

// Option configures Build.
type Option func(*builder)

// WithActions replaces the tag action table. A nil map disables indexing
// of slots and collections; the identifier index is always built.
func WithActions(actions map[string]Action) Option {
	return func(b *builder) { b.actions = actions }
}

// WithPrune drops children for which fn returns true. The root is never
// pruned, and pruning happens after the child count has been validated.
func WithPrune(fn PruneFunc) Option {
	return func(b *builder) { b.prune = fn }
}

type builder struct {
	actions map[string]Action
	prune   PruneFunc
	snap    *Snapshot
}

// Build lays out src within [start, end) and returns the resulting
// snapshot. The snapshot shares nothing with src except, when src is
// itself a *Node, its immutable attribute maps.
func Build(src Source, start, end float64, opts ...Option) (*Snapshot, error) {
	begin := time.Now()
	snap, err := build(src, start, end, opts)

	tag, size, depth := "", 0, 0
	if snap != nil {
		tag, size, depth = snap.Tag(), snap.size, snap.maxDepth
	}
	observability.Snapshot().OnBuild(tag, size, depth, time.Since(begin), err)
	return snap, err
}

func build(src Source, start, end float64, opts []Option) (*Snapshot, error) {
	if isNil(src) {
		return nil, errs.New(errs.ErrCodeMissingSource, "no source tree supplied")
	}
	if math.IsNaN(start) || math.IsNaN(end) || math.IsInf(start, 0) || math.IsInf(end, 0) {
		return nil, errs.New(errs.ErrCodeInvalidInterval, "interval bounds must be finite")
	}
	if end < start {
		return nil, errs.New(errs.ErrCodeInvalidInterval, "interval end %g precedes start %g", end, start)
	}

	b := &builder{actions: DefaultActions()}
	for _, opt := range opts {
		opt(b)
	}
	b.snap = &Snapshot{
		ids:         make(map[string]*Node),
		slots:       make(map[string]*Node),
		collections: make(map[string][]*Node),
	}

	root := b.visit(src, nil, 0, Interval{Start: start, End: end})
	if err := b.expand(root, src); err != nil {
		return nil, err
	}
	b.snap.Node = root
	return b.snap, nil
}

// visit creates the node for src and records it in the snapshot indices.
func (b *builder) visit(src Source, parent *Node, depth int, iv Interval) *Node {
	n := &Node{
		tag:      src.Tag(),
		attrs:    attributesOf(src),
		parent:   parent,
		depth:    depth,
		interval: iv,
	}
	if id, ok := src.ID(); ok {
		n.id, n.hasID = id, true
		if _, taken := b.snap.ids[id]; !taken {
			b.snap.ids[id] = n
		}
	}
	if a, ok := b.actions[n.tag]; ok {
		b.snap.apply(a, n)
	}
	if depth > b.snap.maxDepth {
		b.snap.maxDepth = depth
	}
	b.snap.size++
	return n
}

// expand lays out the children of src beneath n.
func (b *builder) expand(n *Node, src Source) error {
	declared := src.ChildCount()
	kids := src.Children()
	if declared < 0 || declared != len(kids) {
		return errs.New(errs.ErrCodeInvalidSource,
			"node %s declares %d children but exposes %d", n.Path(), declared, len(kids))
	}

	kept := make([]Source, 0, declared)
	for i := range declared {
		c := kids[i]
		if isNil(c) {
			return errs.New(errs.ErrCodeInvalidSource, "node %s has a nil child at index %d", n.Path(), i)
		}
		if b.prune != nil && b.prune(c) {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		return nil
	}

	iv := n.interval
	w, count := iv.Width(), float64(len(kept))
	n.children = make([]*Node, 0, len(kept))
	for i, c := range kept {
		civ := Interval{
			Start: iv.Start + float64(i)*w/count,
			End:   iv.Start + float64(i+1)*w/count,
		}
		if i == len(kept)-1 {
			civ.End = iv.End
		}
		child := b.visit(c, n, n.depth+1, civ)
		n.children = append(n.children, child)
		if err := b.expand(child, c); err != nil {
			return err
		}
	}
	return nil
}

// attributesOf copies a foreign attribute bag, or reuses the map of a node
// that already belongs to a snapshot.
func attributesOf(src Source) map[string]string {
	if s, ok := src.(attrSharer); ok {
		return s.sharedAttrs()
	}
	attrs := make(map[string]string)
	for k, v := range src.Attrs() {
		attrs[k] = v
	}
	return attrs
}

func isNil(s Source) bool {
	if s == nil {
		return true
	}
	n, ok := s.(*Node)
	return ok && n == nil
}
