package tree

// Snapshot is an immutable laid-out tree together with the indices
// collected while it was built. It embeds its root node.
type Snapshot struct {
	*Node

	maxDepth    int
	size        int
	ids         map[string]*Node
	slots       map[string]*Node
	collections map[string][]*Node
}

// Root returns the snapshot's root node.
func (s *Snapshot) Root() *Node { return s.Node }

// MaxDepth returns the depth of the deepest node.
func (s *Snapshot) MaxDepth() int { return s.maxDepth }

// Len returns the number of nodes in the snapshot.
func (s *Snapshot) Len() int { return s.size }

// Lookup returns the node registered under a stable identifier.
func (s *Snapshot) Lookup(id string) (*Node, bool) {
	n, ok := s.ids[id]
	return n, ok
}

// IDs returns the number of registered identifiers.
func (s *Snapshot) IDs() int { return len(s.ids) }

// Slot returns the node recorded in a root slot such as "body", or nil.
func (s *Snapshot) Slot(name string) *Node { return s.slots[name] }

// SlotNames returns the names of all recorded slots.
func (s *Snapshot) SlotNames() []string {
	names := make([]string, 0, len(s.slots))
	for k := range s.slots {
		names = append(names, k)
	}
	return names
}

// Collection returns the nodes gathered under a collection name such as
// "links", in document order.
func (s *Snapshot) Collection(name string) []*Node { return s.collections[name] }

// CollectionNames returns the names of all non-empty collections.
func (s *Snapshot) CollectionNames() []string {
	names := make([]string, 0, len(s.collections))
	for k := range s.collections {
		names = append(names, k)
	}
	return names
}

// RowHeight returns the height of one depth band when the snapshot is
// drawn on a surface of the given height. It never returns less than 1.
func (s *Snapshot) RowHeight(height float64) float64 {
	return RowHeight(height, s.maxDepth)
}

// NodeAt hit-tests the snapshot for a surface of the given height.
func (s *Snapshot) NodeAt(x, y, height float64) *Node {
	return FindNodeAt(s.Node, x, y, s.RowHeight(height))
}

// RowHeight divides height into maxDepth+1 bands, clamped to a minimum of
// one unit so that degenerate surfaces still produce a usable layout.
func RowHeight(height float64, maxDepth int) float64 {
	rh := height / float64(maxDepth+1)
	if !(rh >= 1) {
		return 1
	}
	return rh
}
