package tree

// FindNodeAt returns the most specific node under (x, y).
//
// A node whose depth band [depth*rowHeight, (depth+1)*rowHeight] contains
// y matches immediately, before its children are considered. Otherwise the
// search descends into the child whose interval strictly contains x; when
// no child qualifies the current node is returned. The result is nil only
// when root is nil.
func FindNodeAt(root *Node, x, y, rowHeight float64) *Node {
	n := root
	for n != nil {
		top := float64(n.depth) * rowHeight
		if y >= top && y <= top+rowHeight {
			return n
		}
		next := childAt(n, x)
		if next == nil {
			return n
		}
		n = next
	}
	return nil
}

func childAt(n *Node, x float64) *Node {
	for _, c := range n.children {
		if c.interval.Contains(x) {
			return c
		}
	}
	return nil
}
