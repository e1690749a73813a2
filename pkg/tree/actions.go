package tree

// ActionKind selects what Build does when it visits a node with a
// matching tag.
type ActionKind int

const (
	// RecordSlot stores the first matching node under Action.Name.
	RecordSlot ActionKind = iota
	// AppendCollection appends every matching node to the collection
	// Action.Name, provided the node carries Action.Guard (if set).
	AppendCollection
)

// Action is a per-tag indexing rule applied during Build.
type Action struct {
	Kind  ActionKind
	Name  string
	Guard string
}

// DefaultActions mirrors the document-level shortcuts a browser exposes
// (document.body, document.links, document.images, ...).
func DefaultActions() map[string]Action {
	return map[string]Action{
		"head":   {Kind: RecordSlot, Name: "head"},
		"body":   {Kind: RecordSlot, Name: "body"},
		"title":  {Kind: RecordSlot, Name: "title"},
		"img":    {Kind: AppendCollection, Name: "images"},
		"a":      {Kind: AppendCollection, Name: "links", Guard: "href"},
		"area":   {Kind: AppendCollection, Name: "links", Guard: "href"},
		"form":   {Kind: AppendCollection, Name: "forms"},
		"script": {Kind: AppendCollection, Name: "scripts"},
		"embed":  {Kind: AppendCollection, Name: "embeds"},
	}
}

func (s *Snapshot) apply(a Action, n *Node) {
	switch a.Kind {
	case RecordSlot:
		if _, ok := s.slots[a.Name]; !ok {
			s.slots[a.Name] = n
		}
	case AppendCollection:
		if a.Guard != "" {
			if _, ok := n.attrs[a.Guard]; !ok {
				return
			}
		}
		s.collections[a.Name] = append(s.collections[a.Name], n)
	}
}
