package tree

import (
	"encoding/json"
	"io"
)

type jsonSnapshot struct {
	MaxDepth    int            `json:"max_depth"`
	Nodes       int            `json:"nodes"`
	Collections map[string]int `json:"collections,omitempty"`
	Root        *jsonNode      `json:"root"`
}

type jsonNode struct {
	Tag      string            `json:"tag"`
	ID       string            `json:"id,omitempty"`
	Depth    int               `json:"depth"`
	Interval Interval          `json:"interval"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []*jsonNode       `json:"children,omitempty"`
}

// WriteJSON writes an indented JSON description of the snapshot layout.
func WriteJSON(w io.Writer, s *Snapshot) error {
	out := jsonSnapshot{
		MaxDepth: s.maxDepth,
		Nodes:    s.size,
		Root:     toJSON(s.Node),
	}
	if len(s.collections) > 0 {
		out.Collections = make(map[string]int, len(s.collections))
		for k, v := range s.collections {
			out.Collections[k] = len(v)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toJSON(n *Node) *jsonNode {
	j := &jsonNode{
		Tag:      n.tag,
		ID:       n.id,
		Depth:    n.depth,
		Interval: n.interval,
	}
	if len(n.attrs) > 0 {
		j.Attrs = n.attrs
	}
	for _, c := range n.children {
		j.Children = append(j.Children, toJSON(c))
	}
	return j
}
