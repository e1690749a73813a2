// Package htmldoc adapts parsed HTML documents to [tree.Source].
//
// Every node of the parse tree is exposed, including text, comment and
// doctype nodes, which receive the pseudo-tags "#text", "#comment" and
// "#doctype". The document itself is "#document". Callers that only want
// elements prune the pseudo-tags at build time with [tree.SkipTags] and
// [PseudoTags].
package htmldoc

import (
	"fmt"
	"io"
	"iter"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/matzehuels/treescope/pkg/tree"
)

// Pseudo-tags given to non-element nodes.
const (
	TagDocument = "#document"
	TagText     = "#text"
	TagComment  = "#comment"
	TagDoctype  = "#doctype"
)

// PseudoTags lists the tags of non-element nodes other than the document.
var PseudoTags = []string{TagText, TagComment, TagDoctype}

// Node wraps an *html.Node.
type Node struct {
	n *html.Node
}

// Parse reads an HTML document and returns its document node.
func Parse(r io.Reader) (*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return Wrap(doc), nil
}

// Wrap adapts an existing parse tree node.
func Wrap(n *html.Node) *Node { return &Node{n: n} }

// HTML returns the wrapped node.
func (d *Node) HTML() *html.Node { return d.n }

// Tag implements tree.Source.
func (d *Node) Tag() string {
	switch d.n.Type {
	case html.DocumentNode:
		return TagDocument
	case html.TextNode:
		return TagText
	case html.CommentNode:
		return TagComment
	case html.DoctypeNode:
		return TagDoctype
	}
	if d.n.DataAtom != 0 {
		return d.n.DataAtom.String()
	}
	return d.n.Data
}

// ChildCount implements tree.Source.
func (d *Node) ChildCount() int {
	count := 0
	for c := d.n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// Children implements tree.Source.
func (d *Node) Children() []tree.Source {
	var out []tree.Source
	for c := d.n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, Wrap(c))
	}
	return out
}

// Attrs implements tree.Source. Namespaced attributes are reported as
// "ns:key".
func (d *Node) Attrs() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, a := range d.n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + key
			}
			if !yield(key, a.Val) {
				return
			}
		}
	}
}

// ID implements tree.Source using the element's id attribute.
func (d *Node) ID() (string, bool) {
	if d.n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range d.n.Attr {
		if a.Namespace == "" && a.Key == "id" && a.Val != "" {
			return a.Val, true
		}
	}
	return "", false
}

// Find returns the first element with the given tag in document order.
func (d *Node) Find(tag atom.Atom) (*Node, bool) {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == tag {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.n)
	if found == nil {
		return nil, false
	}
	return Wrap(found), true
}

var _ tree.Source = (*Node)(nil)
