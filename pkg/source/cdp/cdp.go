// Package cdp loads live DOM trees from a headless Chrome over the Chrome
// DevTools Protocol and adapts them to [tree.Source].
//
// [Load] navigates a fresh tab, waits for the load event and fetches the
// whole document with DOM.getDocument (depth -1, piercing shadow roots).
// The resulting proto.DOMNode tree is wrapped as-is; [Encode] and [Decode]
// round-trip it through JSON so callers can cache captured documents.
package cdp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"iter"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/matzehuels/treescope/pkg/errors"
	"github.com/matzehuels/treescope/pkg/tree"
)

// DOM node types as reported by CDP.
const (
	typeElement  = 1
	typeText     = 3
	typeComment  = 8
	typeDocument = 9
	typeDoctype  = 10
	typeFragment = 11
)

// Node wraps a CDP DOM node.
type Node struct {
	n *proto.DOMNode
}

// Wrap adapts a CDP node.
func Wrap(n *proto.DOMNode) *Node { return &Node{n: n} }

// DOM returns the wrapped node.
func (d *Node) DOM() *proto.DOMNode { return d.n }

// Tag implements tree.Source. Element names are lowercased; other node
// types get the same pseudo-tags as the htmldoc package.
func (d *Node) Tag() string {
	switch d.n.NodeType {
	case typeDocument:
		return "#document"
	case typeText:
		return "#text"
	case typeComment:
		return "#comment"
	case typeDoctype:
		return "#doctype"
	case typeFragment:
		return "#document-fragment"
	}
	return strings.ToLower(d.n.NodeName)
}

// ChildCount implements tree.Source. It reports the count CDP declared,
// which disagrees with Children when the tree was fetched with a depth
// limit.
func (d *Node) ChildCount() int {
	if d.n.ChildNodeCount != nil {
		return *d.n.ChildNodeCount
	}
	return len(d.n.Children)
}

// Children implements tree.Source.
func (d *Node) Children() []tree.Source {
	out := make([]tree.Source, 0, len(d.n.Children))
	for _, c := range d.n.Children {
		if c == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, Wrap(c))
	}
	return out
}

// Attrs implements tree.Source over CDP's flat name/value list.
func (d *Node) Attrs() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		a := d.n.Attributes
		for i := 0; i+1 < len(a); i += 2 {
			if !yield(a[i], a[i+1]) {
				return
			}
		}
	}
}

// ID implements tree.Source using the element's id attribute.
func (d *Node) ID() (string, bool) {
	if d.n.NodeType != typeElement {
		return "", false
	}
	for k, v := range d.Attrs() {
		if k == "id" && v != "" {
			return v, true
		}
	}
	return "", false
}

// Encode serializes the wrapped DOM tree.
func Encode(n *Node) ([]byte, error) {
	return json.Marshal(n.n)
}

// Decode restores a DOM tree written by Encode.
func Decode(data []byte) (*Node, error) {
	var dom proto.DOMNode
	if err := json.Unmarshal(data, &dom); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "decode DOM snapshot")
	}
	return Wrap(&dom), nil
}

// Options configures Load.
type Options struct {
	// RemoteURL connects to an already running browser (ws://...). Empty
	// launches a local headless Chrome.
	RemoteURL string
	// Timeout bounds navigation and the load wait. Zero means 30s.
	Timeout time.Duration
	Logger  *log.Logger
}

// Load opens pageURL in a browser tab and returns its document node.
func Load(ctx context.Context, pageURL string, opts Options) (*Node, error) {
	if err := errors.ValidateURL(pageURL); err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	wsURL := opts.RemoteURL
	if wsURL == "" {
		l := launcher.New().Headless(true)
		u, err := l.Launch()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeBrowser, err, "launch chrome")
		}
		defer l.Cleanup()
		defer l.Kill()
		wsURL = u
		logger.Debug("launched local chrome", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBrowser, err, "connect to browser")
	}
	defer b.Close()

	page, err := b.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBrowser, err, "create tab")
	}
	defer page.Close()

	navCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		return nil, browserErr(err, "navigate %s", pageURL)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		logger.Warn("wait load failed, using partial document", "url", pageURL, "err", err)
	}

	depth := -1
	doc, err := proto.DOMGetDocument{Depth: &depth, Pierce: true}.Call(page)
	if err != nil {
		return nil, browserErr(err, "DOM.getDocument")
	}
	logger.Debug("captured DOM", "url", pageURL)
	return Wrap(doc.Root), nil
}

func browserErr(err error, format string, args ...any) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeTimeout, err, format, args...)
	}
	return errors.Wrap(errors.ErrCodeBrowser, err, format, args...)
}

var _ tree.Source = (*Node)(nil)
