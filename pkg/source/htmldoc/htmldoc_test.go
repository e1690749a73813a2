package htmldoc

import (
	"strings"
	"testing"

	"golang.org/x/net/html/atom"

	"github.com/matzehuels/treescope/pkg/tree"
)

const page = `<!DOCTYPE html>
<html>
<head><title>Demo</title></head>
<body>
  <!-- nav -->
  <div id="main" class="wrap">
    <a href="/one">one</a>
    <a name="two">two</a>
    <img src="x.png">
  </div>
  <form><input></form>
</body>
</html>`

func TestParseTags(t *testing.T) {
	doc, err := Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Tag() != TagDocument {
		t.Errorf("Tag() = %q, want %q", doc.Tag(), TagDocument)
	}

	kids := doc.Children()
	if len(kids) != doc.ChildCount() {
		t.Fatalf("Children() = %d, ChildCount() = %d", len(kids), doc.ChildCount())
	}
	if kids[0].Tag() != TagDoctype {
		t.Errorf("first child = %q, want %q", kids[0].Tag(), TagDoctype)
	}
	if kids[1].Tag() != "html" {
		t.Errorf("second child = %q, want html", kids[1].Tag())
	}
}

func TestAttrsAndID(t *testing.T) {
	doc, err := Parse(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	div, ok := doc.Find(atom.Div)
	if !ok {
		t.Fatal("Find(div) missing")
	}
	id, ok := div.ID()
	if !ok || id != "main" {
		t.Errorf("ID() = %q, %v; want main, true", id, ok)
	}

	attrs := map[string]string{}
	for k, v := range div.Attrs() {
		attrs[k] = v
	}
	if attrs["class"] != "wrap" || attrs["id"] != "main" {
		t.Errorf("Attrs() = %v", attrs)
	}

	body, _ := doc.Find(atom.Body)
	if _, ok := body.ID(); ok {
		t.Error("body without id reported an ID")
	}
}

func TestBuildFromHTML(t *testing.T) {
	doc, err := Parse(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	snap, err := tree.Build(doc, 0, 800, tree.WithPrune(tree.SkipTags(PseudoTags...)))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if snap.Tag() != TagDocument {
		t.Errorf("root = %q", snap.Tag())
	}
	if got := len(snap.Collection("links")); got != 1 {
		t.Errorf("links = %d, want 1", got)
	}
	if got := len(snap.Collection("images")); got != 1 {
		t.Errorf("images = %d, want 1", got)
	}
	if snap.Slot("title") == nil || snap.Slot("body") == nil {
		t.Error("missing title/body slots")
	}
	main, ok := snap.Lookup("main")
	if !ok {
		t.Fatal("Lookup(main) missing")
	}
	if len(main.Nodes()) != 3 {
		t.Errorf("main children = %d, want 3 (text pruned)", len(main.Nodes()))
	}
	// #document > html > body > div > a
	if snap.MaxDepth() != 4 {
		t.Errorf("MaxDepth() = %d, want 4", snap.MaxDepth())
	}
}
