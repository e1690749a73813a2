package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treescope/pkg/pipeline"
	"github.com/matzehuels/treescope/pkg/source/htmldoc"
	"github.com/matzehuels/treescope/pkg/tree"
)

const inspectPage = `<html><head><title>t</title></head><body>
<div id="main"><a href="/x">x</a><a href="/y">y</a><img src="i.png"></div>
<p id="main">dup</p><p id="note">n</p>
</body></html>`

func buildInspectSnapshot(t *testing.T) *tree.Snapshot {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	src, err := htmldoc.Parse(strings.NewReader(inspectPage))
	if err != nil {
		t.Fatal(err)
	}
	snap, err := runner.Build(src, 800)
	if err != nil {
		t.Fatal(err)
	}
	return snap
}

func TestWriteInspect(t *testing.T) {
	snap := buildInspectSnapshot(t)
	var buf bytes.Buffer
	writeInspect(&buf, "page.html", snap, 0)
	out := buf.String()

	for _, want := range []string{"page.html", "nodes", "max depth", "body", "links", "images", "main", "note"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTagCounts(t *testing.T) {
	got := tagCounts(buildInspectSnapshot(t))
	if len(got) == 0 {
		t.Fatal("no tags")
	}
	// a and p appear twice each and sort alphabetically before the rest.
	if got[0] != (tagCount{"a", 2}) || got[1] != (tagCount{"p", 2}) {
		t.Errorf("tagCounts()[:2] = %v, want [{a 2} {p 2}]", got[:2])
	}
	for i := 1; i < len(got); i++ {
		if got[i].count > got[i-1].count {
			t.Errorf("tagCounts() not sorted at %d: %v", i, got)
		}
	}
}

func TestIndexedNodesSkipsDuplicates(t *testing.T) {
	nodes := indexedNodes(buildInspectSnapshot(t))
	var ids []string
	for _, n := range nodes {
		id, _ := n.ID()
		ids = append(ids, id)
	}
	if strings.Join(ids, ",") != "main,note" {
		t.Errorf("indexedNodes() ids = %v, want [main note]", ids)
	}
	if nodes[0].Tag() != "div" {
		t.Errorf("main resolves to %q, want the first (div)", nodes[0].Tag())
	}
}

func TestTruncate(t *testing.T) {
	s := []int{1, 2, 3}
	if got := truncate(s, 2); len(got) != 2 {
		t.Errorf("truncate(s, 2) = %v", got)
	}
	if got := truncate(s, 0); len(got) != 3 {
		t.Errorf("truncate(s, 0) = %v", got)
	}
}
