package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/treescope/pkg/errors"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, ref, want string
	}{
		{"", "page.html", "page"},
		{"", "dir/page.htm", "dir/page"},
		{"", "-", "stdin"},
		{"", "https://example.com/a/b", "example.com"},
		{"", "http://localhost:8080/", "localhost"},
		{"out.svg", "page.html", "out"},
		{"out.png", "page.html", "out"},
		{"out.txt", "page.html", "out.txt"},
		{"out", "page.html", "out"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.ref); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.ref, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	single := outputPaths("tree.out", "page.html", []string{"svg"})
	if single["svg"] != "tree.out" {
		t.Errorf("single format path = %q, want tree.out", single["svg"])
	}

	multi := outputPaths("", "page.html", []string{"png", "nodelink"})
	if multi["png"] != "page.png" {
		t.Errorf("png path = %q", multi["png"])
	}
	if multi["nodelink"] != "page.nodelink.svg" {
		t.Errorf("nodelink path = %q", multi["nodelink"])
	}
}

func TestRunRender(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	in := filepath.Join(dir, "page.html")
	if err := os.WriteFile(in, []byte(servePage), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	ctx := withLogger(context.Background(), c.Logger)
	opts := &renderOpts{
		source:  sourceFlags{noCache: true},
		output:  filepath.Join(dir, "out"),
		formats: []string{"svg", "json", "dot"},
		root:    "b",
	}
	if err := c.runRender(ctx, in, opts); err != nil {
		t.Fatalf("runRender() error = %v", err)
	}
	for _, ext := range []string{"svg", "json", "dot"} {
		info, err := os.Stat(filepath.Join(dir, "out."+ext))
		if err != nil {
			t.Errorf("missing out.%s: %v", ext, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("out.%s is empty", ext)
		}
	}
}

func TestRunRenderUnknownRoot(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "page.html")
	if err := os.WriteFile(in, []byte(servePage), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	opts := &renderOpts{
		source:  sourceFlags{noCache: true},
		output:  filepath.Join(dir, "out.svg"),
		formats: []string{"svg"},
		root:    "missing",
	}
	err := c.runRender(withLogger(context.Background(), c.Logger), in, opts)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("runRender() error = %v, want NOT_FOUND", err)
	}
}
