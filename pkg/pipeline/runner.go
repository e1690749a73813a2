package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treescope/pkg/cache"
	"github.com/matzehuels/treescope/pkg/errors"
	"github.com/matzehuels/treescope/pkg/source/cdp"
	"github.com/matzehuels/treescope/pkg/source/fetch"
	"github.com/matzehuels/treescope/pkg/source/htmldoc"
	"github.com/matzehuels/treescope/pkg/tree"
)

// Runner loads documents and builds snapshots with caching.
//
// The Runner holds no per-document state; one Runner may serve several
// goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL applies to cached pages and DOMs.
	TTL time.Duration
	// Prune lists tags left out of snapshots (e.g. "#text").
	Prune []string
	// Stdin is read for the "-" reference.
	Stdin io.Reader
	// Fetcher downloads URLs; NewRunner builds one over Cache.
	Fetcher *fetch.Fetcher
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses cache.DefaultKeyer and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		TTL:     DefaultCacheTTL,
		Prune:   append([]string(nil), htmldoc.PseudoTags...),
		Stdin:   os.Stdin,
		Fetcher: fetch.New(c, keyer, fetch.WithTTL(DefaultCacheTTL)),
	}
}

// Load resolves ref to a source tree. ref is "-" for stdin, an http(s)
// URL, a path to an HTML file, or a path to a captured DOM (.json).
func (r *Runner) Load(ctx context.Context, ref string, opts LoadOptions) (tree.Source, error) {
	switch {
	case ref == "-":
		return htmldoc.Parse(r.Stdin)
	case errors.IsURL(ref) && opts.Live:
		return r.loadLive(ctx, ref, opts)
	case errors.IsURL(ref):
		body, err := r.Fetcher.Fetch(ctx, ref, opts.Refresh)
		if err != nil {
			return nil, err
		}
		r.Logger.Debug("fetched page", "url", ref, "bytes", len(body))
		return htmldoc.Parse(bytes.NewReader(body))
	}
	return r.loadFile(ref)
}

func (r *Runner) loadFile(path string) (tree.Source, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return cdp.Decode(data)
	}
	return htmldoc.Parse(bytes.NewReader(data))
}

func (r *Runner) loadLive(ctx context.Context, url string, opts LoadOptions) (tree.Source, error) {
	key := r.Keyer.DOMKey(url)
	if !opts.Refresh {
		if data, ok, _ := r.Cache.Get(ctx, key); ok {
			if doc, err := cdp.Decode(data); err == nil {
				r.Logger.Debug("using cached DOM", "url", url)
				return doc, nil
			}
		}
	}

	start := time.Now()
	doc, err := cdp.Load(ctx, url, cdp.Options{
		RemoteURL: opts.RemoteURL,
		Timeout:   opts.Timeout,
		Logger:    r.Logger,
	})
	if err != nil {
		return nil, err
	}
	r.Logger.Info("captured live DOM", "url", url, "duration", time.Since(start).Round(time.Millisecond))

	if data, err := cdp.Encode(doc); err == nil {
		_ = r.Cache.Set(ctx, key, data, r.TTL)
	}
	return doc, nil
}

// Build lays out src across [0, width) with the runner's prune set.
func (r *Runner) Build(src tree.Source, width float64) (*tree.Snapshot, error) {
	start := time.Now()
	snap, err := tree.Build(src, 0, width, r.buildOptions()...)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("built snapshot",
		"root", snap.Tag(),
		"nodes", snap.Len(),
		"max_depth", snap.MaxDepth(),
		"duration", time.Since(start))
	return snap, nil
}

func (r *Runner) buildOptions() []tree.Option {
	if len(r.Prune) == 0 {
		return nil
	}
	return []tree.Option{tree.WithPrune(tree.SkipTags(r.Prune...))}
}

// BuildOptions returns the tree options drills must use to stay
// consistent with snapshots from Build.
func (r *Runner) BuildOptions() []tree.Option { return r.buildOptions() }

// Snapshot loads ref and builds its snapshot.
func (r *Runner) Snapshot(ctx context.Context, ref string, opts LoadOptions, width float64) (*tree.Snapshot, error) {
	src, err := r.Load(ctx, ref, opts)
	if err != nil {
		return nil, err
	}
	snap, err := r.Build(src, width)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("loaded document", "ref", ref, "nodes", snap.Len(), "max_depth", snap.MaxDepth())
	return snap, nil
}

// Reroot rebuilds snap rooted at the node with the given id.
func (r *Runner) Reroot(snap *tree.Snapshot, id string, width float64) (*tree.Snapshot, error) {
	n, ok := snap.Lookup(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no node with id %q", id)
	}
	return r.Build(n, width)
}
