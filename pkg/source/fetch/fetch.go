// Package fetch downloads HTML documents over HTTP with caching and
// retries.
package fetch

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/treescope/pkg/buildinfo"
	"github.com/matzehuels/treescope/pkg/cache"
	"github.com/matzehuels/treescope/pkg/errors"
	"github.com/matzehuels/treescope/pkg/observability"
)

const (
	httpTimeout = 15 * time.Second
	// MaxBodyBytes caps how much of a response is read.
	MaxBodyBytes = 16 << 20
)

// Fetcher retrieves pages, consulting a cache first.
type Fetcher struct {
	http       *http.Client
	cache      cache.Cache
	keyer      cache.Keyer
	ttl        time.Duration
	retryDelay time.Duration
	headers    map[string]string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default client (15s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.http = c }
}

// WithTTL sets how long fetched pages stay cached. Zero never expires.
func WithTTL(ttl time.Duration) Option {
	return func(f *Fetcher) { f.ttl = ttl }
}

// WithRetryDelay sets the initial backoff between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(f *Fetcher) { f.retryDelay = d }
}

// WithHeader adds a request header.
func WithHeader(key, value string) Option {
	return func(f *Fetcher) { f.headers[key] = value }
}

// New creates a Fetcher. A nil cache disables caching and a nil keyer
// uses cache.DefaultKeyer.
func New(c cache.Cache, keyer cache.Keyer, opts ...Option) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	f := &Fetcher{
		http:       &http.Client{Timeout: httpTimeout},
		cache:      c,
		keyer:      keyer,
		retryDelay: time.Second,
		headers: map[string]string{
			"User-Agent": buildinfo.UserAgent(),
			"Accept":     "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8",
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the body of url. Unless refresh is set a cached copy is
// returned when present. Transient failures (network errors, 5xx) are
// retried with exponential backoff.
func (f *Fetcher) Fetch(ctx context.Context, url string, refresh bool) ([]byte, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}
	key := f.keyer.PageKey(url)
	if !refresh {
		if data, ok, _ := f.cache.Get(ctx, key); ok {
			return data, nil
		}
	}

	var body []byte
	err := cache.Retry(ctx, 3, f.retryDelay, func() error {
		var err error
		body, err = f.get(ctx, url)
		return err
	})
	if err != nil {
		return nil, classify(err, url)
	}
	_ = f.cache.Set(ctx, key, body, f.ttl)
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := f.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: read body: %v", cache.ErrNetwork, err))
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return cache.ErrNotFound
	case code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", cache.ErrNetwork, code)
	}
}

func classify(err error, url string) error {
	switch {
	case stderrors.Is(err, cache.ErrNotFound):
		return errors.Wrap(errors.ErrCodeNotFound, err, "fetch %s", url)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", url)
	default:
		return errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)
	}
}
