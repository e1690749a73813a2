// Package cli implements the treescope command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treescope/internal/config"
	"github.com/matzehuels/treescope/pkg/cache"
	"github.com/matzehuels/treescope/pkg/pipeline"
	"github.com/matzehuels/treescope/pkg/source/fetch"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "treescope"

	// defaultLiveTimeout bounds headless page loads (seconds).
	defaultLiveTimeout = 30
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner configured from the loaded config.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	if ttl := c.Config.CacheTTL.Duration; ttl > 0 {
		r.TTL = ttl
		r.Fetcher = fetch.New(cc, r.Keyer, fetch.WithTTL(ttl))
	}
	if c.Config.Prune != nil {
		r.Prune = c.Config.Prune
	}
	return r, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// renderOptions resolves output dimensions, falling back to the config.
func (c *CLI) renderOptions(width, height float64, detailed bool) pipeline.RenderOptions {
	if width == 0 {
		width = c.Config.Width
	}
	if height == 0 {
		height = c.Config.Height
	}
	theme := c.Config.RenderTheme()
	return pipeline.RenderOptions{
		Width:    width,
		Height:   height,
		Theme:    &theme,
		Detailed: detailed,
	}
}

// =============================================================================
// Source Flags
// =============================================================================

// sourceFlags are the document loading flags shared by every command that
// takes a <ref> argument.
type sourceFlags struct {
	live    bool
	remote  string
	timeout int
	noCache bool
	refresh bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.live, "live", false, "render URLs in headless Chrome and capture the live DOM")
	cmd.Flags().StringVar(&f.remote, "remote", "", "DevTools websocket URL of a running browser (with --live)")
	cmd.Flags().IntVar(&f.timeout, "timeout", defaultLiveTimeout, "page load timeout in seconds (with --live)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "bypass cached pages")
}

func (f *sourceFlags) options() pipeline.LoadOptions {
	return pipeline.LoadOptions{
		Live:      f.live,
		Refresh:   f.refresh,
		RemoteURL: f.remote,
		Timeout:   time.Duration(f.timeout) * time.Second,
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/treescope/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
