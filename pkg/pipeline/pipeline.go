// Package pipeline loads source trees, builds snapshots and renders them
// to files. The CLI commands and the HTTP front end share it so that
// every entry point loads and renders documents the same way.
//
// # Stages
//
//  1. Load: read a document from a file, stdin, a URL (plain HTTP fetch)
//     or a live browser (CDP), with caching of fetched pages and captured
//     DOMs
//  2. Snapshot: build a laid-out snapshot, pruning ignored node kinds
//  3. Render: paint or export the snapshot in one or more formats
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	snap, err := runner.Snapshot(ctx, "https://example.com", pipeline.LoadOptions{}, 800)
//	if err != nil {
//	    return err
//	}
//	png, err := runner.Render(ctx, snap, pipeline.FormatPNG, pipeline.RenderOptions{Width: 800, Height: 600})
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/treescope/pkg/errors"
	"github.com/matzehuels/treescope/pkg/render"
)

const (
	// DefaultWidth is the default surface width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default surface height in pixels.
	DefaultHeight = 600.0

	// DefaultCacheTTL is how long fetched pages and captured DOMs stay cached.
	DefaultCacheTTL = 24 * time.Hour
)

// Output formats.
const (
	FormatPNG      = "png"
	FormatSVG      = "svg"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatNodelink = "nodelink"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:      true,
	FormatSVG:      true,
	FormatJSON:     true,
	FormatDOT:      true,
	FormatNodelink: true,
}

// Extension returns the file extension written for a format.
func Extension(format string) string {
	if format == FormatNodelink {
		return "nodelink.svg"
	}
	return format
}

// ValidateFormat reports whether format is supported. Formats are
// case-sensitive.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want one of png, svg, json, dot, nodelink)", format)
	}
	return nil
}

// ValidateFormats validates each format in turn.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list, trimming blanks.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no output format given")
	}
	return out, ValidateFormats(out)
}

// LoadOptions controls how a document reference is loaded.
type LoadOptions struct {
	// Live renders URLs in headless Chrome and captures the resulting DOM
	// instead of parsing the fetched HTML.
	Live bool
	// Refresh bypasses cached pages and DOMs.
	Refresh bool
	// RemoteURL is the DevTools websocket of a running browser (Live only).
	RemoteURL string
	// Timeout bounds page loads in Live mode.
	Timeout time.Duration
}

// RenderOptions controls output generation.
type RenderOptions struct {
	Width, Height float64
	Theme         *render.Theme
	// Detailed adds paths and attributes to dot/nodelink labels.
	Detailed bool
}

// ValidateAndSetDefaults fills zero dimensions and rejects invalid ones.
func (o *RenderOptions) ValidateAndSetDefaults() error {
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Theme == nil {
		t := render.DefaultTheme()
		o.Theme = &t
	}
	return nil
}

func (o RenderOptions) String() string {
	return fmt.Sprintf("%gx%g", o.Width, o.Height)
}
