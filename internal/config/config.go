// Package config loads treescope's TOML configuration file.
//
// Example config.toml:
//
//	width = 1024
//	height = 768
//	back_zone = 24
//	prune = ["#text", "#comment", "#doctype", "script"]
//	cache_ttl = "6h"
//
//	[theme]
//	default = "#444444"
//	edge = "#aaaaaa"
//	labeled = ["html", "body", "main"]
//
//	[theme.colors]
//	nav = "#ff8800"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/treescope/pkg/errors"
	"github.com/matzehuels/treescope/pkg/nav"
	"github.com/matzehuels/treescope/pkg/pipeline"
	"github.com/matzehuels/treescope/pkg/render"
	"github.com/matzehuels/treescope/pkg/source/htmldoc"
)

const appName = "treescope"

// Config holds user settings. Command-line flags override them.
type Config struct {
	Width    float64  `toml:"width"`
	Height   float64  `toml:"height"`
	BackZone float64  `toml:"back_zone"`
	Prune    []string `toml:"prune"`
	CacheTTL Duration `toml:"cache_ttl"`
	Theme    Theme    `toml:"theme"`
}

// Theme overrides parts of the built-in render theme.
type Theme struct {
	Default string            `toml:"default"`
	Edge    string            `toml:"edge"`
	Label   string            `toml:"label"`
	Arrow   string            `toml:"arrow"`
	Radius  float64           `toml:"radius"`
	Colors  map[string]string `toml:"colors"`
	Labeled []string          `toml:"labeled"`
}

// Duration decodes TOML strings such as "90m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Width:    pipeline.DefaultWidth,
		Height:   pipeline.DefaultHeight,
		BackZone: nav.BackZone,
		Prune:    append([]string(nil), htmldoc.PseudoTags...),
		CacheTTL: Duration{pipeline.DefaultCacheTTL},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/treescope/config.toml, falling back
// to ~/.config/treescope/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config at path. An empty path loads the default location,
// where a missing file is not an error; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := errors.ValidateDimensions(c.Width, c.Height); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid size")
	}
	if c.BackZone < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "back_zone cannot be negative")
	}
	if c.CacheTTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache_ttl cannot be negative")
	}
	if c.Theme.Radius < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "theme.radius cannot be negative")
	}
	return nil
}

// RenderTheme merges the configured overrides into the default theme.
func (c *Config) RenderTheme() render.Theme {
	o := render.Theme{
		Colors:  c.Theme.Colors,
		Default: c.Theme.Default,
		Edge:    c.Theme.Edge,
		Label:   c.Theme.Label,
		Arrow:   c.Theme.Arrow,
		Radius:  c.Theme.Radius,
	}
	if c.Theme.Labeled != nil {
		o.Labeled = make(map[string]bool, len(c.Theme.Labeled))
		for _, tag := range c.Theme.Labeled {
			o.Labeled[tag] = true
		}
	}
	return render.DefaultTheme().Merge(o)
}
