package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/treescope/pkg/canvas"
	"github.com/matzehuels/treescope/pkg/render"
	"github.com/matzehuels/treescope/pkg/render/nodelink"
	"github.com/matzehuels/treescope/pkg/tree"
)

// Render produces one artifact for snap.
func (r *Runner) Render(ctx context.Context, snap *tree.Snapshot, format string, opts RenderOptions) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	theme := render.WithTheme(*opts.Theme)

	switch format {
	case FormatPNG:
		surface, err := canvas.NewRaster(int(opts.Width), int(opts.Height))
		if err != nil {
			return nil, err
		}
		render.Draw(surface, snap, theme)
		var buf bytes.Buffer
		if err := surface.EncodePNG(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatSVG:
		surface := canvas.NewSVG(opts.Width, opts.Height)
		render.Draw(surface, snap, theme)
		return surface.Bytes(), nil
	case FormatJSON:
		var buf bytes.Buffer
		if err := tree.WriteJSON(&buf, snap); err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(snap, r.nodelinkOptions(opts))), nil
	default:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(snap, r.nodelinkOptions(opts)))
	}
}

// RenderAll renders every requested format.
func (r *Runner) RenderAll(ctx context.Context, snap *tree.Snapshot, formats []string, opts RenderOptions) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, f := range formats {
		data, err := r.Render(ctx, snap, f, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		artifacts[f] = data
	}
	r.Logger.Debug("rendered outputs", "formats", formats, "size", opts.String())
	return artifacts, nil
}

func (r *Runner) nodelinkOptions(opts RenderOptions) nodelink.Options {
	return nodelink.Options{Detailed: opts.Detailed, Colors: opts.Theme.Colors}
}
