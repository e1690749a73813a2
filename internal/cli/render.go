package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treescope/pkg/errors"
	"github.com/matzehuels/treescope/pkg/pipeline"
	"github.com/matzehuels/treescope/pkg/tree"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	source   sourceFlags
	output   string   // output file path (or base path for multiple outputs)
	formats  []string // png, svg, json, dot, nodelink
	width    float64
	height   float64
	root     string // id of the node to re-root at
	detailed bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := &renderOpts{}
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "render <file|url|->",
		Short: "Draw a document tree to PNG, SVG, JSON or DOT",
		Long: `Render loads a document, lays out its element tree and writes one file per
requested format. Use --root to start from the element with the given id.`,
		Example: `  treescope render page.html
  treescope render https://example.com -f png,svg -o example
  curl -s https://example.com | treescope render - -o out.svg
  treescope render page.html --root main -f nodelink --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = []string{pipeline.FormatSVG}
			if formatsStr != "" {
				formats, err := pipeline.ParseFormats(formatsStr)
				if err != nil {
					return err
				}
				opts.formats = formats
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple); \"-\" for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json, dot, nodelink (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "surface width (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "surface height (default from config)")
	cmd.Flags().StringVar(&opts.root, "root", "", "re-root at the element with this id")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "add paths, intervals and attributes to dot/nodelink labels")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, ref string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	ro := c.renderOptions(opts.width, opts.height, opts.detailed)
	if err := ro.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(opts.source.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	snap, err := c.loadSnapshot(ctx, runner, ref, opts.source, ro.Width)
	if err != nil {
		return err
	}
	if opts.root != "" {
		if snap, err = runner.Reroot(snap, opts.root, ro.Width); err != nil {
			return err
		}
		logger.Infof("Re-rooted at %s (%d nodes)", snap.Path(), snap.Len())
	}

	artifacts, err := runner.RenderAll(ctx, snap, opts.formats, ro)
	if err != nil {
		return err
	}

	paths := outputPaths(opts.output, ref, opts.formats)
	for _, f := range opts.formats {
		if err := writeOutput(paths[f], artifacts[f]); err != nil {
			return err
		}
		if paths[f] != "-" {
			logger.Infof("Generated %s", paths[f])
		}
	}
	prog.done("Rendered " + strings.Join(opts.formats, ", "))
	return nil
}

// loadSnapshot loads ref behind a spinner when output goes to a terminal.
func (c *CLI) loadSnapshot(ctx context.Context, runner *pipeline.Runner, ref string, sf sourceFlags, width float64) (*tree.Snapshot, error) {
	if !sf.live {
		return runner.Snapshot(ctx, ref, sf.options(), width)
	}
	spinner := newSpinnerWithContext(ctx, "Capturing live DOM...")
	spinner.Start()
	snap, err := runner.Snapshot(ctx, ref, sf.options(), width)
	if err != nil {
		spinner.StopWithError("Capture failed")
		return nil, err
	}
	spinner.Stop()
	return snap, nil
}

// outputPaths maps each format to its output file. With one format an
// explicit output is used as is; otherwise formats share a base path
// derived from output or the input reference.
func outputPaths(output, ref string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, ref)
	for _, f := range formats {
		paths[f] = base + "." + pipeline.Extension(f)
	}
	return paths
}

// basePath derives the base output path. An empty output strips the
// extension from a file input; URLs and stdin use the host name or
// "stdin". A known format extension on output is stripped.
func basePath(output, ref string) string {
	if output == "" {
		switch {
		case ref == "-":
			return "stdin"
		case errors.IsURL(ref):
			return urlBase(ref)
		}
		return strings.TrimSuffix(ref, filepath.Ext(ref))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func urlBase(u string) string {
	host := u[strings.Index(u, "://")+3:]
	if i := strings.IndexAny(host, "/?#:"); i >= 0 {
		host = host[:i]
	}
	if host == "" {
		return "page"
	}
	return host
}

func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// openOutput returns a WriteCloser for path; "-" is stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
