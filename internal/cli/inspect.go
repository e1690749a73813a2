package cli

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treescope/pkg/tree"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		source sourceFlags
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "inspect <file|url|->",
		Short: "Print tree statistics, slots, collections and ids",
		Example: `  treescope inspect page.html
  treescope inspect https://example.com --live --limit 50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], source, limit)
		},
	}

	source.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows in the tag and id tables (0 for all)")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, ref string, source sourceFlags, limit int) error {
	runner, err := c.newRunner(source.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	snap, err := c.loadSnapshot(ctx, runner, ref, source, c.Config.Width)
	if err != nil {
		return err
	}
	writeInspect(os.Stdout, ref, snap, limit)
	return nil
}

// writeInspect prints the summary, index and id tables for snap.
func writeInspect(w io.Writer, ref string, snap *tree.Snapshot, limit int) {
	fmt.Fprintln(w, StyleTitle.Render(ref))

	summary := newTable("property", "value").Rows(
		[]string{"root", snap.Path()},
		[]string{"nodes", itoa(snap.Len())},
		[]string{"max depth", itoa(snap.MaxDepth())},
		[]string{"ids", itoa(snap.IDs())},
	)
	fmt.Fprintln(w, summary.Render())

	if names := sorted(snap.SlotNames()); len(names) > 0 {
		t := newTable("slot", "path")
		for _, name := range names {
			t.Row(name, snap.Slot(name).Path())
		}
		fmt.Fprintln(w, t.Render())
	}

	if names := sorted(snap.CollectionNames()); len(names) > 0 {
		t := newTable("collection", "count")
		for _, name := range names {
			t.Row(name, itoa(len(snap.Collection(name))))
		}
		fmt.Fprintln(w, t.Render())
	}

	tags := tagCounts(snap)
	t := newTable("tag", "count")
	for _, tc := range truncate(tags, limit) {
		t.Row(tc.tag, itoa(tc.count))
	}
	fmt.Fprintln(w, t.Render())

	if ids := indexedNodes(snap); len(ids) > 0 {
		t := newTable("id", "depth", "interval")
		for _, n := range truncate(ids, limit) {
			id, _ := n.ID()
			iv := n.Interval()
			t.Row(id, itoa(n.Depth()), fmt.Sprintf("[%.1f, %.1f)", iv.Start, iv.End))
		}
		fmt.Fprintln(w, t.Render())
		if limit > 0 && len(ids) > limit {
			fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("  … %d more ids", len(ids)-limit)))
		}
	}
}

type tagCount struct {
	tag   string
	count int
}

// tagCounts returns tag frequencies, most frequent first.
func tagCounts(snap *tree.Snapshot) []tagCount {
	counts := map[string]int{}
	snap.Walk(func(n *tree.Node) bool {
		counts[n.Tag()]++
		return true
	})
	out := make([]tagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, tagCount{tag, n})
	}
	slices.SortFunc(out, func(a, b tagCount) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.tag, b.tag)
	})
	return out
}

// indexedNodes returns the nodes reachable through Lookup, in document
// order. Later duplicates of an id are not indexed and are skipped.
func indexedNodes(snap *tree.Snapshot) []*tree.Node {
	var out []*tree.Node
	snap.Walk(func(n *tree.Node) bool {
		if id, ok := n.ID(); ok {
			if m, _ := snap.Lookup(id); m == n {
				out = append(out, n)
			}
		}
		return true
	})
	return out
}

func sorted(s []string) []string {
	slices.Sort(s)
	return s
}

func truncate[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
