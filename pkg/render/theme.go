package render

import (
	"maps"

	"github.com/matzehuels/treescope/pkg/canvas"
)

// Theme holds the fixed colors and geometry used by the renderer.
type Theme struct {
	// Colors maps lowercase tags to disc colors.
	Colors map[string]string
	// Default is the disc color for tags missing from Colors.
	Default string
	Edge    string
	Label   string
	// Arrow is the fill color of the back affordance.
	Arrow  string
	Radius float64
	// LabelOffset is added to a node's position to place its label.
	LabelOffset canvas.Point
	// Labeled lists tags whose name is always drawn.
	Labeled map[string]bool
}

// DefaultTheme returns the built-in palette.
func DefaultTheme() Theme {
	return Theme{
		Colors: map[string]string{
			"html":   "#e34c26",
			"head":   "#8e44ad",
			"title":  "#8e44ad",
			"meta":   "#8e44ad",
			"link":   "#8e44ad",
			"body":   "#2c3e50",
			"div":    "#3498db",
			"span":   "#1abc9c",
			"p":      "#27ae60",
			"a":      "#e67e22",
			"img":    "#f1c40f",
			"ul":     "#9b59b6",
			"ol":     "#9b59b6",
			"li":     "#9b59b6",
			"table":  "#16a085",
			"tr":     "#16a085",
			"td":     "#16a085",
			"form":   "#c0392b",
			"input":  "#c0392b",
			"button": "#c0392b",
			"script": "#7f8c8d",
			"style":  "#95a5a6",
			"#text":  "#bdc3c7",
		},
		Default:     "#555555",
		Edge:        "#999999",
		Label:       "#222222",
		Arrow:       "#333333",
		Radius:      5,
		LabelOffset: canvas.Point{X: 7, Y: -7},
		Labeled: map[string]bool{
			"html": true, "head": true, "body": true,
			"form": true, "table": true, "ul": true,
		},
	}
}

// ColorOf returns the disc color for a tag.
func (t Theme) ColorOf(tag string) string {
	if c, ok := t.Colors[tag]; ok {
		return c
	}
	return t.Default
}

// Merge returns t with every non-zero field of o applied on top. Colors
// are merged per tag; Labeled is replaced when o sets it.
func (t Theme) Merge(o Theme) Theme {
	out := t
	out.Colors = maps.Clone(t.Colors)
	if out.Colors == nil {
		out.Colors = map[string]string{}
	}
	maps.Copy(out.Colors, o.Colors)
	if o.Default != "" {
		out.Default = o.Default
	}
	if o.Edge != "" {
		out.Edge = o.Edge
	}
	if o.Label != "" {
		out.Label = o.Label
	}
	if o.Arrow != "" {
		out.Arrow = o.Arrow
	}
	if o.Radius > 0 {
		out.Radius = o.Radius
	}
	if o.LabelOffset != (canvas.Point{}) {
		out.LabelOffset = o.LabelOffset
	}
	if o.Labeled != nil {
		out.Labeled = maps.Clone(o.Labeled)
	}
	return out
}
