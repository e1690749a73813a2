// Package fonts provides the label font used by the raster and SVG surfaces.
//
// The face is the Go Regular font shipped with golang.org/x/image, so no
// system fonts are needed to render labels.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family used in SVG output.
const FontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// DefaultSize is the label size in points.
const DefaultSize = 10

var (
	parsed     *opentype.Font
	parseErr   error
	parsedOnce sync.Once
)

func regular() (*opentype.Font, error) {
	parsedOnce.Do(func() {
		parsed, parseErr = opentype.Parse(goregular.TTF)
	})
	return parsed, parseErr
}

// Face returns a Go Regular face at the given point size (72 DPI).
func Face(size float64) (font.Face, error) {
	fnt, err := regular()
	if err != nil {
		return nil, fmt.Errorf("parse goregular: %w", err)
	}
	if size <= 0 {
		size = DefaultSize
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return face, nil
}
