package canvas

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Pixel size of one terminal cell. The grid is addressed in pixels like
// every other surface and quantized on write.
const (
	CellWidth  = 8
	CellHeight = 16
)

const (
	runeDisc    = '●'
	runeFill    = '█'
	runeArrow   = '◀'
	runeVert    = '│'
	runeHoriz   = '─'
	runeDiagDn  = '╲'
	runeDiagUp  = '╱'
	runeBlank   = ' '
	lineWeight  = 1
	shapeWeight = 2
)

type cell struct {
	r      rune
	fg     string
	weight int
}

// Cells is a character-grid surface for terminals.
type Cells struct {
	cols, rows int
	grid       []cell
	stroke     string
	fill       string
}

// NewCells creates a cols x rows grid. Negative sizes are treated as zero.
func NewCells(cols, rows int) *Cells {
	c := &Cells{stroke: DefaultStroke, fill: DefaultFill}
	c.Resize(cols, rows)
	return c
}

// Resize reallocates the grid, discarding its contents.
func (c *Cells) Resize(cols, rows int) {
	c.cols, c.rows = max(cols, 0), max(rows, 0)
	c.grid = make([]cell, c.cols*c.rows)
	c.Clear()
}

// Cols returns the grid width in cells.
func (c *Cells) Cols() int { return c.cols }

// Rows returns the grid height in cells.
func (c *Cells) Rows() int { return c.rows }

func (c *Cells) Width() float64  { return float64(c.cols * CellWidth) }
func (c *Cells) Height() float64 { return float64(c.rows * CellHeight) }

func (c *Cells) Clear() {
	for i := range c.grid {
		c.grid[i] = cell{r: runeBlank}
	}
}

func (c *Cells) SetStrokeColor(col string) { c.stroke = col }
func (c *Cells) SetFillColor(col string)   { c.fill = col }

// StrokeLine walks the cells between both endpoints. Lines never
// overwrite discs, text or filled shapes.
func (c *Cells) StrokeLine(x0, y0, x1, y1 float64) {
	c0, r0 := cellOf(x0, y0)
	c1, r1 := cellOf(x1, y1)
	glyph := lineRune(c1-c0, r1-r0)

	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := sign(c1-c0), sign(r1-r0)
	e := dc + dr
	for {
		c.put(c0, r0, glyph, c.stroke, lineWeight)
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * e
		if e2 >= dr {
			e += dr
			c0 += sc
		}
		if e2 <= dc {
			e += dc
			r0 += sr
		}
	}
}

func (c *Cells) FillDisc(x, y, _ float64) {
	col, row := cellOf(x, y)
	c.put(col, row, runeDisc, c.fill, shapeWeight)
}

func (c *Cells) FillText(text string, x, y float64) {
	col, row := cellOf(x, y-1)
	for _, r := range text {
		c.put(col, row, r, c.fill, shapeWeight)
		col++
	}
}

// FillPolygon fills every cell whose center lies inside the polygon. A
// polygon smaller than a cell is drawn as a single arrow glyph at its
// centroid.
func (c *Cells) FillPolygon(pts []Point) {
	if len(pts) < 3 {
		return
	}
	filled := false
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			x, y := CellCenter(col, row)
			if inside(pts, x, y) {
				c.put(col, row, runeFill, c.fill, shapeWeight)
				filled = true
			}
		}
	}
	if filled {
		return
	}
	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	n := float64(len(pts))
	col, row := cellOf(cx/n, cy/n)
	c.put(col, row, runeArrow, c.fill, shapeWeight)
}

// CellCenter returns the pixel coordinates of the center of a cell. Use it
// to translate terminal mouse positions into surface clicks.
func CellCenter(col, row int) (x, y float64) {
	return float64(col*CellWidth) + CellWidth/2, float64(row*CellHeight) + CellHeight/2
}

// Plain returns the grid as text without colors.
func (c *Cells) Plain() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.cols; col++ {
			b.WriteRune(c.grid[row*c.cols+col].r)
		}
	}
	return b.String()
}

// String renders the grid with lipgloss, coloring runs of equal color.
func (c *Cells) String() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		line := c.grid[row*c.cols : (row+1)*c.cols]
		for start := 0; start < len(line); {
			end := start + 1
			for end < len(line) && line[end].fg == line[start].fg {
				end++
			}
			var run strings.Builder
			for _, cl := range line[start:end] {
				run.WriteRune(cl.r)
			}
			if fg := line[start].fg; fg != "" {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(fg)).Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			start = end
		}
	}
	return b.String()
}

// At returns the rune at a cell, or a space outside the grid.
func (c *Cells) At(col, row int) rune {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return runeBlank
	}
	return c.grid[row*c.cols+col].r
}

func (c *Cells) put(col, row int, r rune, fg string, weight int) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	cl := &c.grid[row*c.cols+col]
	if cl.weight > weight {
		return
	}
	*cl = cell{r: r, fg: fg, weight: weight}
}

func cellOf(x, y float64) (col, row int) {
	return int(math.Floor(x / CellWidth)), int(math.Floor(y / CellHeight))
}

func lineRune(dc, dr int) rune {
	switch {
	case dc == 0:
		return runeVert
	case dr == 0:
		return runeHoriz
	case (dc > 0) == (dr > 0):
		return runeDiagDn
	default:
		return runeDiagUp
	}
}

// inside is the even-odd ray casting test.
func inside(pts []Point, x, y float64) bool {
	in := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		pi, pj := pts[i], pts[j]
		if (pi.Y > y) != (pj.Y > y) && x < (pj.X-pi.X)*(y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			in = !in
		}
	}
	return in
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

var _ Surface = (*Cells)(nil)
