package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/euleretal/internal/dynamo"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas plots paths in the XY plane with Braille dots. Each path keeps its
// own style; later paths are drawn on top.
type Canvas struct {
	Width, Height int

	paths []path
	minX  float64
	maxX  float64
	minY  float64
	maxY  float64
	empty bool
}

type path struct {
	style  lipgloss.Style
	points []dynamo.Position
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{Width: w, Height: h, empty: true}
}

// AddPath registers a path. Bounds grow to fit every registered path;
// non-finite points are skipped.
func (c *Canvas) AddPath(points []dynamo.Position, style lipgloss.Style) {
	for _, p := range points {
		if !p.IsValid() {
			continue
		}
		if c.empty {
			c.minX, c.maxX, c.minY, c.maxY = p.X, p.X, p.Y, p.Y
			c.empty = false
			continue
		}
		c.minX, c.maxX = math.Min(c.minX, p.X), math.Max(c.maxX, p.X)
		c.minY, c.maxY = math.Min(c.minY, p.Y), math.Max(c.maxY, p.Y)
	}
	c.paths = append(c.paths, path{style: style, points: points})
}

type layer [][]rune

func newLayer(w, h int) layer {
	l := make(layer, h)
	for i := range l {
		l[i] = make([]rune, w)
		for j := range l[i] {
			l[i][j] = brailleBlank
		}
	}
	return l
}

// toDots maps a world position to sub-pixel coordinates, y pointing up.
func (c *Canvas) toDots(p dynamo.Position) (int, int) {
	w, h := float64(c.Width*2-1), float64(c.Height*4-1)
	spanX := math.Max(c.maxX-c.minX, 1e-9)
	spanY := math.Max(c.maxY-c.minY, 1e-9)
	scale := math.Min(w/spanX, h/spanY)

	x := (p.X - c.minX) * scale
	y := h - (p.Y-c.minY)*scale
	return int(math.Round(x)), int(math.Round(y))
}

func (l layer) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	row, col := y/4, x/2
	if row >= len(l) || col >= len(l[row]) {
		return
	}
	l[row][col] |= pixelMap[y%4][x%2]
}

// line draws with Bresenham's algorithm.
func (l layer) line(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		l.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	layers := make([]layer, len(c.paths))
	for i, p := range c.paths {
		l := newLayer(c.Width, c.Height)
		var prev dynamo.Position
		first := true
		for _, pt := range p.points {
			if !pt.IsValid() {
				first = true
				continue
			}
			x1, y1 := c.toDots(pt)
			if first {
				l.set(x1, y1)
				first = false
			} else {
				x0, y0 := c.toDots(prev)
				l.line(x0, y0, x1, y1)
			}
			prev = pt
		}
		layers[i] = l
	}

	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			cell, style := rune(brailleBlank), lipgloss.NewStyle()
			for i, l := range layers {
				if l[row][col] != brailleBlank {
					cell |= l[row][col]
					style = c.paths[i].style
				}
			}
			b.WriteString(style.Render(string(cell)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
