package tui

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/jrwynneiii/scopetrainer/render"
)

const brailleBase = 0x2800

var _ render.Surface = (*Braille)(nil)

// dot bits for a braille cell, indexed [row][col]
var brailleDots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Braille is a render.Surface made of terminal cells, each holding a 2x4
// grid of dots. A cell takes the color of the last stroke that touched it.
type Braille struct {
	cols, rows int
	scaleX     float64
	scaleY     float64
	dots       []rune
	colors     []tcell.Color
}

// NewBraille maps canvas c onto a cols x rows cell grid.
func NewBraille(c render.Canvas, cols, rows int) *Braille {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Braille{
		cols:   cols,
		rows:   rows,
		scaleX: float64(cols*2) / c.Width,
		scaleY: float64(rows*4) / c.Height,
		dots:   make([]rune, cols*rows),
		colors: make([]tcell.Color, cols*rows),
	}
}

func (b *Braille) Size() (int, int) {
	return b.cols, b.rows
}

// Cell returns the braille rune and color at a cell. Empty cells are a
// blank braille pattern.
func (b *Braille) Cell(col, row int) (rune, tcell.Color) {
	if col < 0 || col >= b.cols || row < 0 || row >= b.rows {
		return brailleBase, tcell.ColorDefault
	}
	i := row*b.cols + col
	return brailleBase + b.dots[i], b.colors[i]
}

func (b *Braille) Clear() {
	for i := range b.dots {
		b.dots[i] = 0
		b.colors[i] = tcell.ColorDefault
	}
}

func (b *Braille) Line(x0, y0, x1, y1 float64, s render.Stroke) {
	color := tcell.GetColor(s.Color)
	b.plotLine(b.dot(x0, y0), b.dot(x1, y1), color)
}

func (b *Braille) Polyline(pts []render.Point, s render.Stroke) {
	if len(pts) == 0 {
		return
	}
	color := tcell.GetColor(s.Color)
	prev := b.dot(pts[0].X, pts[0].Y)
	b.set(prev[0], prev[1], color)
	for _, p := range pts[1:] {
		cur := b.dot(p.X, p.Y)
		if cur != prev {
			b.plotLine(prev, cur, color)
		}
		prev = cur
	}
}

// Draw copies the grid onto screen with its top-left cell at (x, y).
func (b *Braille) Draw(screen tcell.Screen, x, y int) {
	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			r, color := b.Cell(col, row)
			screen.SetContent(x+col, y+row, r, nil, tcell.StyleDefault.Foreground(color))
		}
	}
}

// dot converts canvas coordinates to dot coordinates. Anything off the grid
// is pinned one dot outside it, which keeps Bresenham short for traces that
// shoot far off screen.
func (b *Braille) dot(x, y float64) [2]int {
	return [2]int{
		pin(x*b.scaleX, b.cols*2),
		pin(y*b.scaleY, b.rows*4),
	}
}

func pin(v float64, n int) int {
	if math.IsNaN(v) || v < 0 {
		return -1
	}
	if v >= float64(n) {
		return n
	}
	return int(v)
}

func (b *Braille) set(dx, dy int, color tcell.Color) {
	if dx < 0 || dy < 0 || dx >= b.cols*2 || dy >= b.rows*4 {
		return
	}
	i := (dy/4)*b.cols + dx/2
	b.dots[i] |= brailleDots[dy%4][dx%2]
	b.colors[i] = color
}

// plotLine is Bresenham between two dot coordinates. Dots off the grid are
// skipped, so traces running off screen are clipped.
func (b *Braille) plotLine(from, to [2]int, color tcell.Color) {
	x0, y0, x1, y1 := from[0], from[1], to[0], to[1]
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		b.set(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
