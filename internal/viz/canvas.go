package viz

import "strings"

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a braille pixel grid. Its size in dots is (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
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

// Rows returns one string per text row.
func (c *Canvas) Rows() []string {
	rows := make([]string, len(c.Grid))
	for i, row := range c.Grid {
		rows[i] = string(row)
	}
	return rows
}

func (c *Canvas) String() string {
	return strings.Join(c.Rows(), "\n")
}

// Bars draws values as vertical bars, one braille column per value, scaled
// so the largest magnitude spans the full height. Negative values are drawn
// at their magnitude.
func Bars(values []int, height int) *Canvas {
	if height < 1 {
		height = 1
	}
	c := NewCanvas(len(values), height)
	if len(values) == 0 {
		return c
	}

	peak := 0
	for _, v := range values {
		peak = max(peak, absInt(v))
	}
	if peak == 0 {
		peak = 1
	}

	dots := height * 4
	for i, v := range values {
		h := absInt(v) * dots / peak
		if h == 0 && v != 0 {
			h = 1
		}
		if h == 0 {
			continue
		}
		x := i * 2
		c.DrawLine(x, dots-1, x, dots-h)
	}
	return c
}

// BarColumns returns the rows of Bars split per value so callers can style
// individual columns.
func BarColumns(values []int, height int) [][]string {
	c := Bars(values, height)
	cols := make([][]string, len(values))
	for i := range cols {
		cols[i] = make([]string, 0, height)
		for _, row := range c.Grid {
			cols[i] = append(cols[i], string(row[i]))
		}
	}
	return cols
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
