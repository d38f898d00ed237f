package raster

import "math"

// Grid is a single-band raster stored row-major as [y][x].
type Grid [][]float64

func NewGrid(height, width int) Grid {
	g := make(Grid, height)
	for y := range g {
		g[y] = make([]float64, width)
	}
	return g
}

func (g Grid) Height() int {
	return len(g)
}

func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for y, row := range g {
		out[y] = make([]float64, len(row))
		copy(out[y], row)
	}
	return out
}

func (g Grid) Fill(v float64) {
	for y := range g {
		for x := range g[y] {
			g[y][x] = v
		}
	}
}

// Clip returns a copy with every value clamped to [lo, hi].
// Non-finite values collapse to lo.
func (g Grid) Clip(lo, hi float64) Grid {
	out := NewGrid(g.Height(), g.Width())
	for y := range g {
		for x, v := range g[y] {
			switch {
			case math.IsNaN(v) || math.IsInf(v, 0):
				out[y][x] = lo
			case v < lo:
				out[y][x] = lo
			case v > hi:
				out[y][x] = hi
			default:
				out[y][x] = v
			}
		}
	}
	return out
}

// Map returns a new grid with fn applied to every pixel.
func (g Grid) Map(fn func(v float64) float64) Grid {
	out := NewGrid(g.Height(), g.Width())
	for y := range g {
		for x, v := range g[y] {
			out[y][x] = fn(v)
		}
	}
	return out
}

// SameShape reports whether both grids have identical dimensions.
func SameShape(a, b Grid) bool {
	return a.Height() == b.Height() && a.Width() == b.Width()
}

// Mask is a binary raster, true where a pixel is classified as flooded.
type Mask [][]bool

func NewMask(height, width int) Mask {
	m := make(Mask, height)
	for y := range m {
		m[y] = make([]bool, width)
	}
	return m
}

func (m Mask) Height() int {
	return len(m)
}

func (m Mask) Width() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

func (m Mask) Clone() Mask {
	out := make(Mask, len(m))
	for y, row := range m {
		out[y] = make([]bool, len(row))
		copy(out[y], row)
	}
	return out
}

// Count returns the number of true pixels.
func (m Mask) Count() int {
	n := 0
	for y := range m {
		for _, v := range m[y] {
			if v {
				n++
			}
		}
	}
	return n
}

// Threshold derives a mask from a grid: true where v >= t.
func Threshold(g Grid, t float64) Mask {
	m := NewMask(g.Height(), g.Width())
	for y := range g {
		for x, v := range g[y] {
			m[y][x] = v >= t
		}
	}
	return m
}

// ToGrid converts a mask to a 0/1 grid, used when a binary raster needs
// blurring or rethresholding.
func (m Mask) ToGrid() Grid {
	g := NewGrid(m.Height(), m.Width())
	for y := range m {
		for x, v := range m[y] {
			if v {
				g[y][x] = 1
			}
		}
	}
	return g
}
