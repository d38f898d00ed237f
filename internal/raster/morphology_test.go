package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func blockMask(height, width, x0, y0, x1, y1 int) Mask {
	m := NewMask(height, width)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			m[y][x] = true
		}
	}
	return m
}

func TestErode_ShrinksBlock(t *testing.T) {
	m := blockMask(7, 7, 1, 1, 5, 5)
	out := Erode(m, 3)

	assert.Equal(t, 9, out.Count()) // 5x5 block erodes to 3x3
	assert.True(t, out[3][3])
	assert.False(t, out[1][1])
}

func TestDilate_GrowsBlock(t *testing.T) {
	m := NewMask(5, 5)
	m[2][2] = true
	out := Dilate(m, 3)

	assert.Equal(t, 9, out.Count())
	assert.True(t, out[1][1])
	assert.False(t, out[0][0])
}

func TestOpen_RemovesSpeckleKeepsBlock(t *testing.T) {
	m := blockMask(9, 9, 1, 1, 5, 5)
	m[7][7] = true // isolated pixel

	out := Open(m, 3)
	assert.False(t, out[7][7])
	assert.True(t, out[3][3])
	assert.Equal(t, 25, out.Count())
}

func TestClose_FillsSmallHole(t *testing.T) {
	m := blockMask(9, 9, 1, 1, 7, 7)
	m[4][4] = false

	out := Close(m, 3)
	assert.True(t, out[4][4])
}

func TestMorphology_FrameTouchingRegionKeepsItsBorder(t *testing.T) {
	full := blockMask(8, 8, 0, 0, 7, 7)
	assert.Equal(t, 64, Erode(full, 3).Count())
	assert.Equal(t, 64, Open(full, 3).Count())
	assert.Equal(t, 64, Close(full, 3).Count())
	assert.Equal(t, 64, FillHoles(full, 5).Count())

	// A block flush against the left edge stays flush after closing.
	m := blockMask(10, 10, 0, 2, 4, 7)
	out := Close(m, 3)
	assert.True(t, out[4][0])
	assert.Equal(t, m.Count(), out.Count())
}

func TestFillHoles_LargeHoleSurvives(t *testing.T) {
	m := blockMask(15, 15, 0, 0, 14, 14)
	// A 7x7 dry island, wider than the hole kernel.
	for y := 4; y <= 10; y++ {
		for x := 4; x <= 10; x++ {
			m[y][x] = false
		}
	}

	out := FillHoles(m, 5)
	assert.False(t, out[7][7])
}

func TestGrayMorphology(t *testing.T) {
	g := NewGrid(5, 5)
	g.Fill(0.5)
	g[2][2] = 1 // bright speck

	opened := GrayOpen(g, 3)
	assert.InDelta(t, 0.5, opened[2][2], 1e-12)

	g[2][2] = 0 // dark pit
	closed := GrayClose(g, 3)
	assert.InDelta(t, 0.5, closed[2][2], 1e-12)
}

func TestDistanceTransform(t *testing.T) {
	m := NewMask(5, 5)
	m[2][2] = true

	d := DistanceTransform(m)
	assert.Equal(t, 0.0, d[2][2])
	assert.Equal(t, 1.0, d[2][3])
	assert.Equal(t, 2.0, d[1][3])
	assert.Equal(t, 4.0, d[0][0])
}

func TestDistanceTransform_EmptyMask(t *testing.T) {
	d := DistanceTransform(NewMask(3, 3))
	for y := range d {
		for x := range d[y] {
			assert.Greater(t, d[y][x], 6.0) // larger than any in-grid distance
		}
	}
}
