package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResize_SameSizeClones(t *testing.T) {
	g := rampGrid(4, 4)
	out := Resize(g, 4, 4)

	assert.Equal(t, g, out)
	out[0][0] = 99
	assert.Equal(t, 0.0, g[0][0])
}

func TestResize_ConstantStaysConstant(t *testing.T) {
	g := NewGrid(8, 8)
	g.Fill(0.42)

	for _, size := range []int{4, 16, 13} {
		out := Resize(g, size, size)
		assert.Equal(t, size, out.Height())
		assert.Equal(t, size, out.Width())
		for y := range out {
			for x := range out[y] {
				assert.InDelta(t, 0.42, out[y][x], 1e-12)
			}
		}
	}
}

func TestResize_StaysWithinInputRange(t *testing.T) {
	g := rampGrid(6, 6) // 0..35

	out := Resize(g, 17, 17)
	for y := range out {
		for x := range out[y] {
			assert.GreaterOrEqual(t, out[y][x], 0.0)
			assert.LessOrEqual(t, out[y][x], 35.0)
		}
	}
}

func TestResize_DegenerateInputs(t *testing.T) {
	assert.Equal(t, NewGrid(3, 3), Resize(nil, 3, 3))
	assert.Equal(t, 0, Resize(rampGrid(2, 2), 0, 0).Height())
}

func TestResize_PreservesGradientDirection(t *testing.T) {
	g := NewGrid(2, 2)
	g[0][0], g[0][1] = 0, 1
	g[1][0], g[1][1] = 0, 1

	out := Resize(g, 2, 8)
	for x := 1; x < 8; x++ {
		assert.GreaterOrEqual(t, out[0][x], out[0][x-1])
	}
}
