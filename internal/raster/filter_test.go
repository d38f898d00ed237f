package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedianFilter_RemovesLoneSpike(t *testing.T) {
	g := NewGrid(5, 5)
	g.Fill(0.1)
	g[2][2] = 10

	out := MedianFilter(g, 3)
	assert.InDelta(t, 0.1, out[2][2], 1e-12)
	assert.InDelta(t, 0.1, out[0][0], 1e-12)
}

func TestMedianFilter_WindowBelowThreeIsIdentity(t *testing.T) {
	g := rampGrid(3, 3)
	assert.Equal(t, g, MedianFilter(g, 1))
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{4, 1, 3, 2}, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, median(tt.values))
		})
	}
}

func TestGaussianBlur_ConstantStaysConstant(t *testing.T) {
	g := NewGrid(6, 6)
	g.Fill(0.7)

	out := GaussianBlur(g, 1.4, 2)
	for y := range out {
		for x := range out[y] {
			assert.InDelta(t, 0.7, out[y][x], 1e-9)
		}
	}
}

func TestGaussianBlur_SmoothsSpike(t *testing.T) {
	g := NewGrid(7, 7)
	g[3][3] = 1

	out := GaussianBlur(g, 1.0, 2)
	assert.Less(t, out[3][3], 1.0)
	assert.Greater(t, out[3][4], 0.0)
}

func TestGaussianBlur_ZeroSigmaIsIdentity(t *testing.T) {
	g := rampGrid(3, 3)
	assert.Equal(t, g, GaussianBlur(g, 0, 2))
}

func TestLocalStdDev(t *testing.T) {
	flat := NewGrid(5, 5)
	flat.Fill(0.4)
	out := LocalStdDev(flat, 3)
	// The variance comes from a difference of squared sums, so a flat
	// grid leaves float64 rounding residue on the order of 1e-8.
	assert.InDelta(t, 0, out[2][2], 1e-6)

	// A checkerboard has maximal local variation.
	board := NewGrid(5, 5)
	for y := range board {
		for x := range board[y] {
			if (x+y)%2 == 0 {
				board[y][x] = 1
			}
		}
	}
	out = LocalStdDev(board, 3)
	assert.Greater(t, out[2][2], 0.4)
}

func TestGradientMagnitude(t *testing.T) {
	flat := NewGrid(4, 4)
	flat.Fill(0.5)
	out := GradientMagnitude(flat)
	assert.Equal(t, 0.0, out[2][2])

	step := NewGrid(4, 4)
	for y := range step {
		for x := 2; x < 4; x++ {
			step[y][x] = 1
		}
	}
	out = GradientMagnitude(step)
	assert.Equal(t, 1.0, out[1][2])
	assert.Equal(t, 0.0, out[1][0])
	for y := range out {
		for x := range out[y] {
			assert.LessOrEqual(t, out[y][x], 1.0)
		}
	}
}
