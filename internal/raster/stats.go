package raster

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Percentile returns the p-th percentile (0-100) of all finite values
// in the grid. Returns 0 for an empty or all-NaN grid.
func Percentile(g Grid, p float64) float64 {
	values := finiteValues(g)
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	return stat.Quantile(p/100, stat.Empirical, values, nil)
}

// Mean returns the mean of all finite values in the grid.
func Mean(g Grid) float64 {
	values := finiteValues(g)
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// StdDev returns the standard deviation of all finite values in the grid.
func StdDev(g Grid) float64 {
	values := finiteValues(g)
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// MaskedMean returns the mean of grid values where the mask is true.
func MaskedMean(g Grid, m Mask) float64 {
	var sum float64
	var n int
	for y := range g {
		for x, v := range g[y] {
			if m[y][x] && !math.IsNaN(v) {
				sum += v
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Stretch maps the grid through a linear percentile stretch: values at
// or below lo map to 0, at or above hi map to 1. When the spread
// between the two percentiles degenerates (a near-constant band) the
// raw values are clipped to [0,1] instead, so that flat scenes keep
// their physical meaning rather than collapsing to an arbitrary level.
func Stretch(g Grid, loPct, hiPct float64) Grid {
	lo := Percentile(g, loPct)
	hi := Percentile(g, hiPct)
	if hi-lo < 1e-9 {
		return g.Clip(0, 1)
	}
	span := hi - lo
	return g.Map(func(v float64) float64 {
		if math.IsNaN(v) {
			return 0
		}
		s := (v - lo) / span
		if s < 0 {
			return 0
		}
		if s > 1 {
			return 1
		}
		return s
	})
}

func finiteValues(g Grid) []float64 {
	values := make([]float64, 0, g.Height()*g.Width())
	for y := range g {
		for _, v := range g[y] {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				values = append(values, v)
			}
		}
	}
	return values
}
