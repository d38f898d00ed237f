package raster

import "math"

// StretchBounds returns the percentile bounds a stretch would use and
// whether the spread is wide enough to be meaningful.
func StretchBounds(g Grid, loPct, hiPct float64) (lo, hi float64, ok bool) {
	lo = Percentile(g, loPct)
	hi = Percentile(g, hiPct)
	return lo, hi, hi-lo >= 1e-9
}

// ApplyStretch maps values linearly from [lo, hi] to [0, 1], clipping.
func ApplyStretch(g Grid, lo, hi float64) Grid {
	span := hi - lo
	return g.Map(func(v float64) float64 {
		if math.IsNaN(v) || span <= 0 {
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
