package preprocess

import (
	"math"

	"github.com/flood-guardian/flood-guardian-api-poc/internal/raster"
)

// NormalizedDifference computes (a-b)/(a+b) per pixel, the band-ratio
// form behind NDVI/NDWI/MNDWI. Pixels with a zero denominator or a
// non-finite result default to 0 instead of aborting the run.
func NormalizedDifference(a, b raster.Grid) raster.Grid {
	rows := a.Height()
	cols := a.Width()
	out := raster.NewGrid(rows, cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			denom := a[y][x] + b[y][x]
			if denom == 0 {
				continue
			}
			v := (a[y][x] - b[y][x]) / denom
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			out[y][x] = v
		}
	}
	return out
}
