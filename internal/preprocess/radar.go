package preprocess

import (
	"math"

	"github.com/flood-guardian/flood-guardian-api-poc/internal/config"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/raster"
)

// runRadar despeckles each polarization, converts backscatter to a
// clipped dB scale, builds the cross-pol ratio, resizes everything to
// the canonical grid and normalizes with a robust percentile stretch.
func runRadar(scene *raster.Scene, cfg config.Config) (*Output, error) {
	vv := scene.Band(raster.BandVV)
	if vv == nil {
		return nil, raster.NewInputError("radar scene is missing the %s band", raster.BandVV)
	}
	vh := scene.Band(raster.BandVH)

	out := &Output{
		Sensor:   raster.SensorRadar,
		Bands:    make(map[string]raster.Grid),
		Products: make(map[string]raster.Grid),
		Scene:    scene,
	}

	size := cfg.CanonicalSize
	vvNorm := normalizeRadarBand(vv, cfg)
	out.Bands[raster.BandVV] = vvNorm

	var vhNorm raster.Grid
	if vh != nil {
		vhNorm = normalizeRadarBand(vh, cfg)
		out.Bands[raster.BandVH] = vhNorm

		// Cross-pol ratio from the despeckled linear bands, zero-guarded.
		ratio := crossPolRatio(
			raster.Resize(raster.MedianFilter(vh, cfg.DespeckleWindow), size, size),
			raster.Resize(raster.MedianFilter(vv, cfg.DespeckleWindow), size, size),
		)
		out.Products[ProductRatio] = ratio

		diff := raster.NewGrid(size, size)
		for y := range diff {
			for x := range diff[y] {
				diff[y][x] = math.Abs(vvNorm[y][x] - vhNorm[y][x])
			}
		}
		out.Products[ProductPolDiff] = diff
	}

	out.Products[ProductTexture] = raster.LocalStdDev(vvNorm, cfg.TextureWindow)
	return out, nil
}

// normalizeRadarBand runs the full radar band chain: despeckle, dB
// conversion with dynamic-range clipping, resize, percentile stretch.
// When the dB histogram is degenerate (a flat scene) the stretch would
// map everything to an arbitrary level, so the band falls back to the
// clipped linear backscatter, which preserves the low-return-is-water
// physics end to end.
func normalizeRadarBand(band raster.Grid, cfg config.Config) raster.Grid {
	size := cfg.CanonicalSize
	linear := raster.MedianFilter(band, cfg.DespeckleWindow)
	db := toDecibels(linear, cfg.RadarDBFloor, cfg.RadarDBCeil)
	db = raster.Resize(db, size, size)

	lo, hi, ok := raster.StretchBounds(db, cfg.RadarStretchLoPct, cfg.RadarStretchHiPct)
	if !ok {
		return raster.Resize(linear, size, size).Clip(0, 1)
	}
	return raster.ApplyStretch(db, lo, hi)
}

// toDecibels converts linear backscatter to 10*log10(v), clipped to a
// realistic dynamic range. Non-positive and non-finite inputs clamp to
// the floor.
func toDecibels(g raster.Grid, floor, ceil float64) raster.Grid {
	return g.Map(func(v float64) float64 {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return floor
		}
		db := 10 * math.Log10(v)
		if db < floor {
			return floor
		}
		if db > ceil {
			return ceil
		}
		return db
	})
}

// crossPolRatio is VH/VV per pixel. Pixels where VV vanishes or the
// result is non-finite default to 0 rather than aborting the run.
func crossPolRatio(vh, vv raster.Grid) raster.Grid {
	out := raster.NewGrid(vv.Height(), vv.Width())
	for y := range vv {
		for x := range vv[y] {
			if vv[y][x] == 0 {
				continue
			}
			r := vh[y][x] / vv[y][x]
			if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
				continue
			}
			if r > 1 {
				r = 1
			}
			out[y][x] = r
		}
	}
	return out
}
