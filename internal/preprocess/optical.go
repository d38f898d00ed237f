package preprocess

import (
	"github.com/flood-guardian/flood-guardian-api-poc/internal/config"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/raster"
)

// runOptical clips reflectance, applies a dark-object-subtraction
// atmospheric correction and a per-band contrast stretch, resizes to
// the canonical grid and computes the spectral water/vegetation indices.
func runOptical(scene *raster.Scene, cfg config.Config) (*Output, error) {
	for _, required := range []string{raster.BandGreen, raster.BandRed, raster.BandNIR} {
		if !scene.HasBand(required) {
			return nil, raster.NewInputError("optical scene is missing the %s band", required)
		}
	}

	out := &Output{
		Sensor:   raster.SensorOptical,
		Bands:    make(map[string]raster.Grid),
		Products: make(map[string]raster.Grid),
		Scene:    scene,
	}

	for _, name := range scene.BandOrder {
		out.Bands[name] = normalizeOpticalBand(scene.Bands[name], cfg)
	}

	green := out.Bands[raster.BandGreen]
	red := out.Bands[raster.BandRed]
	nir := out.Bands[raster.BandNIR]

	out.Products[ProductNDVI] = NormalizedDifference(nir, red)
	out.Products[ProductNDWI] = NormalizedDifference(green, nir)
	if swir, ok := out.Bands[raster.BandSWIR]; ok {
		out.Products[ProductMNDWI] = NormalizedDifference(green, swir)
	}
	return out, nil
}

// normalizeOpticalBand: clip raw reflectance to [0,1], subtract the
// dark-object level (1st percentile) clipping at zero, then stretch
// between the contrast percentiles and resize. A degenerate stretch
// keeps the corrected values as-is, already in [0,1].
func normalizeOpticalBand(band raster.Grid, cfg config.Config) raster.Grid {
	clipped := band.Clip(0, 1)

	dark := raster.Percentile(clipped, cfg.DarkObjectPct)
	corrected := clipped.Map(func(v float64) float64 {
		v -= dark
		if v < 0 {
			return 0
		}
		return v
	})

	stretched := corrected
	if lo, hi, ok := raster.StretchBounds(corrected, cfg.OpticalStretchLo, cfg.OpticalStretchHi); ok {
		stretched = raster.ApplyStretch(corrected, lo, hi)
	}
	return raster.Resize(stretched, cfg.CanonicalSize, cfg.CanonicalSize)
}
