package detect

import (
	"github.com/rs/zerolog"

	"github.com/flood-guardian/flood-guardian-api-poc/internal/config"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/preprocess"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/raster"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/regions"
)

const methodMultiScaleRules = "multiscale-rule-ensemble"

// RuleBased is the deterministic Classifier: sensor-specific water
// features evaluated at three spatial scales, accumulated with fixed
// weights and refined with an edge-aware smoothing pass.
type RuleBased struct {
	cfg config.Config
	log zerolog.Logger
}

func NewRuleBased(cfg config.Config, log zerolog.Logger) *RuleBased {
	return &RuleBased{cfg: cfg, log: log}
}

// features carries the grids the classification rules read. Optional
// members are nil when the sensor did not provide them.
type features struct {
	vv, vh, ratio, texture raster.Grid
	ndwi, mndwi, ndvi      raster.Grid
}

func (c *RuleBased) Classify(in *preprocess.Output) (*Detection, error) {
	if in == nil {
		return nil, raster.NewInputError("nil preprocessor output")
	}

	f, threshold, ok := c.gatherFeatures(in)
	if !ok {
		// Degrade, don't crash: downstream always receives well-typed
		// (if empty) results and reports low risk with low confidence.
		c.log.Warn().Str("sensor", string(in.Sensor)).
			Msg("feature extraction degraded, emitting zero probability map")
		size := c.cfg.CanonicalSize
		return &Detection{
			Sensor:      in.Sensor,
			Method:      methodMultiScaleRules,
			Probability: raster.NewGrid(size, size),
			Confidence:  raster.NewGrid(size, size),
			Mask:        raster.NewMask(size, size),
			Threshold:   threshold,
			Degraded:    true,
		}, nil
	}

	prob := c.multiScaleProbability(in.Sensor, f)
	prob = c.refine(prob)
	conf := c.confidence(in.Sensor, f, prob, threshold)

	mask := raster.Threshold(prob, threshold)
	regs := regions.Extract(mask, prob, conf, c.cfg.MinRegionAreaPx, regions.SeverityThresholds{
		HighProbability:   c.cfg.SeverityHighProb,
		HighAreaPx:        c.cfg.SeverityHighAreaPx,
		MediumProbability: c.cfg.SeverityMedProb,
		MediumAreaPx:      c.cfg.SeverityMedAreaPx,
	})

	return &Detection{
		Sensor:      in.Sensor,
		Method:      methodMultiScaleRules,
		Probability: prob,
		Confidence:  conf,
		Mask:        mask,
		Regions:     regs,
		Threshold:   threshold,
	}, nil
}

func (c *RuleBased) gatherFeatures(in *preprocess.Output) (features, float64, bool) {
	switch in.Sensor {
	case raster.SensorRadar:
		f := features{
			vv:      in.Band(raster.BandVV),
			vh:      in.Band(raster.BandVH),
			ratio:   in.Product(preprocess.ProductRatio),
			texture: in.Product(preprocess.ProductTexture),
		}
		return f, c.cfg.RadarThreshold, f.vv != nil
	case raster.SensorOptical:
		f := features{
			ndwi:  in.Product(preprocess.ProductNDWI),
			mndwi: in.Product(preprocess.ProductMNDWI),
			ndvi:  in.Product(preprocess.ProductNDVI),
		}
		return f, c.cfg.OpticalThreshold, f.ndwi != nil && f.ndvi != nil
	default:
		return features{}, c.cfg.RadarThreshold, false
	}
}

// multiScaleProbability evaluates the water rule at each configured
// scale on downsampled features, upsamples the verdicts back to the
// canonical grid and accumulates the weighted sum.
func (c *RuleBased) multiScaleProbability(sensor raster.Sensor, f features) raster.Grid {
	size := c.cfg.CanonicalSize
	weights := c.cfg.RadarScaleWeights
	if sensor == raster.SensorOptical {
		weights = c.cfg.OpticalScaleWeight
	}

	acc := raster.NewGrid(size, size)
	for i, scale := range c.cfg.Scales {
		scaled := int(float64(size) * scale)
		if scaled < 1 {
			scaled = 1
		}

		var verdict raster.Grid
		if sensor == raster.SensorRadar {
			verdict = radarWaterRule(downsample(f, scaled), c.cfg.TextureGate)
		} else {
			verdict = opticalWaterRule(downsample(f, scaled), c.cfg.VegetationGate)
		}
		verdict = raster.Resize(verdict, size, size)

		w := weights[i]
		for y := range acc {
			for x := range acc[y] {
				acc[y][x] += w * verdict[y][x]
			}
		}
	}
	return acc.Clip(0, 1)
}

func downsample(f features, size int) features {
	shrink := func(g raster.Grid) raster.Grid {
		if g == nil {
			return nil
		}
		if g.Height() == size && g.Width() == size {
			return g
		}
		return raster.Resize(g, size, size)
	}
	return features{
		vv:      shrink(f.vv),
		vh:      shrink(f.vh),
		ratio:   shrink(f.ratio),
		texture: shrink(f.texture),
		ndwi:    shrink(f.ndwi),
		mndwi:   shrink(f.mndwi),
		ndvi:    shrink(f.ndvi),
	}
}

// radarWaterRule: water returns little backscatter, so the indicator is
// the average of the inverted polarizations. A suppressed cross-pol
// ratio is supporting evidence and adds a bonus rather than blending,
// so an uninformative ratio never pulls a clear low-return signal down.
// High local texture means wind-roughened or built-up surfaces, which
// cannot be open water.
func radarWaterRule(f features, textureGate float64) raster.Grid {
	h, w := f.vv.Height(), f.vv.Width()
	out := raster.NewGrid(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			wi := 1 - f.vv[y][x]
			if f.vh != nil {
				wi = (wi + (1 - f.vh[y][x])) / 2
			}
			if f.ratio != nil {
				wi += 0.2 * (1 - f.ratio[y][x])
			}
			if f.texture != nil && f.texture[y][x] > textureGate {
				wi = 0
			}
			if wi < 0 {
				wi = 0
			}
			if wi > 1 {
				wi = 1
			}
			out[y][x] = wi
		}
	}
	return out
}

// opticalWaterRule: the water index is high over water; the modified
// index refines it where a SWIR band exists. Any vegetation signal
// above the gate suppresses the pixel outright.
func opticalWaterRule(f features, vegetationGate float64) raster.Grid {
	h, w := f.ndwi.Height(), f.ndwi.Width()
	out := raster.NewGrid(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			wi := clamp01(f.ndwi[y][x])
			if f.mndwi != nil {
				wi = (wi + clamp01(f.mndwi[y][x])) / 2
			}
			if f.ndvi != nil && f.ndvi[y][x] > vegetationGate {
				wi = 0
			}
			out[y][x] = wi
		}
	}
	return out
}

// refine smooths the accumulated probability and runs a grayscale
// close-then-open to knock out speckle, blending edge-aware so sharp
// transitions keep their original values.
func (c *RuleBased) refine(prob raster.Grid) raster.Grid {
	blurred := raster.GaussianBlur(prob, c.cfg.BlurSigma, c.cfg.BlurRadius)
	cleaned := raster.GrayOpen(raster.GrayClose(blurred, c.cfg.RefineKernel), c.cfg.RefineKernel)
	edges := raster.GradientMagnitude(prob)

	out := raster.NewGrid(prob.Height(), prob.Width())
	for y := range out {
		for x := range out[y] {
			e := edges[y][x]
			out[y][x] = e*prob[y][x] + (1-e)*cleaned[y][x]
		}
	}
	return out.Clip(0, 1)
}

// confidence builds the trust map. Both sensors share the spatial
// clustering term: pixels near other likely-water pixels are more
// trustworthy than isolated hits.
func (c *RuleBased) confidence(sensor raster.Sensor, f features, prob raster.Grid, threshold float64) raster.Grid {
	likely := raster.Threshold(prob, threshold)
	dist := raster.DistanceTransform(likely)
	h, w := prob.Height(), prob.Width()

	out := raster.NewGrid(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			clustering := 1 / (1 + dist[y][x]/c.cfg.ClusteringDivisor)

			var conf float64
			if sensor == raster.SensorRadar {
				polMag := 0.0
				if f.vh != nil {
					// Polarization-difference magnitude proxies the
					// separability of the two polarizations.
					polMag = absDiff(f.vv[y][x], f.vh[y][x])
				}
				conf = 0.3 + 0.4*clustering + 0.3*polMag
			} else {
				wi := f.ndwi[y][x]
				if wi < 0 {
					wi = -wi
				}
				veg := clamp01(f.ndvi[y][x])
				conf = 0.3 + 0.4*clustering + 0.4*wi - 0.3*veg
			}
			out[y][x] = clamp01(conf)
		}
	}
	return out
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
