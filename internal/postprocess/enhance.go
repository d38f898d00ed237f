// Package postprocess cleans the detector output: morphological noise
// removal, small-region pruning, hole filling, boundary smoothing and
// the probability/confidence recalibration, then the final regions and
// summary statistics.
package postprocess

import (
	"github.com/flood-guardian/flood-guardian-api-poc/internal/config"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/detect"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/raster"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/regions"
)

// Enhancement is the cleaned, recalibrated terminal stage output.
type Enhancement struct {
	Mask        raster.Mask
	Probability raster.Grid
	Confidence  raster.Grid
	Regions     []regions.Region
	Statistics  Statistics
	Diagnostics Diagnostics
}

// Enhance runs the full cleanup chain over a detection. Every output
// grid is newly allocated; the detection stays untouched for replay.
func Enhance(det *detect.Detection, cfg config.Config) *Enhancement {
	before := snapshot(det)

	mask := det.Mask.Clone()

	// 1. Morphological cleaning: open removes speckle, close reconnects
	// fragments, repeated for the configured smoothing iterations.
	for i := 0; i < cfg.CleanIterations; i++ {
		mask = raster.Close(raster.Open(mask, cfg.CleanKernel), cfg.CleanKernel)
	}

	// 2. Small-region removal on the recomputed components.
	mask = dropWeakRegions(mask, det.Probability, det.Confidence, cfg)

	// 3. Fill interior gaps up to the bounded hole kernel.
	mask = raster.FillHoles(mask, cfg.HoleKernel)

	// 4. Boundary smoothing: blur the binary raster, rethreshold, then
	// one open/close pass.
	smoothed := raster.GaussianBlur(mask.ToGrid(), cfg.ReblurSigma, cfg.ReblurRadius)
	mask = raster.Threshold(smoothed, 0.5)
	mask = raster.Close(raster.Open(mask, cfg.CleanKernel), cfg.CleanKernel)

	prob := recalibrateProbability(det.Probability, mask, cfg)
	conf := recalibrateConfidence(det.Confidence, prob, mask)

	// 7. Final regions from the cleaned mask with the enhanced floor.
	regs := regions.Extract(mask, prob, conf, cfg.MinEnhancedRegionAreaPx, regions.SeverityThresholds{
		HighProbability:   cfg.SeverityHighProb,
		HighAreaPx:        cfg.SeverityHighAreaPx,
		MediumProbability: cfg.SeverityMedProb,
		MediumAreaPx:      cfg.SeverityMedAreaPx,
	})

	e := &Enhancement{
		Mask:        mask,
		Probability: prob,
		Confidence:  conf,
		Regions:     regs,
	}
	e.Statistics = computeStatistics(e, cfg)
	e.Diagnostics = computeDiagnostics(before, e)
	return e
}

// dropWeakRegions relabels the mask and keeps only components that are
// large enough, probable enough and (when a confidence map exists)
// trusted enough.
func dropWeakRegions(mask raster.Mask, prob, conf raster.Grid, cfg config.Config) raster.Mask {
	h, w := mask.Height(), mask.Width()
	out := raster.NewMask(h, w)
	visited := raster.NewMask(h, w)
	stack := make([][2]int, 0, 1024)

	for sy := 0; sy < h; sy++ {
		for sx := 0; sx < w; sx++ {
			if !mask[sy][sx] || visited[sy][sx] {
				continue
			}

			stack = stack[:0]
			stack = append(stack, [2]int{sx, sy})
			visited[sy][sx] = true

			var pixels [][2]int
			var sumP, sumC float64
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				pixels = append(pixels, p)
				if prob != nil {
					sumP += prob[p[1]][p[0]]
				}
				if conf != nil {
					sumC += conf[p[1]][p[0]]
				}

				x, y := p[0], p[1]
				for _, n := range [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
					nx, ny := n[0], n[1]
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					if mask[ny][nx] && !visited[ny][nx] {
						visited[ny][nx] = true
						stack = append(stack, [2]int{nx, ny})
					}
				}
			}

			n := float64(len(pixels))
			if len(pixels) < cfg.MinEnhancedRegionAreaPx {
				continue
			}
			if prob != nil && sumP/n < cfg.DropMeanProbBelow {
				continue
			}
			if conf != nil && sumC/n < cfg.DropMeanConfBelow {
				continue
			}
			for _, p := range pixels {
				out[p[1]][p[0]] = true
			}
		}
	}
	return out
}

// recalibrateProbability floors probability inside the cleaned mask and
// decays it outside with a distance falloff from the mask boundary,
// then re-blurs lightly so the floor does not leave a hard cliff.
func recalibrateProbability(prob raster.Grid, mask raster.Mask, cfg config.Config) raster.Grid {
	dist := raster.DistanceTransform(mask)
	h, w := prob.Height(), prob.Width()
	out := raster.NewGrid(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask[y][x] {
				out[y][x] = prob[y][x]
				if out[y][x] < cfg.InMaskProbFloor {
					out[y][x] = cfg.InMaskProbFloor
				}
			} else {
				out[y][x] = prob[y][x] / (1 + dist[y][x]/cfg.FalloffDivisor)
			}
		}
	}
	return raster.GaussianBlur(out, cfg.ReblurSigma, cfg.ReblurRadius).Clip(0, 1)
}

// recalibrateConfidence boosts confidence inside well-defined regions
// using the local mask/probability agreement, and halves it where a low
// probability contradicts a previously high confidence.
func recalibrateConfidence(conf, prob raster.Grid, mask raster.Mask) raster.Grid {
	agreement := agreementGrid(prob, mask)
	h, w := conf.Height(), conf.Width()
	out := raster.NewGrid(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := conf[y][x]
			if mask[y][x] {
				if boosted := 0.9 * agreement[y][x]; boosted > c {
					c = boosted
				}
			}
			if prob[y][x] < 0.3 && conf[y][x] > 0.7 {
				c /= 2
			}
			if c > 1 {
				c = 1
			}
			out[y][x] = c
		}
	}
	return out
}

// agreementGrid measures, over a 5x5 window, how well the probability
// map agrees with the binary verdict: p inside the mask, 1-p outside.
func agreementGrid(prob raster.Grid, mask raster.Mask) raster.Grid {
	h, w := prob.Height(), prob.Width()
	pointwise := raster.NewGrid(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask[y][x] {
				pointwise[y][x] = prob[y][x]
			} else {
				pointwise[y][x] = 1 - prob[y][x]
			}
		}
	}
	return localMean(pointwise, 5)
}

func localMean(g raster.Grid, window int) raster.Grid {
	h, w := g.Height(), g.Width()
	r := window / 2
	out := raster.NewGrid(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			var n int
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					ny, nx := y+dy, x+dx
					if ny < 0 || ny >= h || nx < 0 || nx >= w {
						continue
					}
					sum += g[ny][nx]
					n++
				}
			}
			out[y][x] = sum / float64(n)
		}
	}
	return out
}
