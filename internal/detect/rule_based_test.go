package detect

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flood-guardian/flood-guardian-api-poc/internal/config"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/preprocess"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/raster"
)

func smallConfig() config.Config {
	cfg := config.Default()
	cfg.CanonicalSize = 64
	return cfg
}

func constGrid(size int, v float64) raster.Grid {
	g := raster.NewGrid(size, size)
	g.Fill(v)
	return g
}

func radarOutput(size int, vv, vh float64) *preprocess.Output {
	vvGrid := constGrid(size, vv)
	vhGrid := constGrid(size, vh)
	ratio := raster.NewGrid(size, size)
	for y := range ratio {
		for x := range ratio[y] {
			if vvGrid[y][x] != 0 {
				ratio[y][x] = vhGrid[y][x] / vvGrid[y][x]
			}
		}
	}
	return &preprocess.Output{
		Sensor: raster.SensorRadar,
		Bands: map[string]raster.Grid{
			raster.BandVV: vvGrid,
			raster.BandVH: vhGrid,
		},
		Products: map[string]raster.Grid{
			preprocess.ProductRatio:   ratio,
			preprocess.ProductTexture: raster.NewGrid(size, size),
		},
	}
}

func assertRange01(t *testing.T, g raster.Grid) {
	t.Helper()
	for y := range g {
		for x := range g[y] {
			require.GreaterOrEqual(t, g[y][x], 0.0)
			require.LessOrEqual(t, g[y][x], 1.0)
		}
	}
}

func TestClassify_NilInput(t *testing.T) {
	c := NewRuleBased(smallConfig(), zerolog.Nop())
	_, err := c.Classify(nil)
	require.Error(t, err)

	var inputErr *raster.InputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestClassify_DegradesWithoutFeatures(t *testing.T) {
	cfg := smallConfig()
	c := NewRuleBased(cfg, zerolog.Nop())

	out := &preprocess.Output{Sensor: raster.SensorRadar} // no VV band
	det, err := c.Classify(out)
	require.NoError(t, err)

	assert.True(t, det.Degraded)
	assert.Equal(t, cfg.CanonicalSize, det.Probability.Height())
	assert.Equal(t, 0, det.Mask.Count())
	assert.Empty(t, det.Regions)
}

func TestClassify_RadarWaterScene(t *testing.T) {
	cfg := smallConfig()
	c := NewRuleBased(cfg, zerolog.Nop())

	det, err := c.Classify(radarOutput(cfg.CanonicalSize, 0.05, 0.05))
	require.NoError(t, err)

	assert.Equal(t, raster.SensorRadar, det.Sensor)
	assert.Equal(t, methodMultiScaleRules, det.Method)
	assert.False(t, det.Degraded)
	assert.Equal(t, cfg.RadarThreshold, det.Threshold)

	// Flat dark water: high probability everywhere, full-frame mask.
	assert.Greater(t, det.Probability[32][32], 0.9)
	assert.Equal(t, cfg.CanonicalSize*cfg.CanonicalSize, det.Mask.Count())
	require.Len(t, det.Regions, 1)
	assert.Equal(t, cfg.CanonicalSize*cfg.CanonicalSize, det.Regions[0].AreaPx)

	assertRange01(t, det.Probability)
	assertRange01(t, det.Confidence)
}

func TestClassify_RadarDryScene(t *testing.T) {
	cfg := smallConfig()
	c := NewRuleBased(cfg, zerolog.Nop())

	det, err := c.Classify(radarOutput(cfg.CanonicalSize, 0.9, 0.9))
	require.NoError(t, err)

	assert.Less(t, det.Probability[32][32], 0.2)
	assert.Equal(t, 0, det.Mask.Count())
	assert.Empty(t, det.Regions)
}

func TestClassify_OpticalWaterRectangle(t *testing.T) {
	cfg := smallConfig()
	cfg.MinRegionAreaPx = 20
	c := NewRuleBased(cfg, zerolog.Nop())
	size := cfg.CanonicalSize

	// Water rectangle: strong water index, no vegetation. Everything
	// else is vegetated and must be suppressed by the gate.
	ndwi := constGrid(size, -0.8)
	ndvi := constGrid(size, 0.8)
	for y := 16; y < 48; y++ {
		for x := 8; x < 24; x++ {
			ndwi[y][x] = 0.9
			ndvi[y][x] = 0.0
		}
	}

	det, err := c.Classify(&preprocess.Output{
		Sensor: raster.SensorOptical,
		Products: map[string]raster.Grid{
			preprocess.ProductNDWI: ndwi,
			preprocess.ProductNDVI: ndvi,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, cfg.OpticalThreshold, det.Threshold)
	assert.Greater(t, det.Probability[32][16], 0.5)
	assert.Less(t, det.Probability[32][50], cfg.OpticalThreshold)
	require.NotEmpty(t, det.Regions)

	r := det.Regions[0]
	assert.InDelta(t, 15.5, r.CentroidX, 3)
	assert.InDelta(t, 31.5, r.CentroidY, 3)
}

func TestRadarWaterRule(t *testing.T) {
	size := 4
	f := features{
		vv:      constGrid(size, 0.1),
		vh:      constGrid(size, 0.1),
		ratio:   constGrid(size, 1.0),
		texture: raster.NewGrid(size, size),
	}

	out := radarWaterRule(f, 0.15)
	assert.InDelta(t, 0.9, out[1][1], 1e-9)

	// A suppressed cross-pol ratio adds supporting evidence.
	f.ratio = constGrid(size, 0.0)
	out = radarWaterRule(f, 0.15)
	assert.InDelta(t, 1.0, out[1][1], 1e-9) // 0.9 + 0.2 clamps

	// Texture above the gate kills the pixel.
	f.texture = constGrid(size, 0.5)
	out = radarWaterRule(f, 0.15)
	assert.Equal(t, 0.0, out[1][1])
}

func TestOpticalWaterRule(t *testing.T) {
	size := 4
	f := features{
		ndwi:  constGrid(size, 0.6),
		mndwi: constGrid(size, 0.8),
		ndvi:  raster.NewGrid(size, size),
	}

	out := opticalWaterRule(f, 0.1)
	assert.InDelta(t, 0.7, out[1][1], 1e-9)

	f.ndvi = constGrid(size, 0.5)
	out = opticalWaterRule(f, 0.1)
	assert.Equal(t, 0.0, out[1][1])
}

func TestConfidence_ClusteringDecaysWithDistance(t *testing.T) {
	cfg := smallConfig()
	c := NewRuleBased(cfg, zerolog.Nop())
	size := cfg.CanonicalSize

	prob := raster.NewGrid(size, size)
	for y := 20; y < 30; y++ {
		for x := 20; x < 30; x++ {
			prob[y][x] = 0.9
		}
	}
	f := features{
		vv: constGrid(size, 0.5),
		vh: constGrid(size, 0.5),
	}

	conf := c.confidence(raster.SensorRadar, f, prob, cfg.RadarThreshold)
	assert.Greater(t, conf[25][25], conf[25][60])
	assertRange01(t, conf)
}
