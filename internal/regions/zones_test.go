package regions

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flood-guardian/flood-guardian-api-poc/internal/raster"
)

func TestProjectZones(t *testing.T) {
	scene := &raster.Scene{
		Sensor:    raster.SensorRadar,
		Bands:     map[string]raster.Grid{raster.BandVV: raster.NewGrid(100, 100)},
		BandOrder: []string{raster.BandVV},
		BBox:      orb.Bound{Min: orb.Point{10, 50}, Max: orb.Point{11, 51}},
	}

	regs := []Region{
		{ID: 1, AreaPx: 10000, CentroidX: 49.5, CentroidY: 49.5, Severity: SeverityHigh},
		{ID: 2, AreaPx: 50, CentroidX: 0, CentroidY: 0, Severity: SeverityLow},
	}

	zones := ProjectZones(regs, scene, 100, 100, 100)
	require.Len(t, zones, 2)

	// Grid center projects to the bounding box center.
	assert.Equal(t, 1, zones[0].RegionID)
	assert.InDelta(t, 10.5, zones[0].Centroid.Lon(), 1e-9)
	assert.InDelta(t, 50.5, zones[0].Centroid.Lat(), 1e-9)
	assert.InDelta(t, 1.0, zones[0].AreaKm2, 1e-9) // 10000 px * 100 m2
	assert.Equal(t, "High", zones[0].RiskLabel)
	assert.Equal(t, 10000, zones[0].PixelCount)

	// Top-left pixel sits near the north-west corner.
	assert.Less(t, zones[1].Centroid.Lon(), 10.1)
	assert.Greater(t, zones[1].Centroid.Lat(), 50.9)
	assert.Equal(t, "Low", zones[1].RiskLabel)
}

func TestProjectZones_RescalesAnalysisGrid(t *testing.T) {
	// Native scene 200x200, analysis grid 100x100: a centroid at the
	// analysis-grid center must still project to the bbox center.
	scene := &raster.Scene{
		Sensor:    raster.SensorRadar,
		Bands:     map[string]raster.Grid{raster.BandVV: raster.NewGrid(200, 200)},
		BandOrder: []string{raster.BandVV},
		BBox:      orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{2, 2}},
	}

	zones := ProjectZones([]Region{{ID: 1, AreaPx: 1, CentroidX: 50, CentroidY: 50}}, scene, 100, 100, 100)
	require.Len(t, zones, 1)
	assert.InDelta(t, 1.0, zones[0].Centroid.Lon(), 0.02)
	assert.InDelta(t, 1.0, zones[0].Centroid.Lat(), 0.02)
}

func TestRiskLabelFor(t *testing.T) {
	assert.Equal(t, "High", riskLabelFor(SeverityHigh))
	assert.Equal(t, "Medium", riskLabelFor(SeverityMedium))
	assert.Equal(t, "Low", riskLabelFor(SeverityLow))
}
