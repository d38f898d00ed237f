package regions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flood-guardian/flood-guardian-api-poc/internal/raster"
)

var testThresholds = SeverityThresholds{
	HighProbability:   0.8,
	HighAreaPx:        200,
	MediumProbability: 0.6,
	MediumAreaPx:      100,
}

func constGrid(height, width int, v float64) raster.Grid {
	g := raster.NewGrid(height, width)
	g.Fill(v)
	return g
}

func blockMask(height, width, x0, y0, x1, y1 int) raster.Mask {
	m := raster.NewMask(height, width)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			m[y][x] = true
		}
	}
	return m
}

func TestExtract_SingleComponent(t *testing.T) {
	mask := blockMask(20, 20, 2, 3, 6, 7) // 5x5 block
	prob := constGrid(20, 20, 0.9)
	conf := constGrid(20, 20, 0.75)

	regs := Extract(mask, prob, conf, 1, testThresholds)
	require.Len(t, regs, 1)

	r := regs[0]
	assert.Equal(t, 1, r.ID)
	assert.Equal(t, 25, r.AreaPx)
	assert.InDelta(t, 4, r.CentroidX, 1e-9)
	assert.InDelta(t, 5, r.CentroidY, 1e-9)
	assert.Equal(t, Bounds{MinX: 2, MinY: 3, MaxX: 6, MaxY: 7}, r.Bounds)
	assert.InDelta(t, 0.9, r.MeanProbability, 1e-9)
	// Sum-of-squares rounding leaves a ~1e-8 residue on a constant map.
	assert.InDelta(t, 0, r.StdDevProbability, 1e-6)
	assert.InDelta(t, 0.75, r.MeanConfidence, 1e-9)
	assert.Equal(t, 20, r.PerimeterPx)
	assert.InDelta(t, 4*3.14159*25/400, r.Compactness, 1e-3)
}

func TestExtract_DiagonalIsNotConnected(t *testing.T) {
	mask := raster.NewMask(4, 4)
	mask[0][0] = true
	mask[1][1] = true

	regs := Extract(mask, nil, nil, 1, testThresholds)
	assert.Len(t, regs, 2)
}

func TestExtract_MinAreaFilter(t *testing.T) {
	mask := blockMask(20, 20, 0, 0, 4, 4) // 25 px
	mask[10][10] = true                   // 1 px

	regs := Extract(mask, nil, nil, 25, testThresholds)
	require.Len(t, regs, 1)
	assert.Equal(t, 25, regs[0].AreaPx)
}

func TestExtract_EmptyMask(t *testing.T) {
	regs := Extract(raster.NewMask(8, 8), nil, nil, 1, testThresholds)
	assert.Empty(t, regs)
}

func TestExtract_FullFramePerimeterCountsEdges(t *testing.T) {
	mask := blockMask(10, 10, 0, 0, 9, 9)
	regs := Extract(mask, nil, nil, 1, testThresholds)
	require.Len(t, regs, 1)
	assert.Equal(t, 40, regs[0].PerimeterPx)
}

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		name string
		prob float64
		area int
		want Severity
	}{
		{"high prob and large", 0.9, 300, SeverityHigh},
		{"high prob but small", 0.9, 150, SeverityMedium},
		{"medium prob and mid size", 0.7, 150, SeverityMedium},
		{"low prob", 0.4, 1000, SeverityLow},
		{"tiny", 0.9, 50, SeverityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Region{MeanProbability: tt.prob, AreaPx: tt.area}
			assert.Equal(t, tt.want, classifySeverity(r, testThresholds))
		})
	}
}
