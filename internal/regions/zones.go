package regions

import (
	"github.com/paulmach/orb"

	"github.com/flood-guardian/flood-guardian-api-poc/internal/raster"
)

// Zone is the geo-referenced projection of a Region handed to the
// presentation layer: centroid in WGS84, an area estimate and the risk
// label derived from the region severity.
type Zone struct {
	RegionID   int       `json:"region_id"`
	Centroid   orb.Point `json:"centroid"`
	AreaKm2    float64   `json:"area_km2"`
	RiskLabel  string    `json:"risk_label"`
	PixelCount int       `json:"pixel_count"`
}

// ProjectZones converts regions to zones through the scene bounding
// box. Regions are computed on the analysis grid, which may differ from
// the scene's native resolution, so centroids are rescaled before
// projecting. pixelAreaM2 is the ground area of one analysis-grid pixel
// (100 for a 10m grid).
func ProjectZones(rs []Region, scene *raster.Scene, gridHeight, gridWidth int, pixelAreaM2 float64) []Zone {
	sceneH, sceneW := scene.Size()
	scaleX, scaleY := 1.0, 1.0
	if gridWidth > 0 && gridHeight > 0 {
		scaleX = float64(sceneW) / float64(gridWidth)
		scaleY = float64(sceneH) / float64(gridHeight)
	}

	zones := make([]Zone, 0, len(rs))
	for _, r := range rs {
		lon, lat := scene.PixelToLonLat(r.CentroidX*scaleX, r.CentroidY*scaleY)
		zones = append(zones, Zone{
			RegionID:   r.ID,
			Centroid:   orb.Point{lon, lat},
			AreaKm2:    float64(r.AreaPx) * pixelAreaM2 / 1e6,
			RiskLabel:  riskLabelFor(r.Severity),
			PixelCount: r.AreaPx,
		})
	}
	return zones
}

func riskLabelFor(s Severity) string {
	switch s {
	case SeverityHigh:
		return "High"
	case SeverityMedium:
		return "Medium"
	default:
		return "Low"
	}
}
