package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"

	"github.com/flood-guardian/flood-guardian-api-poc/internal/pipeline"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/properties"
)

// CreateFloodZonesGeoJson writes the detected zones as a GeoJSON
// FeatureCollection of centroid points under the result directory.
func CreateFloodZonesGeoJson(result *pipeline.Result, name string) string {
	outputPath := fmt.Sprintf("%s/result/%s.geojson", properties.DataPath(), name)

	fc := geojson.NewFeatureCollection()
	for _, zone := range result.Zones {
		feature := geojson.NewFeature(zone.Centroid)
		feature.Properties = geojson.Properties{
			"region_id":   zone.RegionID,
			"area_km2":    zone.AreaKm2,
			"risk":        zone.RiskLabel,
			"pixel_count": zone.PixelCount,
		}
		fc.Append(feature)
	}

	stats := result.Statistics()
	fc.ExtraMembers = geojson.Properties{
		"sensor":        string(result.Assessment.Sensor),
		"flood_percent": stats.FloodPercent,
		"overall_risk":  stats.OverallRisk,
	}

	file, err := os.Create(outputPath)
	if err != nil {
		fmt.Printf("Error creating GeoJSON file: %v\n", err)
		return ""
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(fc); err != nil {
		fmt.Printf("Error encoding GeoJSON: %v\n", err)
		return ""
	}

	fmt.Println("GeoJSON file created successfully at", outputPath)
	return outputPath
}
