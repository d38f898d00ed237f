package output

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/flood-guardian/flood-guardian-api-poc/internal/pipeline"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/properties"
)

type regionRecord struct {
	RegionID        int     `csv:"region_id"`
	AreaPx          int     `csv:"area_px"`
	AreaKm2         float64 `csv:"area_km2"`
	CentroidLon     float64 `csv:"centroid_lon"`
	CentroidLat     float64 `csv:"centroid_lat"`
	MeanProbability float64 `csv:"mean_probability"`
	MeanConfidence  float64 `csv:"mean_confidence"`
	Compactness     float64 `csv:"compactness"`
	Severity        string  `csv:"severity"`
	Risk            string  `csv:"risk"`
}

// CreateRegionReportCsv writes one row per detected zone with the
// region metrics behind it.
func CreateRegionReportCsv(result *pipeline.Result, name string) (string, error) {
	outputPath := fmt.Sprintf("%s/result/%s.csv", properties.DataPath(), name)

	regionByID := make(map[int]int, len(result.Enhancement.Regions))
	for i, region := range result.Enhancement.Regions {
		regionByID[region.ID] = i
	}

	records := make([]regionRecord, 0, len(result.Zones))
	for _, zone := range result.Zones {
		record := regionRecord{
			RegionID:    zone.RegionID,
			AreaKm2:     zone.AreaKm2,
			Risk:        zone.RiskLabel,
			CentroidLon: zone.Centroid[0],
			CentroidLat: zone.Centroid[1],
		}
		if i, ok := regionByID[zone.RegionID]; ok {
			region := result.Enhancement.Regions[i]
			record.AreaPx = region.AreaPx
			record.MeanProbability = region.MeanProbability
			record.MeanConfidence = region.MeanConfidence
			record.Compactness = region.Compactness
			record.Severity = string(region.Severity)
		}
		records = append(records, record)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&records, file); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %v", err)
	}

	fmt.Println("CSV report created successfully at", outputPath)
	return outputPath, nil
}
