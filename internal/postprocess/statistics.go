package postprocess

import (
	"github.com/flood-guardian/flood-guardian-api-poc/internal/config"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/detect"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/raster"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/regions"
)

// Risk labels, ordered Low < Medium < High.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Statistics summarizes the final flood extent. Consumers rely on the
// internal consistency here: the percentage is derivable from the mask
// and the area from the pixel count.
type Statistics struct {
	FloodPixels     int
	TotalPixels     int
	FloodPercent    float64
	AffectedAreaKm2 float64
	MeanProbability float64
	MeanConfidence  float64
	OverallRisk     string

	// RiskDistribution is the percentage of flood pixels falling into
	// regions of each severity tier.
	RiskDistribution map[regions.Severity]float64
}

// Diagnostics reports how much the enhancement changed the detection.
type Diagnostics struct {
	AreaDeltaPx      int
	AreaDeltaPct     float64
	MeanProbDelta    float64
	RegionCountDelta int
	Quality          string
}

type detectionSnapshot struct {
	floodPixels int
	meanProb    float64
	regionCount int
}

func snapshot(det *detect.Detection) detectionSnapshot {
	return detectionSnapshot{
		floodPixels: det.Mask.Count(),
		meanProb:    raster.MaskedMean(det.Probability, det.Mask),
		regionCount: len(det.Regions),
	}
}

func computeStatistics(e *Enhancement, cfg config.Config) Statistics {
	total := e.Mask.Height() * e.Mask.Width()
	flood := e.Mask.Count()

	s := Statistics{
		FloodPixels:      flood,
		TotalPixels:      total,
		AffectedAreaKm2:  float64(flood) * cfg.PixelAreaM2 / 1e6,
		MeanProbability:  raster.MaskedMean(e.Probability, e.Mask),
		MeanConfidence:   raster.MaskedMean(e.Confidence, e.Mask),
		RiskDistribution: make(map[regions.Severity]float64),
	}
	if total > 0 {
		s.FloodPercent = 100 * float64(flood) / float64(total)
	}

	if flood > 0 {
		for _, r := range e.Regions {
			s.RiskDistribution[r.Severity] += 100 * float64(r.AreaPx) / float64(flood)
		}
	}

	s.OverallRisk = overallRisk(s.FloodPercent, s.MeanConfidence, cfg)
	return s
}

// overallRisk is monotonic in both inputs: raising either the flood
// percentage or the mean confidence never lowers the label.
func overallRisk(floodPct, meanConf float64, cfg config.Config) string {
	switch {
	case floodPct > cfg.RiskHighFloodPct && meanConf > cfg.RiskHighConfidence:
		return RiskHigh
	case floodPct > cfg.RiskMedFloodPct && meanConf > cfg.RiskMedConfidence:
		return RiskMedium
	default:
		return RiskLow
	}
}

func computeDiagnostics(before detectionSnapshot, e *Enhancement) Diagnostics {
	d := Diagnostics{
		AreaDeltaPx:      e.Statistics.FloodPixels - before.floodPixels,
		MeanProbDelta:    e.Statistics.MeanProbability - before.meanProb,
		RegionCountDelta: len(e.Regions) - before.regionCount,
	}
	if before.floodPixels > 0 {
		d.AreaDeltaPct = 100 * float64(d.AreaDeltaPx) / float64(before.floodPixels)
	}

	// Quality scoring: noise got removed, area stayed in the same
	// ballpark, probability did not collapse.
	score := 0
	if d.RegionCountDelta <= 0 {
		score++
	}
	if d.AreaDeltaPct >= -25 && d.AreaDeltaPct <= 25 {
		score++
	}
	if d.MeanProbDelta >= -0.05 {
		score++
	}
	switch score {
	case 3:
		d.Quality = "excellent"
	case 2:
		d.Quality = "good"
	case 1:
		d.Quality = "fair"
	default:
		d.Quality = "poor"
	}
	return d
}
