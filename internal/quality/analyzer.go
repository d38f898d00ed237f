package quality

import (
	"fmt"

	"github.com/flood-guardian/flood-guardian-api-poc/internal/config"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/raster"
)

// Score weights. Data availability, spatial signal and weather
// independence combine into the sensor score; cloud cover additionally
// penalizes the optical sensor only, up to cloudPenaltyMax.
const (
	availabilityWeight = 0.3
	spatialWeight      = 0.1
	weatherWeight      = 0.4
	cloudPenaltyMax    = 0.5

	// Weather independence per family: radar sees through clouds.
	radarWeatherIndependence   = 1.0
	opticalWeatherIndependence = 0.2

	// Score forced when neither sensor delivered a scene.
	fallbackScore = 0.7
)

// SensorScore is the per-sensor quality breakdown.
type SensorScore struct {
	Sensor        raster.Sensor
	Available     bool
	CloudFraction float64 // optical only; 1.0 when no optical data
	SignalQuality float64 // radar only
	Score         float64
}

// Assessment is the analyzer verdict: the selected scene plus the
// scores and a human-readable justification.
type Assessment struct {
	Selected *raster.Scene
	Sensor   raster.Sensor
	Radar    SensorScore
	Optical  SensorScore
	Fallback bool
	Reason   string
}

// Analyze scores the available scenes and picks one. An available
// sensor always beats a missing one regardless of score, so a clouded
// optical scene still wins over absent radar; with no scenes at all the
// verdict is a radar fallback with a forced score.
func Analyze(radar, optical *raster.Scene, cfg config.Config) (*Assessment, error) {
	if radar != nil {
		if err := radar.Validate(); err != nil {
			return nil, err
		}
	}
	if optical != nil {
		if err := optical.Validate(); err != nil {
			return nil, err
		}
	}

	a := &Assessment{
		Radar:   scoreRadar(radar),
		Optical: scoreOptical(optical, cfg),
	}

	switch {
	case radar == nil && optical == nil:
		a.Sensor = raster.SensorRadar
		a.Fallback = true
		a.Radar.Score = fallbackScore
		a.Reason = fmt.Sprintf("fallback: no scene available from either sensor, defaulting to radar with forced score %.2f", fallbackScore)
	case radar == nil:
		a.Selected = optical
		a.Sensor = raster.SensorOptical
		a.Reason = fmt.Sprintf("selected optical (score %.2f): no radar scene delivered, cloud cover %.0f%%",
			a.Optical.Score, a.Optical.CloudFraction*100)
	case optical == nil:
		a.Selected = radar
		a.Sensor = raster.SensorRadar
		a.Reason = fmt.Sprintf("selected radar (score %.2f): no optical scene delivered, backscatter is weather independent", a.Radar.Score)
	case a.Radar.Score >= a.Optical.Score:
		// Ties favor radar: it is weather independent.
		a.Selected = radar
		a.Sensor = raster.SensorRadar
		a.Reason = fmt.Sprintf("selected radar (score %.2f vs optical %.2f): weather-independent backscatter, optical cloud cover %.0f%%",
			a.Radar.Score, a.Optical.Score, a.Optical.CloudFraction*100)
	default:
		a.Selected = optical
		a.Sensor = raster.SensorOptical
		a.Reason = fmt.Sprintf("selected optical (score %.2f vs radar %.2f): cloud cover %.0f%% is low enough for spectral water indices",
			a.Optical.Score, a.Radar.Score, a.Optical.CloudFraction*100)
	}
	return a, nil
}

func scoreRadar(scene *raster.Scene) SensorScore {
	s := SensorScore{Sensor: raster.SensorRadar, CloudFraction: 0}
	if scene == nil {
		return s
	}
	s.Available = true
	s.SignalQuality = radarSignalQuality(scene)
	s.Score = availabilityWeight + spatialWeight*s.SignalQuality + weatherWeight*radarWeatherIndependence
	return s
}

// radarSignalQuality sums the acquisition quality contributions:
// data present, dual polarization, wide-swath mode, at least two bands.
func radarSignalQuality(scene *raster.Scene) float64 {
	q := 0.5
	if scene.DualPolarization {
		q += 0.2
	}
	if scene.WideSwath {
		q += 0.2
	}
	if len(scene.BandOrder) >= 2 {
		q += 0.1
	}
	if q > 1 {
		q = 1
	}
	return q
}

func scoreOptical(scene *raster.Scene, cfg config.Config) SensorScore {
	s := SensorScore{Sensor: raster.SensorOptical, CloudFraction: 1}
	if scene == nil {
		return s
	}
	s.Available = true
	s.CloudFraction = CloudCover(scene, cfg)
	s.Score = availabilityWeight +
		spatialWeight*(1-s.CloudFraction) +
		weatherWeight*opticalWeatherIndependence -
		cloudPenaltyMax*s.CloudFraction
	if s.Score < 0 {
		s.Score = 0
	}
	return s
}

// CloudCover estimates the cloud fraction of an optical scene. Pixels
// that are bright across the visible bands while showing no vegetation
// signal are classified as cloud. With no optical data at all the
// analyzer reports 100% cover.
func CloudCover(scene *raster.Scene, cfg config.Config) float64 {
	if scene == nil {
		return 1
	}
	blue := scene.Band(raster.BandBlue)
	green := scene.Band(raster.BandGreen)
	red := scene.Band(raster.BandRed)
	nir := scene.Band(raster.BandNIR)
	if red == nil || nir == nil {
		return 1
	}

	h, w := red.Height(), red.Width()
	cloudy := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			brightness := red[y][x]
			n := 1.0
			if green != nil {
				brightness += green[y][x]
				n++
			}
			if blue != nil {
				brightness += blue[y][x]
				n++
			}
			brightness /= n

			ndvi := 0.0
			if denom := nir[y][x] + red[y][x]; denom != 0 {
				ndvi = (nir[y][x] - red[y][x]) / denom
			}

			if brightness > cfg.CloudBrightness && ndvi < cfg.CloudVegetationMax {
				cloudy++
			}
		}
	}
	return float64(cloudy) / float64(h*w)
}
