// Package pipeline wires the four analysis stages into one sequential
// run: quality analysis and sensor selection, preprocessing, detection,
// enhancement. Each stage is a pure transformation of the previous
// stage's output, so independent scenes can run fully in parallel.
package pipeline

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/flood-guardian/flood-guardian-api-poc/internal/config"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/detect"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/postprocess"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/preprocess"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/quality"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/raster"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/regions"
)

// Pipeline runs flood analysis over paired radar/optical scenes with a
// fixed configuration. The zero logger is valid and silent.
type Pipeline struct {
	cfg        config.Config
	log        zerolog.Logger
	classifier detect.Classifier
}

func New(cfg config.Config, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		log:        log,
		classifier: detect.NewRuleBased(cfg, log),
	}
}

// WithClassifier swaps the detection stage, the seam where a trained
// model replaces the deterministic rule ensemble.
func (p *Pipeline) WithClassifier(c detect.Classifier) *Pipeline {
	p.classifier = c
	return p
}

// Run executes the four stages over the available scenes. Either scene
// may be nil; with both nil there is nothing to analyze and an
// InputError surfaces to the caller.
func (p *Pipeline) Run(radar, optical *raster.Scene) (*Result, error) {
	start := time.Now()

	assessment, err := quality.Analyze(radar, optical, p.cfg)
	if err != nil {
		return nil, err
	}
	if assessment.Selected == nil {
		return nil, raster.NewInputError("no scene available from either sensor")
	}
	p.log.Info().
		Str("sensor", string(assessment.Sensor)).
		Float64("radar_score", assessment.Radar.Score).
		Float64("optical_score", assessment.Optical.Score).
		Msg("sensor selected")

	pre, err := preprocess.Run(assessment.Selected, p.cfg)
	if err != nil {
		return nil, err
	}

	det, err := p.classifier.Classify(pre)
	if err != nil {
		return nil, err
	}
	if det.Degraded {
		p.log.Warn().Str("sensor", string(det.Sensor)).Msg("detection degraded to empty result")
	}

	enh := postprocess.Enhance(det, p.cfg)
	zones := regions.ProjectZones(enh.Regions, assessment.Selected,
		enh.Mask.Height(), enh.Mask.Width(), p.cfg.PixelAreaM2)

	result := &Result{
		Assessment:   assessment,
		Preprocessed: pre,
		Detection:    det,
		Enhancement:  enh,
		Zones:        zones,
		Elapsed:      time.Since(start),
	}
	p.log.Info().
		Int("flood_pixels", enh.Statistics.FloodPixels).
		Float64("flood_pct", enh.Statistics.FloodPercent).
		Str("risk", enh.Statistics.OverallRisk).
		Int("regions", len(enh.Regions)).
		Dur("elapsed", result.Elapsed).
		Msg("analysis complete")
	return result, nil
}
