package pipeline

import (
	"time"

	"github.com/flood-guardian/flood-guardian-api-poc/internal/detect"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/postprocess"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/preprocess"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/quality"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/regions"
)

// Result is the terminal aggregate of one pipeline run. Every stage
// output is retained so a caller can inspect or replay any stage.
type Result struct {
	Assessment   *quality.Assessment
	Preprocessed *preprocess.Output
	Detection    *detect.Detection
	Enhancement  *postprocess.Enhancement
	Zones        []regions.Zone
	Elapsed      time.Duration
}

// Statistics is a convenience accessor for the final summary.
func (r *Result) Statistics() postprocess.Statistics {
	return r.Enhancement.Statistics
}

// Regions is a convenience accessor for the final region list.
func (r *Result) Regions() []regions.Region {
	return r.Enhancement.Regions
}
