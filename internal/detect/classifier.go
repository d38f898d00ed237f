// Package detect estimates per-pixel flood probability and confidence
// from preprocessed bands. The Classifier interface is the seam where a
// trained segmentation model would plug in; the shipped implementation
// is a deterministic multi-scale rule ensemble.
package detect

import (
	"github.com/flood-guardian/flood-guardian-api-poc/internal/preprocess"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/raster"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/regions"
)

// Detection is the detector output: probability and confidence maps in
// [0,1], the thresholded mask and the raw regions extracted from it.
type Detection struct {
	Sensor      raster.Sensor
	Method      string
	Probability raster.Grid
	Confidence  raster.Grid
	Mask        raster.Mask
	Regions     []regions.Region
	Threshold   float64

	// Degraded is set when feature extraction failed and the maps were
	// zero-filled instead of propagating an error.
	Degraded bool
}

// Classifier maps preprocessed bands to a Detection. Implementations
// must degrade rather than fail: numerical trouble inside feature
// extraction yields an all-zero probability map, never an error.
// Errors are reserved for structurally unusable input.
type Classifier interface {
	Classify(in *preprocess.Output) (*Detection, error)
}
