// Package preprocess turns a selected scene into normalized canonical
// bands plus the derived products the detector consumes. Radar and
// optical scenes take different paths; both end at the same canonical
// resolution with every band in [0,1].
package preprocess

import (
	"github.com/flood-guardian/flood-guardian-api-poc/internal/config"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/raster"
)

// Derived product names, stable keys the detector looks up.
const (
	ProductRatio   = "cross_pol_ratio"
	ProductPolDiff = "pol_diff"
	ProductTexture = "texture"
	ProductNDVI    = "ndvi"
	ProductNDWI    = "ndwi"
	ProductMNDWI   = "mndwi"
)

// Output is the preprocessed scene: normalized bands at canonical
// resolution and the derived product mapping, all newly allocated so
// the input scene stays untouched.
type Output struct {
	Sensor   raster.Sensor
	Bands    map[string]raster.Grid
	Products map[string]raster.Grid

	// Scene references the original input for geo-projection only.
	Scene *raster.Scene
}

// Product returns a derived product grid, or nil when absent.
func (o *Output) Product(name string) raster.Grid {
	if o == nil || o.Products == nil {
		return nil
	}
	return o.Products[name]
}

// Band returns a normalized band grid, or nil when absent.
func (o *Output) Band(name string) raster.Grid {
	if o == nil || o.Bands == nil {
		return nil
	}
	return o.Bands[name]
}

// Run validates and preprocesses the scene along its sensor path.
// Malformed scenes return an InputError; derived-product numerics
// degrade to zero-valued pixels instead of failing (division guards).
func Run(scene *raster.Scene, cfg config.Config) (*Output, error) {
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	switch scene.Sensor {
	case raster.SensorRadar:
		return runRadar(scene, cfg)
	case raster.SensorOptical:
		return runOptical(scene, cfg)
	default:
		return nil, raster.NewInputError("unknown sensor kind %q", scene.Sensor)
	}
}
