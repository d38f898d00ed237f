// Package geotiff loads GeoTIFF acquisitions into in-memory scenes.
package geotiff

import (
	"fmt"
	"os"

	"github.com/airbusgeo/godal"
	"github.com/paulmach/orb"

	"github.com/flood-guardian/flood-guardian-api-poc/internal/raster"
)

// Default band layouts of the GeoTIFFs the downloaders produce.
var (
	RadarBandOrder   = []string{raster.BandVV, raster.BandVH}
	OpticalBandOrder = []string{raster.BandBlue, raster.BandGreen, raster.BandRed, raster.BandNIR, raster.BandSWIR}
)

func init() {
	godal.RegisterAll()
}

// Load reads a GeoTIFF into a scene, mapping file bands to names by
// position in bandOrder. Files with fewer bands than the layout keep
// only the leading names, so a single-band radar file loads as VV only.
func Load(tiffPath string, sensor raster.Sensor, bandOrder []string) (*raster.Scene, error) {
	dataset, err := godal.Open(tiffPath, godal.ErrLogger(func(ec godal.ErrorCategory, code int, msg string) error {
		if ec == godal.CE_Warning {
			return nil
		}
		return fmt.Errorf("gdal: %s", msg)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to open TIFF file: %v", err)
	}
	defer dataset.Close()

	bandsData := dataset.Bands()
	if len(bandsData) == 0 {
		return nil, raster.NewInputError("%s has no raster bands", tiffPath)
	}
	if len(bandsData) < len(bandOrder) {
		bandOrder = bandOrder[:len(bandsData)]
	}

	scene := &raster.Scene{
		Sensor:    sensor,
		Bands:     make(map[string]raster.Grid, len(bandOrder)),
		BandOrder: append([]string(nil), bandOrder...),
		BBox:      datasetBound(dataset),
	}
	for i, name := range bandOrder {
		grid, err := readBand(bandsData[i])
		if err != nil {
			return nil, fmt.Errorf("failed to read band %s: %v", name, err)
		}
		scene.Bands[name] = grid
	}

	if sensor == raster.SensorRadar {
		scene.DualPolarization = scene.HasBand(raster.BandVV) && scene.HasBand(raster.BandVH)
		scene.WideSwath = true
	}
	if info, err := os.Stat(tiffPath); err == nil {
		scene.AcquiredAt = info.ModTime()
	}

	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return scene, nil
}

func readBand(band godal.Band) (raster.Grid, error) {
	xSize := band.Structure().SizeX
	ySize := band.Structure().SizeY
	data := make([]float64, xSize*ySize)
	if err := band.Read(0, 0, data, xSize, ySize); err != nil {
		return nil, err
	}
	result := make(raster.Grid, ySize)
	for i := range result {
		result[i] = data[i*xSize : (i+1)*xSize]
	}
	return result, nil
}

func datasetBound(dataset *godal.Dataset) orb.Bound {
	geoTransform, err := dataset.GeoTransform()
	if err != nil {
		return orb.Bound{}
	}

	width := dataset.Structure().SizeX
	height := dataset.Structure().SizeY

	xMin := geoTransform[0]
	yMax := geoTransform[3]
	xMax := xMin + geoTransform[1]*float64(width)
	yMin := yMax + geoTransform[5]*float64(height)

	return orb.Bound{Min: orb.Point{xMin, yMin}, Max: orb.Point{xMax, yMax}}
}
