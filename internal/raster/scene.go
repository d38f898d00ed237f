package raster

import (
	"time"

	"github.com/paulmach/orb"
)

// Sensor identifies which family a scene was acquired by.
type Sensor string

const (
	SensorRadar   Sensor = "radar"
	SensorOptical Sensor = "optical"
)

// Canonical band names. Radar scenes carry the two polarizations,
// optical scenes carry Sentinel-2 style band identifiers.
const (
	BandVV = "VV"
	BandVH = "VH"

	BandBlue  = "B02"
	BandGreen = "B03"
	BandRed   = "B04"
	BandNIR   = "B08"
	BandSWIR  = "B11"
)

// Scene is a decoded multi-band raster for one location and time.
// It is owned by the pipeline invocation that created it and is never
// mutated after creation; every stage derives new grids from it.
type Scene struct {
	Sensor     Sensor
	Bands      map[string]Grid
	BandOrder  []string
	BBox       orb.Bound
	AcquiredAt time.Time

	// Radar acquisition metadata used by the quality analyzer.
	DualPolarization bool
	WideSwath        bool
}

// Band returns the named band grid, or nil when absent.
func (s *Scene) Band(name string) Grid {
	if s == nil || s.Bands == nil {
		return nil
	}
	return s.Bands[name]
}

// HasBand reports whether the named band is present and non-empty.
func (s *Scene) HasBand(name string) bool {
	b := s.Band(name)
	return b != nil && b.Height() > 0 && b.Width() > 0
}

// Validate checks the scene contract: at least one band, every band
// non-empty and all bands sharing the same dimensions.
func (s *Scene) Validate() error {
	if s == nil {
		return NewInputError("scene is nil")
	}
	if len(s.BandOrder) == 0 {
		return NewInputError("scene has no bands")
	}
	var h, w int
	for i, name := range s.BandOrder {
		band, ok := s.Bands[name]
		if !ok {
			return NewInputError("band %s listed but missing from grid map", name)
		}
		if band.Height() == 0 || band.Width() == 0 {
			return NewInputError("band %s is empty", name)
		}
		if i == 0 {
			h, w = band.Height(), band.Width()
			continue
		}
		if band.Height() != h || band.Width() != w {
			return NewInputError("band %s is %dx%d, expected %dx%d like %s",
				name, band.Width(), band.Height(), w, h, s.BandOrder[0])
		}
	}
	return nil
}

// Size returns the shared band dimensions. Call Validate first.
func (s *Scene) Size() (height, width int) {
	if s == nil || len(s.BandOrder) == 0 {
		return 0, 0
	}
	b := s.Bands[s.BandOrder[0]]
	return b.Height(), b.Width()
}

// PixelToLonLat linearly interpolates a pixel position inside the scene
// bounding box. Scenes are assumed north-up, so row 0 is the northern edge.
func (s *Scene) PixelToLonLat(x, y float64) (lon, lat float64) {
	h, w := s.Size()
	if h == 0 || w == 0 {
		return s.BBox.Min.Lon(), s.BBox.Max.Lat()
	}
	lon = s.BBox.Min.Lon() + (x+0.5)/float64(w)*(s.BBox.Max.Lon()-s.BBox.Min.Lon())
	lat = s.BBox.Max.Lat() - (y+0.5)/float64(h)*(s.BBox.Max.Lat()-s.BBox.Min.Lat())
	return lon, lat
}
