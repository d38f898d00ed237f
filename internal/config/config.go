package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries every tuning constant the pipeline recognizes. It is
// passed by value into each stage so a run can never observe a mutated
// configuration. The defaults are heuristic tuning values carried over
// from field calibration; treat them as a starting point, not optima.
type Config struct {
	// Canonical grid every scene is resized to before detection.
	CanonicalSize int     `yaml:"canonical_size"`
	PixelAreaM2   float64 `yaml:"pixel_area_m2"`

	// Per-sensor probability thresholds for mask derivation.
	RadarThreshold   float64 `yaml:"radar_threshold"`
	OpticalThreshold float64 `yaml:"optical_threshold"`

	// Region area floors, before and after enhancement.
	MinRegionAreaPx         int `yaml:"min_region_area_px"`
	MinEnhancedRegionAreaPx int `yaml:"min_enhanced_region_area_px"`

	// Preprocessing.
	DespeckleWindow   int     `yaml:"despeckle_window"`
	TextureWindow     int     `yaml:"texture_window"`
	RadarDBFloor      float64 `yaml:"radar_db_floor"`
	RadarDBCeil       float64 `yaml:"radar_db_ceil"`
	RadarStretchLoPct float64 `yaml:"radar_stretch_lo_pct"`
	RadarStretchHiPct float64 `yaml:"radar_stretch_hi_pct"`
	OpticalStretchLo  float64 `yaml:"optical_stretch_lo_pct"`
	OpticalStretchHi  float64 `yaml:"optical_stretch_hi_pct"`
	DarkObjectPct     float64 `yaml:"dark_object_pct"`

	// Detector.
	Scales             []float64 `yaml:"scales"`
	RadarScaleWeights  []float64 `yaml:"radar_scale_weights"`
	OpticalScaleWeight []float64 `yaml:"optical_scale_weights"`
	TextureGate        float64   `yaml:"texture_gate"`
	VegetationGate     float64   `yaml:"vegetation_gate"`
	BlurSigma          float64   `yaml:"blur_sigma"`
	BlurRadius         int       `yaml:"blur_radius"`
	RefineKernel       int       `yaml:"refine_kernel"`

	// Quality analyzer.
	CloudBrightness    float64 `yaml:"cloud_brightness"`
	CloudVegetationMax float64 `yaml:"cloud_vegetation_max"`

	// Postprocessing.
	CleanKernel         int     `yaml:"clean_kernel"`
	CleanIterations     int     `yaml:"clean_iterations"`
	HoleKernel          int     `yaml:"hole_kernel"`
	ReblurSigma         float64 `yaml:"reblur_sigma"`
	ReblurRadius        int     `yaml:"reblur_radius"`
	InMaskProbFloor     float64 `yaml:"in_mask_prob_floor"`
	DropMeanProbBelow   float64 `yaml:"drop_mean_prob_below"`
	DropMeanConfBelow   float64 `yaml:"drop_mean_conf_below"`
	FalloffDivisor      float64 `yaml:"falloff_divisor"`
	ClusteringDivisor   float64 `yaml:"clustering_divisor"`
	SeverityHighProb    float64 `yaml:"severity_high_prob"`
	SeverityHighAreaPx  int     `yaml:"severity_high_area_px"`
	SeverityMedProb     float64 `yaml:"severity_med_prob"`
	SeverityMedAreaPx   int     `yaml:"severity_med_area_px"`
	RiskHighFloodPct    float64 `yaml:"risk_high_flood_pct"`
	RiskHighConfidence  float64 `yaml:"risk_high_confidence"`
	RiskMedFloodPct     float64 `yaml:"risk_med_flood_pct"`
	RiskMedConfidence   float64 `yaml:"risk_med_confidence"`
}

// Default returns the calibrated defaults.
func Default() Config {
	return Config{
		CanonicalSize: 512,
		PixelAreaM2:   100,

		RadarThreshold:   0.30,
		OpticalThreshold: 0.40,

		MinRegionAreaPx:         100,
		MinEnhancedRegionAreaPx: 50,

		DespeckleWindow:   3,
		TextureWindow:     5,
		RadarDBFloor:      -50,
		RadarDBCeil:       10,
		RadarStretchLoPct: 5,
		RadarStretchHiPct: 95,
		OpticalStretchLo:  2,
		OpticalStretchHi:  98,
		DarkObjectPct:     1,

		Scales:             []float64{1.0, 0.5, 0.25},
		RadarScaleWeights:  []float64{0.6, 0.3, 0.1},
		OpticalScaleWeight: []float64{0.7, 0.2, 0.1},
		TextureGate:        0.15,
		VegetationGate:     0.10,
		BlurSigma:          1.4,
		BlurRadius:         2,
		RefineKernel:       3,

		CloudBrightness:    0.40,
		CloudVegetationMax: 0.20,

		CleanKernel:        3,
		CleanIterations:    2,
		HoleKernel:         5,
		ReblurSigma:        0.8,
		ReblurRadius:       1,
		InMaskProbFloor:    0.7,
		DropMeanProbBelow:  0.3,
		DropMeanConfBelow:  0.6,
		FalloffDivisor:     5,
		ClusteringDivisor:  10,
		SeverityHighProb:   0.8,
		SeverityHighAreaPx: 200,
		SeverityMedProb:    0.6,
		SeverityMedAreaPx:  100,
		RiskHighFloodPct:   10,
		RiskHighConfidence: 0.8,
		RiskMedFloodPct:    3,
		RiskMedConfidence:  0.6,
	}
}

// Load reads a YAML file over the defaults. Fields absent from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.CanonicalSize < 32 {
		return fmt.Errorf("canonical_size %d is too small", c.CanonicalSize)
	}
	if len(c.Scales) == 0 {
		return fmt.Errorf("at least one detection scale is required")
	}
	if len(c.RadarScaleWeights) != len(c.Scales) || len(c.OpticalScaleWeight) != len(c.Scales) {
		return fmt.Errorf("scale weights must match the %d scales", len(c.Scales))
	}
	if c.RadarThreshold <= 0 || c.RadarThreshold >= 1 || c.OpticalThreshold <= 0 || c.OpticalThreshold >= 1 {
		return fmt.Errorf("probability thresholds must sit inside (0,1)")
	}
	if c.DespeckleWindow%2 == 0 || c.TextureWindow%2 == 0 || c.CleanKernel%2 == 0 || c.HoleKernel%2 == 0 {
		return fmt.Errorf("window and kernel sizes must be odd")
	}
	return nil
}
