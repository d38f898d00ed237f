package output

import (
	"fmt"
	"strings"

	"github.com/fogleman/gg"

	"github.com/flood-guardian/flood-guardian-api-poc/internal/pipeline"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/properties"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/raster"
	"github.com/flood-guardian/flood-guardian-api-poc/internal/regions"
)

// CreateFloodOverlayImage renders the enhanced flood mask over a
// grayscale base of the selected scene's first band and marks each
// zone centroid.
func CreateFloodOverlayImage(result *pipeline.Result, outputImagePath string) error {
	if !strings.Contains(outputImagePath, ".png") {
		outputImagePath += ".png"
	}

	scene := result.Assessment.Selected
	if scene == nil {
		return raster.NewInputError("no scene to render")
	}
	base := scene.Band(scene.BandOrder[0])
	mask := result.Enhancement.Mask
	height, width := mask.Height(), mask.Width()

	// The mask runs at canonical resolution; the base band may not.
	base = raster.Resize(base, height, width)

	dc := gg.NewContext(width, height)
	for i := 0; i < height; i++ {
		for j := 0; j < width; j++ {
			value := base[i][j]
			if value < 0 {
				value = 0
			}
			if value > 1 {
				value = 1
			}
			dc.SetRGB(value, value, value)
			dc.SetPixel(j, i)
		}
	}

	riskByRegion := make(map[int]string, len(result.Zones))
	for _, zone := range result.Zones {
		riskByRegion[zone.RegionID] = zone.RiskLabel
	}
	for _, region := range result.Enhancement.Regions {
		c := overlayColor(riskByRegion[region.ID])
		paintRegion(dc, mask, region, c)
	}

	dc.SetRGB(1, 1, 1)
	for _, region := range result.Enhancement.Regions {
		dc.DrawCircle(region.CentroidX, region.CentroidY, 3)
		dc.Stroke()
	}

	if err := dc.SavePNG(outputImagePath); err != nil {
		return fmt.Errorf("failed to save image: %v", err)
	}

	fmt.Println("Flood overlay image created successfully as", outputImagePath)
	return nil
}

func paintRegion(dc *gg.Context, mask raster.Mask, region regions.Region, c properties.Color) {
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, 0.6)
	for y := region.Bounds.MinY; y <= region.Bounds.MaxY; y++ {
		for x := region.Bounds.MinX; x <= region.Bounds.MaxX; x++ {
			if mask[y][x] {
				dc.SetPixel(x, y)
			}
		}
	}
}

func overlayColor(risk string) properties.Color {
	if c, ok := properties.ColorMap[risk]; ok {
		return c
	}
	return properties.ColorMap["Low"]
}
