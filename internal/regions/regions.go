package regions

import (
	"math"

	"github.com/flood-guardian/flood-guardian-api-poc/internal/raster"
)

// Severity tiers ordered from least to most severe.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Bounds is a pixel-space bounding box, inclusive on all edges.
type Bounds struct {
	MinX, MinY, MaxX, MaxY int
}

func (b Bounds) Width() int  { return b.MaxX - b.MinX + 1 }
func (b Bounds) Height() int { return b.MaxY - b.MinY + 1 }

// Region is a maximal 4-connected component of flooded pixels with its
// derived attributes.
type Region struct {
	ID        int
	AreaPx    int
	CentroidX float64
	CentroidY float64
	Bounds    Bounds

	MeanProbability   float64
	StdDevProbability float64
	MeanConfidence    float64

	// Compactness is 4*pi*area/perimeter^2, 1.0 for a perfect disc.
	Compactness float64
	PerimeterPx int

	Severity Severity
}

// SeverityThresholds decide the tier from mean probability and area.
type SeverityThresholds struct {
	HighProbability   float64
	HighAreaPx        int
	MediumProbability float64
	MediumAreaPx      int
}

// Extract labels the 4-connected components of the mask and computes
// region attributes from the probability and confidence maps.
// Components smaller than minArea are discarded. The confidence map may
// be nil, in which case MeanConfidence stays 0.
func Extract(mask raster.Mask, prob, conf raster.Grid, minArea int, sev SeverityThresholds) []Region {
	h, w := mask.Height(), mask.Width()
	labels := make([][]int, h)
	for y := range labels {
		labels[y] = make([]int, w)
	}

	var out []Region
	next := 1
	stack := make([][2]int, 0, 1024)

	for sy := 0; sy < h; sy++ {
		for sx := 0; sx < w; sx++ {
			if !mask[sy][sx] || labels[sy][sx] != 0 {
				continue
			}

			// Flood fill one component, 4-connectivity.
			stack = stack[:0]
			stack = append(stack, [2]int{sx, sy})
			labels[sy][sx] = next

			var pixels [][2]int
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				pixels = append(pixels, p)

				x, y := p[0], p[1]
				for _, n := range [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
					nx, ny := n[0], n[1]
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					if mask[ny][nx] && labels[ny][nx] == 0 {
						labels[ny][nx] = next
						stack = append(stack, [2]int{nx, ny})
					}
				}
			}

			if len(pixels) < minArea {
				next++
				continue
			}

			out = append(out, buildRegion(len(out)+1, pixels, mask, prob, conf, sev))
			next++
		}
	}
	return out
}

func buildRegion(id int, pixels [][2]int, mask raster.Mask, prob, conf raster.Grid, sev SeverityThresholds) Region {
	h, w := mask.Height(), mask.Width()
	b := Bounds{MinX: w, MinY: h, MaxX: 0, MaxY: 0}

	var sumX, sumY float64
	var sumP, sumP2, sumC float64
	perimeter := 0

	for _, p := range pixels {
		x, y := p[0], p[1]
		sumX += float64(x)
		sumY += float64(y)
		if x < b.MinX {
			b.MinX = x
		}
		if x > b.MaxX {
			b.MaxX = x
		}
		if y < b.MinY {
			b.MinY = y
		}
		if y > b.MaxY {
			b.MaxY = y
		}

		if prob != nil {
			v := prob[y][x]
			sumP += v
			sumP2 += v * v
		}
		if conf != nil {
			sumC += conf[y][x]
		}

		// Perimeter counts exposed pixel sides; the frame edge counts
		// as exposed so a full-frame region still has a perimeter.
		for _, n := range [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
			nx, ny := n[0], n[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h || !mask[ny][nx] {
				perimeter++
			}
		}
	}

	n := float64(len(pixels))
	r := Region{
		ID:          id,
		AreaPx:      len(pixels),
		CentroidX:   sumX / n,
		CentroidY:   sumY / n,
		Bounds:      b,
		PerimeterPx: perimeter,
	}
	if prob != nil {
		r.MeanProbability = sumP / n
		variance := sumP2/n - r.MeanProbability*r.MeanProbability
		if variance > 0 {
			r.StdDevProbability = math.Sqrt(variance)
		}
	}
	if conf != nil {
		r.MeanConfidence = sumC / n
	}
	if perimeter > 0 {
		r.Compactness = 4 * math.Pi * n / float64(perimeter*perimeter)
		if r.Compactness > 1 {
			r.Compactness = 1
		}
	}
	r.Severity = classifySeverity(r, sev)
	return r
}

func classifySeverity(r Region, sev SeverityThresholds) Severity {
	switch {
	case r.MeanProbability > sev.HighProbability && r.AreaPx > sev.HighAreaPx:
		return SeverityHigh
	case r.MeanProbability > sev.MediumProbability && r.AreaPx > sev.MediumAreaPx:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
