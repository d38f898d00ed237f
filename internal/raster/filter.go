package raster

import (
	"math"
	"sort"
)

// MedianFilter applies a local median over a square window of the given
// odd size. Radar speckle is multiplicative noise; the median knocks it
// down without smearing backscatter edges the way a box blur would.
func MedianFilter(g Grid, window int) Grid {
	if window < 3 {
		return g.Clone()
	}
	h, w := g.Height(), g.Width()
	r := window / 2
	out := NewGrid(h, w)
	neighborhood := make([]float64, 0, window*window)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			neighborhood = neighborhood[:0]
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					ny, nx := y+dy, x+dx
					if ny < 0 || ny >= h || nx < 0 || nx >= w {
						continue
					}
					neighborhood = append(neighborhood, g[ny][nx])
				}
			}
			out[y][x] = median(neighborhood)
		}
	}
	return out
}

func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sort.Float64s(values)
	if n%2 == 0 {
		return (values[n/2-1] + values[n/2]) / 2
	}
	return values[n/2]
}

// GaussianBlur applies a separable Gaussian kernel with the given sigma
// and radius. Edges are handled by renormalizing the kernel over the
// in-bounds taps.
func GaussianBlur(g Grid, sigma float64, radius int) Grid {
	if sigma <= 0 || radius < 1 {
		return g.Clone()
	}
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	h, w := g.Height(), g.Width()

	// Horizontal pass.
	tmp := NewGrid(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc, weight float64
			for i := -radius; i <= radius; i++ {
				nx := x + i
				if nx < 0 || nx >= w {
					continue
				}
				k := kernel[i+radius]
				acc += g[y][nx] * k
				weight += k
			}
			tmp[y][x] = acc / weight
		}
	}

	// Vertical pass.
	out := NewGrid(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc, weight float64
			for i := -radius; i <= radius; i++ {
				ny := y + i
				if ny < 0 || ny >= h {
					continue
				}
				k := kernel[i+radius]
				acc += tmp[ny][x] * k
				weight += k
			}
			out[y][x] = acc / weight
		}
	}
	return out
}

// LocalStdDev computes the standard deviation over a square window of
// the given odd size, the texture measure used to gate radar water
// classification.
func LocalStdDev(g Grid, window int) Grid {
	h, w := g.Height(), g.Width()
	r := window / 2
	out := NewGrid(h, w)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum, sumSq float64
			var n int
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					ny, nx := y+dy, x+dx
					if ny < 0 || ny >= h || nx < 0 || nx >= w {
						continue
					}
					v := g[ny][nx]
					sum += v
					sumSq += v * v
					n++
				}
			}
			mean := sum / float64(n)
			variance := sumSq/float64(n) - mean*mean
			if variance < 0 {
				variance = 0
			}
			out[y][x] = math.Sqrt(variance)
		}
	}
	return out
}

// GradientMagnitude returns the per-pixel gradient magnitude from
// central differences, normalized to the grid's maximum so the result
// sits in [0,1]. Used for edge-aware blending in the detector.
func GradientMagnitude(g Grid) Grid {
	h, w := g.Height(), g.Width()
	out := NewGrid(h, w)
	maxMag := 0.0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, x1 := maxInt(x-1, 0), minInt(x+1, w-1)
			y0, y1 := maxInt(y-1, 0), minInt(y+1, h-1)
			gx := (g[y][x1] - g[y][x0]) / 2
			gy := (g[y1][x] - g[y0][x]) / 2
			mag := math.Sqrt(gx*gx + gy*gy)
			out[y][x] = mag
			if mag > maxMag {
				maxMag = mag
			}
		}
	}
	if maxMag > 0 {
		for y := range out {
			for x := range out[y] {
				out[y][x] /= maxMag
			}
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
