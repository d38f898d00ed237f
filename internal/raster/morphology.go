package raster

// Binary and grayscale morphology over square structuring elements.
// Kernel sizes are odd. Erosion treats pixels outside the frame as set
// and dilation never writes outside it, so opening and closing leave a
// region that runs to the frame edge flush with that edge instead of
// eating its border.

// Erode shrinks the mask: a pixel survives only when every in-frame
// pixel under the kernel is set.
func Erode(m Mask, kernel int) Mask {
	h, w := m.Height(), m.Width()
	r := kernel / 2
	out := NewMask(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !m[y][x] {
				continue
			}
			keep := true
			for dy := -r; dy <= r && keep; dy++ {
				for dx := -r; dx <= r; dx++ {
					ny, nx := y+dy, x+dx
					if ny < 0 || ny >= h || nx < 0 || nx >= w {
						continue
					}
					if !m[ny][nx] {
						keep = false
						break
					}
				}
			}
			out[y][x] = keep
		}
	}
	return out
}

// Dilate grows the mask: a pixel is set when any pixel under the kernel
// is set.
func Dilate(m Mask, kernel int) Mask {
	h, w := m.Height(), m.Width()
	r := kernel / 2
	out := NewMask(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !m[y][x] {
				continue
			}
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					ny, nx := y+dy, x+dx
					if ny >= 0 && ny < h && nx >= 0 && nx < w {
						out[ny][nx] = true
					}
				}
			}
		}
	}
	return out
}

func Open(m Mask, kernel int) Mask {
	return Dilate(Erode(m, kernel), kernel)
}

func Close(m Mask, kernel int) Mask {
	return Erode(Dilate(m, kernel), kernel)
}

// FillHoles closes interior gaps no larger than the kernel by a binary
// close. Holes wider than the kernel survive, which keeps genuine dry
// islands inside a flood region intact.
func FillHoles(m Mask, kernel int) Mask {
	return Close(m, kernel)
}

// GrayErode and GrayDilate are the min/max filters used to run a
// close-then-open pass directly on a probability map.
func GrayErode(g Grid, kernel int) Grid {
	return grayMorph(g, kernel, false)
}

func GrayDilate(g Grid, kernel int) Grid {
	return grayMorph(g, kernel, true)
}

func GrayClose(g Grid, kernel int) Grid {
	return GrayErode(GrayDilate(g, kernel), kernel)
}

func GrayOpen(g Grid, kernel int) Grid {
	return GrayDilate(GrayErode(g, kernel), kernel)
}

func grayMorph(g Grid, kernel int, dilate bool) Grid {
	h, w := g.Height(), g.Width()
	r := kernel / 2
	out := NewGrid(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			best := g[y][x]
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					ny, nx := y+dy, x+dx
					if ny < 0 || ny >= h || nx < 0 || nx >= w {
						continue
					}
					v := g[ny][nx]
					if dilate && v > best {
						best = v
					}
					if !dilate && v < best {
						best = v
					}
				}
			}
			out[y][x] = best
		}
	}
	return out
}

// DistanceTransform computes the city-block distance from every pixel
// to the nearest true pixel using the two-pass chamfer method. Pixels
// inside the mask get distance 0. When the mask is empty every pixel
// gets a distance larger than any real one.
func DistanceTransform(m Mask) Grid {
	h, w := m.Height(), m.Width()
	inf := float64(h + w + 1)
	d := NewGrid(h, w)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if m[y][x] {
				d[y][x] = 0
				continue
			}
			d[y][x] = inf
			if y > 0 && d[y-1][x]+1 < d[y][x] {
				d[y][x] = d[y-1][x] + 1
			}
			if x > 0 && d[y][x-1]+1 < d[y][x] {
				d[y][x] = d[y][x-1] + 1
			}
		}
	}
	for y := h - 1; y >= 0; y-- {
		for x := w - 1; x >= 0; x-- {
			if y < h-1 && d[y+1][x]+1 < d[y][x] {
				d[y][x] = d[y+1][x] + 1
			}
			if x < w-1 && d[y][x+1]+1 < d[y][x] {
				d[y][x] = d[y][x+1] + 1
			}
		}
	}
	return d
}
