package raster

// Resize scales a grid to the requested dimensions using bilinear
// interpolation. Band values are physical quantities (reflectance,
// backscatter in dB), so resizing works on the float grid directly
// instead of routing through an 8/16-bit image type.
func Resize(g Grid, height, width int) Grid {
	srcH, srcW := g.Height(), g.Width()
	if srcH == 0 || srcW == 0 || height <= 0 || width <= 0 {
		return NewGrid(height, width)
	}
	if srcH == height && srcW == width {
		return g.Clone()
	}

	out := NewGrid(height, width)
	scaleY := float64(srcH) / float64(height)
	scaleX := float64(srcW) / float64(width)

	for y := 0; y < height; y++ {
		srcY := (float64(y)+0.5)*scaleY - 0.5
		if srcY < 0 {
			srcY = 0
		}
		y0 := int(srcY)
		y1 := y0 + 1
		if y1 >= srcH {
			y1 = srcH - 1
		}
		fy := srcY - float64(y0)

		for x := 0; x < width; x++ {
			srcX := (float64(x)+0.5)*scaleX - 0.5
			if srcX < 0 {
				srcX = 0
			}
			x0 := int(srcX)
			x1 := x0 + 1
			if x1 >= srcW {
				x1 = srcW - 1
			}
			fx := srcX - float64(x0)

			top := g[y0][x0]*(1-fx) + g[y0][x1]*fx
			bottom := g[y1][x0]*(1-fx) + g[y1][x1]*fx
			out[y][x] = top*(1-fy) + bottom*fy
		}
	}
	return out
}
