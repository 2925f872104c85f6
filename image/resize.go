package image

import "github.com/kevinrosenberg/ctsim/internal/interp"

// Resize returns a new image of size (nx2, ny2) produced by bilinear
// resampling of im across its full extent — adapted from the codec's
// fixed-point rescaler into a plain float64 bilinear interpolation
// over the image's own pixel grid.
func (im *Image) Resize(nx2, ny2 int) *Image {
	out := New(nx2, ny2)
	if im.format == Complex {
		out.ConvertRealToComplex()
	}

	at := func(ix, iy int) float64 { return im.real[im.index(ix, iy)] }
	var atImag func(ix, iy int) float64
	if im.format == Complex {
		atImag = func(ix, iy int) float64 { return im.imag[im.index(ix, iy)] }
	}

	sx := float64(im.nx-1) / maxInt(nx2-1, 1)
	sy := float64(im.ny-1) / maxInt(ny2-1, 1)

	for i := 0; i < nx2; i++ {
		srcX := float64(i) * sx
		for j := 0; j < ny2; j++ {
			srcY := float64(j) * sy
			out.Set(i, j, interp.Bilinear2D(at, im.nx, im.ny, srcX, srcY))
			if atImag != nil {
				v := interp.Bilinear2D(atImag, im.nx, im.ny, srcX, srcY)
				out.imag[out.index(i, j)] = v
			}
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
