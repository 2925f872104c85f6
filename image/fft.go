package image

import "gonum.org/v1/gonum/dsp/fourier"

// shuffle1D performs the natural<->Fourier order quadrant swap used to
// keep DC centred in the visible spectrum: each axis is split at its
// centre index and the two halves are exchanged. The operation is its
// own inverse for even-length axes; for odd lengths the forward and
// inverse shuffle differ by one slot, so shuffleInverse1D is provided
// separately.
func shuffle1D(v []complex128) []complex128 {
	n := len(v)
	c := CenterIndex(n)
	out := make([]complex128, n)
	copy(out, v[c:])
	copy(out[n-c:], v[:c])
	return out
}

func shuffleInverse1D(v []complex128) []complex128 {
	n := len(v)
	c := CenterIndex(n)
	rest := n - c
	out := make([]complex128, n)
	copy(out, v[rest:])
	copy(out[c:], v[:rest])
	return out
}

// FFTRows performs a forward 1D FFT along each row (varying column
// index i, fixed row j), with natural-to-Fourier centering.
func (im *Image) FFTRows() {
	im.ConvertRealToComplex()
	plan := fourier.NewCmplxFFT(im.nx)
	buf := make([]complex128, im.nx)
	for j := 0; j < im.ny; j++ {
		for i := 0; i < im.nx; i++ {
			buf[i] = im.AtComplex(i, j)
		}
		buf = shuffle1D(buf)
		out := plan.Coefficients(nil, buf)
		for i := 0; i < im.nx; i++ {
			im.SetComplex(i, j, out[i])
		}
	}
}

// IFFTRows performs an inverse 1D FFT along each row, undoing the
// centering shuffle and normalising by 1/nx.
func (im *Image) IFFTRows() {
	im.ConvertRealToComplex()
	plan := fourier.NewCmplxFFT(im.nx)
	buf := make([]complex128, im.nx)
	scale := 1 / float64(im.nx)
	for j := 0; j < im.ny; j++ {
		for i := 0; i < im.nx; i++ {
			buf[i] = im.AtComplex(i, j)
		}
		out := plan.Sequence(nil, buf)
		out = shuffleInverse1D(out)
		for i := 0; i < im.nx; i++ {
			im.SetComplex(i, j, out[i]*complex(scale, 0))
		}
	}
}

// FFTCols performs a forward 1D FFT along each column (varying row
// index j, fixed column i), with natural-to-Fourier centering.
func (im *Image) FFTCols() {
	im.ConvertRealToComplex()
	plan := fourier.NewCmplxFFT(im.ny)
	buf := make([]complex128, im.ny)
	for i := 0; i < im.nx; i++ {
		for j := 0; j < im.ny; j++ {
			buf[j] = im.AtComplex(i, j)
		}
		buf = shuffle1D(buf)
		out := plan.Coefficients(nil, buf)
		for j := 0; j < im.ny; j++ {
			im.SetComplex(i, j, out[j])
		}
	}
}

// IFFTCols performs an inverse 1D FFT along each column, undoing the
// centering shuffle and normalising by 1/ny.
func (im *Image) IFFTCols() {
	im.ConvertRealToComplex()
	plan := fourier.NewCmplxFFT(im.ny)
	buf := make([]complex128, im.ny)
	scale := 1 / float64(im.ny)
	for i := 0; i < im.nx; i++ {
		for j := 0; j < im.ny; j++ {
			buf[j] = im.AtComplex(i, j)
		}
		out := plan.Sequence(nil, buf)
		out = shuffleInverse1D(out)
		for j := 0; j < im.ny; j++ {
			im.SetComplex(i, j, out[j]*complex(scale, 0))
		}
	}
}

// FFT2D performs a centred forward 2D FFT (rows then columns).
func (im *Image) FFT2D() {
	im.FFTRows()
	im.FFTCols()
}

// IFFT2D performs the inverse of FFT2D (columns then rows, each
// un-centred and normalised).
func (im *Image) IFFT2D() {
	im.IFFTCols()
	im.IFFTRows()
}
