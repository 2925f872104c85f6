package image

import "math"

// FilterResponse fills im with samples of a 1D filter response
// evaluated at the radial distance from the image centre, scaled by
// inputScale before the call and outputScale after, matching the
// original library's imagefile.cpp::filterResponse: r =
// sqrt(dx^2+dy^2)*inputScale, then sample(r)*outputScale.
//
// sample is any function of r, passed as a plain function so that
// image does not import filter.
func (im *Image) FilterResponse(sample func(r float64) float64, inputScale, outputScale float64) {
	cx := CenterIndex(im.nx)
	cy := CenterIndex(im.ny)
	for i := 0; i < im.nx; i++ {
		dx := float64(i - cx)
		for j := 0; j < im.ny; j++ {
			dy := float64(j - cy)
			r := math.Hypot(dx, dy) * inputScale
			im.Set(i, j, sample(r)*outputScale)
		}
	}
}
