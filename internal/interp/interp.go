// Package interp implements the sample-interpolation kernels used
// across the reconstruction pipeline: nearest-neighbor, linear, cubic
// polynomial (4-point Lagrange), natural cubic spline, and bilinear
// (rectangular and angle/radius polar) 2D interpolation.
//
// Kernels are plain functions and small value types rather than an
// interface hierarchy with virtual dispatch — callers pick the kernel
// with a Kind and a switch, matching the flat-dispatch style used
// throughout this module.
package interp

import (
	"math"
	"strings"

	"github.com/kevinrosenberg/ctsim/internal/ctsimerr"
)

// Kind names an interpolation method. The zero value is not a valid
// Kind; callers should always set one explicitly.
type Kind int

const (
	Nearest Kind = iota + 1
	Linear
	CubicPoly
	CubicSpline
)

// String returns the display name of k.
func (k Kind) String() string {
	switch k {
	case Nearest:
		return "nearest"
	case Linear:
		return "linear"
	case CubicPoly:
		return "cubic"
	case CubicSpline:
		return "spline"
	default:
		return "invalid"
	}
}

// ParseKind resolves an interpolation kind by its canonical name (case
// insensitive). CubicSpline is accepted as "spline" or "cubic-spline";
// plain "cubic" resolves to the 4-point Lagrange CubicPoly kernel.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "nearest", "nearest-neighbor", "nearest-neighbour":
		return Nearest, nil
	case "linear":
		return Linear, nil
	case "cubic", "cubic-poly", "cubicpoly":
		return CubicPoly, nil
	case "spline", "cubic-spline", "cubicspline":
		return CubicSpline, nil
	default:
		return 0, ctsimerr.NewConstructionError("interp.ParseKind", "unknown interpolation kind %q", s)
	}
}

const oneSixth = 1.0 / 6.0

// NearestAt returns y[round(x)], clamped to [0, len(y)-1].
func NearestAt(y []float64, x float64) float64 {
	i := int(math.Round(x))
	if i < 0 {
		i = 0
	}
	if i > len(y)-1 {
		i = len(y) - 1
	}
	return y[i]
}

// LinearAt returns the linearly interpolated value of y at uniformly
// spaced index x, zero outside [0, len(y)-1].
func LinearAt(y []float64, x float64) float64 {
	n := len(y)
	switch {
	case x == 0:
		return y[0]
	case x < 0:
		return 0
	case x == float64(n-1):
		return y[n-1]
	case x > float64(n-1):
		return 0
	}
	lo := int(math.Floor(x))
	return y[lo] + (y[lo+1]-y[lo])*(x-float64(lo))
}

// LinearIrregular interpolates y sampled at the (not necessarily
// uniform but monotonically increasing) abscissas xs. lastFloor, if
// non-nil, is read as a hint for the lower bound of the binary search
// and updated with the resulting lower index — callers doing many
// interpolations at increasing x should thread the same pointer
// through to turn the search closer to O(1).
func LinearIrregular(xs, y []float64, x float64, lastFloor *int) float64 {
	n := len(xs)
	lo, hi := -1, n
	if lastFloor != nil && *lastFloor >= 0 && *lastFloor < n && xs[*lastFloor] < x {
		lo = *lastFloor
	}
	for hi-lo > 1 {
		mid := (lo + hi) >> 1
		if x >= xs[mid] {
			lo = mid
		} else {
			hi = mid
		}
	}

	switch {
	case x == xs[0]:
		return y[0]
	case x < xs[0]:
		return 0
	case x == xs[n-1]:
		return y[n-1]
	case x > xs[n-1]:
		return 0
	}

	if lastFloor != nil {
		*lastFloor = lo
	}
	return y[lo] + (y[hi]-y[lo])*((x-xs[lo])/(xs[hi]-xs[lo]))
}

// CubicPolyAt returns a 4-point Lagrange cubic interpolation of y at
// index x, falling back to linear interpolation in the first and last
// unit interval (where a full 4-point stencil isn't available) and to
// zero outside [0, len(y)-1].
func CubicPolyAt(y []float64, x float64) float64 {
	n := len(y)
	lo := int(math.Floor(x)) - 1
	hi := lo + 3

	if lo < -1 {
		return 0
	}
	if lo == -1 {
		return y[0] + x*(y[1]-y[0])
	}
	if hi > n {
		return 0
	}
	if hi == n {
		frac := x - float64(lo+1)
		return y[n-2] + frac*(y[n-1]-y[n-2])
	}

	xd0 := x - float64(lo)
	xd1 := x - float64(lo+1)
	xd2 := x - float64(lo+2)
	xd3 := x - float64(lo+3)

	v := xd1 * xd2 * xd3 * -oneSixth * y[lo]
	v += xd0 * xd2 * xd3 * 0.5 * y[lo+1]
	v += xd0 * xd1 * xd3 * -0.5 * y[lo+2]
	v += xd0 * xd1 * xd2 * oneSixth * y[lo+3]
	return v
}

// Spline is a natural cubic spline over uniformly spaced samples y,
// with its second derivatives precomputed once at construction so that
// Interpolate is O(1) per query.
type Spline struct {
	y  []float64
	y2 []float64
}

// NewSpline precomputes the natural-boundary (zero second derivative
// at both ends) cubic spline through y.
func NewSpline(y []float64) *Spline {
	n := len(y)
	y2 := make([]float64, n)
	if n < 3 {
		return &Spline{y: y, y2: y2}
	}

	temp := make([]float64, n-1)
	for i := 1; i < n-1; i++ {
		t := 2 + 0.5*y2[i-1]
		temp[i] = y[i+1] + y[i-1] - y[i] - y[i]
		temp[i] = (3*temp[i] - 0.5*temp[i-1]) / t
		y2[i] = -0.5 / t
	}
	for i := n - 2; i >= 0; i-- {
		y2[i] = temp[i] + y2[i]*y2[i+1]
	}

	return &Spline{y: y, y2: y2}
}

// Interpolate returns the spline value at index x. x must lie within
// [0, len(y)-1]; out-of-range queries return 0.
func (s *Spline) Interpolate(x float64) float64 {
	n := len(s.y)
	lo := int(math.Floor(x))
	hi := lo + 1
	if lo == n-1 && x == float64(lo) {
		return s.y[lo]
	}
	if lo < 0 || hi >= n {
		return 0
	}

	loFr := float64(hi) - x
	hiFr := 1 - loFr
	v := loFr*s.y[lo] + hiFr*s.y[hi]
	v += oneSixth * ((loFr*loFr*loFr-loFr)*s.y2[lo] + (hiFr*hiFr*hiFr-hiFr)*s.y2[hi])
	return v
}

// Bilinear2D interpolates the nx-by-ny grid at (dXPos), (dYPos), where
// at returns the value of the grid at integer indices (ix, iy).
// Out-of-range positions return 0; positions on the top/right edge
// fall back to 1D interpolation along the in-range axis.
func Bilinear2D(at func(ix, iy int) float64, nx, ny int, xPos, yPos float64) float64 {
	fx := math.Floor(xPos)
	fy := math.Floor(yPos)
	ix := int(fx)
	iy := int(fy)
	xFrac := xPos - fx
	yFrac := yPos - fy

	switch {
	case ix < 0 || iy < 0 || ix > nx-1 || iy > ny-1:
		return 0
	case ix == nx-1 && iy == ny-1:
		return at(nx-1, ny-1)
	case ix == nx-1:
		return at(ix, iy) + yFrac*(at(ix, iy+1)-at(ix, iy))
	case iy == ny-1:
		return at(ix, iy) + xFrac*(at(ix+1, iy)-at(ix, iy))
	default:
		return (1-xFrac)*(1-yFrac)*at(ix, iy) +
			xFrac*(1-yFrac)*at(ix+1, iy) +
			yFrac*(1-xFrac)*at(ix, iy+1) +
			xFrac*yFrac*at(ix+1, iy+1)
	}
}

// BilinearPolar interpolates a (nAngle x nPos) grid indexed by angle
// (wrapping modulo nAngle) and radial position (clamped, not
// wrapping), at returning the value at integer (iAngle, iPos).
func BilinearPolar(at func(iAngle, iPos int) float64, nAngle, nPos int, anglePos, radialPos float64) float64 {
	fa := math.Floor(anglePos)
	fp := math.Floor(radialPos)
	iAngle := int(fa)
	iPos := int(fp)
	angleFrac := anglePos - fa
	posFrac := radialPos - fp

	if iAngle < -1 || iPos < 0 || iAngle > nAngle-1 || iPos > nPos-1 {
		return 0
	}

	switch {
	case iAngle == -1 && iPos == nPos-1:
		return at(0, nPos-1) + angleFrac*(at(nAngle-1, iPos)-at(0, iPos))
	case iAngle == nAngle-1 && iPos == nPos-1:
		return at(nAngle-1, nPos-1) + angleFrac*(at(0, iPos)-at(nAngle-1, iPos))
	case iPos == nPos-1:
		return at(iAngle, iPos) + angleFrac*(at(iAngle+1, iPos)-at(iAngle, iPos))
	case iAngle == nAngle-1:
		upperAngle := 0
		return (1-angleFrac)*(1-posFrac)*at(iAngle, iPos) +
			angleFrac*(1-posFrac)*at(upperAngle, iPos) +
			posFrac*(1-angleFrac)*at(iAngle, iPos+1) +
			angleFrac*posFrac*at(upperAngle, iPos+1)
	case iAngle == -1:
		lowerAngle := nAngle - 1
		return (1-angleFrac)*(1-posFrac)*at(lowerAngle, iPos) +
			angleFrac*(1-posFrac)*at(iAngle+1, iPos) +
			posFrac*(1-angleFrac)*at(lowerAngle, iPos+1) +
			angleFrac*posFrac*at(iAngle+1, iPos+1)
	default:
		return (1-angleFrac)*(1-posFrac)*at(iAngle, iPos) +
			angleFrac*(1-posFrac)*at(iAngle+1, iPos) +
			posFrac*(1-angleFrac)*at(iAngle, iPos+1) +
			angleFrac*posFrac*at(iAngle+1, iPos+1)
	}
}

// At dispatches to the named kernel for a single-dimension lookup.
// CubicSpline is not available through At since it requires
// precomputed state; use NewSpline directly for that kind.
func At(kind Kind, y []float64, x float64) float64 {
	switch kind {
	case Nearest:
		return NearestAt(y, x)
	case CubicPoly:
		return CubicPolyAt(y, x)
	default:
		return LinearAt(y, x)
	}
}
