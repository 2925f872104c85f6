package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinearAtMidpoint(t *testing.T) {
	y := []float64{0, 10, 20}
	assert.InDelta(t, 5.0, LinearAt(y, 0.5), 1e-9)
	assert.InDelta(t, 0.0, LinearAt(y, -1), 1e-9)
	assert.InDelta(t, 0.0, LinearAt(y, 5), 1e-9)
}

func TestLinearIrregularMatchesUniform(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	y := []float64{0, 10, 20, 30}
	got := LinearIrregular(xs, y, 1.5, nil)
	assert.InDelta(t, 15.0, got, 1e-9)
}

func TestCubicPolyLinearFallbackAtEdges(t *testing.T) {
	y := []float64{0, 1, 8, 27, 64}
	// within first unit interval falls back to linear between y[0],y[1]
	assert.InDelta(t, 0.5, CubicPolyAt(y, 0.5), 1e-9)
}

func TestCubicPolyExactForCubicSequence(t *testing.T) {
	// y[i] = i^3 is exactly reproduced by cubic Lagrange interpolation
	// away from the linear-fallback edge intervals.
	y := []float64{0, 1, 8, 27, 64, 125}
	got := CubicPolyAt(y, 2.5)
	assert.InDelta(t, 2.5*2.5*2.5, got, 1e-6)
}

func TestSplineReproducesSamples(t *testing.T) {
	y := []float64{0, 1, 4, 9, 16, 25}
	s := NewSpline(y)
	for i, v := range y {
		assert.InDelta(t, v, s.Interpolate(float64(i)), 1e-9)
	}
}

func TestBilinear2DCenterAndEdges(t *testing.T) {
	grid := [][]float64{{0, 1}, {2, 3}}
	at := func(ix, iy int) float64 { return grid[ix][iy] }
	assert.InDelta(t, 1.5, Bilinear2D(at, 2, 2, 0.5, 0.5), 1e-9)
	assert.InDelta(t, 3.0, Bilinear2D(at, 2, 2, 1, 1), 1e-9)
	assert.InDelta(t, 0.0, Bilinear2D(at, 2, 2, -1, 0), 1e-9)
}

func TestBilinearPolarWrapsAngle(t *testing.T) {
	// 3 angles x 2 radial positions
	grid := [][]float64{{0, 1}, {2, 3}, {4, 5}}
	at := func(ia, ip int) float64 { return grid[ia][ip] }
	// angle 0 reads the first angle row; angle 2.5 lies halfway between
	// the last angle row and the first, reached by wrapping
	got := BilinearPolar(at, 3, 2, -0.0, 0)
	assert.InDelta(t, 0.0, got, 1e-9)
	gotWrap := BilinearPolar(at, 3, 2, 2.5, 0)
	assert.InDelta(t, 2.0, gotWrap, 1e-9)
}
