package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinrosenberg/ctsim/projection"
)

func TestParseKindRoundTrip(t *testing.T) {
	for _, k := range []Kind{Bandlimit, SheppLogan, Hamming, Hanning, Cosine, Triangle, Parzen, Gaussian, Sinc,
		AbsBandlimit, AbsSinc, AbsCosine, AbsHamming, AbsHanning} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("not-a-filter")
	require.Error(t, err)
}

func TestNewRejectsBadParameters(t *testing.T) {
	_, err := New(Bandlimit, Convolution, Direct, projection.GeometryParallel, 1, 0.01, 1.0, 0.5, 0, 0, 0)
	require.Error(t, err)

	_, err = New(Bandlimit, Convolution, Direct, projection.GeometryParallel, 33, 0, 1.0, 0.5, 0, 0, 0)
	require.Error(t, err)

	_, err = New(Bandlimit, Convolution, Direct, projection.GeometryEquilinear, 33, 0.01, 1.0, 0.5, 0, 0, 0)
	require.Error(t, err) // equilinear needs positive focalLength/sourceDetectorLen
}

func TestConvolutionDirectBandlimitPeakAtZero(t *testing.T) {
	f, err := New(Bandlimit, Convolution, Direct, projection.GeometryParallel, 17, 0.1, 5.0, 0.5, 0, 0, 0)
	require.NoError(t, err)

	wantLen := 2*(17-1) + 1
	require.Len(t, f.Data, wantLen)

	center := (wantLen - 1) / 2
	assert.InDelta(t, f.Bandwidth, f.Data[center], 1e-6)
	for _, v := range f.Data {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestConvolutionInverseFourierProducesFiniteSamples(t *testing.T) {
	for _, kind := range []Kind{Bandlimit, SheppLogan, Hamming, Cosine, AbsBandlimit} {
		f, err := New(kind, Convolution, InverseFourier, projection.GeometryParallel, 17, 0.1, 5.0, 0.54, 0, 0, 0)
		require.NoError(t, err, kind)
		require.Len(t, f.Data, 2*(17-1)+1)
		for _, v := range f.Data {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), kind)
		}
	}
}

func TestConvolutionDirectAndInverseFourierAgreeNearCenter(t *testing.T) {
	// Both generation strategies describe the same Bandlimit kernel; on
	// a modest grid with parallel geometry (no extra scale factor) they
	// should agree reasonably well near the origin, where the kernel is
	// smoothest and finite-grid truncation error is smallest.
	direct, err := New(Bandlimit, Convolution, Direct, projection.GeometryParallel, 65, 0.05, 10.0, 0.5, 0, 0, 0)
	require.NoError(t, err)
	inverse, err := New(Bandlimit, Convolution, InverseFourier, projection.GeometryParallel, 65, 0.05, 10.0, 0.5, 0, 0, 0)
	require.NoError(t, err)

	center := (len(direct.Data) - 1) / 2
	assert.InDelta(t, direct.Data[center], inverse.Data[center], 1.0)
}

func TestFourierDirectProducesZeropaddedFourierOrderData(t *testing.T) {
	f, err := New(Bandlimit, Fourier, Direct, projection.GeometryParallel, 200, 0.02, 5.0, 0.5, 0, 0, 1)
	require.NoError(t, err)

	assert.True(t, isPowerOfTwo(f.NFilterPoints))
	assert.GreaterOrEqual(t, f.NFilterPoints, 200)
	for _, v := range f.Data {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestFourierInverseFourierProducesFiniteSamples(t *testing.T) {
	f, err := New(SheppLogan, Fourier, InverseFourier, projection.GeometryParallel, 33, 0.05, 5.0, 0.5, 0, 0, 1)
	require.NoError(t, err)
	require.NotEmpty(t, f.Data)
	for _, v := range f.Data {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		assert.GreaterOrEqual(t, v, 0.0) // built from an abs() magnitude per the original
	}
}

func TestFourierTableBuildsTrigTables(t *testing.T) {
	f, err := New(Bandlimit, FourierTable, Direct, projection.GeometryParallel, 64, 0.05, 5.0, 0.5, 0, 0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, f.CosTable)
	require.Len(t, f.CosTable, len(f.SinTable))
	assert.InDelta(t, 1.0, f.CosTable[0], 1e-9)
	assert.InDelta(t, 0.0, f.SinTable[0], 1e-9)
}

func TestEquilinearRescalesSignalIncAndBandwidth(t *testing.T) {
	parallel, err := New(Bandlimit, Convolution, Direct, projection.GeometryParallel, 17, 0.1, 5.0, 0.5, 0, 0, 0)
	require.NoError(t, err)
	equilinear, err := New(Bandlimit, Convolution, Direct, projection.GeometryEquilinear, 17, 0.1, 5.0, 0.5, 10.0, 20.0, 0)
	require.NoError(t, err)

	scale := 20.0 / 10.0
	assert.InDelta(t, parallel.SignalInc/scale, equilinear.SignalInc, 1e-9)
	assert.InDelta(t, parallel.Bandwidth*scale, equilinear.Bandwidth, 1e-9)
}

func TestEquilinearGeometryHalvesConvolutionKernel(t *testing.T) {
	parallel, err := New(Bandlimit, Convolution, Direct, projection.GeometryParallel, 17, 0.1, 5.0, 0.5, 0, 0, 0)
	require.NoError(t, err)
	equilinear, err := New(Bandlimit, Convolution, Direct, projection.GeometryEquilinear, 17, 0.1, 5.0, 0.5, 10.0, 10.0, 0)
	require.NoError(t, err)

	// sourceDetectorLen == focalLength means the equilinear pre-scale on
	// signalInc/bandwidth is an identity, isolating the 0.5 geometry
	// scale applied after generation.
	center := (len(parallel.Data) - 1) / 2
	assert.InDelta(t, parallel.Data[center]*0.5, equilinear.Data[center], 1e-6)
}

func TestDCTermRoundTripInvariantForRamLak(t *testing.T) {
	// The ramp (Ram-Lak / Bandlimit) filter has an analytic zero DC
	// term in both domains: H(0) = 0 directly from the frequency
	// closed form, and the spatial kernel's Riemann-sum integral over a
	// symmetric window should track it closely.
	freqDC, _ := frequency(Bandlimit, 0, 5.0, 0.5)
	assert.Equal(t, 0.0, freqDC)

	f, err := New(Bandlimit, Convolution, Direct, projection.GeometryParallel, 129, 0.02, 5.0, 0.5, 0, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, f.DCTerm(), 0.25)
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
