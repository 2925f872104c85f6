package reconstruct

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinrosenberg/ctsim/backproject"
	"github.com/kevinrosenberg/ctsim/filter"
	"github.com/kevinrosenberg/ctsim/image"
	"github.com/kevinrosenberg/ctsim/internal/interp"
	"github.com/kevinrosenberg/ctsim/phantom"
	"github.com/kevinrosenberg/ctsim/projection"
	"github.com/kevinrosenberg/ctsim/scanner"
)

func collectUnitDisc(t *testing.T, geometry projection.Geometry, nDet, nView int, focalLength, sourceDetectorLen float64) *projection.Set {
	t.Helper()
	p, err := phantom.Named("unitdisc")
	require.NoError(t, err)
	s, err := scanner.New(p, geometry, nDet, nView, 0, 1, focalLength, sourceDetectorLen, 1.0, 1.0)
	require.NoError(t, err)
	set, err := s.Collect(context.Background())
	require.NoError(t, err)
	return set
}

func TestNewRejectsBadParameters(t *testing.T) {
	_, err := New(Params{Out: image.New(8, 8)})
	require.Error(t, err) // nil Projections

	set := collectUnitDisc(t, projection.GeometryParallel, 65, 90, 0, 0)
	_, err = New(Params{Projections: set})
	require.Error(t, err) // nil Out

	_, err = New(Params{
		Projections: set, Out: image.New(8, 8),
		FilterKind: filter.Kind(99), FilterMethod: filter.Convolution, FilterGeneration: filter.Direct,
		InterpKind: interp.Linear, BackprojectMethod: backproject.Table,
	})
	require.Error(t, err) // unsupported filter kind surfaces through filter.New
}

func TestReconstructParallelProducesFiniteImage(t *testing.T) {
	const nDet, nView, nx = 65, 90, 33
	set := collectUnitDisc(t, projection.GeometryParallel, nDet, nView, 0, 0)
	out := image.New(nx, nx)

	r, err := New(Params{
		Projections:       set,
		Out:               out,
		FilterKind:        filter.Bandlimit,
		FilterMethod:      filter.Convolution,
		FilterGeneration:  filter.Direct,
		InterpKind:        interp.Linear,
		BackprojectMethod: backproject.Table,
	})
	require.NoError(t, err)

	require.NoError(t, r.ReconstructView(context.Background(), 0, nView))
	r.PostProcessing()

	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < nx; iy++ {
			v := out.At(ix, iy)
			assert.False(t, math.IsNaN(v))
			assert.False(t, math.IsInf(v, 0))
		}
	}

	center := out.At(nx/2, nx/2)
	assert.Greater(t, center, 0.0) // unit-disc interior should reconstruct to a positive attenuation
}

func TestReconstructViewRejectsOutOfRangeIndices(t *testing.T) {
	const nDet, nView = 33, 40
	set := collectUnitDisc(t, projection.GeometryParallel, nDet, nView, 0, 0)
	out := image.New(16, 16)

	r, err := New(Params{
		Projections: set, Out: out,
		FilterKind: filter.Bandlimit, FilterMethod: filter.Convolution, FilterGeneration: filter.Direct,
		InterpKind: interp.Linear, BackprojectMethod: backproject.Table,
	})
	require.NoError(t, err)

	err = r.ReconstructView(context.Background(), nView-1, 5)
	require.Error(t, err)
}

func TestReconstructViewStopsEarlyOnCancellation(t *testing.T) {
	const nDet, nView = 33, 40
	set := collectUnitDisc(t, projection.GeometryParallel, nDet, nView, 0, 0)
	out := image.New(16, 16)

	r, err := New(Params{
		Projections: set, Out: out,
		FilterKind: filter.Bandlimit, FilterMethod: filter.Convolution, FilterGeneration: filter.Direct,
		InterpKind: interp.Linear, BackprojectMethod: backproject.Table,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, r.ReconstructView(ctx, 0, nView)) // cancellation yields a partial result, not an error
	assert.True(t, out.Partial(), "image should be marked incomplete after a cancelled ReconstructView")

	uncancelled := image.New(16, 16)
	r2, err := New(Params{
		Projections: set, Out: uncancelled,
		FilterKind: filter.Bandlimit, FilterMethod: filter.Convolution, FilterGeneration: filter.Direct,
		InterpKind: interp.Linear, BackprojectMethod: backproject.Table,
	})
	require.NoError(t, err)
	require.NoError(t, r2.ReconstructView(context.Background(), 0, nView))
	r2.PostProcessing()
	assert.False(t, uncancelled.Partial(), "a non-cancelled reconstruction must not be marked incomplete")
	assert.NotEqual(t, uncancelled.At(8, 8), out.At(8, 8),
		"a cancelled-before-any-view reconstruction should differ from a completed one")
}

func TestReconstructEquiangularWithRebinToParallel(t *testing.T) {
	const nDet, nView = 65, 180
	set := collectUnitDisc(t, projection.GeometryEquiangular, nDet, nView, 3.0, 0)
	out := image.New(17, 17)

	r, err := New(Params{
		Projections:       set,
		Out:               out,
		FilterKind:        filter.Bandlimit,
		FilterMethod:      filter.Convolution,
		FilterGeneration:  filter.Direct,
		InterpKind:        interp.Linear,
		BackprojectMethod: backproject.Table,
		RebinToParallel:   true,
	})
	require.NoError(t, err)

	require.NoError(t, r.ReconstructView(context.Background(), 0, r.projections.NView()))
	r.PostProcessing()

	for ix := 0; ix < 17; ix++ {
		for iy := 0; iy < 17; iy++ {
			assert.False(t, math.IsNaN(out.At(ix, iy)))
		}
	}
}

func TestPostProcessingIsSafeToCallTwice(t *testing.T) {
	const nDet, nView = 33, 40
	set := collectUnitDisc(t, projection.GeometryParallel, nDet, nView, 0, 0)
	out := image.New(9, 9)

	r, err := New(Params{
		Projections: set, Out: out,
		FilterKind: filter.Bandlimit, FilterMethod: filter.Convolution, FilterGeneration: filter.Direct,
		InterpKind: interp.Linear, BackprojectMethod: backproject.Diff,
	})
	require.NoError(t, err)

	require.NoError(t, r.ReconstructView(context.Background(), 0, nView))
	r.PostProcessing()
	once := out.At(4, 4)
	r.PostProcessing()
	assert.Equal(t, once, out.At(4, 4))
}
