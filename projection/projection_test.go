package projection

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetShapeAndResize(t *testing.T) {
	s := New(4, 8)
	assert.Equal(t, 4, s.NView())
	assert.Equal(t, 8, s.NDet())

	s.Resize(2)
	assert.Equal(t, 2, s.NView())

	s.Resize(5)
	assert.Equal(t, 5, s.NView())
	assert.Equal(t, 8, len(s.View(4).Det))
}

func TestGeometryString(t *testing.T) {
	assert.Equal(t, "parallel", GeometryParallel.String())
	assert.Equal(t, "equiangular", GeometryEquiangular.String())
	assert.Equal(t, "invalid", GeometryInvalid.String())
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := New(3, 4)
	s.Header = Header{
		Geometry:          GeometryEquiangular,
		RotStart:          0.1,
		RotInc:            0.2,
		DetStart:          -1.5,
		DetInc:            0.05,
		ViewDiameter:      100.25,
		FocalLength:       200.5,
		SourceDetectorLen: 300.75,
		FanBeamAngle:      0.7853981633974483,
		CalcTimeS:         12.5,
		Created:           time.Date(2024, time.March, 3, 4, 5, 6, 0, time.UTC),
		Remark:            "synthetic test scan",
	}
	for i := range s.views {
		s.views[i].Angle = float64(i) * 0.2
		for j := range s.views[i].Det {
			s.views[i].Det[j] = float64(i*10 + j)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))

	got, err := Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, s.NView(), got.NView())
	assert.Equal(t, s.NDet(), got.NDet())
	assert.Equal(t, s.Header.Geometry, got.Header.Geometry)
	assert.InDelta(t, s.Header.RotStart, got.Header.RotStart, 1e-12)
	assert.InDelta(t, s.Header.RotInc, got.Header.RotInc, 1e-12)
	assert.InDelta(t, s.Header.DetStart, got.Header.DetStart, 1e-12)
	assert.InDelta(t, s.Header.DetInc, got.Header.DetInc, 1e-12)
	assert.InDelta(t, s.Header.ViewDiameter, got.Header.ViewDiameter, 1e-12)
	assert.InDelta(t, s.Header.FocalLength, got.Header.FocalLength, 1e-12)
	assert.InDelta(t, s.Header.SourceDetectorLen, got.Header.SourceDetectorLen, 1e-12)
	assert.InDelta(t, s.Header.FanBeamAngle, got.Header.FanBeamAngle, 1e-12)
	assert.InDelta(t, s.Header.CalcTimeS, got.Header.CalcTimeS, 1e-12)
	assert.Equal(t, s.Header.Remark, got.Header.Remark)
	assert.Equal(t, s.Header.Created.Year(), got.Header.Created.Year())
	assert.Equal(t, s.Header.Created.Second(), got.Header.Created.Second())

	for i := range s.views {
		assert.InDelta(t, s.views[i].Angle, got.views[i].Angle, 1e-12)
		for j := range s.views[i].Det {
			assert.InDelta(t, s.views[i].Det[j], got.views[i].Det[j], 1e-5)
		}
	}
}

func TestReadRejectsBadSignature(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0xFF, 0xFF})
	_, err := Read(&buf)
	require.Error(t, err)
}

func buildEquiangularScan(nView, nDet int) *Set {
	s := New(nView, nDet)
	s.Header = Header{
		Geometry:     GeometryEquiangular,
		RotInc:       2 * (math.Pi + 0.3) / float64(nView-1),
		DetInc:       0.3 * 2 / float64(nDet-1),
		FanBeamAngle: 0.3,
		FocalLength:  400,
	}
	for i := range s.views {
		s.views[i].Angle = float64(i) * s.Header.RotInc
		for j := range s.views[i].Det {
			s.views[i].Det[j] = 1.0
		}
	}
	return s
}

func TestRebinHalfScanProducesShorterSpan(t *testing.T) {
	nView := 400
	s := buildEquiangularScan(nView, 32)
	err := s.RebinHalfScan(-1)
	require.NoError(t, err)
	assert.Less(t, s.NView(), nView)
	assert.Equal(t, 32, s.NDet())
}

func TestFeatherHalfScanRunsAfterRebin(t *testing.T) {
	nView := 400
	s := buildEquiangularScan(nView, 32)
	require.NoError(t, s.RebinHalfScan(-1))
	err := s.FeatherHalfScan()
	require.NoError(t, err)
	for _, v := range s.Views() {
		for _, d := range v.Det {
			assert.False(t, math.IsNaN(d))
			assert.False(t, math.IsInf(d, 0))
		}
	}
}

func TestRebinHalfScanRejectsWrongGeometry(t *testing.T) {
	s := New(4, 4)
	s.Header.Geometry = GeometryParallel
	err := s.RebinHalfScan(-1)
	require.Error(t, err)
}

func TestToParallelProducesRegularGrid(t *testing.T) {
	s := New(16, 8)
	s.Header = Header{
		Geometry:    GeometryEquiangular,
		RotInc:      math.Pi / 16,
		DetInc:      0.05,
		FocalLength: 400,
	}
	for i := range s.views {
		s.views[i].Angle = float64(i) * s.Header.RotInc
		for j := range s.views[i].Det {
			s.views[i].Det[j] = float64(j)
		}
	}

	out, err := s.ToParallel()
	require.NoError(t, err)
	assert.Equal(t, GeometryParallel, out.Header.Geometry)
	assert.Equal(t, s.NView(), out.NView())
	assert.Equal(t, s.NDet(), out.NDet())
	for _, v := range out.Views() {
		for _, d := range v.Det {
			assert.False(t, math.IsNaN(d))
		}
	}
}

func TestToParallelRejectsParallelInput(t *testing.T) {
	s := New(4, 4)
	s.Header.Geometry = GeometryParallel
	_, err := s.ToParallel()
	require.Error(t, err)
}
