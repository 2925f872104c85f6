package xform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityTransformPoint(t *testing.T) {
	mtx := Identity()
	x, y := mtx.TransformPoint(3, 4)
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 4.0, y)
}

func TestTranslateScaleRotateCompose(t *testing.T) {
	translate := Translate(2, -1)
	x, y := translate.TransformPoint(0, 0)
	assert.Equal(t, 2.0, x)
	assert.Equal(t, -1.0, y)

	scale := Scale(2, 3)
	x, y = scale.TransformPoint(1, 1)
	assert.Equal(t, 2.0, x)
	assert.Equal(t, 3.0, y)

	rot := Rotate(math.Pi / 2)
	x, y = rot.TransformPoint(1, 0)
	assert.InDelta(t, 0.0, x, 1e-9)
	assert.InDelta(t, 1.0, y, 1e-9)
}

func TestInvertRoundTrips(t *testing.T) {
	mtx := Mul(Rotate(0.7), Mul(Scale(2, 0.5), Translate(3, -2)))
	inv, err := mtx.Invert()
	require.NoError(t, err)

	x, y := mtx.TransformPoint(5, -7)
	x, y = inv.TransformPoint(x, y)
	assert.InDelta(t, 5.0, x, 1e-9)
	assert.InDelta(t, -7.0, y, 1e-9)
}

func TestInvertSingularReturnsError(t *testing.T) {
	mtx := Scale(0, 1)
	_, err := mtx.Invert()
	require.ErrorIs(t, err, ErrSingular)
}

func TestIntegrateSimpsonConstant(t *testing.T) {
	y := make([]float64, 11)
	for i := range y {
		y[i] = 2.0
	}
	got := IntegrateSimpson(y, 0.1)
	assert.InDelta(t, 2.0, got, 1e-9)
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, 0.0, NormalizeAngle(2*math.Pi), 1e-9)
	assert.InDelta(t, math.Pi, NormalizeAngle(-math.Pi), 1e-9)
	assert.InDelta(t, 0.5, NormalizeAngle(0.5), 1e-9)
}
