package phantom

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementContainsCenterAndOutside(t *testing.T) {
	p := New("test")
	p.AddElement(Ellipse, 0, 0, 1, 1, 0, 1.0)
	assert.InDelta(t, 1.0, p.Attenuation(0, 0), 1e-9)
	assert.InDelta(t, 0.0, p.Attenuation(2, 2), 1e-9)
}

func TestOverlappingEllipsesSumAttenuation(t *testing.T) {
	p := New("test")
	p.AddElement(Ellipse, 0, 0, 1, 1, 0, 1.0)
	p.AddElement(Ellipse, 0, 0, 0.5, 0.5, 0, 1.0)
	assert.InDelta(t, 2.0, p.Attenuation(0, 0), 1e-9)
	assert.InDelta(t, 1.0, p.Attenuation(0.8, 0), 1e-9)
}

func TestLineIntegralThroughUnitDiscDiameter(t *testing.T) {
	p := New("test")
	p.AddElement(Ellipse, 0, 0, 1, 1, 0, 1.0)
	got := p.LineIntegral(-2, 0, 2, 0)
	assert.InDelta(t, 2.0, got, 1e-6)
}

func TestLineIntegralMissesDisc(t *testing.T) {
	p := New("test")
	p.AddElement(Ellipse, 0, 0, 1, 1, 0, 1.0)
	got := p.LineIntegral(-2, 5, 2, 5)
	assert.InDelta(t, 0.0, got, 1e-9)
}

func TestLineIntegralThroughRectangle(t *testing.T) {
	p := New("test")
	p.AddElement(Rectangle, 0, 0, 1, 1, 0, 2.0)
	got := p.LineIntegral(-2, 0, 2, 0)
	assert.InDelta(t, 4.0, got, 1e-9) // chord length 2, attenuation 2
}

func TestLineIntegralRotatedRectangle(t *testing.T) {
	p := New("test")
	p.AddElement(Rectangle, 0, 0, 1, 1, math.Pi/4, 1.0)
	got := p.LineIntegral(-2, 0, 2, 0)
	assert.Greater(t, got, 0.0)
}

func TestParseAndWriteRoundTrip(t *testing.T) {
	src := "# a comment\nellipse 0 0 1 1 0 1.0\nrectangle 0.5 0.5 0.2 0.2 0.1 2.0\n"
	p, err := Parse(strings.NewReader(src), "roundtrip")
	require.NoError(t, err)
	require.Len(t, p.Elements, 2)
	assert.Equal(t, Ellipse, p.Elements[0].Kind)
	assert.Equal(t, Rectangle, p.Elements[1].Kind)

	var buf strings.Builder
	require.NoError(t, Write(&buf, p))

	p2, err := Parse(strings.NewReader(buf.String()), "roundtrip2")
	require.NoError(t, err)
	require.Len(t, p2.Elements, 2)
	assert.InDelta(t, p.Elements[1].A, p2.Elements[1].A, 1e-9)
}

func TestParseRejectsBadFieldCount(t *testing.T) {
	_, err := Parse(strings.NewReader("ellipse 0 0 1 1\n"), "bad")
	require.Error(t, err)
}

func TestNamedBuiltinPhantoms(t *testing.T) {
	for _, name := range []string{"herman", "shepplogan", "hollowcircle", "twohollowcircle", "unitdisc"} {
		p, err := Named(name)
		require.NoError(t, err)
		assert.NotEmpty(t, p.Elements)
	}
	_, err := Named("doesnotexist")
	require.Error(t, err)
}

func TestHermanCenterAndInclusion(t *testing.T) {
	p, err := Named("herman")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p.Attenuation(0, 0), 1e-9)
	assert.InDelta(t, 2.0, p.Attenuation(0.35, 0.1), 1e-9)
}

func TestRasterizeProducesExpectedShape(t *testing.T) {
	p, err := Named("unitdisc")
	require.NoError(t, err)

	img, err := Rasterize(context.Background(), p, 16, 16, 2, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 16, img.NX())
	assert.Equal(t, 16, img.NY())

	center := img.At(8, 8)
	corner := img.At(0, 0)
	assert.Greater(t, center, corner)
}

func TestRasterizeCancellationMarksImagePartial(t *testing.T) {
	p, err := Named("unitdisc")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img, err := Rasterize(ctx, p, 32, 32, 1, 1.0)
	require.NoError(t, err) // cancellation yields a partial result, not an error
	assert.True(t, img.Partial())
}

func TestBoundingBoxUnion(t *testing.T) {
	p := New("test")
	p.AddElement(Ellipse, -1, 0, 0.5, 0.5, 0, 1.0)
	p.AddElement(Ellipse, 1, 0, 0.5, 0.5, 0, 1.0)
	box := p.BoundingBox()
	assert.Less(t, box.XMin, -1.0)
	assert.Greater(t, box.XMax, 1.0)
}
