package clip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectClipsThroughWindow(t *testing.T) {
	x1, y1, x2, y2, ok := Rect(-5, 0, 5, 0, -1, -1, 1, 1)
	assert.True(t, ok)
	assert.InDelta(t, -1.0, x1, 1e-9)
	assert.InDelta(t, 0.0, y1, 1e-9)
	assert.InDelta(t, 1.0, x2, 1e-9)
	assert.InDelta(t, 0.0, y2, 1e-9)
}

func TestRectRejectsOutside(t *testing.T) {
	_, _, _, _, ok := Rect(-5, 5, 5, 5, -1, -1, 1, 1)
	assert.False(t, ok)
}

func TestCircleClipsDiameter(t *testing.T) {
	x1, y1, x2, y2, ok := Circle(-5, 0, 5, 0, 0, 0, 1, 0, 0)
	assert.True(t, ok)
	assert.InDelta(t, -1.0, x1, 1e-6)
	assert.InDelta(t, 0.0, y1, 1e-6)
	assert.InDelta(t, 1.0, x2, 1e-6)
	assert.InDelta(t, 0.0, y2, 1e-6)
}

func TestCircleRejectsFarMiss(t *testing.T) {
	_, _, _, _, ok := Circle(-5, 10, 5, 10, 0, 0, 1, 0, 0)
	assert.False(t, ok)
}

func TestTriangleClipsApexLine(t *testing.T) {
	// Vertical line through the apex (0, v) of a triangle with u=v=1
	// should clip to [0,0]-[0,1].
	x1, y1, x2, y2, ok := Triangle(0, -5, 0, 5, 1, 1, true)
	assert.True(t, ok)
	assert.InDelta(t, 0.0, x1, 1e-9)
	assert.InDelta(t, 0.0, y1, 1e-9)
	assert.InDelta(t, 0.0, x2, 1e-9)
	assert.InDelta(t, 1.0, y2, 1e-9)
}

func TestSectorAndSegmentRunWithoutPanicking(t *testing.T) {
	_, _, _, _, _ = Sector(-1, 0.2, 1, 0.2, 1, 1)
	_, _, _, _, _ = Segment(-1, -0.2, 1, -0.2, 1, 1)
}
