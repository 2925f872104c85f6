package phantom

import (
	"math"

	"github.com/kevinrosenberg/ctsim/internal/clip"
)

const lineIntegralEpsilon = 1e-9

// integral returns e's contribution to the line integral of the ray
// (x1,y1)-(x2,y2): the ray is mapped into e's unit-shape local frame,
// clipped against that shape with the matching clipper from
// internal/clip, and the surviving chord length is scaled back to
// world units (affine maps preserve length ratios along a single
// line, so the local/world length ratio of the unclipped ray applies
// equally to the clipped sub-segment) before being multiplied by the
// element's attenuation.
func (e Element) integral(x1, y1, x2, y2 float64) float64 {
	lx1, ly1 := e.inverse.TransformPoint(x1, y1)
	lx2, ly2 := e.inverse.TransformPoint(x2, y2)

	var cx1, cy1, cx2, cy2 float64
	var ok bool
	switch e.Kind {
	case Rectangle:
		cx1, cy1, cx2, cy2, ok = clip.Rect(lx1, ly1, lx2, ly2, -1, -1, 1, 1)
	case Ellipse:
		cx1, cy1, cx2, cy2, ok = clip.Circle(lx1, ly1, lx2, ly2, 0, 0, 1, 0, 0)
	case Triangle:
		cx1, cy1, cx2, cy2, ok = clip.Triangle(lx1, ly1, lx2, ly2, 1, 1, true)
	case Sector:
		cx1, cy1, cx2, cy2, ok = clip.Sector(lx1, ly1, lx2, ly2, 1, 1)
	case Segment:
		cx1, cy1, cx2, cy2, ok = clip.Segment(lx1, ly1, lx2, ly2, 1, 1)
	default:
		return 0
	}
	if !ok {
		return 0
	}

	localLen := math.Hypot(lx2-lx1, ly2-ly1)
	if localLen < lineIntegralEpsilon {
		return 0
	}
	worldLen := math.Hypot(x2-x1, y2-y1)
	clippedLen := math.Hypot(cx2-cx1, cy2-cy1)

	return e.A * clippedLen * worldLen / localLen
}

// LineIntegral sums every element's contribution to the ray
// (x1,y1)-(x2,y2), skipping elements whose bounding box the segment
// cannot possibly cross.
func (p *Phantom) LineIntegral(x1, y1, x2, y2 float64) float64 {
	var sum float64
	segBox := BBox{
		XMin: math.Min(x1, x2), XMax: math.Max(x1, x2),
		YMin: math.Min(y1, y2), YMax: math.Max(y1, y2),
	}
	for _, e := range p.Elements {
		if !boxesOverlap(e.bbox, segBox) {
			continue
		}
		sum += e.integral(x1, y1, x2, y2)
	}
	return sum
}

func boxesOverlap(a, b BBox) bool {
	return a.XMin <= b.XMax && a.XMax >= b.XMin && a.YMin <= b.YMax && a.YMax >= b.YMin
}
