// Package phantom implements the analytic test-object model: an
// ordered set of geometric primitives (rectangle, triangle, ellipse,
// sector, segment) each carrying an additive attenuation coefficient,
// plus the line-integral and rasterization operations a scanner and
// a pre-reconstruction comparison need.
//
// Every primitive is defined in its own unit-shape local frame and
// placed in the world by one cached affine transform (scale by
// (u, v), rotate by theta, translate to (cx, cy)), mirroring the
// composition libctgraphics/transformmatrix.cpp's TransformMatrix
// callers build up for each phantom element.
package phantom

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/kevinrosenberg/ctsim/internal/xform"
)

// Kind names a phantom primitive's shape.
type Kind int

const (
	Rectangle Kind = iota + 1
	Triangle
	Ellipse
	Sector
	Segment
)

// String returns the text-format keyword for k.
func (k Kind) String() string {
	switch k {
	case Rectangle:
		return "rectangle"
	case Triangle:
		return "triangle"
	case Ellipse:
		return "ellipse"
	case Sector:
		return "sector"
	case Segment:
		return "segment"
	default:
		return "unknown"
	}
}

// ParseKind parses a text-format keyword into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "rectangle":
		return Rectangle, nil
	case "triangle":
		return Triangle, nil
	case "ellipse":
		return Ellipse, nil
	case "sector":
		return Sector, nil
	case "segment":
		return Segment, nil
	default:
		return 0, fmt.Errorf("phantom: unknown primitive type %q", s)
	}
}

// BBox is an axis-aligned world-space bounding box.
type BBox struct {
	XMin, YMin, XMax, YMax float64
}

// Contains reports whether (x, y) lies within b.
func (b BBox) Contains(x, y float64) bool {
	return x >= b.XMin && x <= b.XMax && y >= b.YMin && y <= b.YMax
}

func unionBBox(a, b BBox) BBox {
	return BBox{
		XMin: math.Min(a.XMin, b.XMin),
		YMin: math.Min(a.YMin, b.YMin),
		XMax: math.Max(a.XMax, b.XMax),
		YMax: math.Max(a.YMax, b.YMax),
	}
}

// Element is one phantom primitive: a unit shape (see Kind) scaled by
// half-extents (U, V), rotated by Theta, centred at (CX, CY), with
// additive attenuation A.
type Element struct {
	Kind           Kind
	CX, CY, U, V   float64
	Theta, A       float64

	forward xform.Matrix
	inverse xform.Matrix
	bbox    BBox
}

// NewElement constructs an Element, caching its forward/inverse
// transform and world bounding box. A near-singular element (U or V
// too close to zero) logs a warning but still returns a usable,
// albeit degenerate, element — consistent with xform.Matrix.Invert's
// warn-and-proceed contract.
func NewElement(kind Kind, cx, cy, u, v, theta, a float64) Element {
	e := Element{Kind: kind, CX: cx, CY: cy, U: u, V: v, Theta: theta, A: a}
	e.forward = xform.Mul(xform.Mul(xform.Scale(u, v), xform.Rotate(theta)), xform.Translate(cx, cy))
	inv, err := e.forward.Invert()
	if err != nil {
		slog.Warn("phantom: degenerate element transform", "kind", kind, "u", u, "v", v, "error", err)
	}
	e.inverse = inv
	e.bbox = computeBBox(kind, e.forward)
	return e
}

// BoundingBox returns e's cached world-space axis-aligned bounding box.
func (e Element) BoundingBox() BBox { return e.bbox }

// unitShapeSamples returns representative points on the boundary of
// the element's unit-space home shape, used only to build a
// conservative world bounding box at construction time.
func unitShapeSamples(kind Kind) [][2]float64 {
	switch kind {
	case Rectangle:
		return [][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	case Triangle:
		return [][2]float64{{0, 1}, {-1, 0}, {1, 0}}
	default: // Ellipse, Sector, Segment: all contained in the unit circle
		const nSamples = 32
		pts := make([][2]float64, nSamples)
		for i := 0; i < nSamples; i++ {
			t := 2 * math.Pi * float64(i) / nSamples
			pts[i] = [2]float64{math.Cos(t), math.Sin(t)}
		}
		return pts
	}
}

func computeBBox(kind Kind, forward xform.Matrix) BBox {
	pts := unitShapeSamples(kind)
	x0, y0 := forward.TransformPoint(pts[0][0], pts[0][1])
	b := BBox{XMin: x0, YMin: y0, XMax: x0, YMax: y0}
	for _, p := range pts[1:] {
		x, y := forward.TransformPoint(p[0], p[1])
		b.XMin = math.Min(b.XMin, x)
		b.YMin = math.Min(b.YMin, y)
		b.XMax = math.Max(b.XMax, x)
		b.YMax = math.Max(b.YMax, y)
	}
	return b
}

const containsEpsilon = 1e-9

// contains reports whether the world point (x, y) lies within e, by
// mapping through e's inverse transform into unit-shape local space.
func (e Element) contains(x, y float64) bool {
	lx, ly := e.inverse.TransformPoint(x, y)
	switch e.Kind {
	case Rectangle:
		return math.Abs(lx) <= 1+containsEpsilon && math.Abs(ly) <= 1+containsEpsilon
	case Ellipse:
		return lx*lx+ly*ly <= 1+containsEpsilon
	case Triangle:
		return ly >= -containsEpsilon && ly <= -lx+1+containsEpsilon && ly <= lx+1+containsEpsilon
	case Sector:
		return lx*lx+ly*ly <= 1+containsEpsilon &&
			ly >= -containsEpsilon && ly <= -lx+1+containsEpsilon && ly <= lx+1+containsEpsilon
	case Segment:
		return lx*lx+ly*ly <= 1+containsEpsilon && ly <= containsEpsilon
	default:
		return false
	}
}

// Phantom is an ordered set of Elements.
type Phantom struct {
	Name     string
	Elements []Element
	bbox     BBox
	hasBBox  bool
}

// New returns an empty, named Phantom.
func New(name string) *Phantom {
	return &Phantom{Name: name}
}

// AddElement appends a primitive and extends the cached bounding box.
func (p *Phantom) AddElement(kind Kind, cx, cy, u, v, theta, a float64) {
	e := NewElement(kind, cx, cy, u, v, theta, a)
	p.Elements = append(p.Elements, e)
	if !p.hasBBox {
		p.bbox = e.bbox
		p.hasBBox = true
	} else {
		p.bbox = unionBBox(p.bbox, e.bbox)
	}
}

// BoundingBox returns the union of every element's bounding box.
func (p *Phantom) BoundingBox() BBox { return p.bbox }

// Attenuation returns the total additive attenuation at world point
// (x, y): the sum of every element's A for which the point lies
// inside that element's shape.
func (p *Phantom) Attenuation(x, y float64) float64 {
	var sum float64
	for _, e := range p.Elements {
		if !e.bbox.Contains(x, y) {
			continue
		}
		if e.contains(x, y) {
			sum += e.A
		}
	}
	return sum
}
