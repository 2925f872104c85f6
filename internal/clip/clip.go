// Package clip implements the line-clipping primitives used to compute
// ray/phantom-primitive line integrals: a line segment is clipped
// against a rectangle, triangle, circular sector, or circular segment,
// and the surviving (possibly shortened) segment is what contributes to
// the line integral.
//
// All clippers work in the primitive's own unit (u, v) half-extent
// space, matching the phantom package's cached inverse transforms.
package clip

import (
	"math"

	"github.com/kevinrosenberg/ctsim/internal/xform"
)

const (
	dEpsilon = 1e-9
	fEpsilon = 1e-5
)

// Rect clips the segment (x1,y1)-(x2,y2) against the axis-aligned
// rectangle [xmin, ymin, xmax, ymax]. It reports whether any part of
// the segment survives, and if so the clipped endpoints.
func Rect(x1, y1, x2, y2, xmin, ymin, xmax, ymax float64) (cx1, cy1, cx2, cy2 float64, ok bool) {
	c1 := rectCode(x1, y1, xmin, ymin, xmax, ymax)
	c2 := rectCode(x2, y2, xmin, ymin, xmax, ymax)

	for c1 != 0 || c2 != 0 {
		if c1&c2 != 0 {
			return 0, 0, 0, 0, false
		}
		c := c1
		if c1 == 0 {
			c = c2
		}

		var x, y float64
		switch {
		case c&1 != 0: // left
			y = y1 + (y2-y1)*(xmin-x1)/(x2-x1)
			x = xmin
		case c&2 != 0: // right
			y = y1 + (y2-y1)*(xmax-x1)/(x2-x1)
			x = xmax
		case c&4 != 0: // bottom
			x = x1 + (x2-x1)*(ymin-y1)/(y2-y1)
			y = ymin
		case c&8 != 0: // top
			x = x1 + (x2-x1)*(ymax-y1)/(y2-y1)
			y = ymax
		}

		if c == c1 {
			x1, y1 = x, y
			c1 = rectCode(x1, y1, xmin, ymin, xmax, ymax)
		} else {
			x2, y2 = x, y
			c2 = rectCode(x2, y2, xmin, ymin, xmax, ymax)
		}
	}
	return x1, y1, x2, y2, true
}

func rectCode(x, y, xmin, ymin, xmax, ymax float64) int {
	c := 0
	if x < xmin {
		c = 1
	} else if x > xmax {
		c = 2
	}
	if y < ymin {
		c += 4
	} else if y > ymax {
		c += 8
	}
	return c
}

// Triangle clips the segment against the isoceles triangle with base
// vertices (-u, 0), (u, 0) and apex (0, v). clipXAxis selects whether
// the base (y=0) edge itself is also a clip boundary; sector clipping
// passes false because the circular-sector caller clips the base
// separately.
func Triangle(x1, y1, x2, y2, u, v float64, clipXAxis bool) (cx1, cy1, cx2, cy2 float64, ok bool) {
	m := v / u
	b := v

	c1 := tcode(x1, y1, m, b, clipXAxis)
	c2 := tcode(x2, y2, m, b, clipXAxis)

	for c1 != 0 || c2 != 0 {
		if c1&c2 != 0 {
			return 0, 0, 0, 0, false
		}
		c := c1
		if c1 == 0 {
			c = c2
		}

		var x, y float64
		switch {
		case c&1 != 0: // below base
			x = x1 + (x2-x1)*(0.0-y1)/(y2-y1)
			y = 0.0
		case c&2 != 0: // right of triangle
			dx := x2 - x1
			dy := y2 - y1
			if math.Abs(dx) > dEpsilon {
				x = (-y1 + b + x1*dy/dx) / (m + dy/dx)
			} else {
				x = x1
			}
			y = -m*x + b
		case c&4 != 0: // left of triangle
			dx := x2 - x1
			dy := y2 - y1
			if math.Abs(dx) > dEpsilon {
				x = y1 - b - x1*dy/dx
				x /= m - dy/dx
			} else {
				x = x1
			}
			y = m*x + b
		}

		if c == c1 {
			x1, y1 = x, y
			c1 = tcode(x1, y1, m, b, clipXAxis)
		} else {
			x2, y2 = x, y
			c2 = tcode(x2, y2, m, b, clipXAxis)
		}
	}
	return x1, y1, x2, y2, true
}

func tcode(x, y, m, b float64, clipXAxis bool) int {
	c := 0
	if clipXAxis && y < 0 {
		c = 1
	}
	if y > -m*x+b+dEpsilon {
		c += 2
	}
	if y > m*x+b+dEpsilon {
		c += 4
	}
	return c
}

// Circle clips the segment against a circle centered at (cx, cy) with
// the given radius, restricted to the angular window [t1, t2] radians
// (a full circle when t1 == t2).
func Circle(x1, y1, x2, y2, cx, cy, radius, t1, t2 float64) (cx1, cy1, cx2, cy2 float64, ok bool) {
	xtrans := -x1
	ytrans := -y1

	xc1 := x1 + xtrans
	yc1 := y1 + ytrans
	xc2 := x2 + xtrans
	yc2 := y2 + ytrans
	ccx := cx + xtrans
	ccy := cy + ytrans

	theta := -math.Atan2(yc2, xc2)
	rot := xform.Rotate(theta)
	xc2, yc2 = rot.TransformPoint(xc2, yc2)
	ccx, ccy = rot.TransformPoint(ccx, ccy)
	t1 = xform.NormalizeAngle(t1 + theta)
	t2 = xform.NormalizeAngle(t2 + theta)

	if xc2 < -dEpsilon || math.Abs(yc2) > fEpsilon {
		return 0, 0, 0, 0, false
	}

	if math.Abs(ccy) > radius {
		return 0, 0, 0, 0, false
	}

	temp := math.Sqrt(radius*radius - ccy*ccy)
	xcmin := ccx - temp
	xcmax := ccx + temp

	switch {
	case math.Abs(t2-t1) < dEpsilon:
		if xc1 < xcmin {
			xc1 = xcmin
		}
		if xc2 > xcmax {
			xc2 = xcmax
		}
	case t1 < t2:
		if t1 < math.Pi && t2 > math.Pi && xc1 < xcmin {
			xc1 = xcmin
		}
	default: // t1 > t2
		if t1 < math.Pi && xc1 < xcmin {
			xc1 = xcmin
		}
		if xc2 > xcmax {
			xc2 = xcmax
		}
	}

	rotBack := xform.Rotate(-theta)
	xc1, yc1 = rotBack.TransformPoint(xc1, yc1)
	xc2, yc2 = rotBack.TransformPoint(xc2, yc2)

	return xc1 - xtrans, yc1 - ytrans, xc2 - xtrans, yc2 - ytrans, true
}

// Sector clips the segment against a circular sector of half-base u
// and height v: the intersection of the enclosing circle and the
// triangle spanned by the sector's two radii.
func Sector(x1, y1, x2, y2, u, v float64) (cx1, cy1, cx2, cy2 float64, ok bool) {
	xc1 := x1 * u
	yc1 := y1 * v
	xc2 := x2 * u
	yc2 := y2 * v

	radius := math.Sqrt(u*u + v*v)

	xc1, yc1, xc2, yc2, ok = Circle(xc1, yc1, xc2, yc2, 0, v, radius, 0, 0)
	if !ok {
		return 0, 0, 0, 0, false
	}

	xc1, yc1, xc2, yc2, ok = Triangle(xc1, yc1, xc2, yc2, u, v, false)
	if !ok {
		return 0, 0, 0, 0, false
	}

	return xc1 / u, yc1 / v, xc2 / u, yc2 / v, true
}

// Segment clips the segment against a circular segment (the region of
// a circle cut off by a chord at height v, with half-width u): the
// intersection of the enclosing circle and the half-plane above the
// chord is rejected — Segment keeps the part at or below y=0.
func Segment(x1, y1, x2, y2, u, v float64) (cx1, cy1, cx2, cy2 float64, ok bool) {
	xc1 := x1 * u
	yc1 := y1 * v
	xc2 := x2 * u
	yc2 := y2 * v

	if yc1 > 0 && yc2 > 0 {
		return 0, 0, 0, 0, false
	}

	radius := math.Sqrt(u*u + v*v)

	xc1, yc1, xc2, yc2, ok = Circle(xc1, yc1, xc2, yc2, 0, v, radius, 0, 0)
	if !ok {
		return 0, 0, 0, 0, false
	}

	if yc1 > 0 && yc2 > 0 {
		return 0, 0, 0, 0, false
	}

	if yc1 > 0 {
		xc1 = xc1 + (xc2-xc1)*(0.0-yc1)/(yc2-yc1)
		yc1 = 0.0
	} else if yc2 > 0 {
		xc2 = xc1 + (xc2-xc1)*(0.0-yc1)/(yc2-yc1)
		yc2 = 0.0
	}

	return xc1 / u, yc1 / v, xc2 / u, yc2 / v, true
}
