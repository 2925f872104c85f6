// Package scanner implements the forward-projection (scanning)
// simulation: given a phantom, an acquisition geometry, and detector/
// view counts, it computes the per-view, per-detector line integrals
// that make up a projection Set.
//
// Grounded structurally on the acquisition-parameter set the original
// threaded projector builds (src/threadproj.cpp's ProjectorSupervisor
// constructor: nDet, nView, offsetView, geometry, nSample, rotation,
// focalLength, centerDetectorLength, viewRatio, scanRatio) — no
// standalone scanner.cpp was retrieved in the pack, so the view/
// detector geometry formulas themselves come directly from the
// specification.
package scanner

import (
	"fmt"
	"math"

	"github.com/kevinrosenberg/ctsim/internal/ctsimerr"
	"github.com/kevinrosenberg/ctsim/phantom"
	"github.com/kevinrosenberg/ctsim/projection"
)

// Scanner holds the immutable acquisition parameters for one forward
// projection run. A Scanner does not own any projection storage; it
// only produces a projection.Set on demand via Collect.
type Scanner struct {
	Phantom  *phantom.Phantom
	Geometry projection.Geometry

	NDet, NView, OffsetView, NSample int

	// ViewRatio is the fraction of the scan window (diameter 2, the
	// phantom's canonical unit-disc extent) the detector array spans.
	ViewRatio float64
	// ScanRatio is the fraction of a full rotation the acquisition
	// covers (1.0 = parallel [0,pi) or fan [0,2pi) in full).
	ScanRatio float64

	FocalLength       float64
	SourceDetectorLen float64 // equilinear only; distance source-to-detector-plane

	header projection.Header
}

// New validates and constructs a Scanner, precomputing the
// projection.Header its acquisition geometry implies.
func New(p *phantom.Phantom, geometry projection.Geometry, nDet, nView, offsetView, nSample int,
	focalLength, sourceDetectorLen, viewRatio, scanRatio float64) (*Scanner, error) {

	if nDet < 2 {
		return nil, ctsimerr.NewConstructionError("scanner.New", "nDet must be >= 2, got %d", nDet)
	}
	if nView < 1 {
		return nil, ctsimerr.NewConstructionError("scanner.New", "nView must be >= 1, got %d", nView)
	}
	if viewRatio <= 0 {
		return nil, ctsimerr.NewConstructionError("scanner.New", "viewRatio must be positive, got %g", viewRatio)
	}
	switch geometry {
	case projection.GeometryParallel, projection.GeometryEquiangular, projection.GeometryEquilinear:
	default:
		return nil, ctsimerr.NewConstructionError("scanner.New", "unsupported geometry %s", geometry)
	}
	if geometry == projection.GeometryEquiangular || geometry == projection.GeometryEquilinear {
		if focalLength <= viewRatio {
			return nil, ctsimerr.NewConstructionError("scanner.New",
				"focalLength (%g) must exceed viewRatio (%g) for fan-beam geometry", focalLength, viewRatio)
		}
	}

	s := &Scanner{
		Phantom: p, Geometry: geometry,
		NDet: nDet, NView: nView, OffsetView: offsetView, NSample: nSample,
		ViewRatio: viewRatio, ScanRatio: scanRatio,
		FocalLength: focalLength, SourceDetectorLen: sourceDetectorLen,
	}
	s.header = s.buildHeader()
	return s, nil
}

// detInc returns the per-detector increment for an array of n samples
// spanning a half-width of halfSpan symmetrically about its centre
// (odd n divides by n-1, even n divides by n — the normalised even/
// odd centre convention fixed by the specification).
func detInc(n int, halfSpan float64) float64 {
	if n%2 == 1 {
		return 2 * halfSpan / float64(n-1)
	}
	return 2 * halfSpan / float64(n)
}

func (s *Scanner) buildHeader() projection.Header {
	h := projection.Header{Geometry: s.Geometry, FocalLength: s.FocalLength, SourceDetectorLen: s.SourceDetectorLen}

	switch s.Geometry {
	case projection.GeometryParallel:
		h.DetInc = detInc(s.NDet, s.ViewRatio)
		h.DetStart = -float64(s.NDet-1) / 2 * h.DetInc
		h.RotInc = math.Pi * s.ScanRatio / float64(s.NView)
		h.RotStart = float64(s.OffsetView) * h.RotInc

	case projection.GeometryEquiangular:
		gammaMax := math.Asin(s.ViewRatio / s.FocalLength)
		h.DetInc = detInc(s.NDet, gammaMax)
		h.DetStart = -float64(s.NDet-1) / 2 * h.DetInc
		h.FanBeamAngle = 2 * gammaMax
		h.RotInc = 2 * math.Pi * s.ScanRatio / float64(s.NView)
		h.RotStart = float64(s.OffsetView) * h.RotInc

	case projection.GeometryEquilinear:
		t := s.ViewRatio
		f := s.FocalLength
		dMax := t * f / math.Sqrt(f*f-t*t)
		h.DetInc = detInc(s.NDet, dMax)
		h.DetStart = -float64(s.NDet-1) / 2 * h.DetInc
		h.FanBeamAngle = 2 * math.Atan(dMax/s.SourceDetectorLen)
		h.RotInc = 2 * math.Pi * s.ScanRatio / float64(s.NView)
		h.RotStart = float64(s.OffsetView) * h.RotInc
	}

	h.ViewDiameter = 2 * s.ViewRatio
	return h
}

// Header returns the projection.Header this Scanner's geometry
// implies, suitable for an empty projection.Set before Collect fills
// it in.
func (s *Scanner) Header() projection.Header { return s.header }

// dir returns the unit vector (cos(theta), sin(theta)).
func dir(theta float64) (float64, float64) { return math.Cos(theta), math.Sin(theta) }

// perp returns the unit vector perpendicular to dir(theta), rotated
// +90 degrees.
func perp(theta float64) (float64, float64) {
	dx, dy := dir(theta)
	return -dy, dx
}

// rayEndpoints returns the world-space segment endpoints of the ray
// for view angle beta and detector index k, long enough to cross the
// entire scan circle regardless of geometry.
func (s *Scanner) rayEndpoints(beta float64, k int) (x1, y1, x2, y2 float64) {
	reach := 4 * (s.FocalLength + s.SourceDetectorLen + s.ViewRatio + 1)

	switch s.Geometry {
	case projection.GeometryParallel:
		t := s.header.DetStart + float64(k)*s.header.DetInc
		px, py := perp(beta)
		dx, dy := dir(beta)
		x1, y1 = t*px-reach*dx, t*py-reach*dy
		x2, y2 = t*px+reach*dx, t*py+reach*dy

	case projection.GeometryEquiangular:
		gamma := s.header.DetStart + float64(k)*s.header.DetInc
		sx, sy := dir(beta)
		sx, sy = s.FocalLength*sx, s.FocalLength*sy
		rdx, rdy := dir(beta + math.Pi + gamma)
		x1, y1 = sx, sy
		x2, y2 = sx+reach*rdx, sy+reach*rdy

	case projection.GeometryEquilinear:
		d := s.header.DetStart + float64(k)*s.header.DetInc
		sx, sy := dir(beta)
		sx, sy = s.FocalLength*sx, s.FocalLength*sy
		cdx, cdy := dir(beta + math.Pi)
		centerX, centerY := sx+s.SourceDetectorLen*cdx, sy+s.SourceDetectorLen*cdy
		px, py := perp(beta)
		detX, detY := centerX+d*px, centerY+d*py
		rdx, rdy := detX-sx, detY-sy
		norm := math.Hypot(rdx, rdy)
		if norm > 0 {
			rdx, rdy = rdx/norm, rdy/norm
		}
		x1, y1 = sx, sy
		x2, y2 = sx+reach*rdx, sy+reach*rdy
	}
	return x1, y1, x2, y2
}

// viewAngle returns the gantry angle for view index v (0-based within
// this Scanner's NView); RotStart already folds in OffsetView.
func (s *Scanner) viewAngle(v int) float64 {
	return s.header.RotStart + float64(v)*s.header.RotInc
}

func (s *Scanner) String() string {
	return fmt.Sprintf("scanner{%s nDet=%d nView=%d}", s.Geometry, s.NDet, s.NView)
}
