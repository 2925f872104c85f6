// Package backproject implements the filtered-backprojection
// accumulation step: given one view's filtered detector samples and
// its gantry angle, smear the ray sums back across the output image.
//
// Grounded on original_source/libctsim/backprojectors.cpp's
// Backproject base class and its four parallel-geometry subclasses
// (BackprojectTrig, BackprojectTable, BackprojectDiff,
// BackprojectIntDiff) plus the two fan-beam subclasses
// (BackprojectEquiangular, BackprojectEquilinear).
package backproject

import (
	"math"
	"strings"

	"github.com/kevinrosenberg/ctsim/image"
	"github.com/kevinrosenberg/ctsim/internal/ctsimerr"
	"github.com/kevinrosenberg/ctsim/internal/interp"
	"github.com/kevinrosenberg/ctsim/projection"
)

// Method names a parallel-geometry backprojection algorithm. Fan-beam
// geometries (Equiangular, Equilinear) always use the Table-style
// precomputed per-pixel (r, phi) strategy, mirroring the original
// library's class hierarchy.
type Method int

const (
	Trig Method = iota + 1
	Table
	Diff
	IntDiff
)

func (m Method) String() string {
	switch m {
	case Trig:
		return "trig"
	case Table:
		return "table"
	case Diff:
		return "diff"
	case IntDiff:
		return "int-diff"
	default:
		return "unknown"
	}
}

// ParseMethod resolves a parallel-geometry backprojection algorithm by
// its canonical name (case insensitive).
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "trig":
		return Trig, nil
	case "table":
		return Table, nil
	case "diff", "difference":
		return Diff, nil
	case "int-diff", "intdiff", "integer-difference":
		return IntDiff, nil
	default:
		return 0, ctsimerr.NewConstructionError("backproject.ParseMethod", "unknown backprojection method %q", s)
	}
}

// ROI clamps the reconstructed region to a sub-rectangle of the
// phantom's natural extent.
type ROI struct {
	XMin, XMax, YMin, YMax float64
}

// Backprojector accumulates filtered views into an output image. One
// Backprojector processes all views for a single reconstruction; it is
// not safe for concurrent calls to BackprojectView (the orchestrator
// described in the specification divides views across multiple
// Backprojector instances over disjoint view ranges instead, and sums
// their output images).
type Backprojector struct {
	Geometry projection.Geometry
	Method   Method
	Interp   interp.Kind

	Image *image.Image

	NDet       int
	DetInc     float64
	IDetCenter int
	RotScale   float64

	XMin, XMax, YMin, YMax float64
	XInc, YInc             float64

	FocalLength       float64
	SourceDetectorLen float64

	// r/phi cache the polar coordinates of every pixel's centre,
	// populated for Method == Table and for both fan-beam geometries.
	r, phi []float64

	// startR/startPhi cache pixel (0,0)'s polar coordinates for the
	// Diff/IntDiff incremental-L schemes.
	startR, startPhi float64

	postProcessingDone bool
}

// New validates parameters and builds a Backprojector targeting out,
// which must already be sized to the desired reconstruction
// resolution. phantomLen is the natural (unclamped) side length of the
// square reconstruction region, centred at the origin; roi, if
// non-nil, clamps that region further.
func New(geometry projection.Geometry, method Method, interpKind interp.Kind,
	nDet int, detInc, focalLength, sourceDetectorLen float64, nView int,
	out *image.Image, phantomLen float64, roi *ROI) (*Backprojector, error) {

	if out == nil {
		return nil, ctsimerr.NewConstructionError("backproject.New", "output image must not be nil")
	}
	if nDet < 2 {
		return nil, ctsimerr.NewConstructionError("backproject.New", "nDet must be >= 2, got %d", nDet)
	}
	if nView < 1 {
		return nil, ctsimerr.NewConstructionError("backproject.New", "nView must be >= 1, got %d", nView)
	}
	if detInc <= 0 || phantomLen <= 0 {
		return nil, ctsimerr.NewConstructionError("backproject.New", "detInc and phantomLen must be positive")
	}

	var rotScale float64
	switch geometry {
	case projection.GeometryParallel:
		rotScale = math.Pi / float64(nView)
	case projection.GeometryEquiangular, projection.GeometryEquilinear:
		rotScale = 2 * math.Pi / float64(nView)
		if focalLength <= 0 {
			return nil, ctsimerr.NewConstructionError("backproject.New", "fan-beam geometry requires a positive focalLength")
		}
	default:
		return nil, ctsimerr.NewConstructionError("backproject.New", "unsupported geometry %s", geometry)
	}

	switch method {
	case Trig, Table, Diff, IntDiff:
	default:
		return nil, ctsimerr.NewConstructionError("backproject.New", "unsupported method %s", method)
	}

	xMin, xMax := -phantomLen/2, phantomLen/2
	yMin, yMax := -phantomLen/2, phantomLen/2
	if roi != nil {
		if roi.XMin > xMin {
			xMin = roi.XMin
		}
		if roi.XMax < xMax {
			xMax = roi.XMax
		}
		if roi.YMin > yMin {
			yMin = roi.YMin
		}
		if roi.YMax < yMax {
			yMax = roi.YMax
		}
		if xMin > xMax {
			xMin, xMax = xMax, xMin
		}
		if yMin > yMax {
			yMin, yMax = yMax, yMin
		}
	}

	nx, ny := out.NX(), out.NY()
	xInc := (xMax - xMin) / float64(nx)
	yInc := (yMax - yMin) / float64(ny)
	out.SetIncrements(xInc, yInc)

	b := &Backprojector{
		Geometry: geometry, Method: method, Interp: interpKind, Image: out,
		NDet: nDet, DetInc: detInc, IDetCenter: (nDet - 1) / 2, RotScale: rotScale,
		XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax, XInc: xInc, YInc: yInc,
		FocalLength: focalLength, SourceDetectorLen: sourceDetectorLen,
	}

	// Trig recomputes (r, phi) fresh every call and scales inline, so
	// it needs no deferred post-processing; every other strategy
	// accumulates unscaled sums and defers the rotScale multiply. The
	// fan-beam geometries have no Trig-equivalent inline variant: both
	// reuse the Table-style precomputed (r, phi) array (see
	// buildPixelTable below), so they always defer, regardless of
	// which Method value was passed for the parallel-only algorithm
	// selection.
	b.postProcessingDone = method == Trig && geometry == projection.GeometryParallel

	if method == Table || geometry != projection.GeometryParallel {
		b.buildPixelTable()
	}
	if method == Diff || method == IntDiff {
		x := b.XMin + b.XInc/2
		y := b.YMin + b.YInc/2
		b.startR = math.Hypot(x, y)
		b.startPhi = math.Atan2(y, x)
	}
	return b, nil
}

func (b *Backprojector) buildPixelTable() {
	nx, ny := b.Image.NX(), b.Image.NY()
	b.r = make([]float64, nx*ny)
	b.phi = make([]float64, nx*ny)
	x := b.XMin + b.XInc/2
	for ix := 0; ix < nx; ix++ {
		y := b.YMin + b.YInc/2
		for iy := 0; iy < ny; iy++ {
			idx := ix*ny + iy
			b.r[idx] = math.Hypot(x, y)
			b.phi[idx] = math.Atan2(y, x)
			y += b.YInc
		}
		x += b.XInc
	}
}

// BackprojectView accumulates one view's filtered detector samples
// into the output image at the given gantry angle.
func (b *Backprojector) BackprojectView(filtered []float64, viewAngle float64) error {
	if len(filtered) < b.NDet {
		return ctsimerr.NewConstructionError("backproject.BackprojectView",
			"filtered view has %d samples, need at least %d", len(filtered), b.NDet)
	}

	switch b.Geometry {
	case projection.GeometryEquiangular:
		b.backprojectEquiangular(filtered, viewAngle)
		return nil
	case projection.GeometryEquilinear:
		b.backprojectEquilinear(filtered, viewAngle)
		return nil
	}

	switch b.Method {
	case Trig:
		b.backprojectTrig(filtered, viewAngle)
	case Table:
		b.backprojectTable(filtered, viewAngle)
	case Diff:
		b.backprojectDiff(filtered, viewAngle)
	case IntDiff:
		b.backprojectIntDiff(filtered, viewAngle)
	}
	return nil
}

// PostProcessing applies the rotation-increment scale deferred by
// every strategy except Trig. Safe to call more than once.
func (b *Backprojector) PostProcessing() {
	if b.postProcessingDone {
		return
	}
	nx, ny := b.Image.NX(), b.Image.NY()
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			b.Image.Set(ix, iy, b.Image.At(ix, iy)*b.RotScale)
		}
	}
	b.postProcessingDone = true
}
