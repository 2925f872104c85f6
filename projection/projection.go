// Package projection implements the sinogram container: an ordered
// sequence of per-view detector-array records plus the scan geometry
// header, native big-endian file I/O, and the half-scan rebinning
// operations used to turn a divergent-beam helical acquisition into an
// equivalent parallel- or half-scan data set.
//
// The ordered append/iterate/resize shape is adapted from the image
// codec's animation frame list, generalized from composited video
// frames to detector-array views: no blend/dispose semantics survive,
// only the ordered, resizable, metadata-tagged sequence shape.
package projection

import (
	"strings"
	"time"

	"github.com/kevinrosenberg/ctsim/internal/ctsimerr"
)

// Geometry names the scan acquisition geometry.
type Geometry int

const (
	GeometryInvalid Geometry = iota
	GeometryParallel
	GeometryEquilinear
	GeometryEquiangular
)

// String returns the display name of g.
func (g Geometry) String() string {
	switch g {
	case GeometryParallel:
		return "parallel"
	case GeometryEquilinear:
		return "equilinear"
	case GeometryEquiangular:
		return "equiangular"
	default:
		return "invalid"
	}
}

// ParseGeometry resolves a scan geometry by its canonical name (case
// insensitive).
func ParseGeometry(s string) (Geometry, error) {
	switch strings.ToLower(s) {
	case "parallel":
		return GeometryParallel, nil
	case "equilinear":
		return GeometryEquilinear, nil
	case "equiangular":
		return GeometryEquiangular, nil
	default:
		return GeometryInvalid, ctsimerr.NewConstructionError("projection.ParseGeometry", "unknown geometry %q", s)
	}
}

// Header carries the scan geometry and acquisition parameters shared
// by every view in a Set.
type Header struct {
	Geometry Geometry

	RotStart, RotInc   float64
	DetStart, DetInc   float64
	ViewDiameter       float64
	FocalLength        float64
	SourceDetectorLen  float64
	FanBeamAngle       float64

	CalcTimeS float64
	Created   time.Time
	Remark    string
}

// View is one detector-array record: the source/gantry angle (in
// radians) at which it was acquired, and its nDet detector samples.
// Detector values live as float64 in memory; the wire format narrows
// them to float32, per the data model's disk/memory split.
type View struct {
	Angle float64
	Det   []float64
}

// Set is an ordered sequence of views sharing one Header.
type Set struct {
	Header Header
	views  []View

	partial bool // set by MarkIncomplete when Collect was cancelled early
}

// New allocates a Set of nView views, each with nDet zeroed detector
// samples.
func New(nView, nDet int) *Set {
	views := make([]View, nView)
	for i := range views {
		views[i].Det = make([]float64, nDet)
	}
	return &Set{views: views}
}

// NView returns the number of views.
func (s *Set) NView() int { return len(s.views) }

// NDet returns the detector count of the first view (all views in a
// Set share the same detector count).
func (s *Set) NDet() int {
	if len(s.views) == 0 {
		return 0
	}
	return len(s.views[0].Det)
}

// View returns a pointer to the i'th view for read/write access.
func (s *Set) View(i int) *View { return &s.views[i] }

// Views returns the full, ordered view slice.
func (s *Set) Views() []View { return s.views }

// MarkIncomplete records that Collect was cancelled before every view
// was filled in. The Set still holds whatever views were computed so
// far; the rest remain zero-valued.
func (s *Set) MarkIncomplete() { s.partial = true }

// Partial reports whether this Set is the product of a cancelled,
// incomplete Collect.
func (s *Set) Partial() bool { return s.partial }

// Resize changes the view count to nView, truncating or zero-extending
// (new views get nDet-sample zeroed detector arrays, nDet taken from
// the existing views; on an empty Set the new views get zero-length
// detector arrays).
func (s *Set) Resize(nView int) {
	nDet := s.NDet()
	if nView <= len(s.views) {
		s.views = s.views[:nView]
		return
	}
	grown := make([]View, nView)
	copy(grown, s.views)
	for i := len(s.views); i < nView; i++ {
		grown[i].Det = make([]float64, nDet)
	}
	s.views = grown
}
