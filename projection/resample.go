package projection

import (
	"math"
	"sort"

	"github.com/kevinrosenberg/ctsim/internal/ctsimerr"
	"github.com/kevinrosenberg/ctsim/internal/interp"
)

// ray is one divergent-beam measurement resampled into the parallel
// coordinate system (theta, t).
type ray struct {
	theta float64
	t     float64
	value float64
}

// ToParallel resamples a divergent-beam (equiangular or equilinear)
// acquisition into an equivalent parallel-beam Set with the same view
// and detector counts, per §4.3: each source ray is mapped to parallel
// coordinates (theta, t), the rays are sorted by theta then t, and the
// regular output grid is filled by linear interpolation in t within
// the nearest source theta.
func (s *Set) ToParallel() (*Set, error) {
	switch s.Header.Geometry {
	case GeometryEquiangular, GeometryEquilinear:
	default:
		return nil, ctsimerr.NewConstructionError("projection.ToParallel",
			"resampling to parallel is only defined for divergent-beam geometries, got %s", s.Header.Geometry)
	}

	nDet := s.NDet()
	nView := s.NView()
	rays := make([]ray, 0, nDet*nView)

	for vi := range s.views {
		beta := s.views[vi].Angle
		for di := 0; di < nDet; di++ {
			gamma := detectorAngle(s.Header, di, nDet)
			var theta, t float64
			if s.Header.Geometry == GeometryEquiangular {
				theta = beta + gamma
				t = s.Header.FocalLength * math.Sin(gamma)
			} else {
				a := math.Atan(gamma / s.Header.SourceDetectorLen)
				theta = beta + a
				t = s.Header.FocalLength * math.Sin(a)
			}
			theta = foldAngle(theta)
			rays = append(rays, ray{theta: theta, t: t, value: s.views[vi].Det[di]})
		}
	}

	sort.Slice(rays, func(i, j int) bool {
		if rays[i].theta != rays[j].theta {
			return rays[i].theta < rays[j].theta
		}
		return rays[i].t < rays[j].t
	})

	out := New(nView, nDet)
	out.Header = s.Header
	out.Header.Geometry = GeometryParallel

	tMin, tMax := rayTRange(rays)
	out.Header.DetStart = tMin
	if nDet > 1 {
		out.Header.DetInc = (tMax - tMin) / float64(nDet-1)
	}
	out.Header.RotStart = 0
	out.Header.RotInc = math.Pi / float64(nView)

	for vi := 0; vi < nView; vi++ {
		targetTheta := out.Header.RotStart + float64(vi)*out.Header.RotInc
		out.views[vi].Angle = targetTheta
		col := nearestThetaColumn(rays, targetTheta)
		for di := 0; di < nDet; di++ {
			targetT := out.Header.DetStart + float64(di)*out.Header.DetInc
			out.views[vi].Det[di] = interpolateColumn(col, targetT)
		}
	}

	return out, nil
}

func detectorAngle(h Header, di, nDet int) float64 {
	return (float64(di) - float64(nDet-1)/2) * h.DetInc
}

// foldAngle normalises theta to [0, 2*pi); callers whose acquisition
// geometry is symmetric under a pi rotation may further fold into
// [0, pi) themselves.
func foldAngle(theta float64) float64 {
	const twoPi = 2 * math.Pi
	for theta < 0 {
		theta += twoPi
	}
	for theta >= twoPi {
		theta -= twoPi
	}
	return theta
}

func rayTRange(rays []ray) (float64, float64) {
	if len(rays) == 0 {
		return 0, 0
	}
	minT, maxT := rays[0].t, rays[0].t
	for _, r := range rays {
		if r.t < minT {
			minT = r.t
		}
		if r.t > maxT {
			maxT = r.t
		}
	}
	return minT, maxT
}

// nearestThetaColumn returns the slice of rays whose theta is closest
// to target, among rays sharing that nearest theta value's near
// neighborhood (a coarse binning, since source thetas are not on a
// regular grid).
func nearestThetaColumn(rays []ray, target float64) []ray {
	if len(rays) == 0 {
		return nil
	}
	idx := sort.Search(len(rays), func(i int) bool { return rays[i].theta >= target })
	if idx >= len(rays) {
		idx = len(rays) - 1
	}
	lo := idx
	for lo > 0 && rays[lo-1].theta == rays[idx].theta {
		lo--
	}
	hi := idx
	for hi < len(rays)-1 && rays[hi+1].theta == rays[idx].theta {
		hi++
	}
	// Widen to a small neighborhood so interpolateColumn has enough
	// samples in t to work with even when theta values are sparse.
	const neighborWindow = 4
	lo -= neighborWindow
	hi += neighborWindow
	if lo < 0 {
		lo = 0
	}
	if hi >= len(rays) {
		hi = len(rays) - 1
	}
	return rays[lo : hi+1]
}

func interpolateColumn(col []ray, targetT float64) float64 {
	if len(col) == 0 {
		return 0
	}
	sorted := append([]ray(nil), col...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].t < sorted[j].t })
	xs := make([]float64, len(sorted))
	ys := make([]float64, len(sorted))
	for i, r := range sorted {
		xs[i] = r.t
		ys[i] = r.value
	}
	return interp.LinearIrregular(xs, ys, targetT, nil)
}
