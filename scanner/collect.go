package scanner

import (
	"context"

	"github.com/kevinrosenberg/ctsim/internal/workpool"
	"github.com/kevinrosenberg/ctsim/projection"
)

// Collect runs the forward-projection simulation, producing a
// projection.Set of NView views by NDet detectors. Each view is
// computed independently, so views are fanned out across workers via
// internal/workpool (generalized from the macroblock-row atomic
// counter pattern the teacher's parallel encoder uses, itself the Go
// analogue of src/threadproj.cpp's per-view worker split).
func (s *Scanner) Collect(ctx context.Context) (*projection.Set, error) {
	set := projection.New(s.NView, s.NDet)
	set.Header = s.header

	completed, err := workpool.Run(ctx, s.NView, 0, func(_ context.Context, v int) error {
		beta := s.viewAngle(v)
		view := set.View(v)
		view.Angle = beta
		for k := 0; k < s.NDet; k++ {
			x1, y1, x2, y2 := s.rayEndpoints(beta, k)
			view.Det[k] = s.Phantom.LineIntegral(x1, y1, x2, y2)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !completed {
		set.MarkIncomplete()
	}
	return set, nil
}
