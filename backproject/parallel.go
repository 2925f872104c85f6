package backproject

import (
	"math"

	"github.com/kevinrosenberg/ctsim/internal/interp"
)

// backprojectTrig computes (r, phi) fresh for every pixel of every
// view and scales the contribution inline. Grounded on
// BackprojectTrig::BackprojectView.
func (b *Backprojector) backprojectTrig(filtered []float64, theta float64) {
	nx, ny := b.Image.NX(), b.Image.NY()
	x := b.XMin + b.XInc/2
	for ix := 0; ix < nx; ix++ {
		y := b.YMin + b.YInc/2
		for iy := 0; iy < ny; iy++ {
			r := math.Hypot(x, y)
			phi := math.Atan2(y, x)
			l := r * math.Cos(theta-phi)
			pos := float64(b.IDetCenter) + l/b.DetInc
			b.Image.Set(ix, iy, b.Image.At(ix, iy)+b.RotScale*interp.At(b.Interp, filtered, pos))
			y += b.YInc
		}
		x += b.XInc
	}
}

// backprojectTable reuses the precomputed per-pixel (r, phi) table and
// accumulates unscaled sums, deferring the rotScale multiply to
// PostProcessing. Grounded on BackprojectTable::BackprojectView.
func (b *Backprojector) backprojectTable(filtered []float64, theta float64) {
	nx, ny := b.Image.NX(), b.Image.NY()
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			idx := ix*ny + iy
			l := b.r[idx] * math.Cos(theta-b.phi[idx])
			pos := float64(b.IDetCenter) + l/b.DetInc
			b.Image.Set(ix, iy, b.Image.At(ix, iy)+interp.At(b.Interp, filtered, pos))
		}
	}
}

// backprojectDiff exploits that the detector position L changes by a
// constant step along each image axis, turning the per-pixel cos/atan2
// into two additions. Grounded on BackprojectDiff::BackprojectView.
func (b *Backprojector) backprojectDiff(filtered []float64, theta float64) {
	nx, ny := b.Image.NX(), b.Image.NY()
	detDx := b.XInc * math.Cos(theta) / b.DetInc
	detDy := b.YInc * math.Sin(theta) / b.DetInc
	detPosColStart := float64(b.IDetCenter) + b.startR*math.Cos(theta-b.startPhi)/b.DetInc

	for ix := 0; ix < nx; ix++ {
		curDetPos := detPosColStart
		for iy := 0; iy < ny; iy++ {
			b.Image.Set(ix, iy, b.Image.At(ix, iy)+interp.At(b.Interp, filtered, curDetPos))
			curDetPos += detDy
		}
		detPosColStart += detDx
	}
}

// backprojectIntDiff is the fixed-point variant of backprojectDiff: L
// is carried as a scaled integer so the inner loop is integer
// add/shift for nearest and linear interpolation; cubic falls back to
// floating point. Grounded on BackprojectIntDiff::BackprojectView.
func (b *Backprojector) backprojectIntDiff(filtered []float64, theta float64) {
	const scaleShift = 32
	const scale = int64(1) << scaleShift

	nx, ny := b.Image.NX(), b.Image.NY()
	detDx := int64(math.Round(b.XInc * math.Cos(theta) / b.DetInc * float64(scale)))
	detDy := int64(math.Round(b.YInc * math.Sin(theta) / b.DetInc * float64(scale)))
	detPosColStart := int64(math.Round((b.startR*math.Cos(theta-b.startPhi)/b.DetInc + float64(b.IDetCenter)) * float64(scale)))

	if b.Interp == interp.CubicPoly {
		for ix := 0; ix < nx; ix++ {
			curDetPos := detPosColStart
			for iy := 0; iy < ny; iy++ {
				p := float64(curDetPos) / float64(scale)
				b.Image.Set(ix, iy, b.Image.At(ix, iy)+interp.CubicPolyAt(filtered, p))
				curDetPos += detDy
			}
			detPosColStart += detDx
		}
		return
	}

	lastDet := len(filtered) - 1
	for ix := 0; ix < nx; ix++ {
		curDetPos := detPosColStart
		for iy := 0; iy < ny; iy++ {
			switch b.Interp {
			case interp.Nearest:
				iDetPos := int((curDetPos + scale/2) >> scaleShift)
				if iDetPos >= 0 && iDetPos <= lastDet {
					b.Image.Set(ix, iy, b.Image.At(ix, iy)+filtered[iDetPos])
				}
			default: // Linear
				iDetPos := int(curDetPos >> scaleShift)
				if iDetPos >= 0 && iDetPos < lastDet {
					frac := float64(curDetPos&(scale-1)) / float64(scale)
					b.Image.Set(ix, iy, b.Image.At(ix, iy)+filtered[iDetPos]+frac*(filtered[iDetPos+1]-filtered[iDetPos]))
				} else if iDetPos == lastDet {
					b.Image.Set(ix, iy, b.Image.At(ix, iy)+filtered[iDetPos])
				}
			}
			curDetPos += detDy
		}
		detPosColStart += detDx
	}
}
