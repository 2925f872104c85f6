package backproject

import (
	"math"

	"github.com/kevinrosenberg/ctsim/internal/interp"
)

// backprojectEquiangular reuses the precomputed (r, phi) table (built
// for every fan-beam geometry in New) and weights each contribution by
// 1/L^2, L being the source-to-pixel distance implied by the fan
// geometry. Grounded on BackprojectEquiangular::BackprojectView.
func (b *Backprojector) backprojectEquiangular(filtered []float64, beta float64) {
	nx, ny := b.Image.NX(), b.Image.NY()
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			idx := ix*ny + iy
			diff := beta - b.phi[idx]
			rcos := b.r[idx] * math.Cos(diff)
			rsin := b.r[idx] * math.Sin(diff)
			flPlusSin := b.FocalLength + rsin
			gamma := math.Atan(rcos / flPlusSin)
			pos := float64(b.IDetCenter) + gamma/b.DetInc
			l2 := flPlusSin*flPlusSin + rcos*rcos

			v := interp.At(b.Interp, filtered, pos)
			b.Image.Set(ix, iy, b.Image.At(ix, iy)+v/l2)
		}
	}
}

// backprojectEquilinear weights each contribution by 1/U^2 and rescales
// the detector coordinate by sourceDetectorLen/focalLength, the same
// imaginary-detector-through-the-origin correction used in filter
// generation (Kak-Slaney Figure 3.22). Grounded on
// BackprojectEquilinear::BackprojectView.
func (b *Backprojector) backprojectEquilinear(filtered []float64, beta float64) {
	nx, ny := b.Image.NX(), b.Image.NY()
	scale := b.SourceDetectorLen / b.FocalLength
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			idx := ix*ny + iy
			diff := beta - b.phi[idx]
			rcos := b.r[idx] * math.Cos(diff)
			rsin := b.r[idx] * math.Sin(diff)
			u := (b.FocalLength + rsin) / b.FocalLength
			detPos := (rcos / u) * scale
			pos := float64(b.IDetCenter) + detPos/b.DetInc

			v := interp.At(b.Interp, filtered, pos)
			b.Image.Set(ix, iy, b.Image.At(ix, iy)+v/(u*u))
		}
	}
}
