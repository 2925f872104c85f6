package signal

import "gonum.org/v1/gonum/dsp/fourier"

// filterFrequency performs frequency-domain filtering: zero-pad to the
// filter's point count, transform, multiply pointwise by the
// Fourier-order filter kernel, transform back, and take the first
// NDet*PreInterpFactor samples.
//
// Grounded on ProcessSignal::filterSignal's FILTER_METHOD_FOURIER/
// FILTER_METHOD_FOURIER_TABLE branches, which are identical but for
// FOURIER_TABLE's cached trig tables (folded here into the single
// gonum-backed transform; see DESIGN.md's Open Question resolutions).
func (p *Processor) filterFrequency(weighted []float64) []float64 {
	n := p.Filter.NFilterPoints
	padded := make([]complex128, n)
	for i, v := range weighted {
		padded[i] = complex(v, 0)
	}

	spectrum := forwardUnnormalized(padded)
	for i := range spectrum {
		spectrum[i] *= complex(p.Filter.Data[i], 0)
	}
	factor := p.PreInterpFactor
	if factor > 1 {
		// Insert zeros between the positive and negative frequencies
		// (Fourier order), so the inverse transform samples the same
		// signal on a grid factor times denser.
		up := make([]complex128, n*factor)
		half := n / 2
		copy(up[:half], spectrum[:half])
		copy(up[len(up)-(n-half):], spectrum[half:])
		for i := range up {
			up[i] *= complex(float64(factor), 0)
		}
		spectrum = up
	}
	restored := backwardNormalized(spectrum)

	outLen := p.NDet * factor
	if outLen > len(restored) {
		outLen = len(restored)
	}
	out := make([]float64, outLen)
	for i := range out {
		out[i] = real(restored[i])
	}
	return out
}

// forwardUnnormalized and backwardNormalized mirror the original's
// FORWARD/BACKWARD finiteFourierTransform direction constants: FORWARD
// is an unnormalized positive-exponent transform (gonum's inverse
// Sequence), BACKWARD is a negative-exponent transform normalized by
// 1/n (gonum's forward Coefficients, scaled).
func forwardUnnormalized(v []complex128) []complex128 {
	plan := fourier.NewCmplxFFT(len(v))
	return plan.Sequence(nil, v)
}

func backwardNormalized(v []complex128) []complex128 {
	n := len(v)
	plan := fourier.NewCmplxFFT(n)
	out := plan.Coefficients(nil, v)
	scale := complex(1/float64(n), 0)
	for i := range out {
		out[i] *= scale
	}
	return out
}
