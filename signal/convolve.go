package signal

// convolve performs the O(nDet^2) spatial-domain filtering pass:
// output[n] = sum_i weighted[i] * kernel[n-i+(nDet-1)] * detInc.
// Grounded on ProcessSignal::convolve, which walks the kernel with a
// descending pointer paired against the ascending signal pointer.
func (p *Processor) convolve(weighted []float64) []float64 {
	n := len(weighted)
	kernel := p.Filter.Data
	out := make([]float64, n)

	for idx := 0; idx < n; idx++ {
		sum := 0.0
		base := idx + (n - 1)
		for i := 0; i < n; i++ {
			sum += weighted[i] * kernel[base-i]
		}
		out[idx] = sum * p.DetInc
	}
	return out
}
