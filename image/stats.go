package image

import (
	"math"
	"sort"
)

// Stats holds single-image descriptive statistics, matching the
// original library's vectorNumericStatistics (min/max/mean plus a
// histogram-based mode estimate, sorted median, and sample stddev).
type Stats struct {
	Min, Max, Mean, Mode, Median, StdDev float64
}

const statsHistogramBins = 1024

// Statistics computes descriptive statistics over the image's real
// samples (the real plane, even if the image is complex).
func (im *Image) Statistics() Stats {
	return vectorStatistics(im.real)
}

func vectorStatistics(v []float64) Stats {
	n := len(v)
	if n == 0 {
		return Stats{}
	}

	minV, maxV := v[0], v[0]
	var sum float64
	for _, x := range v {
		if x < minV {
			minV = x
		}
		if x > maxV {
			maxV = x
		}
		sum += x
	}
	mean := sum / float64(n)

	var sqSum float64
	for _, x := range v {
		d := x - mean
		sqSum += d * d
	}
	stddev := 0.0
	if n > 1 {
		stddev = math.Sqrt(sqSum / float64(n-1))
	}

	sorted := append([]float64(nil), v...)
	sort.Float64s(sorted)
	var median float64
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	mode := histogramMode(v, minV, maxV)

	return Stats{Min: minV, Max: maxV, Mean: mean, Mode: mode, Median: median, StdDev: stddev}
}

// histogramMode estimates the mode by binning into statsHistogramBins
// uniform buckets between min and max and returning the bucket centre
// with the most samples.
func histogramMode(v []float64, minV, maxV float64) float64 {
	span := maxV - minV
	if span <= 0 {
		return minV
	}
	var bins [statsHistogramBins]int
	scale := float64(statsHistogramBins-1) / span
	for _, x := range v {
		b := int((x - minV) * scale)
		if b < 0 {
			b = 0
		}
		if b >= statsHistogramBins {
			b = statsHistogramBins - 1
		}
		bins[b]++
	}
	best := 0
	for i, c := range bins {
		if c > bins[best] {
			best = i
		}
	}
	return minV + (float64(best)+0.5)/scale
}

// ComparativeStats holds the three metrics used to compare a
// reconstruction against a reference image: d (normalised RMS
// distance), r (normalised mean absolute distance), and e (worst-case
// 2x2-block error).
type ComparativeStats struct {
	D, R, E float64
}

// Compare computes comparative statistics between im (treated as the
// reconstruction under test) and ref (the reference), per §4.2/§8:
//
//	d = sqrt(sum((a-b)^2) / sum((a-mean(a))^2))
//	r = sum(|a-b|) / sum(|a|)
//	e = max over 2x2 blocks of |mean(a_block) - mean(b_block)|
func Compare(im, ref *Image) (ComparativeStats, error) {
	if err := dimsMatch(im, ref); err != nil {
		return ComparativeStats{}, err
	}

	a := im.real
	b := ref.real
	n := len(a)

	var sum float64
	for _, x := range a {
		sum += x
	}
	mean := sum / float64(n)

	var sqErrorSum, sqDiffFromMeanSum, absErrorSum, absValueSum float64
	for idx := range a {
		diff := a[idx] - b[idx]
		sqErrorSum += diff * diff
		dm := a[idx] - mean
		sqDiffFromMeanSum += dm * dm
		absErrorSum += math.Abs(diff)
		absValueSum += math.Abs(a[idx])
	}

	var d float64
	if sqDiffFromMeanSum > 0 {
		d = math.Sqrt(sqErrorSum / sqDiffFromMeanSum)
	}
	var r float64
	if absValueSum > 0 {
		r = absErrorSum / absValueSum
	}

	e := worstBlockError(im, ref)

	return ComparativeStats{D: d, R: r, E: e}, nil
}

func worstBlockError(a, b *Image) float64 {
	nx, ny := a.nx, a.ny
	var worst float64
	for i := 0; i < nx-1; i += 2 {
		for j := 0; j < ny-1; j += 2 {
			amean := (a.At(i, j) + a.At(i+1, j) + a.At(i, j+1) + a.At(i+1, j+1)) / 4
			bmean := (b.At(i, j) + b.At(i+1, j) + b.At(i, j+1) + b.At(i+1, j+1)) / 4
			if diff := math.Abs(amean - bmean); diff > worst {
				worst = diff
			}
		}
	}
	return worst
}
