package filter

import (
	"math"
	"math/cmplx"
	"strings"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/kevinrosenberg/ctsim/internal/ctsimerr"
	"github.com/kevinrosenberg/ctsim/projection"
)

// Method selects how the filter is applied during signal processing,
// mirroring the original library's FILTER_METHOD_* constants (the FFTW
// variants are collapsed into the single gonum-backed Fourier method;
// see DESIGN.md's Open Question resolutions).
type Method int

const (
	Convolution Method = iota + 1
	Fourier
	FourierTable
)

func (m Method) String() string {
	switch m {
	case Convolution:
		return "convolution"
	case Fourier:
		return "fourier"
	case FourierTable:
		return "fourier-table"
	default:
		return "unknown"
	}
}

// Generation selects whether a filter's samples are computed directly
// in its target domain, or computed in the other domain and carried
// across by a finite Fourier transform (FILTER_GENERATION_DIRECT /
// FILTER_GENERATION_INVERSE_FOURIER in the original).
type Generation int

const (
	Direct Generation = iota + 1
	InverseFourier
)

func (g Generation) String() string {
	switch g {
	case Direct:
		return "direct"
	case InverseFourier:
		return "inverse-fourier"
	default:
		return "unknown"
	}
}

// ParseMethod resolves a filter application method by its canonical
// name (case insensitive).
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "convolution", "convolve":
		return Convolution, nil
	case "fourier":
		return Fourier, nil
	case "fourier-table", "fouriertable":
		return FourierTable, nil
	default:
		return 0, ctsimerr.NewConstructionError("filter.ParseMethod", "unknown filter method %q", s)
	}
}

// ParseGeneration resolves a filter generation strategy by its
// canonical name (case insensitive).
func ParseGeneration(s string) (Generation, error) {
	switch strings.ToLower(s) {
	case "direct":
		return Direct, nil
	case "inverse-fourier", "inversefourier":
		return InverseFourier, nil
	default:
		return 0, ctsimerr.NewConstructionError("filter.ParseGeneration", "unknown filter generation %q", s)
	}
}

// Filter is a constructed reconstruction filter kernel, ready to be
// applied by the signal processor. For Method == Convolution, Data
// holds 2*(nSignalPoints-1)+1 spatial samples in natural order with
// index (nSignalPoints-1) at r=0. For Method == Fourier or
// FourierTable, Data holds NFilterPoints frequency samples in Fourier
// order (DC at index 0), ready for element-wise multiplication against
// a zero-padded, Fourier-order-transformed signal.
type Filter struct {
	Kind       Kind
	Method     Method
	Generation Generation
	Geometry   projection.Geometry

	Bandwidth   float64
	FilterParam float64

	SignalInc float64 // post equilinear-rescaled detector increment

	NFilterPoints int
	NOutputPoints int
	FilterMin     float64
	FilterInc     float64

	Data []float64

	// CosTable/SinTable cache the DFT twiddle factors for Method ==
	// FourierTable, avoiding repeated trig calls in the signal
	// processor's inner loop.
	CosTable, SinTable []float64
}

// New builds a Filter for the given kind, application method and
// generation strategy. signalInc is the detector increment (before any
// equilinear rescale); bandwidth and filterParam parameterize the
// kind's closed form (filterParam is only consulted by Hamming).
// focalLength/sourceDetectorLen are only used (and required nonzero)
// for GeometryEquilinear's pre-scale. zeropad selects how many
// power-of-two doublings beyond the natural size the Fourier methods
// zero-pad to (0 disables zero-padding).
func New(kind Kind, method Method, generation Generation, geometry projection.Geometry,
	nSignalPoints int, signalInc, bandwidth, filterParam float64,
	focalLength, sourceDetectorLen float64, zeropad int) (*Filter, error) {

	if nSignalPoints < 2 {
		return nil, ctsimerr.NewConstructionError("filter.New", "nSignalPoints must be >= 2, got %d", nSignalPoints)
	}
	if signalInc <= 0 || bandwidth <= 0 {
		return nil, ctsimerr.NewConstructionError("filter.New", "signalInc and bandwidth must be positive")
	}
	switch kind {
	case Bandlimit, SheppLogan, Hamming, Hanning, Cosine, Triangle, Parzen, Gaussian, Sinc,
		AbsBandlimit, AbsSinc, AbsCosine, AbsHamming, AbsHanning:
	default:
		return nil, ctsimerr.NewConstructionError("filter.New", "unsupported filter kind %d", kind)
	}

	f := &Filter{Kind: kind, Method: method, Generation: generation, Geometry: geometry,
		Bandwidth: bandwidth, FilterParam: filterParam, SignalInc: signalInc}

	// Kak-Slaney Fig 3.22: an equilinear (flat detector) array is
	// treated as if it were an imaginary detector through the origin,
	// which rescales the effective detector spacing and bandwidth.
	if geometry == projection.GeometryEquilinear {
		if focalLength <= 0 || sourceDetectorLen <= 0 {
			return nil, ctsimerr.NewConstructionError("filter.New",
				"equilinear geometry requires positive focalLength and sourceDetectorLen")
		}
		scale := sourceDetectorLen / focalLength
		f.SignalInc /= scale
		f.Bandwidth *= scale
	}

	switch method {
	case Convolution:
		if err := f.buildConvolution(nSignalPoints, zeropad); err != nil {
			return nil, err
		}
	case Fourier, FourierTable:
		if err := f.buildFrequency(nSignalPoints, zeropad); err != nil {
			return nil, err
		}
	default:
		return nil, ctsimerr.NewConstructionError("filter.New", "unsupported method %s", method)
	}

	if method == FourierTable {
		f.buildTrigTables()
	}
	return f, nil
}

func (f *Filter) buildConvolution(nSignalPoints, zeropad int) error {
	_ = zeropad // zero-padding only applies to the Fourier-domain methods
	n := 2*(nSignalPoints-1) + 1
	f.NFilterPoints = n

	switch f.Generation {
	case Direct:
		f.FilterMin = -f.SignalInc * float64(nSignalPoints-1)
		f.FilterInc = (f.SignalInc * float64(nSignalPoints-1) - f.FilterMin) / float64(n-1)
		f.Data = make([]float64, n)
		for i := 0; i < n; i++ {
			r := f.FilterMin + float64(i)*f.FilterInc
			v, ok := spatial(f.Kind, r, f.Bandwidth, f.FilterParam)
			if !ok {
				v = f.inverseSpatialFromFrequency(r)
			}
			f.Data[i] = v
		}

	case InverseFourier:
		f.FilterMin = -1 / (2 * f.SignalInc)
		filterMax := 1 / (2 * f.SignalInc)
		f.FilterInc = (filterMax - f.FilterMin) / float64(n-1)
		freq := make([]float64, n)
		for i := 0; i < n; i++ {
			x := f.FilterMin + float64(i)*f.FilterInc
			v, ok := frequency(f.Kind, x, f.Bandwidth, f.FilterParam)
			if !ok {
				v, _ = spatial(f.Kind, x, f.Bandwidth, f.FilterParam) // no closed frequency form; fall back is a no-op for spatial-only kinds
			}
			freq[i] = v
		}
		shuffleNaturalToFourier(freq)
		spatialSamples := realPart(inverseTransformUnnormalized(toComplex(freq)))
		shuffleFourierToNatural(spatialSamples)
		for i := range spatialSamples {
			spatialSamples[i] /= f.SignalInc
		}
		f.Data = spatialSamples

	default:
		return ctsimerr.NewConstructionError("filter.New", "unsupported generation %s", f.Generation.String())
	}

	f.applyGeometryScale(f.Data, f.NFilterPoints)
	return nil
}

func (f *Filter) buildFrequency(nSignalPoints, zeropad int) error {
	switch f.Generation {
	case Direct:
		n := zeropadToPowerOfTwo(nSignalPoints, zeropad)
		f.NFilterPoints = n
		f.NOutputPoints = n // pre-interpolation handled by the signal processor, not here

		f.FilterMin = -1 / (2 * f.SignalInc)
		filterMax := 1 / (2 * f.SignalInc)
		if n%2 == 1 {
			f.FilterInc = (filterMax - f.FilterMin) / float64(n-1)
		} else {
			f.FilterInc = (filterMax - f.FilterMin) / float64(n)
			filterMax -= f.FilterInc
		}
		_ = filterMax // retained only to mirror the original's symmetric-range derivation

		data := make([]float64, n)
		for i := 0; i < n; i++ {
			x := f.FilterMin + float64(i)*f.FilterInc
			v, ok := frequency(f.Kind, x, f.Bandwidth, f.FilterParam)
			if !ok {
				v, _ = spatial(f.Kind, x, f.Bandwidth, f.FilterParam)
			}
			data[i] = v
		}
		f.applyGeometryScale(data, n)
		shuffleNaturalToFourier(data)
		f.Data = data

	case InverseFourier:
		nSpatial := 2*(nSignalPoints-1) + 1
		f.FilterMin = -f.SignalInc * float64(nSignalPoints-1)
		filterMax := f.SignalInc * float64(nSignalPoints-1)
		f.FilterInc = (filterMax - f.FilterMin) / float64(nSpatial-1)

		n := nSpatial
		if zeropad > 0 {
			n = zeropadToPowerOfTwo(nSpatial, zeropad)
		}
		f.NFilterPoints = n
		f.NOutputPoints = n

		spatialSamples := make([]float64, n)
		for i := 0; i < nSpatial; i++ {
			r := f.FilterMin + float64(i)*f.FilterInc
			v, ok := spatial(f.Kind, r, f.Bandwidth, f.FilterParam)
			if !ok {
				v = f.inverseSpatialFromFrequency(r)
			}
			spatialSamples[i] = v
		}
		f.applyGeometryScale(spatialSamples[:nSpatial], nSpatial)
		// remaining n-nSpatial entries already zero from make()

		transformed := backwardTransformNormalized(toComplex(spatialSamples))
		data := make([]float64, n)
		for i, c := range transformed {
			data[i] = cmplx.Abs(c) * f.SignalInc
		}
		f.Data = data

	default:
		return ctsimerr.NewConstructionError("filter.New", "unsupported generation %s", f.Generation.String())
	}
	return nil
}

func (f *Filter) buildTrigTables() {
	n := f.NFilterPoints
	out := f.NOutputPoints
	if out < n {
		out = n
	}
	nFourier := out*out + 1
	f.CosTable = make([]float64, nFourier)
	f.SinTable = make([]float64, nFourier)
	angleInc := 2 * math.Pi / float64(n)
	angle := 0.0
	for i := 0; i < nFourier; i++ {
		f.CosTable[i] = math.Cos(angle)
		f.SinTable[i] = math.Sin(angle)
		angle += angleInc
	}
}

// applyGeometryScale applies the fan-beam detector-weighting
// correction: a flat uniform 0.5 for equilinear, a per-sample
// 0.5*(1/sinc(r*signalInc))^2 for equiangular. Parallel geometry is
// left unscaled.
func (f *Filter) applyGeometryScale(data []float64, n int) {
	switch f.Geometry {
	case projection.GeometryEquilinear:
		for i := range data {
			data[i] *= 0.5
		}
	case projection.GeometryEquiangular:
		half := (n - 1) / 2
		for i := range data {
			detFromZero := float64(i - half)
			s := sinc(detFromZero * f.SignalInc)
			scale := 0.5 / (s * s)
			data[i] *= scale
		}
	}
}

// inverseSpatialFromFrequency samples a spatial value for a filter
// kind defined only in the frequency domain by a single-point inverse
// Fourier integral, used when a kind's spatial closed form isn't
// tabulated but Direct spatial generation was requested anyway.
func (f *Filter) inverseSpatialFromFrequency(r float64) float64 {
	const steps = 512
	fMax := 1 / (2 * f.SignalInc)
	df := 2 * fMax / steps
	sum := 0.0
	for i := 0; i < steps; i++ {
		fr := -fMax + float64(i)*df
		h, _ := frequency(f.Kind, fr, f.Bandwidth, f.FilterParam)
		sum += h * math.Cos(2*math.Pi*fr*r)
	}
	return sum * df
}

func zeropadToPowerOfTwo(n, zeropad int) int {
	if zeropad <= 0 {
		return n
	}
	logBase2 := math.Log(float64(n)) / math.Log(2)
	return 1 << (int(math.Floor(logBase2)) + zeropad)
}

func toComplex(v []float64) []complex128 {
	out := make([]complex128, len(v))
	for i, x := range v {
		out[i] = complex(x, 0)
	}
	return out
}

func realPart(v []complex128) []float64 {
	out := make([]float64, len(v))
	for i, c := range v {
		out[i] = real(c)
	}
	return out
}

// inverseTransformUnnormalized applies the unnormalized transform with
// positive-exponent convention (the original's "FORWARD" direction,
// confusingly the inverse DFT in the usual signal-processing sense).
func inverseTransformUnnormalized(v []complex128) []complex128 {
	n := len(v)
	plan := fourier.NewCmplxFFT(n)
	return plan.Sequence(nil, v)
}

// backwardTransformNormalized applies the normalized transform with
// negative-exponent convention (the original's "BACKWARD" direction),
// dividing by n.
func backwardTransformNormalized(v []complex128) []complex128 {
	n := len(v)
	plan := fourier.NewCmplxFFT(n)
	out := plan.Coefficients(nil, v)
	scale := complex(1/float64(n), 0)
	for i := range out {
		out[i] *= scale
	}
	return out
}

// shuffleNaturalToFourier and shuffleFourierToNatural swap the two
// halves of a natural-ordered (ascending, DC in the middle) array into
// Fourier order (DC first) and back, matching
// Fourier::shuffleNaturalToFourierOrder/shuffleFourierToNaturalOrder.
func centerIndex(n int) int {
	if n%2 == 0 {
		return n / 2
	}
	return (n - 1) / 2
}

func shuffleNaturalToFourier(v []float64) {
	n := len(v)
	c := centerIndex(n)
	out := make([]float64, n)
	copy(out, v[c:])
	copy(out[n-c:], v[:c])
	copy(v, out)
}

func shuffleFourierToNatural(v []float64) {
	n := len(v)
	c := centerIndex(n)
	rest := n - c
	out := make([]float64, n)
	copy(out, v[rest:])
	copy(out[c:], v[:rest])
	copy(v, out)
}

// DCTerm returns the frequency kernel's DC term: for Method == Fourier
// or FourierTable, Data[0] directly (Fourier order places DC first);
// for Method == Convolution, the Riemann sum of the spatial samples
// times the filter increment. The two should agree to within the
// round-trip invariant's 1e-6 tolerance.
func (f *Filter) DCTerm() float64 {
	if f.Method == Convolution {
		sum := 0.0
		for _, v := range f.Data {
			sum += v
		}
		return sum * f.FilterInc
	}
	return f.Data[0]
}
