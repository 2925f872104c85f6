// Package signal implements the filtered-backprojection signal chain:
// divergent-beam pre-weighting followed by convolution or
// frequency-domain filtering of one projection view at a time.
//
// Grounded on original_source/libctsim/procsignal.cpp's
// ProcessSignal::filterSignal and its two ProcessSignal::convolve
// overloads.
package signal

import (
	"math"

	"github.com/kevinrosenberg/ctsim/filter"
	"github.com/kevinrosenberg/ctsim/internal/ctsimerr"
	"github.com/kevinrosenberg/ctsim/projection"
)

// Processor applies pre-weighting and filtering to single projection
// views. A Processor is stateless across views (NDet detector samples
// in, NDet*PreInterpFactor filtered samples out) and safe to share
// across concurrently-processed views.
type Processor struct {
	Filter      *filter.Filter
	Geometry    projection.Geometry
	FocalLength float64
	DetInc      float64 // detector increment, NOT the filter's equilinear-rescaled signal increment
	NDet        int

	// PreInterpFactor upsamples the frequency-domain filtered output by
	// taking more samples from the zero-padded spectrum; ignored by
	// spatial convolution, which always produces exactly NDet samples.
	PreInterpFactor int
}

// New validates and builds a Processor around an already-constructed
// filter.Filter.
func New(f *filter.Filter, geometry projection.Geometry, focalLength, detInc float64, nDet, preInterpFactor int) (*Processor, error) {
	if f == nil {
		return nil, ctsimerr.NewConstructionError("signal.New", "filter must not be nil")
	}
	if nDet < 2 {
		return nil, ctsimerr.NewConstructionError("signal.New", "nDet must be >= 2, got %d", nDet)
	}
	if preInterpFactor < 1 {
		return nil, ctsimerr.NewConstructionError("signal.New", "preInterpFactor must be >= 1, got %d", preInterpFactor)
	}
	switch geometry {
	case projection.GeometryParallel, projection.GeometryEquiangular, projection.GeometryEquilinear:
	default:
		return nil, ctsimerr.NewConstructionError("signal.New", "unsupported geometry %s", geometry)
	}
	if (geometry == projection.GeometryEquiangular || geometry == projection.GeometryEquilinear) && focalLength <= 0 {
		return nil, ctsimerr.NewConstructionError("signal.New", "fan-beam geometry requires a positive focalLength")
	}
	if f.Method == filter.Convolution && f.NFilterPoints != 2*(nDet-1)+1 {
		return nil, ctsimerr.NewConstructionError("signal.New",
			"convolution filter has %d points, expected %d for nDet=%d", f.NFilterPoints, 2*(nDet-1)+1, nDet)
	}
	return &Processor{Filter: f, Geometry: geometry, FocalLength: focalLength, DetInc: detInc,
		NDet: nDet, PreInterpFactor: preInterpFactor}, nil
}

// preWeight applies the divergent-beam detector weighting described in
// the specification; parallel geometry passes samples through
// unweighted.
func (p *Processor) preWeight(input []float32) []float64 {
	out := make([]float64, len(input))
	center := float64(p.NDet / 2)

	switch p.Geometry {
	case projection.GeometryEquilinear:
		for i, v := range input {
			d := float64(i) - center
			out[i] = float64(v) * p.FocalLength / math.Sqrt(p.FocalLength*p.FocalLength+d*d*p.DetInc*p.DetInc)
		}
	case projection.GeometryEquiangular:
		for i, v := range input {
			d := float64(i) - center
			out[i] = float64(v) * p.FocalLength * math.Cos(d*p.DetInc)
		}
	default:
		for i, v := range input {
			out[i] = float64(v)
		}
	}
	return out
}

// FilterView pre-weights and filters one projection view's detector
// samples, returning the filtered samples ready for backprojection.
// The output has NDet samples for convolution filtering, or
// NDet*PreInterpFactor samples for the frequency-domain methods.
func (p *Processor) FilterView(input []float32) ([]float64, error) {
	if len(input) != p.NDet {
		return nil, ctsimerr.NewConstructionError("signal.FilterView", "input has %d samples, expected %d", len(input), p.NDet)
	}
	weighted := p.preWeight(input)

	switch p.Filter.Method {
	case filter.Convolution:
		return p.convolve(weighted), nil
	case filter.Fourier, filter.FourierTable:
		return p.filterFrequency(weighted), nil
	default:
		return nil, ctsimerr.NewConstructionError("signal.FilterView", "unsupported filter method %s", p.Filter.Method)
	}
}
