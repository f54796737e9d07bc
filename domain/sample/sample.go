package sample

import (
	"math"
	"sort"

	"statlab/domain/core"
)

// MinSize is the smallest sample the engine will analyze. Classical
// criteria below this size have no meaningful critical values.
const MinSize = 5

// Sample is an immutable, validated series of finite measurements.
// Construction is the only mutation point; all accessors return copies.
type Sample struct {
	label  string
	values []float64
	sorted []float64
}

// New validates and wraps a measurement series. It fails with an
// ErrInvalidInput-wrapped error when the series is shorter than MinSize
// or contains NaN/Inf values.
func New(label string, values []float64) (*Sample, error) {
	if len(values) < MinSize {
		return nil, core.ErrSampleTooSmall
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, core.NewNonFiniteError(i, v)
		}
	}

	owned := make([]float64, len(values))
	copy(owned, values)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return &Sample{label: label, values: owned, sorted: sorted}, nil
}

// Label returns the display name of the sample.
func (s *Sample) Label() string { return s.label }

// Len returns the number of observations.
func (s *Sample) Len() int { return len(s.values) }

// Values returns the observations in input order.
func (s *Sample) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Sorted returns the observations in ascending order.
func (s *Sample) Sorted() []float64 {
	out := make([]float64, len(s.sorted))
	copy(out, s.sorted)
	return out
}

// At returns the observation at index i in input order.
func (s *Sample) At(i int) float64 { return s.values[i] }

// Combine concatenates several samples into one, in argument order.
func Combine(label string, samples ...*Sample) (*Sample, error) {
	var merged []float64
	for _, s := range samples {
		merged = append(merged, s.values...)
	}
	return New(label, merged)
}
