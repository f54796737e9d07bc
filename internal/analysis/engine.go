package analysis

import (
	"statlab/domain/analysis"
	"statlab/domain/core"
	"statlab/domain/sample"
)

// Options configures one analysis engine. The zero value is not
// usable; start from DefaultOptions.
type Options struct {
	// Alpha is the two-sided significance level shared by every
	// criterion. Default 0.05.
	Alpha float64

	// Methods selects which outlier criteria to run. Empty means all.
	Methods []analysis.OutlierMethod

	// IQRMultiplier scales the quartile fences. Default 1.5.
	IQRMultiplier float64

	// IrwinCritical is the tabulated Irwin threshold. The stock value
	// 1.7 is an approximation calibrated near n=50, hence configurable.
	IrwinCritical float64
}

// DefaultOptions returns the standard configuration: every method at
// the 0.05 level.
func DefaultOptions() Options {
	return Options{
		Alpha:         0.05,
		IQRMultiplier: 1.5,
		IrwinCritical: 1.7,
	}
}

// Engine runs the full battery against samples. It holds no per-sample
// state, so one engine may analyze independent samples concurrently.
type Engine struct {
	opts Options
	dist *Distributions
}

// NewEngine creates an engine with the given options, normalizing
// unset numeric fields to their defaults.
func NewEngine(opts Options) *Engine {
	def := DefaultOptions()
	if opts.Alpha <= 0 || opts.Alpha >= 1 {
		opts.Alpha = def.Alpha
	}
	if opts.IQRMultiplier <= 0 {
		opts.IQRMultiplier = def.IQRMultiplier
	}
	if opts.IrwinCritical <= 0 {
		opts.IrwinCritical = def.IrwinCritical
	}
	return &Engine{opts: opts, dist: NewDistributions()}
}

// Alpha reports the engine's significance level.
func (e *Engine) Alpha() float64 { return e.opts.Alpha }

// Analyze computes the complete report for one sample: descriptives,
// the normality battery, and the outlier battery. Input validation
// errors and a zero standard deviation are fatal; individual criterion
// failures are recorded as absent entries instead.
func (e *Engine) Analyze(s *sample.Sample) (*analysis.Report, error) {
	desc, err := e.Describe(s)
	if err != nil {
		return nil, err
	}

	// The standardized score vector is shared by every downstream
	// criterion; compute it once.
	values := s.Values()
	zscores := make([]float64, len(values))
	for i, v := range values {
		zscores[i] = (v - desc.Mean) / desc.Std
	}

	return &analysis.Report{
		ID:           core.NewID(),
		Label:        s.Label(),
		CreatedAt:    core.Now(),
		Alpha:        e.opts.Alpha,
		Values:       values,
		Descriptives: desc,
		Normality:    e.TestNormality(s, desc),
		Outliers:     e.DetectOutliers(s, desc, zscores),
	}, nil
}
