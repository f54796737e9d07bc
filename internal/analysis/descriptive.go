package analysis

import (
	"math"

	"github.com/montanaflynn/stats"

	"statlab/domain/analysis"
	"statlab/domain/core"
	"statlab/domain/sample"
)

// percentile computes the p-th percentile of sorted data by linear
// interpolation between order statistics. Every quartile consumer in
// the engine goes through this helper so the IQR fences and the
// descriptive quartiles always agree.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := p / 100 * float64(n-1)
	lo := int(math.Floor(pos))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Describe computes the full descriptive snapshot for a sample at the
// given significance level. It fails with ErrDegenerateSample when the
// sample standard deviation is zero, since every standardized statistic
// downstream would silently degenerate to NaN otherwise.
func (e *Engine) Describe(s *sample.Sample) (*analysis.Descriptives, error) {
	values := s.Values()
	sorted := s.Sorted()
	n := len(values)
	fn := float64(n)

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= fn

	// Central moments in one pass
	var m2, m3, m4 float64
	for _, v := range values {
		d := v - mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	m2 /= fn
	m3 /= fn
	m4 /= fn

	variancePop := m2
	variance := m2 * fn / (fn - 1)
	std := math.Sqrt(variance)
	stdPop := math.Sqrt(variancePop)

	if std == 0 {
		return nil, core.ErrDegenerateSample
	}

	d := &analysis.Descriptives{
		N:           n,
		Mean:        mean,
		Std:         std,
		StdPop:      stdPop,
		Variance:    variance,
		VariancePop: variancePop,
		Min:         sorted[0],
		Max:         sorted[n-1],
		Range:       sorted[n-1] - sorted[0],
		Q1:          percentile(sorted, 25),
		Q3:          percentile(sorted, 75),
		Skewness:    m3 / math.Pow(m2, 1.5),
		Kurtosis:    m4/(m2*m2) - 3,
		StdError:    std / math.Sqrt(fn),
	}

	median, err := stats.Median(sorted)
	if err != nil {
		return nil, core.NewInvalidInputError(err.Error())
	}
	d.Median = median

	// Harmonic and geometric means exist only on strictly positive data;
	// on anything else the fields stay absent rather than zero.
	if sorted[0] > 0 {
		if hm, err := stats.HarmonicMean(values); err == nil {
			d.HarmonicMean = &hm
		}
		if gm, err := stats.GeometricMean(values); err == nil {
			d.GeometricMean = &gm
		}
	}

	if mean != 0 {
		d.CV = std / mean * 100
	}

	// Student-t interval for the mean
	tCrit := e.dist.StudentTQuantile(1-e.opts.Alpha/2, n-1)
	margin := tCrit * d.StdError
	d.CIMean = analysis.ConfidenceInterval{Lower: mean - margin, Upper: mean + margin}

	// Chi-square interval for the standard deviation. The interval is
	// asymmetric: the lower bound divides by the upper quantile.
	chiUpper := e.dist.ChiSquareQuantile(1-e.opts.Alpha/2, n-1)
	chiLower := e.dist.ChiSquareQuantile(e.opts.Alpha/2, n-1)
	d.CIStd = analysis.ConfidenceInterval{
		Lower: math.Sqrt((fn - 1) * variance / chiUpper),
		Upper: math.Sqrt((fn - 1) * variance / chiLower),
	}

	return d, nil
}
