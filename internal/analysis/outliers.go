package analysis

import (
	"math"

	"statlab/domain/analysis"
	"statlab/domain/sample"
)

// sharlieThreshold is the |z| cutoff of the Sharlie (Charlier) count
// criterion.
const sharlieThreshold = 3.0

// chauvenetCutoff is the expected-count bound below which Chauvenet
// rejects a point.
const chauvenetCutoff = 0.5

// DetectOutliers runs the selected outlier criteria (all of them when
// the engine options leave the selection empty). The zscores slice is
// the shared standardized score vector in input order; every method
// that needs standardization reuses it. Methods are independent and
// each always yields a result.
func (e *Engine) DetectOutliers(s *sample.Sample, desc *analysis.Descriptives, zscores []float64) map[analysis.OutlierMethod]analysis.OutlierResult {
	methods := e.opts.Methods
	if len(methods) == 0 {
		methods = analysis.AllOutlierMethods
	}

	results := make(map[analysis.OutlierMethod]analysis.OutlierResult, len(methods))
	for _, m := range methods {
		switch m {
		case analysis.MethodIQR:
			results[m] = e.iqrFences(s, desc)
		case analysis.MethodWright:
			results[m] = e.threeSigma(s, desc)
		case analysis.MethodGrubbs:
			results[m] = e.grubbs(s, zscores)
		case analysis.MethodSharlie:
			results[m] = e.sharlie(s, zscores)
		case analysis.MethodIrwin:
			results[m] = e.irwin(s, desc)
		case analysis.MethodChauvenet:
			results[m] = e.chauvenet(s, zscores)
		}
	}
	return results
}

// flagOutside collects indices and values falling outside [lower, upper].
func flagOutside(values []float64, lower, upper float64) (indices []int, flagged []float64) {
	indices = []int{}
	flagged = []float64{}
	for i, v := range values {
		if v < lower || v > upper {
			indices = append(indices, i)
			flagged = append(flagged, v)
		}
	}
	return indices, flagged
}

// iqrFences flags values beyond the quartile fences
// Q1 - k*IQR and Q3 + k*IQR.
func (e *Engine) iqrFences(s *sample.Sample, desc *analysis.Descriptives) analysis.OutlierResult {
	iqr := desc.Q3 - desc.Q1
	lower := desc.Q1 - e.opts.IQRMultiplier*iqr
	upper := desc.Q3 + e.opts.IQRMultiplier*iqr

	indices, flagged := flagOutside(s.Values(), lower, upper)
	return analysis.OutlierResult{
		Method:      analysis.MethodIQR,
		DisplayName: "IQR fences",
		Indices:     indices,
		Values:      flagged,
		Count:       len(indices),
		HasOutliers: len(indices) > 0,
		LowerBound:  &lower,
		UpperBound:  &upper,
	}
}

// threeSigma applies Wright's rule: anything outside mean +/- 3s.
func (e *Engine) threeSigma(s *sample.Sample, desc *analysis.Descriptives) analysis.OutlierResult {
	lower := desc.Mean - 3*desc.Std
	upper := desc.Mean + 3*desc.Std

	indices, flagged := flagOutside(s.Values(), lower, upper)
	return analysis.OutlierResult{
		Method:      analysis.MethodWright,
		DisplayName: "3-sigma (Wright)",
		Indices:     indices,
		Values:      flagged,
		Count:       len(indices),
		HasOutliers: len(indices) > 0,
		LowerBound:  &lower,
		UpperBound:  &upper,
	}
}

// grubbs tests only the single most extreme point. The critical value
// derives from the Student-t quantile at alpha/(2n) with n-2 degrees
// of freedom, so at most one point is ever flagged per invocation.
func (e *Engine) grubbs(s *sample.Sample, zscores []float64) analysis.OutlierResult {
	n := s.Len()
	fn := float64(n)

	maxIdx := 0
	maxZ := 0.0
	for i, z := range zscores {
		if az := math.Abs(z); az > maxZ {
			maxZ = az
			maxIdx = i
		}
	}

	t := e.dist.StudentTQuantile(1-e.opts.Alpha/(2*fn), n-2)
	crit := (fn - 1) * t / math.Sqrt(fn*(fn-2+t*t))

	res := analysis.OutlierResult{
		Method:        analysis.MethodGrubbs,
		DisplayName:   "Grubbs",
		Indices:       []int{},
		Values:        []float64{},
		Statistic:     &maxZ,
		CriticalValue: &crit,
	}
	if maxZ > crit {
		res.Indices = []int{maxIdx}
		res.Values = []float64{s.At(maxIdx)}
		res.Count = 1
		res.HasOutliers = true
	}
	return res
}

// sharlie counts points with |z| above 3. Coarser than Wright's rule:
// the verdict is driven by the count, though the points are reported.
func (e *Engine) sharlie(s *sample.Sample, zscores []float64) analysis.OutlierResult {
	indices := []int{}
	flagged := []float64{}
	for i, z := range zscores {
		if math.Abs(z) > sharlieThreshold {
			indices = append(indices, i)
			flagged = append(flagged, s.At(i))
		}
	}

	thr := sharlieThreshold
	return analysis.OutlierResult{
		Method:        analysis.MethodSharlie,
		DisplayName:   "Sharlie",
		Indices:       indices,
		Values:        flagged,
		Count:         len(indices),
		HasOutliers:   len(indices) > 0,
		CriticalValue: &thr,
	}
}

// irwin computes the maximum consecutive gap between sorted values
// scaled by the standard deviation. The tabulated critical value is an
// approximation near n=50 and comes from the engine options.
func (e *Engine) irwin(s *sample.Sample, desc *analysis.Descriptives) analysis.OutlierResult {
	sorted := s.Sorted()

	maxLambda := 0.0
	maxPos := 0
	for i := 0; i < len(sorted)-1; i++ {
		lambda := (sorted[i+1] - sorted[i]) / desc.Std
		if lambda > maxLambda {
			maxLambda = lambda
			maxPos = i + 1
		}
	}

	crit := e.opts.IrwinCritical
	res := analysis.OutlierResult{
		Method:        analysis.MethodIrwin,
		DisplayName:   "Irwin",
		Indices:       []int{},
		Values:        []float64{},
		Statistic:     &maxLambda,
		CriticalValue: &crit,
	}
	if maxLambda > crit {
		// Report the upper point of the widest gap, located back in
		// input order.
		suspect := sorted[maxPos]
		for i, v := range s.Values() {
			if v == suspect {
				res.Indices = []int{i}
				res.Values = []float64{v}
				break
			}
		}
		res.Count = len(res.Indices)
		res.HasOutliers = true
	}
	return res
}

// chauvenet flags points whose two-tailed normal tail probability,
// scaled by the sample size, expects fewer than half an observation.
func (e *Engine) chauvenet(s *sample.Sample, zscores []float64) analysis.OutlierResult {
	n := float64(s.Len())

	indices := []int{}
	flagged := []float64{}
	for i, z := range zscores {
		p := 2 * (1 - e.dist.NormalCDF(math.Abs(z)))
		if n*p < chauvenetCutoff {
			indices = append(indices, i)
			flagged = append(flagged, s.At(i))
		}
	}

	cut := chauvenetCutoff
	return analysis.OutlierResult{
		Method:        analysis.MethodChauvenet,
		DisplayName:   "Chauvenet",
		Indices:       indices,
		Values:        flagged,
		Count:         len(indices),
		HasOutliers:   len(indices) > 0,
		CriticalValue: &cut,
	}
}
