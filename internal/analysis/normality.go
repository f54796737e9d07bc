package analysis

import (
	"math"

	"statlab/domain/analysis"
	"statlab/domain/sample"
)

// romanovskyMaxN bounds the simplified Romanovsky criterion to the
// sample sizes it was tabulated for.
const romanovskyMaxN = 50

// smirnovCritical is the size-dependent critical table for the manual
// Smirnov deviation test at the 0.05 level. The fixed entries are
// tabulated approximations; beyond n=40 the asymptotic 1.36/sqrt(n)
// applies.
func smirnovCritical(n int) float64 {
	switch {
	case n <= 20:
		return 0.294
	case n <= 30:
		return 0.242
	case n <= 40:
		return 0.210
	default:
		return 1.36 / math.Sqrt(float64(n))
	}
}

// TestNormality runs every applicable normality criterion. Criteria
// are independent: a numerical failure in one leaves the rest intact,
// and the failed criterion is simply absent from the result map.
func (e *Engine) TestNormality(s *sample.Sample, desc *analysis.Descriptives) map[analysis.NormalityCriterion]analysis.NormalityResult {
	results := make(map[analysis.NormalityCriterion]analysis.NormalityResult)

	if res, ok := e.shapiroFrancia(s); ok {
		results[analysis.CriterionShapiroFrancia] = res
	}
	if res, ok := e.romanovsky(s, desc); ok {
		results[analysis.CriterionRomanovsky] = res
	}
	if res, ok := e.chiSquareGOF(s, desc); ok {
		results[analysis.CriterionChiSquare] = res
	}
	if res, ok := e.kolmogorovSmirnov(s, desc); ok {
		results[analysis.CriterionKolmogorov] = res
	}
	if res, ok := e.smirnov(s, desc); ok {
		results[analysis.CriterionSmirnov] = res
	}

	return results
}

// shapiroFrancia computes the Shapiro-Francia W' statistic: the squared
// correlation between the order statistics and Blom-style expected
// normal scores. The p-value uses Royston's (1993) log-normal
// approximation for ln(1-W').
func (e *Engine) shapiroFrancia(s *sample.Sample) (analysis.NormalityResult, bool) {
	sorted := s.Sorted()
	n := len(sorted)
	fn := float64(n)

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = e.dist.NormalQuantile((float64(i+1) - 0.375) / (fn + 0.25))
	}

	var sumX, sumM float64
	for i := 0; i < n; i++ {
		sumX += sorted[i]
		sumM += scores[i]
	}
	meanX := sumX / fn
	meanM := sumM / fn

	var sxm, sxx, smm float64
	for i := 0; i < n; i++ {
		dx := sorted[i] - meanX
		dm := scores[i] - meanM
		sxm += dx * dm
		sxx += dx * dx
		smm += dm * dm
	}
	if sxx == 0 || smm == 0 {
		return analysis.NormalityResult{}, false
	}

	w := (sxm * sxm) / (sxx * smm)
	if w >= 1 {
		// Perfectly linear against the normal scores; the transform
		// below is undefined but the verdict is clear.
		p := 1.0
		return analysis.NormalityResult{
			Criterion:   analysis.CriterionShapiroFrancia,
			DisplayName: "Shapiro-Francia",
			Statistic:   w,
			PValue:      &p,
			Normal:      true,
		}, true
	}

	u := math.Log(fn)
	v := math.Log(u)
	mu := -1.2725 + 1.0521*(v-u)
	sigma := 1.0308 - 0.26758*(v+2/u)
	z := (math.Log(1-w) - mu) / sigma
	p := 1 - e.dist.NormalCDF(z)

	return analysis.NormalityResult{
		Criterion:   analysis.CriterionShapiroFrancia,
		DisplayName: "Shapiro-Francia",
		Statistic:   w,
		PValue:      &p,
		Normal:      p > e.opts.Alpha,
	}, true
}

// romanovsky applies the simplified skewness-based Romanovsky
// criterion. It deliberately reproduces the |skew|/sqrt(6/n) heuristic
// with a fixed critical value of 3 rather than the textbook tabulated
// form.
func (e *Engine) romanovsky(s *sample.Sample, desc *analysis.Descriptives) (analysis.NormalityResult, bool) {
	n := s.Len()
	if n > romanovskyMaxN {
		return analysis.NormalityResult{}, false
	}

	stat := math.Abs(desc.Skewness) / math.Sqrt(6/float64(n))
	crit := 3.0

	return analysis.NormalityResult{
		Criterion:     analysis.CriterionRomanovsky,
		DisplayName:   "Romanovsky",
		Statistic:     stat,
		CriticalValue: &crit,
		Normal:        stat < crit,
	}, true
}

// chiSquareGOF runs the Pearson goodness-of-fit test against the
// fitted normal. Bin count follows Sturges' rule clamped to [5, 20];
// bins with expected frequency below 5 are folded into a neighbor
// until none remain or only two bins are left.
func (e *Engine) chiSquareGOF(s *sample.Sample, desc *analysis.Descriptives) (analysis.NormalityResult, bool) {
	sorted := s.Sorted()
	n := s.Len()

	k := int(math.Ceil(1 + 3.322*math.Log10(float64(n))))
	if k < 5 {
		k = 5
	}
	if k > 20 {
		k = 20
	}

	lo, hi := sorted[0], sorted[n-1]
	if hi == lo {
		return analysis.NormalityResult{}, false
	}
	width := (hi - lo) / float64(k)

	// Equal-width histogram; the last bin is closed on the right so
	// the maximum lands inside it.
	observed := make([]float64, k)
	for _, v := range sorted {
		idx := int((v - lo) / width)
		if idx >= k {
			idx = k - 1
		}
		observed[idx]++
	}

	expected := make([]float64, k)
	for i := 0; i < k; i++ {
		lower := lo + float64(i)*width
		upper := lo + float64(i+1)*width
		p := e.dist.NormalCDF((upper-desc.Mean)/desc.Std) - e.dist.NormalCDF((lower-desc.Mean)/desc.Std)
		expected[i] = float64(n) * p
	}

	observed, expected = mergeSparseBins(observed, expected, 5)

	var chi2 float64
	for i := range expected {
		if expected[i] <= 0 {
			return analysis.NormalityResult{}, false
		}
		d := observed[i] - expected[i]
		chi2 += d * d / expected[i]
	}

	// Two estimated parameters (mean, std) plus one
	df := len(expected) - 3
	res := analysis.NormalityResult{
		Criterion:   analysis.CriterionChiSquare,
		DisplayName: "Pearson chi-square",
		Statistic:   chi2,
		DF:          &df,
	}
	if df <= 0 {
		res.Inconclusive = true
		res.Normal = false
		return res, true
	}

	p := e.dist.ChiSquareRightTail(chi2, df)
	res.PValue = &p
	res.Normal = p > e.opts.Alpha
	return res, true
}

// mergeSparseBins folds the bin with the smallest expected count into
// its neighbor while any expected count is below minExpected and more
// than two bins remain. Edge bins fold inward; interior bins fold into
// the left neighbor. Bounded by the initial bin count.
func mergeSparseBins(observed, expected []float64, minExpected float64) ([]float64, []float64) {
	for len(expected) > 2 {
		minIdx := 0
		for i, ev := range expected {
			if ev < expected[minIdx] {
				minIdx = i
			}
		}
		if expected[minIdx] >= minExpected {
			break
		}

		switch minIdx {
		case 0:
			expected[1] += expected[0]
			observed[1] += observed[0]
			expected = expected[1:]
			observed = observed[1:]
		case len(expected) - 1:
			expected[minIdx-1] += expected[minIdx]
			observed[minIdx-1] += observed[minIdx]
			expected = expected[:minIdx]
			observed = observed[:minIdx]
		default:
			expected[minIdx-1] += expected[minIdx]
			observed[minIdx-1] += observed[minIdx]
			expected = append(expected[:minIdx], expected[minIdx+1:]...)
			observed = append(observed[:minIdx], observed[minIdx+1:]...)
		}
	}
	return observed, expected
}

// kolmogorovSmirnov computes the standard one-sample KS statistic
// against N(mean, std) with the asymptotic p-value.
func (e *Engine) kolmogorovSmirnov(s *sample.Sample, desc *analysis.Descriptives) (analysis.NormalityResult, bool) {
	sorted := s.Sorted()
	n := len(sorted)
	fn := float64(n)

	var dStat float64
	for i, v := range sorted {
		ft := e.dist.NormalCDF((v - desc.Mean) / desc.Std)
		dPlus := float64(i+1)/fn - ft
		dMinus := ft - float64(i)/fn
		if dPlus > dStat {
			dStat = dPlus
		}
		if dMinus > dStat {
			dStat = dMinus
		}
	}

	p := e.dist.KolmogorovPValue(dStat, n)
	return analysis.NormalityResult{
		Criterion:   analysis.CriterionKolmogorov,
		DisplayName: "Kolmogorov-Smirnov",
		Statistic:   dStat,
		PValue:      &p,
		Normal:      p > e.opts.Alpha,
	}, true
}

// smirnov is the manual maximum-deviation variant: the largest gap
// between the empirical step function and the fitted normal CDF,
// compared against a size-dependent critical table.
func (e *Engine) smirnov(s *sample.Sample, desc *analysis.Descriptives) (analysis.NormalityResult, bool) {
	sorted := s.Sorted()
	n := len(sorted)
	fn := float64(n)

	var dMax float64
	for i, v := range sorted {
		ft := e.dist.NormalCDF((v - desc.Mean) / desc.Std)
		dPlus := float64(i+1)/fn - ft
		dMinus := ft - float64(i)/fn
		if dPlus > dMax {
			dMax = dPlus
		}
		if dMinus > dMax {
			dMax = dMinus
		}
	}

	crit := smirnovCritical(n)
	return analysis.NormalityResult{
		Criterion:     analysis.CriterionSmirnov,
		DisplayName:   "Smirnov",
		Statistic:     dMax,
		CriticalValue: &crit,
		Normal:        dMax <= crit,
	}, true
}
