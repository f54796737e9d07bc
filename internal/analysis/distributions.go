package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Distributions provides unified access to the reference distributions
// used across the battery, so quantile and tail conventions stay
// consistent between criteria.
type Distributions struct{}

// NewDistributions creates a new distributions utility
func NewDistributions() *Distributions {
	return &Distributions{}
}

// NormalCDF computes the standard normal CDF at x
func (d *Distributions) NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormalQuantile computes the standard normal inverse CDF
func (d *Distributions) NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// StudentTQuantile computes the Student-t inverse CDF at probability p
// with the given degrees of freedom
func (d *Distributions) StudentTQuantile(p float64, df int) float64 {
	if df <= 0 {
		return math.NaN()
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	return tDist.Quantile(p)
}

// ChiSquareQuantile computes the chi-square inverse CDF at probability p
func (d *Distributions) ChiSquareQuantile(p float64, df int) float64 {
	if df <= 0 {
		return math.NaN()
	}
	chiDist := distuv.ChiSquared{K: float64(df)}
	return chiDist.Quantile(p)
}

// ChiSquareRightTail computes P(X >= x) for a chi-square variable
func (d *Distributions) ChiSquareRightTail(x float64, df int) float64 {
	if df <= 0 {
		return 0
	}
	chiDist := distuv.ChiSquared{K: float64(df)}
	return 1 - chiDist.CDF(x)
}

// KolmogorovPValue computes the asymptotic two-sided p-value for a
// one-sample Kolmogorov-Smirnov statistic dStat at sample size n. The
// small-sample correction factor follows Stephens (as popularized by
// Numerical Recipes); the series is truncated once terms vanish.
func (d *Distributions) KolmogorovPValue(dStat float64, n int) float64 {
	if dStat <= 0 {
		return 1
	}
	sqrtN := math.Sqrt(float64(n))
	lambda := (sqrtN + 0.12 + 0.11/sqrtN) * dStat

	sum := 0.0
	for j := 1; j <= 100; j++ {
		term := math.Exp(-2 * float64(j*j) * lambda * lambda)
		if j%2 == 1 {
			sum += term
		} else {
			sum -= term
		}
		if term < 1e-12 {
			break
		}
	}
	p := 2 * sum
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
