package analysis

import (
	"time"

	"statlab/domain/core"
)

// Descriptives is the immutable snapshot of descriptive statistics for
// one sample. All fields are derived once at construction.
//
// Skewness is the population-moment estimator g1 = m3 / m2^1.5 and
// Kurtosis the Fisher-adjusted g2 = m4 / m2^2 - 3; neither applies a
// small-sample bias correction.
type Descriptives struct {
	N int `json:"n"`

	Mean        float64 `json:"mean"`
	Std         float64 `json:"std"`          // Bessel-corrected, n-1 denominator
	StdPop      float64 `json:"std_pop"`      // population, n denominator
	Variance    float64 `json:"variance"`     // n-1 denominator
	VariancePop float64 `json:"variance_pop"` // n denominator

	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Range  float64 `json:"range"`
	Median float64 `json:"median"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`

	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"` // excess kurtosis

	// Defined only when every observation is strictly positive.
	HarmonicMean  *float64 `json:"harmonic_mean,omitempty"`
	GeometricMean *float64 `json:"geometric_mean,omitempty"`

	StdError float64 `json:"std_error"`
	CV       float64 `json:"cv"` // coefficient of variation, percent; 0 when mean is 0

	CIMean ConfidenceInterval `json:"ci_mean"`
	CIStd  ConfidenceInterval `json:"ci_std"` // asymmetric, chi-square based
}

// ConfidenceInterval is a two-sided interval at the report's
// significance level.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// NormalityCriterion names one normality test in the battery.
type NormalityCriterion string

const (
	CriterionShapiroFrancia NormalityCriterion = "shapiro_francia"
	CriterionRomanovsky     NormalityCriterion = "romanovsky"
	CriterionChiSquare      NormalityCriterion = "chi_square"
	CriterionKolmogorov     NormalityCriterion = "kolmogorov_smirnov"
	CriterionSmirnov        NormalityCriterion = "smirnov"
)

// NormalityResult carries the outcome of one criterion. PValue and
// CriticalValue are optional: p-value tests set the former, tabulated
// tests the latter.
type NormalityResult struct {
	Criterion     NormalityCriterion `json:"criterion"`
	DisplayName   string             `json:"display_name"`
	Statistic     float64            `json:"statistic"`
	PValue        *float64           `json:"p_value,omitempty"`
	CriticalValue *float64           `json:"critical_value,omitempty"`
	DF            *int               `json:"df,omitempty"`
	Normal        bool               `json:"normal"`
	Inconclusive  bool               `json:"inconclusive,omitempty"`
}

// OutlierMethod names one outlier-detection criterion.
type OutlierMethod string

const (
	MethodIQR       OutlierMethod = "iqr"
	MethodWright    OutlierMethod = "3sigma"
	MethodGrubbs    OutlierMethod = "grubbs"
	MethodSharlie   OutlierMethod = "sharlie"
	MethodIrwin     OutlierMethod = "irwin"
	MethodChauvenet OutlierMethod = "chauvenet"
)

// AllOutlierMethods lists every supported method in report order.
var AllOutlierMethods = []OutlierMethod{
	MethodIQR, MethodWright, MethodGrubbs,
	MethodSharlie, MethodIrwin, MethodChauvenet,
}

// OutlierResult carries the outcome of one outlier method. Bounds are
// set by fence-style methods, Statistic/CriticalValue by test-style
// ones; both may be present.
type OutlierResult struct {
	Method        OutlierMethod `json:"method"`
	DisplayName   string        `json:"display_name"`
	Indices       []int         `json:"indices"`
	Values        []float64     `json:"values"`
	Count         int           `json:"count"`
	HasOutliers   bool          `json:"has_outliers"`
	LowerBound    *float64      `json:"lower_bound,omitempty"`
	UpperBound    *float64      `json:"upper_bound,omitempty"`
	Statistic     *float64      `json:"statistic,omitempty"`
	CriticalValue *float64      `json:"critical_value,omitempty"`
}

// Report aggregates everything computed for one sample. It is created
// once, read-only afterwards, and owns no rendering concerns.
type Report struct {
	ID        core.ReportID `json:"id"`
	Label     string        `json:"label"`
	CreatedAt time.Time     `json:"created_at"`
	Alpha     float64       `json:"alpha"`

	Values []float64 `json:"values"`

	Descriptives *Descriptives                          `json:"descriptives"`
	Normality    map[NormalityCriterion]NormalityResult `json:"normality"`
	Outliers     map[OutlierMethod]OutlierResult        `json:"outliers"`
}

// NormalCount returns how many completed criteria judged the sample
// normal, and the number of completed criteria.
func (r *Report) NormalCount() (passed, total int) {
	for _, res := range r.Normality {
		if res.Inconclusive {
			continue
		}
		total++
		if res.Normal {
			passed++
		}
	}
	return passed, total
}
