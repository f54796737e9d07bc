package analysis

import (
	"math"
	"testing"

	"statlab/domain/core"
	"statlab/domain/sample"
)

// calibrationValues is a hand-checked reference series of n=11
// measurements near 100.6.
var calibrationValues = []float64{
	100.71, 100.56, 98.97, 100.63, 100.58, 100.87,
	100.78, 102.51, 99.97, 101.11, 100.02,
}

func mustSample(t *testing.T, label string, values []float64) *sample.Sample {
	t.Helper()
	s, err := sample.New(label, values)
	if err != nil {
		t.Fatalf("sample %s: %v", label, err)
	}
	return s
}

func TestDescribe_CalibrationSeries(t *testing.T) {
	e := NewEngine(DefaultOptions())
	d, err := e.Describe(mustSample(t, "calibration", calibrationValues))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.N != 11 {
		t.Errorf("N = %d, want 11", d.N)
	}
	if math.Abs(d.Mean-100.61) > 1e-9 {
		t.Errorf("Mean = %v, want 100.61", d.Mean)
	}
	if math.Abs(d.Std-0.86126) > 1e-4 {
		t.Errorf("Std = %v, want ~0.86126", d.Std)
	}
	if math.Abs(d.Variance-0.74176) > 1e-6 {
		t.Errorf("Variance = %v, want 0.74176", d.Variance)
	}
	if d.Min != 98.97 || d.Max != 102.51 {
		t.Errorf("Min/Max = %v/%v, want 98.97/102.51", d.Min, d.Max)
	}
	if math.Abs(d.Range-3.54) > 1e-9 {
		t.Errorf("Range = %v, want 3.54", d.Range)
	}
	if math.Abs(d.Median-100.63) > 1e-9 {
		t.Errorf("Median = %v, want 100.63", d.Median)
	}
	// Linear interpolation quartiles: pos 2.5 and 7.5 of the sorted series
	if math.Abs(d.Q1-100.29) > 1e-9 {
		t.Errorf("Q1 = %v, want 100.29", d.Q1)
	}
	if math.Abs(d.Q3-100.825) > 1e-9 {
		t.Errorf("Q3 = %v, want 100.825", d.Q3)
	}
	if math.Abs(d.StdError-d.Std/math.Sqrt(11)) > 1e-12 {
		t.Errorf("StdError = %v, want std/sqrt(n)", d.StdError)
	}
}

func TestDescribe_DegenerateSample(t *testing.T) {
	e := NewEngine(DefaultOptions())
	_, err := e.Describe(mustSample(t, "constant", []float64{5, 5, 5, 5, 5}))
	if !core.IsDegenerateSample(err) {
		t.Fatalf("expected degenerate sample error, got %v", err)
	}
}

func TestDescribe_MeanWithinBounds(t *testing.T) {
	e := NewEngine(DefaultOptions())
	d, err := e.Describe(mustSample(t, "bounds", []float64{2.5, 7.1, 4.4, 9.9, 1.2, 6.3}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Mean < d.Min || d.Mean > d.Max {
		t.Errorf("mean %v outside [%v, %v]", d.Mean, d.Min, d.Max)
	}
	if d.Q1 > d.Median || d.Median > d.Q3 {
		t.Errorf("quartile ordering broken: Q1=%v median=%v Q3=%v", d.Q1, d.Median, d.Q3)
	}
}

func TestDescribe_ConfidenceIntervals(t *testing.T) {
	e := NewEngine(DefaultOptions())
	d, err := e.Describe(mustSample(t, "ci", calibrationValues))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !(d.CIMean.Lower < d.Mean && d.Mean < d.CIMean.Upper) {
		t.Errorf("mean %v outside its CI [%v, %v]", d.Mean, d.CIMean.Lower, d.CIMean.Upper)
	}
	if !(d.CIStd.Lower < d.Std && d.Std < d.CIStd.Upper) {
		t.Errorf("std %v outside its CI [%v, %v]", d.Std, d.CIStd.Lower, d.CIStd.Upper)
	}
	// The chi-square interval for sigma is asymmetric around the point
	// estimate: the upper arm is wider.
	if (d.CIStd.Upper - d.Std) <= (d.Std - d.CIStd.Lower) {
		t.Errorf("expected asymmetric sigma CI, got [%v, %v] around %v",
			d.CIStd.Lower, d.CIStd.Upper, d.Std)
	}
}

func TestDescribe_MeanInequality(t *testing.T) {
	// Harmonic <= geometric <= arithmetic on positive non-constant data
	e := NewEngine(DefaultOptions())
	d, err := e.Describe(mustSample(t, "means", []float64{1, 2, 3, 4, 5, 6, 7, 8}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.HarmonicMean == nil || d.GeometricMean == nil {
		t.Fatal("expected harmonic and geometric means on positive data")
	}
	if !(*d.HarmonicMean < *d.GeometricMean && *d.GeometricMean < d.Mean) {
		t.Errorf("mean inequality broken: H=%v G=%v A=%v", *d.HarmonicMean, *d.GeometricMean, d.Mean)
	}
}

func TestDescribe_MeansAbsentOnNonPositiveData(t *testing.T) {
	e := NewEngine(DefaultOptions())
	cases := []struct {
		name   string
		values []float64
	}{
		{"with zero", []float64{0, 1, 2, 3, 4}},
		{"with negative", []float64{-1, 1, 2, 3, 4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := e.Describe(mustSample(t, tc.name, tc.values))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.HarmonicMean != nil || d.GeometricMean != nil {
				t.Error("harmonic/geometric means must be absent on non-positive data")
			}
		})
	}
}

func TestDescribe_Deterministic(t *testing.T) {
	e := NewEngine(DefaultOptions())
	s := mustSample(t, "repeat", calibrationValues)

	first, err := e.Describe(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.Describe(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Mean != second.Mean || first.Std != second.Std ||
		first.Skewness != second.Skewness || first.Kurtosis != second.Kurtosis {
		t.Error("Describe is not bit-identical across runs on the same sample")
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	cases := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{25, 2},
		{50, 3},
		{75, 4},
		{100, 5},
		{10, 1.4}, // pos 0.4, between 1 and 2
	}
	for _, tc := range cases {
		if got := percentile(sorted, tc.p); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("percentile(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
	if got := percentile([]float64{42}, 50); got != 42 {
		t.Errorf("percentile of singleton = %v, want 42", got)
	}
}
