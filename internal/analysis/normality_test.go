package analysis

import (
	"math"
	"testing"

	"statlab/domain/analysis"
)

// normalScores builds a series of n values distributed exactly like
// normal order statistics (Blom scores), scaled to the given mean and
// spread. The result is as close to a perfect normal draw as a
// deterministic test can get.
func normalScores(n int, mean, scale float64) []float64 {
	dist := NewDistributions()
	fn := float64(n)
	values := make([]float64, n)
	for i := range values {
		q := dist.NormalQuantile((float64(i+1) - 0.375) / (fn + 0.25))
		values[i] = mean + scale*q
	}
	return values
}

func TestTestNormality_NearNormalSamplePasses(t *testing.T) {
	e := NewEngine(DefaultOptions())
	s := mustSample(t, "normal", normalScores(50, 10, 2))
	d, err := e.Describe(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results := e.TestNormality(s, d)
	expected := []analysis.NormalityCriterion{
		analysis.CriterionShapiroFrancia,
		analysis.CriterionRomanovsky,
		analysis.CriterionChiSquare,
		analysis.CriterionKolmogorov,
		analysis.CriterionSmirnov,
	}
	for _, crit := range expected {
		res, ok := results[crit]
		if !ok {
			t.Errorf("criterion %s missing from battery", crit)
			continue
		}
		if res.Inconclusive {
			t.Errorf("criterion %s inconclusive on near-normal sample", crit)
			continue
		}
		if !res.Normal {
			t.Errorf("criterion %s rejected near-normal sample (stat=%v)", crit, res.Statistic)
		}
	}
}

func TestTestNormality_SkewedSampleRejected(t *testing.T) {
	// Twenty tight values plus one far spike: heavily right-skewed
	values := append(nearHundred(), 500.0)
	e := NewEngine(DefaultOptions())
	s := mustSample(t, "skewed", values)
	d, err := e.Describe(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results := e.TestNormality(s, d)
	if res, ok := results[analysis.CriterionShapiroFrancia]; ok && res.Normal {
		t.Errorf("Shapiro-Francia accepted a spiked sample (W'=%v)", res.Statistic)
	}
	if res, ok := results[analysis.CriterionRomanovsky]; !ok {
		t.Error("Romanovsky missing for n=21")
	} else if res.Normal {
		t.Errorf("Romanovsky accepted a spiked sample (stat=%v)", res.Statistic)
	}
}

func TestTestNormality_RomanovskyBoundedBySampleSize(t *testing.T) {
	e := NewEngine(DefaultOptions())

	small := mustSample(t, "n50", normalScores(50, 0, 1))
	d, err := e.Describe(small)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := e.TestNormality(small, d)[analysis.CriterionRomanovsky]; !ok {
		t.Error("Romanovsky must run at n=50")
	}

	large := mustSample(t, "n60", normalScores(60, 0, 1))
	d, err = e.Describe(large)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	results := e.TestNormality(large, d)
	if _, ok := results[analysis.CriterionRomanovsky]; ok {
		t.Error("Romanovsky must be absent beyond n=50")
	}
	// The rest of the battery still runs
	for _, crit := range []analysis.NormalityCriterion{
		analysis.CriterionShapiroFrancia,
		analysis.CriterionChiSquare,
		analysis.CriterionKolmogorov,
		analysis.CriterionSmirnov,
	} {
		if _, ok := results[crit]; !ok {
			t.Errorf("criterion %s missing at n=60", crit)
		}
	}
}

func TestShapiroFrancia_PerfectFitShortCircuits(t *testing.T) {
	// Values that are an affine image of the expected normal scores
	// correlate perfectly, so W' hits 1 and p is pinned there.
	e := NewEngine(DefaultOptions())
	s := mustSample(t, "affine", normalScores(20, 5, 3))

	res, ok := e.shapiroFrancia(s)
	if !ok {
		t.Fatal("shapiroFrancia unexpectedly unavailable")
	}
	if res.Statistic < 1-1e-9 {
		t.Errorf("W' = %v, want ~1 for affine scores", res.Statistic)
	}
	if res.PValue == nil || *res.PValue != 1 {
		t.Errorf("p-value = %v, want exactly 1", res.PValue)
	}
	if !res.Normal {
		t.Error("perfect fit must be judged normal")
	}
}

func TestSmirnovCritical(t *testing.T) {
	cases := []struct {
		n    int
		want float64
	}{
		{5, 0.294},
		{20, 0.294},
		{21, 0.242},
		{30, 0.242},
		{31, 0.210},
		{40, 0.210},
		{41, 1.36 / math.Sqrt(41)},
		{100, 1.36 / math.Sqrt(100)},
	}
	for _, tc := range cases {
		if got := smirnovCritical(tc.n); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("smirnovCritical(%d) = %v, want %v", tc.n, got, tc.want)
		}
	}
}

func TestMergeSparseBins(t *testing.T) {
	t.Run("leading bin folds right", func(t *testing.T) {
		obs := []float64{1, 10, 10, 10}
		exp := []float64{2, 8, 9, 10}
		gotObs, gotExp := mergeSparseBins(obs, exp, 5)
		if len(gotExp) != 3 {
			t.Fatalf("expected 3 bins, got %d", len(gotExp))
		}
		if gotExp[0] != 10 || gotObs[0] != 11 {
			t.Errorf("leading fold wrong: exp=%v obs=%v", gotExp, gotObs)
		}
	})

	t.Run("trailing bin folds left", func(t *testing.T) {
		obs := []float64{10, 10, 10, 1}
		exp := []float64{10, 9, 8, 2}
		gotObs, gotExp := mergeSparseBins(obs, exp, 5)
		if len(gotExp) != 3 {
			t.Fatalf("expected 3 bins, got %d", len(gotExp))
		}
		if gotExp[2] != 10 || gotObs[2] != 11 {
			t.Errorf("trailing fold wrong: exp=%v obs=%v", gotExp, gotObs)
		}
	})

	t.Run("interior bin folds left", func(t *testing.T) {
		obs := []float64{10, 1, 10, 10}
		exp := []float64{8, 2, 9, 10}
		gotObs, gotExp := mergeSparseBins(obs, exp, 5)
		if len(gotExp) != 3 {
			t.Fatalf("expected 3 bins, got %d", len(gotExp))
		}
		if gotExp[0] != 10 || gotObs[0] != 11 {
			t.Errorf("interior fold wrong: exp=%v obs=%v", gotExp, gotObs)
		}
	})

	t.Run("stops at two bins", func(t *testing.T) {
		obs := []float64{1, 1, 1}
		exp := []float64{1, 1, 1}
		_, gotExp := mergeSparseBins(obs, exp, 5)
		if len(gotExp) != 2 {
			t.Errorf("expected floor of 2 bins, got %d", len(gotExp))
		}
	})

	t.Run("no merge when all dense", func(t *testing.T) {
		obs := []float64{10, 10, 10}
		exp := []float64{9, 8, 7}
		_, gotExp := mergeSparseBins(obs, exp, 5)
		if len(gotExp) != 3 {
			t.Errorf("expected untouched bins, got %d", len(gotExp))
		}
	})
}

func TestKolmogorovSmirnov_StatisticBounds(t *testing.T) {
	e := NewEngine(DefaultOptions())
	s := mustSample(t, "ks", normalScores(30, 0, 1))
	d, err := e.Describe(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, ok := e.kolmogorovSmirnov(s, d)
	if !ok {
		t.Fatal("kolmogorovSmirnov unexpectedly unavailable")
	}
	if res.Statistic <= 0 || res.Statistic >= 1 {
		t.Errorf("D = %v, want within (0, 1)", res.Statistic)
	}
	if res.PValue == nil || *res.PValue < 0 || *res.PValue > 1 {
		t.Errorf("p-value = %v, want within [0, 1]", res.PValue)
	}
}
