package core

import (
	"errors"
	"testing"
	"time"
)

func TestNewID_Unique(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Fatal("NewID returned empty ID")
		}
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestID_IsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("empty string ID should be empty")
	}
	if !ID("   ").IsEmpty() {
		t.Error("whitespace ID should be empty")
	}
	if ID("abc").IsEmpty() {
		t.Error("non-empty ID reported empty")
	}
}

func TestNow_UTCMillisecond(t *testing.T) {
	ts := Now()
	if ts.Location() != time.UTC {
		t.Errorf("Now() location = %v, want UTC", ts.Location())
	}
	if ts.Nanosecond()%int(time.Millisecond) != 0 {
		t.Errorf("Now() not truncated to milliseconds: %v", ts)
	}
}

func TestErrorHelpers(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"too small is invalid input", ErrSampleTooSmall, IsInvalidInput, true},
		{"non-finite is invalid input", NewNonFiniteError(3, 0), IsInvalidInput, true},
		{"constructed invalid input", NewInvalidInputError("bad"), IsInvalidInput, true},
		{"degenerate is not invalid input", ErrDegenerateSample, IsInvalidInput, false},
		{"degenerate check", ErrDegenerateSample, IsDegenerateSample, true},
		{"not applicable is unavailable", ErrNotApplicable, IsCriterionUnavailable, true},
		{"undefined is unavailable", ErrUndefinedStatistic, IsCriterionUnavailable, true},
		{"not found is neither", ErrReportNotFound, IsInvalidInput, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.check(tc.err); got != tc.want {
				t.Errorf("check = %v, want %v", got, tc.want)
			}
		})
	}

	wrapped := NewInvalidInputError("outer")
	if !errors.Is(wrapped, ErrInvalidInput) {
		t.Error("constructor must wrap the sentinel")
	}
}
