package quota

import (
	"testing"
	"time"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestEvaluateRejectsAtLimitWithoutMutation(t *testing.T) {
	last := ts("2025-01-15T09:00:00Z")
	d := Evaluate(&last, 3, 3, ts("2025-01-15T18:00:00Z"))
	if d.Allowed {
		t.Fatalf("expected rejection at limit")
	}
	if d.NewCount != 3 {
		t.Fatalf("rejection must not change the counter, got %d", d.NewCount)
	}
}

func TestEvaluateResetsOnNewDay(t *testing.T) {
	last := ts("2025-01-14T22:00:00Z")
	d := Evaluate(&last, 3, 3, ts("2025-01-15T08:00:00Z"))
	if !d.Allowed {
		t.Fatalf("stale day must reset before the limit check")
	}
	if d.NewCount != 1 {
		t.Fatalf("expected count 1 after reset, got %d", d.NewCount)
	}
}

func TestEvaluateFirstMessageEver(t *testing.T) {
	d := Evaluate(nil, 0, 3, ts("2025-01-15T08:00:00Z"))
	if !d.Allowed || d.NewCount != 1 {
		t.Fatalf("expected allowed with count 1, got %+v", d)
	}
}

// 23:59:59 on day D followed by 00:00:01 on day D+1 must reset: the window
// is calendar-day equality, not elapsed time.
func TestEvaluateDayBoundary(t *testing.T) {
	last := ts("2025-03-01T23:59:59Z")
	d := Evaluate(&last, 3, 3, ts("2025-03-02T00:00:01Z"))
	if !d.Allowed {
		t.Fatalf("two seconds across midnight must reset the counter")
	}
	if d.NewCount != 1 {
		t.Fatalf("expected count 1, got %d", d.NewCount)
	}

	// The mirror case: almost 24h apart but the same calendar day.
	last = ts("2025-03-01T00:00:01Z")
	d = Evaluate(&last, 3, 3, ts("2025-03-01T23:59:59Z"))
	if d.Allowed {
		t.Fatalf("same calendar day must not reset even after ~24h")
	}
}

func TestSameDayUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 2025-01-15 03:00 +05 is 2025-01-14 22:00 UTC.
	a := time.Date(2025, 1, 15, 3, 0, 0, 0, loc)
	b := ts("2025-01-14T22:30:00Z")
	if !SameDay(a, b) {
		t.Fatalf("SameDay must compare in UTC")
	}
}
