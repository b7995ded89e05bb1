// Package limiter caps guest assistant usage per client IP per calendar
// day.  The counter store is injected: the redis implementation enforces a
// global limit across replicas, the memory implementation is the degraded
// per-process mode used when redis is unavailable.
package limiter

import (
	"context"
	"time"
)

// Verdict is the outcome of counting one request against a daily limit.
type Verdict struct {
	Allowed   bool
	Remaining int
}

// DailyLimiter counts one request for key on now's UTC calendar day and
// reports whether it was within the limit.  A rejected request consumes
// nothing.
type DailyLimiter interface {
	Allow(ctx context.Context, key string, now time.Time) (Verdict, error)
}
