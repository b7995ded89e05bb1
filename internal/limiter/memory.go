package limiter

import (
	"context"
	"sync"
	"time"

	"github.com/Maxzi3/health-app-sub000/internal/quota"
)

// MemoryLimiter is the process-local fallback used when redis is not
// available.  Counters are keyed by IP and stamped with their UTC day; a
// janitor goroutine evicts entries from previous days so the table does not
// grow for the life of the process.  With multiple replicas each process
// counts independently, so this mode is best effort by definition.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*dayCount
	limit   int
}

type dayCount struct {
	day   string
	count int
}

// NewMemoryLimiter creates an in-process daily limiter and starts its
// janitor.  cleanupEvery <= 0 disables eviction (used by tests).
func NewMemoryLimiter(limit int, cleanupEvery time.Duration) *MemoryLimiter {
	if limit < 1 {
		limit = 1
	}
	l := &MemoryLimiter{entries: make(map[string]*dayCount), limit: limit}
	if cleanupEvery > 0 {
		go l.janitor(cleanupEvery)
	}
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, now time.Time) (Verdict, error) {
	day := quota.DayKey(now)

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || e.day != day {
		l.entries[key] = &dayCount{day: day, count: 1}
		return Verdict{Allowed: true, Remaining: l.limit - 1}, nil
	}
	if e.count >= l.limit {
		return Verdict{Allowed: false, Remaining: 0}, nil
	}
	e.count++
	return Verdict{Allowed: true, Remaining: l.limit - e.count}, nil
}

func (l *MemoryLimiter) janitor(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for now := range t.C {
		day := quota.DayKey(now)
		l.mu.Lock()
		for k, e := range l.entries {
			if e.day != day {
				delete(l.entries, k)
			}
		}
		l.mu.Unlock()
	}
}
