package limiter

import (
	"context"
	"sync"
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

// limit=1: first message of the day allowed with remaining 0, second
// rejected, first message of the next day allowed again.
func TestMemoryLimiterDailyWindow(t *testing.T) {
	l := NewMemoryLimiter(1, 0)
	ctx := context.Background()
	ip := "203.0.113.7"

	v, err := l.Allow(ctx, ip, ts("2025-01-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if !v.Allowed || v.Remaining != 0 {
		t.Fatalf("day 1 msg 1: got %+v, want allowed with remaining 0", v)
	}

	v, _ = l.Allow(ctx, ip, ts("2025-01-01T11:00:00Z"))
	if v.Allowed || v.Remaining != 0 {
		t.Fatalf("day 1 msg 2: got %+v, want rejected with remaining 0", v)
	}

	v, _ = l.Allow(ctx, ip, ts("2025-01-02T00:00:01Z"))
	if !v.Allowed || v.Remaining != 0 {
		t.Fatalf("day 2 msg 1: got %+v, want allowed after reset", v)
	}
}

func TestMemoryLimiterNthAllowedNPlusOneRejected(t *testing.T) {
	const limit = 3
	l := NewMemoryLimiter(limit, 0)
	ctx := context.Background()
	now := ts("2025-06-10T12:00:00Z")

	for i := 1; i <= limit; i++ {
		v, err := l.Allow(ctx, "198.51.100.4", now)
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !v.Allowed {
			t.Fatalf("request %d of %d should be allowed", i, limit)
		}
		if v.Remaining != limit-i {
			t.Fatalf("request %d: remaining %d, want %d", i, v.Remaining, limit-i)
		}
	}
	v, _ := l.Allow(ctx, "198.51.100.4", now)
	if v.Allowed {
		t.Fatalf("request %d should be rejected", limit+1)
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(1, 0)
	ctx := context.Background()
	now := ts("2025-06-10T12:00:00Z")

	if v, _ := l.Allow(ctx, "10.0.0.1", now); !v.Allowed {
		t.Fatalf("first key should be allowed")
	}
	if v, _ := l.Allow(ctx, "10.0.0.2", now); !v.Allowed {
		t.Fatalf("second key must not share the first key's counter")
	}
}

// Concurrent requests against one key must never allow more than the limit.
func TestMemoryLimiterConcurrentAccounting(t *testing.T) {
	const limit = 5
	l := NewMemoryLimiter(limit, 0)
	now := ts("2025-06-10T12:00:00Z")

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := l.Allow(context.Background(), "192.0.2.9", now)
			if err != nil {
				t.Errorf("allow: %v", err)
				return
			}
			if v.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if allowed != limit {
		t.Fatalf("allowed %d requests, want exactly %d", allowed, limit)
	}
}
