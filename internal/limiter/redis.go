package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Maxzi3/health-app-sub000/internal/quota"
)

// RedisLimiter is a fixed-window daily counter shared by all server
// replicas.  The key embeds the UTC day, so the window rolls over by key
// change rather than by deleting state; stale keys expire on their own.
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int
	prefix string
	script *redis.Script
}

// The script increments the day-stamped counter only while it is below the
// limit, so concurrent requests cannot overshoot.  Returns {allowed, used}.
var dailyScript = redis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local ttl_seconds = tonumber(ARGV[2])

	local used = tonumber(redis.call('GET', key) or '0')
	if used >= limit then
		return { 0, used }
	end

	used = redis.call('INCR', key)
	if used == 1 then
		redis.call('EXPIRE', key, ttl_seconds)
	end
	return { 1, used }
`)

// NewRedisLimiter builds a limiter over the given client.  The client must
// be non-nil; callers fall back to NewMemoryLimiter otherwise.
func NewRedisLimiter(rdb *redis.Client, limit int, prefix string) *RedisLimiter {
	if limit < 1 {
		limit = 1
	}
	if prefix == "" {
		prefix = "guest"
	}
	return &RedisLimiter{rdb: rdb, limit: limit, prefix: prefix, script: dailyScript}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, now time.Time) (Verdict, error) {
	day := quota.DayKey(now)
	redisKey := fmt.Sprintf("%s:%s:%s", l.prefix, key, day)

	// 48h TTL: long enough to outlive the window everywhere on earth,
	// short enough that per-IP keys never accumulate.
	vals, err := l.script.Run(ctx, l.rdb, []string{redisKey}, l.limit, 48*60*60).Int64Slice()
	if err != nil {
		return Verdict{}, err
	}
	if len(vals) != 2 {
		return Verdict{}, fmt.Errorf("limiter: unexpected script result %v", vals)
	}
	allowed := vals[0] == 1
	remaining := l.limit - int(vals[1])
	if remaining < 0 {
		remaining = 0
	}
	return Verdict{Allowed: allowed, Remaining: remaining}, nil
}
