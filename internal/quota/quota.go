// Package quota holds the calendar-day message accounting shared by the
// conversation tracker and its tests.  The repository mirrors Evaluate in a
// single conditional UPDATE; keeping the pure form here lets the day-reset
// rules be unit tested without a database.
package quota

import "time"

// DayKey formats a timestamp as its UTC calendar day.  Day boundaries are
// exact date equality, never elapsed-24h.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// SameDay reports whether two timestamps fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return DayKey(a) == DayKey(b)
}

// Decision is the outcome of evaluating one message against a daily quota.
type Decision struct {
	Allowed  bool
	NewCount int // counter value after the message (unchanged when rejected)
}

// Evaluate applies the daily quota rules to a stored counter: a missing or
// stale last-message date resets the counter before the limit check; at or
// above the limit the message is rejected with no state change; otherwise
// the counter advances by one.
func Evaluate(last *time.Time, count, limit int, now time.Time) Decision {
	if last == nil || !SameDay(*last, now) {
		count = 0
	}
	if count >= limit {
		return Decision{Allowed: false, NewCount: count}
	}
	return Decision{Allowed: true, NewCount: count + 1}
}
