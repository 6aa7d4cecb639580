package provider

import (
	"time"
)

const rateWindow = time.Minute

// RateLimiter keeps outbound calls under a per-minute quota using a sliding
// window of call timestamps. It reserves a 10% safety margin below the
// configured limit so a burst never lands exactly on the quota.
//
// Not safe for concurrent use; the pipeline that owns it is single-threaded.
type RateLimiter struct {
	safeMaxCalls int
	calls        []time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// NewRateLimiter creates a limiter for the given calls-per-minute budget.
func NewRateLimiter(maxCallsPerMinute int) *RateLimiter {
	return &RateLimiter{
		safeMaxCalls: maxCallsPerMinute * 9 / 10,
		now:          time.Now,
		sleep:        time.Sleep,
	}
}

// CanMakeRequest reports whether another call fits in the trailing window.
func (l *RateLimiter) CanMakeRequest() bool {
	l.purge(l.now())
	return len(l.calls) < l.safeMaxCalls
}

// RecordRequest registers that a call was just made.
func (l *RateLimiter) RecordRequest() {
	l.calls = append(l.calls, l.now())
}

// WaitIfNeeded blocks until another call fits in the window. The wait is
// sized from the oldest call in the window plus a one second buffer.
func (l *RateLimiter) WaitIfNeeded() {
	for !l.CanMakeRequest() {
		if len(l.calls) == 0 {
			return
		}
		wait := rateWindow - l.now().Sub(l.calls[0]) + time.Second
		if wait > 0 {
			l.sleep(wait)
		}
		l.purge(l.now())
	}
}

func (l *RateLimiter) purge(now time.Time) {
	i := 0
	for i < len(l.calls) && now.Sub(l.calls[i]) > rateWindow {
		i++
	}
	l.calls = l.calls[i:]
}
