package openrouter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Defaults applied when a RateLimiter is constructed with non-positive limits.
const (
	defaultMaxRequestsPerMinute  = 60
	defaultMaxConcurrentRequests = 5

	// concurrencyPollInterval is how often a blocked caller rechecks the
	// in-flight ceiling.
	concurrencyPollInterval = 100 * time.Millisecond

	// rateWindow is the trailing window over which per-minute limits apply.
	rateWindow = time.Minute
)

// RateLimiter bounds outbound provider traffic on two axes: the number of
// requests in flight and the number of requests issued in the trailing
// 60-second window. It is a soft, single-process limiter; admission is
// best-effort rather than strictly fair.
//
// One instance is shared by every completion client in the process and is
// passed in as an explicit constructor dependency so tests can inject a
// fresh instance.
type RateLimiter struct {
	mu            sync.Mutex
	active        int
	timestamps    []time.Time
	maxPerMinute  int
	maxConcurrent int

	pollInterval time.Duration
	window       time.Duration
	now          func() time.Time // injectable for tests
	logger       *slog.Logger
}

// NewRateLimiter creates a rate limiter with the given per-minute and
// concurrency ceilings. Non-positive values fall back to the defaults.
// If logger is nil, the default logger is used.
func NewRateLimiter(maxPerMinute, maxConcurrent int, logger *slog.Logger) *RateLimiter {
	if maxPerMinute <= 0 {
		maxPerMinute = defaultMaxRequestsPerMinute
	}
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentRequests
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RateLimiter{
		maxPerMinute:  maxPerMinute,
		maxConcurrent: maxConcurrent,
		pollInterval:  concurrencyPollInterval,
		window:        rateWindow,
		now:           time.Now,
		logger:        logger.With(slog.String("component", "rate_limiter")),
	}
}

// Acquire blocks until both ceilings admit a new request, then records it.
// The limiter itself never fails; the only error it can return is the
// context's, so callers can bound the wait with a deadline if they need one.
// Every successful Acquire must be paired with exactly one Release.
//
// The two gates are checked in sequence, not atomically: a caller that
// slept on the window gate does not revisit the concurrency gate, so
// active can briefly exceed the concurrency ceiling under contention.
func (l *RateLimiter) Acquire(ctx context.Context) error {
	// Concurrency gate: poll until an in-flight slot frees up.
	for {
		l.mu.Lock()
		if l.active < l.maxConcurrent {
			break // lock still held
		}
		active := l.active
		l.mu.Unlock()

		l.logger.Warn("waiting for concurrent request limit",
			slog.Int("active_requests", active),
			slog.Int("max_concurrent_requests", l.maxConcurrent))

		if err := l.wait(ctx, l.pollInterval); err != nil {
			return err
		}
	}

	// Window gate: lock is held on entry to each iteration.
	for {
		now := l.now()
		l.evictExpired(now)

		if len(l.timestamps) < l.maxPerMinute {
			break
		}

		oldest := l.timestamps[0]
		waitTime := oldest.Add(l.window).Sub(now)
		if waitTime < 0 {
			waitTime = 0
		}

		inWindow := len(l.timestamps)
		l.mu.Unlock()

		l.logger.Warn("rate limit reached, waiting",
			slog.Duration("wait_time", waitTime),
			slog.Int("requests_in_last_minute", inWindow),
			slog.Int("max_requests_per_minute", l.maxPerMinute))

		if err := l.wait(ctx, waitTime); err != nil {
			return err
		}

		l.mu.Lock()
		// The slept-for slot is spent regardless of what other callers did
		// in the meantime.
		if len(l.timestamps) > 0 {
			l.timestamps = l.timestamps[1:]
		}
	}

	l.timestamps = append(l.timestamps, l.now())
	l.active++
	l.mu.Unlock()
	return nil
}

// Release frees an in-flight slot. It must be called exactly once per
// successful Acquire, on failure paths included.
func (l *RateLimiter) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active > 0 {
		l.active--
	}
}

// evictExpired drops timestamps older than the window. Caller holds the lock.
func (l *RateLimiter) evictExpired(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.timestamps) && !l.timestamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.timestamps = append(l.timestamps[:0], l.timestamps[i:]...)
	}
}

// wait sleeps for d or until the context is done.
func (l *RateLimiter) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
