// Package throttle suppresses repeat alerts for the same patient within a
// suppression interval, so staff are not re-paged every run for a catheter
// they already know about.
package throttle

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Throttle decides whether an alert for a patient may be delivered now.
// Implementations are best effort: on error the caller delivers anyway.
type Throttle interface {
	// Allow reports whether an alert for patientID may be delivered, and
	// records the delivery when it may.
	Allow(ctx context.Context, patientID string) (bool, error)
	Close() error
}

// DefaultInterval is the suppression window between repeat alerts for the
// same patient.
const DefaultInterval = 24 * time.Hour

// New builds a throttle from a URL. A redis:// URL selects the shared Redis
// implementation; anything else (including "") selects the in-process one.
func New(url string, interval time.Duration) (Throttle, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	if strings.HasPrefix(url, "redis://") || strings.HasPrefix(url, "rediss://") {
		return NewRedisThrottle(url, interval)
	}

	return NewMemoryThrottle(interval), nil
}

// MemoryThrottle keeps delivery times in process memory. Suitable for
// one-shot runs and tests; scheduler replicas should use Redis.
type MemoryThrottle struct {
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	delivered map[string]time.Time
}

func NewMemoryThrottle(interval time.Duration) *MemoryThrottle {
	return &MemoryThrottle{
		interval:  interval,
		now:       time.Now,
		delivered: make(map[string]time.Time),
	}
}

// WithNow overrides the clock, for tests.
func (t *MemoryThrottle) WithNow(now func() time.Time) *MemoryThrottle {
	t.now = now

	return t
}

func (t *MemoryThrottle) Allow(_ context.Context, patientID string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()

	if last, ok := t.delivered[patientID]; ok && now.Sub(last) < t.interval {
		return false, nil
	}

	t.delivered[patientID] = now

	return true, nil
}

func (t *MemoryThrottle) Close() error {
	return nil
}
