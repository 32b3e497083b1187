// Package pollwindow throttles token endpoint polling for backchannel
// requests. A poll opens a window of the request's interval during
// which further polls are refused.
package pollwindow

import (
	"context"
	"sync"
	"time"
)

// InMemoryThrottle keeps poll windows in memory for tests/dev.
type InMemoryThrottle struct {
	mu      sync.Mutex
	windows map[string]time.Time // authReqID -> window end
	now     func() time.Time
}

func NewInMemory() *InMemoryThrottle {
	return &InMemoryThrottle{
		windows: make(map[string]time.Time),
		now:     time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (t *InMemoryThrottle) WithClock(now func() time.Time) *InMemoryThrottle {
	t.now = now
	return t
}

func (t *InMemoryThrottle) Allow(_ context.Context, authReqID string, interval int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	if end, ok := t.windows[authReqID]; ok && now.Before(end) {
		return false, nil
	}
	t.windows[authReqID] = now.Add(time.Duration(interval) * time.Second)
	return true, nil
}
