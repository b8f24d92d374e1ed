package ratelimit

import (
	"context"
	"sync"
	"time"

	"metalprices/internal/provider"
	"metalprices/internal/quote"
)

// MinInterval wraps a source and enforces a minimum time between outbound
// calls, to stretch a small monthly quota. Each call reserves the next slot
// under the lock, so concurrent callers queue one interval apart instead of
// racing past the gate together. A call canceled while waiting returns the
// context error; its reserved slot is not given back. Status probes are not
// gated.
type MinInterval struct {
	S        provider.Source
	Interval time.Duration

	mu   sync.Mutex
	last time.Time
}

func (m *MinInterval) Name() string { return m.S.Name() }

func (m *MinInterval) Fetch(ctx context.Context, metalID, currency string) (quote.Result, error) {
	if m.Interval > 0 {
		m.mu.Lock()
		slot := m.last.Add(m.Interval)
		if now := time.Now(); slot.Before(now) {
			slot = now
		}
		m.last = slot
		m.mu.Unlock()
		if wait := time.Until(slot); wait > 0 {
			t := time.NewTimer(wait)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return quote.Result{}, ctx.Err()
			case <-t.C:
			}
		}
	}
	return m.S.Fetch(ctx, metalID, currency)
}

func (m *MinInterval) Status(ctx context.Context) error {
	return m.S.Status(ctx)
}
