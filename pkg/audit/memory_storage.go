package audit

import (
	"context"
	"sync"
)

// MemoryStorage keeps the most recent events in a ring buffer.
type MemoryStorage struct {
	mu     sync.RWMutex
	events []Event
	next   int
	full   bool
}

// NewMemoryStorage returns a store holding at most capacity events.
func NewMemoryStorage(capacity int) *MemoryStorage {
	if capacity <= 0 {
		panic("audit: capacity must be > 0")
	}
	return &MemoryStorage{events: make([]Event, capacity)}
}

// Store appends valid events, evicting the oldest when full. Invalid events
// reject the whole call.
func (m *MemoryStorage) Store(ctx context.Context, events ...Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range events {
		m.events[m.next] = e
		m.next = (m.next + 1) % len(m.events)
		if m.next == 0 {
			m.full = true
		}
	}
	return nil
}

// Query returns matching events, newest first.
func (m *MemoryStorage) Query(ctx context.Context, c Criteria) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	n := m.next
	if m.full {
		n = len(m.events)
	}
	out := make([]Event, 0, min(n, max(c.Limit, 0)))
	for i := 1; i <= n; i++ {
		e := m.events[(m.next-i+len(m.events))%len(m.events)]
		if !c.match(e) {
			continue
		}
		out = append(out, e)
		if c.Limit > 0 && len(out) == c.Limit {
			break
		}
	}
	return out, nil
}

// Len reports how many events are held.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.full {
		return len(m.events)
	}
	return m.next
}
