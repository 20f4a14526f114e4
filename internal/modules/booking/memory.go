package booking

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process Repository used by tests and by deployments
// that run without PostgreSQL.
type MemoryStore struct {
	mu     sync.Mutex
	byRef  map[string]*Booking
	events []*Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byRef: make(map[string]*Booking)}
}

func (m *MemoryStore) Append(_ context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.byRef[b.Ref] = &cp
	return nil
}

func (m *MemoryStore) FindByRef(_ context.Context, ref string) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byRef[ref]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *MemoryStore) FindByPhone(_ context.Context, phone string) ([]*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Booking
	for _, b := range m.byRef {
		if b.CustomerPhone == phone {
			cp := *b
			out = append(out, &cp)
		}
	}
	// Newest first, matching the SQL store's ORDER BY created_at DESC.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) UpdateStatus(_ context.Context, ref string, from, to Status, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byRef[ref]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	b.UpdatedAt = at
	return true, nil
}

func (m *MemoryStore) UpdatePayment(_ context.Context, ref string, method PaymentMethod, status PaymentStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byRef[ref]
	if !ok {
		return ErrNotFound
	}
	b.PaymentMethod = method
	b.PaymentStatus = status
	b.UpdatedAt = at
	return nil
}

func (m *MemoryStore) AppendEvent(_ context.Context, e *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	cp.ID = int64(len(m.events) + 1)
	m.events = append(m.events, &cp)
	return nil
}

// Events returns a snapshot of recorded transitions for a booking.
func (m *MemoryStore) Events(ref string) []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Event
	for _, e := range m.events {
		if e.BookingRef == ref {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out
}
