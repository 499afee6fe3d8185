package store

import (
	"context"
	"sync"

	"modqueue/internal/audit"
	"modqueue/pkg/pagination"
	"modqueue/pkg/requestcontext"
)

// InMemory keeps events in append order behind a RWMutex.
type InMemory struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Append(ctx context.Context, event audit.Event) (audit.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event.ID = len(s.events) + 1
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	s.events = append(s.events, event)
	return event, nil
}

func (s *InMemory) List(_ context.Context, page, limit int) ([]audit.Event, int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page, limit = pagination.Clamp(page, limit, DefaultLimit)
	total := len(s.events)
	start, end := pagination.Bounds(page, limit, total)

	// Most recent first: walk the append order backwards, so page 1 is
	// always the newest window regardless of appends between page fetches.
	pageEvents := make([]audit.Event, 0, end-start)
	for i := total - 1 - start; i >= total-end; i-- {
		pageEvents = append(pageEvents, s.events[i])
	}
	return pageEvents, total, pagination.TotalPages(total, limit), nil
}

func (s *InMemory) Seed(_ context.Context, events []audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append([]audit.Event(nil), events...)
	return nil
}
