package store

import (
	"context"
	"sync"

	"modqueue/internal/listing/models"
	"modqueue/pkg/platform/sentinel"
	"modqueue/pkg/requestcontext"
)

// InMemory keeps listings in insertion order behind a RWMutex. It
// intentionally favors clarity over performance: the moderation queue is
// small and every operation is a short critical section.
type InMemory struct {
	mu       sync.RWMutex
	listings []models.Listing
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Insert(ctx context.Context, fields models.Fields) (models.Listing, error) {
	if err := fields.Validate(); err != nil {
		return models.Listing{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	listing := models.Listing{
		ID:          s.nextIDLocked(),
		Title:       fields.Title,
		Description: fields.Description,
		Location:    fields.Location,
		Price:       fields.Price,
		Features:    append([]string(nil), fields.Features...),
		Status:      models.StatusPending,
		SubmittedAt: requestcontext.Now(ctx),
	}
	s.listings = append(s.listings, listing)
	return listing.Clone(), nil
}

// nextIDLocked returns max existing id + 1, or 1 for an empty store. IDs stay
// unique for the store's lifetime because listings are never removed.
func (s *InMemory) nextIDLocked() int {
	next := 1
	for _, l := range s.listings {
		if l.ID >= next {
			next = l.ID + 1
		}
	}
	return next
}

func (s *InMemory) FindByID(_ context.Context, id int) (models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.listings {
		if l.ID == id {
			return l.Clone(), nil
		}
	}
	return models.Listing{}, sentinel.ErrNotFound
}

func (s *InMemory) ReplaceFields(_ context.Context, id int, upd models.Update) (models.Listing, models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.listings {
		if s.listings[i].ID != id {
			continue
		}
		old := s.listings[i].Clone()
		upd.Apply(&s.listings[i])
		return old, s.listings[i].Clone(), nil
	}
	return models.Listing{}, models.Listing{}, sentinel.ErrNotFound
}

func (s *InMemory) PatchStatus(_ context.Context, id int, status string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.listings {
		if s.listings[i].ID != id {
			continue
		}
		oldStatus := s.listings[i].Status
		s.listings[i].Status = status
		return oldStatus, status, nil
	}
	return "", "", sentinel.ErrNotFound
}

func (s *InMemory) Snapshot(_ context.Context) ([]models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]models.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		snapshot = append(snapshot, l.Clone())
	}
	return snapshot, nil
}

func (s *InMemory) Seed(_ context.Context, listings []models.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listings = make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		s.listings = append(s.listings, l.Clone())
	}
	return nil
}
