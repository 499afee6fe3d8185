package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"modqueue/internal/audit"
	"modqueue/pkg/requestcontext"
)

type AuditStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *AuditStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestAuditStoreSuite(t *testing.T) {
	suite.Run(t, new(AuditStoreSuite))
}

func (s *AuditStoreSuite) appendN(n int) {
	for i := 0; i < n; i++ {
		_, err := s.store.Append(s.ctx, audit.Event{
			ListingID: i + 1,
			Action:    audit.ActionUpdated,
			AdminUser: fmt.Sprintf("admin-%d", i+1),
		})
		s.Require().NoError(err)
	}
}

func (s *AuditStoreSuite) TestAppend() {
	s.Run("assigns sequential ids", func() {
		first, err := s.store.Append(s.ctx, audit.Event{ListingID: 1, Action: "approved"})
		s.Require().NoError(err)
		second, err := s.store.Append(s.ctx, audit.Event{ListingID: 2, Action: "rejected"})
		s.Require().NoError(err)

		s.Equal(1, first.ID)
		s.Equal(2, second.ID)
	})

	s.Run("stamps the request-scoped time when the event carries none", func() {
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		event, err := s.store.Append(requestcontext.WithTime(s.ctx, now), audit.Event{ListingID: 1, Action: "approved"})
		s.Require().NoError(err)
		s.Equal(now, event.Timestamp)
	})

	s.Run("keeps a caller-supplied timestamp", func() {
		ts := time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC)
		event, err := s.store.Append(s.ctx, audit.Event{ListingID: 1, Action: "approved", Timestamp: ts})
		s.Require().NoError(err)
		s.Equal(ts, event.Timestamp)
	})
}

func (s *AuditStoreSuite) TestList() {
	s.Run("page one holds the most recent events, newest first", func() {
		s.SetupTest()
		s.appendN(5)

		events, total, totalPages, err := s.store.List(s.ctx, 1, 2)
		s.Require().NoError(err)
		s.Equal(5, total)
		s.Equal(3, totalPages)
		s.Require().Len(events, 2)
		s.Equal(5, events[0].ID)
		s.Equal(4, events[1].ID)
	})

	s.Run("concatenating pages walks the full trail without gaps", func() {
		s.SetupTest()
		s.appendN(5)

		var ids []int
		for page := 1; page <= 3; page++ {
			events, _, _, err := s.store.List(s.ctx, page, 2)
			s.Require().NoError(err)
			for _, e := range events {
				ids = append(ids, e.ID)
			}
		}
		s.Equal([]int{5, 4, 3, 2, 1}, ids)
	})

	s.Run("out-of-range page yields no events and no error", func() {
		s.SetupTest()
		s.appendN(3)

		events, total, _, err := s.store.List(s.ctx, 7, 10)
		s.Require().NoError(err)
		s.Empty(events)
		s.Equal(3, total)
	})

	s.Run("default limit applies when the caller supplies none", func() {
		s.SetupTest()
		s.appendN(DefaultLimit + 5)

		events, _, totalPages, err := s.store.List(s.ctx, 1, 0)
		s.Require().NoError(err)
		s.Len(events, DefaultLimit)
		s.Equal(2, totalPages)
	})
}

func (s *AuditStoreSuite) TestSeed() {
	s.Require().NoError(s.store.Seed(s.ctx, []audit.Event{
		{ID: 1, ListingID: 2, Action: "approved", OldStatus: "pending", NewStatus: "approved"},
		{ID: 2, ListingID: 3, Action: "rejected", OldStatus: "pending", NewStatus: "rejected"},
	}))

	events, total, _, err := s.store.List(s.ctx, 1, 10)
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Equal(2, events[0].ID)

	// Appends continue the seeded sequence.
	next, err := s.store.Append(s.ctx, audit.Event{ListingID: 1, Action: "approved"})
	s.Require().NoError(err)
	s.Equal(3, next.ID)
}
