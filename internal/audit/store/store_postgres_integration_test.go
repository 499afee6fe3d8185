//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"modqueue/internal/audit"
	"modqueue/pkg/testutil/containers"
)

type PostgresAuditSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *Postgres
	ctx   context.Context
}

func TestPostgresAuditSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresAuditSuite))
}

func (s *PostgresAuditSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = NewPostgres(s.pg.DB)
	s.Require().NoError(s.store.EnsureSchema(s.ctx))
}

func (s *PostgresAuditSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx, "audit_events"))
}

func (s *PostgresAuditSuite) append(listingID int, action string) audit.Event {
	event, err := s.store.Append(s.ctx, audit.Event{
		ListingID: listingID,
		Action:    action,
		AdminUser: "Admin User",
		Timestamp: time.Now(),
	})
	s.Require().NoError(err)
	return event
}

func (s *PostgresAuditSuite) TestAppendAssignsSequentialIDs() {
	first := s.append(1, "approved")
	second := s.append(1, "rejected")
	s.Equal(1, first.ID)
	s.Equal(2, second.ID)
}

func (s *PostgresAuditSuite) TestAppendPersistsSnapshots() {
	_, err := s.store.Append(s.ctx, audit.Event{
		ListingID: 3,
		Action:    audit.ActionUpdated,
		AdminUser: "Admin User",
		Timestamp: time.Now(),
		Changes:   map[string]any{"title": "new title"},
		OldValues: map[string]any{"title": "old title"},
	})
	s.Require().NoError(err)

	events, total, _, err := s.store.List(s.ctx, 1, 10)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Require().Len(events, 1)
	s.Equal(map[string]any{"title": "new title"}, events[0].Changes)
	s.Equal(map[string]any{"title": "old title"}, events[0].OldValues)
}

func (s *PostgresAuditSuite) TestAppendPersistsStatusTransition() {
	_, err := s.store.Append(s.ctx, audit.Event{
		ListingID: 2,
		Action:    "approved",
		AdminUser: "Admin User",
		Timestamp: time.Now(),
		OldStatus: "pending",
		NewStatus: "approved",
	})
	s.Require().NoError(err)

	events, _, _, err := s.store.List(s.ctx, 1, 10)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("pending", events[0].OldStatus)
	s.Equal("approved", events[0].NewStatus)
	s.Nil(events[0].Changes)
}

func (s *PostgresAuditSuite) TestListPagesNewestFirst() {
	for i := 1; i <= 5; i++ {
		s.append(i, "approved")
	}

	events, total, totalPages, err := s.store.List(s.ctx, 1, 2)
	s.Require().NoError(err)
	s.Equal(5, total)
	s.Equal(3, totalPages)
	s.Require().Len(events, 2)
	s.Equal(5, events[0].ID)
	s.Equal(4, events[1].ID)

	events, _, _, err = s.store.List(s.ctx, 3, 2)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(1, events[0].ID)
}

func (s *PostgresAuditSuite) TestListOutOfRangeIsEmpty() {
	s.append(1, "approved")

	events, total, _, err := s.store.List(s.ctx, 9, 10)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Empty(events)
}

func (s *PostgresAuditSuite) TestSeedThenAppendContinuesIDs() {
	s.Require().NoError(s.store.Seed(s.ctx, []audit.Event{
		{ID: 1, ListingID: 1, Action: "approved", AdminUser: "Admin User", Timestamp: time.Now()},
		{ID: 2, ListingID: 2, Action: "rejected", AdminUser: "Manager User", Timestamp: time.Now()},
	}))

	event := s.append(3, "approved")
	s.Equal(3, event.ID)
}
