// Package service orchestrates the two mutating entry points of the
// moderation workflow, pairing every listing mutation with exactly one audit
// event.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"modqueue/internal/audit"
	"modqueue/internal/listing/models"
	"modqueue/internal/listing/query"
	"modqueue/internal/platform/metrics"
	dErrors "modqueue/pkg/domain-errors"
	"modqueue/pkg/platform/sentinel"
	txcontext "modqueue/pkg/platform/tx"
)

// ListingStore is the record store as the workflow sees it.
type ListingStore interface {
	Insert(ctx context.Context, fields models.Fields) (models.Listing, error)
	FindByID(ctx context.Context, id int) (models.Listing, error)
	ReplaceFields(ctx context.Context, id int, upd models.Update) (old, updated models.Listing, err error)
	PatchStatus(ctx context.Context, id int, status string) (oldStatus, newStatus string, err error)
	Snapshot(ctx context.Context) ([]models.Listing, error)
}

// AuditStore is the audit trail as the workflow sees it.
type AuditStore interface {
	Append(ctx context.Context, event audit.Event) (audit.Event, error)
	List(ctx context.Context, page, limit int) (events []audit.Event, totalItems, totalPages int, err error)
}

// Service is the workflow controller. It holds no record state of its own;
// everything goes through the two stores.
type Service struct {
	// mu serializes each mutation+audit pair as one unit. Store operations
	// are in-memory (or one short transaction), so the critical section
	// never suspends.
	mu sync.Mutex

	listings ListingStore
	audits   AuditStore
	tx       txcontext.Runner
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTxRunner wires the SQL transaction runner when the stores are
// Postgres-backed, so a mutation and its audit event commit together.
func WithTxRunner(runner txcontext.Runner) Option {
	return func(s *Service) { s.tx = runner }
}

// New constructs the workflow controller.
func New(listings ListingStore, audits AuditStore, opts ...Option) *Service {
	s := &Service{
		listings: listings,
		audits:   audits,
		tx:       txcontext.NopRunner{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create inserts a new listing in pending state.
func (s *Service) Create(ctx context.Context, fields models.Fields) (models.Listing, error) {
	listing, err := s.listings.Insert(ctx, fields)
	if err != nil {
		return models.Listing{}, err
	}

	s.metrics.IncrementListingsCreated()
	s.logger.InfoContext(ctx, "listing created", "listing_id", listing.ID)
	return listing, nil
}

// Get returns one listing by id.
func (s *Service) Get(ctx context.Context, id int) (models.Listing, error) {
	listing, err := s.listings.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Listing{}, dErrors.New(dErrors.CodeNotFound, "listing not found")
	}
	if err != nil {
		return models.Listing{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load listing")
	}
	return listing, nil
}

// Query pages through the queue with the caller's filter and search.
func (s *Service) Query(ctx context.Context, params query.Params) (query.Result, error) {
	start := time.Now()
	snapshot, err := s.listings.Snapshot(ctx)
	if err != nil {
		return query.Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read listings")
	}
	result := query.List(snapshot, params)
	s.metrics.ObserveQuery(start)
	return result, nil
}

// Edit merges the present fields of upd onto the listing and records the
// mutation. The edit and its audit event become visible together or not at
// all.
func (s *Service) Edit(ctx context.Context, id int, upd models.Update, adminUser string) (models.Listing, error) {
	if err := upd.Validate(); err != nil {
		return models.Listing{}, err
	}
	if upd.IsEmpty() {
		return models.Listing{}, dErrors.New(dErrors.CodeValidation, "no fields to update")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var updated models.Listing
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		old, result, err := s.listings.ReplaceFields(txCtx, id, upd)
		if err != nil {
			return err
		}
		_, err = s.audits.Append(txCtx, audit.Event{
			ListingID: id,
			Action:    audit.ActionUpdated,
			AdminUser: actingUser(adminUser),
			Changes:   upd.Fields(),
			OldValues: old.AsMap(),
		})
		if err != nil {
			return err
		}
		updated = result
		return nil
	})
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Listing{}, dErrors.New(dErrors.CodeNotFound, "listing not found")
	}
	if err != nil {
		return models.Listing{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update listing")
	}

	s.metrics.IncrementListingsUpdated()
	s.metrics.IncrementAuditAppended()
	s.logger.InfoContext(ctx, "listing updated", "listing_id", id, "admin_user", actingUser(adminUser))
	return updated, nil
}

// ChangeStatus overwrites the listing's status and records the transition.
// Transitions are unrestricted: any state may move to any other state, and
// the new value is stored even when it is not one of the known states.
func (s *Service) ChangeStatus(ctx context.Context, id int, newStatus, adminUser string) (models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated models.Listing
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		oldStatus, _, err := s.listings.PatchStatus(txCtx, id, newStatus)
		if err != nil {
			return err
		}
		_, err = s.audits.Append(txCtx, audit.Event{
			ListingID: id,
			Action:    newStatus,
			AdminUser: actingUser(adminUser),
			OldStatus: oldStatus,
			NewStatus: newStatus,
		})
		if err != nil {
			return err
		}
		updated, err = s.listings.FindByID(txCtx, id)
		return err
	})
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Listing{}, dErrors.New(dErrors.CodeNotFound, "listing not found")
	}
	if err != nil {
		return models.Listing{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to change listing status")
	}

	s.metrics.IncrementStatusChanges(newStatus)
	s.metrics.IncrementAuditAppended()
	s.logger.InfoContext(ctx, "listing status changed",
		"listing_id", id, "new_status", newStatus, "admin_user", actingUser(adminUser))
	return updated, nil
}

// AuditPage is one page of the trail, most recent first.
type AuditPage struct {
	Items      []audit.Event
	TotalItems int
	TotalPages int
}

// QueryAudit pages through the audit trail in reverse chronological order.
func (s *Service) QueryAudit(ctx context.Context, page, limit int) (AuditPage, error) {
	events, totalItems, totalPages, err := s.audits.List(ctx, page, limit)
	if err != nil {
		return AuditPage{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read audit trail")
	}
	return AuditPage{Items: events, TotalItems: totalItems, TotalPages: totalPages}, nil
}

func actingUser(adminUser string) string {
	if strings.TrimSpace(adminUser) == "" {
		return audit.UnknownAdmin
	}
	return adminUser
}
