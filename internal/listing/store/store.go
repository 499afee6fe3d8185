// Package store owns the mutable collection of listings. Two implementations
// share one contract: InMemory (the default) and Postgres.
package store

import (
	"context"

	"modqueue/internal/listing/models"
)

// Store is the record store contract. Every mutation returns the snapshots a
// caller needs to build its audit event without a second read.
type Store interface {
	// Insert assigns the next id, defaults status to pending, stamps the
	// submission time, and returns the stored copy.
	Insert(ctx context.Context, fields models.Fields) (models.Listing, error)

	// FindByID returns the listing or sentinel.ErrNotFound.
	FindByID(ctx context.Context, id int) (models.Listing, error)

	// ReplaceFields merges the present fields of upd onto the listing and
	// returns both the pre- and post-mutation snapshots.
	ReplaceFields(ctx context.Context, id int, upd models.Update) (old, updated models.Listing, err error)

	// PatchStatus overwrites only the status field. The new value is stored
	// as-is, known workflow state or not.
	PatchStatus(ctx context.Context, id int, status string) (oldStatus, newStatus string, err error)

	// Snapshot returns a copy of every listing for the query engine.
	Snapshot(ctx context.Context) ([]models.Listing, error)

	// Seed replaces the store contents. Called once at startup and by tests;
	// replaces the source system's lazy re-seed of its global state.
	Seed(ctx context.Context, listings []models.Listing) error
}
