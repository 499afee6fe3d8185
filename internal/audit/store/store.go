// Package store persists the audit trail. Memory and Postgres
// implementations share one contract.
package store

import (
	"context"

	"modqueue/internal/audit"
)

// DefaultLimit is the audit page size when the caller supplies none.
const DefaultLimit = 20

// Store is the append-only audit trail contract. Events are never mutated or
// deleted once written.
type Store interface {
	// Append assigns the next id (count+1), stamps the timestamp when the
	// event carries none, and returns the stored copy.
	Append(ctx context.Context, event audit.Event) (audit.Event, error)

	// List returns one page in reverse chronological order (page 1 holds
	// the most recently appended events), with the total count and page
	// count after the same arithmetic as the listing queue.
	List(ctx context.Context, page, limit int) (events []audit.Event, totalItems, totalPages int, err error)

	// Seed replaces the trail contents. Startup and test use only.
	Seed(ctx context.Context, events []audit.Event) error
}
