package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"modqueue/internal/audit"
	"modqueue/pkg/pagination"
	txcontext "modqueue/pkg/platform/tx"
	"modqueue/pkg/requestcontext"
)

// Postgres implements Store on an audit_events table. Appends run on the
// transaction carried in the context when the workflow service pairs them
// with a listing mutation.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// EnsureSchema creates the audit_events table when missing.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS audit_events (
			id         INTEGER PRIMARY KEY,
			listing_id INTEGER NOT NULL,
			action     TEXT NOT NULL,
			admin_user TEXT NOT NULL,
			ts         TIMESTAMPTZ NOT NULL,
			changes    JSONB,
			old_values JSONB,
			old_status TEXT NOT NULL DEFAULT '',
			new_status TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

func (s *Postgres) Append(ctx context.Context, event audit.Event) (audit.Event, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}

	changes, oldValues, err := marshalSnapshots(event)
	if err != nil {
		return audit.Event{}, err
	}

	err = s.execer(ctx).QueryRowContext(ctx, `
		INSERT INTO audit_events (id, listing_id, action, admin_user, ts, changes, old_values, old_status, new_status)
		VALUES ((SELECT COUNT(*) + 1 FROM audit_events), $1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		event.ListingID, event.Action, event.AdminUser, event.Timestamp,
		changes, oldValues, event.OldStatus, event.NewStatus).Scan(&event.ID)
	if err != nil {
		return audit.Event{}, fmt.Errorf("append audit event: %w", err)
	}
	return event, nil
}

func marshalSnapshots(event audit.Event) ([]byte, []byte, error) {
	var changes, oldValues []byte
	var err error
	if event.Changes != nil {
		if changes, err = json.Marshal(event.Changes); err != nil {
			return nil, nil, fmt.Errorf("marshal changes: %w", err)
		}
	}
	if event.OldValues != nil {
		if oldValues, err = json.Marshal(event.OldValues); err != nil {
			return nil, nil, fmt.Errorf("marshal old values: %w", err)
		}
	}
	return changes, oldValues, nil
}

func (s *Postgres) List(ctx context.Context, page, limit int) ([]audit.Event, int, int, error) {
	execer := s.execer(ctx)

	var total int
	if err := execer.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_events").Scan(&total); err != nil {
		return nil, 0, 0, fmt.Errorf("count audit events: %w", err)
	}

	page, limit = pagination.Clamp(page, limit, DefaultLimit)
	start, end := pagination.Bounds(page, limit, total)

	rows, err := execer.QueryContext(ctx, `
		SELECT id, listing_id, action, admin_user, ts, changes, old_values, old_status, new_status
		FROM audit_events
		ORDER BY id DESC
		OFFSET $1 LIMIT $2`, start, end-start)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var e audit.Event
		var changes, oldValues []byte
		if err := rows.Scan(&e.ID, &e.ListingID, &e.Action, &e.AdminUser, &e.Timestamp,
			&changes, &oldValues, &e.OldStatus, &e.NewStatus); err != nil {
			return nil, 0, 0, fmt.Errorf("scan audit event: %w", err)
		}
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &e.Changes); err != nil {
				return nil, 0, 0, fmt.Errorf("unmarshal changes: %w", err)
			}
		}
		if len(oldValues) > 0 {
			if err := json.Unmarshal(oldValues, &e.OldValues); err != nil {
				return nil, 0, 0, fmt.Errorf("unmarshal old values: %w", err)
			}
		}
		events = append(events, e)
	}
	return events, total, pagination.TotalPages(total, limit), rows.Err()
}

func (s *Postgres) Seed(ctx context.Context, events []audit.Event) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() { _ = dbTx.Rollback() }()

	if _, err := dbTx.ExecContext(ctx, "TRUNCATE audit_events"); err != nil {
		return fmt.Errorf("truncate audit events: %w", err)
	}
	for _, e := range events {
		changes, oldValues, err := marshalSnapshots(e)
		if err != nil {
			return err
		}
		_, err = dbTx.ExecContext(ctx, `
			INSERT INTO audit_events (id, listing_id, action, admin_user, ts, changes, old_values, old_status, new_status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			e.ID, e.ListingID, e.Action, e.AdminUser, e.Timestamp,
			changes, oldValues, e.OldStatus, e.NewStatus)
		if err != nil {
			return fmt.Errorf("seed audit event %d: %w", e.ID, err)
		}
	}
	return dbTx.Commit()
}
