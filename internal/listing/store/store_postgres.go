package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"modqueue/internal/listing/models"
	"modqueue/pkg/platform/sentinel"
	txcontext "modqueue/pkg/platform/tx"
	"modqueue/pkg/requestcontext"
)

// Postgres implements Store on a listings table. Mutations run on the
// transaction carried in the context when the workflow service pairs them
// with an audit append.
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

// EnsureSchema creates the listings table when missing. Called once at
// startup; no migration tooling for a single table.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS listings (
			id           INTEGER PRIMARY KEY,
			title        TEXT NOT NULL,
			description  TEXT NOT NULL,
			location     TEXT NOT NULL,
			price        DOUBLE PRECISION NOT NULL,
			features     TEXT[] NOT NULL DEFAULT '{}',
			status       TEXT NOT NULL,
			submitted_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure listings schema: %w", err)
	}
	return nil
}

const listingColumns = "id, title, description, location, price, features, status, submitted_at"

func scanListing(row interface{ Scan(...any) error }) (models.Listing, error) {
	var l models.Listing
	err := row.Scan(&l.ID, &l.Title, &l.Description, &l.Location, &l.Price,
		pq.Array(&l.Features), &l.Status, &l.SubmittedAt)
	return l, err
}

func (s *Postgres) Insert(ctx context.Context, fields models.Fields) (models.Listing, error) {
	if err := fields.Validate(); err != nil {
		return models.Listing{}, err
	}

	// Single statement keeps max(id)+1 assignment atomic.
	row := s.execer(ctx).QueryRowContext(ctx, `
		INSERT INTO listings (id, title, description, location, price, features, status, submitted_at)
		VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM listings), $1, $2, $3, $4, $5, $6, $7)
		RETURNING `+listingColumns,
		fields.Title, fields.Description, fields.Location, fields.Price,
		pq.Array(fields.Features), models.StatusPending, requestcontext.Now(ctx))

	listing, err := scanListing(row)
	if err != nil {
		return models.Listing{}, fmt.Errorf("insert listing: %w", err)
	}
	return listing, nil
}

func (s *Postgres) FindByID(ctx context.Context, id int) (models.Listing, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		"SELECT "+listingColumns+" FROM listings WHERE id = $1", id)
	listing, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Listing{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Listing{}, fmt.Errorf("find listing: %w", err)
	}
	return listing, nil
}

func (s *Postgres) ReplaceFields(ctx context.Context, id int, upd models.Update) (models.Listing, models.Listing, error) {
	execer := s.execer(ctx)

	row := execer.QueryRowContext(ctx,
		"SELECT "+listingColumns+" FROM listings WHERE id = $1 FOR UPDATE", id)
	old, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Listing{}, models.Listing{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Listing{}, models.Listing{}, fmt.Errorf("lock listing: %w", err)
	}

	updated := old.Clone()
	upd.Apply(&updated)

	_, err = execer.ExecContext(ctx, `
		UPDATE listings
		SET title = $2, description = $3, location = $4, price = $5, features = $6, status = $7
		WHERE id = $1`,
		id, updated.Title, updated.Description, updated.Location, updated.Price,
		pq.Array(updated.Features), updated.Status)
	if err != nil {
		return models.Listing{}, models.Listing{}, fmt.Errorf("update listing: %w", err)
	}
	return old, updated, nil
}

func (s *Postgres) PatchStatus(ctx context.Context, id int, status string) (string, string, error) {
	execer := s.execer(ctx)

	var oldStatus string
	err := execer.QueryRowContext(ctx,
		"SELECT status FROM listings WHERE id = $1 FOR UPDATE", id).Scan(&oldStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", "", fmt.Errorf("lock listing status: %w", err)
	}

	if _, err := execer.ExecContext(ctx,
		"UPDATE listings SET status = $2 WHERE id = $1", id, status); err != nil {
		return "", "", fmt.Errorf("patch listing status: %w", err)
	}
	return oldStatus, status, nil
}

func (s *Postgres) Snapshot(ctx context.Context) ([]models.Listing, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		"SELECT "+listingColumns+" FROM listings ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("snapshot listings: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (s *Postgres) Seed(ctx context.Context, listings []models.Listing) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() { _ = dbTx.Rollback() }()

	if _, err := dbTx.ExecContext(ctx, "TRUNCATE listings"); err != nil {
		return fmt.Errorf("truncate listings: %w", err)
	}
	for _, l := range listings {
		_, err := dbTx.ExecContext(ctx, `
			INSERT INTO listings (id, title, description, location, price, features, status, submitted_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			l.ID, l.Title, l.Description, l.Location, l.Price,
			pq.Array(l.Features), l.Status, l.SubmittedAt)
		if err != nil {
			return fmt.Errorf("seed listing %d: %w", l.ID, err)
		}
	}
	return dbTx.Commit()
}
