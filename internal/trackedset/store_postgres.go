package trackedset

import (
	"context"
	"database/sql"
	"fmt"

	"offramp/pkg/domain"
)

// PostgresStore persists the tracked set in PostgreSQL. Save replaces the
// whole set inside one transaction, matching the whole-document semantics of
// the file store.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the backing table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tracked_principals (
			position  BIGSERIAL PRIMARY KEY,
			principal TEXT NOT NULL UNIQUE
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure tracked_principals schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (*Set, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT principal FROM tracked_principals ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("load tracked set: %w", err)
	}
	defer rows.Close()

	set := NewSet()
	for rows.Next() {
		var principal string
		if err := rows.Scan(&principal); err != nil {
			return nil, fmt.Errorf("scan tracked principal: %w", err)
		}
		set.Add(domain.PrincipalName(principal))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracked set: %w", err)
	}
	return set, nil
}

func (s *PostgresStore) Save(ctx context.Context, set *Set) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tracked set save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `TRUNCATE tracked_principals RESTART IDENTITY`); err != nil {
		return fmt.Errorf("clear tracked set: %w", err)
	}
	for _, name := range set.Names() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tracked_principals (principal) VALUES ($1)`, name.String(),
		); err != nil {
			return fmt.Errorf("save tracked principal %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tracked set save: %w", err)
	}
	return nil
}
