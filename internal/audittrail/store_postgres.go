package audittrail

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"offramp/pkg/platform/sentinel"
)

// PostgresStore persists the trail in PostgreSQL with the full snapshot as a
// JSONB payload, so arbitrarily nested permission snapshots survive without
// schema churn. Insertion order is the trail order.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed audit trail store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the backing table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS audit_records (
			position   BIGSERIAL PRIMARY KEY,
			user_key   TEXT NOT NULL,
			payload    JSONB NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure audit_records schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode audit record: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audit_records (user_key, payload) VALUES ($1, $2)`,
		rec.User, payload,
	)
	if err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}

func (s *PostgresStore) LoadAll(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM audit_records ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("load audit trail: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		var rec Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("decode audit record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit trail: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) Rename(ctx context.Context, user, renamed string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE audit_records
		SET user_key = $2,
		    payload = jsonb_set(payload, '{user}', to_jsonb($2::text))
		WHERE user_key = $1
	`, user, renamed)
	if err != nil {
		return fmt.Errorf("rename audit record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename audit record: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("rename audit record %s: %w", user, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, user, status string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE audit_records
		SET payload = jsonb_set(payload, '{status}', to_jsonb($2::text))
		WHERE user_key = $1
	`, user, status)
	if err != nil {
		return fmt.Errorf("update audit record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update audit record: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update audit record %s: %w", user, sentinel.ErrNotFound)
	}
	return nil
}
