package audittrail

import (
	"context"
)

// Store is the audit trail document. Writes replace the whole document
// atomically from the caller's perspective; a reader never observes a
// partially appended trail.
type Store interface {
	// Append adds a record to the end of the trail.
	Append(ctx context.Context, rec Record) error
	// LoadAll returns the trail in order. An absent or empty document is an
	// empty trail, never an error.
	LoadAll(ctx context.Context) ([]Record, error)
	// Rename changes the identifier of the current record holding user.
	// Returns sentinel.ErrNotFound if no such record exists.
	Rename(ctx context.Context, user, renamed string) error
	// UpdateStatus rewrites the status of the current record holding user,
	// for when steps running after the record was written change the
	// outcome. Returns sentinel.ErrNotFound if no such record exists.
	UpdateStatus(ctx context.Context, user, status string) error
}

// AppendCurrent appends rec as the current record for its identifier,
// applying the collision rule first: an existing current record under the
// same identifier is renamed with a suffix derived from its own timestamp,
// so history survives and the bare identifier always names the most recent
// disable event.
func AppendCurrent(ctx context.Context, s Store, rec Record) error {
	existing, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}
	for _, old := range existing {
		if old.User == rec.User {
			if err := s.Rename(ctx, old.User, old.Superseded()); err != nil {
				return err
			}
			break
		}
	}
	return s.Append(ctx, rec)
}
