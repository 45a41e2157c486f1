// Package audittrail persists the deprovisioning audit trail: one record per
// disable event, holding a snapshot of everything the account could reach at
// the moment it was shut off. Records are superseded by renaming, never
// deleted, so the trail is the system of record for "who had what, when".
package audittrail

import (
	"time"

	"offramp/pkg/domain"
)

// Status values for audit records.
const (
	StatusDisabled = "disabled"
	StatusPartial  = "partial" // some deprovisioning steps failed; snapshot incomplete
)

// CollisionSuffixLayout formats the month-day-year token appended to a
// superseded record's identifier. The suffix comes from the superseded
// record's own timestamp, so the rename is deterministic and never depends
// on wall-clock parsing.
const CollisionSuffixLayout = "1-2-2006"

// Record is one audit trail entry. Immutable once superseded.
type Record struct {
	// User is the record identifier. The current record for a person keeps
	// the bare identifier; superseded records carry a date suffix.
	User          string               `json:"user"`
	PrincipalName domain.PrincipalName `json:"principalName"`
	Status        string               `json:"status"`
	Timestamp     time.Time            `json:"timestamp"`

	// Snapshot of access at disable time.
	Groups              []string             `json:"groups,omitempty"`
	CalendarPermissions []CalendarPermission `json:"calendarPermissions,omitempty"`

	BackupPath string `json:"backupPath,omitempty"`
}

// CalendarPermission is one grant on a shared mailbox or calendar. Folders
// nest, so a snapshot can be arbitrarily deep.
type CalendarPermission struct {
	Mailbox      string               `json:"mailbox"`
	Trustee      string               `json:"trustee"`
	AccessRights []string             `json:"accessRights,omitempty"`
	Folders      []CalendarPermission `json:"folders,omitempty"`
}

// Superseded returns the identifier this record takes when a newer disable
// event replaces it as current.
func (r Record) Superseded() string {
	return r.User + "_" + r.Timestamp.Format(CollisionSuffixLayout)
}
