package domain

import (
	"strings"

	"github.com/google/uuid"
)

// PrincipalID is the directory-assigned identifier of an account. It is
// unique within one directory but not portable across the external systems
// that own the later offboarding phases.
type PrincipalID uuid.UUID

// NewPrincipalID returns a fresh random PrincipalID.
func NewPrincipalID() PrincipalID {
	return PrincipalID(uuid.New())
}

// ParsePrincipalID parses the string form of a PrincipalID.
func ParsePrincipalID(s string) (PrincipalID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return PrincipalID{}, err
	}
	return PrincipalID(id), nil
}

func (p PrincipalID) String() string {
	return uuid.UUID(p).String()
}

// IsNil returns true if the principal ID is the zero UUID.
func (p PrincipalID) IsNil() bool {
	return uuid.UUID(p) == uuid.Nil
}

// PrincipalName is the stable cross-system join key for an identity.
// Every external system involved in offboarding (directory, licensing,
// legal hold) addresses the same person by this value, so all set
// membership and delta computation key on it.
type PrincipalName string

func (n PrincipalName) String() string {
	return string(n)
}

// IsNil returns true if the principal name is empty or whitespace.
// Identities without a resolvable name cannot be deduplicated safely and
// must never enter a tracked or delta set.
func (n PrincipalName) IsNil() bool {
	return strings.TrimSpace(string(n)) == ""
}

// Identity is a directory principal representing a person's access account.
type Identity struct {
	PrincipalID   PrincipalID
	PrincipalName PrincipalName
}
