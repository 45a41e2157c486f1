// Package directory defines the capability contracts for the external
// systems that own each offboarding phase. The engine and sequencer consume
// only these interfaces; concrete API adapters (and the simulation fixtures)
// live behind them. Timeout and retry policy belongs to implementations,
// never to the callers.
package directory

import (
	"context"
	"time"

	"offramp/internal/audittrail"
	"offramp/pkg/domain"
)

//go:generate mockgen -source=ports.go -destination=mocks/ports.go -package=mocks

// Group is one group membership as seen at snapshot time.
type Group struct {
	Name string `json:"name"`
	// MailEnabled groups are distribution lists; removal is skippable by
	// configuration because some teams keep aliases alive for handover.
	MailEnabled bool `json:"mailEnabled,omitempty"`
	// SecondFactor groups gate MFA enrollment and are always revoked.
	SecondFactor bool `json:"secondFactor,omitempty"`
}

// EligibleSource answers "which identities are currently disabled in this
// scope". Ordering of the result is not guaranteed.
type EligibleSource interface {
	DisabledInScope(ctx context.Context, scope string) ([]domain.Identity, error)
}

// PhaseCompletion reports external truth about whether the next phase has
// actually completed. A principal still appearing in the license groups has
// not finished reclamation.
type PhaseCompletion interface {
	LicenseHolders(ctx context.Context, groups []string) (map[domain.PrincipalName]bool, error)
}

// PhaseAction applies the next offboarding phase. Implementations must be
// idempotent: re-applying a hold that is already in place has no additional
// effect.
type PhaseAction interface {
	ApplyHold(ctx context.Context, principal domain.PrincipalName, duration time.Duration) error
}

// AccessReader supplies the access snapshot captured before revocation.
type AccessReader interface {
	GroupsOf(ctx context.Context, principal domain.PrincipalName) ([]Group, error)
	CalendarPermissionsOf(ctx context.Context, principal domain.PrincipalName) ([]audittrail.CalendarPermission, error)
}

// AccessRevoker holds the individually idempotent revocation capabilities
// the sequencer drives. Each method stands alone so a failed step can be
// retried without repeating the others.
type AccessRevoker interface {
	DisableSignIn(ctx context.Context, principal domain.PrincipalName) error
	ResetCredential(ctx context.Context, principal domain.PrincipalName, secret string) error
	RemoveFromGroup(ctx context.Context, principal domain.PrincipalName, group string) error
	RevokeCalendarPermission(ctx context.Context, principal domain.PrincipalName, mailbox string) error
	MoveToQuarantine(ctx context.Context, principal domain.PrincipalName) error
}
