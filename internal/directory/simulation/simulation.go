// Package simulation implements every directory port against in-memory
// fixtures so the whole offboarding pipeline can run without touching a real
// directory, mailbox system, or license service. Enabled by the simulation
// config toggle; also the workhorse of the engine's unit tests.
package simulation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"offramp/internal/audittrail"
	"offramp/internal/directory"
	"offramp/pkg/domain"
	"offramp/pkg/platform/secrets"
	"offramp/pkg/platform/sentinel"
)

// account is the simulated directory's view of one identity.
type account struct {
	identity       domain.Identity
	signInDisabled bool
	credentialHash string
	groups         []directory.Group
	calendars      []audittrail.CalendarPermission
	quarantined    bool
	holdUntil      time.Time
	licensed       bool
}

// Directory is a fixture-backed implementation of all collaborator ports.
type Directory struct {
	mu       sync.Mutex
	scope    string
	accounts map[domain.PrincipalName]*account

	// Unavailable makes every call fail, for exercising fatal cycle paths.
	Unavailable bool
}

// New builds an empty simulated directory for the given scope.
func New(scope string) *Directory {
	return &Directory{
		scope:    scope,
		accounts: make(map[domain.PrincipalName]*account),
	}
}

// Seed registers a disabled, licensed identity with a default access
// snapshot, returning the identity for convenience.
func (d *Directory) Seed(name domain.PrincipalName) domain.Identity {
	d.mu.Lock()
	defer d.mu.Unlock()

	ident := domain.Identity{PrincipalID: domain.NewPrincipalID(), PrincipalName: name}
	d.accounts[name] = &account{
		identity: ident,
		licensed: true,
		groups: []directory.Group{
			{Name: "grp-all-staff"},
			{Name: "grp-mfa-enrolled", SecondFactor: true},
			{Name: "dl-announcements", MailEnabled: true},
		},
		calendars: []audittrail.CalendarPermission{
			{Mailbox: "team-shared", Trustee: name.String(), AccessRights: []string{"Editor"}},
		},
	}
	return ident
}

// SeedUnresolvable registers an identity that has an ID but no principal
// name, as stale directory entries sometimes do.
func (d *Directory) SeedUnresolvable() domain.Identity {
	d.mu.Lock()
	defer d.mu.Unlock()

	ident := domain.Identity{PrincipalID: domain.NewPrincipalID()}
	key := domain.PrincipalName(ident.PrincipalID.String())
	d.accounts[key] = &account{identity: ident, licensed: true}
	return ident
}

// ReleaseLicense marks a principal's license as reclaimed, so verification
// sees the phase as complete.
func (d *Directory) ReleaseLicense(name domain.PrincipalName) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if acct, ok := d.accounts[name]; ok {
		acct.licensed = false
	}
}

// HoldUntil reports the hold expiry recorded for a principal.
func (d *Directory) HoldUntil(name domain.PrincipalName) (time.Time, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	acct, ok := d.accounts[name]
	if !ok {
		return time.Time{}, false
	}
	return acct.holdUntil, !acct.holdUntil.IsZero()
}

// Quarantined reports whether the principal was moved to the quarantine
// scope.
func (d *Directory) Quarantined(name domain.PrincipalName) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	acct, ok := d.accounts[name]
	return ok && acct.quarantined
}

func (d *Directory) get(name domain.PrincipalName) (*account, error) {
	acct, ok := d.accounts[name]
	if !ok {
		return nil, fmt.Errorf("principal %s: %w", name, sentinel.ErrNotFound)
	}
	return acct, nil
}

func (d *Directory) check() error {
	if d.Unavailable {
		return fmt.Errorf("simulated directory offline: %w", sentinel.ErrUnavailable)
	}
	return nil
}

// --- EligibleSource ---

func (d *Directory) DisabledInScope(_ context.Context, scope string) ([]domain.Identity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return nil, err
	}
	if scope != d.scope {
		return nil, nil
	}
	out := make([]domain.Identity, 0, len(d.accounts))
	for _, acct := range d.accounts {
		out = append(out, acct.identity)
	}
	return out, nil
}

// --- PhaseCompletion ---

func (d *Directory) LicenseHolders(_ context.Context, _ []string) (map[domain.PrincipalName]bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return nil, err
	}
	holders := make(map[domain.PrincipalName]bool)
	for name, acct := range d.accounts {
		if acct.licensed {
			holders[name] = true
		}
	}
	return holders, nil
}

// --- PhaseAction ---

func (d *Directory) ApplyHold(_ context.Context, principal domain.PrincipalName, duration time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return err
	}
	acct, err := d.get(principal)
	if err != nil {
		return err
	}
	// Idempotent: a hold already in place is left alone.
	if acct.holdUntil.IsZero() {
		acct.holdUntil = time.Now().Add(duration)
	}
	return nil
}

// --- AccessReader ---

func (d *Directory) GroupsOf(_ context.Context, principal domain.PrincipalName) ([]directory.Group, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return nil, err
	}
	acct, err := d.get(principal)
	if err != nil {
		return nil, err
	}
	return append([]directory.Group{}, acct.groups...), nil
}

func (d *Directory) CalendarPermissionsOf(_ context.Context, principal domain.PrincipalName) ([]audittrail.CalendarPermission, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return nil, err
	}
	acct, err := d.get(principal)
	if err != nil {
		return nil, err
	}
	return append([]audittrail.CalendarPermission{}, acct.calendars...), nil
}

// --- AccessRevoker ---

func (d *Directory) DisableSignIn(_ context.Context, principal domain.PrincipalName) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return err
	}
	acct, err := d.get(principal)
	if err != nil {
		return err
	}
	acct.signInDisabled = true
	return nil
}

func (d *Directory) ResetCredential(_ context.Context, principal domain.PrincipalName, secret string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return err
	}
	acct, err := d.get(principal)
	if err != nil {
		return err
	}
	// Store like a real directory would: never the plaintext.
	hash, err := secrets.Hash(secret)
	if err != nil {
		return err
	}
	acct.credentialHash = hash
	return nil
}

func (d *Directory) RemoveFromGroup(_ context.Context, principal domain.PrincipalName, group string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return err
	}
	acct, err := d.get(principal)
	if err != nil {
		return err
	}
	for i, g := range acct.groups {
		if g.Name == group {
			acct.groups = append(acct.groups[:i], acct.groups[i+1:]...)
			return nil
		}
	}
	// Already gone: idempotent.
	return nil
}

func (d *Directory) RevokeCalendarPermission(_ context.Context, principal domain.PrincipalName, mailbox string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return err
	}
	acct, err := d.get(principal)
	if err != nil {
		return err
	}
	for i, c := range acct.calendars {
		if c.Mailbox == mailbox {
			acct.calendars = append(acct.calendars[:i], acct.calendars[i+1:]...)
			return nil
		}
	}
	return nil
}

func (d *Directory) MoveToQuarantine(_ context.Context, principal domain.PrincipalName) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(); err != nil {
		return err
	}
	acct, err := d.get(principal)
	if err != nil {
		return err
	}
	acct.quarantined = true
	return nil
}
