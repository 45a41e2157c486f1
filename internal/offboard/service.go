// Package offboard runs the ordered deprovisioning sequence for one
// identity: shut off sign-in, rotate the credential, snapshot what the
// account could reach, write the audit record, then strip the access the
// snapshot captured. Every step is individually idempotent and best-effort;
// one failed step is logged and the rest still run, so a partial snapshot is
// always better than none.
package offboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"offramp/internal/audittrail"
	"offramp/internal/directory"
	"offramp/internal/events"
	"offramp/pkg/domain"
	dErrors "offramp/pkg/domain-errors"
	"offramp/pkg/platform/secrets"
)

// ErrorSink receives recoverable per-step failures.
type ErrorSink interface {
	Append(principal domain.PrincipalName, message string) error
}

// Clock is injected for deterministic record timestamps in tests.
type Clock func() time.Time

// Service is the action sequencer.
type Service struct {
	reader  directory.AccessReader
	revoker directory.AccessRevoker
	trail   audittrail.Store
	errors  ErrorSink
	events  events.Emitter
	logger  *slog.Logger
	clock   Clock

	skipMailGroups bool
	skipCalendar   bool
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the clock function for testability.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithEvents publishes one audit event per disabled identity. Publishing is
// best-effort and never affects the sequence outcome.
func WithEvents(emitter events.Emitter) Option {
	return func(s *Service) { s.events = emitter }
}

// WithSkipMailGroups leaves mail-enabled group memberships in place.
func WithSkipMailGroups(skip bool) Option {
	return func(s *Service) { s.skipMailGroups = skip }
}

// WithSkipCalendar leaves shared calendar permissions in place.
func WithSkipCalendar(skip bool) Option {
	return func(s *Service) { s.skipCalendar = skip }
}

// New constructs the sequencer.
func New(reader directory.AccessReader, revoker directory.AccessRevoker, trail audittrail.Store, errs ErrorSink, opts ...Option) (*Service, error) {
	if reader == nil || revoker == nil {
		return nil, fmt.Errorf("directory reader and revoker are required")
	}
	if trail == nil {
		return nil, fmt.Errorf("audit trail store is required")
	}
	if errs == nil {
		return nil, fmt.Errorf("error sink is required")
	}
	svc := &Service{
		reader:  reader,
		revoker: revoker,
		trail:   trail,
		errors:  errs,
		logger:  slog.Default(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Result summarizes a batch disable run.
type Result struct {
	Processed int
	Failed    int
}

// DisableAll runs the sequence for each identity independently; one
// identity's failure never blocks the others.
func (s *Service) DisableAll(ctx context.Context, identities []domain.Identity) Result {
	var res Result
	for _, ident := range identities {
		if _, err := s.Disable(ctx, ident); err != nil {
			res.Failed++
			s.logger.ErrorContext(ctx, "identity could not be processed",
				"principal_id", ident.PrincipalID.String(),
				"error", err,
			)
			continue
		}
		res.Processed++
	}
	return res
}

// Disable runs the ordered deprovisioning steps for one identity and writes
// its audit record. The returned record reflects the snapshot actually
// captured; Status is partial when any step failed. The only hard error is
// an identity that cannot be addressed at all.
func (s *Service) Disable(ctx context.Context, ident domain.Identity) (audittrail.Record, error) {
	user, err := normalize(ident.PrincipalName)
	if err != nil {
		return audittrail.Record{}, err
	}
	principal := ident.PrincipalName
	failed := 0

	step := func(name string, fn func() error) {
		if err := fn(); err != nil {
			failed++
			s.logger.WarnContext(ctx, "deprovisioning step failed",
				"step", name,
				"principal", principal.String(),
				"error", err,
			)
			_ = s.errors.Append(principal, fmt.Sprintf("%s: %v", name, err))
		}
	}

	step("disable_sign_in", func() error {
		return s.revoker.DisableSignIn(ctx, principal)
	})

	step("rotate_credential", func() error {
		secret, err := secrets.Generate()
		if err != nil {
			return err
		}
		return s.revoker.ResetCredential(ctx, principal, secret)
	})

	// Snapshot before stripping, so the record shows what the account had.
	var groups []directory.Group
	step("snapshot_groups", func() error {
		var err error
		groups, err = s.reader.GroupsOf(ctx, principal)
		return err
	})

	var calendars []audittrail.CalendarPermission
	step("snapshot_calendar_permissions", func() error {
		var err error
		calendars, err = s.reader.CalendarPermissionsOf(ctx, principal)
		return err
	})

	rec := audittrail.Record{
		User:                user,
		PrincipalName:       principal,
		Status:              audittrail.StatusDisabled,
		Timestamp:           s.clock().UTC(),
		Groups:              groupNames(groups),
		CalendarPermissions: calendars,
	}

	persisted := false
	step("persist_audit_record", func() error {
		// Partial or not, the snapshot captured so far is written. The
		// collision rule renames any existing current record first.
		if failed > 0 {
			rec.Status = audittrail.StatusPartial
		}
		if err := audittrail.AppendCurrent(ctx, s.trail, rec); err != nil {
			return err
		}
		persisted = true
		return nil
	})

	for _, g := range groups {
		switch {
		case g.SecondFactor:
			group := g.Name
			step("remove_mfa_group", func() error {
				return s.revoker.RemoveFromGroup(ctx, principal, group)
			})
		case g.MailEnabled:
			if s.skipMailGroups {
				continue
			}
			group := g.Name
			step("remove_mail_group", func() error {
				return s.revoker.RemoveFromGroup(ctx, principal, group)
			})
		}
	}

	if !s.skipCalendar {
		for _, c := range calendars {
			mailbox := c.Mailbox
			step("revoke_calendar_permission", func() error {
				return s.revoker.RevokeCalendarPermission(ctx, principal, mailbox)
			})
		}
	}

	step("move_to_quarantine", func() error {
		return s.revoker.MoveToQuarantine(ctx, principal)
	})

	// Steps after the persist point can still fail; the stored record has to
	// report the outcome of the whole sequence, not just the snapshot phase.
	if persisted && failed > 0 && rec.Status != audittrail.StatusPartial {
		step("update_audit_status", func() error {
			return s.trail.UpdateStatus(ctx, user, audittrail.StatusPartial)
		})
	}

	if failed > 0 {
		rec.Status = audittrail.StatusPartial
		s.logger.WarnContext(ctx, "identity disabled with failures",
			"principal", principal.String(),
			"failed_steps", failed,
		)
	} else {
		s.logger.InfoContext(ctx, "identity disabled",
			"principal", principal.String(),
		)
	}
	if s.events != nil {
		_ = s.events.Emit(ctx, events.Event{
			Action:    events.ActionIdentityDisabled,
			Principal: principal,
			Timestamp: rec.Timestamp,
			Detail:    fmt.Sprintf("status=%s failed_steps=%d", rec.Status, failed),
		})
	}
	return rec, nil
}

// normalize derives the audit record identifier from the principal name:
// the lowercased local part, matching how the directory names accounts.
func normalize(principal domain.PrincipalName) (string, error) {
	name := strings.TrimSpace(strings.ToLower(principal.String()))
	if name == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity has no resolvable principal name")
	}
	if at := strings.IndexByte(name, '@'); at > 0 {
		name = name[:at]
	}
	return name, nil
}

func groupNames(groups []directory.Group) []string {
	if len(groups) == 0 {
		return nil
	}
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return names
}
