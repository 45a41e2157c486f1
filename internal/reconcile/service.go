// Package reconcile implements the control loop that moves offboarded
// identities through the delayed phases of the lifecycle. Each cycle first
// verifies that the phase recorded as applied actually completed — evicting
// liars so they retry — then computes which identities are newly eligible
// and applies the next phase to exactly that delta.
//
// The loop is deliberately sequential: one cycle is one run-to-completion
// pass, and each identity's {action, tracked-set append, log line} forms one
// durability unit, so a crash leaves a valid prefix that the next cycle
// simply resumes from.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"offramp/internal/directory"
	"offramp/internal/events"
	"offramp/internal/platform/metrics"
	"offramp/internal/trackedset"
	"offramp/pkg/domain"
	dErrors "offramp/pkg/domain-errors"
)

// ErrorSink receives recoverable failures: one entry per verification
// failure or unresolvable identity. The report's ErrorCount is the number of
// entries written this cycle.
type ErrorSink interface {
	Append(principal domain.PrincipalName, message string) error
}

// ActionLog receives one structured line per phase application.
type ActionLog interface {
	Append(principal domain.PrincipalName, message string) error
}

// Clock is injected for deterministic report timestamps in tests.
type Clock func() time.Time

// Deps are the collaborators a cycle drives. All are required.
type Deps struct {
	Source     directory.EligibleSource
	Completion directory.PhaseCompletion
	Action     directory.PhaseAction
	Tracked    trackedset.Store
	Actions    ActionLog
	Errors     ErrorSink
}

// Config fixes the cycle's scope and phase parameters.
type Config struct {
	Scope         string
	HoldDuration  time.Duration
	LicenseGroups []string
	Simulation    bool
}

// Service runs reconciliation cycles.
type Service struct {
	deps    Deps
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	events  events.Emitter
	tracer  trace.Tracer
	clock   Clock
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

// WithMetrics enables prometheus counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithEvents publishes one audit event per eviction, per applied hold, and
// per completed cycle. Publishing is best-effort; a failed emit never alters
// cycle semantics.
func WithEvents(emitter events.Emitter) Option {
	return func(s *Service) { s.events = emitter }
}

// WithClock sets the clock function for testability.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs the engine.
func New(deps Deps, cfg Config, opts ...Option) (*Service, error) {
	if deps.Source == nil || deps.Completion == nil || deps.Action == nil {
		return nil, fmt.Errorf("eligible source, phase completion, and phase action collaborators are required")
	}
	if deps.Tracked == nil {
		return nil, fmt.Errorf("tracked set store is required")
	}
	if deps.Actions == nil || deps.Errors == nil {
		return nil, fmt.Errorf("action log and error sink are required")
	}
	svc := &Service{
		deps:   deps,
		cfg:    cfg,
		logger: slog.Default(),
		tracer: otel.Tracer("offramp/internal/reconcile"),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// cycleState is the per-cycle context threaded through the steps. No
// process-wide accumulators: everything a step learns lives here and ends as
// the immutable report.
type cycleState struct {
	set        *trackedset.Set
	previously int
	errorCount int
	identified int
	applied    int
}

// RunCycle executes one verify → delta → apply → report pass.
//
// Fatal errors (tracked set unreadable, eligible source or phase action
// unavailable) abort the cycle with no report. Verification failures and
// unresolvable identities are recoverable: they are logged, counted, and the
// cycle completes with a full report.
func (s *Service) RunCycle(ctx context.Context) (*CycleReport, error) {
	ctx, span := s.tracer.Start(ctx, "reconcile.cycle")
	defer span.End()

	set, err := s.deps.Tracked.Load(ctx)
	if err != nil {
		return s.abort(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tracked set"))
	}
	state := &cycleState{set: set, previously: set.Len()}

	if err := s.verify(ctx, state); err != nil {
		return s.abort(span, err)
	}

	delta, err := s.computeDelta(ctx, state)
	if err != nil {
		return s.abort(span, err)
	}

	if err := s.apply(ctx, state, delta); err != nil {
		return s.abort(span, err)
	}

	report := &CycleReport{
		Timestamp:           s.clock().UTC(),
		Identified:          state.identified,
		Applied:             state.applied,
		PreviouslyProcessed: state.previously,
		ErrorCount:          state.errorCount,
		Simulation:          s.cfg.Simulation,
	}

	span.SetAttributes(
		attribute.Int("reconcile.identified", report.Identified),
		attribute.Int("reconcile.applied", report.Applied),
		attribute.Int("reconcile.errors", report.ErrorCount),
	)
	if s.metrics != nil {
		s.metrics.CyclesRun.Inc()
		s.metrics.Identified.Add(float64(report.Identified))
		s.metrics.Applied.Add(float64(report.Applied))
		s.metrics.TrackedSize.Set(float64(state.set.Len()))
	}
	if s.events != nil {
		_ = s.events.Emit(ctx, events.Event{
			Action:    events.ActionCycleCompleted,
			Timestamp: report.Timestamp,
			Detail: fmt.Sprintf("identified=%d applied=%d previously_processed=%d errors=%d",
				report.Identified, report.Applied, report.PreviouslyProcessed, report.ErrorCount),
		})
	}
	s.logger.InfoContext(ctx, "reconciliation cycle completed",
		"identified", report.Identified,
		"applied", report.Applied,
		"previously_processed", report.PreviouslyProcessed,
		"errors", report.ErrorCount,
		"simulation", report.Simulation,
	)
	return report, nil
}

// verify re-queries external truth for every tracked principal. A principal
// still holding a license did not complete the phase we recorded: it is
// evicted so the next delta picks it up again. Eviction is the entire retry
// mechanism; nothing is ever marked permanently failed.
func (s *Service) verify(ctx context.Context, state *cycleState) error {
	if state.set.Len() == 0 {
		return nil
	}

	holders, err := s.deps.Completion.LicenseHolders(ctx, s.cfg.LicenseGroups)
	if err != nil {
		// Recoverable: without truth we keep everything tracked and let the
		// next cycle verify. Evicting on a failed query would churn retries
		// for identities that are probably fine.
		state.errorCount++
		s.appendError(ctx, "", fmt.Sprintf("phase completion query failed: %v", err))
		s.logger.WarnContext(ctx, "phase completion query failed, skipping verification",
			"error", err,
		)
		return nil
	}

	evicted := 0
	for _, principal := range state.set.Names() {
		if !holders[principal] {
			continue
		}
		state.set.Remove(principal)
		state.errorCount++
		evicted++
		s.appendError(ctx, principal, "verification failed: license still assigned")
		s.logger.WarnContext(ctx, "phase verification failed, evicting for retry",
			"principal", principal.String(),
		)
		if s.metrics != nil {
			s.metrics.VerificationFailures.Inc()
		}
		if s.events != nil {
			_ = s.events.Emit(ctx, events.Event{
				Action:    events.ActionVerificationFailed,
				Principal: principal,
				Detail:    "license still assigned, evicted for retry",
			})
		}
	}
	if evicted == 0 {
		return nil
	}
	if err := s.deps.Tracked.Save(ctx, state.set); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist evictions")
	}
	return nil
}

// computeDelta subtracts the tracked set from the currently eligible
// identities. The eligible source being unreachable is fatal: a delta
// computed from a partial answer would re-apply or skip work unpredictably.
func (s *Service) computeDelta(ctx context.Context, state *cycleState) ([]domain.Identity, error) {
	eligible, err := s.deps.Source.DisabledInScope(ctx, s.cfg.Scope)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "eligible source unavailable")
	}

	delta, unresolvable := state.set.Delta(eligible)
	for _, ident := range unresolvable {
		state.errorCount++
		s.appendError(ctx, "", fmt.Sprintf("identity %s has no resolvable principal name", ident.PrincipalID))
		s.logger.WarnContext(ctx, "identity excluded from delta: no resolvable principal name",
			"principal_id", ident.PrincipalID.String(),
		)
		if s.metrics != nil {
			s.metrics.Unresolvable.Inc()
		}
	}
	state.identified = len(delta)
	return delta, nil
}

// apply moves each delta identity to the next phase. Per identity, the
// phase action, the tracked set append+save, and the action log line form
// one durability unit; an unreachable phase action aborts the cycle, leaving
// the units already completed intact.
func (s *Service) apply(ctx context.Context, state *cycleState, delta []domain.Identity) error {
	ctx, span := s.tracer.Start(ctx, "reconcile.apply",
		trace.WithAttributes(attribute.Int("reconcile.delta_size", len(delta))))
	defer span.End()

	for _, ident := range delta {
		principal := ident.PrincipalName
		if err := s.deps.Action.ApplyHold(ctx, principal, s.cfg.HoldDuration); err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable,
				fmt.Sprintf("phase action failed for %s", principal))
		}
		state.set.Add(principal)
		if err := s.deps.Tracked.Save(ctx, state.set); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist tracked set")
		}
		if err := s.deps.Actions.Append(principal,
			fmt.Sprintf("hold applied for %s", s.cfg.HoldDuration)); err != nil {
			s.logger.WarnContext(ctx, "action log append failed",
				"principal", principal.String(),
				"error", err,
			)
		}
		if s.events != nil {
			_ = s.events.Emit(ctx, events.Event{
				Action:    events.ActionHoldApplied,
				Principal: principal,
				Detail:    fmt.Sprintf("hold applied for %s", s.cfg.HoldDuration),
			})
		}
		state.applied++
	}
	return nil
}

// appendError writes to the error log. The log is best-effort: a failed
// append is surfaced in the cycle's own log but never aborts the cycle.
func (s *Service) appendError(ctx context.Context, principal domain.PrincipalName, message string) {
	if err := s.deps.Errors.Append(principal, message); err != nil {
		s.logger.WarnContext(ctx, "error log append failed",
			"principal", principal.String(),
			"error", err,
		)
	}
}

func (s *Service) abort(span trace.Span, err error) (*CycleReport, error) {
	span.RecordError(err)
	if s.metrics != nil {
		s.metrics.CyclesAborted.Inc()
	}
	return nil, err
}
