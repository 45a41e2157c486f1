// Package httptransport is the ops API: a small authenticated surface for
// triggering a reconciliation cycle out of schedule and for reading the
// audit trail. It delegates to the domain services and carries no business
// logic of its own.
package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"offramp/internal/audittrail"
	"offramp/internal/offboard"
	"offramp/internal/platform/middleware"
	"offramp/internal/reconcile"
	"offramp/pkg/domain"
	dErrors "offramp/pkg/domain-errors"
	"offramp/pkg/platform/httputil"
)

// CycleRunner runs one reconciliation cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) (*reconcile.CycleReport, error)
}

// TrailReader reads the audit trail document.
type TrailReader interface {
	LoadAll(ctx context.Context) ([]audittrail.Record, error)
}

// Offboarder runs the deprovisioning sequence for a batch of identities.
type Offboarder interface {
	DisableAll(ctx context.Context, identities []domain.Identity) offboard.Result
}

// Handler wires ops endpoints to the domain services.
type Handler struct {
	cycles    CycleRunner
	trail     TrailReader
	offboards Offboarder
	logger    *slog.Logger
}

// New constructs an ops handler with its dependencies.
func New(cycles CycleRunner, trail TrailReader, offboards Offboarder, logger *slog.Logger) *Handler {
	return &Handler{
		cycles:    cycles,
		trail:     trail,
		offboards: offboards,
		logger:    logger,
	}
}

// Register mounts ops endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/cycles", h.HandleRunCycle)
	r.Post("/offboard", h.HandleOffboard)
	r.Get("/audit-trail", h.HandleAuditTrail)
}

// HandleRunCycle handles POST /v1/cycles requests: it runs one full cycle
// synchronously and returns its report.
func (h *Handler) HandleRunCycle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	operator := middleware.GetOperator(ctx)
	start := time.Now()

	report, err := h.cycles.RunCycle(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "manual reconciliation cycle failed",
			"request_id", requestID,
			"operator", operator,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "manual reconciliation cycle completed",
		"request_id", requestID,
		"operator", operator,
		"identified", report.Identified,
		"applied", report.Applied,
		"errors", report.ErrorCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, report)
}

// OffboardRequest names the identities to run the sequence for.
type OffboardRequest struct {
	Identities []struct {
		PrincipalID   string `json:"principal_id,omitempty"`
		PrincipalName string `json:"principal_name"`
	} `json:"identities"`
}

// HandleOffboard handles POST /v1/offboard requests: it runs the full
// deprovisioning sequence for each named identity.
func (h *Handler) HandleOffboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	operator := middleware.GetOperator(ctx)

	var req OffboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}
	if len(req.Identities) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "at least one identity is required"))
		return
	}

	identities := make([]domain.Identity, 0, len(req.Identities))
	for _, in := range req.Identities {
		ident := domain.Identity{PrincipalName: domain.PrincipalName(in.PrincipalName)}
		if in.PrincipalID != "" {
			id, err := domain.ParsePrincipalID(in.PrincipalID)
			if err != nil {
				httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid principal_id"))
				return
			}
			ident.PrincipalID = id
		}
		identities = append(identities, ident)
	}

	res := h.offboards.DisableAll(ctx, identities)
	h.logger.InfoContext(ctx, "offboard batch completed",
		"request_id", middleware.GetRequestID(ctx),
		"operator", operator,
		"processed", res.Processed,
		"failed", res.Failed,
	)
	httputil.WriteJSON(w, http.StatusOK, struct {
		Processed int `json:"processed"`
		Failed    int `json:"failed"`
	}{Processed: res.Processed, Failed: res.Failed})
}

// HandleAuditTrail handles GET /v1/audit-trail requests.
func (h *Handler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.trail.LoadAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit trail read failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read audit trail"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, struct {
		Records []audittrail.Record `json:"records"`
	}{Records: records})
}
