package handler

import (
	"net/http"

	"github.com/alignhq/api/internal/app"
	"github.com/alignhq/api/internal/infra/http/middleware"
	"github.com/alignhq/api/internal/infra/jobs"
	"github.com/alignhq/api/pkg/apierror"
	"github.com/alignhq/api/pkg/domain/permission"
)

// AuditHandler exposes the isolation audit under the admin route
// prefix. Synchronous runs are for operators; the background schedule
// covers routine monitoring.
type AuditHandler struct {
	audits *app.AuditService
	jobs   *jobs.Client
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(audits *app.AuditService, jobClient *jobs.Client) *AuditHandler {
	return &AuditHandler{audits: audits, jobs: jobClient}
}

// Run handles POST /admin/audit/isolation: runs the audit inline and
// returns the report.
func (h *AuditHandler) Run(w http.ResponseWriter, r *http.Request) {
	actx, ok := middleware.GetAccessContext(r.Context())
	if !ok {
		apierror.Unauthorized("authentication required").WriteJSON(w)
		return
	}
	if !permission.HasPermission(actx.Role, permission.ManageUsers) {
		apierror.Forbidden(nil).WriteJSON(w)
		return
	}

	report, err := h.audits.Run(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// Enqueue handles POST /admin/audit/isolation/enqueue: schedules an
// asynchronous audit run.
func (h *AuditHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	actx, ok := middleware.GetAccessContext(r.Context())
	if !ok {
		apierror.Unauthorized("authentication required").WriteJSON(w)
		return
	}
	if !permission.HasPermission(actx.Role, permission.ManageUsers) {
		apierror.Forbidden(nil).WriteJSON(w)
		return
	}

	if err := h.jobs.EnqueueIsolationAudit(r.Context(), jobs.IsolationAuditPayload{Trigger: "api"}); err != nil {
		apierror.InternalError(err).WriteJSON(w)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
