package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/alignhq/api/internal/app"
	"github.com/alignhq/api/pkg/logger"
)

// TypeIsolationAudit is the task type for a full isolation audit run.
const TypeIsolationAudit = "audit:isolation"

// IsolationAuditPayload carries the parameters of an audit task.
type IsolationAuditPayload struct {
	Trigger string `json:"trigger"`
}

// NewIsolationAuditTask creates an isolation audit task.
func NewIsolationAuditTask(payload IsolationAuditPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeIsolationAudit, data, asynq.Queue(QueueAudit), asynq.MaxRetry(2)), nil
}

// AuditTaskHandler processes isolation audit tasks.
type AuditTaskHandler struct {
	audits *app.AuditService
	logger *logger.Logger
}

// NewAuditTaskHandler creates a new audit task handler.
func NewAuditTaskHandler(audits *app.AuditService, log *logger.Logger) *AuditTaskHandler {
	return &AuditTaskHandler{
		audits: audits,
		logger: log.With("component", "audit_task_handler"),
	}
}

// HandleIsolationAudit runs the isolation audit and fails the task on
// storage errors so asynq retries. Critical findings do not fail the
// task; they are reported through logs and metrics.
func (h *AuditTaskHandler) HandleIsolationAudit(ctx context.Context, t *asynq.Task) error {
	var payload IsolationAuditPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	report, err := h.audits.Run(ctx)
	if err != nil {
		h.logger.Error("isolation audit failed", "trigger", payload.Trigger, "error", err)
		return fmt.Errorf("isolation audit: %w", err)
	}

	h.logger.Info("isolation audit task finished",
		"trigger", payload.Trigger,
		"total_checks", report.TotalChecks,
		"failed_checks", report.FailedChecks,
		"critical_failures", report.CriticalFailures,
	)
	return nil
}
