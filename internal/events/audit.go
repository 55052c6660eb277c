package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
)

// AuditLogHandler writes one INFO log line per task event.
type AuditLogHandler struct {
	logger *slog.Logger
}

var _ EventHandler = (*AuditLogHandler)(nil)

// NewAuditLogHandler creates an AuditLogHandler. If log is nil, a default logger will be used.
func NewAuditLogHandler(log *slog.Logger) *AuditLogHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuditLogHandler{logger: log.With("component", "audit")}
}

// HandleEvent implements EventHandler.
func (h *AuditLogHandler) HandleEvent(ctx context.Context, event *TaskEvent) error {
	log := logger.FromContextOrDefault(ctx, h.logger)

	attrs := []any{
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.Int64("actor_id", event.ActorID),
		slog.Int64("task_id", event.TaskID),
		slog.Time("occurred_at", event.OccurredAt),
	}
	if len(event.Changes) > 0 {
		attrs = append(attrs, slog.Any("changes", event.Changes))
	}

	log.InfoContext(ctx, "audit: "+event.Type, attrs...)
	return nil
}
