package event

import (
	"context"
	"encoding/json"

	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditHandler writes every domain event to the log as a structured audit line
type AuditHandler struct {
	serializer *EventSerializer
	logger     *zap.Logger
}

// NewAuditHandler creates an AuditHandler over a populated serializer
func NewAuditHandler(serializer *EventSerializer, logger *zap.Logger) *AuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditHandler{
		serializer: serializer,
		logger:     logger.Named("audit"),
	}
}

// EventTypes returns nil: the audit trail receives every event
func (h *AuditHandler) EventTypes() []string {
	return nil
}

// Handle logs the event with its JSON payload
func (h *AuditHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	payload, err := h.serializer.Serialize(event)
	if err != nil {
		return err
	}

	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
		zap.Any("payload", json.RawMessage(payload)),
	)
	return nil
}

var _ shared.EventHandler = (*AuditHandler)(nil)
