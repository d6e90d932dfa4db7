package notification

import (
	"context"
	"fmt"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/dispatch"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/notify"
	"go.uber.org/zap"
)

// DispatchMetrics counts dispatch events by type
type DispatchMetrics interface {
	DispatchEvent(ctx context.Context, eventType string)
}

// DispatchEventHandler turns dispatch lifecycle events into subscriber
// notifications
type DispatchEventHandler struct {
	logger    *zap.Logger
	publisher notify.Publisher
	metrics   DispatchMetrics
}

// NewDispatchEventHandler creates a new handler for dispatch events
func NewDispatchEventHandler(publisher notify.Publisher, logger *zap.Logger) *DispatchEventHandler {
	return &DispatchEventHandler{
		logger:    logger,
		publisher: publisher,
	}
}

// WithMetrics sets the counter for handled events
func (h *DispatchEventHandler) WithMetrics(metrics DispatchMetrics) *DispatchEventHandler {
	h.metrics = metrics
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *DispatchEventHandler) EventTypes() []string {
	return []string{
		dispatch.EventTypeDispatchCreated,
		dispatch.EventTypeDispatchReceived,
		dispatch.EventTypeDispatchCancelled,
	}
}

// Handle publishes one message per dispatch event. Delivery failures are
// logged and never fail the event.
func (h *DispatchEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*dispatch.DispatchEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", "dispatch event"),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	if h.metrics != nil {
		h.metrics.DispatchEvent(ctx, e.EventType())
	}

	msg := ToMessage(e)
	if err := h.publisher.Publish(ctx, msg); err != nil {
		h.logger.Warn("failed to publish dispatch notification",
			zap.String("dispatch_no", e.DispatchNo),
			zap.String("type", msg.Type),
			zap.Error(err),
		)
		return nil
	}
	h.logger.Debug("dispatch notification published",
		zap.String("dispatch_no", e.DispatchNo),
		zap.String("type", msg.Type),
	)
	return nil
}

// ToMessage renders the subscriber message for a dispatch event
func ToMessage(e *dispatch.DispatchEvent) notify.Message {
	return notify.Message{
		Type:        e.EventType(),
		Message:     describe(e),
		DispatchNo:  e.DispatchNo,
		Branch:      e.BranchName,
		BranchAlias: e.BranchAlias,
		Timestamp:   e.OccurredAt(),
	}
}

func describe(e *dispatch.DispatchEvent) string {
	switch e.EventType() {
	case dispatch.EventTypeDispatchCreated:
		return fmt.Sprintf("Dispatch %s sent from %s to %s", e.DispatchNo, e.WarehouseName, e.BranchName)
	case dispatch.EventTypeDispatchReceived:
		if e.Status == dispatch.StatusPendingApproval {
			return fmt.Sprintf("Dispatch %s received at %s, awaiting approval", e.DispatchNo, e.BranchName)
		}
		return fmt.Sprintf("Dispatch %s received at %s", e.DispatchNo, e.BranchName)
	case dispatch.EventTypeDispatchCancelled:
		return fmt.Sprintf("Dispatch %s to %s cancelled", e.DispatchNo, e.BranchName)
	}
	return fmt.Sprintf("Dispatch %s updated", e.DispatchNo)
}

// Ensure DispatchEventHandler implements shared.EventHandler
var _ shared.EventHandler = (*DispatchEventHandler)(nil)
