package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/inkstone/bookstore-api/internal/domain"
)

// EventLog persists one audit row per consumed order event.
type EventLog interface {
	Record(ctx context.Context, event *domain.OrderEvent) error
}

// AuditRecorder turns order lifecycle events into audit rows. Settlement
// stays on the synchronous verify path; the recorder only observes.
type AuditRecorder struct {
	log    EventLog
	logger *slog.Logger
}

func NewAuditRecorder(log EventLog, logger *slog.Logger) *AuditRecorder {
	return &AuditRecorder{log: log, logger: logger}
}

func (r *AuditRecorder) HandleOrderCreated(ctx context.Context, payload []byte) error {
	var event domain.OrderCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order created event: %w", err)
	}

	r.logger.Info("recording order created event", "order_id", event.OrderID, "razorpay_order_id", event.RazorpayOrderID)

	return r.log.Record(ctx, &domain.OrderEvent{
		OrderID:   event.OrderID,
		EventType: domain.TopicOrderCreated,
		Payload:   payload,
		EventTime: event.Timestamp,
	})
}

func (r *AuditRecorder) HandleOrderPaid(ctx context.Context, payload []byte) error {
	var event domain.OrderPaidEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order paid event: %w", err)
	}

	r.logger.Info("recording order paid event", "order_id", event.OrderID, "razorpay_payment_id", event.RazorpayPaymentID)

	return r.log.Record(ctx, &domain.OrderEvent{
		OrderID:   event.OrderID,
		EventType: domain.TopicOrderPaid,
		Payload:   payload,
		EventTime: event.Timestamp,
	})
}
