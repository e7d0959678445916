package worker

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/inkstone/bookstore-api/internal/domain"
)

type OrderEventRepository struct {
	db *sql.DB
}

func NewOrderEventRepository(db *sql.DB) *OrderEventRepository {
	return &OrderEventRepository{db: db}
}

func (r *OrderEventRepository) Record(ctx context.Context, event *domain.OrderEvent) error {
	event.ID = uuid.NewString()
	event.CreatedAt = time.Now()

	query := `
		INSERT INTO order_events (id, order_id, event_type, payload, event_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.OrderID, event.EventType, []byte(event.Payload), event.EventTime, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record order event: %w", err)
	}
	return nil
}

func (r *OrderEventRepository) ListByOrderID(ctx context.Context, orderID string) ([]domain.OrderEvent, error) {
	query := `
		SELECT id, order_id, event_type, payload, event_time, created_at
		FROM order_events
		WHERE order_id = $1
		ORDER BY event_time ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order events: %w", err)
	}
	defer rows.Close()

	events := []domain.OrderEvent{}
	for rows.Next() {
		var event domain.OrderEvent
		var payload []byte
		if err := rows.Scan(&event.ID, &event.OrderID, &event.EventType, &payload, &event.EventTime, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order event: %w", err)
		}
		event.Payload = payload
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order events: %w", err)
	}
	return events, nil
}
