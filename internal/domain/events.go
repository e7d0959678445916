package domain

import (
	"encoding/json"
	"time"
)

const (
	TopicOrderCreated = "order.created"
	TopicOrderPaid    = "order.paid"
)

type OrderCreatedEvent struct {
	OrderID         string      `json:"order_id"`
	RazorpayOrderID string      `json:"razorpay_order_id"`
	Amount          float64     `json:"amount"`
	Books           []OrderBook `json:"books"`
	Timestamp       time.Time   `json:"timestamp"`
}

// OrderEvent is one audit row written by the worker for every consumed
// order lifecycle event.
type OrderEvent struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	EventTime time.Time       `json:"event_time"`
	CreatedAt time.Time       `json:"created_at"`
}

type OrderPaidEvent struct {
	OrderID           string    `json:"order_id"`
	RazorpayOrderID   string    `json:"razorpay_order_id"`
	RazorpayPaymentID string    `json:"razorpay_payment_id"`
	Amount            float64   `json:"amount"`
	Status            string    `json:"status"`
	Timestamp         time.Time `json:"timestamp"`
}
