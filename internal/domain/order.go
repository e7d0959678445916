package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING"
	OrderStatusPaid    OrderStatus = "PAID"
	OrderStatusFailed  OrderStatus = "FAILED"
)

// OrderBook is one line item of an order. The fields beyond BookID and
// Quantity are read-side decoration filled in from the catalog when an
// order is fetched.
type OrderBook struct {
	BookID     string  `json:"book_id"`
	Quantity   int     `json:"count"`
	BookName   string  `json:"bookName,omitempty"`
	AuthorName string  `json:"authorName,omitempty"`
	MRP        float64 `json:"mrp,omitempty"`
	ImageURL   string  `json:"imageUrl,omitempty"`
}

// Order is a purchase intent and its settlement outcome. Amount is held in
// major currency units; the gateway speaks minor units. RazorpayOrderID is
// assigned once at creation and is the sole correlation key used during
// payment verification.
type Order struct {
	ID                string         `json:"id"`
	Books             []OrderBook    `json:"books"`
	UserName          string         `json:"user_name"`
	UserMobile        string         `json:"user_mobile"`
	Address           string         `json:"address"`
	Amount            float64        `json:"amount"`
	Status            OrderStatus    `json:"status"`
	RazorpayOrderID   string         `json:"order_id"`
	RazorpayPaymentID string         `json:"payment_id,omitempty"`
	RazorpaySignature string         `json:"signature,omitempty"`
	GatewayStatus     string         `json:"gateway_status,omitempty"`
	PaymentMethod     string         `json:"payment_method,omitempty"`
	Currency          string         `json:"currency,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}
