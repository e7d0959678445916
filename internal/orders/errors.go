package orders

import "errors"

// Validation and business errors surfaced to the HTTP layer. Handlers map
// these onto the response envelope; anything else is a server error.
var (
	ErrBooksRequired    = errors.New("books are required")
	ErrInvalidAmount    = errors.New("valid amount is required")
	ErrInvalidQuantity  = errors.New("book quantity must be at least 1")
	ErrMissingCustomer  = errors.New("user_name, user_mobile and address are required")
	ErrMissingFields    = errors.New("missing fields")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrOrderNotFound    = errors.New("order not found")

	// ErrGatewayUnavailable marks failures talking to the payment gateway,
	// so handlers can answer 502 instead of a plain server error.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)
