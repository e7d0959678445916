package orders

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/inkstone/bookstore-api/internal/domain"
	"github.com/inkstone/bookstore-api/internal/messaging"
	"github.com/inkstone/bookstore-api/internal/razorpay"
)

// salesZone is the fixed offset the daily sales window is computed in.
var salesZone = time.FixedZone("UTC+05:30", 5*3600+30*60)

const gatewayCurrency = "INR"

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ApplyVerification(ctx context.Context, v Verification) (*domain.Order, error)
	List(ctx context.Context, page, limit int) ([]domain.Order, int, error)
	SalesBetween(ctx context.Context, from, to time.Time) (SalesReport, error)
}

// Gateway is the payment-gateway surface the service needs; satisfied by
// *razorpay.Client.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*razorpay.GatewayOrder, error)
	FetchPayment(ctx context.Context, paymentID string) (*razorpay.Payment, error)
}

// Verification carries the gateway-confirmed values applied to an order at
// verification time.
type Verification struct {
	RazorpayOrderID   string
	RazorpayPaymentID string
	RazorpaySignature string
	Amount            float64
	Status            domain.OrderStatus
	GatewayStatus     string
	PaymentMethod     string
	Currency          string
	Metadata          map[string]any
}

type SalesReport struct {
	TotalOrders    int     `json:"totalOrders"`
	TotalBooksSold int     `json:"totalBooksSold"`
	TotalRevenue   float64 `json:"totalRevenue"`
}

type TodaySales struct {
	Date     string
	Timezone string
	Report   SalesReport
}

// Service orchestrates order creation against the payment gateway and the
// later reconciliation of client-submitted payment confirmations.
type Service struct {
	store         Store
	gateway       Gateway
	signingSecret string
	producer      *messaging.Producer
	logger        *slog.Logger
	now           func() time.Time
}

// NewService wires the order flow. producer may be nil when event publishing
// is not configured.
func NewService(store Store, gateway Gateway, signingSecret string, producer *messaging.Producer, logger *slog.Logger) *Service {
	return &Service{
		store:         store,
		gateway:       gateway,
		signingSecret: signingSecret,
		producer:      producer,
		logger:        logger,
		now:           time.Now,
	}
}

type CreateOrderInput struct {
	Books      []domain.OrderBook
	UserMobile string
	UserName   string
	Address    string
	Amount     float64
}

// CreateOrder creates a gateway order sized to the claimed amount, persists
// a PENDING order referencing the gateway order id, and returns both. There
// is no rollback if persistence fails after the gateway call; the orphaned
// remote order is an accepted inconsistency window.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, *razorpay.GatewayOrder, error) {
	if len(in.Books) == 0 {
		return nil, nil, ErrBooksRequired
	}
	for _, b := range in.Books {
		if b.Quantity < 1 {
			return nil, nil, ErrInvalidQuantity
		}
	}
	if in.Amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	if strings.TrimSpace(in.UserName) == "" || strings.TrimSpace(in.UserMobile) == "" || strings.TrimSpace(in.Address) == "" {
		return nil, nil, ErrMissingCustomer
	}

	amountMinor := int64(math.Round(in.Amount * 100))
	gatewayOrder, err := s.gateway.CreateOrder(ctx, amountMinor, gatewayCurrency, "")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: create order: %v", ErrGatewayUnavailable, err)
	}

	now := s.now().UTC()
	order := &domain.Order{
		Books:           in.Books,
		UserName:        in.UserName,
		UserMobile:      in.UserMobile,
		Address:         in.Address,
		Amount:          in.Amount,
		Status:          domain.OrderStatusPending,
		RazorpayOrderID: gatewayOrder.ID,
		Metadata:        map[string]any{"source": "frontend"},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.Create(ctx, order); err != nil {
		return nil, nil, fmt.Errorf("persist order: %w", err)
	}

	if s.producer != nil {
		event := domain.OrderCreatedEvent{
			OrderID:         order.ID,
			RazorpayOrderID: order.RazorpayOrderID,
			Amount:          order.Amount,
			Books:           order.Books,
			Timestamp:       order.CreatedAt,
		}
		if err := s.producer.Publish(ctx, domain.TopicOrderCreated, order.ID, event); err != nil {
			s.logger.Error("failed to publish order created event", "error", err, "order_id", order.ID)
		}
	}

	s.logger.Info("order created", "order_id", order.ID, "razorpay_order_id", order.RazorpayOrderID, "amount", order.Amount)
	return order, gatewayOrder, nil
}

type VerifyPaymentInput struct {
	RazorpayOrderID   string
	RazorpayPaymentID string
	RazorpaySignature string
}

// VerifyPayment reconciles a client-submitted payment confirmation. The
// signature only authenticates the identifiers; the payment outcome and
// amount are re-fetched from the gateway, which is the sole source of truth.
func (s *Service) VerifyPayment(ctx context.Context, in VerifyPaymentInput) (*domain.Order, error) {
	if in.RazorpayOrderID == "" || in.RazorpayPaymentID == "" || in.RazorpaySignature == "" {
		return nil, ErrMissingFields
	}

	if !razorpay.VerifySignature(s.signingSecret, in.RazorpayOrderID, in.RazorpayPaymentID, in.RazorpaySignature) {
		s.logger.Warn("payment signature mismatch",
			"razorpay_order_id", in.RazorpayOrderID,
			"razorpay_payment_id", in.RazorpayPaymentID)
		return nil, ErrInvalidSignature
	}

	payment, err := s.gateway.FetchPayment(ctx, in.RazorpayPaymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch payment: %v", ErrGatewayUnavailable, err)
	}

	status := domain.OrderStatusPending
	switch payment.Status {
	case razorpay.PaymentStatusCaptured:
		status = domain.OrderStatusPaid
	case razorpay.PaymentStatusFailed:
		status = domain.OrderStatusFailed
	}

	order, err := s.store.ApplyVerification(ctx, Verification{
		RazorpayOrderID:   in.RazorpayOrderID,
		RazorpayPaymentID: in.RazorpayPaymentID,
		RazorpaySignature: in.RazorpaySignature,
		Amount:            float64(payment.Amount) / 100,
		Status:            status,
		GatewayStatus:     payment.Status,
		PaymentMethod:     payment.Method,
		Currency:          payment.Currency,
		Metadata: map[string]any{
			"source":             "verification",
			"gateway_payment_id": payment.ID,
			"gateway_order_id":   payment.OrderID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("apply verification: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if order.Status == domain.OrderStatusPaid && s.producer != nil {
		event := domain.OrderPaidEvent{
			OrderID:           order.ID,
			RazorpayOrderID:   order.RazorpayOrderID,
			RazorpayPaymentID: order.RazorpayPaymentID,
			Amount:            order.Amount,
			Status:            string(order.Status),
			Timestamp:         s.now().UTC(),
		}
		if err := s.producer.Publish(ctx, domain.TopicOrderPaid, order.ID, event); err != nil {
			s.logger.Error("failed to publish order paid event", "error", err, "order_id", order.ID)
		}
	}

	s.logger.Info("payment verified", "order_id", order.ID, "status", order.Status, "gateway_status", order.GatewayStatus)
	return order, nil
}

// TodaySales aggregates PAID orders created today, with "today" evaluated
// in a fixed UTC+5:30 offset.
func (s *Service) TodaySales(ctx context.Context) (TodaySales, error) {
	now := s.now().In(salesZone)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, salesZone)
	end := start.AddDate(0, 0, 1)

	report, err := s.store.SalesBetween(ctx, start, end)
	if err != nil {
		return TodaySales{}, fmt.Errorf("aggregate sales: %w", err)
	}

	return TodaySales{
		Date:     start.Format("2006-01-02"),
		Timezone: "UTC+05:30",
		Report:   report,
	}, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, page, limit int) ([]domain.Order, int, error) {
	return s.store.List(ctx, page, limit)
}
