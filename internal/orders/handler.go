package orders

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/inkstone/bookstore-api/internal/domain"
	"github.com/inkstone/bookstore-api/internal/httpx"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type createOrderRequest struct {
	Books      []domain.OrderBook `json:"books"`
	UserMobile string             `json:"user_mobile"`
	UserName   string             `json:"user_name"`
	Address    string             `json:"address"`
	Amount     float64            `json:"amount"`
}

func (h *Handler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	order, gatewayOrder, err := h.service.CreateOrder(r.Context(), CreateOrderInput{
		Books:      req.Books,
		UserMobile: req.UserMobile,
		UserName:   req.UserName,
		Address:    req.Address,
		Amount:     req.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBooksRequired), errors.Is(err, ErrInvalidAmount),
			errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrMissingCustomer):
			httpx.WriteError(w, h.logger, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrGatewayUnavailable):
			h.logger.Error("payment gateway failure", "error", err)
			httpx.WriteError(w, h.logger, http.StatusBadGateway, "Payment gateway error")
		default:
			h.logger.Error("failed to create order", "error", err)
			httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		}
		return
	}

	httpx.WriteSuccess(w, h.logger, http.StatusCreated, httpx.Envelope{
		"order":          order,
		"razorpay_order": gatewayOrder,
	})
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

func (h *Handler) HandleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.VerifyPayment(r.Context(), VerifyPaymentInput{
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
		RazorpaySignature: req.RazorpaySignature,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			httpx.WriteError(w, h.logger, http.StatusBadRequest, "Missing fields")
		case errors.Is(err, ErrInvalidSignature):
			httpx.WriteError(w, h.logger, http.StatusBadRequest, "Invalid signature")
		case errors.Is(err, ErrOrderNotFound):
			httpx.WriteError(w, h.logger, http.StatusNotFound, "Order not found")
		case errors.Is(err, ErrGatewayUnavailable):
			h.logger.Error("payment gateway failure", "error", err, "razorpay_order_id", req.RazorpayOrderID)
			httpx.WriteError(w, h.logger, http.StatusBadGateway, "Payment gateway error")
		default:
			h.logger.Error("failed to verify payment", "error", err, "razorpay_order_id", req.RazorpayOrderID)
			httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		}
		return
	}

	httpx.WriteSuccess(w, h.logger, http.StatusOK, httpx.Envelope{
		"message": "Payment verified successfully",
		"order":   order,
	})
}

func (h *Handler) HandleTodaySales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.service.TodaySales(r.Context())
	if err != nil {
		h.logger.Error("failed to aggregate today sales", "error", err)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}

	httpx.WriteSuccess(w, h.logger, http.StatusOK, httpx.Envelope{
		"date":     sales.Date,
		"timezone": sales.Timezone,
		"data":     sales.Report,
	})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			httpx.WriteError(w, h.logger, http.StatusNotFound, "Order not found")
			return
		}
		h.logger.Error("failed to get order", "error", err, "id", id)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}

	httpx.WriteSuccess(w, h.logger, http.StatusOK, httpx.Envelope{"data": order})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := httpx.QueryInt(r, "page", 1)
	limit := httpx.QueryInt(r, "limit", 10)

	orders, total, err := h.service.ListOrders(r.Context(), page, limit)
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}

	totalPages := (total + limit - 1) / limit
	httpx.WriteSuccess(w, h.logger, http.StatusOK, httpx.Envelope{
		"total":       total,
		"currentPage": page,
		"totalPages":  totalPages,
		"data":        orders,
	})
}
