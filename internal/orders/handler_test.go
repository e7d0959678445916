package orders

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/inkstone/bookstore-api/internal/razorpay"
)

func newTestHandler(store *fakeStore, gateway *fakeGateway) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(NewService(store, gateway, testSecret, nil, logger), logger)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func TestHandler_HandleCreateOrder(t *testing.T) {
	t.Run("creates an order and returns both descriptors", func(t *testing.T) {
		handler := newTestHandler(&fakeStore{}, &fakeGateway{nextOrderID: "order_rp_9"})

		reqBody := `{"books":[{"book_id":"6e4a2a9e-6a31-4ce0-9df5-111111111111","count":2}],"user_mobile":"9876543210","user_name":"Asha","address":"12 MG Road","amount":499}`
		req := httptest.NewRequest(http.MethodPost, "/order/create-order", strings.NewReader(reqBody))
		rec := httptest.NewRecorder()

		handler.HandleCreateOrder(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}

		body := decodeEnvelope(t, rec)
		if body["success"] != true {
			t.Error("expected success true")
		}
		order := body["order"].(map[string]any)
		if order["status"] != "PENDING" {
			t.Errorf("expected PENDING, got %v", order["status"])
		}
		if order["order_id"] != "order_rp_9" {
			t.Errorf("expected gateway order id order_rp_9, got %v", order["order_id"])
		}
		rp := body["razorpay_order"].(map[string]any)
		if rp["amount"].(float64) != 49900 {
			t.Errorf("expected 49900 paise, got %v", rp["amount"])
		}
	})

	t.Run("gateway failure returns 502", func(t *testing.T) {
		store := &fakeStore{}
		handler := newTestHandler(store, &fakeGateway{createErr: errors.New("gateway down")})

		reqBody := `{"books":[{"book_id":"6e4a2a9e-6a31-4ce0-9df5-111111111111","count":2}],"user_mobile":"9876543210","user_name":"Asha","address":"12 MG Road","amount":499}`
		req := httptest.NewRequest(http.MethodPost, "/order/create-order", strings.NewReader(reqBody))
		rec := httptest.NewRecorder()

		handler.HandleCreateOrder(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected status 502, got %d", rec.Code)
		}
		if decodeEnvelope(t, rec)["message"] != "Payment gateway error" {
			t.Errorf("unexpected message: %s", rec.Body.String())
		}
		if len(store.orders) != 0 {
			t.Error("expected no order persisted")
		}
	})

	t.Run("rejects an empty book list with 400", func(t *testing.T) {
		handler := newTestHandler(&fakeStore{}, &fakeGateway{})

		reqBody := `{"books":[],"user_mobile":"9876543210","user_name":"Asha","address":"12 MG Road","amount":499}`
		req := httptest.NewRequest(http.MethodPost, "/order/create-order", strings.NewReader(reqBody))
		rec := httptest.NewRecorder()

		handler.HandleCreateOrder(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		if decodeEnvelope(t, rec)["success"] != false {
			t.Error("expected success false")
		}
	})

	t.Run("rejects a non-positive amount with 400", func(t *testing.T) {
		handler := newTestHandler(&fakeStore{}, &fakeGateway{})

		reqBody := `{"books":[{"book_id":"b1","count":1}],"user_mobile":"9876543210","user_name":"Asha","address":"12 MG Road","amount":-10}`
		req := httptest.NewRequest(http.MethodPost, "/order/create-order", strings.NewReader(reqBody))
		rec := httptest.NewRecorder()

		handler.HandleCreateOrder(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("rejects a malformed body with 400", func(t *testing.T) {
		handler := newTestHandler(&fakeStore{}, &fakeGateway{})

		req := httptest.NewRequest(http.MethodPost, "/order/create-order", strings.NewReader(`not json`))
		rec := httptest.NewRecorder()

		handler.HandleCreateOrder(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestHandler_HandleVerifyPayment(t *testing.T) {
	seed := func(t *testing.T) (*fakeStore, *fakeGateway, *Handler) {
		store := &fakeStore{}
		gateway := &fakeGateway{payments: map[string]*razorpay.Payment{
			"pay_1": {ID: "pay_1", Amount: 49900, Currency: "INR", Status: "captured", Method: "upi"},
		}}
		setupPendingOrder(t, store, gateway, "order_rp_1")
		return store, gateway, newTestHandler(store, gateway)
	}

	t.Run("verifies a captured payment", func(t *testing.T) {
		_, _, handler := seed(t)

		sig := razorpay.Signature(testSecret, "order_rp_1", "pay_1")
		reqBody := `{"razorpay_order_id":"order_rp_1","razorpay_payment_id":"pay_1","razorpay_signature":"` + sig + `"}`
		req := httptest.NewRequest(http.MethodPost, "/order/verify-payment", strings.NewReader(reqBody))
		rec := httptest.NewRecorder()

		handler.HandleVerifyPayment(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		body := decodeEnvelope(t, rec)
		order := body["order"].(map[string]any)
		if order["status"] != "PAID" {
			t.Errorf("expected PAID, got %v", order["status"])
		}
	})

	t.Run("missing fields return 400", func(t *testing.T) {
		_, _, handler := seed(t)

		req := httptest.NewRequest(http.MethodPost, "/order/verify-payment", strings.NewReader(`{"razorpay_order_id":"order_rp_1"}`))
		rec := httptest.NewRecorder()

		handler.HandleVerifyPayment(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		if decodeEnvelope(t, rec)["message"] != "Missing fields" {
			t.Errorf("unexpected message: %s", rec.Body.String())
		}
	})

	t.Run("bad signature returns 400 and mutates nothing", func(t *testing.T) {
		store, _, handler := seed(t)

		reqBody := `{"razorpay_order_id":"order_rp_1","razorpay_payment_id":"pay_1","razorpay_signature":"forged"}`
		req := httptest.NewRequest(http.MethodPost, "/order/verify-payment", strings.NewReader(reqBody))
		rec := httptest.NewRecorder()

		handler.HandleVerifyPayment(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		if store.byGatewayOrderID("order_rp_1").RazorpayPaymentID != "" {
			t.Error("expected no client-supplied data persisted")
		}
	})

	t.Run("unknown order returns 404 not found", func(t *testing.T) {
		_, _, handler := seed(t)

		sig := razorpay.Signature(testSecret, "order_rp_ghost", "pay_1")
		reqBody := `{"razorpay_order_id":"order_rp_ghost","razorpay_payment_id":"pay_1","razorpay_signature":"` + sig + `"}`
		req := httptest.NewRequest(http.MethodPost, "/order/verify-payment", strings.NewReader(reqBody))
		rec := httptest.NewRecorder()

		handler.HandleVerifyPayment(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
		body := decodeEnvelope(t, rec)
		if body["success"] != false || body["message"] != "Order not found" {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("gateway failure returns 502", func(t *testing.T) {
		store := &fakeStore{}
		gateway := &fakeGateway{fetchErr: errors.New("gateway down")}
		setupPendingOrder(t, store, gateway, "order_rp_1")
		handler := newTestHandler(store, gateway)

		sig := razorpay.Signature(testSecret, "order_rp_1", "pay_1")
		reqBody := `{"razorpay_order_id":"order_rp_1","razorpay_payment_id":"pay_1","razorpay_signature":"` + sig + `"}`
		req := httptest.NewRequest(http.MethodPost, "/order/verify-payment", strings.NewReader(reqBody))
		rec := httptest.NewRecorder()

		handler.HandleVerifyPayment(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected status 502, got %d", rec.Code)
		}
		if decodeEnvelope(t, rec)["message"] != "Payment gateway error" {
			t.Errorf("unexpected message: %s", rec.Body.String())
		}
	})

	t.Run("persistence failure returns 500", func(t *testing.T) {
		store := &fakeStore{applyErr: errors.New("db down")}
		gateway := &fakeGateway{payments: map[string]*razorpay.Payment{
			"pay_1": {ID: "pay_1", Amount: 49900, Currency: "INR", Status: "captured", Method: "upi"},
		}}
		handler := newTestHandler(store, gateway)

		sig := razorpay.Signature(testSecret, "order_rp_1", "pay_1")
		reqBody := `{"razorpay_order_id":"order_rp_1","razorpay_payment_id":"pay_1","razorpay_signature":"` + sig + `"}`
		req := httptest.NewRequest(http.MethodPost, "/order/verify-payment", strings.NewReader(reqBody))
		rec := httptest.NewRecorder()

		handler.HandleVerifyPayment(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", rec.Code)
		}
		if decodeEnvelope(t, rec)["message"] != "Server error" {
			t.Errorf("unexpected message: %s", rec.Body.String())
		}
	})
}

func TestHandler_HandleGet(t *testing.T) {
	t.Run("rejects a malformed id", func(t *testing.T) {
		handler := newTestHandler(&fakeStore{}, &fakeGateway{})

		req := httptest.NewRequest(http.MethodGet, "/order/not-a-uuid", nil)
		req.SetPathValue("id", "not-a-uuid")
		rec := httptest.NewRecorder()

		handler.HandleGet(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("returns the order by id", func(t *testing.T) {
		store := &fakeStore{}
		gateway := &fakeGateway{nextOrderID: "order_rp_1"}
		created := setupPendingOrder(t, store, gateway, "order_rp_1")
		handler := newTestHandler(store, gateway)

		req := httptest.NewRequest(http.MethodGet, "/order/"+created.ID, nil)
		req.SetPathValue("id", created.ID)
		rec := httptest.NewRecorder()

		handler.HandleGet(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		data := decodeEnvelope(t, rec)["data"].(map[string]any)
		if data["id"] != created.ID {
			t.Errorf("expected order %s, got %v", created.ID, data["id"])
		}
	})
}

func TestHandler_HandleTodaySales(t *testing.T) {
	handler := newTestHandler(&fakeStore{}, &fakeGateway{})

	req := httptest.NewRequest(http.MethodGet, "/order/today-sales", nil)
	rec := httptest.NewRecorder()

	handler.HandleTodaySales(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["timezone"] != "UTC+05:30" {
		t.Errorf("expected timezone UTC+05:30, got %v", body["timezone"])
	}
	data := body["data"].(map[string]any)
	if data["totalOrders"].(float64) != 0 {
		t.Errorf("expected zero orders, got %v", data["totalOrders"])
	}
}
