package payments_http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mealmate525/ecommerce-bakend/internal/app/payments"
	"github.com/mealmate525/ecommerce-bakend/internal/domain"
)

type PaymentHandler struct {
	service payments.PaymentService
	logger  *zap.Logger
}

func NewPaymentHandler(s payments.PaymentService, l *zap.Logger) *PaymentHandler {
	return &PaymentHandler{service: s, logger: l}
}

func (h *PaymentHandler) CreatePaymentLinkHandler(w http.ResponseWriter, r *http.Request) {
	orderIDStr := chi.URLParam(r, "orderId")
	orderID, err := strconv.ParseInt(orderIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("Invalid order ID format", zap.String("order_id_str", orderIDStr), zap.Error(err))
		http.Error(w, "Invalid order ID format", http.StatusBadRequest)
		return
	}

	authorization := r.Header.Get("Authorization")
	if strings.TrimSpace(authorization) == "" {
		h.logger.Warn("Authorization header missing for payment link request", zap.Int64("order_id", orderID))
		http.Error(w, "Authorization header is required", http.StatusBadRequest)
		return
	}

	res, err := h.service.IssuePaymentLink(r.Context(), orderID, authorization)
	if err != nil {
		h.writeError(w, err, orderID)
		return
	}

	h.writeJSON(w, http.StatusCreated, res)
}

func (h *PaymentHandler) ConfirmPaymentHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	paymentID := strings.TrimSpace(query.Get("payment_id"))
	if paymentID == "" {
		http.Error(w, "payment_id is required", http.StatusBadRequest)
		return
	}

	orderIDStr := query.Get("order_id")
	orderID, err := strconv.ParseInt(orderIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("Invalid order ID format", zap.String("order_id_str", orderIDStr), zap.Error(err))
		http.Error(w, "Invalid order ID format", http.StatusBadRequest)
		return
	}

	res, err := h.service.ConfirmPayment(r.Context(), paymentID, orderID)
	if err != nil {
		h.writeError(w, err, orderID)
		return
	}

	h.writeJSON(w, http.StatusAccepted, res)
}

func (h *PaymentHandler) writeError(w http.ResponseWriter, err error, orderID int64) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		http.Error(w, "Order not found", http.StatusNotFound)
	case errors.Is(err, payments.ErrGatewayFailure):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		h.logger.Error("Payment request failed", zap.Int64("order_id", orderID), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *PaymentHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to send JSON response", zap.Error(err))
	}
}
