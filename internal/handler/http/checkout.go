package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/BookingGo/internal/service"
	"github.com/utafrali/BookingGo/pkg/middleware"
	"github.com/utafrali/BookingGo/pkg/validator"
)

// CheckoutHandler handles HTTP requests for checkout endpoints.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// SubmitRequest is the JSON request body for submitting a checkout.
type SubmitRequest struct {
	CustomerName  string `json:"customer_name" validate:"required,min=1,max=200"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=credit_card debit_card paypal"`
}

// Submit handles POST /api/v1/checkout
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	guestID := middleware.GuestIDFromContext(r.Context())

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	result, err := h.service.Submit(r.Context(), guestID, service.SubmitInput{
		CustomerName:  req.CustomerName,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: result})
}

// Summary handles GET /api/v1/checkout/summary
func (h *CheckoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
	guestID := middleware.GuestIDFromContext(r.Context())

	summary, err := h.service.Summary(r.Context(), guestID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: summary})
}

// ListReceipts handles GET /api/v1/bookings
func (h *CheckoutHandler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	guestID := middleware.GuestIDFromContext(r.Context())

	receipts, err := h.service.ListReceipts(r.Context(), guestID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: receipts})
}

// GetReceipt handles GET /api/v1/bookings/{confirmationNumber}
func (h *CheckoutHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	guestID := middleware.GuestIDFromContext(r.Context())

	confirmationNumber := chi.URLParam(r, "confirmationNumber")
	if confirmationNumber == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "confirmationNumber is required"},
		})
		return
	}

	receipt, err := h.service.GetReceipt(r.Context(), guestID, confirmationNumber)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: receipt})
}
