package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/openmenu/storefront/internal/backend"
	"github.com/openmenu/storefront/internal/checkout"
	"github.com/openmenu/storefront/internal/middleware"
	"github.com/openmenu/storefront/internal/models"
)

// CheckoutHandler submits the session cart as an order.
type CheckoutHandler struct {
	service *checkout.Service
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(service *checkout.Service, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger,
	}
}

type checkoutRequest struct {
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`
	PaymentMethod   string `json:"paymentMethod"`
	CashChangeFor   string `json:"cashChangeFor"`
}

type checkoutResponse struct {
	OrderID string `json:"orderId"`
}

// Create handles POST /api/checkout
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	if sess == nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	orderID, err := h.service.Submit(r.Context(), sess.Cart, checkout.Request{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		PaymentMethod:   models.PaymentMethod(req.PaymentMethod),
		CashChangeFor:   req.CashChangeFor,
	})
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, checkoutResponse{OrderID: orderID})
}

func (h *CheckoutHandler) writeSubmitError(w http.ResponseWriter, err error) {
	var vErr *checkout.ValidationError
	var reqErr *backend.RequestError

	switch {
	case errors.Is(err, checkout.ErrRestaurantClosed):
		writeErrorCode(w, http.StatusConflict, "restaurant_closed", "The restaurant is closed right now")
	case errors.Is(err, checkout.ErrCartEmpty):
		writeErrorCode(w, http.StatusBadRequest, "cart_empty", "Your cart is empty")
	case errors.Is(err, checkout.ErrCartEmptied):
		writeErrorCode(w, http.StatusConflict, "cart_emptied",
			"The items in your cart are no longer available. Please choose again.")
	case errors.Is(err, checkout.ErrCartChanged):
		writeErrorCode(w, http.StatusConflict, "cart_changed",
			"Some items became unavailable and were removed. Review your cart before ordering.")
	case errors.As(err, &vErr):
		writeFieldError(w, http.StatusBadRequest, vErr.Field, vErr.Reason)
	case errors.As(err, &reqErr):
		h.logger.Error("backend rejected order", "status", reqErr.Status, "body", reqErr.Body)
		writeErrorCode(w, http.StatusBadGateway, "submission_rejected", "The order was rejected. Try again.")
	default:
		h.logger.Error("order submission failed", "error", err)
		writeErrorCode(w, http.StatusBadGateway, "submission_failed",
			"Could not reach the restaurant. Check your connection and try again.")
	}
}
