package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/openmenu/storefront/internal/cart"
	"github.com/openmenu/storefront/internal/models"
)

// minPhoneDigits is the minimum digit count a customer phone must
// normalize to.
const minPhoneDigits = 10

var (
	ErrRestaurantClosed = errors.New("restaurant is closed")
	ErrCartEmpty        = errors.New("cart is empty")

	// ErrCartEmptied: every cart line vanished or went inactive between cart
	// build and submission; the cart was cleared and the user must re-select.
	ErrCartEmptied = errors.New("all cart items became unavailable")

	// ErrCartChanged: some lines were dropped; the cart now holds only the
	// survivors and the user must review before submitting again.
	ErrCartChanged = errors.New("some cart items became unavailable")
)

// ValidationError identifies the specific field that blocked submission.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CatalogSource provides the current catalog mirror.
type CatalogSource interface {
	Snapshot() (*models.Restaurant, []models.Product, error)
}

// Backend is the subset of the backend client submission needs.
type Backend interface {
	ListProducts(ctx context.Context, restaurantID string) ([]models.Product, error)
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (string, error)
}

// Request carries the customer-entered checkout fields. CashChangeFor is
// the raw user input (e.g. "50.00"); empty means no change requested.
type Request struct {
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	PaymentMethod   models.PaymentMethod
	CashChangeFor   string
}

// Service validates and submits orders. Validation runs in a fixed order
// and aborts on the first failure; no partial submission occurs.
type Service struct {
	catalog      CatalogSource
	backend      Backend
	restaurantID string
	log          *slog.Logger
}

// New creates a checkout service.
func New(catalog CatalogSource, backend Backend, restaurantID string, log *slog.Logger) *Service {
	return &Service{
		catalog:      catalog,
		backend:      backend,
		restaurantID: restaurantID,
		log:          log,
	}
}

// Submit validates the request, reconciles the cart against the live
// catalog, and creates the order. On success the cart is cleared and the
// backend-assigned order identifier returned.
func (s *Service) Submit(ctx context.Context, crt *cart.Cart, req Request) (string, error) {
	restaurant, _, _ := s.catalog.Snapshot()
	if restaurant == nil || !restaurant.IsOpen {
		return "", ErrRestaurantClosed
	}

	if crt.IsEmpty() {
		return "", ErrCartEmpty
	}

	if err := validateCustomer(req); err != nil {
		return "", err
	}

	changeCents, err := validatePayment(req, crt.TotalCents())
	if err != nil {
		return "", err
	}

	// Re-fetch the live catalog immediately before submission; only a cart
	// whose every line survives may be submitted.
	fresh, err := s.backend.ListProducts(ctx, s.restaurantID)
	if err != nil {
		return "", fmt.Errorf("refresh catalog before submit: %w", err)
	}
	if dropped := crt.Reconcile(fresh); len(dropped) > 0 {
		s.log.Info("cart lines dropped before submission", "dropped", dropped)
		if crt.IsEmpty() {
			return "", ErrCartEmptied
		}
		return "", ErrCartChanged
	}

	payload := models.CreateOrderRequest{
		RestaurantID:       s.restaurantID,
		CustomerName:       strings.TrimSpace(req.CustomerName),
		CustomerPhone:      models.DigitsOnly(req.CustomerPhone),
		CustomerAddress:    strings.TrimSpace(req.CustomerAddress),
		PaymentMethod:      req.PaymentMethod,
		CashChangeForCents: changeCents,
		Items:              crt.Items(),
	}

	orderID, err := s.backend.CreateOrder(ctx, payload)
	if err != nil {
		return "", err
	}

	crt.Clear()
	s.log.Info("order submitted", "order_id", orderID, "items", len(payload.Items))
	return orderID, nil
}

func validateCustomer(req Request) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return &ValidationError{Field: "customerName", Reason: "name is required"}
	}
	if len(models.DigitsOnly(req.CustomerPhone)) < minPhoneDigits {
		return &ValidationError{Field: "customerPhone", Reason: "phone must have at least 10 digits"}
	}
	if strings.TrimSpace(req.CustomerAddress) == "" {
		return &ValidationError{Field: "customerAddress", Reason: "delivery address is required"}
	}
	return nil
}

// validatePayment checks the method and, for cash with a change-for amount
// supplied, parses the amount and requires it to cover the cart total.
// Equal to the total is accepted.
func validatePayment(req Request, totalCents int64) (*int64, error) {
	if !req.PaymentMethod.Valid() {
		return nil, &ValidationError{Field: "paymentMethod", Reason: "unknown payment method"}
	}

	if req.PaymentMethod != models.PaymentCash || strings.TrimSpace(req.CashChangeFor) == "" {
		return nil, nil
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.CashChangeFor))
	if err != nil || !amount.IsPositive() {
		return nil, &ValidationError{Field: "cashChangeFor", Reason: "must be a positive amount"}
	}

	cents := amount.Shift(2).Truncate(0).IntPart()
	if cents < totalCents {
		return nil, &ValidationError{Field: "cashChangeFor", Reason: "change must be greater than or equal to the order total"}
	}

	return &cents, nil
}
