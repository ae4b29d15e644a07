package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/openmenu/storefront/internal/models"
)

var (
	// ErrOrderNotFound is returned when the order API answers 404. Shortly
	// after creation this usually means the order is not indexed yet.
	ErrOrderNotFound = errors.New("order not found")
)

// RequestError is a non-transient rejection from the backend (any HTTP
// error status). It is never retried.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("backend rejected request: status %d: %s", e.Status, e.Body)
}

// Options configures the backend client. All timeouts are enforced
// client-side via context cancellation since the API is opaque.
type Options struct {
	BaseURL           string
	RequestTimeout    time.Duration // catalog and tracking calls
	SubmitTimeout     time.Duration // per order-creation attempt
	SubmitRetryWait   time.Duration // fixed wait between attempts
	SubmitMaxAttempts int
}

// Client talks to the external restaurant API. Catalog and order state
// must reflect the backend's current truth, so every request bypasses
// intermediary caches.
type Client struct {
	rc   *resty.Client
	opts Options
	log  *slog.Logger
}

// New creates a backend client for the given base URL.
func New(opts Options, log *slog.Logger) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Cache-Control", "no-cache").
		SetHeader("Pragma", "no-cache")

	return &Client{
		rc:   rc,
		opts: opts,
		log:  log,
	}
}

// GetRestaurant fetches the restaurant record.
func (c *Client) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
	defer cancel()

	var out models.Restaurant
	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/restaurants/" + url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("fetch restaurant %s: %w", id, err)
	}
	if resp.IsError() {
		return nil, &RequestError{Status: resp.StatusCode(), Body: trimBody(resp.Body())}
	}

	return &out, nil
}

// ListProducts fetches the restaurant's product catalog.
func (c *Client) ListProducts(ctx context.Context, restaurantID string) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
	defer cancel()

	var out []models.Product
	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/restaurants/" + url.PathEscape(restaurantID) + "/products")
	if err != nil {
		return nil, fmt.Errorf("fetch products for restaurant %s: %w", restaurantID, err)
	}
	if resp.IsError() {
		return nil, &RequestError{Status: resp.StatusCode(), Body: trimBody(resp.Body())}
	}

	return out, nil
}

// GetOrder fetches an order by identifier. A 404 maps to ErrOrderNotFound.
func (c *Client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
	defer cancel()

	var out models.Order
	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/public/orders/" + url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("fetch order %s: %w", id, err)
	}
	if resp.StatusCode() == 404 {
		return nil, ErrOrderNotFound
	}
	if resp.IsError() {
		return nil, &RequestError{Status: resp.StatusCode(), Body: trimBody(resp.Body())}
	}

	return &out, nil
}

// CreateOrder submits an order with bounded retry: up to SubmitMaxAttempts
// attempts, each bounded by SubmitTimeout, retrying only transient
// failures (network errors and timeouts). A rejected request is returned
// immediately. Returns the backend-assigned order identifier.
func (c *Client) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.opts.SubmitMaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.opts.SubmitRetryWait):
			}
		}

		id, err := c.createOrderOnce(ctx, req)
		if err == nil {
			return id, nil
		}
		if !isTransient(err) {
			return "", err
		}

		lastErr = err
		c.log.Warn("order submission attempt failed",
			"attempt", attempt,
			"max_attempts", c.opts.SubmitMaxAttempts,
			"error", err,
		)
	}

	return "", lastErr
}

func (c *Client) createOrderOnce(ctx context.Context, req models.CreateOrderRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.SubmitTimeout)
	defer cancel()

	var out models.CreateOrderResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		Post("/public/orders")
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	if resp.IsError() {
		return "", &RequestError{Status: resp.StatusCode(), Body: trimBody(resp.Body())}
	}

	id := out.Identifier()
	if id == "" {
		return "", &RequestError{Status: resp.StatusCode(), Body: "response missing order identifier"}
	}

	return id, nil
}

// isTransient classifies a failure as retryable. Only network failures and
// timeouts qualify; backend rejections and caller cancellation do not.
func isTransient(err error) bool {
	var re *RequestError
	if errors.As(err, &re) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue)
}

func trimBody(body []byte) string {
	const max = 512
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max]
	}
	return s
}
