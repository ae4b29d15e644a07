package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/openmenu/storefront/internal/models"
)

// Fetcher is the subset of the backend client the loader needs.
type Fetcher interface {
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
	ListProducts(ctx context.Context, restaurantID string) ([]models.Product, error)
}

// Loader mirrors the restaurant record and product list from the backend
// catalog. Restaurant-fetch failure is blocking (surfaced until a retry
// succeeds); product-fetch failure degrades to an empty list so the page
// stays usable.
type Loader struct {
	fetcher         Fetcher
	restaurantID    string
	refreshInterval time.Duration
	log             *slog.Logger

	mu         sync.RWMutex
	restaurant *models.Restaurant
	products   []models.Product
	loadErr    error
}

// New creates a loader for one restaurant.
func New(fetcher Fetcher, restaurantID string, refreshInterval time.Duration, log *slog.Logger) *Loader {
	return &Loader{
		fetcher:         fetcher,
		restaurantID:    restaurantID,
		refreshInterval: refreshInterval,
		log:             log,
		products:        []models.Product{},
	}
}

// Load fetches the restaurant and product list concurrently and replaces
// the local mirrors. On restaurant failure the previously held data is
// retained and the error is recorded as the blocking load error. On
// product failure alone the product mirror degrades to empty.
func (l *Loader) Load(ctx context.Context) error {
	var (
		wg         sync.WaitGroup
		restaurant *models.Restaurant
		restErr    error
		products   []models.Product
		prodErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		restaurant, restErr = l.fetcher.GetRestaurant(ctx, l.restaurantID)
	}()
	go func() {
		defer wg.Done()
		products, prodErr = l.fetcher.ListProducts(ctx, l.restaurantID)
	}()
	wg.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()

	if restErr != nil {
		l.loadErr = restErr
		l.log.Error("restaurant fetch failed", "restaurant_id", l.restaurantID, "error", restErr)
		return restErr
	}

	l.restaurant = restaurant
	l.loadErr = nil

	if prodErr != nil {
		l.products = []models.Product{}
		l.log.Warn("product fetch failed, degrading to empty list",
			"restaurant_id", l.restaurantID, "error", prodErr)
		return nil
	}

	if products == nil {
		products = []models.Product{}
	}
	l.products = products
	return nil
}

// Run refreshes the catalog on a fixed interval until ctx is cancelled.
// Refresh failures are logged, never fatal.
func (l *Loader) Run(ctx context.Context) {
	ticker := time.NewTicker(l.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := l.Load(ctx); err != nil {
				l.log.Warn("catalog refresh failed", "error", err)
			}
		}
	}
}

// Snapshot returns the current mirrors and blocking load error. The
// returned slice is a copy; callers may not mutate loader state.
func (l *Loader) Snapshot() (*models.Restaurant, []models.Product, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var restaurant *models.Restaurant
	if l.restaurant != nil {
		r := *l.restaurant
		restaurant = &r
	}

	products := make([]models.Product, len(l.products))
	copy(products, l.products)

	return restaurant, products, l.loadErr
}

// Product looks up a product by ID in the current mirror.
func (l *Loader) Product(id string) (models.Product, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, p := range l.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
