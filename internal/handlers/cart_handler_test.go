package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openmenu/storefront/internal/catalog"
	"github.com/openmenu/storefront/internal/middleware"
	"github.com/openmenu/storefront/internal/models"
	"github.com/openmenu/storefront/internal/session"
	"github.com/openmenu/storefront/pkg/logger"
)

type stubFetcher struct {
	restaurant *models.Restaurant
	restErr    error
	products   []models.Product
	prodErr    error
}

func (s *stubFetcher) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	return s.restaurant, s.restErr
}

func (s *stubFetcher) ListProducts(ctx context.Context, restaurantID string) ([]models.Product, error) {
	return s.products, s.prodErr
}

func testCatalog(t *testing.T) *catalog.Loader {
	t.Helper()
	fetch := &stubFetcher{
		restaurant: &models.Restaurant{ID: "r1", Name: "Test Kitchen", IsOpen: true},
		products: []models.Product{
			{ID: "a", Name: "Burger", PriceCents: 500, Active: true, RestaurantID: "r1"},
			{ID: "b", Name: "Fries", PriceCents: 300, Active: true, RestaurantID: "r1"},
			{ID: "c", Name: "Old Special", PriceCents: 900, Active: false, RestaurantID: "r1"},
		},
	}
	loader := catalog.New(fetch, "r1", time.Hour, logger.New("error"))
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("catalog load: %v", err)
	}
	return loader
}

func cartRouter(t *testing.T) *chi.Mux {
	t.Helper()
	log := logger.New("error")
	store := session.NewStore(time.Hour, log)
	handler := NewCartHandler(testCatalog(t), log)

	r := chi.NewRouter()
	r.Use(middleware.Session(store))
	r.Get("/api/cart", handler.Get)
	r.Post("/api/cart/items", handler.AddItem)
	r.Delete("/api/cart/items/{productId}", handler.RemoveItem)
	r.Delete("/api/cart", handler.Clear)
	return r
}

// do runs a request carrying the given session cookie, returning the
// recorder and the cookie to reuse (from the first response when new).
func do(t *testing.T, router *chi.Mux, method, path, body string, cookie *http.Cookie) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if cookie == nil {
		for _, c := range w.Result().Cookies() {
			if c.Name == middleware.CookieName {
				cookie = c
			}
		}
	}
	return w, cookie
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) cartView {
	t.Helper()
	var view cartView
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode cart response: %v", err)
	}
	return view
}

func TestCartHandler_AddAndRemove(t *testing.T) {
	router := cartRouter(t)

	w, cookie := do(t, router, http.MethodPost, "/api/cart/items", `{"productId":"a"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("add status = %d, want 200", w.Code)
	}

	w, _ = do(t, router, http.MethodPost, "/api/cart/items", `{"productId":"a"}`, cookie)
	view := decodeCart(t, w)
	if len(view.Items) != 1 || view.Items[0].Quantity != 2 {
		t.Fatalf("cart = %+v, want product a at qty 2", view)
	}
	if view.TotalCents != 1000 {
		t.Errorf("total = %d, want 1000", view.TotalCents)
	}

	w, _ = do(t, router, http.MethodDelete, "/api/cart/items/a", "", cookie)
	view = decodeCart(t, w)
	if view.Items[0].Quantity != 1 || view.TotalCents != 500 {
		t.Errorf("after remove cart = %+v", view)
	}

	w, _ = do(t, router, http.MethodDelete, "/api/cart/items/a", "", cookie)
	view = decodeCart(t, w)
	if len(view.Items) != 0 {
		t.Errorf("line should be deleted at quantity 0, cart = %+v", view)
	}
}

func TestCartHandler_AddUnknownProduct(t *testing.T) {
	router := cartRouter(t)

	w, _ := do(t, router, http.MethodPost, "/api/cart/items", `{"productId":"nope"}`, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCartHandler_AddInactiveProduct(t *testing.T) {
	router := cartRouter(t)

	w, cookie := do(t, router, http.MethodPost, "/api/cart/items", `{"productId":"c"}`, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}

	w, _ = do(t, router, http.MethodGet, "/api/cart", "", cookie)
	view := decodeCart(t, w)
	if len(view.Items) != 0 {
		t.Errorf("cart must stay empty after inactive add, got %+v", view)
	}
}

func TestCartHandler_SessionsAreIsolated(t *testing.T) {
	router := cartRouter(t)

	_, cookieA := do(t, router, http.MethodPost, "/api/cart/items", `{"productId":"a"}`, nil)

	w, _ := do(t, router, http.MethodGet, "/api/cart", "", nil)
	view := decodeCart(t, w)
	if len(view.Items) != 0 {
		t.Errorf("a fresh session must start with an empty cart, got %+v", view)
	}

	w, _ = do(t, router, http.MethodGet, "/api/cart", "", cookieA)
	view = decodeCart(t, w)
	if len(view.Items) != 1 {
		t.Errorf("original session lost its cart, got %+v", view)
	}
}

func TestCartHandler_Clear(t *testing.T) {
	router := cartRouter(t)

	_, cookie := do(t, router, http.MethodPost, "/api/cart/items", `{"productId":"a"}`, nil)
	do(t, router, http.MethodPost, "/api/cart/items", `{"productId":"b"}`, cookie)

	w, _ := do(t, router, http.MethodDelete, "/api/cart", "", cookie)
	view := decodeCart(t, w)
	if len(view.Items) != 0 || view.TotalCents != 0 {
		t.Errorf("cart should be empty after clear, got %+v", view)
	}
}
