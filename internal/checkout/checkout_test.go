package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/openmenu/storefront/internal/cart"
	"github.com/openmenu/storefront/internal/models"
	"github.com/openmenu/storefront/pkg/logger"
)

type fakeCatalog struct {
	restaurant *models.Restaurant
	products   []models.Product
}

func (f *fakeCatalog) Snapshot() (*models.Restaurant, []models.Product, error) {
	return f.restaurant, f.products, nil
}

type fakeBackend struct {
	products    []models.Product
	listErr     error
	listCalls   int
	createCalls int
	createErr   error
	orderID     string
	lastReq     models.CreateOrderRequest
}

func (f *fakeBackend) ListProducts(ctx context.Context, restaurantID string) ([]models.Product, error) {
	f.listCalls++
	return f.products, f.listErr
}

func (f *fakeBackend) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (string, error) {
	f.createCalls++
	f.lastReq = req
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.orderID, nil
}

func product(id, name string, priceCents int64, active bool) models.Product {
	return models.Product{ID: id, Name: name, PriceCents: priceCents, Active: active, RestaurantID: "r1"}
}

func openRestaurant() *models.Restaurant {
	return &models.Restaurant{ID: "r1", Name: "Test Kitchen", IsOpen: true}
}

func validRequest() Request {
	return Request{
		CustomerName:    "Ana Souza",
		CustomerPhone:   "(11) 98765-4321",
		CustomerAddress: "Rua Um, 42",
		PaymentMethod:   models.PaymentCard,
	}
}

func newService(catalog *fakeCatalog, backend *fakeBackend) *Service {
	return New(catalog, backend, "r1", logger.New("error"))
}

func TestSubmit_RestaurantClosed(t *testing.T) {
	closed := &models.Restaurant{ID: "r1", Name: "Test Kitchen", IsOpen: false}
	be := &fakeBackend{}
	svc := newService(&fakeCatalog{restaurant: closed}, be)

	crt := cart.New()
	crt.Add(product("a", "Burger", 500, true))

	_, err := svc.Submit(context.Background(), crt, validRequest())
	if !errors.Is(err, ErrRestaurantClosed) {
		t.Fatalf("err = %v, want ErrRestaurantClosed", err)
	}
	if be.listCalls != 0 || be.createCalls != 0 {
		t.Error("no network call may happen after a validation failure")
	}
}

func TestSubmit_EmptyCartRejectedBeforeNetwork(t *testing.T) {
	be := &fakeBackend{}
	svc := newService(&fakeCatalog{restaurant: openRestaurant()}, be)

	_, err := svc.Submit(context.Background(), cart.New(), validRequest())
	if !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("err = %v, want ErrCartEmpty", err)
	}
	if be.listCalls != 0 || be.createCalls != 0 {
		t.Error("no network call may happen for an empty cart")
	}
}

func TestSubmit_CustomerValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Request)
		wantField string
	}{
		{
			name:      "missing name",
			mutate:    func(r *Request) { r.CustomerName = "   " },
			wantField: "customerName",
		},
		{
			name:      "phone with fewer than 10 digits",
			mutate:    func(r *Request) { r.CustomerPhone = "987-654" },
			wantField: "customerPhone",
		},
		{
			name:      "missing address",
			mutate:    func(r *Request) { r.CustomerAddress = "" },
			wantField: "customerAddress",
		},
		{
			name:      "unknown payment method",
			mutate:    func(r *Request) { r.PaymentMethod = "BARTER" },
			wantField: "paymentMethod",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be := &fakeBackend{}
			svc := newService(&fakeCatalog{restaurant: openRestaurant()}, be)

			crt := cart.New()
			crt.Add(product("a", "Burger", 500, true))

			req := validRequest()
			tt.mutate(&req)

			_, err := svc.Submit(context.Background(), crt, req)

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", vErr.Field, tt.wantField)
			}
			if be.listCalls != 0 || be.createCalls != 0 {
				t.Error("no network call may happen after a validation failure")
			}
		})
	}
}

func TestSubmit_CashChangeValidation(t *testing.T) {
	// Cart total is 1000 cents.
	tests := []struct {
		name      string
		changeFor string
		wantErr   bool
	}{
		{name: "change below total rejected", changeFor: "9.99", wantErr: true},
		{name: "change equal to total accepted", changeFor: "10.00", wantErr: false},
		{name: "change above total accepted", changeFor: "50", wantErr: false},
		{name: "non-numeric rejected", changeFor: "fifty", wantErr: true},
		{name: "zero rejected", changeFor: "0", wantErr: true},
		{name: "negative rejected", changeFor: "-5", wantErr: true},
		{name: "empty means no change requested", changeFor: "", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := product("a", "Burger", 500, true)
			be := &fakeBackend{products: []models.Product{p}, orderID: "o-1"}
			svc := newService(&fakeCatalog{restaurant: openRestaurant()}, be)

			crt := cart.New()
			crt.Add(p)
			crt.Add(p)

			req := validRequest()
			req.PaymentMethod = models.PaymentCash
			req.CashChangeFor = tt.changeFor

			_, err := svc.Submit(context.Background(), crt, req)

			if tt.wantErr {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("err = %v, want ValidationError", err)
				}
				if vErr.Field != "cashChangeFor" {
					t.Errorf("field = %q, want cashChangeFor", vErr.Field)
				}
				if be.createCalls != 0 {
					t.Error("order may not be created after a payment validation failure")
				}
				return
			}

			if err != nil {
				t.Fatalf("Submit() unexpected error = %v", err)
			}
		})
	}
}

func TestSubmit_ChangeForCentsForwarded(t *testing.T) {
	p := product("a", "Burger", 500, true)
	be := &fakeBackend{products: []models.Product{p}, orderID: "o-1"}
	svc := newService(&fakeCatalog{restaurant: openRestaurant()}, be)

	crt := cart.New()
	crt.Add(p)

	req := validRequest()
	req.PaymentMethod = models.PaymentCash
	req.CashChangeFor = "20.00"

	if _, err := svc.Submit(context.Background(), crt, req); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if be.lastReq.CashChangeForCents == nil || *be.lastReq.CashChangeForCents != 2000 {
		t.Errorf("CashChangeForCents = %v, want 2000", be.lastReq.CashChangeForCents)
	}
}

func TestSubmit_StaleCartPartiallyDropped(t *testing.T) {
	a := product("a", "Burger", 500, true)
	b := product("b", "Fries", 300, true)

	// Live catalog at submit time: b went inactive.
	be := &fakeBackend{products: []models.Product{a, product("b", "Fries", 300, false)}}
	svc := newService(&fakeCatalog{restaurant: openRestaurant()}, be)

	crt := cart.New()
	crt.Add(a)
	crt.Add(b)

	_, err := svc.Submit(context.Background(), crt, validRequest())
	if !errors.Is(err, ErrCartChanged) {
		t.Fatalf("err = %v, want ErrCartChanged", err)
	}
	if be.createCalls != 0 {
		t.Error("submission must be aborted when any line was dropped")
	}
	if crt.Len() != 1 || crt.Qty("a") != 1 {
		t.Errorf("cart should hold only the survivor, got %+v", crt.Lines())
	}
}

func TestSubmit_StaleCartFullyDropped(t *testing.T) {
	a := product("a", "Burger", 500, true)

	be := &fakeBackend{products: []models.Product{}}
	svc := newService(&fakeCatalog{restaurant: openRestaurant()}, be)

	crt := cart.New()
	crt.Add(a)

	_, err := svc.Submit(context.Background(), crt, validRequest())
	if !errors.Is(err, ErrCartEmptied) {
		t.Fatalf("err = %v, want ErrCartEmptied", err)
	}
	if !crt.IsEmpty() {
		t.Error("cart must be cleared when every line was dropped")
	}
	if be.createCalls != 0 {
		t.Error("submission must be aborted when the cart was emptied")
	}
}

func TestSubmit_Success(t *testing.T) {
	a := product("a", "Burger", 500, true)
	b := product("b", "Fries", 300, true)

	be := &fakeBackend{products: []models.Product{a, b}, orderID: "o-42"}
	svc := newService(&fakeCatalog{restaurant: openRestaurant()}, be)

	crt := cart.New()
	crt.Add(a)
	crt.Add(a)
	crt.Add(b)

	orderID, err := svc.Submit(context.Background(), crt, validRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if orderID != "o-42" {
		t.Errorf("orderID = %q, want o-42", orderID)
	}
	if !crt.IsEmpty() {
		t.Error("cart must be cleared after a successful submission")
	}

	if be.lastReq.RestaurantID != "r1" {
		t.Errorf("RestaurantID = %q, want r1", be.lastReq.RestaurantID)
	}
	if be.lastReq.CustomerPhone != "11987654321" {
		t.Errorf("CustomerPhone = %q, want normalized digits", be.lastReq.CustomerPhone)
	}
	if len(be.lastReq.Items) != 2 {
		t.Fatalf("submitted %d items, want 2", len(be.lastReq.Items))
	}
	if be.lastReq.Items[0].ProductID != "a" || be.lastReq.Items[0].Quantity != 2 {
		t.Errorf("items[0] = %+v, want product a qty 2", be.lastReq.Items[0])
	}
}

func TestSubmit_BackendFailureKeepsCart(t *testing.T) {
	a := product("a", "Burger", 500, true)

	be := &fakeBackend{products: []models.Product{a}, createErr: errors.New("connection refused")}
	svc := newService(&fakeCatalog{restaurant: openRestaurant()}, be)

	crt := cart.New()
	crt.Add(a)

	_, err := svc.Submit(context.Background(), crt, validRequest())
	if err == nil {
		t.Fatal("Submit() expected error")
	}
	if crt.IsEmpty() {
		t.Error("cart must be kept when submission fails")
	}
}
