package handlers

import (
	"github.com/openmenu/storefront/internal/cart"
	"github.com/openmenu/storefront/internal/models"
)

// restaurantView is the restaurant as rendered to the browser. Optional
// fields get defined fallback text instead of being omitted.
type restaurantView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	IsOpen      bool   `json:"isOpen"`
	WhatsAppURL string `json:"whatsappUrl,omitempty"`
}

func newRestaurantView(r models.Restaurant, countryCode string) restaurantView {
	return restaurantView{
		ID:          r.ID,
		Name:        r.Name,
		Description: models.StringOr(r.Description, ""),
		Phone:       models.StringOr(r.Phone, "not provided"),
		Address:     models.StringOr(r.Address, "not provided"),
		IsOpen:      r.IsOpen,
		WhatsAppURL: models.WhatsAppLink(r.Phone, countryCode),
	}
}

type cartLineView struct {
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
	SubtotalCents  int64  `json:"subtotalCents"`
}

type cartView struct {
	Items      []cartLineView `json:"items"`
	TotalCents int64          `json:"totalCents"`
}

func newCartView(c *cart.Cart) cartView {
	lines := c.Lines()
	view := cartView{Items: make([]cartLineView, 0, len(lines))}
	for _, line := range lines {
		view.Items = append(view.Items, cartLineView{
			ProductID:      line.Product.ID,
			Name:           line.Product.Name,
			UnitPriceCents: line.Product.PriceCents,
			Quantity:       line.Qty,
			SubtotalCents:  line.SubtotalCents(),
		})
		view.TotalCents += line.SubtotalCents()
	}
	return view
}
