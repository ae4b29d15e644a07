package models

// Product represents a catalog item available for order.
// Prices are integer minor currency units; the backend catalog is the
// source of truth and products are never mutated locally.
type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	PriceCents   int64   `json:"priceCents"`
	ImageURL     *string `json:"imageUrl,omitempty"`
	Active       bool    `json:"active"`
	RestaurantID string  `json:"restaurantId"`
}
