package models

import "time"

// OrderStatus is the backend-driven order lifecycle. The client only ever
// observes it; transitions happen server-side.
type OrderStatus string

const (
	OrderStatusNew            OrderStatus = "NEW"
	OrderStatusPreparing      OrderStatus = "PREPARING"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCanceled       OrderStatus = "CANCELED"
)

// IsTerminal reports whether no further status changes can occur.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCanceled
}

// OrderItem is a line item on a placed order. Name and unit price are
// snapshots taken by the backend at order time.
type OrderItem struct {
	ID             string `json:"id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	NameSnapshot   string `json:"nameSnapshot"`
}

// OrderRestaurant is the restaurant summary embedded in an order record.
type OrderRestaurant struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// Order is the read-only projection of a placed order as returned by the
// backend order API.
type Order struct {
	ID                 string          `json:"id"`
	Status             OrderStatus     `json:"status"`
	TotalCents         int64           `json:"totalCents"`
	PaymentMethod      PaymentMethod   `json:"paymentMethod"`
	CashChangeForCents *int64          `json:"cashChangeForCents,omitempty"`
	Paid               bool            `json:"paid"`
	CreatedAt          time.Time       `json:"createdAt"`
	Restaurant         OrderRestaurant `json:"restaurant"`
	Items              []OrderItem     `json:"items"`
}

// CreateOrderItem is a (product, quantity) pair in an order submission.
type CreateOrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest is the order submission payload.
type CreateOrderRequest struct {
	RestaurantID       string            `json:"restaurantId"`
	CustomerName       string            `json:"customerName"`
	CustomerPhone      string            `json:"customerPhone"`
	CustomerAddress    string            `json:"customerAddress"`
	PaymentMethod      PaymentMethod     `json:"paymentMethod"`
	CashChangeForCents *int64            `json:"cashChangeForCents,omitempty"`
	Items              []CreateOrderItem `json:"items"`
}

// CreateOrderResponse accepts either identifier field the backend may use.
type CreateOrderResponse struct {
	OrderID string `json:"orderId"`
	ID      string `json:"id"`
}

// Identifier returns the order identifier from whichever field was set.
func (r CreateOrderResponse) Identifier() string {
	if r.OrderID != "" {
		return r.OrderID
	}
	return r.ID
}
