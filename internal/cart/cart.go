package cart

import (
	"sort"
	"sync"

	"github.com/openmenu/storefront/internal/models"
)

// Line is one cart entry: a product plus a positive quantity. Quantity is
// never below 1; removal below 1 deletes the line.
type Line struct {
	Product models.Product
	Qty     int
}

// SubtotalCents is the line's contribution to the cart total.
func (l Line) SubtotalCents() int64 {
	return l.Product.PriceCents * int64(l.Qty)
}

// Cart holds a session's selected products keyed by product identifier.
// Methods are safe for concurrent use; multiple browser requests may hit
// the same session cart at once.
type Cart struct {
	mu    sync.Mutex
	lines map[string]*Line
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{lines: make(map[string]*Line)}
}

// Add increments the product's quantity by one, creating the line at
// quantity 1 if absent. Inactive products are a no-op; Add reports whether
// the cart changed.
func (c *Cart) Add(p models.Product) bool {
	if !p.Active {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if line, ok := c.lines[p.ID]; ok {
		line.Qty++
		line.Product = p
		return true
	}
	c.lines[p.ID] = &Line{Product: p, Qty: 1}
	return true
}

// Remove decrements the product's quantity by one, deleting the line when
// it reaches zero. Absent products are a no-op.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	line, ok := c.lines[productID]
	if !ok {
		return
	}
	line.Qty--
	if line.Qty <= 0 {
		delete(c.lines, productID)
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = make(map[string]*Line)
}

// Reconcile intersects the cart against a fresh catalog snapshot: lines
// whose product is missing or inactive are dropped, retained lines get the
// latest product data (price, name). Returns the names of dropped products
// so callers can notify the user.
func (c *Cart) Reconcile(fresh []models.Product) []string {
	index := make(map[string]models.Product, len(fresh))
	for _, p := range fresh {
		index[p.ID] = p
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var dropped []string
	for id, line := range c.lines {
		p, ok := index[id]
		if !ok || !p.Active {
			dropped = append(dropped, line.Product.Name)
			delete(c.lines, id)
			continue
		}
		line.Product = p
	}
	sort.Strings(dropped)
	return dropped
}

// TotalCents recomputes the cart total from current lines. It is never
// cached separately from its inputs.
func (c *Cart) TotalCents() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, line := range c.lines {
		total += line.SubtotalCents()
	}
	return total
}

// Lines returns a copy of the cart lines in stable product-ID order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, 0, len(c.lines))
	for _, line := range c.lines {
		out = append(out, *line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product.ID < out[j].Product.ID })
	return out
}

// Items converts the cart into order submission items, in stable order.
func (c *Cart) Items() []models.CreateOrderItem {
	lines := c.Lines()
	items := make([]models.CreateOrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.CreateOrderItem{
			ProductID: line.Product.ID,
			Quantity:  line.Qty,
		})
	}
	return items
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

// Qty returns the quantity for a product, zero if absent.
func (c *Cart) Qty(productID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if line, ok := c.lines[productID]; ok {
		return line.Qty
	}
	return 0
}
