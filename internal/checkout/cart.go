package checkout

import "github.com/google/uuid"

// Product is the read-only catalog snapshot the cart works against.
// Price is in cents; Stock is the available quantity at lookup time.
type Product struct {
	ID      uuid.UUID
	Name    string
	Barcode string
	Price   int64
	Stock   int
}

// Line is a single cart entry. Name, Price and Stock are snapshotted from the
// product at add time and stay fixed for the life of the line.
type Line struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"-"`
	Stock     int       `json:"stock"`
	Quantity  int       `json:"quantity"`
}

// LineTotal returns price × quantity in cents.
func (l *Line) LineTotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Cart is an ordered collection of lines, at most one per product id.
// It is not safe for concurrent use; the owning Session serializes access.
type Cart struct {
	lines []Line
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) find(productID uuid.UUID) *Line {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return &c.lines[i]
		}
	}
	return nil
}

// AddItem adds one unit of the product. If a line already exists its quantity
// is incremented, silently capped at the stock snapshot. A new line starts at
// quantity 1. Products with zero stock are not added.
func (c *Cart) AddItem(p Product) {
	if line := c.find(p.ID); line != nil {
		if line.Quantity < line.Stock {
			line.Quantity++
		}
		return
	}
	if p.Stock < 1 {
		return
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		Quantity:  1,
	})
}

// RemoveItem deletes the line for the product if present. Removing an absent
// product is a no-op.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity sets the line quantity. The change applies only when
// 0 < quantity <= stock; anything else leaves the cart unchanged.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) {
	line := c.find(productID)
	if line == nil {
		return
	}
	if quantity > 0 && quantity <= line.Stock {
		line.Quantity = quantity
	}
}

// Clear empties the cart. Clearing an empty cart is a no-op.
func (c *Cart) Clear() {
	c.lines = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Subtotal returns the sum of line totals in cents.
func (c *Cart) Subtotal() int64 {
	var sum int64
	for i := range c.lines {
		sum += c.lines[i].LineTotal()
	}
	return sum
}

// TotalItems returns the total unit count across all lines.
func (c *Cart) TotalItems() int {
	var n int
	for i := range c.lines {
		n += c.lines[i].Quantity
	}
	return n
}
