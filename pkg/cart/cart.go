package cart

import (
	"fmt"
	"time"
)

// Line is one distinct configuration in the draft order. Two selections with
// the same product, variation and optionals signature always collapse into
// one line.
type Line struct {
	ProductID          string  `json:"product_id"`
	ProductIdentify    string  `json:"product_identify"`
	ProductName        string  `json:"product_name"`
	VariationID        string  `json:"variation_id"`
	OptionalsSignature string  `json:"optionals_signature"`
	Quantity           int     `json:"quantity"`
	UnitPrice          float64 `json:"unit_price"`
}

// Key is the composite identity of the line within a cart.
func (l Line) Key() string {
	return fmt.Sprintf("%s:%s:%s", l.ProductID, l.VariationID, l.OptionalsSignature)
}

func (l Line) Total() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Selection is what the operator picked on the POS screen.
type Selection struct {
	ProductID       string
	ProductIdentify string
	ProductName     string
	BasePrice       float64
	VariationID     string
	VariationDelta  float64
	OptionalIDs     []string
}

// Cart is the in-progress order draft for one POS session.
type Cart struct {
	SessionID string    `json:"session_id"`
	Lines     []Line    `json:"lines"`
	Taxes     float64   `json:"taxes"`
	Discounts float64   `json:"discounts"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	Taxes     float64 `json:"taxes"`
	Discounts float64 `json:"discounts"`
	Total     float64 `json:"total"`
}

func New(sessionID string) *Cart {
	return &Cart{SessionID: sessionID}
}

// AddItem merges the selection into an existing line with the same composite
// key, or appends a new line with quantity 1. The unit price is the base
// price adjusted by the variation delta.
func (c *Cart) AddItem(sel Selection) Line {
	variation := sel.VariationID
	if variation == "" {
		variation = BaseVariation
	}

	line := Line{
		ProductID:          sel.ProductID,
		ProductIdentify:    sel.ProductIdentify,
		ProductName:        sel.ProductName,
		VariationID:        variation,
		OptionalsSignature: OptionalsSignature(sel.OptionalIDs),
		Quantity:           1,
		UnitPrice:          sel.BasePrice + sel.VariationDelta,
	}

	key := line.Key()
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines[i].Quantity++
			c.touch()
			return c.Lines[i]
		}
	}

	c.Lines = append(c.Lines, line)
	c.touch()
	return line
}

// IncrementItem raises the quantity of the keyed line by one.
func (c *Cart) IncrementItem(key string) bool {
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines[i].Quantity++
			c.touch()
			return true
		}
	}
	return false
}

// DecrementItem lowers the quantity by one; a line that reaches zero is
// removed so no zero-quantity lines persist.
func (c *Cart) DecrementItem(key string) bool {
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines[i].Quantity--
			if c.Lines[i].Quantity <= 0 {
				c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			}
			c.touch()
			return true
		}
	}
	return false
}

func (c *Cart) RemoveItem(key string) bool {
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.touch()
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.Lines = nil
	c.touch()
}

func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

// ComputeTotals returns subtotal plus taxes minus discounts; both default to
// zero when unset.
func (c *Cart) ComputeTotals() Totals {
	var subtotal float64
	for _, l := range c.Lines {
		subtotal += l.Total()
	}
	return Totals{
		Subtotal:  subtotal,
		Taxes:     c.Taxes,
		Discounts: c.Discounts,
		Total:     subtotal + c.Taxes - c.Discounts,
	}
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}
