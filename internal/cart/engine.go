package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"food-storefront/internal/models"
)

// Engine holds the lines of one session's cart. It is not safe for
// concurrent use; the owning session serializes access.
type Engine struct {
	pricing Pricing
	lines   []models.CartLine
}

// Snapshot is the cart state captured for checkout
type Snapshot struct {
	Lines     []models.CartLine
	Totals    models.Totals
	PromoCode string
}

// NewEngine creates an empty cart priced with pricing
func NewEngine(pricing Pricing) *Engine {
	return &Engine{pricing: pricing}
}

// Pricing returns the rates the cart was created with
func (e *Engine) Pricing() Pricing {
	return e.pricing
}

// AddOrIncrement adds one unit of item. An existing line for the same
// (item, variant) is incremented instead of duplicated.
func (e *Engine) AddOrIncrement(item models.MenuItem, variant string) models.CartLine {
	for i := range e.lines {
		if e.lines[i].ItemRef == item.ID && e.lines[i].Variant == variant {
			e.lines[i].Quantity++
			return e.lines[i]
		}
	}

	line := models.CartLine{
		ID:        uuid.NewString(),
		ItemRef:   item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  1,
		Variant:   variant,
		ImageURL:  item.ImageURL,
	}
	e.lines = append(e.lines, line)
	return line
}

// SetQuantity sets a line's quantity. Anything below 1 removes the line.
// It reports false when no line has the given id.
func (e *Engine) SetQuantity(lineID string, quantity int) bool {
	i := e.index(lineID)
	if i < 0 {
		return false
	}
	if quantity < 1 {
		e.removeAt(i)
		return true
	}
	e.lines[i].Quantity = quantity
	return true
}

// Remove deletes the line if present
func (e *Engine) Remove(lineID string) {
	if i := e.index(lineID); i >= 0 {
		e.removeAt(i)
	}
}

// Clear empties the cart
func (e *Engine) Clear() {
	e.lines = nil
}

// Lines returns a copy of the lines in insertion order
func (e *Engine) Lines() []models.CartLine {
	return append([]models.CartLine(nil), e.lines...)
}

// Line looks up a line by id
func (e *Engine) Line(lineID string) (models.CartLine, bool) {
	if i := e.index(lineID); i >= 0 {
		return e.lines[i], true
	}
	return models.CartLine{}, false
}

// Len is the number of distinct lines
func (e *Engine) Len() int {
	return len(e.lines)
}

// ItemCount is the total number of units across all lines
func (e *Engine) ItemCount() int {
	n := 0
	for _, l := range e.lines {
		n += l.Quantity
	}
	return n
}

// ComputeTotals derives subtotal, tax, delivery fee, discount and total
func (e *Engine) ComputeTotals(promoCode string) models.Totals {
	subtotal := decimal.Zero
	for _, l := range e.lines {
		subtotal = subtotal.Add(l.LineTotal())
	}

	tax := subtotal.Mul(e.pricing.TaxRate)

	deliveryFee := decimal.Zero
	if len(e.lines) > 0 {
		deliveryFee = e.pricing.DeliveryFee
	}

	discount := decimal.Zero
	if e.pricing.PromoApplies(promoCode) {
		discount = subtotal.Mul(e.pricing.PromoRate)
	}

	return models.Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: deliveryFee,
		Discount:    discount,
		Total:       subtotal.Add(tax).Add(deliveryFee).Sub(discount),
	}
}

// Snapshot captures lines and totals for checkout. PromoCode is kept only
// when it earned a discount.
func (e *Engine) Snapshot(promoCode string) Snapshot {
	snap := Snapshot{
		Lines:  e.Lines(),
		Totals: e.ComputeTotals(promoCode),
	}
	if e.pricing.PromoApplies(promoCode) {
		snap.PromoCode = promoCode
	}
	return snap
}

func (e *Engine) index(lineID string) int {
	for i := range e.lines {
		if e.lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

func (e *Engine) removeAt(i int) {
	e.lines = append(e.lines[:i], e.lines[i+1:]...)
}
