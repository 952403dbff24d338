package models

import "github.com/shopspring/decimal"

// CartLine is one aggregated (item, variant) entry in a cart
type CartLine struct {
	ID        string          `json:"id"`
	ItemRef   string          `json:"item_ref"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Variant   string          `json:"variant,omitempty"`
	ImageURL  string          `json:"image_url,omitempty"`
}

// LineTotal is unit price times quantity
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals are the derived money figures of a cart. Values are exact;
// rounding happens only in Display.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// DisplayTotals holds the two-decimal strings shown to the customer
type DisplayTotals struct {
	Subtotal    string `json:"subtotal"`
	Tax         string `json:"tax"`
	DeliveryFee string `json:"delivery_fee"`
	Discount    string `json:"discount"`
	Total       string `json:"total"`
}

// Display formats every figure as money
func (t Totals) Display() DisplayTotals {
	return DisplayTotals{
		Subtotal:    FormatMoney(t.Subtotal),
		Tax:         FormatMoney(t.Tax),
		DeliveryFee: FormatMoney(t.DeliveryFee),
		Discount:    FormatMoney(t.Discount),
		Total:       FormatMoney(t.Total),
	}
}

// FormatMoney renders an amount as dollars rounded half-up to cents
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
