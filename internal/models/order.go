package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the externally supplied status of a placed order
type OrderStatus string

const (
	StatusPending        OrderStatus = "PENDING"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusPreparing      OrderStatus = "PREPARING"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusCancelled      OrderStatus = "CANCELLED"
	StatusFailed         OrderStatus = "FAILED"
)

// ParseOrderStatus accepts only the known enumeration values
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch status := OrderStatus(s); status {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusOutForDelivery,
		StatusDelivered, StatusCancelled, StatusFailed:
		return status, nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

// IsTerminalError reports whether the order ended without delivery
func (s OrderStatus) IsTerminalError() bool {
	return s == StatusCancelled || s == StatusFailed
}

// PaymentMethod is the customer's chosen way to pay
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "creditCard"
	PaymentPayPal     PaymentMethod = "paypal"
	PaymentCOD        PaymentMethod = "cod"
)

// Valid reports whether m is one of the supported payment methods
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentPayPal, PaymentCOD:
		return true
	default:
		return false
	}
}

// CardDetails are only carried for credit card payments
type CardDetails struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVC    string `json:"cvc"`
}

// Last4 returns the final four characters of the card number, or the whole
// number when it is shorter
func (c CardDetails) Last4() string {
	r := []rune(c.Number)
	if len(r) <= 4 {
		return c.Number
	}
	return string(r[len(r)-4:])
}

// OrderRequest is the immutable snapshot produced by a successful checkout
type OrderRequest struct {
	Address       Address       `json:"address"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Card          *CardDetails  `json:"-"`
	Lines         []CartLine    `json:"lines"`
	Totals        Totals        `json:"totals"`
	PromoCode     string        `json:"promo_code,omitempty"`
	SubmittedAt   time.Time     `json:"submitted_at"`
}

// PastOrderStatus is the final outcome recorded for a historical order
type PastOrderStatus string

const (
	PastOrderDelivered PastOrderStatus = "Delivered"
	PastOrderCancelled PastOrderStatus = "Cancelled"
)

// PastOrderItem is one item of a historical order. ItemID may be empty
// for orders recorded before items carried catalog references.
type PastOrderItem struct {
	ItemID   string          `json:"item_id,omitempty"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// ItemRef is the cart reference used when the item is reordered
func (i PastOrderItem) ItemRef() string {
	if i.ItemID != "" {
		return i.ItemID
	}
	return i.Name
}

// PastOrder is a read-only snapshot of a finished order
type PastOrder struct {
	ID             string          `json:"id"`
	Date           time.Time       `json:"date"`
	RestaurantName string          `json:"restaurant_name"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Status         PastOrderStatus `json:"status"`
	Items          []PastOrderItem `json:"items"`
}

// GenerateOrderNumber generates an order number in format ORD_YYYYMMDD_NNN
func GenerateOrderNumber(date time.Time, sequence int) string {
	dateStr := date.Format("20060102")
	return fmt.Sprintf("ORD_%s_%03d", dateStr, sequence)
}
