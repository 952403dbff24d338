package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderPlacedMessage is published to the restaurant side when checkout succeeds
type OrderPlacedMessage struct {
	OrderNumber     string          `json:"order_number"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	CardLast4       string          `json:"card_last4,omitempty"`
	DeliveryAddress string          `json:"delivery_address"`
	Items           []CartLine      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	Discount        decimal.Decimal `json:"discount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PromoCode       string          `json:"promo_code,omitempty"`
	PlacedAt        time.Time       `json:"placed_at"`
}

// StatusUpdateMessage is a status value pushed by the fulfillment side
type StatusUpdateMessage struct {
	OrderNumber string    `json:"order_number"`
	OldStatus   string    `json:"old_status"`
	NewStatus   string    `json:"new_status"`
	ChangedBy   string    `json:"changed_by"`
	Timestamp   time.Time `json:"timestamp"`
}

// CreateOrderPlacedMessage builds the wire message for an accepted order request
func CreateOrderPlacedMessage(req *OrderRequest, orderNumber string) *OrderPlacedMessage {
	msg := &OrderPlacedMessage{
		OrderNumber:     orderNumber,
		PaymentMethod:   req.PaymentMethod,
		DeliveryAddress: req.Address.String(),
		Items:           append([]CartLine(nil), req.Lines...),
		Subtotal:        req.Totals.Subtotal,
		Tax:             req.Totals.Tax,
		DeliveryFee:     req.Totals.DeliveryFee,
		Discount:        req.Totals.Discount,
		TotalAmount:     req.Totals.Total,
		PromoCode:       req.PromoCode,
		PlacedAt:        req.SubmittedAt,
	}
	if req.Card != nil {
		msg.CardLast4 = req.Card.Last4()
	}
	return msg
}

// CreateStatusUpdateMessage creates a StatusUpdateMessage for order status changes
func CreateStatusUpdateMessage(orderNumber, oldStatus, newStatus, changedBy string) *StatusUpdateMessage {
	return &StatusUpdateMessage{
		OrderNumber: orderNumber,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		ChangedBy:   changedBy,
		Timestamp:   time.Now().UTC(),
	}
}

// GenerateRoutingKey generates a routing key for placed-order messages
func GenerateRoutingKey(method PaymentMethod) string {
	return fmt.Sprintf("orders.placed.%s", method)
}
