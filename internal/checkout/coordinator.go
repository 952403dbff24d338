package checkout

import (
	"context"
	"time"
	"unicode/utf8"

	"food-storefront/internal/address"
	"food-storefront/internal/cart"
	"food-storefront/internal/models"
	"food-storefront/internal/validation"
)

// Sink accepts a finalized order and returns the order identifier
type Sink interface {
	Submit(ctx context.Context, req *models.OrderRequest) (string, error)
}

// Selection is the transient state of the checkout form
type Selection struct {
	DeliveryAddressID string               `json:"delivery_address_id"`
	PaymentMethod     models.PaymentMethod `json:"payment_method"`
	CardNumber        string               `json:"card_number,omitempty"`
	CardExpiry        string               `json:"card_expiry,omitempty"`
	CardCVC           string               `json:"card_cvc,omitempty"`
}

// Receipt is returned for an accepted order
type Receipt struct {
	OrderID string               `json:"order_id"`
	Request *models.OrderRequest `json:"request"`
}

// Coordinator validates checkout selections against a session's address
// book and hands accepted orders to the sink.
type Coordinator struct {
	book  *address.Book
	sink  Sink
	now   func() time.Time
	draft address.Form
}

// NewCoordinator creates a coordinator over book that submits to sink
func NewCoordinator(book *address.Book, sink Sink) *Coordinator {
	return &Coordinator{
		book: book,
		sink: sink,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Validate applies every checkout rule and returns all failures together
func (c *Coordinator) Validate(sel Selection) validation.Errors {
	var errs validation.Errors

	if sel.DeliveryAddressID == "" {
		errs = append(errs, validation.Missing("deliveryAddressId", "Please select a delivery address."))
	} else if _, ok := c.book.Get(sel.DeliveryAddressID); !ok {
		errs = append(errs, validation.Missing("deliveryAddressId", "Please select a delivery address."))
	}

	if !sel.PaymentMethod.Valid() {
		errs = append(errs, validation.Missing("paymentMethod", "Please select a payment method."))
	}

	// Card sub-fields fail as one composite error on the card number.
	if sel.PaymentMethod == models.PaymentCreditCard {
		if utf8.RuneCountInString(sel.CardNumber) != 16 || sel.CardExpiry == "" || utf8.RuneCountInString(sel.CardCVC) != 3 {
			errs = append(errs, validation.Invalid("cardNumber", "Please provide valid credit card details."))
		}
	}

	return errs
}

// Submit validates sel and, on success, passes an immutable order request
// built from snap to the sink. Sink errors are returned unchanged.
func (c *Coordinator) Submit(ctx context.Context, sel Selection, snap cart.Snapshot) (*Receipt, error) {
	errs := c.Validate(sel)
	if len(snap.Lines) == 0 {
		errs = append(errs, validation.Missing("cart", "Your cart is empty."))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	addr, _ := c.book.Get(sel.DeliveryAddressID)
	req := &models.OrderRequest{
		Address:       addr,
		PaymentMethod: sel.PaymentMethod,
		Lines:         append([]models.CartLine(nil), snap.Lines...),
		Totals:        snap.Totals,
		PromoCode:     snap.PromoCode,
		SubmittedAt:   c.now(),
	}
	if sel.PaymentMethod == models.PaymentCreditCard {
		req.Card = &models.CardDetails{
			Number: sel.CardNumber,
			Expiry: sel.CardExpiry,
			CVC:    sel.CardCVC,
		}
	}

	orderID, err := c.sink.Submit(ctx, req)
	if err != nil {
		return nil, err
	}

	return &Receipt{OrderID: orderID, Request: req}, nil
}

// AddNewAddress validates the sub-form, appends the address, selects it
// and resets the draft.
func (c *Coordinator) AddNewAddress(form address.Form) (models.Address, error) {
	if err := form.Validate(); err != nil {
		return models.Address{}, err
	}

	created := c.book.Add(form.Address())
	if err := c.book.Select(created.ID); err != nil {
		return models.Address{}, err
	}
	c.draft = address.Form{}
	return created, nil
}

// Draft returns the in-progress new address form
func (c *Coordinator) Draft() address.Form {
	return c.draft
}

// SetDraft replaces the in-progress new address form
func (c *Coordinator) SetDraft(form address.Form) {
	c.draft = form
}

// CancelDraft discards the in-progress form
func (c *Coordinator) CancelDraft() {
	c.draft = address.Form{}
}

// SaveDraft submits the in-progress sub-form
func (c *Coordinator) SaveDraft() (models.Address, error) {
	return c.AddNewAddress(c.draft)
}
