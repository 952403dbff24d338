package storefront

import (
	"context"
	"errors"
	"time"

	"food-storefront/internal/address"
	"food-storefront/internal/catalog"
	"food-storefront/internal/checkout"
	"food-storefront/internal/logger"
	"food-storefront/internal/models"
	"food-storefront/internal/session"
	"food-storefront/internal/tracking"
	"food-storefront/internal/validation"
)

// Service runs every storefront operation against one session at a time
type Service struct {
	catalog  *catalog.Store
	sessions *session.Store
	board    tracking.Board
	logger   *logger.Logger
}

// NewService creates a new storefront service
func NewService(cat *catalog.Store, sessions *session.Store, board tracking.Board, log *logger.Logger) *Service {
	return &Service{
		catalog:  cat,
		sessions: sessions,
		board:    board,
		logger:   log,
	}
}

// CartView is the cart with its derived totals
type CartView struct {
	Lines        []models.CartLine    `json:"lines"`
	Totals       models.Totals        `json:"totals"`
	Display      models.DisplayTotals `json:"display"`
	PromoCode    string               `json:"promo_code,omitempty"`
	PromoApplied bool                 `json:"promo_applied"`
	ItemCount    int                  `json:"item_count"`
}

func cartView(s *session.Session) CartView {
	totals := s.Cart.ComputeTotals(s.PromoCode)
	lines := s.Cart.Lines()
	if lines == nil {
		lines = []models.CartLine{}
	}
	return CartView{
		Lines:        lines,
		Totals:       totals,
		Display:      totals.Display(),
		PromoCode:    s.PromoCode,
		PromoApplied: s.Cart.Pricing().PromoApplies(s.PromoCode),
		ItemCount:    s.Cart.ItemCount(),
	}
}

// AddressView lists a session's addresses and the current selection
type AddressView struct {
	Addresses  []models.Address `json:"addresses"`
	SelectedID string           `json:"selected_id,omitempty"`
}

func addressView(s *session.Session) AddressView {
	list := s.Addresses.List()
	if list == nil {
		list = []models.Address{}
	}
	return AddressView{Addresses: list, SelectedID: s.Addresses.SelectedID()}
}

// PlacedOrder is the result of a successful checkout
type PlacedOrder struct {
	OrderID string               `json:"order_id"`
	Status  models.OrderStatus   `json:"status"`
	Totals  models.DisplayTotals `json:"totals"`
	Address string               `json:"address"`
}

// StartSession creates a fresh session
func (svc *Service) StartSession() *session.Session {
	s := svc.sessions.Create()
	svc.logger.Info("session_started", "Session created", s.ID, nil)
	return s
}

// ExpireSessions evicts sessions idle for longer than ttl every interval
// until ctx is done. A ttl of zero or less disables expiry.
func (svc *Service) ExpireSessions(ctx context.Context, ttl, interval time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := svc.sessions.EvictIdle(ttl); n > 0 {
				svc.logger.Info("sessions_expired", "Idle sessions evicted", logger.GenerateRequestID(), map[string]interface{}{
					"evicted":   n,
					"remaining": svc.sessions.Len(),
					"idle_ttl":  ttl.String(),
				})
			}
		}
	}
}

// EndSession discards the session and everything it holds
func (svc *Service) EndSession(id string) error {
	if err := svc.sessions.End(id); err != nil {
		return err
	}
	svc.logger.Info("session_ended", "Session ended", id, nil)
	return nil
}

// Cuisines lists the cuisine filter options
func (svc *Service) Cuisines() []string {
	return svc.catalog.Cuisines()
}

// Restaurants lists restaurant summaries for a cuisine; All lists every one
func (svc *Service) Restaurants(cuisine string) []models.Restaurant {
	return svc.catalog.FilterByCuisine(cuisine)
}

// Restaurant returns one restaurant with its menu
func (svc *Service) Restaurant(id string) (models.Restaurant, error) {
	return svc.catalog.Restaurant(id)
}

// Cart returns the session's cart view
func (svc *Service) Cart(sessionID string) (CartView, error) {
	var view CartView
	err := svc.sessions.With(sessionID, func(s *session.Session) error {
		view = cartView(s)
		return nil
	})
	return view, err
}

// AddToCart resolves the item in the live catalog and adds one unit
func (svc *Service) AddToCart(sessionID, restaurantID, itemID, variant string) (CartView, error) {
	item, err := svc.catalog.Item(restaurantID, itemID)
	if err != nil {
		return CartView{}, err
	}
	item.ID = models.QualifiedItemRef(restaurantID, item.ID)

	var view CartView
	err = svc.sessions.With(sessionID, func(s *session.Session) error {
		s.Cart.AddOrIncrement(item, variant)
		view = cartView(s)
		return nil
	})
	return view, err
}

// SetQuantity updates a cart line; below 1 removes it
func (svc *Service) SetQuantity(sessionID, lineID string, quantity int) (CartView, error) {
	var view CartView
	err := svc.sessions.With(sessionID, func(s *session.Session) error {
		if !s.Cart.SetQuantity(lineID, quantity) {
			return validation.Reference("lineId", "Cart line "+lineID+" not found")
		}
		view = cartView(s)
		return nil
	})
	return view, err
}

// RemoveLine drops a cart line
func (svc *Service) RemoveLine(sessionID, lineID string) (CartView, error) {
	var view CartView
	err := svc.sessions.With(sessionID, func(s *session.Session) error {
		s.Cart.Remove(lineID)
		view = cartView(s)
		return nil
	})
	return view, err
}

// ApplyPromo stores the code as entered. An unrecognized code is kept but
// grants no discount.
func (svc *Service) ApplyPromo(sessionID, code string) (CartView, error) {
	var view CartView
	err := svc.sessions.With(sessionID, func(s *session.Session) error {
		s.PromoCode = code
		view = cartView(s)
		return nil
	})
	return view, err
}

// Addresses returns the session's address book
func (svc *Service) Addresses(sessionID string) (AddressView, error) {
	var view AddressView
	err := svc.sessions.With(sessionID, func(s *session.Session) error {
		view = addressView(s)
		return nil
	})
	return view, err
}

// AddAddress validates the new-address form, stores it and selects it
func (svc *Service) AddAddress(sessionID string, form address.Form) (models.Address, error) {
	var created models.Address
	err := svc.sessions.With(sessionID, func(s *session.Session) error {
		s.Checkout.SetDraft(form)
		var err error
		created, err = s.Checkout.SaveDraft()
		return err
	})
	return created, err
}

// RemoveAddress deletes an address from the book
func (svc *Service) RemoveAddress(sessionID, id string) error {
	return svc.sessions.With(sessionID, func(s *session.Session) error {
		if !s.Addresses.Remove(id) {
			return validation.Reference("addressId", "Address "+id+" not found")
		}
		return nil
	})
}

// SelectAddress makes id the delivery address for checkout
func (svc *Service) SelectAddress(sessionID, id string) (AddressView, error) {
	var view AddressView
	err := svc.sessions.With(sessionID, func(s *session.Session) error {
		if err := s.Addresses.Select(id); err != nil {
			return err
		}
		view = addressView(s)
		return nil
	})
	return view, err
}

// SetDefaultAddress marks id as the only default address
func (svc *Service) SetDefaultAddress(sessionID, id string) (AddressView, error) {
	var view AddressView
	err := svc.sessions.With(sessionID, func(s *session.Session) error {
		if err := s.Addresses.SetDefault(id); err != nil {
			return err
		}
		view = addressView(s)
		return nil
	})
	return view, err
}

// Checkout submits the session's cart. On success the cart and promo code
// are cleared and the order joins the session's placed orders. Sink errors
// are returned unchanged.
func (svc *Service) Checkout(ctx context.Context, sessionID string, sel checkout.Selection) (PlacedOrder, error) {
	var placed PlacedOrder
	err := svc.sessions.With(sessionID, func(s *session.Session) error {
		receipt, err := s.Checkout.Submit(ctx, sel, s.Snapshot())
		if err != nil {
			return err
		}

		s.Cart.Clear()
		s.PromoCode = ""
		s.PlacedOrders = append(s.PlacedOrders, receipt.OrderID)
		placed = PlacedOrder{
			OrderID: receipt.OrderID,
			Status:  models.StatusPending,
			Totals:  receipt.Request.Totals.Display(),
			Address: receipt.Request.Address.String(),
		}
		return nil
	})
	if err != nil {
		return PlacedOrder{}, err
	}

	svc.logger.Info("order_placed", "Checkout completed", sessionID, map[string]interface{}{
		"order_id": placed.OrderID,
		"total":    placed.Totals.Total,
	})
	return placed, nil
}

// History returns past orders, optionally filtered by status
func (svc *Service) History(sessionID, status string) ([]models.PastOrder, error) {
	var filter models.PastOrderStatus
	switch models.PastOrderStatus(status) {
	case "", models.PastOrderDelivered, models.PastOrderCancelled:
		filter = models.PastOrderStatus(status)
	default:
		return nil, validation.Invalid("status", "Status must be Delivered or Cancelled")
	}

	var orders []models.PastOrder
	err := svc.sessions.With(sessionID, func(s *session.Session) error {
		orders = s.History.FilterByStatus(filter)
		return nil
	})
	if orders == nil && err == nil {
		orders = []models.PastOrder{}
	}
	return orders, err
}

// Reorder copies a past order into the cart
func (svc *Service) Reorder(sessionID, orderID string) (int, CartView, error) {
	var added int
	var view CartView
	err := svc.sessions.With(sessionID, func(s *session.Session) error {
		var err error
		added, err = s.History.Reorder(orderID, s.Cart)
		if err != nil {
			return err
		}
		view = cartView(s)
		return nil
	})
	return added, view, err
}

// Tracker looks the order's current status up on the board
func (svc *Service) Tracker(ctx context.Context, orderID, estimate string) (tracking.TrackerView, error) {
	status, err := svc.board.Current(ctx, orderID)
	if err != nil {
		return tracking.TrackerView{}, err
	}
	view := tracking.DeriveTrackerView(status, tracking.DefaultSteps).WithEstimate(estimate)
	view.OrderID = orderID
	return view, nil
}

// ActiveOrders returns tracker views for every order placed in the session
func (svc *Service) ActiveOrders(ctx context.Context, sessionID string) ([]tracking.TrackerView, error) {
	var ids []string
	err := svc.sessions.With(sessionID, func(s *session.Session) error {
		ids = append(ids, s.PlacedOrders...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	views := make([]tracking.TrackerView, 0, len(ids))
	for _, id := range ids {
		view, err := svc.Tracker(ctx, id, "")
		if errors.Is(err, tracking.ErrOrderNotFound) {
			// Redis ttl may have expired the status; nothing to show.
			continue
		}
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}
