package history

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"food-storefront/internal/cart"
	"food-storefront/internal/models"
	"food-storefront/internal/validation"
)

// History is a read-only list of past orders
type History struct {
	orders []models.PastOrder
}

// New keeps the orders sorted newest first
func New(orders []models.PastOrder) *History {
	sorted := append([]models.PastOrder(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	return &History{orders: sorted}
}

// List returns a copy of all orders, newest first
func (h *History) List() []models.PastOrder {
	return append([]models.PastOrder(nil), h.orders...)
}

// Get returns the order with the given id
func (h *History) Get(id string) (models.PastOrder, error) {
	for _, o := range h.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.PastOrder{}, validation.Reference("orderId", "Order "+id+" not found")
}

// FilterByStatus returns the orders with the given status. An empty status
// returns everything.
func (h *History) FilterByStatus(status models.PastOrderStatus) []models.PastOrder {
	if status == "" {
		return h.List()
	}
	var out []models.PastOrder
	for _, o := range h.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

// GroupByStatus buckets orders by status, keeping newest-first order
func (h *History) GroupByStatus() map[models.PastOrderStatus][]models.PastOrder {
	groups := make(map[models.PastOrderStatus][]models.PastOrder)
	for _, o := range h.orders {
		groups[o.Status] = append(groups[o.Status], o)
	}
	return groups
}

// Reorder adds every item of a past order to the cart, quantity times each.
// Items are rebuilt from the snapshot and are not checked against the
// live catalog. It returns the number of units added.
func (h *History) Reorder(id string, engine *cart.Engine) (int, error) {
	order, err := h.Get(id)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, item := range order.Items {
		menuItem := models.MenuItem{
			ID:    item.ItemRef(),
			Name:  item.Name,
			Price: item.Price,
		}
		for n := 0; n < item.Quantity; n++ {
			engine.AddOrIncrement(menuItem, "")
			added++
		}
	}
	return added, nil
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

// PlaceholderOrders is the history a new session starts with
func PlaceholderOrders() []models.PastOrder {
	return []models.PastOrder{
		{
			ID:             "ORD00001",
			Date:           day("2023-10-25"),
			RestaurantName: "Luigi's Pizzeria",
			TotalAmount:    decimal.RequireFromString("35.50"),
			Status:         models.PastOrderDelivered,
			Items: []models.PastOrderItem{
				{Name: "Pepperoni Pizza", Quantity: 1, Price: decimal.RequireFromString("18.00")},
				{Name: "Coke", Quantity: 2, Price: decimal.RequireFromString("2.50")},
			},
		},
		{
			ID:             "ORD00002",
			Date:           day("2023-10-20"),
			RestaurantName: "Burger Barn",
			TotalAmount:    decimal.RequireFromString("22.00"),
			Status:         models.PastOrderDelivered,
			Items: []models.PastOrderItem{
				{Name: "Cheeseburger", Quantity: 2, Price: decimal.RequireFromString("11.00")},
			},
		},
		{
			ID:             "ORD00003",
			Date:           day("2023-10-15"),
			RestaurantName: "Sushi Central",
			TotalAmount:    decimal.RequireFromString("45.00"),
			Status:         models.PastOrderCancelled,
			Items: []models.PastOrderItem{
				{Name: "Sushi Platter", Quantity: 1, Price: decimal.RequireFromString("45.00")},
			},
		},
	}
}
