package models

import "github.com/shopspring/decimal"

// MenuItem is an immutable catalog fact
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
}

// MenuCategory groups menu items under a heading such as "Pizzas"
type MenuCategory struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// Restaurant holds listing metadata and the menu by category
type Restaurant struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	ImageURL     string         `json:"image_url,omitempty"`
	LogoURL      string         `json:"logo_url,omitempty"`
	CuisineTypes []string       `json:"cuisine_types"`
	Rating       float64        `json:"rating,omitempty"`
	DeliveryTime string         `json:"delivery_time,omitempty"`
	PriceRange   string         `json:"price_range,omitempty"`
	Offers       []string       `json:"offers,omitempty"`
	Menu         []MenuCategory `json:"menu,omitempty"`
}

// HasCuisine reports whether the restaurant is tagged with cuisine
func (r *Restaurant) HasCuisine(cuisine string) bool {
	for _, c := range r.CuisineTypes {
		if c == cuisine {
			return true
		}
	}
	return false
}

// FindItem looks an item up across all menu categories
func (r *Restaurant) FindItem(itemID string) (MenuItem, bool) {
	for _, category := range r.Menu {
		for _, item := range category.Items {
			if item.ID == itemID {
				return item, true
			}
		}
	}
	return MenuItem{}, false
}

// QualifiedItemRef identifies a menu item across restaurants. Item ids are
// only unique within one restaurant's menu.
func QualifiedItemRef(restaurantID, itemID string) string {
	return restaurantID + "/" + itemID
}

// Summary returns a copy without the menu, for listing views
func (r Restaurant) Summary() Restaurant {
	r.Menu = nil
	return r
}
