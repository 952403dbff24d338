package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"food-storefront/internal/models"
)

// MemorySource serves a fixed list of restaurants
type MemorySource struct {
	restaurants []models.Restaurant
}

// NewMemorySource serves a fixed restaurant list
func NewMemorySource(restaurants []models.Restaurant) *MemorySource {
	return &MemorySource{restaurants: restaurants}
}

// Load returns the restaurants it was built with
func (m *MemorySource) Load(_ context.Context) ([]models.Restaurant, error) {
	return append([]models.Restaurant(nil), m.restaurants...), nil
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func unsplash(size, query string) string {
	return "https://source.unsplash.com/random/" + size + "/?" + query
}

// PlaceholderRestaurants is the demo catalog used when no database is
// configured.
func PlaceholderRestaurants() []models.Restaurant {
	return []models.Restaurant{
		{
			ID:           "1",
			Name:         "Luigi's Pizzeria",
			ImageURL:     unsplash("400x225", "food,pizza"),
			LogoURL:      unsplash("100x100", "restaurant,logo,pizza"),
			CuisineTypes: []string{"Pizza", "Italian"},
			Rating:       4.5,
			DeliveryTime: "25-35 min",
			PriceRange:   "$$",
			Offers:       []string{"20% off on orders over $50"},
			Menu: []models.MenuCategory{
				{Name: "Appetizers", Items: []models.MenuItem{
					{ID: "a1", Name: "Garlic Bread", Description: "Crusty bread with garlic butter and herbs.", Price: price("6.99"), ImageURL: unsplash("200x150", "garlic,bread")},
					{ID: "a2", Name: "Caprese Salad", Description: "Fresh mozzarella, tomatoes, and basil.", Price: price("8.50"), ImageURL: unsplash("200x150", "caprese,salad")},
				}},
				{Name: "Pizzas", Items: []models.MenuItem{
					{ID: "p1", Name: "Margherita Pizza", Description: "Classic cheese and tomato pizza.", Price: price("12.99"), ImageURL: unsplash("200x150", "margherita,pizza")},
					{ID: "p2", Name: "Pepperoni Pizza", Description: "Loaded with pepperoni and mozzarella.", Price: price("14.99"), ImageURL: unsplash("200x150", "pepperoni,pizza")},
					{ID: "p3", Name: "Veggie Supreme", Description: "A mix of fresh garden vegetables.", Price: price("15.50"), ImageURL: unsplash("200x150", "veggie,pizza")},
				}},
				{Name: "Desserts", Items: []models.MenuItem{
					{ID: "d1", Name: "Tiramisu", Description: "Classic Italian coffee-flavored dessert.", Price: price("7.00"), ImageURL: unsplash("200x150", "tiramisu")},
				}},
				{Name: "Drinks", Items: []models.MenuItem{
					{ID: "b1", Name: "Coke", Price: price("2.50")},
				}},
			},
		},
		{
			ID:           "2",
			Name:         "Burger Barn",
			ImageURL:     unsplash("400x225", "food,burger"),
			CuisineTypes: []string{"Burgers", "American"},
			Rating:       4.2,
			DeliveryTime: "20-30 min",
			PriceRange:   "$$",
			Menu: []models.MenuCategory{
				{Name: "Burgers", Items: []models.MenuItem{
					{ID: "b2-1", Name: "Cheeseburger", Description: "Beef patty, cheddar, pickles.", Price: price("11.00")},
					{ID: "b2-2", Name: "Bacon Burger", Description: "Smoked bacon and onion rings.", Price: price("13.50")},
				}},
				{Name: "Sides", Items: []models.MenuItem{
					{ID: "b2-3", Name: "Fries", Price: price("3.99")},
				}},
			},
		},
		{
			ID:           "3",
			Name:         "Sushi Central",
			ImageURL:     unsplash("400x225", "food,sushi"),
			CuisineTypes: []string{"Sushi", "Japanese"},
			Rating:       4.8,
			DeliveryTime: "30-40 min",
			PriceRange:   "$$$",
			Menu: []models.MenuCategory{
				{Name: "Platters", Items: []models.MenuItem{
					{ID: "s1", Name: "Sushi Platter", Description: "Chef's selection of nigiri and maki.", Price: price("45.00")},
				}},
				{Name: "Rolls", Items: []models.MenuItem{
					{ID: "s2", Name: "California Roll", Price: price("8.00")},
					{ID: "s3", Name: "Spicy Tuna Roll", Price: price("9.50")},
				}},
			},
		},
		{
			ID:           "4",
			Name:         "Taco Town",
			ImageURL:     unsplash("400x225", "food,tacos"),
			CuisineTypes: []string{"Mexican"},
			Rating:       4.3,
			DeliveryTime: "20-30 min",
			PriceRange:   "$",
			Menu: []models.MenuCategory{
				{Name: "Tacos", Items: []models.MenuItem{
					{ID: "t1", Name: "Carnitas Taco", Price: price("3.50")},
					{ID: "t2", Name: "Fish Taco", Price: price("4.25")},
				}},
			},
		},
		{
			ID:           "5",
			Name:         "Curry House",
			ImageURL:     unsplash("400x225", "food,curry"),
			CuisineTypes: []string{"Indian"},
			Rating:       4.6,
			DeliveryTime: "35-45 min",
			PriceRange:   "$$",
			Menu: []models.MenuCategory{
				{Name: "Curries", Items: []models.MenuItem{
					{ID: "c1", Name: "Chicken Tikka Masala", Price: price("14.00")},
					{ID: "c2", Name: "Chana Masala", Price: price("11.50")},
				}},
				{Name: "Breads", Items: []models.MenuItem{
					{ID: "c3", Name: "Garlic Naan", Price: price("3.00")},
				}},
			},
		},
	}
}
