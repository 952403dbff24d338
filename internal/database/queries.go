package database

// Catalog queries
const (
	GetRestaurantsSQL = `
		SELECT id, name, image_url, logo_url, cuisine_types, rating::float8,
			   delivery_time, price_range, offers
		FROM restaurants
		ORDER BY position ASC, id ASC`

	GetMenuItemsSQL = `
		SELECT restaurant_id, category, id, name, description, price::text, image_url
		FROM menu_items
		ORDER BY restaurant_id ASC, category_position ASC, position ASC`
)
