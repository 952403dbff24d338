package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"food-storefront/internal/database"
	"food-storefront/internal/models"
	"food-storefront/internal/validation"
)

// Querier is the subset of the database used to read the catalog
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// PostgresSource reads restaurants and menu items from PostgreSQL
type PostgresSource struct {
	db Querier
}

// NewPostgresSource creates a catalog source reading from db
func NewPostgresSource(db Querier) *PostgresSource {
	return &PostgresSource{db: db}
}

// Load reads all restaurants and their menus
func (p *PostgresSource) Load(ctx context.Context) ([]models.Restaurant, error) {
	rows, err := p.db.Query(ctx, database.GetRestaurantsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}

	var restaurants []models.Restaurant
	index := map[string]int{}
	for rows.Next() {
		var r models.Restaurant
		if err := rows.Scan(&r.ID, &r.Name, &r.ImageURL, &r.LogoURL, &r.CuisineTypes,
			&r.Rating, &r.DeliveryTime, &r.PriceRange, &r.Offers); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		index[r.ID] = len(restaurants)
		restaurants = append(restaurants, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read restaurants: %w", err)
	}

	rows, err = p.db.Query(ctx, database.GetMenuItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var restaurantID, category, rawPrice string
		var item models.MenuItem
		if err := rows.Scan(&restaurantID, &category, &item.ID, &item.Name,
			&item.Description, &rawPrice, &item.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}

		item.Price, err = decimal.NewFromString(rawPrice)
		if err != nil {
			return nil, validation.Invalid("price", fmt.Sprintf("menu item %s has malformed price %q", item.ID, rawPrice))
		}

		i, ok := index[restaurantID]
		if !ok {
			continue
		}
		appendItem(&restaurants[i], category, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read menu items: %w", err)
	}

	return restaurants, nil
}

// appendItem relies on rows arriving grouped by category
func appendItem(r *models.Restaurant, category string, item models.MenuItem) {
	if n := len(r.Menu); n > 0 && r.Menu[n-1].Name == category {
		r.Menu[n-1].Items = append(r.Menu[n-1].Items, item)
		return
	}
	r.Menu = append(r.Menu, models.MenuCategory{Name: category, Items: []models.MenuItem{item}})
}
