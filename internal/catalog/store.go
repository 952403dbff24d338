package catalog

import (
	"context"
	"fmt"

	"food-storefront/internal/models"
	"food-storefront/internal/validation"
)

// AllCuisines is the filter value that matches every restaurant
const AllCuisines = "All"

// Source supplies restaurants with their menus
type Source interface {
	Load(ctx context.Context) ([]models.Restaurant, error)
}

// Store is a read-only, validated view of a catalog source
type Store struct {
	restaurants []models.Restaurant
	byID        map[string]int
}

// NewStore loads the source once and rejects malformed prices
func NewStore(ctx context.Context, src Source) (*Store, error) {
	restaurants, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	s := &Store{byID: make(map[string]int, len(restaurants))}
	var errs validation.Errors
	for _, r := range restaurants {
		if _, dup := s.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate restaurant id %s", r.ID)
		}
		for _, category := range r.Menu {
			for _, item := range category.Items {
				if item.Price.IsNegative() {
					errs = append(errs, validation.Invalid(
						fmt.Sprintf("restaurants[%s].items[%s].price", r.ID, item.ID),
						"price must not be negative"))
				}
			}
		}
		s.byID[r.ID] = len(s.restaurants)
		s.restaurants = append(s.restaurants, r)
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}
	return s, nil
}

// Restaurants lists every restaurant without menus
func (s *Store) Restaurants() []models.Restaurant {
	return s.FilterByCuisine(AllCuisines)
}

// FilterByCuisine keeps restaurants tagged with cuisine. "All" or an empty
// cuisine matches everything.
func (s *Store) FilterByCuisine(cuisine string) []models.Restaurant {
	out := make([]models.Restaurant, 0, len(s.restaurants))
	for i := range s.restaurants {
		r := &s.restaurants[i]
		if cuisine == "" || cuisine == AllCuisines || r.HasCuisine(cuisine) {
			out = append(out, r.Summary())
		}
	}
	return out
}

// Restaurant returns the full restaurant including its menu
func (s *Store) Restaurant(id string) (models.Restaurant, error) {
	i, ok := s.byID[id]
	if !ok {
		return models.Restaurant{}, validation.Reference("restaurantId", "Restaurant "+id+" not found")
	}
	return s.restaurants[i], nil
}

// Item resolves a menu item of a restaurant
func (s *Store) Item(restaurantID, itemID string) (models.MenuItem, error) {
	r, err := s.Restaurant(restaurantID)
	if err != nil {
		return models.MenuItem{}, err
	}
	item, ok := r.FindItem(itemID)
	if !ok {
		return models.MenuItem{}, validation.Reference("itemId", "Item "+itemID+" not found")
	}
	return item, nil
}

// Cuisines returns "All" followed by every cuisine tag in first-seen order
func (s *Store) Cuisines() []string {
	seen := map[string]bool{}
	out := []string{AllCuisines}
	for _, r := range s.restaurants {
		for _, c := range r.CuisineTypes {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}
