package address

import "food-storefront/internal/models"

// PlaceholderAddresses are the addresses a new session starts with
func PlaceholderAddresses() []models.Address {
	return []models.Address{
		{ID: "addr1", Type: models.AddressHome, Line1: "123 Main St", City: "Anytown", State: "CA", Zip: "90210", IsDefault: true},
		{ID: "addr2", Type: models.AddressWork, Line1: "456 Office Park", City: "Anytown", State: "CA", Zip: "90211"},
	}
}
