package address

import (
	"fmt"

	"github.com/google/uuid"

	"food-storefront/internal/models"
	"food-storefront/internal/validation"
)

// Book holds the delivery addresses of one session and the address
// currently selected for checkout.
type Book struct {
	addresses  []models.Address
	selectedID string
}

// NewBook seeds a book and preselects the default address, falling back to
// the first entry.
func NewBook(seed []models.Address) *Book {
	b := &Book{addresses: append([]models.Address(nil), seed...)}
	for _, a := range b.addresses {
		if a.IsDefault {
			b.selectedID = a.ID
			return b
		}
	}
	if len(b.addresses) > 0 {
		b.selectedID = b.addresses[0].ID
	}
	return b
}

// Add appends a copy of draft under a fresh id. Other addresses keep their
// default flag.
func (b *Book) Add(draft models.Address) models.Address {
	draft.ID = "addr_" + uuid.NewString()
	b.addresses = append(b.addresses, draft)
	return draft
}

// Remove deletes the address. Removing the selected address clears the
// selection.
func (b *Book) Remove(id string) bool {
	for i, a := range b.addresses {
		if a.ID == id {
			b.addresses = append(b.addresses[:i], b.addresses[i+1:]...)
			if b.selectedID == id {
				b.selectedID = ""
			}
			return true
		}
	}
	return false
}

// Select marks id as the delivery address for the in-progress checkout
func (b *Book) Select(id string) error {
	if _, ok := b.Get(id); !ok {
		return validation.Reference("deliveryAddressId", fmt.Sprintf("address %q does not exist", id))
	}
	b.selectedID = id
	return nil
}

// SetDefault makes id the only default address
func (b *Book) SetDefault(id string) error {
	if _, ok := b.Get(id); !ok {
		return validation.Reference("id", fmt.Sprintf("address %q does not exist", id))
	}
	for i := range b.addresses {
		b.addresses[i].IsDefault = b.addresses[i].ID == id
	}
	return nil
}

// Selected returns the address chosen for delivery, if any
func (b *Book) Selected() (models.Address, bool) {
	if b.selectedID == "" {
		return models.Address{}, false
	}
	return b.Get(b.selectedID)
}

// SelectedID returns the selected address id or ""
func (b *Book) SelectedID() string {
	return b.selectedID
}

// Get looks up an address by id
func (b *Book) Get(id string) (models.Address, bool) {
	for _, a := range b.addresses {
		if a.ID == id {
			return a, true
		}
	}
	return models.Address{}, false
}

// List returns a copy of the addresses in insertion order
func (b *Book) List() []models.Address {
	return append([]models.Address(nil), b.addresses...)
}

// Len returns the number of addresses
func (b *Book) Len() int {
	return len(b.addresses)
}
