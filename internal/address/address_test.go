package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-storefront/internal/models"
	"food-storefront/internal/validation"
)

func TestNewBook_InitialSelection(t *testing.T) {
	tests := []struct {
		name string
		seed []models.Address
		want string
	}{
		{"default wins", []models.Address{{ID: "a"}, {ID: "b", IsDefault: true}}, "b"},
		{"first when no default", []models.Address{{ID: "a"}, {ID: "b"}}, "a"},
		{"empty book", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBook(tt.seed)
			assert.Equal(t, tt.want, b.SelectedID())
		})
	}
}

func TestBook_AddKeepsOtherDefaults(t *testing.T) {
	b := NewBook(PlaceholderAddresses())

	created := b.Add(models.Address{Type: models.AddressOther, Line1: "9 Elm Road", City: "Springfield", State: "IL", Zip: "62704", IsDefault: true})

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 3, b.Len())
	got, ok := b.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "9 Elm Road", got.Line1)

	defaults := 0
	for _, a := range b.List() {
		if a.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 2, defaults)
	assert.Equal(t, "addr1", b.SelectedID())
}

func TestBook_AddAssignsUniqueIDs(t *testing.T) {
	b := NewBook(nil)
	a1 := b.Add(models.Address{Line1: "1 First St"})
	a2 := b.Add(models.Address{Line1: "1 First St"})
	assert.NotEqual(t, a1.ID, a2.ID)
}

func TestBook_SetDefault(t *testing.T) {
	b := NewBook(PlaceholderAddresses())

	require.NoError(t, b.SetDefault("addr2"))
	for _, a := range b.List() {
		assert.Equal(t, a.ID == "addr2", a.IsDefault, a.ID)
	}

	err := b.SetDefault("nope")
	assert.ErrorIs(t, err, validation.ErrInvalidReference)
}

func TestBook_SelectUnknownLeavesStateUnchanged(t *testing.T) {
	b := NewBook(PlaceholderAddresses())
	before := b.List()

	err := b.Select("addr-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrInvalidReference)
	assert.Equal(t, "addr1", b.SelectedID())
	assert.Equal(t, before, b.List())
}

func TestBook_Select(t *testing.T) {
	b := NewBook(PlaceholderAddresses())

	require.NoError(t, b.Select("addr2"))
	selected, ok := b.Selected()
	require.True(t, ok)
	assert.Equal(t, "456 Office Park", selected.Line1)
}

func TestBook_RemoveSelectedClearsSelection(t *testing.T) {
	b := NewBook(PlaceholderAddresses())

	assert.True(t, b.Remove("addr1"))
	_, ok := b.Selected()
	assert.False(t, ok)
	assert.Empty(t, b.SelectedID())
	assert.Equal(t, 1, b.Len())

	assert.False(t, b.Remove("addr1"))
}

func TestBook_RemoveOtherKeepsSelection(t *testing.T) {
	b := NewBook(PlaceholderAddresses())

	b.Remove("addr2")
	assert.Equal(t, "addr1", b.SelectedID())
}

func TestForm_Validate(t *testing.T) {
	valid := Form{Type: models.AddressHome, Line1: "742 Evergreen Terrace", City: "Springfield", State: "OR", Zip: "97403"}

	tests := []struct {
		name       string
		mutate     func(f *Form)
		wantFields []string
	}{
		{"valid", func(f *Form) {}, nil},
		{"zip plus four", func(f *Form) { f.Zip = "97403-1234" }, nil},
		{"empty type defaults", func(f *Form) { f.Type = "" }, nil},
		{"short line1", func(f *Form) { f.Line1 = "1 St" }, []string{"line1"}},
		{"short city and state", func(f *Form) { f.City = "X"; f.State = "" }, []string{"city", "state"}},
		{"bad zip", func(f *Form) { f.Zip = "9740A" }, []string{"zip"}},
		{"zip with short suffix", func(f *Form) { f.Zip = "97403-12" }, []string{"zip"}},
		{"unknown type", func(f *Form) { f.Type = "Cabin" }, []string{"type"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			err := f.Validate()
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			es := validation.Collect(err)
			require.Len(t, es, len(tt.wantFields))
			for i, field := range tt.wantFields {
				assert.Equal(t, field, es[i].Field)
				assert.Equal(t, validation.InvalidField, es[i].Kind)
			}
		})
	}
}

func TestForm_ZipMessages(t *testing.T) {
	es := validation.Collect(Form{Line1: "12345 Road", City: "Town", State: "ST", Zip: ""}.Validate())
	require.Len(t, es, 1)
	assert.Equal(t, "Zip code is required", es[0].Message)

	es = validation.Collect(Form{Line1: "12345 Road", City: "Town", State: "ST", Zip: "123456"}.Validate())
	require.Len(t, es, 1)
	assert.Equal(t, "Invalid zip code", es[0].Message)
}

func TestForm_Address(t *testing.T) {
	a := Form{Line1: "742 Evergreen Terrace", City: "Springfield", State: "OR", Zip: "97403"}.Address()
	assert.Equal(t, models.AddressHome, a.Type)
	assert.Empty(t, a.ID)
}
