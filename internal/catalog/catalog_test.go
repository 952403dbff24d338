package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-storefront/internal/database"
	"food-storefront/internal/models"
	"food-storefront/internal/validation"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), NewMemorySource(PlaceholderRestaurants()))
	require.NoError(t, err)
	return s
}

func TestFilterByCuisine(t *testing.T) {
	s := newStore(t)

	tests := []struct {
		cuisine string
		want    []string
	}{
		{"All", []string{"1", "2", "3", "4", "5"}},
		{"", []string{"1", "2", "3", "4", "5"}},
		{"Pizza", []string{"1"}},
		{"Italian", []string{"1"}},
		{"Mexican", []string{"4"}},
		{"Chinese", nil},
		{"pizza", nil},
	}

	for _, tt := range tests {
		t.Run(tt.cuisine, func(t *testing.T) {
			var ids []string
			for _, r := range s.FilterByCuisine(tt.cuisine) {
				ids = append(ids, r.ID)
				assert.Nil(t, r.Menu)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestRestaurant(t *testing.T) {
	s := newStore(t)

	r, err := s.Restaurant("1")
	require.NoError(t, err)
	assert.Equal(t, "Luigi's Pizzeria", r.Name)
	require.Len(t, r.Menu, 4)
	assert.Equal(t, "Appetizers", r.Menu[0].Name)

	_, err = s.Restaurant("42")
	assert.ErrorIs(t, err, validation.ErrInvalidReference)
}

func TestItem(t *testing.T) {
	s := newStore(t)

	item, err := s.Item("1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "Margherita Pizza", item.Name)
	assert.True(t, item.Price.Equal(decimal.RequireFromString("12.99")))

	_, err = s.Item("1", "s1")
	assert.ErrorIs(t, err, validation.ErrInvalidReference)
	_, err = s.Item("9", "p1")
	assert.ErrorIs(t, err, validation.ErrInvalidReference)
}

func TestCuisines(t *testing.T) {
	s := newStore(t)
	assert.Equal(t, []string{"All", "Pizza", "Italian", "Burgers", "American", "Sushi", "Japanese", "Mexican", "Indian"}, s.Cuisines())
}

func TestNewStore_RejectsNegativePrice(t *testing.T) {
	src := NewMemorySource([]models.Restaurant{{
		ID: "x",
		Menu: []models.MenuCategory{{Name: "Mains", Items: []models.MenuItem{
			{ID: "m1", Price: decimal.RequireFromString("-1.00")},
		}}},
	}})

	_, err := NewStore(context.Background(), src)
	assert.ErrorIs(t, err, validation.ErrInvalidField)
}

func TestNewStore_RejectsDuplicateIDs(t *testing.T) {
	src := NewMemorySource([]models.Restaurant{{ID: "x"}, {ID: "x"}})
	_, err := NewStore(context.Background(), src)
	assert.Error(t, err)
}

type failingSource struct{}

func (failingSource) Load(context.Context) ([]models.Restaurant, error) {
	return nil, errors.New("connection refused")
}

func TestNewStore_SourceError(t *testing.T) {
	_, err := NewStore(context.Background(), failingSource{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

// fakeRows replays fixed rows through pgx.Rows
type fakeRows struct {
	data [][]any
	pos  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return r.data[r.pos-1], nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos <= len(r.data)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *[]string:
			*p = row[i].([]string)
		case *float64:
			*p = row[i].(float64)
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

type fakeQuerier struct {
	results map[string][][]any
}

func (q *fakeQuerier) Query(_ context.Context, sql string, _ ...interface{}) (pgx.Rows, error) {
	rows, ok := q.results[sql]
	if !ok {
		return nil, errors.New("unexpected query")
	}
	return &fakeRows{data: rows}, nil
}

func TestPostgresSource_Load(t *testing.T) {
	q := &fakeQuerier{results: map[string][][]any{
		database.GetRestaurantsSQL: {
			{"1", "Luigi's Pizzeria", "", "", []string{"Pizza"}, 4.5, "25-35 min", "$$", []string{}},
			{"2", "Burger Barn", "", "", []string{"Burgers"}, 4.2, "20-30 min", "$$", []string{}},
		},
		database.GetMenuItemsSQL: {
			{"1", "Appetizers", "a1", "Garlic Bread", "", "6.99", ""},
			{"1", "Pizzas", "p1", "Margherita Pizza", "", "12.99", ""},
			{"1", "Pizzas", "p2", "Pepperoni Pizza", "", "14.99", ""},
			{"2", "Burgers", "b2-1", "Cheeseburger", "", "11.00", ""},
			{"9", "Orphans", "o1", "Ghost", "", "1.00", ""},
		},
	}}

	restaurants, err := NewPostgresSource(q).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, restaurants, 2)

	luigi := restaurants[0]
	require.Len(t, luigi.Menu, 2)
	assert.Equal(t, "Pizzas", luigi.Menu[1].Name)
	assert.Len(t, luigi.Menu[1].Items, 2)
	assert.True(t, luigi.Menu[1].Items[0].Price.Equal(decimal.RequireFromString("12.99")))
	assert.Equal(t, 4.5, luigi.Rating)

	require.Len(t, restaurants[1].Menu, 1)
}

func TestPostgresSource_MalformedPrice(t *testing.T) {
	q := &fakeQuerier{results: map[string][][]any{
		database.GetRestaurantsSQL: {
			{"1", "Luigi's Pizzeria", "", "", []string{"Pizza"}, 4.5, "", "", []string{}},
		},
		database.GetMenuItemsSQL: {
			{"1", "Pizzas", "p1", "Margherita Pizza", "", "NaN", ""},
		},
	}}

	_, err := NewPostgresSource(q).Load(context.Background())
	assert.ErrorIs(t, err, validation.ErrInvalidField)
}
