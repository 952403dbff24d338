package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-storefront/internal/cart"
	"food-storefront/internal/models"
	"food-storefront/internal/validation"
)

type nopSink struct{}

func (nopSink) Submit(context.Context, *models.OrderRequest) (string, error) {
	return "ORD_TEST", nil
}

func TestCreate_SeedsSession(t *testing.T) {
	st := NewStore(cart.DefaultPricing(), nopSink{})
	s := st.Create()

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, 1, st.Len())
	assert.Equal(t, "addr1", s.Addresses.SelectedID())
	assert.Len(t, s.History.List(), 3)
	assert.Zero(t, s.Cart.Len())
	assert.False(t, s.CreatedAt.IsZero())
}

func TestSessionsAreIsolated(t *testing.T) {
	st := NewStore(cart.DefaultPricing(), nopSink{})
	a, b := st.Create(), st.Create()
	require.NotEqual(t, a.ID, b.ID)

	item := models.MenuItem{ID: "p1", Name: "Margherita Pizza", Price: decimal.RequireFromString("12.99")}
	require.NoError(t, st.With(a.ID, func(s *Session) error {
		s.Cart.AddOrIncrement(item, "")
		s.Addresses.Remove("addr1")
		return nil
	}))

	require.NoError(t, st.With(b.ID, func(s *Session) error {
		assert.Zero(t, s.Cart.Len())
		assert.Equal(t, "addr1", s.Addresses.SelectedID())
		return nil
	}))
}

func TestWith_UnknownAndEnded(t *testing.T) {
	st := NewStore(cart.DefaultPricing(), nopSink{})
	s := st.Create()

	require.NoError(t, st.End(s.ID))
	err := st.With(s.ID, func(*Session) error { return nil })
	assert.ErrorIs(t, err, validation.ErrInvalidReference)
	assert.ErrorIs(t, st.End(s.ID), validation.ErrInvalidReference)
}

func TestWith_PropagatesError(t *testing.T) {
	st := NewStore(cart.DefaultPricing(), nopSink{})
	s := st.Create()
	want := errors.New("boom")
	assert.Same(t, want, st.With(s.ID, func(*Session) error { return want }))
}

func TestWith_SerializesSessionOperations(t *testing.T) {
	st := NewStore(cart.DefaultPricing(), nopSink{})
	s := st.Create()
	item := models.MenuItem{ID: "d1", Name: "Tiramisu", Price: decimal.RequireFromString("7.00")}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = st.With(s.ID, func(s *Session) error {
				s.Cart.AddOrIncrement(item, "")
				return nil
			})
		}()
	}
	wg.Wait()

	require.NoError(t, st.With(s.ID, func(s *Session) error {
		require.Equal(t, 1, s.Cart.Len())
		assert.Equal(t, 100, s.Cart.ItemCount())
		return nil
	}))
}

func TestSnapshot_UsesPromo(t *testing.T) {
	st := NewStore(cart.DefaultPricing(), nopSink{})
	s := st.Create()
	s.Cart.AddOrIncrement(models.MenuItem{ID: "p1", Price: decimal.RequireFromString("10.00")}, "")
	s.PromoCode = "FIRSTBITE20"

	snap := s.Snapshot()
	assert.Equal(t, "FIRSTBITE20", snap.PromoCode)
	assert.True(t, snap.Totals.Discount.Equal(decimal.RequireFromString("2")))
}

func TestEvictIdle(t *testing.T) {
	clock := time.Date(2024, 12, 9, 12, 0, 0, 0, time.UTC)
	st := NewStore(cart.DefaultPricing(), nopSink{})
	st.now = func() time.Time { return clock }

	idle, active := st.Create(), st.Create()

	clock = clock.Add(20 * time.Minute)
	require.NoError(t, st.With(active.ID, func(*Session) error { return nil }))
	assert.Equal(t, clock, active.LastUsed())

	clock = clock.Add(15 * time.Minute)
	assert.Zero(t, st.EvictIdle(0))
	assert.Equal(t, 1, st.EvictIdle(30*time.Minute))
	assert.Equal(t, 1, st.Len())

	err := st.With(idle.ID, func(*Session) error { return nil })
	assert.ErrorIs(t, err, validation.ErrInvalidReference)
	assert.NoError(t, st.With(active.ID, func(*Session) error { return nil }))
}
