package cart

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-storefront/internal/models"
	"food-storefront/internal/validation"
)

var (
	margherita  = models.MenuItem{ID: "p1", Name: "Margherita Pizza", Price: decimal.RequireFromString("12.99")}
	garlicBread = models.MenuItem{ID: "a1", Name: "Garlic Bread", Price: decimal.RequireFromString("6.99")}
	tiramisu    = models.MenuItem{ID: "d1", Name: "Tiramisu", Price: decimal.RequireFromString("7.00")}
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func exampleCart(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(DefaultPricing())
	e.AddOrIncrement(margherita, "")
	e.AddOrIncrement(garlicBread, "")
	e.AddOrIncrement(garlicBread, "")
	e.AddOrIncrement(tiramisu, "")
	require.Equal(t, 3, e.Len())
	return e
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s, got %s", msg, want, got)
}

func TestComputeTotals_Example(t *testing.T) {
	e := exampleCart(t)

	totals := e.ComputeTotals("")
	assertDecimal(t, "33.97", totals.Subtotal, "subtotal")
	assertDecimal(t, "2.7176", totals.Tax, "tax")
	assertDecimal(t, "5.00", totals.DeliveryFee, "delivery fee")
	assertDecimal(t, "0", totals.Discount, "discount")
	assertDecimal(t, "41.6876", totals.Total, "total")
	assert.Equal(t, "$41.69", totals.Display().Total)
}

func TestComputeTotals_PromoCode(t *testing.T) {
	e := exampleCart(t)

	totals := e.ComputeTotals("FIRSTBITE20")
	assertDecimal(t, "6.794", totals.Discount, "discount")
	assertDecimal(t, "34.8936", totals.Total, "total")
	assert.Equal(t, "$34.89", totals.Display().Total)
	assert.True(t, totals.Discount.Equal(totals.Subtotal.Mul(dec("0.20"))))

	for _, code := range []string{"firstbite20", "FIRSTBITE20 ", "FIRSTBITE", "SAVE10", ""} {
		assert.True(t, e.ComputeTotals(code).Discount.IsZero(), "code %q", code)
	}
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	e := NewEngine(DefaultPricing())

	totals := e.ComputeTotals("FIRSTBITE20")
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.DeliveryFee.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestComputeTotals_NoBinaryFloatDrift(t *testing.T) {
	e := NewEngine(DefaultPricing())
	item := models.MenuItem{ID: "x", Name: "Dime", Price: dec("0.10")}
	for i := 0; i < 3; i++ {
		e.AddOrIncrement(item, "")
	}
	assertDecimal(t, "0.30", e.ComputeTotals("").Subtotal, "subtotal")
}

func TestAddOrIncrement_Aggregates(t *testing.T) {
	e := NewEngine(DefaultPricing())

	first := e.AddOrIncrement(margherita, "Regular")
	second := e.AddOrIncrement(margherita, "Regular")
	large := e.AddOrIncrement(margherita, "Large")

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Quantity)
	assert.NotEqual(t, first.ID, large.ID)
	assert.Equal(t, 2, e.Len())
	assert.Equal(t, 3, e.ItemCount())
}

func TestSetQuantity(t *testing.T) {
	e := NewEngine(DefaultPricing())
	line := e.AddOrIncrement(tiramisu, "")

	assert.True(t, e.SetQuantity(line.ID, 4))
	got, ok := e.Line(line.ID)
	require.True(t, ok)
	assert.Equal(t, 4, got.Quantity)

	assert.True(t, e.SetQuantity(line.ID, 0))
	_, ok = e.Line(line.ID)
	assert.False(t, ok)
	assert.Zero(t, e.Len())

	assert.False(t, e.SetQuantity("missing", 3))
}

func TestSetQuantity_NegativeRemoves(t *testing.T) {
	e := NewEngine(DefaultPricing())
	line := e.AddOrIncrement(tiramisu, "")

	e.SetQuantity(line.ID, -5)
	assert.Zero(t, e.Len())
}

func TestRemove(t *testing.T) {
	e := exampleCart(t)
	lines := e.Lines()

	e.Remove(lines[1].ID)
	assert.Equal(t, 2, e.Len())
	e.Remove(lines[1].ID)
	e.Remove("missing")
	assert.Equal(t, 2, e.Len())

	remaining := e.Lines()
	assert.Equal(t, "p1", remaining[0].ItemRef)
	assert.Equal(t, "d1", remaining[1].ItemRef)
}

func TestLines_ReturnsCopy(t *testing.T) {
	e := exampleCart(t)
	lines := e.Lines()
	lines[0].Quantity = 99

	got, _ := e.Line(lines[0].ID)
	assert.Equal(t, 1, got.Quantity)
}

func TestSnapshot(t *testing.T) {
	e := exampleCart(t)

	snap := e.Snapshot("FIRSTBITE20")
	assert.Equal(t, "FIRSTBITE20", snap.PromoCode)
	assert.Len(t, snap.Lines, 3)
	assertDecimal(t, "34.8936", snap.Totals.Total, "total")

	assert.Empty(t, e.Snapshot("nope").PromoCode)
}

func TestCartInvariants_RandomSequences(t *testing.T) {
	items := []models.MenuItem{margherita, garlicBread, tiramisu}
	variants := []string{"", "Large"}
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		e := NewEngine(DefaultPricing())
		for step := 0; step < 200; step++ {
			lines := e.Lines()
			switch op := rng.Intn(3); {
			case op == 0 || len(lines) == 0:
				before := e.ComputeTotals("").Subtotal
				e.AddOrIncrement(items[rng.Intn(len(items))], variants[rng.Intn(len(variants))])
				after := e.ComputeTotals("").Subtotal
				require.True(t, after.GreaterThanOrEqual(before), "adding decreased subtotal")
			case op == 1:
				e.SetQuantity(lines[rng.Intn(len(lines))].ID, rng.Intn(6)-2)
			default:
				e.Remove(lines[rng.Intn(len(lines))].ID)
			}

			seen := map[[2]string]bool{}
			for _, l := range e.Lines() {
				require.GreaterOrEqual(t, l.Quantity, 1)
				key := [2]string{l.ItemRef, l.Variant}
				require.False(t, seen[key], "duplicate line for %v", key)
				seen[key] = true
			}
		}
	}
}

func TestParsePricing(t *testing.T) {
	p, err := ParsePricing("0.08", "5.00", "FIRSTBITE20", "0.20")
	require.NoError(t, err)
	assert.True(t, p.TaxRate.Equal(dec("0.08")))
	assert.True(t, p.PromoApplies("FIRSTBITE20"))

	_, err = ParsePricing("eight", "5.00", "X", "0.2")
	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrInvalidField)

	_, err = ParsePricing("0.08", "-1", "X", "1.5")
	es := validation.Collect(err)
	require.Len(t, es, 2)
	_, ok := es.Field("delivery_fee")
	assert.True(t, ok)
	_, ok = es.Field("promo_rate")
	assert.True(t, ok)
}

func TestPricing_EmptyPromoCodeNeverApplies(t *testing.T) {
	p := DefaultPricing()
	p.PromoCode = ""
	assert.False(t, p.PromoApplies(""))
}
