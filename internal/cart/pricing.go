package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"food-storefront/internal/validation"
)

// Pricing holds the configurable constants used to derive cart totals
type Pricing struct {
	TaxRate     decimal.Decimal
	DeliveryFee decimal.Decimal
	PromoCode   string
	PromoRate   decimal.Decimal
}

// DefaultPricing is 8% tax, a flat 5.00 delivery fee and 20% off with FIRSTBITE20
func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:     decimal.RequireFromString("0.08"),
		DeliveryFee: decimal.RequireFromString("5.00"),
		PromoCode:   "FIRSTBITE20",
		PromoRate:   decimal.RequireFromString("0.20"),
	}
}

// ParsePricing builds Pricing from configuration strings. Malformed or
// negative amounts fail instead of silently becoming zero.
func ParsePricing(taxRate, deliveryFee, promoCode, promoRate string) (Pricing, error) {
	var errs validation.Errors

	parse := func(field, value string) decimal.Decimal {
		d, err := decimal.NewFromString(value)
		if err != nil {
			errs = append(errs, validation.Invalid(field, fmt.Sprintf("not a decimal amount: %q", value)))
			return decimal.Zero
		}
		if d.IsNegative() {
			errs = append(errs, validation.Invalid(field, "must not be negative"))
		}
		return d
	}

	p := Pricing{
		TaxRate:     parse("tax_rate", taxRate),
		DeliveryFee: parse("delivery_fee", deliveryFee),
		PromoCode:   promoCode,
		PromoRate:   parse("promo_rate", promoRate),
	}
	if p.PromoRate.GreaterThan(decimal.NewFromInt(1)) {
		errs = append(errs, validation.Invalid("promo_rate", "must not exceed 1"))
	}

	if err := errs.OrNil(); err != nil {
		return Pricing{}, err
	}
	return p, nil
}

// PromoApplies reports whether code is the recognized promo code. The match
// is exact and case-sensitive.
func (p Pricing) PromoApplies(code string) bool {
	return p.PromoCode != "" && code == p.PromoCode
}
