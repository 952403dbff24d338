package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_KindSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want error
	}{
		{"missing selection", Missing("paymentMethod", "Please select a payment method."), ErrMissingSelection},
		{"invalid field", Invalid("cardNumber", "Please provide valid credit card details."), ErrInvalidField},
		{"invalid reference", Reference("id", "address not found"), ErrInvalidReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.want)
			wrapped := fmt.Errorf("checkout: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.want)
		})
	}
}

func TestErrors_Aggregate(t *testing.T) {
	es := Errors{
		Missing("deliveryAddressId", "Please select a delivery address."),
		Invalid("cardNumber", "Please provide valid credit card details."),
	}

	assert.Equal(t, "deliveryAddressId: Please select a delivery address.; cardNumber: Please provide valid credit card details.", es.Error())
	assert.ErrorIs(t, es, ErrMissingSelection)
	assert.ErrorIs(t, es, ErrInvalidField)
	assert.NotErrorIs(t, es, ErrInvalidReference)

	e, ok := es.Field("cardNumber")
	require.True(t, ok)
	assert.Equal(t, InvalidField, e.Kind)

	_, ok = es.Field("zip")
	assert.False(t, ok)
}

func TestErrors_OrNil(t *testing.T) {
	var es Errors
	assert.NoError(t, es.OrNil())

	es = append(es, Invalid("zip", "Invalid zip code"))
	assert.Error(t, es.OrNil())
}

func TestCollect(t *testing.T) {
	assert.Nil(t, Collect(nil))
	assert.Nil(t, Collect(errors.New("boom")))

	single := Collect(fmt.Errorf("wrap: %w", Reference("id", "not found")))
	require.Len(t, single, 1)
	assert.Equal(t, InvalidReference, single[0].Kind)

	multi := Collect(Errors{Invalid("a", "x"), Invalid("b", "y")})
	assert.Len(t, multi, 2)
}
