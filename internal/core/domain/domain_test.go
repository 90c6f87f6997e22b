package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProductPricing(t *testing.T) {
	p := Product{Price: decimal.NewFromInt(100)}
	assert.False(t, p.HasDiscount())
	assert.True(t, p.EffectivePrice().Equal(decimal.NewFromInt(100)))
	assert.True(t, p.UnitSavings().IsZero())

	p.DiscountPercent = decimal.NewFromInt(15)
	assert.True(t, p.HasDiscount())
	assert.Equal(t, "85", p.EffectivePrice().String())
	assert.Equal(t, "15", p.UnitSavings().String())
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "RD$12.50", FormatPrice(decimal.RequireFromString("12.5"), DefaultCurrency))
	assert.Equal(t, "$0.00", FormatPrice(decimal.Zero, "$"))
}

func TestSameID(t *testing.T) {
	assert.True(t, SameID(" 7", "7 "))
	assert.False(t, SameID("7", "07"))
	assert.Equal(t, "", NormalizeID("   "))
}

func TestPaymentMethod(t *testing.T) {
	assert.True(t, PaymentCash.Valid())
	assert.True(t, PaymentCard.Valid())
	assert.False(t, PaymentMethod("").Valid())
	assert.Equal(t, "card", PaymentCard.Label())
}

func TestFetchError(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := error(&FetchError{Reason: "network error", Err: cause})

	assert.Equal(t, "products fetch failed: network error", err.Error())
	assert.ErrorIs(t, err, ErrFetchProducts)
	assert.ErrorIs(t, err, cause)

	var fe *FetchError
	assert.ErrorAs(t, err, &fe)
	assert.Equal(t, "network error", fe.Reason)

	assert.ErrorIs(t, &FetchError{Reason: "HTTP 500"}, ErrFetchProducts)
}

func TestStatesString(t *testing.T) {
	assert.Equal(t, "debouncing", SearchDebouncing.String())
	assert.Equal(t, "completed", CheckoutCompleted.String())
	assert.Equal(t, "reviewing", CheckoutReviewing.String())
}
