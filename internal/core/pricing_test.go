package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commonroom-backend-go/internal/models"
)

func TestResolvePricePercentage(t *testing.T) {
	codes := []models.PromoCode{
		{Code: "SAVE10", Kind: models.PromoKindPercentage, Value: 10},
	}

	quote, err := ResolvePrice(100000, codes, "save10")
	require.NoError(t, err, "matching is case-insensitive")

	assert.Equal(t, int64(100000), quote.BaseAmount)
	assert.Equal(t, int64(10000), quote.Discount)
	assert.Equal(t, int64(90000), quote.FinalAmount)
	assert.Equal(t, "SAVE10", quote.PromoCode, "matched code is normalized")
}

func TestResolvePricePercentageRoundsHalfUp(t *testing.T) {
	codes := []models.PromoCode{
		{Code: "HALF", Kind: models.PromoKindPercentage, Value: 50},
	}

	quote, err := ResolvePrice(333, codes, "HALF")
	require.NoError(t, err)
	assert.Equal(t, int64(167), quote.Discount, "166.5 rounds up")
	assert.Equal(t, int64(166), quote.FinalAmount)
}

func TestResolvePriceAmountToZero(t *testing.T) {
	codes := []models.PromoCode{
		{Code: "FREE1", Kind: models.PromoKindAmount, Value: 50000},
	}

	quote, err := ResolvePrice(50000, codes, " free1 ")
	require.NoError(t, err, "entered code is trimmed before matching")
	assert.Equal(t, int64(50000), quote.Discount)
	assert.Equal(t, int64(0), quote.FinalAmount)
}

func TestResolvePriceClampsAtZero(t *testing.T) {
	codes := []models.PromoCode{
		{Code: "BIG", Kind: models.PromoKindAmount, Value: 60000},
	}

	quote, err := ResolvePrice(50000, codes, "BIG")
	require.NoError(t, err)
	assert.Equal(t, int64(0), quote.FinalAmount, "final amount never goes negative")
}

func TestResolvePriceNoMatch(t *testing.T) {
	codes := []models.PromoCode{
		{Code: "SAVE10", Kind: models.PromoKindPercentage, Value: 10},
	}

	quote, err := ResolvePrice(100000, codes, "NOPE")
	assert.ErrorIs(t, err, ErrPromoCodeInvalid)
	assert.Equal(t, int64(0), quote.Discount)
	assert.Equal(t, int64(100000), quote.FinalAmount, "no discount is applied on a miss")
}

func TestResolvePriceEmptyCode(t *testing.T) {
	quote, err := ResolvePrice(100000, nil, "")
	require.NoError(t, err)
	assert.Equal(t, int64(100000), quote.FinalAmount)
	assert.Empty(t, quote.PromoCode)
}

func TestBaseAmountFor(t *testing.T) {
	oneTime := int64(1200000)
	installment := int64(250000)

	mt := &models.MembershipType{
		Name:             "Pro",
		PriceOneTime:     &oneTime,
		PriceInstallment: &installment,
	}

	base, resolved, err := BaseAmountFor(mt, models.PaymentTypeOneTime)
	require.NoError(t, err)
	assert.Equal(t, oneTime, base)
	assert.Equal(t, models.PaymentTypeOneTime, resolved)

	base, resolved, err = BaseAmountFor(mt, models.PaymentTypeInstallment)
	require.NoError(t, err)
	assert.Equal(t, installment, base)
	assert.Equal(t, models.PaymentTypeInstallment, resolved)

	// Unset payment type falls back to the one-time price first.
	base, resolved, err = BaseAmountFor(mt, "")
	require.NoError(t, err)
	assert.Equal(t, oneTime, base)
	assert.Equal(t, models.PaymentTypeOneTime, resolved)

	installmentOnly := &models.MembershipType{Name: "Flex", PriceInstallment: &installment}
	base, resolved, err = BaseAmountFor(installmentOnly, "")
	require.NoError(t, err)
	assert.Equal(t, installment, base)
	assert.Equal(t, models.PaymentTypeInstallment, resolved)

	_, _, err = BaseAmountFor(&models.MembershipType{Name: "Empty"}, "")
	assert.ErrorIs(t, err, ErrNoPriceAvailable)

	_, _, err = BaseAmountFor(installmentOnly, models.PaymentTypeOneTime)
	assert.ErrorIs(t, err, ErrNoPriceAvailable, "requested price not configured")

	_, _, err = BaseAmountFor(nil, "")
	assert.ErrorIs(t, err, ErrNoPriceAvailable)
}
