package core

import (
	"errors"
	"strings"

	"commonroom-backend-go/internal/models"
)

// Pricing errors.
var (
	ErrPromoCodeInvalid = errors.New("promo code is not valid for this item")
	ErrNoPriceAvailable = errors.New("purchasable item has no price configured")
)

// Quote is the resolved price of a purchase attempt.
type Quote struct {
	BaseAmount  int64  `json:"baseAmount"`
	Discount    int64  `json:"discount"`
	FinalAmount int64  `json:"finalAmount"`
	PromoCode   string `json:"promoCode,omitempty"` // normalized matched code
}

// ResolvePrice computes the payable amount for a base price and an optional
// user-entered promo code. The entered code is trimmed and uppercased, then
// matched case-insensitively against the item's codes; the first match wins
// and codes never stack (a newly applied code replaces the previous quote).
// A percentage discount is rounded half-up; the final amount is clamped at
// zero, which is what routes a checkout into the direct-grant path.
func ResolvePrice(base int64, codes []models.PromoCode, entered string) (Quote, error) {
	quote := Quote{BaseAmount: base, FinalAmount: base}

	entered = strings.ToUpper(strings.TrimSpace(entered))
	if entered == "" {
		return quote, nil
	}

	for _, promo := range codes {
		if !strings.EqualFold(promo.Code, entered) {
			continue
		}
		var discount int64
		switch promo.Kind {
		case models.PromoKindPercentage:
			discount = (base*promo.Value + 50) / 100
		case models.PromoKindAmount:
			discount = promo.Value
		default:
			continue
		}
		quote.Discount = discount
		quote.PromoCode = entered
		quote.FinalAmount = base - discount
		if quote.FinalAmount < 0 {
			quote.FinalAmount = 0
		}
		return quote, nil
	}

	return quote, ErrPromoCodeInvalid
}

// BaseAmountFor selects the base price of a membership type by payment type,
// falling back to whichever of the two prices is configured when the payment
// type is unset.
func BaseAmountFor(mt *models.MembershipType, paymentType string) (int64, string, error) {
	if mt == nil {
		return 0, "", ErrNoPriceAvailable
	}

	switch paymentType {
	case models.PaymentTypeOneTime:
		if mt.PriceOneTime != nil {
			return *mt.PriceOneTime, models.PaymentTypeOneTime, nil
		}
	case models.PaymentTypeInstallment:
		if mt.PriceInstallment != nil {
			return *mt.PriceInstallment, models.PaymentTypeInstallment, nil
		}
	case "":
		if mt.PriceOneTime != nil {
			return *mt.PriceOneTime, models.PaymentTypeOneTime, nil
		}
		if mt.PriceInstallment != nil {
			return *mt.PriceInstallment, models.PaymentTypeInstallment, nil
		}
	}

	return 0, "", ErrNoPriceAvailable
}
