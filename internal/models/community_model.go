package models

import "time"

// Promo code kinds.
const (
	PromoKindPercentage = "percentage"
	PromoKindAmount     = "amount"
)

// PromoCode is a named discount on a purchasable item. Codes are stored
// uppercase and matched case-insensitively against user input. Modeled as a
// set rather than numbered slots so an item can carry any number of codes.
type PromoCode struct {
	Code  string `json:"code" firestore:"code"`
	Kind  string `json:"kind" firestore:"kind"` // "percentage" or "amount"
	Value int64  `json:"value" firestore:"value"`
}

// Community is a gated content space within a platform with its own price,
// promo codes, mentors and member count.
type Community struct {
	ID           string      `json:"id" firestore:"-"` // Document ID, auto-generated
	PlatformID   string      `json:"platformId" firestore:"-"` // Inferred from the parent path
	Name         string      `json:"name" firestore:"name"`
	Slug         string      `json:"slug" firestore:"slug"`
	Description  string      `json:"description,omitempty" firestore:"description,omitempty"`
	IconPath     string      `json:"iconPath,omitempty" firestore:"iconPath,omitempty"`
	MonthlyPrice int64       `json:"monthlyPrice" firestore:"monthlyPrice"`
	PromoCodes   []PromoCode `json:"promoCodes,omitempty" firestore:"promoCodes,omitempty"`
	MentorIDs    []string    `json:"mentorIds,omitempty" firestore:"mentorIds,omitempty"`
	MemberCount  int64       `json:"memberCount" firestore:"memberCount"`
	Order        int         `json:"order" firestore:"order"`
	CreatedAt    time.Time   `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt    time.Time   `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// MembershipType is an alternate, platform-wide purchasable tier. A checkout
// targets either a community or a membership type, never both.
type MembershipType struct {
	ID                    string      `json:"id" firestore:"-"`
	PlatformID            string      `json:"platformId" firestore:"-"`
	Name                  string      `json:"name" firestore:"name"`
	PriceOneTime          *int64      `json:"priceOneTime,omitempty" firestore:"priceOneTime,omitempty"`
	PriceInstallment      *int64      `json:"priceInstallment,omitempty" firestore:"priceInstallment,omitempty"`
	InstallmentMonthCount int         `json:"installmentMonthCount,omitempty" firestore:"installmentMonthCount,omitempty"`
	PromoCodes            []PromoCode `json:"promoCodes,omitempty" firestore:"promoCodes,omitempty"`
	Order                 int         `json:"order" firestore:"order"`
	CreatedAt             time.Time   `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt             time.Time   `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
