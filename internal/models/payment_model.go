package models

import "time"

// Payment statuses.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment types for membership-type purchases.
const (
	PaymentTypeOneTime     = "one_time"
	PaymentTypeInstallment = "installment"
	PaymentTypeMonthly     = "monthly" // community subscriptions
)

// Payment is the append-only settlement record. A completed payment, whether
// zero-amount (direct grant) or gateway-confirmed, is the authoritative signal
// of paid access. The document ID doubles as the gateway order id so webhook
// notifications and retries converge on the same record.
type Payment struct {
	ID               string     `json:"id" firestore:"-"` // Document ID == gateway order id
	UserID           string     `json:"userId" firestore:"userId"`
	PlatformID       string     `json:"platformId" firestore:"platformId"`
	CommunityID      string     `json:"communityId,omitempty" firestore:"communityId,omitempty"`
	MembershipTypeID string     `json:"membershipTypeId,omitempty" firestore:"membershipTypeId,omitempty"`
	PaymentType      string     `json:"paymentType" firestore:"paymentType"`
	Status           string     `json:"status" firestore:"status"`
	Amount           int64      `json:"amount" firestore:"amount"`
	Currency         string     `json:"currency" firestore:"currency"`
	PromoCode        string     `json:"promoCode,omitempty" firestore:"promoCode,omitempty"`
	CreatedAt        time.Time  `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	CompletedAt      *time.Time `json:"completedAt,omitempty" firestore:"completedAt,omitempty"`
}
