package models

import "time"

// AuditLog represents an audit trail event. Payments, access grants and
// owner mutations all record one.
type AuditLog struct {
	ID         string                 `json:"id" firestore:"-"`
	Timestamp  time.Time              `json:"timestamp" firestore:"timestamp,serverTimestamp"`
	UserID     string                 `json:"userId" firestore:"userId"` // Who performed the action
	Action     string                 `json:"action" firestore:"action"` // e.g. "CHECKOUT_DIRECT_GRANT", "PLATFORM_CREATE"
	TargetType string                 `json:"targetType,omitempty" firestore:"targetType,omitempty"` // e.g. "PLATFORM", "COMMUNITY", "PAYMENT"
	TargetID   string                 `json:"targetId,omitempty" firestore:"targetId,omitempty"`
	IPAddress  string                 `json:"ipAddress,omitempty" firestore:"ipAddress,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty" firestore:"details,omitempty"`
}
