package models

import "time"

// Platform is the top-level tenant. It owns communities, membership types and
// the content feed. A platform is created by an authenticated user who becomes
// its owner; the owner id is the single source of owner authority everywhere.
type Platform struct {
	ID          string    `json:"id" firestore:"-"` // Document ID, auto-generated
	Slug        string    `json:"slug" firestore:"slug"`
	Name        string    `json:"name" firestore:"name"`
	OwnerID     string    `json:"ownerId" firestore:"ownerId"` // Firebase Auth UID of the owner
	Public      bool      `json:"public" firestore:"public"`
	Description string    `json:"description,omitempty" firestore:"description,omitempty"`
	IconPath    string    `json:"iconPath,omitempty" firestore:"iconPath,omitempty"`
	BannerPath  string    `json:"bannerPath,omitempty" firestore:"bannerPath,omitempty"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// Member is the platform-level membership record, keyed by the user's UID under
// the platform document. Existence of the document alone makes the user a
// member; the Role field distinguishes the owner's own record when present.
// Community-level paid access is the Communities set plus completed payments.
type Member struct {
	UserID      string    `json:"userId" firestore:"-"` // Document ID (Firebase Auth UID)
	Role        string    `json:"role" firestore:"role"` // "owner" or "member"
	DisplayName string    `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	PhotoURL    string    `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	Communities []string  `json:"communities,omitempty" firestore:"communities,omitempty"` // community ids with paid access
	HasPaid     bool      `json:"hasPaid" firestore:"hasPaid"`
	JoinedAt    time.Time `json:"joinedAt" firestore:"joinedAt,serverTimestamp"`
}

// Member role values.
const (
	MemberRoleOwner  = "owner"
	MemberRoleMember = "member"
)
