package models

import "time"

// User is the global profile document, keyed by the Firebase Auth UID. It is
// the source for the author name/photo denormalized onto posts, replies and
// chat messages at write time.
type User struct {
	ID          string    `json:"id" firestore:"-"` // Firebase Auth UID, the document ID
	Email       string    `json:"email" firestore:"email"`
	DisplayName string    `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	PhotoURL    string    `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	AvatarPath  string    `json:"avatarPath,omitempty" firestore:"avatarPath,omitempty"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
