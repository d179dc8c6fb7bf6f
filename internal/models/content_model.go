package models

import "time"

// Post is a feed entry scoped to a platform, optionally to a community within
// it. Author identity is denormalized at write time so feeds render without a
// join. Likes/Comments counters are maintained with atomic increments and are
// not transactional with the content mutation.
type Post struct {
	ID          string    `json:"id" firestore:"-"`
	PlatformID  string    `json:"platformId" firestore:"-"`
	CommunityID string    `json:"communityId,omitempty" firestore:"communityId,omitempty"`
	AuthorID    string    `json:"authorId" firestore:"authorId"`
	AuthorName  string    `json:"authorName,omitempty" firestore:"authorName,omitempty"`
	Title       string    `json:"title,omitempty" firestore:"title,omitempty"`
	Body        string    `json:"body" firestore:"body"`
	ImagePath   string    `json:"imagePath,omitempty" firestore:"imagePath,omitempty"`
	Pinned      bool      `json:"pinned" firestore:"pinned"`
	Likes       int64     `json:"likes" firestore:"likes"`
	Comments    int64     `json:"comments" firestore:"comments"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// Comment lives in a subcollection under its post.
type Comment struct {
	ID         string    `json:"id" firestore:"-"`
	AuthorID   string    `json:"authorId" firestore:"authorId"`
	AuthorName string    `json:"authorName,omitempty" firestore:"authorName,omitempty"`
	Body       string    `json:"body" firestore:"body"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// ForumThread is a titled discussion under a platform.
type ForumThread struct {
	ID         string    `json:"id" firestore:"-"`
	PlatformID string    `json:"platformId" firestore:"-"`
	AuthorID   string    `json:"authorId" firestore:"authorId"`
	AuthorName string    `json:"authorName,omitempty" firestore:"authorName,omitempty"`
	Title      string    `json:"title" firestore:"title"`
	Body       string    `json:"body,omitempty" firestore:"body,omitempty"`
	Replies    int64     `json:"replies" firestore:"replies"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// ForumReply lives in a subcollection under its thread.
type ForumReply struct {
	ID         string    `json:"id" firestore:"-"`
	AuthorID   string    `json:"authorId" firestore:"authorId"`
	AuthorName string    `json:"authorName,omitempty" firestore:"authorName,omitempty"`
	Body       string    `json:"body" firestore:"body"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// ChatMessage is a live chat entry under a platform.
type ChatMessage struct {
	ID         string    `json:"id" firestore:"-"`
	PlatformID string    `json:"platformId" firestore:"-"`
	AuthorID   string    `json:"authorId" firestore:"authorId"`
	AuthorName string    `json:"authorName,omitempty" firestore:"authorName,omitempty"`
	Body       string    `json:"body" firestore:"body"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}
