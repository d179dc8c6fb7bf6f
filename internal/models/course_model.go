package models

import "time"

// Lesson types.
const (
	LessonTypeVideo   = "video"
	LessonTypeArticle = "article"
	LessonTypeQuiz    = "quiz"
)

// Course is the root of a structured content tree under a community.
type Course struct {
	ID          string    `json:"id" firestore:"-"`
	CommunityID string    `json:"communityId" firestore:"-"`
	Name        string    `json:"name" firestore:"name"`
	Description string    `json:"description,omitempty" firestore:"description,omitempty"`
	CoverPath   string    `json:"coverPath,omitempty" firestore:"coverPath,omitempty"`
	Order       int       `json:"order" firestore:"order"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// Section groups lessons. FreePreview on a section cascades to every lesson
// inside it, overriding the per-lesson flag.
type Section struct {
	ID          string    `json:"id" firestore:"-"`
	CourseID    string    `json:"courseId" firestore:"-"`
	Name        string    `json:"name" firestore:"name"`
	FreePreview bool      `json:"freePreview" firestore:"freePreview"`
	Order       int       `json:"order" firestore:"order"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// Lesson is a single unit of course content.
type Lesson struct {
	ID          string    `json:"id" firestore:"-"`
	SectionID   string    `json:"sectionId" firestore:"-"`
	Name        string    `json:"name" firestore:"name"`
	Type        string    `json:"type" firestore:"type"` // "video", "article" or "quiz"
	Body        string    `json:"body,omitempty" firestore:"body,omitempty"`       // article markdown / quiz payload
	VideoPath   string    `json:"videoPath,omitempty" firestore:"videoPath,omitempty"` // storage path, signed on demand
	FreePreview bool      `json:"freePreview" firestore:"freePreview"`
	Order       int       `json:"order" firestore:"order"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
