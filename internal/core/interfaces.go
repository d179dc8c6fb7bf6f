package core

import (
	"context"

	"commonroom-backend-go/internal/models"
	"commonroom-backend-go/internal/payments"
)

// UserService defines the interface for global user profile operations.
type UserService interface {
	// GetOrCreate retrieves a user by ID. If the user doesn't exist, it creates a new one from the token claims.
	GetOrCreate(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// PlatformService defines the interface for platform and membership operations.
type PlatformService interface {
	CreatePlatform(ctx context.Context, userID string, req models.CreatePlatformRequest) (*models.Platform, error)
	// GetPlatform returns the platform together with the viewer's role and the
	// feed access outcome. Private platforms still return the document; the
	// locked outcome tells the handler to project only the public shell.
	GetPlatform(ctx context.Context, userID, platformID string) (*models.Platform, Role, FeedAccess, error)
	GetPlatformBySlug(ctx context.Context, userID, slug string) (*models.Platform, Role, FeedAccess, error)
	UpdatePlatform(ctx context.Context, userID, platformID string, req models.UpdatePlatformRequest) (*models.Platform, error)
	DeletePlatform(ctx context.Context, userID, platformID string) error

	JoinPlatform(ctx context.Context, platformID, userID, displayName, photoURL string) (*models.Member, error)
	GetMembership(ctx context.Context, platformID, userID string) (*models.Member, error)
	ListMembers(ctx context.Context, userID, platformID string, limit int) ([]*models.Member, error)
}

// CommunityService defines the interface for community operations.
type CommunityService interface {
	CreateCommunity(ctx context.Context, userID, platformID string, req models.CreateCommunityRequest) (*models.Community, error)
	GetCommunity(ctx context.Context, userID, platformID, communityID string) (*models.Community, CommunityAccess, error)
	ListCommunities(ctx context.Context, platformID string) ([]*models.Community, error)
	UpdateCommunity(ctx context.Context, userID, platformID, communityID string, req models.UpdateCommunityRequest) (*models.Community, error)
	DeleteCommunity(ctx context.Context, userID, platformID, communityID string) error
}

// MembershipTypeService defines the interface for membership type operations.
type MembershipTypeService interface {
	CreateMembershipType(ctx context.Context, userID, platformID string, req models.CreateMembershipTypeRequest) (*models.MembershipType, error)
	GetMembershipType(ctx context.Context, platformID, membershipTypeID string) (*models.MembershipType, error)
	ListMembershipTypes(ctx context.Context, platformID string) ([]*models.MembershipType, error)
	UpdateMembershipType(ctx context.Context, userID, platformID, membershipTypeID string, req models.UpdateMembershipTypeRequest) (*models.MembershipType, error)
	DeleteMembershipType(ctx context.Context, userID, platformID, membershipTypeID string) error
}

// PostService defines the interface for feed posts, comments and reactions.
type PostService interface {
	// ListFeed applies the feed/community visibility rules. For community feeds
	// a non-paying member receives only the pinned subset.
	ListFeed(ctx context.Context, userID, platformID, communityID string, limit int) ([]*models.Post, error)
	CreatePost(ctx context.Context, userID, platformID, communityID string, req models.CreatePostRequest) (*models.Post, error)
	UpdatePost(ctx context.Context, userID, platformID, postID string, req models.UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, userID, platformID, postID string) error
	SetPinned(ctx context.Context, userID, platformID, postID string, pinned bool) error
	LikePost(ctx context.Context, userID, platformID, postID string) error
	CreateComment(ctx context.Context, userID, platformID, postID string, req models.CreateCommentRequest) (*models.Comment, error)
	ListComments(ctx context.Context, userID, platformID, postID string, limit int) ([]*models.Comment, error)
}

// ForumService defines the interface for forum threads and replies.
type ForumService interface {
	CreateThread(ctx context.Context, userID, platformID string, req models.CreateThreadRequest) (*models.ForumThread, error)
	GetThread(ctx context.Context, userID, platformID, threadID string) (*models.ForumThread, error)
	ListThreads(ctx context.Context, userID, platformID string, limit int) ([]*models.ForumThread, error)
	CreateReply(ctx context.Context, userID, platformID, threadID string, req models.CreateReplyRequest) (*models.ForumReply, error)
	ListReplies(ctx context.Context, userID, platformID, threadID string, limit int) ([]*models.ForumReply, error)
}

// ChatService defines the interface for platform live chat.
type ChatService interface {
	SendMessage(ctx context.Context, userID, platformID string, req models.SendChatMessageRequest) (*models.ChatMessage, error)
	ListRecent(ctx context.Context, userID, platformID string, limit int) ([]*models.ChatMessage, error)
	// Stream returns a channel of new messages, backed by a Firestore snapshot
	// listener. The channel closes when ctx is cancelled.
	Stream(ctx context.Context, userID, platformID string) (<-chan *models.ChatMessage, error)
}

// LessonContent is a lesson plus its resolved delivery URL for video lessons.
type LessonContent struct {
	Lesson   *models.Lesson `json:"lesson"`
	VideoURL string         `json:"videoUrl,omitempty"`
}

// CourseService defines the interface for the course content tree.
type CourseService interface {
	CreateCourse(ctx context.Context, userID, platformID, communityID string, req models.CreateCourseRequest) (*models.Course, error)
	GetCourse(ctx context.Context, platformID, communityID, courseID string) (*models.Course, error)
	ListCourses(ctx context.Context, platformID, communityID string) ([]*models.Course, error)
	DeleteCourse(ctx context.Context, userID, platformID, communityID, courseID string) error

	CreateSection(ctx context.Context, userID, platformID, communityID, courseID string, req models.CreateSectionRequest) (*models.Section, error)
	ListSections(ctx context.Context, platformID, communityID, courseID string) ([]*models.Section, error)

	CreateLesson(ctx context.Context, userID, platformID, communityID, courseID, sectionID string, req models.CreateLessonRequest) (*models.Lesson, error)
	ListLessons(ctx context.Context, platformID, communityID, courseID, sectionID string) ([]*models.Lesson, error)
	// GetLessonContent applies the lesson visibility gate and, for video
	// lessons, resolves a signed delivery URL.
	GetLessonContent(ctx context.Context, userID, platformID, communityID, courseID, sectionID, lessonID string) (*LessonContent, error)
}

// CheckoutResult is the outcome of starting a checkout.
type CheckoutResult struct {
	OrderID string            `json:"orderId"`
	Quote   Quote             `json:"quote"`
	Granted bool              `json:"granted"` // true for the zero-amount direct grant path
	Session *payments.Session `json:"session,omitempty"`
}

// CheckoutService defines the interface for quoting and settling purchases.
type CheckoutService interface {
	Quote(ctx context.Context, req models.QuoteRequest) (*Quote, error)
	StartCheckout(ctx context.Context, userID string, req models.CheckoutRequest) (*CheckoutResult, error)
	// HandleNotification processes a signature-verified gateway webhook.
	HandleNotification(ctx context.Context, n payments.Notification) error
	ListMyPayments(ctx context.Context, userID string, limit int) ([]*models.Payment, error)
	ListPlatformPayments(ctx context.Context, userID, platformID string, limit int) ([]*models.Payment, error)
}

// AuditService defines the interface for audit logging operations.
type AuditService interface {
	CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error
}

// Mailer sends transactional mail; pkg/mailer provides the SMTP implementation.
type Mailer interface {
	Send(to, subject, body string) error
	Configured() bool
}
