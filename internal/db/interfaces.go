package db

import (
	"context"
	"errors"

	"commonroom-backend-go/internal/models"
)

// ErrNotFound is returned when a document does not exist in Firestore.
var ErrNotFound = errors.New("document not found")

// UserRepository defines the interface for global user profile storage.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// PlatformRepository defines the interface for platform document storage.
type PlatformRepository interface {
	Create(ctx context.Context, platform *models.Platform) (string, error)
	GetByID(ctx context.Context, platformID string) (*models.Platform, error)
	GetBySlug(ctx context.Context, slug string) (*models.Platform, error)
	Update(ctx context.Context, platform *models.Platform) error
	Delete(ctx context.Context, platformID string) error
}

// AccessGrant carries everything a paid-access grant has to persist: the
// member upsert, the member-count increment and the settlement payment record.
// The repository applies all of it in one Firestore transaction so no partial
// state can be observed or left behind.
type AccessGrant struct {
	PlatformID       string
	UserID           string
	CommunityID      string // empty for membership-type purchases
	MembershipTypeID string // empty for community purchases
	Payment          *models.Payment
}

// MemberRepository defines the interface for platform membership storage.
type MemberRepository interface {
	// Upsert creates or merges the member document for (platformID, userID).
	Upsert(ctx context.Context, platformID string, member *models.Member) error
	Get(ctx context.Context, platformID, userID string) (*models.Member, error)
	List(ctx context.Context, platformID string, limit int) ([]*models.Member, error)
	// GrantAccess settles a purchase atomically. Granting the same
	// (user, community) pair twice converges on the already-granted state and
	// does not double-increment the member count.
	GrantAccess(ctx context.Context, grant AccessGrant) error
}

// CommunityRepository defines the interface for community document storage.
type CommunityRepository interface {
	Create(ctx context.Context, platformID string, community *models.Community) (string, error)
	GetByID(ctx context.Context, platformID, communityID string) (*models.Community, error)
	List(ctx context.Context, platformID string) ([]*models.Community, error)
	Update(ctx context.Context, platformID string, community *models.Community) error
	Delete(ctx context.Context, platformID, communityID string) error
}

// MembershipTypeRepository defines the interface for membership type storage.
type MembershipTypeRepository interface {
	Create(ctx context.Context, platformID string, mt *models.MembershipType) (string, error)
	GetByID(ctx context.Context, platformID, membershipTypeID string) (*models.MembershipType, error)
	List(ctx context.Context, platformID string) ([]*models.MembershipType, error)
	Update(ctx context.Context, platformID string, mt *models.MembershipType) error
	Delete(ctx context.Context, platformID, membershipTypeID string) error
}

// PostListOptions narrows a feed listing.
type PostListOptions struct {
	CommunityID string // only posts of this community; empty means platform-level posts
	PinnedOnly  bool   // paywall-lite subset for non-paying members
	Limit       int
}

// PostRepository defines the interface for feed post storage.
type PostRepository interface {
	Create(ctx context.Context, platformID string, post *models.Post) (string, error)
	GetByID(ctx context.Context, platformID, postID string) (*models.Post, error)
	List(ctx context.Context, platformID string, opts PostListOptions) ([]*models.Post, error)
	Update(ctx context.Context, platformID string, post *models.Post) error
	Delete(ctx context.Context, platformID, postID string) error
	SetPinned(ctx context.Context, platformID, postID string, pinned bool) error
	// IncrementLikes and IncrementComments use Firestore atomic increments.
	IncrementLikes(ctx context.Context, platformID, postID string, delta int) error
	CreateComment(ctx context.Context, platformID, postID string, comment *models.Comment) (string, error)
	ListComments(ctx context.Context, platformID, postID string, limit int) ([]*models.Comment, error)
}

// ForumRepository defines the interface for forum thread/reply storage.
type ForumRepository interface {
	CreateThread(ctx context.Context, platformID string, thread *models.ForumThread) (string, error)
	GetThread(ctx context.Context, platformID, threadID string) (*models.ForumThread, error)
	ListThreads(ctx context.Context, platformID string, limit int) ([]*models.ForumThread, error)
	CreateReply(ctx context.Context, platformID, threadID string, reply *models.ForumReply) (string, error)
	ListReplies(ctx context.Context, platformID, threadID string, limit int) ([]*models.ForumReply, error)
}

// ChatRepository defines the interface for live chat storage. Listen exposes
// Firestore's real-time snapshot primitive as a message channel.
type ChatRepository interface {
	Create(ctx context.Context, platformID string, msg *models.ChatMessage) (string, error)
	ListRecent(ctx context.Context, platformID string, limit int) ([]*models.ChatMessage, error)
	Listen(ctx context.Context, platformID string) (<-chan *models.ChatMessage, error)
}

// CourseRepository defines the interface for the course/section/lesson tree
// under a community.
type CourseRepository interface {
	CreateCourse(ctx context.Context, platformID, communityID string, course *models.Course) (string, error)
	GetCourse(ctx context.Context, platformID, communityID, courseID string) (*models.Course, error)
	ListCourses(ctx context.Context, platformID, communityID string) ([]*models.Course, error)
	DeleteCourse(ctx context.Context, platformID, communityID, courseID string) error
	CountByCommunity(ctx context.Context, platformID, communityID string) (int, error)

	CreateSection(ctx context.Context, platformID, communityID, courseID string, section *models.Section) (string, error)
	GetSection(ctx context.Context, platformID, communityID, courseID, sectionID string) (*models.Section, error)
	ListSections(ctx context.Context, platformID, communityID, courseID string) ([]*models.Section, error)

	CreateLesson(ctx context.Context, platformID, communityID, courseID, sectionID string, lesson *models.Lesson) (string, error)
	GetLesson(ctx context.Context, platformID, communityID, courseID, sectionID, lessonID string) (*models.Lesson, error)
	ListLessons(ctx context.Context, platformID, communityID, courseID, sectionID string) ([]*models.Lesson, error)
}

// PaymentRepository defines the interface for settlement record storage.
// Payments live in a top-level collection keyed by gateway order id so webhook
// notifications can resolve them without knowing the platform path.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, orderID string) (*models.Payment, error)
	MarkFailed(ctx context.Context, orderID string) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Payment, error)
	ListByPlatform(ctx context.Context, platformID string, limit int) ([]*models.Payment, error)
}

// AuditRepository defines the interface for audit log storage.
type AuditRepository interface {
	Create(ctx context.Context, logEntry models.AuditLog) error
}
