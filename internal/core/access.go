package core

import "commonroom-backend-go/internal/models"

// Role is a user's standing on a platform.
type Role string

// Roles, ordered by authority.
const (
	RoleAnonymous Role = "anonymous"
	RoleMember    Role = "member"
	RoleOwner     Role = "owner"
)

// ClassifyRole is the single authority on a user's role for a platform.
// Ownership is decided by the platform's ownerId alone; the owner is not
// required to have a member document. Membership is decided by the existence
// of a member document, regardless of its role field. Every access check in
// the codebase goes through this function.
func ClassifyRole(platform *models.Platform, userID string, member *models.Member) Role {
	if platform == nil || userID == "" {
		return RoleAnonymous
	}
	if userID == platform.OwnerID {
		return RoleOwner
	}
	if member != nil {
		return RoleMember
	}
	return RoleAnonymous
}

// FeedAccess is the outcome of evaluating the platform home feed.
type FeedAccess string

// Feed access outcomes.
const (
	FeedVisible FeedAccess = "visible"
	// FeedLocked means the viewer gets a join/sign-in prompt, never the posts.
	FeedLocked FeedAccess = "locked"
)

// FeedVisibility gates the platform home feed: public platforms are open to
// everyone; private platforms only to members and the owner.
func FeedVisibility(platform *models.Platform, role Role) FeedAccess {
	if platform != nil && platform.Public {
		return FeedVisible
	}
	if role != RoleAnonymous {
		return FeedVisible
	}
	return FeedLocked
}

// CommunityAccess is the outcome of evaluating a community's tab content.
type CommunityAccess string

// Community access outcomes.
const (
	CommunityFull CommunityAccess = "full"
	// CommunityPinnedOnly is the paywall-lite view for members without paid
	// access: pinned posts only, no full feed.
	CommunityPinnedOnly CommunityAccess = "pinned_only"
	CommunityLocked     CommunityAccess = "locked"
)

// CommunityVisibility gates a community's content. Owners always see
// everything; members see the full feed only with recorded paid access for
// this community, otherwise the pinned subset. Anonymous viewers are locked
// out entirely.
func CommunityVisibility(role Role, hasPaidAccess bool) CommunityAccess {
	switch {
	case role == RoleOwner:
		return CommunityFull
	case role == RoleMember && hasPaidAccess:
		return CommunityFull
	case role == RoleMember:
		return CommunityPinnedOnly
	default:
		return CommunityLocked
	}
}

// HasPaidAccess reports whether the member's recorded state covers the given
// community. A completed payment record is equally authoritative; callers that
// hold one pass paidByPayment.
func HasPaidAccess(member *models.Member, communityID string, paidByPayment bool) bool {
	if paidByPayment {
		return true
	}
	if member == nil || communityID == "" {
		return false
	}
	for _, id := range member.Communities {
		if id == communityID {
			return true
		}
	}
	return false
}

// LessonVisibility gates lesson content. The gate is deliberately weaker than
// community paid access: any platform member may view lessons, as may anyone
// when the lesson — or its whole section, which cascades over the per-lesson
// flag — is marked free preview.
func LessonVisibility(lesson *models.Lesson, section *models.Section, role Role) bool {
	if role == RoleOwner || role == RoleMember {
		return true
	}
	if section != nil && section.FreePreview {
		return true
	}
	return lesson != nil && lesson.FreePreview
}

// CanEditContent restricts edit/delete to the authoring user.
func CanEditContent(authorID, userID string) bool {
	return authorID != "" && authorID == userID
}

// CanCreateCommunityPost restricts posting into a community feed to the owner.
func CanCreateCommunityPost(role Role) bool {
	return role == RoleOwner
}

// CanComment allows commenting for any signed-in member or the owner.
func CanComment(role Role) bool {
	return role != RoleAnonymous
}

// CanReact mirrors CanComment: reactions require membership or ownership.
func CanReact(role Role) bool {
	return role != RoleAnonymous
}
