package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"commonroom-backend-go/internal/models"
)

func TestClassifyRole(t *testing.T) {
	platform := &models.Platform{ID: "p1", OwnerID: "owner-1"}

	tests := []struct {
		name     string
		platform *models.Platform
		userID   string
		member   *models.Member
		want     Role
	}{
		{"owner without member doc", platform, "owner-1", nil, RoleOwner},
		{"owner with member doc", platform, "owner-1", &models.Member{UserID: "owner-1"}, RoleOwner},
		{"member doc exists", platform, "user-2", &models.Member{UserID: "user-2"}, RoleMember},
		{"signed in but no member doc", platform, "user-3", nil, RoleAnonymous},
		{"empty user id", platform, "", nil, RoleAnonymous},
		{"nil platform", nil, "user-2", &models.Member{}, RoleAnonymous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRole(tt.platform, tt.userID, tt.member))
		})
	}
}

func TestFeedVisibility(t *testing.T) {
	public := &models.Platform{ID: "p1", OwnerID: "o", Public: true}
	private := &models.Platform{ID: "p2", OwnerID: "o", Public: false}

	assert.Equal(t, FeedVisible, FeedVisibility(public, RoleAnonymous))
	assert.Equal(t, FeedVisible, FeedVisibility(private, RoleMember))
	assert.Equal(t, FeedVisible, FeedVisibility(private, RoleOwner))
	assert.Equal(t, FeedLocked, FeedVisibility(private, RoleAnonymous))
}

func TestCommunityVisibility(t *testing.T) {
	assert.Equal(t, CommunityFull, CommunityVisibility(RoleOwner, false))
	assert.Equal(t, CommunityFull, CommunityVisibility(RoleMember, true))
	assert.Equal(t, CommunityPinnedOnly, CommunityVisibility(RoleMember, false))
	assert.Equal(t, CommunityLocked, CommunityVisibility(RoleAnonymous, false))
	// Paid access means nothing without membership.
	assert.Equal(t, CommunityLocked, CommunityVisibility(RoleAnonymous, true))
}

func TestHasPaidAccess(t *testing.T) {
	member := &models.Member{UserID: "u1", Communities: []string{"c1", "c2"}}

	assert.True(t, HasPaidAccess(member, "c1", false))
	assert.False(t, HasPaidAccess(member, "c3", false))
	assert.True(t, HasPaidAccess(member, "c3", true), "completed payment is equally authoritative")
	assert.True(t, HasPaidAccess(nil, "c1", true))
	assert.False(t, HasPaidAccess(nil, "c1", false))
	assert.False(t, HasPaidAccess(member, "", false))
}

func TestLessonVisibility(t *testing.T) {
	locked := &models.Lesson{ID: "l1"}
	preview := &models.Lesson{ID: "l2", FreePreview: true}
	plainSection := &models.Section{ID: "s1"}
	previewSection := &models.Section{ID: "s2", FreePreview: true}

	tests := []struct {
		name    string
		lesson  *models.Lesson
		section *models.Section
		role    Role
		want    bool
	}{
		{"member sees everything", locked, plainSection, RoleMember, true},
		{"owner sees everything", locked, plainSection, RoleOwner, true},
		{"anonymous blocked from locked lesson", locked, plainSection, RoleAnonymous, false},
		{"anonymous sees free preview lesson", preview, plainSection, RoleAnonymous, true},
		{"section free preview cascades over lesson flag", locked, previewSection, RoleAnonymous, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LessonVisibility(tt.lesson, tt.section, tt.role))
		})
	}
}

func TestMutationPredicates(t *testing.T) {
	assert.True(t, CanEditContent("u1", "u1"))
	assert.False(t, CanEditContent("u1", "u2"))
	assert.False(t, CanEditContent("", ""))

	assert.True(t, CanCreateCommunityPost(RoleOwner))
	assert.False(t, CanCreateCommunityPost(RoleMember))
	assert.False(t, CanCreateCommunityPost(RoleAnonymous))

	assert.True(t, CanComment(RoleMember))
	assert.True(t, CanComment(RoleOwner))
	assert.False(t, CanComment(RoleAnonymous))

	assert.True(t, CanReact(RoleMember))
	assert.False(t, CanReact(RoleAnonymous))
}
