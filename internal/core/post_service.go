package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"commonroom-backend-go/internal/db"
	"commonroom-backend-go/internal/models"
)

// ErrPostNotFound is returned when a post is not found.
var ErrPostNotFound = errors.New("post not found")

// postService implements the PostService interface.
type postService struct {
	platformRepo db.PlatformRepository
	memberRepo   db.MemberRepository
	postRepo     db.PostRepository
	userRepo     db.UserRepository
	auditService AuditService
}

// NewPostService creates a new PostService instance.
func NewPostService(pr db.PlatformRepository, mr db.MemberRepository, postRepo db.PostRepository, ur db.UserRepository, as AuditService) PostService {
	return &postService{
		platformRepo: pr,
		memberRepo:   mr,
		postRepo:     postRepo,
		userRepo:     ur,
		auditService: as,
	}
}

// authorName resolves the display name denormalized onto content at write
// time. A missing profile is not an error; the name is just left empty.
func (s *postService) authorName(ctx context.Context, userID string) string {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return ""
	}
	return user.DisplayName
}

// ListFeed lists the platform home feed or a community feed with the
// visibility rules applied. Non-paying members of a community get the pinned
// subset only.
func (s *postService) ListFeed(ctx context.Context, userID, platformID, communityID string, limit int) ([]*models.Post, error) {
	platform, member, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}

	opts := db.PostListOptions{CommunityID: communityID, Limit: limit}

	if communityID == "" {
		if FeedVisibility(platform, role) == FeedLocked {
			return nil, fmt.Errorf("%w: feed of platform '%s'", ErrAccessLocked, platformID)
		}
	} else {
		switch CommunityVisibility(role, HasPaidAccess(member, communityID, false)) {
		case CommunityLocked:
			return nil, fmt.Errorf("%w: community '%s'", ErrAccessLocked, communityID)
		case CommunityPinnedOnly:
			opts.PinnedOnly = true
		}
	}

	posts, err := s.postRepo.List(ctx, platformID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts of platform '%s': %w", platformID, err)
	}
	return posts, nil
}

// CreatePost creates a feed post. Platform-level posts are open to members and
// the owner; community feed posts are owner-only.
func (s *postService) CreatePost(ctx context.Context, userID, platformID, communityID string, req models.CreatePostRequest) (*models.Post, error) {
	_, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}
	if role == RoleAnonymous {
		return nil, fmt.Errorf("%w: posting requires membership", ErrForbidden)
	}
	if communityID != "" && !CanCreateCommunityPost(role) {
		return nil, fmt.Errorf("%w: community feed posts are owner-only", ErrForbidden)
	}

	newPost := &models.Post{
		PlatformID:  platformID,
		CommunityID: communityID,
		AuthorID:    userID,
		AuthorName:  s.authorName(ctx, userID),
		Title:       req.Title,
		Body:        req.Body,
		ImagePath:   req.ImagePath,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	postID, err := s.postRepo.Create(ctx, platformID, newPost)
	if err != nil {
		return nil, fmt.Errorf("failed to create post in repository: %w", err)
	}
	newPost.ID = postID

	return newPost, nil
}

// UpdatePost applies a partial update; author only.
func (s *postService) UpdatePost(ctx context.Context, userID, platformID, postID string, req models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.getPost(ctx, platformID, postID)
	if err != nil {
		return nil, err
	}
	if !CanEditContent(post.AuthorID, userID) {
		return nil, fmt.Errorf("%w: user '%s' is not the author of post '%s'", ErrForbidden, userID, postID)
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Body != nil {
		post.Body = *req.Body
	}
	post.UpdatedAt = time.Now().UTC()

	if err := s.postRepo.Update(ctx, platformID, post); err != nil {
		return nil, fmt.Errorf("failed to update post '%s': %w", postID, err)
	}
	return post, nil
}

// DeletePost deletes a post. The author may delete their own post; the
// platform owner may delete any post (moderation).
func (s *postService) DeletePost(ctx context.Context, userID, platformID, postID string) error {
	_, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return err
	}

	post, err := s.getPost(ctx, platformID, postID)
	if err != nil {
		return err
	}
	if !CanEditContent(post.AuthorID, userID) && role != RoleOwner {
		return fmt.Errorf("%w: user '%s' cannot delete post '%s'", ErrForbidden, userID, postID)
	}

	if err := s.postRepo.Delete(ctx, platformID, postID); err != nil {
		return fmt.Errorf("failed to delete post '%s': %w", postID, err)
	}
	return nil
}

// SetPinned pins or unpins a post; owner only. Pinned posts form the
// paywall-lite subset non-paying members see in a community feed.
func (s *postService) SetPinned(ctx context.Context, userID, platformID, postID string, pinned bool) error {
	_, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return err
	}
	if role != RoleOwner {
		return fmt.Errorf("%w: pinning is owner-only", ErrForbidden)
	}

	if err := s.postRepo.SetPinned(ctx, platformID, postID, pinned); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: post with ID '%s'", ErrPostNotFound, postID)
		}
		return fmt.Errorf("failed to set pinned on post '%s': %w", postID, err)
	}
	return nil
}

// LikePost records a reaction; members and the owner only. The counter uses a
// Firestore atomic increment and is not deduplicated per user.
func (s *postService) LikePost(ctx context.Context, userID, platformID, postID string) error {
	_, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return err
	}
	if !CanReact(role) {
		return fmt.Errorf("%w: reactions require membership", ErrForbidden)
	}

	if err := s.postRepo.IncrementLikes(ctx, platformID, postID, 1); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: post with ID '%s'", ErrPostNotFound, postID)
		}
		return fmt.Errorf("failed to like post '%s': %w", postID, err)
	}
	return nil
}

// CreateComment comments on a post; members and the owner only.
func (s *postService) CreateComment(ctx context.Context, userID, platformID, postID string, req models.CreateCommentRequest) (*models.Comment, error) {
	_, member, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}
	if !CanComment(role) {
		return nil, fmt.Errorf("%w: commenting requires membership", ErrForbidden)
	}

	post, err := s.getPost(ctx, platformID, postID)
	if err != nil {
		return nil, err
	}
	if !s.canViewPost(post, role, member) {
		return nil, fmt.Errorf("%w: post '%s'", ErrAccessLocked, postID)
	}

	comment := &models.Comment{
		AuthorID:   userID,
		AuthorName: s.authorName(ctx, userID),
		Body:       req.Body,
		CreatedAt:  time.Now().UTC(),
	}

	commentID, err := s.postRepo.CreateComment(ctx, platformID, postID, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment on post '%s': %w", postID, err)
	}
	comment.ID = commentID

	return comment, nil
}

// ListComments lists a post's comments under the same visibility gate as the
// post itself.
func (s *postService) ListComments(ctx context.Context, userID, platformID, postID string, limit int) ([]*models.Comment, error) {
	platform, member, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}

	post, err := s.getPost(ctx, platformID, postID)
	if err != nil {
		return nil, err
	}
	if post.CommunityID == "" {
		if FeedVisibility(platform, role) == FeedLocked {
			return nil, fmt.Errorf("%w: post '%s'", ErrAccessLocked, postID)
		}
	} else if !s.canViewPost(post, role, member) {
		return nil, fmt.Errorf("%w: post '%s'", ErrAccessLocked, postID)
	}

	comments, err := s.postRepo.ListComments(ctx, platformID, postID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments of post '%s': %w", postID, err)
	}
	return comments, nil
}

// canViewPost applies the community gate to a single post. Platform-level
// posts are covered by the feed gate at the call site.
func (s *postService) canViewPost(post *models.Post, role Role, member *models.Member) bool {
	if post.CommunityID == "" {
		return role != RoleAnonymous
	}
	switch CommunityVisibility(role, HasPaidAccess(member, post.CommunityID, false)) {
	case CommunityFull:
		return true
	case CommunityPinnedOnly:
		return post.Pinned
	default:
		return false
	}
}

func (s *postService) getPost(ctx context.Context, platformID, postID string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, platformID, postID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: post with ID '%s'", ErrPostNotFound, postID)
		}
		return nil, fmt.Errorf("failed to get post '%s': %w", postID, err)
	}
	return post, nil
}
