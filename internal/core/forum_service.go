package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"commonroom-backend-go/internal/db"
	"commonroom-backend-go/internal/models"
)

// Custom errors for the ForumService.
var (
	ErrThreadNotFound = errors.New("forum thread not found")
	ErrTitleRequired  = errors.New("thread title is required")
)

// forumService implements the ForumService interface.
type forumService struct {
	platformRepo db.PlatformRepository
	memberRepo   db.MemberRepository
	forumRepo    db.ForumRepository
	userRepo     db.UserRepository
}

// NewForumService creates a new ForumService instance.
func NewForumService(pr db.PlatformRepository, mr db.MemberRepository, fr db.ForumRepository, ur db.UserRepository) ForumService {
	return &forumService{
		platformRepo: pr,
		memberRepo:   mr,
		forumRepo:    fr,
		userRepo:     ur,
	}
}

func (s *forumService) authorName(ctx context.Context, userID string) string {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return ""
	}
	return user.DisplayName
}

// CreateThread opens a forum thread; members and the owner only. The title is
// validated here as well as at the binding layer since it is a domain rule,
// not just a transport one.
func (s *forumService) CreateThread(ctx context.Context, userID, platformID string, req models.CreateThreadRequest) (*models.ForumThread, error) {
	_, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}
	if role == RoleAnonymous {
		return nil, fmt.Errorf("%w: opening a thread requires membership", ErrForbidden)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}

	thread := &models.ForumThread{
		PlatformID: platformID,
		AuthorID:   userID,
		AuthorName: s.authorName(ctx, userID),
		Title:      req.Title,
		Body:       req.Body,
		CreatedAt:  time.Now().UTC(),
	}

	threadID, err := s.forumRepo.CreateThread(ctx, platformID, thread)
	if err != nil {
		return nil, fmt.Errorf("failed to create thread in repository: %w", err)
	}
	thread.ID = threadID

	return thread, nil
}

// GetThread retrieves a thread under the platform feed gate.
func (s *forumService) GetThread(ctx context.Context, userID, platformID, threadID string) (*models.ForumThread, error) {
	platform, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}
	if FeedVisibility(platform, role) == FeedLocked {
		return nil, fmt.Errorf("%w: forum of platform '%s'", ErrAccessLocked, platformID)
	}

	thread, err := s.forumRepo.GetThread(ctx, platformID, threadID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: thread with ID '%s'", ErrThreadNotFound, threadID)
		}
		return nil, fmt.Errorf("failed to get thread '%s': %w", threadID, err)
	}
	return thread, nil
}

// ListThreads lists a platform's forum threads under the platform feed gate.
func (s *forumService) ListThreads(ctx context.Context, userID, platformID string, limit int) ([]*models.ForumThread, error) {
	platform, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}
	if FeedVisibility(platform, role) == FeedLocked {
		return nil, fmt.Errorf("%w: forum of platform '%s'", ErrAccessLocked, platformID)
	}

	threads, err := s.forumRepo.ListThreads(ctx, platformID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads of platform '%s': %w", platformID, err)
	}
	return threads, nil
}

// CreateReply replies to a thread; members and the owner only.
func (s *forumService) CreateReply(ctx context.Context, userID, platformID, threadID string, req models.CreateReplyRequest) (*models.ForumReply, error) {
	_, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}
	if role == RoleAnonymous {
		return nil, fmt.Errorf("%w: replying requires membership", ErrForbidden)
	}

	if _, err := s.forumRepo.GetThread(ctx, platformID, threadID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: thread with ID '%s'", ErrThreadNotFound, threadID)
		}
		return nil, fmt.Errorf("failed to get thread '%s' for reply: %w", threadID, err)
	}

	reply := &models.ForumReply{
		AuthorID:   userID,
		AuthorName: s.authorName(ctx, userID),
		Body:       req.Body,
		CreatedAt:  time.Now().UTC(),
	}

	replyID, err := s.forumRepo.CreateReply(ctx, platformID, threadID, reply)
	if err != nil {
		return nil, fmt.Errorf("failed to create reply on thread '%s': %w", threadID, err)
	}
	reply.ID = replyID

	return reply, nil
}

// ListReplies lists a thread's replies under the platform feed gate.
func (s *forumService) ListReplies(ctx context.Context, userID, platformID, threadID string, limit int) ([]*models.ForumReply, error) {
	platform, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}
	if FeedVisibility(platform, role) == FeedLocked {
		return nil, fmt.Errorf("%w: forum of platform '%s'", ErrAccessLocked, platformID)
	}

	replies, err := s.forumRepo.ListReplies(ctx, platformID, threadID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies of thread '%s': %w", threadID, err)
	}
	return replies, nil
}
