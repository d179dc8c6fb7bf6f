package core

import (
	"context"
	"fmt"
	"time"

	"commonroom-backend-go/internal/db"
	"commonroom-backend-go/internal/models"
)

// chatService implements the ChatService interface.
type chatService struct {
	platformRepo db.PlatformRepository
	memberRepo   db.MemberRepository
	chatRepo     db.ChatRepository
	userRepo     db.UserRepository
}

// NewChatService creates a new ChatService instance.
func NewChatService(pr db.PlatformRepository, mr db.MemberRepository, cr db.ChatRepository, ur db.UserRepository) ChatService {
	return &chatService{
		platformRepo: pr,
		memberRepo:   mr,
		chatRepo:     cr,
		userRepo:     ur,
	}
}

// SendMessage posts a chat message; members and the owner only.
func (s *chatService) SendMessage(ctx context.Context, userID, platformID string, req models.SendChatMessageRequest) (*models.ChatMessage, error) {
	_, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}
	if role == RoleAnonymous {
		return nil, fmt.Errorf("%w: chat requires membership", ErrForbidden)
	}

	var authorName string
	if user, err := s.userRepo.GetByID(ctx, userID); err == nil && user != nil {
		authorName = user.DisplayName
	}

	msg := &models.ChatMessage{
		PlatformID: platformID,
		AuthorID:   userID,
		AuthorName: authorName,
		Body:       req.Body,
		CreatedAt:  time.Now().UTC(),
	}

	msgID, err := s.chatRepo.Create(ctx, platformID, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat message in repository: %w", err)
	}
	msg.ID = msgID

	return msg, nil
}

// ListRecent returns the most recent chat messages in chronological order;
// members and the owner only.
func (s *chatService) ListRecent(ctx context.Context, userID, platformID string, limit int) ([]*models.ChatMessage, error) {
	_, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}
	if role == RoleAnonymous {
		return nil, fmt.Errorf("%w: chat of platform '%s'", ErrAccessLocked, platformID)
	}

	msgs, err := s.chatRepo.ListRecent(ctx, platformID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages of platform '%s': %w", platformID, err)
	}
	return msgs, nil
}

// Stream opens a live message channel backed by a Firestore snapshot
// listener; members and the owner only. The channel closes when ctx ends.
func (s *chatService) Stream(ctx context.Context, userID, platformID string) (<-chan *models.ChatMessage, error) {
	_, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}
	if role == RoleAnonymous {
		return nil, fmt.Errorf("%w: chat of platform '%s'", ErrAccessLocked, platformID)
	}

	ch, err := s.chatRepo.Listen(ctx, platformID)
	if err != nil {
		return nil, fmt.Errorf("failed to open chat stream for platform '%s': %w", platformID, err)
	}
	return ch, nil
}
