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

// Custom errors for the CommunityService.
var (
	ErrCommunityNotFound = errors.New("community not found")
	ErrCommunityNotEmpty = errors.New("community still has courses and cannot be deleted")
)

// communityService implements the CommunityService interface.
type communityService struct {
	platformRepo  db.PlatformRepository
	memberRepo    db.MemberRepository
	communityRepo db.CommunityRepository
	courseRepo    db.CourseRepository
	auditService  AuditService
}

// NewCommunityService creates a new CommunityService instance.
func NewCommunityService(pr db.PlatformRepository, mr db.MemberRepository, cr db.CommunityRepository, course db.CourseRepository, as AuditService) CommunityService {
	return &communityService{
		platformRepo:  pr,
		memberRepo:    mr,
		communityRepo: cr,
		courseRepo:    course,
		auditService:  as,
	}
}

// normalizePromoCodes uppercases stored codes so resolution can match the
// normalized user input directly.
func normalizePromoCodes(codes []models.PromoCode) []models.PromoCode {
	for i := range codes {
		codes[i].Code = strings.ToUpper(strings.TrimSpace(codes[i].Code))
	}
	return codes
}

// CreateCommunity creates a community under a platform; owner only.
func (s *communityService) CreateCommunity(ctx context.Context, userID, platformID string, req models.CreateCommunityRequest) (*models.Community, error) {
	_, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}
	if role != RoleOwner {
		return nil, fmt.Errorf("%w: user '%s' is not owner of platform '%s'", ErrForbidden, userID, platformID)
	}

	newCommunity := &models.Community{
		PlatformID:   platformID,
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		MonthlyPrice: req.MonthlyPrice,
		PromoCodes:   normalizePromoCodes(req.PromoCodes),
		MentorIDs:    req.MentorIDs,
		Order:        req.Order,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	communityID, err := s.communityRepo.Create(ctx, platformID, newCommunity)
	if err != nil {
		return nil, fmt.Errorf("failed to create community in repository: %w", err)
	}
	newCommunity.ID = communityID

	auditLogEntry := models.AuditLog{
		UserID:     userID,
		Action:     "COMMUNITY_CREATE",
		TargetType: "COMMUNITY",
		TargetID:   communityID,
		Timestamp:  time.Now().UTC(),
		Details: map[string]interface{}{
			"platformId":   platformID,
			"name":         newCommunity.Name,
			"monthlyPrice": newCommunity.MonthlyPrice,
		},
	}
	if auditErr := s.auditService.CreateAuditLog(ctx, auditLogEntry); auditErr != nil {
		fmt.Printf("Warning: failed to create audit log for COMMUNITY_CREATE (communityID: %s): %v\n", communityID, auditErr)
	}

	return newCommunity, nil
}

// GetCommunity retrieves a community with the viewer's access outcome. Owners
// get the full view, paying members the full view, free members the
// pinned-only view, anonymous viewers the locked view.
func (s *communityService) GetCommunity(ctx context.Context, userID, platformID, communityID string) (*models.Community, CommunityAccess, error) {
	_, member, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, CommunityLocked, err
	}

	community, err := s.communityRepo.GetByID(ctx, platformID, communityID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, CommunityLocked, fmt.Errorf("%w: community with ID '%s'", ErrCommunityNotFound, communityID)
		}
		return nil, CommunityLocked, fmt.Errorf("failed to get community '%s': %w", communityID, err)
	}

	access := CommunityVisibility(role, HasPaidAccess(member, communityID, false))
	return community, access, nil
}

// ListCommunities lists a platform's communities in display order. The listing
// itself is public; content gating happens per community.
func (s *communityService) ListCommunities(ctx context.Context, platformID string) ([]*models.Community, error) {
	communities, err := s.communityRepo.List(ctx, platformID)
	if err != nil {
		return nil, fmt.Errorf("failed to list communities of platform '%s': %w", platformID, err)
	}
	return communities, nil
}

// UpdateCommunity applies a partial update; owner only.
func (s *communityService) UpdateCommunity(ctx context.Context, userID, platformID, communityID string, req models.UpdateCommunityRequest) (*models.Community, error) {
	_, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}
	if role != RoleOwner {
		return nil, fmt.Errorf("%w: user '%s' is not owner of platform '%s'", ErrForbidden, userID, platformID)
	}

	community, err := s.communityRepo.GetByID(ctx, platformID, communityID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: community with ID '%s'", ErrCommunityNotFound, communityID)
		}
		return nil, fmt.Errorf("failed to get community '%s' for update: %w", communityID, err)
	}

	if req.Name != nil {
		community.Name = *req.Name
	}
	if req.Description != nil {
		community.Description = *req.Description
	}
	if req.MonthlyPrice != nil {
		community.MonthlyPrice = *req.MonthlyPrice
	}
	if req.PromoCodes != nil {
		community.PromoCodes = normalizePromoCodes(*req.PromoCodes)
	}
	if req.MentorIDs != nil {
		community.MentorIDs = *req.MentorIDs
	}
	if req.Order != nil {
		community.Order = *req.Order
	}
	community.UpdatedAt = time.Now().UTC()

	if err := s.communityRepo.Update(ctx, platformID, community); err != nil {
		return nil, fmt.Errorf("failed to update community '%s': %w", communityID, err)
	}

	auditLogEntry := models.AuditLog{
		UserID:     userID,
		Action:     "COMMUNITY_UPDATE",
		TargetType: "COMMUNITY",
		TargetID:   communityID,
		Timestamp:  time.Now().UTC(),
	}
	if auditErr := s.auditService.CreateAuditLog(ctx, auditLogEntry); auditErr != nil {
		fmt.Printf("Warning: failed to create audit log for COMMUNITY_UPDATE (communityID: %s): %v\n", communityID, auditErr)
	}

	return community, nil
}

// DeleteCommunity deletes a community; owner only. Deletion is blocked while
// the community still has courses, so content has to be removed deliberately.
func (s *communityService) DeleteCommunity(ctx context.Context, userID, platformID, communityID string) error {
	_, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return err
	}
	if role != RoleOwner {
		return fmt.Errorf("%w: user '%s' is not owner of platform '%s'", ErrForbidden, userID, platformID)
	}

	courseCount, err := s.courseRepo.CountByCommunity(ctx, platformID, communityID)
	if err != nil {
		return fmt.Errorf("failed to count courses of community '%s': %w", communityID, err)
	}
	if courseCount > 0 {
		return fmt.Errorf("%w: community '%s' has %d course(s)", ErrCommunityNotEmpty, communityID, courseCount)
	}

	if err := s.communityRepo.Delete(ctx, platformID, communityID); err != nil {
		return fmt.Errorf("failed to delete community '%s': %w", communityID, err)
	}

	auditLogEntry := models.AuditLog{
		UserID:     userID,
		Action:     "COMMUNITY_DELETE",
		TargetType: "COMMUNITY",
		TargetID:   communityID,
		Timestamp:  time.Now().UTC(),
	}
	if auditErr := s.auditService.CreateAuditLog(ctx, auditLogEntry); auditErr != nil {
		fmt.Printf("Warning: failed to create audit log for COMMUNITY_DELETE (communityID: %s): %v\n", communityID, auditErr)
	}

	return nil
}
