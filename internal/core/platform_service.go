package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"commonroom-backend-go/internal/db"
	"commonroom-backend-go/internal/models"
)

// Custom errors for the PlatformService.
var (
	ErrSlugTaken      = errors.New("platform slug is already in use")
	ErrAlreadyMember  = errors.New("user is already a member of this platform")
	ErrMemberNotFound = errors.New("member not found on this platform")
)

// platformService implements the PlatformService interface.
type platformService struct {
	platformRepo db.PlatformRepository
	memberRepo   db.MemberRepository
	auditService AuditService
}

// NewPlatformService creates a new PlatformService instance.
func NewPlatformService(pr db.PlatformRepository, mr db.MemberRepository, as AuditService) PlatformService {
	return &platformService{
		platformRepo: pr,
		memberRepo:   mr,
		auditService: as,
	}
}

// CreatePlatform creates a platform owned by the calling user and writes the
// owner's member document alongside it. Slug uniqueness is checked by query.
func (s *platformService) CreatePlatform(ctx context.Context, userID string, req models.CreatePlatformRequest) (*models.Platform, error) {
	if s.platformRepo == nil || s.memberRepo == nil || s.auditService == nil {
		return nil, errors.New("platformService: component not initialized")
	}

	existing, err := s.platformRepo.GetBySlug(ctx, req.Slug)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to check slug '%s': %w", req.Slug, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: '%s'", ErrSlugTaken, req.Slug)
	}

	newPlatform := &models.Platform{
		Slug:        req.Slug,
		Name:        req.Name,
		OwnerID:     userID,
		Public:      req.Public,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	platformID, err := s.platformRepo.Create(ctx, newPlatform)
	if err != nil {
		return nil, fmt.Errorf("failed to create platform in repository: %w", err)
	}
	newPlatform.ID = platformID

	// The owner gets a member document too, so member listings include them.
	// Owner authority itself never depends on this document existing.
	ownerMember := &models.Member{
		UserID:   userID,
		Role:     models.MemberRoleOwner,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.memberRepo.Upsert(ctx, platformID, ownerMember); err != nil {
		return nil, fmt.Errorf("failed to create owner member doc for platform '%s': %w", platformID, err)
	}

	auditLogEntry := models.AuditLog{
		UserID:     userID,
		Action:     "PLATFORM_CREATE",
		TargetType: "PLATFORM",
		TargetID:   newPlatform.ID,
		Timestamp:  time.Now().UTC(),
		Details: map[string]interface{}{
			"slug":   newPlatform.Slug,
			"name":   newPlatform.Name,
			"public": newPlatform.Public,
		},
	}
	if auditErr := s.auditService.CreateAuditLog(ctx, auditLogEntry); auditErr != nil {
		fmt.Printf("Warning: failed to create audit log for PLATFORM_CREATE (platformID: %s): %v\n", newPlatform.ID, auditErr)
	}

	return newPlatform, nil
}

// GetPlatform retrieves a platform with the viewer's role and feed access.
func (s *platformService) GetPlatform(ctx context.Context, userID, platformID string) (*models.Platform, Role, FeedAccess, error) {
	platform, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, RoleAnonymous, FeedLocked, err
	}
	return platform, role, FeedVisibility(platform, role), nil
}

// GetPlatformBySlug retrieves a platform by slug with the viewer's role and
// feed access.
func (s *platformService) GetPlatformBySlug(ctx context.Context, userID, slug string) (*models.Platform, Role, FeedAccess, error) {
	platform, err := s.platformRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, RoleAnonymous, FeedLocked, fmt.Errorf("%w: platform with slug '%s'", ErrPlatformNotFound, slug)
		}
		return nil, RoleAnonymous, FeedLocked, fmt.Errorf("failed to get platform by slug '%s': %w", slug, err)
	}
	return s.GetPlatform(ctx, userID, platform.ID)
}

// UpdatePlatform applies a partial update if the user is the owner.
func (s *platformService) UpdatePlatform(ctx context.Context, userID, platformID string, req models.UpdatePlatformRequest) (*models.Platform, error) {
	platform, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}
	if role != RoleOwner {
		return nil, fmt.Errorf("%w: user '%s' is not owner of platform '%s'", ErrForbidden, userID, platformID)
	}

	if req.Name != nil {
		platform.Name = *req.Name
	}
	if req.Public != nil {
		platform.Public = *req.Public
	}
	if req.Description != nil {
		platform.Description = *req.Description
	}
	if req.IconPath != nil {
		platform.IconPath = *req.IconPath
	}
	if req.BannerPath != nil {
		platform.BannerPath = *req.BannerPath
	}
	platform.UpdatedAt = time.Now().UTC()

	if err := s.platformRepo.Update(ctx, platform); err != nil {
		return nil, fmt.Errorf("failed to update platform '%s': %w", platformID, err)
	}

	auditLogEntry := models.AuditLog{
		UserID:     userID,
		Action:     "PLATFORM_UPDATE",
		TargetType: "PLATFORM",
		TargetID:   platformID,
		Timestamp:  time.Now().UTC(),
	}
	if auditErr := s.auditService.CreateAuditLog(ctx, auditLogEntry); auditErr != nil {
		fmt.Printf("Warning: failed to create audit log for PLATFORM_UPDATE (platformID: %s): %v\n", platformID, auditErr)
	}

	return platform, nil
}

// DeletePlatform deletes a platform if the user is the owner.
func (s *platformService) DeletePlatform(ctx context.Context, userID, platformID string) error {
	platform, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return err
	}
	if role != RoleOwner {
		return fmt.Errorf("%w: user '%s' is not owner of platform '%s'", ErrForbidden, userID, platformID)
	}

	if err := s.platformRepo.Delete(ctx, platformID); err != nil {
		return fmt.Errorf("failed to delete platform '%s': %w", platformID, err)
	}

	auditLogEntry := models.AuditLog{
		UserID:     userID,
		Action:     "PLATFORM_DELETE",
		TargetType: "PLATFORM",
		TargetID:   platformID,
		Timestamp:  time.Now().UTC(),
		Details: map[string]interface{}{
			"deleted_platform_slug": platform.Slug,
		},
	}
	if auditErr := s.auditService.CreateAuditLog(ctx, auditLogEntry); auditErr != nil {
		fmt.Printf("Warning: failed to create audit log for PLATFORM_DELETE (platformID: %s): %v\n", platformID, auditErr)
	}

	return nil
}

// JoinPlatform creates the free platform-level member document. Joining twice
// returns the existing membership unchanged.
func (s *platformService) JoinPlatform(ctx context.Context, platformID, userID, displayName, photoURL string) (*models.Member, error) {
	platform, member, _, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}
	if member != nil {
		return member, nil
	}

	role := models.MemberRoleMember
	if userID == platform.OwnerID {
		role = models.MemberRoleOwner
	}

	newMember := &models.Member{
		UserID:      userID,
		Role:        role,
		DisplayName: displayName,
		PhotoURL:    photoURL,
		JoinedAt:    time.Now().UTC(),
	}
	if err := s.memberRepo.Upsert(ctx, platformID, newMember); err != nil {
		return nil, fmt.Errorf("failed to join platform '%s' for user '%s': %w", platformID, userID, err)
	}

	auditLogEntry := models.AuditLog{
		UserID:     userID,
		Action:     "PLATFORM_JOIN",
		TargetType: "PLATFORM",
		TargetID:   platformID,
		Timestamp:  time.Now().UTC(),
	}
	if auditErr := s.auditService.CreateAuditLog(ctx, auditLogEntry); auditErr != nil {
		fmt.Printf("Warning: failed to create audit log for PLATFORM_JOIN (platformID: %s): %v\n", platformID, auditErr)
	}

	return newMember, nil
}

// GetMembership returns the caller's member document for a platform.
func (s *platformService) GetMembership(ctx context.Context, platformID, userID string) (*models.Member, error) {
	member, err := s.memberRepo.Get(ctx, platformID, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user '%s' on platform '%s'", ErrMemberNotFound, userID, platformID)
		}
		return nil, fmt.Errorf("failed to get membership of user '%s' on platform '%s': %w", userID, platformID, err)
	}
	return member, nil
}

// ListMembers lists a platform's members; owner only.
func (s *platformService) ListMembers(ctx context.Context, userID, platformID string, limit int) ([]*models.Member, error) {
	_, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}
	if role != RoleOwner {
		return nil, fmt.Errorf("%w: user '%s' is not owner of platform '%s'", ErrForbidden, userID, platformID)
	}

	members, err := s.memberRepo.List(ctx, platformID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of platform '%s': %w", platformID, err)
	}
	return members, nil
}
