package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"commonroom-backend-go/internal/db"
	"commonroom-backend-go/internal/models"
)

// Custom errors for the MembershipTypeService.
var (
	ErrMembershipTypeNotFound = errors.New("membership type not found")
	ErrPriceRequired          = errors.New("membership type needs at least one price")
)

// membershipTypeService implements the MembershipTypeService interface.
type membershipTypeService struct {
	platformRepo db.PlatformRepository
	memberRepo   db.MemberRepository
	mtRepo       db.MembershipTypeRepository
	auditService AuditService
}

// NewMembershipTypeService creates a new MembershipTypeService instance.
func NewMembershipTypeService(pr db.PlatformRepository, mr db.MemberRepository, mtr db.MembershipTypeRepository, as AuditService) MembershipTypeService {
	return &membershipTypeService{
		platformRepo: pr,
		memberRepo:   mr,
		mtRepo:       mtr,
		auditService: as,
	}
}

// CreateMembershipType creates a membership type under a platform; owner only.
// At least one of the two prices must be configured.
func (s *membershipTypeService) CreateMembershipType(ctx context.Context, userID, platformID string, req models.CreateMembershipTypeRequest) (*models.MembershipType, error) {
	_, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}
	if role != RoleOwner {
		return nil, fmt.Errorf("%w: user '%s' is not owner of platform '%s'", ErrForbidden, userID, platformID)
	}

	if req.PriceOneTime == nil && req.PriceInstallment == nil {
		return nil, ErrPriceRequired
	}

	newType := &models.MembershipType{
		PlatformID:            platformID,
		Name:                  req.Name,
		PriceOneTime:          req.PriceOneTime,
		PriceInstallment:      req.PriceInstallment,
		InstallmentMonthCount: req.InstallmentMonthCount,
		PromoCodes:            normalizePromoCodes(req.PromoCodes),
		Order:                 req.Order,
		CreatedAt:             time.Now().UTC(),
		UpdatedAt:             time.Now().UTC(),
	}

	membershipTypeID, err := s.mtRepo.Create(ctx, platformID, newType)
	if err != nil {
		return nil, fmt.Errorf("failed to create membership type in repository: %w", err)
	}
	newType.ID = membershipTypeID

	auditLogEntry := models.AuditLog{
		UserID:     userID,
		Action:     "MEMBERSHIP_TYPE_CREATE",
		TargetType: "MEMBERSHIP_TYPE",
		TargetID:   membershipTypeID,
		Timestamp:  time.Now().UTC(),
		Details: map[string]interface{}{
			"platformId": platformID,
			"name":       newType.Name,
		},
	}
	if auditErr := s.auditService.CreateAuditLog(ctx, auditLogEntry); auditErr != nil {
		fmt.Printf("Warning: failed to create audit log for MEMBERSHIP_TYPE_CREATE (id: %s): %v\n", membershipTypeID, auditErr)
	}

	return newType, nil
}

// GetMembershipType retrieves a membership type. Listings and lookups are
// public: pricing is what anonymous visitors come to see.
func (s *membershipTypeService) GetMembershipType(ctx context.Context, platformID, membershipTypeID string) (*models.MembershipType, error) {
	mt, err := s.mtRepo.GetByID(ctx, platformID, membershipTypeID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: membership type with ID '%s'", ErrMembershipTypeNotFound, membershipTypeID)
		}
		return nil, fmt.Errorf("failed to get membership type '%s': %w", membershipTypeID, err)
	}
	return mt, nil
}

// ListMembershipTypes lists a platform's membership types in display order.
func (s *membershipTypeService) ListMembershipTypes(ctx context.Context, platformID string) ([]*models.MembershipType, error) {
	types, err := s.mtRepo.List(ctx, platformID)
	if err != nil {
		return nil, fmt.Errorf("failed to list membership types of platform '%s': %w", platformID, err)
	}
	return types, nil
}

// UpdateMembershipType applies a partial update; owner only.
func (s *membershipTypeService) UpdateMembershipType(ctx context.Context, userID, platformID, membershipTypeID string, req models.UpdateMembershipTypeRequest) (*models.MembershipType, error) {
	_, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}
	if role != RoleOwner {
		return nil, fmt.Errorf("%w: user '%s' is not owner of platform '%s'", ErrForbidden, userID, platformID)
	}

	mt, err := s.mtRepo.GetByID(ctx, platformID, membershipTypeID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: membership type with ID '%s'", ErrMembershipTypeNotFound, membershipTypeID)
		}
		return nil, fmt.Errorf("failed to get membership type '%s' for update: %w", membershipTypeID, err)
	}

	if req.Name != nil {
		mt.Name = *req.Name
	}
	if req.PriceOneTime != nil {
		mt.PriceOneTime = req.PriceOneTime
	}
	if req.PriceInstallment != nil {
		mt.PriceInstallment = req.PriceInstallment
	}
	if req.InstallmentMonthCount != nil {
		mt.InstallmentMonthCount = *req.InstallmentMonthCount
	}
	if req.PromoCodes != nil {
		mt.PromoCodes = normalizePromoCodes(*req.PromoCodes)
	}
	if req.Order != nil {
		mt.Order = *req.Order
	}
	mt.UpdatedAt = time.Now().UTC()

	if mt.PriceOneTime == nil && mt.PriceInstallment == nil {
		return nil, ErrPriceRequired
	}

	if err := s.mtRepo.Update(ctx, platformID, mt); err != nil {
		return nil, fmt.Errorf("failed to update membership type '%s': %w", membershipTypeID, err)
	}

	auditLogEntry := models.AuditLog{
		UserID:     userID,
		Action:     "MEMBERSHIP_TYPE_UPDATE",
		TargetType: "MEMBERSHIP_TYPE",
		TargetID:   membershipTypeID,
		Timestamp:  time.Now().UTC(),
	}
	if auditErr := s.auditService.CreateAuditLog(ctx, auditLogEntry); auditErr != nil {
		fmt.Printf("Warning: failed to create audit log for MEMBERSHIP_TYPE_UPDATE (id: %s): %v\n", membershipTypeID, auditErr)
	}

	return mt, nil
}

// DeleteMembershipType deletes a membership type; owner only.
func (s *membershipTypeService) DeleteMembershipType(ctx context.Context, userID, platformID, membershipTypeID string) error {
	_, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return err
	}
	if role != RoleOwner {
		return fmt.Errorf("%w: user '%s' is not owner of platform '%s'", ErrForbidden, userID, platformID)
	}

	if err := s.mtRepo.Delete(ctx, platformID, membershipTypeID); err != nil {
		return fmt.Errorf("failed to delete membership type '%s': %w", membershipTypeID, err)
	}

	auditLogEntry := models.AuditLog{
		UserID:     userID,
		Action:     "MEMBERSHIP_TYPE_DELETE",
		TargetType: "MEMBERSHIP_TYPE",
		TargetID:   membershipTypeID,
		Timestamp:  time.Now().UTC(),
	}
	if auditErr := s.auditService.CreateAuditLog(ctx, auditLogEntry); auditErr != nil {
		fmt.Printf("Warning: failed to create audit log for MEMBERSHIP_TYPE_DELETE (id: %s): %v\n", membershipTypeID, auditErr)
	}

	return nil
}
