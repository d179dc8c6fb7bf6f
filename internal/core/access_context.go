package core

import (
	"context"
	"errors"
	"fmt"

	"commonroom-backend-go/internal/db"
	"commonroom-backend-go/internal/models"
)

// Errors shared by services that resolve a viewer's standing on a platform.
var (
	ErrPlatformNotFound = errors.New("platform not found")
	ErrForbidden        = errors.New("user does not have permission for this action")
	ErrAccessLocked     = errors.New("content is locked for this viewer")
)

// resolveRole loads the platform and the viewer's member document and runs the
// role classifier over them. The member lookup is skipped for anonymous
// viewers and for the owner, whose authority does not depend on a member doc.
func resolveRole(ctx context.Context, platforms db.PlatformRepository, members db.MemberRepository, platformID, userID string) (*models.Platform, *models.Member, Role, error) {
	platform, err := platforms.GetByID(ctx, platformID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil, RoleAnonymous, fmt.Errorf("%w: platform with ID '%s'", ErrPlatformNotFound, platformID)
		}
		return nil, nil, RoleAnonymous, fmt.Errorf("failed to get platform '%s': %w", platformID, err)
	}

	if userID == "" || userID == platform.OwnerID {
		return platform, nil, ClassifyRole(platform, userID, nil), nil
	}

	member, err := members.Get(ctx, platformID, userID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, nil, RoleAnonymous, fmt.Errorf("failed to get member '%s' of platform '%s': %w", userID, platformID, err)
	}

	return platform, member, ClassifyRole(platform, userID, member), nil
}
