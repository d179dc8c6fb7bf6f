package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"commonroom-backend-go/internal/models"
)

const platformsCollection = "platforms"

// firestorePlatformRepository implements PlatformRepository using Firestore.
type firestorePlatformRepository struct {
	client *firestore.Client
}

// NewFirestorePlatformRepository creates a new instance of firestorePlatformRepository.
func NewFirestorePlatformRepository(client *firestore.Client) PlatformRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for PlatformRepository.")
	}
	return &firestorePlatformRepository{client: client}
}

// Create adds a new platform document with an auto-generated ID.
// CreatedAt/UpdatedAt are handled by the serverTimestamp tags on the model.
func (r *firestorePlatformRepository) Create(ctx context.Context, platform *models.Platform) (string, error) {
	docRef := r.client.Collection(platformsCollection).NewDoc()
	platform.ID = docRef.ID

	if _, err := docRef.Create(ctx, platform); err != nil {
		return "", fmt.Errorf("failed to create platform: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a platform document by its ID.
func (r *firestorePlatformRepository) GetByID(ctx context.Context, platformID string) (*models.Platform, error) {
	if platformID == "" {
		return nil, errors.New("platformID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(platformsCollection).Doc(platformID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("platform with ID '%s' not found: %w", platformID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get platform with ID '%s': %w", platformID, err)
	}

	var platform models.Platform
	if err := docSnap.DataTo(&platform); err != nil {
		return nil, fmt.Errorf("failed to decode platform data for ID '%s': %w", platformID, err)
	}
	platform.ID = docSnap.Ref.ID

	return &platform, nil
}

// GetBySlug retrieves a platform by its unique slug. The slug index is a
// convention maintained by the service layer (uniqueness checked on create).
func (r *firestorePlatformRepository) GetBySlug(ctx context.Context, slug string) (*models.Platform, error) {
	if slug == "" {
		return nil, errors.New("slug cannot be empty for GetBySlug operation")
	}

	iter := r.client.Collection(platformsCollection).Where("slug", "==", slug).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("platform with slug '%s' not found: %w", slug, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query platform by slug '%s': %w", slug, err)
	}

	var platform models.Platform
	if err := doc.DataTo(&platform); err != nil {
		return nil, fmt.Errorf("failed to decode platform data for slug '%s': %w", slug, err)
	}
	platform.ID = doc.Ref.ID

	return &platform, nil
}

// Update merges the given platform state into the existing document.
func (r *firestorePlatformRepository) Update(ctx context.Context, platform *models.Platform) error {
	if platform.ID == "" {
		return errors.New("platform ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(platformsCollection).Doc(platform.ID).Set(ctx, platform, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update platform with ID '%s': %w", platform.ID, err)
	}
	return nil
}

// Delete removes a platform document. Subcollections (members, communities,
// posts, ...) are not deleted automatically; the service layer owns that.
func (r *firestorePlatformRepository) Delete(ctx context.Context, platformID string) error {
	if platformID == "" {
		return errors.New("platformID cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(platformsCollection).Doc(platformID).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("platform with ID '%s' not found for deletion: %w", platformID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete platform with ID '%s': %w", platformID, err)
	}
	return nil
}
