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

const communitiesCollection = "communities"

// firestoreCommunityRepository implements CommunityRepository using Firestore.
// Communities live in a subcollection under their platform document.
type firestoreCommunityRepository struct {
	client *firestore.Client
}

// NewFirestoreCommunityRepository creates a new instance of firestoreCommunityRepository.
func NewFirestoreCommunityRepository(client *firestore.Client) CommunityRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for CommunityRepository.")
	}
	return &firestoreCommunityRepository{client: client}
}

func (r *firestoreCommunityRepository) collection(platformID string) *firestore.CollectionRef {
	return r.client.Collection(platformsCollection).Doc(platformID).Collection(communitiesCollection)
}

// Create adds a new community document with an auto-generated ID.
func (r *firestoreCommunityRepository) Create(ctx context.Context, platformID string, community *models.Community) (string, error) {
	if platformID == "" {
		return "", errors.New("platformID cannot be empty for Create operation")
	}
	docRef := r.collection(platformID).NewDoc()
	community.ID = docRef.ID
	community.PlatformID = platformID

	if _, err := docRef.Create(ctx, community); err != nil {
		return "", fmt.Errorf("failed to create community on platform '%s': %w", platformID, err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a community document by its ID.
func (r *firestoreCommunityRepository) GetByID(ctx context.Context, platformID, communityID string) (*models.Community, error) {
	if platformID == "" || communityID == "" {
		return nil, errors.New("platformID and communityID are required for GetByID operation")
	}
	docSnap, err := r.collection(platformID).Doc(communityID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("community with ID '%s' not found: %w", communityID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get community with ID '%s': %w", communityID, err)
	}

	var community models.Community
	if err := docSnap.DataTo(&community); err != nil {
		return nil, fmt.Errorf("failed to decode community data for ID '%s': %w", communityID, err)
	}
	community.ID = docSnap.Ref.ID
	community.PlatformID = platformID

	return &community, nil
}

// List retrieves all communities of a platform in display order.
func (r *firestoreCommunityRepository) List(ctx context.Context, platformID string) ([]*models.Community, error) {
	if platformID == "" {
		return nil, errors.New("platformID cannot be empty for List operation")
	}

	iter := r.collection(platformID).OrderBy("order", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var communities []*models.Community
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate communities of platform '%s': %w", platformID, err)
		}

		var community models.Community
		if err := doc.DataTo(&community); err != nil {
			log.Printf("Error decoding community data (ID: %s) on platform '%s': %v. Skipping.", doc.Ref.ID, platformID, err)
			continue
		}
		community.ID = doc.Ref.ID
		community.PlatformID = platformID
		communities = append(communities, &community)
	}

	return communities, nil
}

// Update merges the given community state into the existing document.
func (r *firestoreCommunityRepository) Update(ctx context.Context, platformID string, community *models.Community) error {
	if platformID == "" || community.ID == "" {
		return errors.New("platformID and community ID are required for Update operation")
	}
	_, err := r.collection(platformID).Doc(community.ID).Set(ctx, community, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update community with ID '%s': %w", community.ID, err)
	}
	return nil
}

// Delete removes a community document. The service layer blocks deletion while
// child courses exist.
func (r *firestoreCommunityRepository) Delete(ctx context.Context, platformID, communityID string) error {
	if platformID == "" || communityID == "" {
		return errors.New("platformID and communityID are required for Delete operation")
	}
	_, err := r.collection(platformID).Doc(communityID).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("community with ID '%s' not found for deletion: %w", communityID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete community with ID '%s': %w", communityID, err)
	}
	return nil
}
