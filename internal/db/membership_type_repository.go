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

const membershipTypesCollection = "membershipTypes"

// firestoreMembershipTypeRepository implements MembershipTypeRepository using Firestore.
type firestoreMembershipTypeRepository struct {
	client *firestore.Client
}

// NewFirestoreMembershipTypeRepository creates a new instance of firestoreMembershipTypeRepository.
func NewFirestoreMembershipTypeRepository(client *firestore.Client) MembershipTypeRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for MembershipTypeRepository.")
	}
	return &firestoreMembershipTypeRepository{client: client}
}

func (r *firestoreMembershipTypeRepository) collection(platformID string) *firestore.CollectionRef {
	return r.client.Collection(platformsCollection).Doc(platformID).Collection(membershipTypesCollection)
}

// Create adds a new membership type document with an auto-generated ID.
func (r *firestoreMembershipTypeRepository) Create(ctx context.Context, platformID string, mt *models.MembershipType) (string, error) {
	if platformID == "" {
		return "", errors.New("platformID cannot be empty for Create operation")
	}
	docRef := r.collection(platformID).NewDoc()
	mt.ID = docRef.ID
	mt.PlatformID = platformID

	if _, err := docRef.Create(ctx, mt); err != nil {
		return "", fmt.Errorf("failed to create membership type on platform '%s': %w", platformID, err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a membership type document by its ID.
func (r *firestoreMembershipTypeRepository) GetByID(ctx context.Context, platformID, membershipTypeID string) (*models.MembershipType, error) {
	if platformID == "" || membershipTypeID == "" {
		return nil, errors.New("platformID and membershipTypeID are required for GetByID operation")
	}
	docSnap, err := r.collection(platformID).Doc(membershipTypeID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("membership type with ID '%s' not found: %w", membershipTypeID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get membership type with ID '%s': %w", membershipTypeID, err)
	}

	var mt models.MembershipType
	if err := docSnap.DataTo(&mt); err != nil {
		return nil, fmt.Errorf("failed to decode membership type data for ID '%s': %w", membershipTypeID, err)
	}
	mt.ID = docSnap.Ref.ID
	mt.PlatformID = platformID

	return &mt, nil
}

// List retrieves all membership types of a platform in display order.
func (r *firestoreMembershipTypeRepository) List(ctx context.Context, platformID string) ([]*models.MembershipType, error) {
	if platformID == "" {
		return nil, errors.New("platformID cannot be empty for List operation")
	}

	iter := r.collection(platformID).OrderBy("order", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var membershipTypes []*models.MembershipType
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate membership types of platform '%s': %w", platformID, err)
		}

		var mt models.MembershipType
		if err := doc.DataTo(&mt); err != nil {
			log.Printf("Error decoding membership type data (ID: %s) on platform '%s': %v. Skipping.", doc.Ref.ID, platformID, err)
			continue
		}
		mt.ID = doc.Ref.ID
		mt.PlatformID = platformID
		membershipTypes = append(membershipTypes, &mt)
	}

	return membershipTypes, nil
}

// Update merges the given membership type state into the existing document.
func (r *firestoreMembershipTypeRepository) Update(ctx context.Context, platformID string, mt *models.MembershipType) error {
	if platformID == "" || mt.ID == "" {
		return errors.New("platformID and membership type ID are required for Update operation")
	}
	_, err := r.collection(platformID).Doc(mt.ID).Set(ctx, mt, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update membership type with ID '%s': %w", mt.ID, err)
	}
	return nil
}

// Delete removes a membership type document.
func (r *firestoreMembershipTypeRepository) Delete(ctx context.Context, platformID, membershipTypeID string) error {
	if platformID == "" || membershipTypeID == "" {
		return errors.New("platformID and membershipTypeID are required for Delete operation")
	}
	_, err := r.collection(platformID).Doc(membershipTypeID).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("membership type with ID '%s' not found for deletion: %w", membershipTypeID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete membership type with ID '%s': %w", membershipTypeID, err)
	}
	return nil
}
