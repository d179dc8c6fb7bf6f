package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"commonroom-backend-go/internal/models"
)

const (
	membersCollection  = "members"
	paymentsCollection = "payments"
)

// firestoreMemberRepository implements MemberRepository using Firestore.
// Member documents are keyed by the user's UID under the platform document.
type firestoreMemberRepository struct {
	client *firestore.Client
}

// NewFirestoreMemberRepository creates a new instance of firestoreMemberRepository.
func NewFirestoreMemberRepository(client *firestore.Client) MemberRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for MemberRepository.")
	}
	return &firestoreMemberRepository{client: client}
}

func (r *firestoreMemberRepository) memberRef(platformID, userID string) *firestore.DocumentRef {
	return r.client.Collection(platformsCollection).Doc(platformID).Collection(membersCollection).Doc(userID)
}

// Upsert creates or merges the member document for (platformID, userID).
func (r *firestoreMemberRepository) Upsert(ctx context.Context, platformID string, member *models.Member) error {
	if platformID == "" || member == nil || member.UserID == "" {
		return errors.New("platformID and member.UserID are required for Upsert operation")
	}
	_, err := r.memberRef(platformID, member.UserID).Set(ctx, member, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to upsert member '%s' on platform '%s': %w", member.UserID, platformID, err)
	}
	return nil
}

// Get retrieves the member document for (platformID, userID).
func (r *firestoreMemberRepository) Get(ctx context.Context, platformID, userID string) (*models.Member, error) {
	if platformID == "" || userID == "" {
		return nil, errors.New("platformID and userID are required for Get operation")
	}
	docSnap, err := r.memberRef(platformID, userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("member '%s' not found on platform '%s': %w", userID, platformID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get member '%s' on platform '%s': %w", userID, platformID, err)
	}

	var member models.Member
	if err := docSnap.DataTo(&member); err != nil {
		return nil, fmt.Errorf("failed to decode member data for '%s': %w", userID, err)
	}
	member.UserID = docSnap.Ref.ID

	return &member, nil
}

// List retrieves members of a platform ordered by join date.
func (r *firestoreMemberRepository) List(ctx context.Context, platformID string, limit int) ([]*models.Member, error) {
	if platformID == "" {
		return nil, errors.New("platformID cannot be empty for List operation")
	}

	query := r.client.Collection(platformsCollection).Doc(platformID).
		Collection(membersCollection).OrderBy("joinedAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var members []*models.Member
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate members of platform '%s': %w", platformID, err)
		}

		var member models.Member
		if err := doc.DataTo(&member); err != nil {
			log.Printf("Error decoding member data (ID: %s) on platform '%s': %v. Skipping.", doc.Ref.ID, platformID, err)
			continue
		}
		member.UserID = doc.Ref.ID
		members = append(members, &member)
	}

	return members, nil
}

// GrantAccess settles a purchase in a single Firestore transaction: the member
// document is created or its communities set extended, the community's
// memberCount is incremented (only when access is newly granted) and the
// settlement payment record is written as completed. A repeated grant for the
// same (user, community) pair is a no-op apart from refreshing the payment
// record, so retries and double submissions converge.
func (r *firestoreMemberRepository) GrantAccess(ctx context.Context, grant AccessGrant) error {
	if grant.PlatformID == "" || grant.UserID == "" {
		return errors.New("platformID and userID are required for GrantAccess operation")
	}
	if grant.Payment == nil || grant.Payment.ID == "" {
		return errors.New("a payment record with an order id is required for GrantAccess operation")
	}

	memberRef := r.memberRef(grant.PlatformID, grant.UserID)
	paymentRef := r.client.Collection(paymentsCollection).Doc(grant.Payment.ID)

	var communityRef *firestore.DocumentRef
	if grant.CommunityID != "" {
		communityRef = r.client.Collection(platformsCollection).Doc(grant.PlatformID).
			Collection(communitiesCollection).Doc(grant.CommunityID)
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// All reads must happen before any write.
		memberSnap, err := tx.Get(memberRef)
		memberExists := true
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return fmt.Errorf("failed to read member document: %w", err)
			}
			memberExists = false
		}

		paymentSnap, err := tx.Get(paymentRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return fmt.Errorf("failed to read payment document: %w", err)
		}
		if paymentSnap != nil && paymentSnap.Exists() {
			var existing models.Payment
			if decodeErr := paymentSnap.DataTo(&existing); decodeErr == nil && existing.Status == models.PaymentStatusCompleted {
				// Already settled; nothing to do.
				return nil
			}
		}

		newlyGranted := false
		if memberExists {
			var member models.Member
			if err := memberSnap.DataTo(&member); err != nil {
				return fmt.Errorf("failed to decode member document: %w", err)
			}
			updates := map[string]interface{}{"hasPaid": true}
			if grant.CommunityID != "" && !containsString(member.Communities, grant.CommunityID) {
				updates["communities"] = firestore.ArrayUnion(grant.CommunityID)
				newlyGranted = true
			}
			if err := tx.Set(memberRef, updates, firestore.MergeAll); err != nil {
				return fmt.Errorf("failed to update member document: %w", err)
			}
		} else {
			member := &models.Member{
				UserID:  grant.UserID,
				Role:    models.MemberRoleMember,
				HasPaid: true,
			}
			if grant.CommunityID != "" {
				member.Communities = []string{grant.CommunityID}
				newlyGranted = true
			}
			if err := tx.Set(memberRef, member); err != nil {
				return fmt.Errorf("failed to create member document: %w", err)
			}
		}

		if newlyGranted && communityRef != nil {
			if err := tx.Update(communityRef, []firestore.Update{
				{Path: "memberCount", Value: firestore.Increment(1)},
			}); err != nil {
				return fmt.Errorf("failed to increment community member count: %w", err)
			}
		}

		grant.Payment.Status = models.PaymentStatusCompleted
		now := time.Now().UTC()
		grant.Payment.CompletedAt = &now
		if err := tx.Set(paymentRef, grant.Payment); err != nil {
			return fmt.Errorf("failed to write payment record: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("grant access transaction failed for user '%s' on platform '%s': %w", grant.UserID, grant.PlatformID, err)
	}
	return nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
