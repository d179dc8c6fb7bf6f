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

// firestorePaymentRepository implements PaymentRepository using Firestore.
// Payments are keyed by the gateway order id in a top-level collection so
// webhook notifications resolve them directly. Completed payments are written
// by MemberRepository.GrantAccess inside the settlement transaction; this
// repository handles the pending/failed lifecycle and queries.
type firestorePaymentRepository struct {
	client *firestore.Client
}

// NewFirestorePaymentRepository creates a new instance of firestorePaymentRepository.
func NewFirestorePaymentRepository(client *firestore.Client) PaymentRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for PaymentRepository.")
	}
	return &firestorePaymentRepository{client: client}
}

// Create writes a payment record keyed by its order id.
func (r *firestorePaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment == nil || payment.ID == "" {
		return errors.New("payment with an order id is required for Create operation")
	}
	_, err := r.client.Collection(paymentsCollection).Doc(payment.ID).Set(ctx, payment)
	if err != nil {
		return fmt.Errorf("failed to create payment record '%s': %w", payment.ID, err)
	}
	return nil
}

// GetByID retrieves a payment record by its order id.
func (r *firestorePaymentRepository) GetByID(ctx context.Context, orderID string) (*models.Payment, error) {
	if orderID == "" {
		return nil, errors.New("orderID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(paymentsCollection).Doc(orderID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("payment with order id '%s' not found: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get payment with order id '%s': %w", orderID, err)
	}

	var payment models.Payment
	if err := docSnap.DataTo(&payment); err != nil {
		return nil, fmt.Errorf("failed to decode payment data for order id '%s': %w", orderID, err)
	}
	payment.ID = docSnap.Ref.ID

	return &payment, nil
}

// MarkFailed transitions a payment record to the failed status. Completed
// payments are never downgraded.
func (r *firestorePaymentRepository) MarkFailed(ctx context.Context, orderID string) error {
	if orderID == "" {
		return errors.New("orderID cannot be empty for MarkFailed operation")
	}

	ref := r.client.Collection(paymentsCollection).Doc(orderID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return fmt.Errorf("payment with order id '%s' not found: %w", orderID, ErrNotFound)
			}
			return err
		}
		var payment models.Payment
		if err := snap.DataTo(&payment); err != nil {
			return fmt.Errorf("failed to decode payment data: %w", err)
		}
		if payment.Status == models.PaymentStatusCompleted {
			return nil
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: models.PaymentStatusFailed},
		})
	})
	if err != nil {
		return fmt.Errorf("failed to mark payment '%s' as failed: %w", orderID, err)
	}
	return nil
}

// ListByUser retrieves a user's payments, newest first.
func (r *firestorePaymentRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Payment, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for ListByUser operation")
	}
	return r.list(ctx, r.client.Collection(paymentsCollection).Where("userId", "==", userID), limit)
}

// ListByPlatform retrieves a platform's payments, newest first.
func (r *firestorePaymentRepository) ListByPlatform(ctx context.Context, platformID string, limit int) ([]*models.Payment, error) {
	if platformID == "" {
		return nil, errors.New("platformID cannot be empty for ListByPlatform operation")
	}
	return r.list(ctx, r.client.Collection(paymentsCollection).Where("platformId", "==", platformID), limit)
}

func (r *firestorePaymentRepository) list(ctx context.Context, query firestore.Query, limit int) ([]*models.Payment, error) {
	query = query.OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var payments []*models.Payment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate payments: %w", err)
		}

		var payment models.Payment
		if err := doc.DataTo(&payment); err != nil {
			log.Printf("Error decoding payment data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		payment.ID = doc.Ref.ID
		payments = append(payments, &payment)
	}

	return payments, nil
}
