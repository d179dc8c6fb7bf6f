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

const (
	threadsCollection = "threads"
	repliesCollection = "replies"
)

// firestoreForumRepository implements ForumRepository using Firestore.
type firestoreForumRepository struct {
	client *firestore.Client
}

// NewFirestoreForumRepository creates a new instance of firestoreForumRepository.
func NewFirestoreForumRepository(client *firestore.Client) ForumRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ForumRepository.")
	}
	return &firestoreForumRepository{client: client}
}

func (r *firestoreForumRepository) collection(platformID string) *firestore.CollectionRef {
	return r.client.Collection(platformsCollection).Doc(platformID).Collection(threadsCollection)
}

// CreateThread adds a new thread document with an auto-generated ID.
func (r *firestoreForumRepository) CreateThread(ctx context.Context, platformID string, thread *models.ForumThread) (string, error) {
	if platformID == "" {
		return "", errors.New("platformID cannot be empty for CreateThread operation")
	}
	docRef := r.collection(platformID).NewDoc()
	thread.ID = docRef.ID
	thread.PlatformID = platformID

	if _, err := docRef.Create(ctx, thread); err != nil {
		return "", fmt.Errorf("failed to create thread on platform '%s': %w", platformID, err)
	}
	return docRef.ID, nil
}

// GetThread retrieves a thread document by its ID.
func (r *firestoreForumRepository) GetThread(ctx context.Context, platformID, threadID string) (*models.ForumThread, error) {
	if platformID == "" || threadID == "" {
		return nil, errors.New("platformID and threadID are required for GetThread operation")
	}
	docSnap, err := r.collection(platformID).Doc(threadID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("thread with ID '%s' not found: %w", threadID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get thread with ID '%s': %w", threadID, err)
	}

	var thread models.ForumThread
	if err := docSnap.DataTo(&thread); err != nil {
		return nil, fmt.Errorf("failed to decode thread data for ID '%s': %w", threadID, err)
	}
	thread.ID = docSnap.Ref.ID
	thread.PlatformID = platformID

	return &thread, nil
}

// ListThreads retrieves threads of a platform, newest first.
func (r *firestoreForumRepository) ListThreads(ctx context.Context, platformID string, limit int) ([]*models.ForumThread, error) {
	if platformID == "" {
		return nil, errors.New("platformID cannot be empty for ListThreads operation")
	}

	query := r.collection(platformID).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var threads []*models.ForumThread
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate threads of platform '%s': %w", platformID, err)
		}

		var thread models.ForumThread
		if err := doc.DataTo(&thread); err != nil {
			log.Printf("Error decoding thread data (ID: %s) on platform '%s': %v. Skipping.", doc.Ref.ID, platformID, err)
			continue
		}
		thread.ID = doc.Ref.ID
		thread.PlatformID = platformID
		threads = append(threads, &thread)
	}

	return threads, nil
}

// CreateReply adds a reply under a thread and bumps the reply counter with an
// atomic increment.
func (r *firestoreForumRepository) CreateReply(ctx context.Context, platformID, threadID string, reply *models.ForumReply) (string, error) {
	if platformID == "" || threadID == "" {
		return "", errors.New("platformID and threadID are required for CreateReply operation")
	}
	threadRef := r.collection(platformID).Doc(threadID)
	docRef := threadRef.Collection(repliesCollection).NewDoc()
	reply.ID = docRef.ID

	if _, err := docRef.Create(ctx, reply); err != nil {
		return "", fmt.Errorf("failed to create reply on thread '%s': %w", threadID, err)
	}

	if _, err := threadRef.Update(ctx, []firestore.Update{
		{Path: "replies", Value: firestore.Increment(1)},
	}); err != nil {
		log.Printf("Warning: failed to increment reply counter on thread '%s': %v", threadID, err)
	}

	return docRef.ID, nil
}

// ListReplies retrieves replies of a thread, oldest first.
func (r *firestoreForumRepository) ListReplies(ctx context.Context, platformID, threadID string, limit int) ([]*models.ForumReply, error) {
	if platformID == "" || threadID == "" {
		return nil, errors.New("platformID and threadID are required for ListReplies operation")
	}

	query := r.collection(platformID).Doc(threadID).Collection(repliesCollection).
		OrderBy("createdAt", firestore.Asc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var replies []*models.ForumReply
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate replies of thread '%s': %w", threadID, err)
		}

		var reply models.ForumReply
		if err := doc.DataTo(&reply); err != nil {
			log.Printf("Error decoding reply data (ID: %s) on thread '%s': %v. Skipping.", doc.Ref.ID, threadID, err)
			continue
		}
		reply.ID = doc.Ref.ID
		replies = append(replies, &reply)
	}

	return replies, nil
}
