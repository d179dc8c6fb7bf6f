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
	postsCollection    = "posts"
	commentsCollection = "comments"
)

// firestorePostRepository implements PostRepository using Firestore. Posts live
// under their platform document; comments in a subcollection under each post.
type firestorePostRepository struct {
	client *firestore.Client
}

// NewFirestorePostRepository creates a new instance of firestorePostRepository.
func NewFirestorePostRepository(client *firestore.Client) PostRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for PostRepository.")
	}
	return &firestorePostRepository{client: client}
}

func (r *firestorePostRepository) collection(platformID string) *firestore.CollectionRef {
	return r.client.Collection(platformsCollection).Doc(platformID).Collection(postsCollection)
}

// Create adds a new post document with an auto-generated ID.
func (r *firestorePostRepository) Create(ctx context.Context, platformID string, post *models.Post) (string, error) {
	if platformID == "" {
		return "", errors.New("platformID cannot be empty for Create operation")
	}
	docRef := r.collection(platformID).NewDoc()
	post.ID = docRef.ID
	post.PlatformID = platformID

	if _, err := docRef.Create(ctx, post); err != nil {
		return "", fmt.Errorf("failed to create post on platform '%s': %w", platformID, err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a post document by its ID.
func (r *firestorePostRepository) GetByID(ctx context.Context, platformID, postID string) (*models.Post, error) {
	if platformID == "" || postID == "" {
		return nil, errors.New("platformID and postID are required for GetByID operation")
	}
	docSnap, err := r.collection(platformID).Doc(postID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("post with ID '%s' not found: %w", postID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post with ID '%s': %w", postID, err)
	}

	var post models.Post
	if err := docSnap.DataTo(&post); err != nil {
		return nil, fmt.Errorf("failed to decode post data for ID '%s': %w", postID, err)
	}
	post.ID = docSnap.Ref.ID
	post.PlatformID = platformID

	return &post, nil
}

// List retrieves feed posts, newest first. Options narrow to a community's
// posts or to pinned posts only (the paywall-lite subset).
func (r *firestorePostRepository) List(ctx context.Context, platformID string, opts PostListOptions) ([]*models.Post, error) {
	if platformID == "" {
		return nil, errors.New("platformID cannot be empty for List operation")
	}

	query := r.collection(platformID).Query
	if opts.CommunityID != "" {
		query = query.Where("communityId", "==", opts.CommunityID)
	}
	if opts.PinnedOnly {
		query = query.Where("pinned", "==", true)
	}
	query = query.OrderBy("createdAt", firestore.Desc)
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var posts []*models.Post
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate posts of platform '%s': %w", platformID, err)
		}

		var post models.Post
		if err := doc.DataTo(&post); err != nil {
			log.Printf("Error decoding post data (ID: %s) on platform '%s': %v. Skipping.", doc.Ref.ID, platformID, err)
			continue
		}
		post.ID = doc.Ref.ID
		post.PlatformID = platformID
		posts = append(posts, &post)
	}

	return posts, nil
}

// Update merges the given post state into the existing document.
func (r *firestorePostRepository) Update(ctx context.Context, platformID string, post *models.Post) error {
	if platformID == "" || post.ID == "" {
		return errors.New("platformID and post ID are required for Update operation")
	}
	_, err := r.collection(platformID).Doc(post.ID).Set(ctx, post, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update post with ID '%s': %w", post.ID, err)
	}
	return nil
}

// Delete removes a post document. Its comments subcollection is left to
// Firestore TTL/cleanup; the UI never lists comments of a deleted post.
func (r *firestorePostRepository) Delete(ctx context.Context, platformID, postID string) error {
	if platformID == "" || postID == "" {
		return errors.New("platformID and postID are required for Delete operation")
	}
	_, err := r.collection(platformID).Doc(postID).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("post with ID '%s' not found for deletion: %w", postID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete post with ID '%s': %w", postID, err)
	}
	return nil
}

// SetPinned flips the pinned flag on a post.
func (r *firestorePostRepository) SetPinned(ctx context.Context, platformID, postID string, pinned bool) error {
	if platformID == "" || postID == "" {
		return errors.New("platformID and postID are required for SetPinned operation")
	}
	_, err := r.collection(platformID).Doc(postID).Update(ctx, []firestore.Update{
		{Path: "pinned", Value: pinned},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("post with ID '%s' not found for pinning: %w", postID, ErrNotFound)
		}
		return fmt.Errorf("failed to set pinned on post with ID '%s': %w", postID, err)
	}
	return nil
}

// IncrementLikes adjusts the like counter with an atomic increment.
func (r *firestorePostRepository) IncrementLikes(ctx context.Context, platformID, postID string, delta int) error {
	if platformID == "" || postID == "" {
		return errors.New("platformID and postID are required for IncrementLikes operation")
	}
	_, err := r.collection(platformID).Doc(postID).Update(ctx, []firestore.Update{
		{Path: "likes", Value: firestore.Increment(delta)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("post with ID '%s' not found for like increment: %w", postID, ErrNotFound)
		}
		return fmt.Errorf("failed to increment likes on post with ID '%s': %w", postID, err)
	}
	return nil
}

// CreateComment adds a comment under a post and bumps the comment counter with
// an atomic increment. The two writes are separate calls; the counter is a
// display hint, not a source of truth.
func (r *firestorePostRepository) CreateComment(ctx context.Context, platformID, postID string, comment *models.Comment) (string, error) {
	if platformID == "" || postID == "" {
		return "", errors.New("platformID and postID are required for CreateComment operation")
	}
	postRef := r.collection(platformID).Doc(postID)
	docRef := postRef.Collection(commentsCollection).NewDoc()
	comment.ID = docRef.ID

	if _, err := docRef.Create(ctx, comment); err != nil {
		return "", fmt.Errorf("failed to create comment on post '%s': %w", postID, err)
	}

	if _, err := postRef.Update(ctx, []firestore.Update{
		{Path: "comments", Value: firestore.Increment(1)},
	}); err != nil {
		log.Printf("Warning: failed to increment comment counter on post '%s': %v", postID, err)
	}

	return docRef.ID, nil
}

// ListComments retrieves comments of a post, oldest first.
func (r *firestorePostRepository) ListComments(ctx context.Context, platformID, postID string, limit int) ([]*models.Comment, error) {
	if platformID == "" || postID == "" {
		return nil, errors.New("platformID and postID are required for ListComments operation")
	}

	query := r.collection(platformID).Doc(postID).Collection(commentsCollection).
		OrderBy("createdAt", firestore.Asc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var comments []*models.Comment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate comments of post '%s': %w", postID, err)
		}

		var comment models.Comment
		if err := doc.DataTo(&comment); err != nil {
			log.Printf("Error decoding comment data (ID: %s) on post '%s': %v. Skipping.", doc.Ref.ID, postID, err)
			continue
		}
		comment.ID = doc.Ref.ID
		comments = append(comments, &comment)
	}

	return comments, nil
}
