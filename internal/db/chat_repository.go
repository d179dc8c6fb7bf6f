package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"commonroom-backend-go/internal/models"
)

const chatCollection = "chat"

// firestoreChatRepository implements ChatRepository using Firestore. The Listen
// method wraps Firestore's snapshot listener, the same real-time primitive the
// web client uses for chat and typing indicators.
type firestoreChatRepository struct {
	client *firestore.Client
}

// NewFirestoreChatRepository creates a new instance of firestoreChatRepository.
func NewFirestoreChatRepository(client *firestore.Client) ChatRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ChatRepository.")
	}
	return &firestoreChatRepository{client: client}
}

func (r *firestoreChatRepository) collection(platformID string) *firestore.CollectionRef {
	return r.client.Collection(platformsCollection).Doc(platformID).Collection(chatCollection)
}

// Create adds a new chat message with an auto-generated ID.
func (r *firestoreChatRepository) Create(ctx context.Context, platformID string, msg *models.ChatMessage) (string, error) {
	if platformID == "" {
		return "", errors.New("platformID cannot be empty for Create operation")
	}
	docRef := r.collection(platformID).NewDoc()
	msg.ID = docRef.ID
	msg.PlatformID = platformID

	if _, err := docRef.Create(ctx, msg); err != nil {
		return "", fmt.Errorf("failed to create chat message on platform '%s': %w", platformID, err)
	}
	return docRef.ID, nil
}

// ListRecent retrieves the most recent chat messages, oldest of the window
// first so clients can render top-down.
func (r *firestoreChatRepository) ListRecent(ctx context.Context, platformID string, limit int) ([]*models.ChatMessage, error) {
	if platformID == "" {
		return nil, errors.New("platformID cannot be empty for ListRecent operation")
	}
	if limit <= 0 {
		limit = 50
	}

	iter := r.collection(platformID).OrderBy("createdAt", firestore.Desc).Limit(limit).Documents(ctx)
	defer iter.Stop()

	var messages []*models.ChatMessage
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate chat messages of platform '%s': %w", platformID, err)
		}

		var msg models.ChatMessage
		if err := doc.DataTo(&msg); err != nil {
			log.Printf("Error decoding chat message (ID: %s) on platform '%s': %v. Skipping.", doc.Ref.ID, platformID, err)
			continue
		}
		msg.ID = doc.Ref.ID
		msg.PlatformID = platformID
		messages = append(messages, &msg)
	}

	// Reverse into chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// Listen streams newly added chat messages until ctx is cancelled. The
// returned channel is closed when the listener stops.
func (r *firestoreChatRepository) Listen(ctx context.Context, platformID string) (<-chan *models.ChatMessage, error) {
	if platformID == "" {
		return nil, errors.New("platformID cannot be empty for Listen operation")
	}

	out := make(chan *models.ChatMessage, 16)
	snapIter := r.collection(platformID).OrderBy("createdAt", firestore.Asc).Snapshots(ctx)

	go func() {
		defer close(out)
		defer snapIter.Stop()

		first := true
		for {
			snap, err := snapIter.Next()
			if err != nil {
				// Cancellation is the normal exit path for a listener.
				if ctx.Err() == nil {
					log.Printf("Chat listener for platform '%s' stopped: %v", platformID, err)
				}
				return
			}
			for _, change := range snap.Changes {
				if change.Kind != firestore.DocumentAdded {
					continue
				}
				// The first snapshot replays the whole collection; clients get
				// history via ListRecent instead.
				if first {
					continue
				}
				var msg models.ChatMessage
				if err := change.Doc.DataTo(&msg); err != nil {
					log.Printf("Error decoding streamed chat message (ID: %s): %v. Skipping.", change.Doc.Ref.ID, err)
					continue
				}
				msg.ID = change.Doc.Ref.ID
				msg.PlatformID = platformID
				select {
				case out <- &msg:
				case <-ctx.Done():
					return
				}
			}
			first = false
		}
	}()

	return out, nil
}
