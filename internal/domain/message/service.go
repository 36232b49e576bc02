package message

import "context"

// Service defines the interface for message business logic.
// The project must belong to the calling user.
type Service interface {
	// Create appends a message to a project's history
	Create(ctx context.Context, userID, projectID int64, role, content string) (*Message, error)

	// List lists a project's messages in chronological order
	List(ctx context.Context, userID, projectID int64, limit, offset int) ([]*Message, int64, error)
}
