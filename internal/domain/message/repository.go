package message

import "context"

// Repository defines the interface for message data access
type Repository interface {
	// Create appends a message
	Create(ctx context.Context, m *Message) error

	// ListByProject lists a project's messages in chronological order
	ListByProject(ctx context.Context, projectID int64, limit, offset int) ([]*Message, int64, error)

	// DeleteByProject removes a project's history
	DeleteByProject(ctx context.Context, projectID int64) error
}
