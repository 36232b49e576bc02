package project

import "context"

// Service defines the interface for project business logic.
// All operations are scoped to the owning user; a project belonging to
// someone else behaves as if it does not exist.
type Service interface {
	// Create creates a project and bumps the owner's usage counter
	Create(ctx context.Context, userID int64, name, description, language string) (*Project, error)

	// GetByID retrieves an owned project
	GetByID(ctx context.Context, userID, id int64) (*Project, error)

	// List lists the user's projects with pagination
	List(ctx context.Context, userID int64, limit, offset int) ([]*Project, int64, error)

	// Update updates an owned project
	Update(ctx context.Context, userID, id int64, name, description, language string) (*Project, error)

	// Delete deletes an owned project
	Delete(ctx context.Context, userID, id int64) error
}
