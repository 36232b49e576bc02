package project

import "context"

// Repository defines the interface for project data access
type Repository interface {
	// Create creates a new project
	Create(ctx context.Context, p *Project) error

	// GetByID retrieves a project by ID
	GetByID(ctx context.Context, id int64) (*Project, error)

	// ListByUser lists a user's projects with pagination
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*Project, int64, error)

	// Update updates a project
	Update(ctx context.Context, p *Project) error

	// Delete deletes a project
	Delete(ctx context.Context, id int64) error
}
