package user

import "context"

// Service defines the interface for user business logic
type Service interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// UpdateProfile updates mutable profile fields
	UpdateProfile(ctx context.Context, id int64, name string) (*User, error)

	// VerifyPassword checks a plaintext password against the stored hash
	VerifyPassword(ctx context.Context, id int64, password string) (bool, error)

	// ChangePassword rotates the password after verifying the current one
	ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error

	// Delete removes the account
	Delete(ctx context.Context, id int64) error

	// List retrieves users with pagination
	List(ctx context.Context, limit, offset int) ([]*User, int64, error)
}
