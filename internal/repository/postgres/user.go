package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/devforge/codelab/internal/domain/user"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/metrics"
)

const userColumns = `id, email, name, password_hash, email_verified, otp_code, otp_expires_at,
	subscription_id, projects_created, total_requests, last_request_at, created_at, updated_at`

// UserRepository implements user.Repository
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) user.Repository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	query := `
		INSERT INTO users (email, name, password_hash, email_verified, otp_code, otp_expires_at,
			subscription_id, projects_created, total_requests, last_request_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	start := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		u.Email, u.Name, u.PasswordHash, u.EmailVerified,
		nullString(u.OTPCode), nullUnix(u.OTPExpiresAt),
		nullInt64(u.SubscriptionID), u.ProjectsCreated, u.TotalRequests, nullUnix(u.LastRequestAt),
		now.Unix(), now.Unix(),
	)
	metrics.RecordDBQuery("insert", "users", time.Since(start))
	if err != nil {
		return errors.DatabaseError("Failed to create user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get user ID", err)
	}

	u.ID = id
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// Update updates a user
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now()

	query := `
		UPDATE users
		SET email = ?, name = ?, password_hash = ?, email_verified = ?, otp_code = ?,
			otp_expires_at = ?, subscription_id = ?, projects_created = ?, total_requests = ?,
			last_request_at = ?, updated_at = ?
		WHERE id = ?
	`

	start := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		u.Email, u.Name, u.PasswordHash, u.EmailVerified,
		nullString(u.OTPCode), nullUnix(u.OTPExpiresAt),
		nullInt64(u.SubscriptionID), u.ProjectsCreated, u.TotalRequests, nullUnix(u.LastRequestAt),
		u.UpdatedAt.Unix(), u.ID,
	)
	metrics.RecordDBQuery("update", "users", time.Since(start))
	if err != nil {
		return errors.DatabaseError("Failed to update user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("User")
	}

	return nil
}

// UpdateUsage persists the gate's usage counters without touching the rest
// of the row, keeping the hot path to a single narrow write.
func (r *UserRepository) UpdateUsage(ctx context.Context, id int64, projectsCreated, totalRequests int, lastRequestAt *int64) error {
	query := `
		UPDATE users
		SET projects_created = ?, total_requests = ?, last_request_at = ?, updated_at = ?
		WHERE id = ?
	`

	start := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		projectsCreated, totalRequests, lastRequestAt, time.Now().Unix(), id,
	)
	metrics.RecordDBQuery("update", "users", time.Since(start))
	if err != nil {
		return errors.DatabaseError("Failed to update usage counters", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("User")
	}

	return nil
}

// Delete deletes a user
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("User")
	}

	return nil
}

// List retrieves all users with pagination
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count users", err)
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY id DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list users", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan user", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to iterate users", err)
	}

	return users, total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *UserRepository) scanOne(row *sql.Row) (*user.User, error) {
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get user", err)
	}
	return u, nil
}

func scanUser(row rowScanner) (*user.User, error) {
	var u user.User
	var name, otpCode sql.NullString
	var otpExpiresAt, subscriptionID, lastRequestAt sql.NullInt64
	var createdAt, updatedAt int64

	err := row.Scan(
		&u.ID, &u.Email, &name, &u.PasswordHash, &u.EmailVerified, &otpCode, &otpExpiresAt,
		&subscriptionID, &u.ProjectsCreated, &u.TotalRequests, &lastRequestAt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if name.Valid {
		u.Name = name.String
	}
	if otpCode.Valid {
		u.OTPCode = &otpCode.String
	}
	if otpExpiresAt.Valid {
		t := time.Unix(otpExpiresAt.Int64, 0)
		u.OTPExpiresAt = &t
	}
	if subscriptionID.Valid {
		u.SubscriptionID = &subscriptionID.Int64
	}
	if lastRequestAt.Valid {
		t := time.Unix(lastRequestAt.Int64, 0)
		u.LastRequestAt = &t
	}
	u.CreatedAt = time.Unix(createdAt, 0)
	u.UpdatedAt = time.Unix(updatedAt, 0)

	return &u, nil
}

func nullString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func nullInt64(i *int64) interface{} {
	if i == nil {
		return nil
	}
	return *i
}

func nullUnix(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Unix()
}
