package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/devforge/codelab/internal/domain/project"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/metrics"
)

// ProjectRepository implements project.Repository
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) project.Repository {
	return &ProjectRepository{db: db}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO projects (user_id, name, description, language, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	start := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		p.UserID, p.Name, p.Description, p.Language, now.Unix(), now.Unix(),
	)
	metrics.RecordDBQuery("insert", "projects", time.Since(start))
	if err != nil {
		return errors.DatabaseError("Failed to create project", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get project ID", err)
	}

	p.ID = id
	return nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*project.Project, error) {
	query := `
		SELECT id, user_id, name, description, language, created_at, updated_at
		FROM projects WHERE id = ?
	`

	var p project.Project
	var description, language sql.NullString
	var createdAt, updatedAt int64

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.Name, &description, &language, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Project")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get project", err)
	}

	p.Description = description.String
	p.Language = language.String
	p.CreatedAt = time.Unix(createdAt, 0)
	p.UpdatedAt = time.Unix(updatedAt, 0)

	return &p, nil
}

// ListByUser lists a user's projects with pagination
func (r *ProjectRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*project.Project, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects WHERE user_id = ?", userID).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count projects", err)
	}

	query := `
		SELECT id, user_id, name, description, language, created_at, updated_at
		FROM projects WHERE user_id = ?
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list projects", err)
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		var p project.Project
		var description, language sql.NullString
		var createdAt, updatedAt int64

		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &description, &language, &createdAt, &updatedAt); err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan project", err)
		}

		p.Description = description.String
		p.Language = language.String
		p.CreatedAt = time.Unix(createdAt, 0)
		p.UpdatedAt = time.Unix(updatedAt, 0)

		projects = append(projects, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to iterate projects", err)
	}

	return projects, total, nil
}

// Update updates a project
func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) error {
	p.UpdatedAt = time.Now()

	query := `
		UPDATE projects
		SET name = ?, description = ?, language = ?, updated_at = ?
		WHERE id = ?
	`

	start := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		p.Name, p.Description, p.Language, p.UpdatedAt.Unix(), p.ID,
	)
	metrics.RecordDBQuery("update", "projects", time.Since(start))
	if err != nil {
		return errors.DatabaseError("Failed to update project", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Project")
	}

	return nil
}

// Delete deletes a project
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete project", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Project")
	}

	return nil
}
