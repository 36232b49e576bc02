package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/devforge/codelab/internal/domain/message"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/metrics"
)

// MessageRepository implements message.Repository
type MessageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *sql.DB) message.Repository {
	return &MessageRepository{db: db}
}

// Create appends a message
func (r *MessageRepository) Create(ctx context.Context, m *message.Message) error {
	m.CreatedAt = time.Now()

	query := `
		INSERT INTO messages (project_id, user_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	start := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		m.ProjectID, m.UserID, m.Role, m.Content, m.CreatedAt.Unix(),
	)
	metrics.RecordDBQuery("insert", "messages", time.Since(start))
	if err != nil {
		return errors.DatabaseError("Failed to create message", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.DatabaseError("Failed to get message ID", err)
	}

	m.ID = id
	return nil
}

// ListByProject lists a project's messages in chronological order
func (r *MessageRepository) ListByProject(ctx context.Context, projectID int64, limit, offset int) ([]*message.Message, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages WHERE project_id = ?", projectID).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count messages", err)
	}

	query := `
		SELECT id, project_id, user_id, role, content, created_at
		FROM messages WHERE project_id = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, projectID, limit, offset)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list messages", err)
	}
	defer rows.Close()

	var messages []*message.Message
	for rows.Next() {
		var m message.Message
		var createdAt int64

		if err := rows.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Role, &m.Content, &createdAt); err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan message", err)
		}

		m.CreatedAt = time.Unix(createdAt, 0)
		messages = append(messages, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to iterate messages", err)
	}

	return messages, total, nil
}

// DeleteByProject removes a project's history
func (r *MessageRepository) DeleteByProject(ctx context.Context, projectID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE project_id = ?`, projectID)
	if err != nil {
		return errors.DatabaseError("Failed to delete messages", err)
	}
	return nil
}
