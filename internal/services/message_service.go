package services

import (
	"context"

	"github.com/devforge/codelab/internal/domain/message"
	"github.com/devforge/codelab/internal/domain/project"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/logger"
)

// MessageService implements message.Service
type MessageService struct {
	messages message.Repository
	projects project.Repository
	logger   *logger.Logger
}

// NewMessageService creates a new message service
func NewMessageService(messages message.Repository, projects project.Repository, log *logger.Logger) message.Service {
	return &MessageService{
		messages: messages,
		projects: projects,
		logger:   log,
	}
}

// Create appends a message to a project's history
func (s *MessageService) Create(ctx context.Context, userID, projectID int64, role, content string) (*message.Message, error) {
	if err := s.checkOwnership(ctx, userID, projectID); err != nil {
		return nil, err
	}

	if role != message.RoleUser && role != message.RoleAssistant {
		return nil, errors.BadRequest("Role must be user or assistant")
	}

	m := &message.Message{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		Content:   content,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// List lists a project's messages in chronological order
func (s *MessageService) List(ctx context.Context, userID, projectID int64, limit, offset int) ([]*message.Message, int64, error) {
	if err := s.checkOwnership(ctx, userID, projectID); err != nil {
		return nil, 0, err
	}
	return s.messages.ListByProject(ctx, projectID, limit, offset)
}

func (s *MessageService) checkOwnership(ctx context.Context, userID, projectID int64) error {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return errors.NotFound("Project")
	}
	return nil
}
