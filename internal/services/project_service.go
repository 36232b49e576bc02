package services

import (
	"context"

	"github.com/devforge/codelab/internal/domain/message"
	"github.com/devforge/codelab/internal/domain/project"
	"github.com/devforge/codelab/internal/domain/user"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/logger"
)

// ProjectService implements project.Service
type ProjectService struct {
	projects project.Repository
	messages message.Repository
	users    user.Repository
	logger   *logger.Logger
}

// NewProjectService creates a new project service
func NewProjectService(projects project.Repository, messages message.Repository, users user.Repository, log *logger.Logger) project.Service {
	return &ProjectService{
		projects: projects,
		messages: messages,
		users:    users,
		logger:   log,
	}
}

// Create creates a project and bumps the owner's usage counter. The
// entitlement gate checks the counter before the request gets here.
func (s *ProjectService) Create(ctx context.Context, userID int64, name, description, language string) (*project.Project, error) {
	p := &project.Project{
		UserID:      userID,
		Name:        name,
		Description: description,
		Language:    language,
	}

	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}

	if u, err := s.users.GetByID(ctx, userID); err == nil {
		var lastRequestAt *int64
		if u.LastRequestAt != nil {
			ts := u.LastRequestAt.Unix()
			lastRequestAt = &ts
		}
		if err := s.users.UpdateUsage(ctx, userID, u.ProjectsCreated+1, u.TotalRequests, lastRequestAt); err != nil {
			s.logger.ErrorWithErr(err, "Failed to bump projects counter")
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":    userID,
		"project_id": p.ID,
	}).Info("Project created")

	return p, nil
}

// GetByID retrieves an owned project
func (s *ProjectService) GetByID(ctx context.Context, userID, id int64) (*project.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		// Do not leak existence of other users' projects
		return nil, errors.NotFound("Project")
	}
	return p, nil
}

// List lists the user's projects with pagination
func (s *ProjectService) List(ctx context.Context, userID int64, limit, offset int) ([]*project.Project, int64, error) {
	return s.projects.ListByUser(ctx, userID, limit, offset)
}

// Update updates an owned project
func (s *ProjectService) Update(ctx context.Context, userID, id int64, name, description, language string) (*project.Project, error) {
	p, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		p.Name = name
	}
	p.Description = description
	if language != "" {
		p.Language = language
	}

	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete deletes an owned project and its chat history
func (s *ProjectService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.GetByID(ctx, userID, id); err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.messages.DeleteByProject(ctx, id); err != nil {
		// Orphaned rows are unreachable through the API; log and move on
		s.logger.ErrorWithErr(err, "Failed to delete project history")
	}
	return nil
}
