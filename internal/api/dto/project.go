package dto

import (
	"time"

	"github.com/devforge/codelab/internal/domain/project"
)

// ProjectDTO is the public project representation
type ProjectDTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProjectDTO maps a domain project
func NewProjectDTO(p *project.Project) *ProjectDTO {
	if p == nil {
		return nil
	}
	return &ProjectDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Language:    p.Language,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewProjectDTOs maps a slice of domain projects
func NewProjectDTOs(projects []*project.Project) []*ProjectDTO {
	dtos := make([]*ProjectDTO, 0, len(projects))
	for _, p := range projects {
		dtos = append(dtos, NewProjectDTO(p))
	}
	return dtos
}

// CreateProjectRequest creates a project
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
	Language    string `json:"language,omitempty" validate:"omitempty,max=50"`
}

// UpdateProjectRequest updates a project
type UpdateProjectRequest struct {
	Name        string `json:"name,omitempty" validate:"omitempty,max=100"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
	Language    string `json:"language,omitempty" validate:"omitempty,max=50"`
}
