package client

import (
	"context"
	"fmt"
)

// ProjectService handles project management operations
type ProjectService struct {
	client *Client
}

// CreateProjectRequest represents a project creation request
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
}

// UpdateProjectRequest represents a project update request
type UpdateProjectRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
}

// Create creates a project
func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	var p Project
	if err := s.client.doRequest(ctx, "POST", "/api/projects", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// List lists the current user's projects
func (s *ProjectService) List(ctx context.Context, page, pageSize int) (*Page[Project], error) {
	var result Page[Project]
	if err := s.client.doRequest(ctx, "GET", pagePath("/api/projects", page, pageSize), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get retrieves a project by ID
func (s *ProjectService) Get(ctx context.Context, id int64) (*Project, error) {
	var p Project
	if err := s.client.doRequest(ctx, "GET", fmt.Sprintf("/api/projects/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update updates a project
func (s *ProjectService) Update(ctx context.Context, id int64, req UpdateProjectRequest) (*Project, error) {
	var p Project
	if err := s.client.doRequest(ctx, "PUT", fmt.Sprintf("/api/projects/%d", id), req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete deletes a project
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	return s.client.doRequest(ctx, "DELETE", fmt.Sprintf("/api/projects/%d", id), nil, nil)
}

// MessageService handles project chat history
type MessageService struct {
	client *Client
}

// CreateMessageRequest appends a message to a project's history
type CreateMessageRequest struct {
	ProjectID int64  `json:"project_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
}

// Create appends a message to a project's history
func (s *MessageService) Create(ctx context.Context, req CreateMessageRequest) (*Message, error) {
	var m Message
	if err := s.client.doRequest(ctx, "POST", "/api/messages", req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByProject lists a project's messages in chronological order
func (s *MessageService) ListByProject(ctx context.Context, projectID int64, page, pageSize int) (*Page[Message], error) {
	path := pagePath(fmt.Sprintf("/api/projects/%d/messages", projectID), page, pageSize)

	var result Page[Message]
	if err := s.client.doRequest(ctx, "GET", path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AIService handles code generation
type AIService struct {
	client *Client
}

// GenerateRequest asks for an AI completion
type GenerateRequest struct {
	Prompt    string `json:"prompt"`
	Language  string `json:"language,omitempty"`
	ProjectID int64  `json:"project_id,omitempty"`
}

// Generate produces a completion for the prompt
func (s *AIService) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	var resp struct {
		Content string `json:"content"`
	}
	if err := s.client.doRequest(ctx, "POST", "/api/ai/generate", req, &resp); err != nil {
		return "", err
	}
	return resp.Content, nil
}
