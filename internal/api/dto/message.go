package dto

import (
	"time"

	"github.com/devforge/codelab/internal/domain/message"
)

// MessageDTO is the public message representation
type MessageDTO struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessageDTO maps a domain message
func NewMessageDTO(m *message.Message) *MessageDTO {
	if m == nil {
		return nil
	}
	return &MessageDTO{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// NewMessageDTOs maps a slice of domain messages
func NewMessageDTOs(messages []*message.Message) []*MessageDTO {
	dtos := make([]*MessageDTO, 0, len(messages))
	for _, m := range messages {
		dtos = append(dtos, NewMessageDTO(m))
	}
	return dtos
}

// CreateMessageRequest appends a message to a project's history
type CreateMessageRequest struct {
	ProjectID int64  `json:"project_id" validate:"required,gt=0"`
	Role      string `json:"role" validate:"required,oneof=user assistant"`
	Content   string `json:"content" validate:"required"`
}
