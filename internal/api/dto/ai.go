package dto

// GenerateCodeRequest asks for an AI completion. When project_id is set
// the exchange is appended to that project's chat history.
type GenerateCodeRequest struct {
	Prompt    string `json:"prompt" validate:"required,max=4000"`
	Language  string `json:"language,omitempty" validate:"omitempty,max=50"`
	ProjectID int64  `json:"project_id,omitempty" validate:"omitempty,gt=0"`
}

// GenerateCodeResponse carries the completion
type GenerateCodeResponse struct {
	Content string `json:"content"`
}
