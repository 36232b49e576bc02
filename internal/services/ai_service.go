package services

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/devforge/codelab/internal/config"
	"github.com/devforge/codelab/internal/domain/message"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/pkg/metrics"
)

// AIService generates code from prompts. Without an API key it answers
// with a deterministic stub so the rest of the stack stays exercisable.
type AIService struct {
	client   *openai.Client
	model    string
	messages message.Service
	logger   *logger.Logger
}

// NewAIService creates a new AI service
func NewAIService(cfg config.OpenAIConfig, messages message.Service, log *logger.Logger) *AIService {
	var client *openai.Client
	if cfg.APIKey != "" {
		client = openai.NewClient(cfg.APIKey)
	}
	return &AIService{
		client:   client,
		model:    cfg.Model,
		messages: messages,
		logger:   log,
	}
}

// Generate produces a completion for the prompt. When projectID is set the
// exchange is appended to that project's chat history.
func (s *AIService) Generate(ctx context.Context, userID int64, prompt, language string, projectID int64) (string, error) {
	if prompt == "" {
		return "", errors.BadRequest("Prompt is required")
	}

	reply, err := s.complete(ctx, prompt, language)
	if err != nil {
		metrics.RecordAIGeneration("error")
		return "", err
	}
	metrics.RecordAIGeneration("success")

	if projectID > 0 && s.messages != nil {
		if _, err := s.messages.Create(ctx, userID, projectID, message.RoleUser, prompt); err != nil {
			s.logger.ErrorWithErr(err, "Failed to persist prompt")
		} else if _, err := s.messages.Create(ctx, userID, projectID, message.RoleAssistant, reply); err != nil {
			s.logger.ErrorWithErr(err, "Failed to persist reply")
		}
	}

	return reply, nil
}

func (s *AIService) complete(ctx context.Context, prompt, language string) (string, error) {
	if s.client == nil {
		return stubCompletion(prompt, language), nil
	}

	system := "You are a coding assistant. Answer with code and short explanations."
	if language != "" {
		system = fmt.Sprintf("You are a %s coding assistant. Answer with %s code and short explanations.", language, language)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: 1024,
	})
	if err != nil {
		s.logger.ErrorWithErr(err, "Completion request failed")
		return "", errors.ServiceUnavailable("AI generation is temporarily unavailable")
	}
	if len(resp.Choices) == 0 {
		return "", errors.ServiceUnavailable("AI generation returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func stubCompletion(prompt, language string) string {
	if language == "" {
		language = "plaintext"
	}
	return fmt.Sprintf("// AI generation is not configured.\n// Prompt (%s): %s\n", language, prompt)
}
