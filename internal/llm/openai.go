package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"nfagent/config"
)

// OpenAIClient talks to the OpenAI chat completion API.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAIClient creates the OpenAI client from the loaded config.
// The API key comes from the OPENAI_API_KEY environment variable.
func NewOpenAIClient() (*OpenAIClient, error) {
	cfg := config.AppConfig.OpenAI
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY não encontrada no ambiente")
	}

	logrus.Infof("Using OpenAI model: %s", cfg.Model)

	return &OpenAIClient{
		client:      openai.NewClient(cfg.APIKey),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Request sends one chat completion request.
func (c *OpenAIClient) Request(ctx context.Context, systemMessage, userPrompt string) (string, error) {
	userPrompt = truncatePrompt(userPrompt)
	logrus.Debugf("Sending prompt of %d characters to OpenAI", len(userPrompt))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("erro na chamada à API da OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("resposta vazia da API da OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string {
	return c.model
}

// IsQuotaError reports whether err is an API quota/rate-limit error, the
// one failure mode answered with a canned response instead of an error.
func IsQuotaError(err error) bool {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	if code, ok := apiErr.Code.(string); ok && code == "insufficient_quota" {
		return true
	}
	return false
}
