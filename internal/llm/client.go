// Package llm provides the language-model clients used by the agent.
package llm

import (
	"context"
	"fmt"

	"nfagent/config"
)

// Client defines the interface for LLM clients.
type Client interface {
	// Request sends one request with a system message and a user prompt
	// and returns the model's text answer.
	Request(ctx context.Context, systemMessage, userPrompt string) (string, error)

	// Model returns the model name used for requests.
	Model() string
}

// NewClient builds the client selected by llm.provider in the config:
// "openai" (default) or "ollama" for a local model.
func NewClient() (Client, error) {
	switch config.AppConfig.LLM.Provider {
	case "", "openai":
		return NewOpenAIClient()
	case "ollama":
		return NewOllamaClient()
	default:
		return nil, fmt.Errorf("provedor LLM desconhecido: %q", config.AppConfig.LLM.Provider)
	}
}

// truncatePrompt caps the user prompt at the configured prompt budget.
func truncatePrompt(prompt string) string {
	maxLen := config.AppConfig.Data.MaxPromptLength
	if maxLen > 0 && len(prompt) > maxLen {
		return prompt[:maxLen]
	}
	return prompt
}
