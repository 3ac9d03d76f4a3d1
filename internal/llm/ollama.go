package llm

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	ollama "github.com/JexSrs/go-ollama"
	"github.com/sirupsen/logrus"

	"nfagent/config"
)

// OllamaClient answers questions with a local Ollama model, for running
// the agent without an OpenAI key.
type OllamaClient struct {
	client *ollama.Ollama
	model  string
}

// NewOllamaClient creates a new client for Ollama.
func NewOllamaClient() (*OllamaClient, error) {
	host := config.AppConfig.Ollama.Host
	model := config.AppConfig.Ollama.Model

	ollamaURL, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("URL do Ollama inválida: %w", err)
	}

	client := ollama.New(*ollamaURL)

	logrus.Infof("Using Ollama client for host: %s", host)
	logrus.Infof("Using Ollama model: %s", model)

	return &OllamaClient{
		client: client,
		model:  model,
	}, nil
}

// Request sends a single generate request to Ollama.
func (c *OllamaClient) Request(ctx context.Context, systemMessage, userPrompt string) (string, error) {
	userPrompt = truncatePrompt(userPrompt)
	logrus.Debugf("Sending prompt of %d characters to Ollama", len(userPrompt))

	res, err := c.client.Generate(
		c.client.Generate.WithModel(c.model),
		c.client.Generate.WithSystem(systemMessage),
		c.client.Generate.WithPrompt(userPrompt),
	)
	if err != nil {
		return "", fmt.Errorf("erro na chamada à API do Ollama: %w", err)
	}

	if res.Done {
		if res.Response != "" {
			// Strip the ``` fences the model sometimes wraps around answers.
			return strings.TrimSpace(strings.Trim(res.Response, "```")), nil
		}
		return "", fmt.Errorf("resposta do Ollama vazia mas marcada como concluída")
	}

	return "", fmt.Errorf("requisição ao Ollama não concluída (streaming inesperado)")
}

// Model returns the configured model name.
func (c *OllamaClient) Model() string {
	return c.model
}
