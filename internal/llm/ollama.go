package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

type ollamaProvider struct {
	client *api.Client
	cfg    Config
}

func newOllama(cfg Config) (*ollamaProvider, error) {
	u, err := url.Parse(orDefault(cfg.BaseURL, "http://localhost:11434"))
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama base URL: %w", err)
	}
	cfg.Model = orDefault(cfg.Model, "llama3")
	return &ollamaProvider{client: api.NewClient(u, http.DefaultClient), cfg: cfg}, nil
}

func (p *ollamaProvider) Name() string { return "ollama" }

func (p *ollamaProvider) Complete(ctx context.Context, req Request) (string, error) {
	var messages []api.Message
	if req.System != "" {
		messages = append(messages, api.Message{Role: "system", Content: req.System})
	}
	messages = append(messages, api.Message{Role: "user", Content: req.Prompt})

	options := map[string]interface{}{
		"num_predict": orDefault(req.MaxTokens, p.cfg.MaxTokens),
	}
	if t := orDefault(req.Temperature, p.cfg.Temperature); t > 0 {
		options["temperature"] = t
	}

	var content strings.Builder
	err := p.client.Chat(ctx, &api.ChatRequest{
		Model:    p.cfg.Model,
		Messages: messages,
		Options:  options,
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	return content.String(), nil
}
