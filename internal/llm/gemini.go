package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type geminiProvider struct {
	client *genai.Client
	cfg    Config
}

func newGemini(ctx context.Context, cfg Config) (*geminiProvider, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	cfg.Model = orDefault(cfg.Model, "gemini-2.5-flash")
	return &geminiProvider{client: client, cfg: cfg}, nil
}

func (p *geminiProvider) Name() string { return "gemini" }

func (p *geminiProvider) Complete(ctx context.Context, req Request) (string, error) {
	gc := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(orDefault(req.MaxTokens, p.cfg.MaxTokens)),
	}
	if req.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if t := orDefault(req.Temperature, p.cfg.Temperature); t > 0 {
		gc.Temperature = genai.Ptr(t)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.cfg.Model, genai.Text(req.Prompt), gc)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return resp.Text(), nil
}
