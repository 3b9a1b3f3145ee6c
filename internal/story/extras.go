package story

import (
	"context"
	"fmt"
	"strings"

	"repo-storyteller/internal/database"
	apperrors "repo-storyteller/internal/errors"
	"repo-storyteller/internal/llm"
)

type EasterEggResult struct {
	Context     string   `json:"context"`
	Personality string   `json:"personality"`
	Language    string   `json:"code_language"`
	EasterEggs  []string `json:"easter_eggs"`
	Emojis      []string `json:"emojis"`
}

// EasterEggs mixes local duck lines with one model-written line for the given context.
func (e *Engine) EasterEggs(ctx context.Context, codeContext, personalityName, language string) (*EasterEggResult, error) {
	if strings.TrimSpace(codeContext) == "" {
		return nil, apperrors.Missing("context")
	}
	if strings.TrimSpace(personalityName) == "" {
		return nil, apperrors.Missing("personality")
	}
	p := e.catalog.Resolve(personalityName)
	if language == "" {
		language = "code"
	}

	line, err := e.llm.Complete(ctx, llm.Request{
		System: fmt.Sprintf("You are %s. Generate 3-5 duck-themed easter eggs and programming puns for the given context. "+
			"Be creative and use duck/water/pond metaphors with coding concepts.", p.Name),
		Prompt: fmt.Sprintf("Generate easter eggs for: %s in %s. Personality traits: %s",
			codeContext, language, strings.Join(p.Traits, ", ")),
	})
	if err != nil {
		return nil, apperrors.Upstream("inference", "generate easter eggs", err)
	}

	return &EasterEggResult{
		Context:     codeContext,
		Personality: p.Name,
		Language:    language,
		EasterEggs: []string{
			"🦆 " + e.catchphrase(p),
			fmt.Sprintf("Swimming through %s like a duck in water!", language),
			"Quack! Time to debug this pond of code",
			line,
		},
		Emojis: p.EmojiSet,
	}, nil
}

type PersonalityWithAssets struct {
	database.Personality
	Assets []database.Asset `json:"assets,omitempty"`
}

// ListPersonalities returns the stored catalog, optionally with each personality's assets.
func (e *Engine) ListPersonalities(ctx context.Context, includeAssets bool) ([]PersonalityWithAssets, error) {
	ps, err := e.store.ListPersonalities(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PersonalityWithAssets, 0, len(ps))
	for _, p := range ps {
		item := PersonalityWithAssets{Personality: p}
		if includeAssets {
			assets, err := e.store.ListAssetsByPersonality(ctx, p.ID)
			if err != nil {
				return nil, fmt.Errorf("list assets of %q: %w", p.Name, err)
			}
			item.Assets = assets
		}
		out = append(out, item)
	}
	return out, nil
}
