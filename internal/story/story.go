// Package story writes personality-driven narrative posts about a repository.
package story

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"repo-storyteller/internal/database"
	apperrors "repo-storyteller/internal/errors"
	"repo-storyteller/internal/extract"
	"repo-storyteller/internal/llm"
	"repo-storyteller/internal/model"
	"repo-storyteller/internal/personality"
)

const (
	DefaultTone      = "professional"
	contextAnalyses  = 3
	previewChars     = 200
	previewHashtags  = 5
	defaultListLimit = 10
	maxListLimit     = 100
)

var engagementHooks = []string{
	"What's your favorite debugging technique?",
	"Have you ever had a similar coding adventure?",
	"Drop a 🦆 if you've been there too!",
}

type Engine struct {
	store   database.Store
	llm     llm.Provider
	catalog *personality.Catalog
	rand    Rand
	logger  *slog.Logger
}

func New(store database.Store, provider llm.Provider, catalog *personality.Catalog, rnd Rand, logger *slog.Logger) *Engine {
	return &Engine{store: store, llm: provider, catalog: catalog, rand: rnd, logger: logger}
}

type GenerateRequest struct {
	UserID       int64
	RepositoryID int64
	StoryType    model.StoryType
	Personality  string
	Tone         string
}

type Preview struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Personality string   `json:"personality"`
	Hashtags    []string `json:"hashtags"`
}

type Result struct {
	Story   database.Story `json:"story"`
	Preview Preview        `json:"preview"`
}

// Generate writes one story with a single inference call and stores it. The body is the model
// text verbatim; easter eggs, hashtags and hooks are produced locally.
func (e *Engine) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}

	user, err := e.store.GetUserByID(ctx, req.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("user", req.UserID)
	} else if err != nil {
		return nil, err
	}
	repo, err := e.store.GetRepositoryByID(ctx, req.RepositoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("repository", req.RepositoryID)
	} else if err != nil {
		return nil, err
	}

	analyses, err := e.store.ListRecentCodeAnalyses(ctx, database.ListRecentCodeAnalysesParams{
		RepositoryID: repo.ID,
		Limit:        contextAnalyses,
	})
	if err != nil {
		return nil, fmt.Errorf("load analysis context: %w", err)
	}

	p := e.catalog.Resolve(req.Personality)
	logger := e.logger.With("username", user.Username, "repo", repo.FullName, "personality", p.Name)

	body, err := e.llm.Complete(ctx, llm.Request{
		System: fmt.Sprintf("You are %s, a duck-themed coding storyteller. Create engaging LinkedIn posts about coding journeys. "+
			"Use duck puns, programming humor, and the personality traits: %s. Include relevant hashtags and engagement hooks.",
			p.Name, strings.Join(p.Traits, ", ")),
		Prompt: storyPrompt(repo, analyses, req, p),
	})
	if err != nil {
		logger.Error("Story inference failed", "error", err)
		return nil, apperrors.Upstream("inference", "generate story", err)
	}

	lang := repo.LanguageOr("")
	story, err := e.store.CreateStory(ctx, database.CreateStoryParams{
		UserID:          user.ID,
		RepositoryID:    repo.ID,
		Title:           fmt.Sprintf("%s's %s Adventure", p.Name, req.StoryType),
		Content:         body,
		Personality:     p.Name,
		StoryType:       string(req.StoryType),
		Tone:            req.Tone,
		EasterEggs:      e.easterEggs(p, req.StoryType, lang),
		EngagementHooks: append([]string(nil), engagementHooks...),
		Hashtags:        hashtags(lang, req.StoryType),
	})
	if err != nil {
		return nil, fmt.Errorf("store story: %w", err)
	}
	logger.Info("Story generated", "story_id", story.ID)

	return &Result{
		Story: story,
		Preview: Preview{
			Title:       story.Title,
			Content:     extract.Truncate(story.Content, previewChars) + "...",
			Personality: story.Personality,
			Hashtags:    story.Hashtags[:min(len(story.Hashtags), previewHashtags)],
		},
	}, nil
}

func storyPrompt(repo database.Repository, analyses []database.CodeAnalysis, req GenerateRequest, p personality.Personality) string {
	summaries := make([]string, 0, len(analyses))
	for _, a := range analyses {
		summaries = append(summaries, a.AnalysisSummary)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s LinkedIn story about a %s experience with the %s repository (%s).\n",
		req.Tone, req.StoryType, repo.RepoName, repo.LanguageOr("unknown language"))
	if repo.Description != nil && *repo.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", *repo.Description)
	}
	fmt.Fprintf(&b, "Catchphrases you like to use: %s\n", strings.Join(p.Catchphrases, " | "))
	fmt.Fprintf(&b, "Context: %s.\n", strings.Join(summaries, "; "))
	b.WriteString("Make it engaging with duck-themed elements and programming insights.")
	return b.String()
}

func (e *Engine) catchphrase(p personality.Personality) string {
	if len(p.Catchphrases) == 0 {
		return "Quack!"
	}
	return p.Catchphrases[e.rand.IntN(len(p.Catchphrases))]
}

func (e *Engine) easterEggs(p personality.Personality, t model.StoryType, lang string) []string {
	if lang == "" {
		lang = "coding"
	}
	return []string{
		"🦆 " + e.catchphrase(p),
		fmt.Sprintf("Rubber duck debugging level: %s", t),
		fmt.Sprintf("Quack! Another day, another %s adventure", lang),
	}
}

func hashtags(lang string, t model.StoryType) []string {
	tags := []string{"#coding", "#programming", "#github", "#developer", "#rubberduck"}
	if tag := hashtagWord(lang); tag != "" {
		tags = append(tags, "#"+tag)
	}
	return append(tags, "#"+string(t), "#techstory")
}

// hashtagWord lowercases s and drops characters that would end a hashtag, so "C++" becomes "c".
func hashtagWord(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return -1
	}, s)
}

func validate(req *GenerateRequest) error {
	switch {
	case req.UserID <= 0:
		return apperrors.Missing("github_user_id")
	case req.RepositoryID <= 0:
		return apperrors.Missing("repository_id")
	case req.StoryType == "":
		return apperrors.Missing("story_type")
	case !req.StoryType.Valid():
		return &apperrors.ValidationError{Field: "story_type", Reason: fmt.Sprintf("unknown story type %q", req.StoryType)}
	case strings.TrimSpace(req.Personality) == "":
		return apperrors.Missing("duck_personality")
	}
	if strings.TrimSpace(req.Tone) == "" {
		req.Tone = DefaultTone
	}
	return nil
}
