// Package suggest turns repository context into prioritised improvement suggestions.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"repo-storyteller/internal/database"
	apperrors "repo-storyteller/internal/errors"
	"repo-storyteller/internal/extract"
	"repo-storyteller/internal/llm"
	"repo-storyteller/internal/model"
)

const (
	maxCategories      = 3
	defaultMaxTotal    = 10
	maxMaxTotal        = 100
	contextAnalyses    = 5
	defaultHours       = 4
	fallbackDescLength = 500

	defaultListLimit = 20
	maxListLimit     = 100

	wisdomDefault       = "🦆 Quack! Every improvement makes the code happier!"
	wisdomNoArray       = "🦆 Every great feature starts with a quack of inspiration!"
	wisdomParseFailure  = "🦆 Sometimes the best ideas come from unexpected places!"
	wisdomAdapterFailed = "🦆 Even when AI gets confused, there's always room for improvement!"
	rationaleFallback   = "Fallback suggestion due to AI processing error"

	generatedMessage = "🦆 Fresh ideas hatched! These suggestions are ready to make your code shine!"
)

var (
	DefaultCategories   = []model.SuggestionCategory{model.CategoryFeature, model.CategoryBugFix, model.CategoryImprovement}
	DefaultDifficulties = []model.Difficulty{model.DifficultyBeginner, model.DifficultyIntermediate}
)

// BatchRecorder is notified of every finished batch.
type BatchRecorder interface {
	RecordBatch(engine string, report *model.BatchReport)
}

type Generator struct {
	store    database.Store
	llm      llm.Provider
	logger   *slog.Logger
	recorder BatchRecorder
}

func New(store database.Store, provider llm.Provider, logger *slog.Logger) *Generator {
	return &Generator{store: store, llm: provider, logger: logger}
}

// WithRecorder attaches a metrics recorder.
func (g *Generator) WithRecorder(r BatchRecorder) *Generator {
	g.recorder = r
	return g
}

type GenerateRequest struct {
	RepositoryID int64
	Categories   []model.SuggestionCategory
	Difficulties []model.Difficulty
	MaxTotal     int
}

type RepositoryRef struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Language *string `json:"language"`
}

type GenerateResult struct {
	Repository        RepositoryRef         `json:"repository"`
	Suggestions       []database.Suggestion `json:"suggestions"`
	GeneratedCount    int                   `json:"generated_count"`
	MaxTotal          int                   `json:"max_total"`
	PerCategoryTarget int                   `json:"per_category_target"`
	Report            *model.BatchReport    `json:"report"`
	Message           string                `json:"duck_message"`
}

// Generate asks the model for suggestions in each of the first three categories. Every category
// gets ceil(MaxTotal/categories) slots, so the total can exceed MaxTotal; GeneratedCount and
// MaxTotal are both reported. A category whose answer cannot be used still yields one
// synthesized suggestion.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}

	repo, err := g.store.GetRepositoryByID(ctx, req.RepositoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("repository", req.RepositoryID)
	} else if err != nil {
		return nil, err
	}

	analyses, err := g.store.ListRecentCodeAnalyses(ctx, database.ListRecentCodeAnalysesParams{
		RepositoryID: repo.ID,
		Limit:        contextAnalyses,
	})
	if err != nil {
		return nil, fmt.Errorf("load analysis context: %w", err)
	}

	categories := req.Categories[:min(len(req.Categories), maxCategories)]
	target := ceilDiv(req.MaxTotal, len(categories))

	report := model.NewBatchReport(uuid.NewString())
	logger := g.logger.With("repository_id", repo.ID, "run_id", report.RunID)
	logger.Info("Generating suggestions", "categories", categories, "per_category", target)

	saved := []database.Suggestion{}
	for _, cat := range categories {
		if err := ctx.Err(); err != nil {
			logger.Warn("Suggestion generation cancelled", "saved", len(saved))
			return nil, err
		}

		drafts, outcome, reason := g.draft(ctx, repo, analyses, cat, target, req.Difficulties)
		if outcome != model.OutcomeSuccess {
			logger.Warn("Using fallback suggestion", "category", cat, "reason", reason)
		}
		drafts = drafts[:min(len(drafts), target)]

		var rows []database.Suggestion
		err := g.store.ExecTx(ctx, func(q database.Querier) error {
			rows = rows[:0]
			for _, d := range drafts {
				s, err := q.CreateSuggestion(ctx, d)
				if err != nil {
					return err
				}
				rows = append(rows, s)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("store %s suggestions: %w", cat, err)
		}
		saved = append(saved, rows...)
		report.Add(string(cat), outcome, reason)
	}

	if g.recorder != nil {
		g.recorder.RecordBatch("suggestions", report)
	}
	logger.Info("Suggestions generated", "count", len(saved), "max_total", req.MaxTotal)

	return &GenerateResult{
		Repository:        RepositoryRef{ID: repo.ID, Name: repo.RepoName, Language: repo.Language},
		Suggestions:       saved,
		GeneratedCount:    len(saved),
		MaxTotal:          req.MaxTotal,
		PerCategoryTarget: target,
		Report:            report,
		Message:           generatedMessage,
	}, nil
}

// draft performs the single inference call of a category and converts the answer into rows to insert.
func (g *Generator) draft(ctx context.Context, repo database.Repository, analyses []database.CodeAnalysis, cat model.SuggestionCategory, target int, difficulties []model.Difficulty) ([]database.CreateSuggestionParams, model.Outcome, string) {
	resp, err := g.llm.Complete(ctx, llm.Request{
		Prompt:      buildPrompt(repo, analyses, cat, target, difficulties),
		Temperature: 0.7,
	})
	if err != nil {
		return []database.CreateSuggestionParams{adapterFallback(repo, cat, difficulties[0])},
			model.OutcomeFallback, "inference failed: " + err.Error()
	}

	var items []suggestionPayload
	if err := extract.JSONArray(resp, &items); err != nil || len(items) == 0 {
		if !strings.Contains(resp, "[") {
			return []database.CreateSuggestionParams{textFallback(repo, cat, difficulties[0], resp, false)},
				model.OutcomeFallback, "no JSON array in model output"
		}
		return []database.CreateSuggestionParams{textFallback(repo, cat, difficulties[0], resp, true)},
			model.OutcomeFallback, "model output array could not be parsed"
	}

	out := make([]database.CreateSuggestionParams, 0, len(items))
	for _, it := range items {
		out = append(out, normalize(repo, cat, difficulties[0], it))
	}
	return out, model.OutcomeSuccess, ""
}

func buildPrompt(repo database.Repository, analyses []database.CodeAnalysis, cat model.SuggestionCategory, target int, difficulties []model.Difficulty) string {
	lang := repo.LanguageOr("unknown")
	desc := "No description"
	if repo.Description != nil && *repo.Description != "" {
		desc = *repo.Description
	}
	summaries := make([]string, 0, len(analyses))
	for _, a := range analyses {
		summaries = append(summaries, "- "+a.AnalysisSummary)
	}
	levels := make([]string, len(difficulties))
	for i, d := range difficulties {
		levels[i] = string(d)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this %s repository %q and suggest %s improvements.\n\n", lang, repo.RepoName, cat)
	fmt.Fprintf(&b, "Repository Description: %s\nLanguage: %s\nStars: %d\n\n", desc, lang, repo.Stars)
	fmt.Fprintf(&b, "Recent Code Analysis:\n%s\n\n", strings.Join(summaries, "\n"))
	fmt.Fprintf(&b, "Generate %d specific %s suggestions with:\n", target, cat)
	b.WriteString("1. Clear title\n2. Detailed description\n3. Priority (low/medium/high/critical)\n")
	fmt.Fprintf(&b, "4. Difficulty (%s)\n", strings.Join(levels, "/"))
	b.WriteString("5. Estimated hours\n6. Relevant tags\n7. Duck-themed wisdom\n\n")
	b.WriteString("Format as JSON array with these fields: title, description, priority, difficulty, estimated_hours, tags, duck_wisdom")
	return b.String()
}

func normalize(repo database.Repository, cat model.SuggestionCategory, difficulty model.Difficulty, it suggestionPayload) database.CreateSuggestionParams {
	p := database.CreateSuggestionParams{
		RepositoryID:   repo.ID,
		Category:       string(cat),
		Title:          strings.TrimSpace(it.Title),
		Description:    strings.TrimSpace(it.Description),
		Priority:       string(model.PriorityMedium),
		Difficulty:     string(difficulty),
		EstimatedHours: int32(it.EstimatedHours),
		Tags:           it.Tags,
		Rationale:      fmt.Sprintf("Generated based on repository analysis and %s patterns", cat),
		Wisdom:         strings.TrimSpace(it.DuckWisdom),
	}
	if pr := model.Priority(strings.ToLower(strings.TrimSpace(it.Priority))); pr.Valid() {
		p.Priority = string(pr)
	}
	if d := model.Difficulty(strings.ToLower(strings.TrimSpace(it.Difficulty))); d.Valid() {
		p.Difficulty = string(d)
	}
	if p.Title == "" {
		p.Title = fmt.Sprintf("%s suggestion for %s", words(cat), repo.RepoName)
	}
	if p.Description == "" {
		p.Description = p.Title
	}
	if p.EstimatedHours <= 0 {
		p.EstimatedHours = defaultHours
	}
	if p.Tags == nil {
		p.Tags = defaultTags(repo, cat)
	}
	if p.Wisdom == "" {
		p.Wisdom = wisdomDefault
	}
	return p
}

// textFallback keeps the raw answer as the description of a single suggestion. parseFailed
// distinguishes an array that did not decode from an answer without any array.
func textFallback(repo database.Repository, cat model.SuggestionCategory, difficulty model.Difficulty, resp string, parseFailed bool) database.CreateSuggestionParams {
	title := fmt.Sprintf("%s suggestion for %s", words(cat), repo.RepoName)
	wisdom := wisdomNoArray
	if parseFailed {
		title = fmt.Sprintf("AI-suggested %s for %s", words(cat), repo.RepoName)
		wisdom = wisdomParseFailure
	}
	return database.CreateSuggestionParams{
		RepositoryID:   repo.ID,
		Category:       string(cat),
		Title:          title,
		Description:    extract.Truncate(resp, fallbackDescLength),
		Priority:       string(model.PriorityMedium),
		Difficulty:     string(difficulty),
		EstimatedHours: defaultHours,
		Tags:           defaultTags(repo, cat),
		Rationale:      fmt.Sprintf("Generated based on repository analysis and %s patterns", cat),
		Wisdom:         wisdom,
	}
}

func adapterFallback(repo database.Repository, cat model.SuggestionCategory, difficulty model.Difficulty) database.CreateSuggestionParams {
	return database.CreateSuggestionParams{
		RepositoryID: repo.ID,
		Category:     string(cat),
		Title:        fmt.Sprintf("Improve %s in %s", words(cat), repo.RepoName),
		Description: fmt.Sprintf("Consider enhancing the %s aspects of this %s project to improve code quality and user experience.",
			words(cat), repo.LanguageOr("software")),
		Priority:       string(model.PriorityMedium),
		Difficulty:     string(difficulty),
		EstimatedHours: defaultHours,
		Tags:           defaultTags(repo, cat),
		Rationale:      rationaleFallback,
		Wisdom:         wisdomAdapterFailed,
	}
}

func defaultTags(repo database.Repository, cat model.SuggestionCategory) []string {
	if lang := repo.LanguageOr(""); lang != "" {
		return []string{strings.ToLower(lang), string(cat)}
	}
	return []string{string(cat)}
}

func words(cat model.SuggestionCategory) string {
	return strings.ReplaceAll(string(cat), "_", " ")
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func normalizeRequest(req GenerateRequest) (GenerateRequest, error) {
	if req.RepositoryID <= 0 {
		return req, apperrors.Missing("repository_id")
	}
	if len(req.Categories) == 0 {
		req.Categories = DefaultCategories
	}
	if len(req.Difficulties) == 0 {
		req.Difficulties = DefaultDifficulties
	}
	if req.MaxTotal == 0 {
		req.MaxTotal = defaultMaxTotal
	}
	if req.MaxTotal < 0 || req.MaxTotal > maxMaxTotal {
		return req, &apperrors.ValidationError{Field: "max_suggestions", Reason: fmt.Sprintf("must be between 1 and %d", maxMaxTotal)}
	}
	for _, c := range req.Categories {
		if !c.Valid() {
			return req, &apperrors.ValidationError{Field: "suggestion_types", Reason: fmt.Sprintf("unknown category %q", c)}
		}
	}
	for _, d := range req.Difficulties {
		if !d.Valid() {
			return req, &apperrors.ValidationError{Field: "difficulty_levels", Reason: fmt.Sprintf("unknown difficulty %q", d)}
		}
	}
	return req, nil
}
