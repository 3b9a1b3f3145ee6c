// Package analyzer runs per-file code analysis of synced repositories through the inference provider.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"repo-storyteller/internal/database"
	apperrors "repo-storyteller/internal/errors"
	"repo-storyteller/internal/extract"
	"repo-storyteller/internal/llm"
	"repo-storyteller/internal/model"
)

const (
	maxFiles       = 10
	maxPromptChars = 2000
	defaultBranch  = "main"

	systemPrompt = "You are a code analysis expert. Analyze the provided code and return a JSON object with: " +
		"complexity_score (0-10), patterns_detected (array), bugs_found (array), " +
		"improvements_suggested (array), analysis_summary (string)."
)

// GithubClient is the part of the GitHub adapter the analyzer depends on.
type GithubClient interface {
	ListDirectory(ctx context.Context, owner, repo, path, ref string) ([]model.ContentEntry, error)
	GetFileContent(ctx context.Context, entry model.ContentEntry) (string, error)
}

// BatchRecorder is notified of every finished batch.
type BatchRecorder interface {
	RecordBatch(engine string, report *model.BatchReport)
}

type Analyzer struct {
	store       database.Store
	gh          GithubClient
	llm         llm.Provider
	logger      *slog.Logger
	concurrency int
	recorder    BatchRecorder
	now         func() time.Time
}

// New creates an Analyzer. concurrency bounds how many files are analysed at once; 1 is sequential.
func New(store database.Store, gh GithubClient, provider llm.Provider, logger *slog.Logger, concurrency int) *Analyzer {
	return &Analyzer{
		store:       store,
		gh:          gh,
		llm:         provider,
		logger:      logger,
		concurrency: max(concurrency, 1),
		now:         time.Now,
	}
}

// WithRecorder attaches a metrics recorder.
func (a *Analyzer) WithRecorder(r BatchRecorder) *Analyzer {
	a.recorder = r
	return a
}

type Result struct {
	Repository      database.Repository     `json:"repository"`
	AnalysisResults []database.CodeAnalysis `json:"analysis_results"`
	AnalyzedFiles   int                     `json:"analyzed_files"`
	Report          *model.BatchReport      `json:"report"`
}

type analysisPayload struct {
	ComplexityScore       *float64 `json:"complexity_score"`
	PatternsDetected      []string `json:"patterns_detected"`
	BugsFound             []string `json:"bugs_found"`
	ImprovementsSuggested []string `json:"improvements_suggested"`
	AnalysisSummary       string   `json:"analysis_summary"`
}

func (p analysisPayload) empty() bool {
	return p.ComplexityScore == nil && p.AnalysisSummary == "" &&
		p.PatternsDetected == nil && p.BugsFound == nil && p.ImprovementsSuggested == nil
}

func degradedAnalysis() analysisPayload {
	score := 5.0
	return analysisPayload{
		ComplexityScore:       &score,
		PatternsDetected:      []string{"standard patterns"},
		BugsFound:             []string{},
		ImprovementsSuggested: []string{"code review recommended"},
		AnalysisSummary:       "Analysis completed",
	}
}

// AnalyzeRepository analyses the first entries of the repository root at branch. The repository
// must have been synced before. Files that cannot be downloaded or analysed are skipped; output
// that cannot be parsed is replaced by a degraded default. last_analyzed is stamped once every
// file is done, even when none succeeded.
func (a *Analyzer) AnalyzeRepository(ctx context.Context, username, repoName, branch string) (*Result, error) {
	username, repoName = strings.TrimSpace(username), strings.TrimSpace(repoName)
	if username == "" {
		return nil, apperrors.Missing("username")
	}
	if repoName == "" {
		return nil, apperrors.Missing("repo_name")
	}
	if branch == "" {
		branch = defaultBranch
	}

	fullName := username + "/" + repoName
	repo, err := a.store.GetRepositoryByFullName(ctx, fullName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("repository", fullName)
	} else if err != nil {
		return nil, err
	}

	report := model.NewBatchReport(uuid.NewString())
	logger := a.logger.With("repo", fullName, "branch", branch, "run_id", report.RunID)

	entries, err := a.gh.ListDirectory(ctx, username, repoName, "", branch)
	if err != nil {
		return nil, err
	}
	candidates := entries[:min(len(entries), maxFiles)]
	logger.Info("Analyzing repository", "entries", len(entries), "candidates", len(candidates))

	analyses := make([]*database.CodeAnalysis, len(candidates))
	items := make([]model.ItemResult, len(candidates))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, entry := range candidates {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			analyses[i], items[i] = a.analyzeFile(ctx, logger, repo, entry)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		logger.Warn("Analysis cancelled", "error", err)
		return nil, err
	}

	report.Merge(items)
	out := []database.CodeAnalysis{}
	for _, an := range analyses {
		if an != nil {
			out = append(out, *an)
		}
	}

	repo, err = a.store.SetRepositoryLastAnalyzed(ctx, database.SetRepositoryLastAnalyzedParams{
		ID:           repo.ID,
		LastAnalyzed: a.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("stamp last_analyzed: %w", err)
	}

	if a.recorder != nil {
		a.recorder.RecordBatch("analysis", report)
	}
	logger.Info("Analysis finished", "succeeded", report.Succeeded, "fallback", report.Fallback, "skipped", report.Skipped)

	return &Result{
		Repository:      repo,
		AnalysisResults: out,
		AnalyzedFiles:   len(out),
		Report:          report,
	}, nil
}

func (a *Analyzer) analyzeFile(ctx context.Context, logger *slog.Logger, repo database.Repository, entry model.ContentEntry) (*database.CodeAnalysis, model.ItemResult) {
	item := model.ItemResult{Item: entry.Path}
	skip := func(reason string, err error) (*database.CodeAnalysis, model.ItemResult) {
		if err != nil {
			logger.Warn("Skipping file", "path", entry.Path, "reason", reason, "error", err)
			reason = reason + ": " + err.Error()
		}
		item.Outcome, item.Reason = model.OutcomeSkipped, reason
		return nil, item
	}

	if !entry.IsFile() {
		return skip("not a regular file ("+entry.Type+")", nil)
	}

	content, err := a.gh.GetFileContent(ctx, entry)
	if err != nil {
		return skip("download failed", err)
	}

	resp, err := a.llm.Complete(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      fmt.Sprintf("Analyze this %s file:\n\n%s", entry.Name, extract.Truncate(content, maxPromptChars)),
		Temperature: 0.3,
	})
	if err != nil {
		return skip("inference failed", err)
	}

	payload, parsed := parseAnalysis(resp)
	item.Outcome = model.OutcomeSuccess
	if !parsed {
		item.Outcome, item.Reason = model.OutcomeFallback, "model output was not a JSON analysis"
	}

	analysis, err := a.store.CreateCodeAnalysis(ctx, database.CreateCodeAnalysisParams{
		RepositoryID:          repo.ID,
		FilePath:              entry.Path,
		Language:              languageFor(entry.Path, repo.Language),
		LinesOfCode:           int32(strings.Count(content, "\n") + 1),
		ComplexityScore:       payload.ComplexityScore,
		PatternsDetected:      payload.PatternsDetected,
		BugsFound:             payload.BugsFound,
		ImprovementsSuggested: payload.ImprovementsSuggested,
		AnalysisSummary:       payload.AnalysisSummary,
	})
	if err != nil {
		return skip("store failed", err)
	}
	return &analysis, item
}

// parseAnalysis decodes the model output. It reports false and returns the degraded default
// when no analysis object can be found.
func parseAnalysis(resp string) (analysisPayload, bool) {
	var p analysisPayload
	if err := extract.JSONObject(resp, &p); err != nil || p.empty() {
		return degradedAnalysis(), false
	}
	if p.ComplexityScore != nil && *p.ComplexityScore < 0 {
		zero := 0.0
		p.ComplexityScore = &zero
	}
	return p, true
}
