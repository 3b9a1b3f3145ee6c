package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"repo-storyteller/internal/database"
	apperrors "repo-storyteller/internal/errors"
	"repo-storyteller/internal/extract"
	"repo-storyteller/internal/llm"
)

// DefaultComplexityThreshold is the minimum score RepositorySummary counts when no threshold is given.
const DefaultComplexityThreshold = 5.0

type RepositoryRef struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Language     *string    `json:"language"`
	LastAnalyzed *time.Time `json:"last_analyzed"`
}

type Totals struct {
	TotalFilesAnalyzed         int     `json:"total_files_analyzed"`
	AverageComplexity          float64 `json:"average_complexity"`
	TotalBugsFound             int     `json:"total_bugs_found"`
	TotalImprovementsSuggested int     `json:"total_improvements_suggested"`
}

type Summary struct {
	Repository      RepositoryRef           `json:"repository"`
	AnalysisSummary Totals                  `json:"analysis_summary"`
	Files           []database.CodeAnalysis `json:"files,omitempty"`
}

// RepositorySummary aggregates the stored analyses of a repository whose complexity is at least
// threshold. A threshold of zero or less counts every analysis.
func (a *Analyzer) RepositorySummary(ctx context.Context, repoID int64, includeFiles bool, threshold float64) (*Summary, error) {
	repo, err := a.store.GetRepositoryByID(ctx, repoID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("repository", repoID)
	} else if err != nil {
		return nil, err
	}

	arg := database.ListCodeAnalysesAboveComplexityParams{RepositoryID: repoID}
	if threshold > 0 {
		arg.MinScore = &threshold
	}
	analyses, err := a.store.ListCodeAnalysesAboveComplexity(ctx, arg)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}

	var totals Totals
	var scoreSum float64
	for _, an := range analyses {
		if an.ComplexityScore != nil {
			scoreSum += *an.ComplexityScore
		}
		totals.TotalBugsFound += len(an.BugsFound)
		totals.TotalImprovementsSuggested += len(an.ImprovementsSuggested)
	}
	totals.TotalFilesAnalyzed = len(analyses)
	if len(analyses) > 0 {
		totals.AverageComplexity = scoreSum / float64(len(analyses))
	}

	s := &Summary{
		Repository: RepositoryRef{
			ID:           repo.ID,
			Name:         repo.RepoName,
			Language:     repo.Language,
			LastAnalyzed: repo.LastAnalyzed,
		},
		AnalysisSummary: totals,
	}
	if includeFiles {
		s.Files = analyses
	}
	return s, nil
}

type DebugAnalysis struct {
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
	Fixes       []string `json:"fixes"`
}

type DebugResult struct {
	CodeSnippet   string        `json:"code_snippet"`
	Language      string        `json:"language"`
	Context       string        `json:"context"`
	DebugAnalysis DebugAnalysis `json:"debug_analysis"`
	Degraded      bool          `json:"degraded"`
}

const debugSystemPrompt = "You are a debugging expert. Analyze the code and provide specific debugging suggestions, " +
	"potential issues, and fixes. Respond in JSON format with: issues (array), suggestions (array), fixes (array)."

// DebugSnippet asks the model for debugging advice on a code snippet. Unparseable output yields
// a generic degraded answer; a failed call is an upstream error.
func (a *Analyzer) DebugSnippet(ctx context.Context, code, language, codeContext string) (*DebugResult, error) {
	if strings.TrimSpace(code) == "" {
		return nil, apperrors.Missing("code_snippet")
	}

	prompt := fmt.Sprintf("Debug this %s code:\n\n%s", language, code)
	if codeContext != "" {
		prompt = fmt.Sprintf("Debug this %s code in %s context:\n\n%s", language, codeContext, code)
	}
	resp, err := a.llm.Complete(ctx, llm.Request{System: debugSystemPrompt, Prompt: prompt, Temperature: 0.3})
	if err != nil {
		return nil, apperrors.Upstream("inference", "debug snippet", err)
	}

	res := &DebugResult{
		CodeSnippet: extract.Truncate(code, 200) + "...",
		Language:    language,
		Context:     codeContext,
	}
	if err := extract.JSONObject(resp, &res.DebugAnalysis); err != nil ||
		(res.DebugAnalysis.Issues == nil && res.DebugAnalysis.Suggestions == nil && res.DebugAnalysis.Fixes == nil) {
		res.Degraded = true
		res.DebugAnalysis = DebugAnalysis{
			Issues:      []string{"Code analysis completed"},
			Suggestions: []string{"Review code logic and error handling"},
			Fixes:       []string{"Consider adding proper error handling"},
		}
	}
	return res, nil
}
