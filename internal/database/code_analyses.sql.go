// internal/database/code_analyses.sql.go
package database

import (
	"context"
	"fmt"
)

const codeAnalysisColumns = `id, repository_id, file_path, language, lines_of_code, complexity_score, patterns_detected, bugs_found, improvements_suggested, analysis_summary, created_at`

func scanCodeAnalysis(row scanner) (CodeAnalysis, error) {
	var (
		i                    CodeAnalysis
		patterns, bugs, imps []byte
	)
	err := row.Scan(
		&i.ID,
		&i.RepositoryID,
		&i.FilePath,
		&i.Language,
		&i.LinesOfCode,
		&i.ComplexityScore,
		&patterns,
		&bugs,
		&imps,
		&i.AnalysisSummary,
		&i.CreatedAt,
	)
	if err != nil {
		return i, err
	}
	if i.PatternsDetected, err = decodeList(patterns); err != nil {
		return i, fmt.Errorf("decode patterns_detected: %w", err)
	}
	if i.BugsFound, err = decodeList(bugs); err != nil {
		return i, fmt.Errorf("decode bugs_found: %w", err)
	}
	if i.ImprovementsSuggested, err = decodeList(imps); err != nil {
		return i, fmt.Errorf("decode improvements_suggested: %w", err)
	}
	return i, nil
}

const createCodeAnalysis = `-- name: CreateCodeAnalysis :one
INSERT INTO code_analyses (repository_id, file_path, language, lines_of_code, complexity_score, patterns_detected, bugs_found, improvements_suggested, analysis_summary)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + codeAnalysisColumns

type CreateCodeAnalysisParams struct {
	RepositoryID          int64
	FilePath              string
	Language              *string
	LinesOfCode           int32
	ComplexityScore       *float64
	PatternsDetected      []string
	BugsFound             []string
	ImprovementsSuggested []string
	AnalysisSummary       string
}

func (q *Queries) CreateCodeAnalysis(ctx context.Context, arg CreateCodeAnalysisParams) (CodeAnalysis, error) {
	row := q.db.QueryRow(ctx, createCodeAnalysis,
		arg.RepositoryID,
		arg.FilePath,
		arg.Language,
		arg.LinesOfCode,
		arg.ComplexityScore,
		encodeList(arg.PatternsDetected),
		encodeList(arg.BugsFound),
		encodeList(arg.ImprovementsSuggested),
		arg.AnalysisSummary,
	)
	return scanCodeAnalysis(row)
}

const listRecentCodeAnalyses = `-- name: ListRecentCodeAnalyses :many
SELECT ` + codeAnalysisColumns + ` FROM code_analyses
WHERE repository_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`

type ListRecentCodeAnalysesParams struct {
	RepositoryID int64
	Limit        int32
}

func (q *Queries) ListRecentCodeAnalyses(ctx context.Context, arg ListRecentCodeAnalysesParams) ([]CodeAnalysis, error) {
	rows, err := q.db.Query(ctx, listRecentCodeAnalyses, arg.RepositoryID, arg.Limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCodeAnalysis)
}

const listCodeAnalysesAboveComplexity = `-- name: ListCodeAnalysesAboveComplexity :many
SELECT ` + codeAnalysisColumns + ` FROM code_analyses
WHERE repository_id = $1
  AND ($2::double precision IS NULL OR complexity_score >= $2)
ORDER BY created_at DESC, id DESC`

// A nil MinScore selects every analysis of the repository.
type ListCodeAnalysesAboveComplexityParams struct {
	RepositoryID int64
	MinScore     *float64
}

func (q *Queries) ListCodeAnalysesAboveComplexity(ctx context.Context, arg ListCodeAnalysesAboveComplexityParams) ([]CodeAnalysis, error) {
	rows, err := q.db.Query(ctx, listCodeAnalysesAboveComplexity, arg.RepositoryID, arg.MinScore)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCodeAnalysis)
}
