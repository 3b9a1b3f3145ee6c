// internal/database/suggestions.sql.go
package database

import (
	"context"
	"fmt"
)

const suggestionColumns = `id, repository_id, category, title, description, priority, difficulty, estimated_hours, tags, rationale, wisdom, issue_url, is_implemented, generated_at, updated_at`

func scanSuggestion(row scanner) (Suggestion, error) {
	var (
		i    Suggestion
		tags []byte
	)
	err := row.Scan(
		&i.ID,
		&i.RepositoryID,
		&i.Category,
		&i.Title,
		&i.Description,
		&i.Priority,
		&i.Difficulty,
		&i.EstimatedHours,
		&tags,
		&i.Rationale,
		&i.Wisdom,
		&i.IssueUrl,
		&i.IsImplemented,
		&i.GeneratedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		return i, err
	}
	if i.Tags, err = decodeList(tags); err != nil {
		return i, fmt.Errorf("decode tags: %w", err)
	}
	return i, nil
}

const createSuggestion = `-- name: CreateSuggestion :one
INSERT INTO suggestions (repository_id, category, title, description, priority, difficulty, estimated_hours, tags, rationale, wisdom)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + suggestionColumns

type CreateSuggestionParams struct {
	RepositoryID   int64
	Category       string
	Title          string
	Description    string
	Priority       string
	Difficulty     string
	EstimatedHours int32
	Tags           []string
	Rationale      string
	Wisdom         string
}

func (q *Queries) CreateSuggestion(ctx context.Context, arg CreateSuggestionParams) (Suggestion, error) {
	row := q.db.QueryRow(ctx, createSuggestion,
		arg.RepositoryID,
		arg.Category,
		arg.Title,
		arg.Description,
		arg.Priority,
		arg.Difficulty,
		arg.EstimatedHours,
		encodeList(arg.Tags),
		arg.Rationale,
		arg.Wisdom,
	)
	return scanSuggestion(row)
}

const listSuggestions = `-- name: ListSuggestions :many
SELECT ` + suggestionColumns + ` FROM suggestions
WHERE repository_id = $1
  AND ($2::text IS NULL OR category = $2)
  AND ($3::text IS NULL OR priority = $3)
  AND ($4::text IS NULL OR difficulty = $4)
  AND ($5::boolean IS NULL OR is_implemented = $5)
ORDER BY generated_at DESC, id DESC
LIMIT $6`

// ListSuggestionsParams filters are optional; nil means "any".
type ListSuggestionsParams struct {
	RepositoryID  int64
	Category      *string
	Priority      *string
	Difficulty    *string
	IsImplemented *bool
	Limit         int32
}

func (q *Queries) ListSuggestions(ctx context.Context, arg ListSuggestionsParams) ([]Suggestion, error) {
	rows, err := q.db.Query(ctx, listSuggestions,
		arg.RepositoryID,
		arg.Category,
		arg.Priority,
		arg.Difficulty,
		arg.IsImplemented,
		arg.Limit,
	)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSuggestion)
}

const setSuggestionImplemented = `-- name: SetSuggestionImplemented :one
UPDATE suggestions SET is_implemented = $2, updated_at = NOW()
WHERE id = $1
RETURNING ` + suggestionColumns

type SetSuggestionImplementedParams struct {
	ID            int64
	IsImplemented bool
}

func (q *Queries) SetSuggestionImplemented(ctx context.Context, arg SetSuggestionImplementedParams) (Suggestion, error) {
	return scanSuggestion(q.db.QueryRow(ctx, setSuggestionImplemented, arg.ID, arg.IsImplemented))
}
