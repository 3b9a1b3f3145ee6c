// internal/database/repositories.sql.go
package database

import (
	"context"
	"time"
)

const repositoryColumns = `id, user_id, github_repo_id, repo_name, full_name, description, language, stars, forks, size, default_branch, is_private, created_at, updated_at, last_analyzed`

func scanRepository(row scanner) (Repository, error) {
	var i Repository
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.GithubRepoID,
		&i.RepoName,
		&i.FullName,
		&i.Description,
		&i.Language,
		&i.Stars,
		&i.Forks,
		&i.Size,
		&i.DefaultBranch,
		&i.IsPrivate,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.LastAnalyzed,
	)
	return i, err
}

const createRepository = `-- name: CreateRepository :one
INSERT INTO repositories (user_id, github_repo_id, repo_name, full_name, description, language, stars, forks, size, default_branch, is_private)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + repositoryColumns

type CreateRepositoryParams struct {
	UserID        int64
	GithubRepoID  int64
	RepoName      string
	FullName      string
	Description   *string
	Language      *string
	Stars         int32
	Forks         int32
	Size          int32
	DefaultBranch string
	IsPrivate     bool
}

func (q *Queries) CreateRepository(ctx context.Context, arg CreateRepositoryParams) (Repository, error) {
	row := q.db.QueryRow(ctx, createRepository,
		arg.UserID,
		arg.GithubRepoID,
		arg.RepoName,
		arg.FullName,
		arg.Description,
		arg.Language,
		arg.Stars,
		arg.Forks,
		arg.Size,
		arg.DefaultBranch,
		arg.IsPrivate,
	)
	return scanRepository(row)
}

const getRepositoryByID = `-- name: GetRepositoryByID :one
SELECT ` + repositoryColumns + ` FROM repositories WHERE id = $1`

func (q *Queries) GetRepositoryByID(ctx context.Context, id int64) (Repository, error) {
	return scanRepository(q.db.QueryRow(ctx, getRepositoryByID, id))
}

const getRepositoryByFullName = `-- name: GetRepositoryByFullName :one
SELECT ` + repositoryColumns + ` FROM repositories WHERE full_name = $1`

func (q *Queries) GetRepositoryByFullName(ctx context.Context, fullName string) (Repository, error) {
	return scanRepository(q.db.QueryRow(ctx, getRepositoryByFullName, fullName))
}

const updateRepositoryMetrics = `-- name: UpdateRepositoryMetrics :one
UPDATE repositories
SET description = $2, language = $3, stars = $4, forks = $5, size = $6,
    default_branch = $7, is_private = $8, updated_at = NOW()
WHERE id = $1
RETURNING ` + repositoryColumns

type UpdateRepositoryMetricsParams struct {
	ID            int64
	Description   *string
	Language      *string
	Stars         int32
	Forks         int32
	Size          int32
	DefaultBranch string
	IsPrivate     bool
}

func (q *Queries) UpdateRepositoryMetrics(ctx context.Context, arg UpdateRepositoryMetricsParams) (Repository, error) {
	row := q.db.QueryRow(ctx, updateRepositoryMetrics,
		arg.ID,
		arg.Description,
		arg.Language,
		arg.Stars,
		arg.Forks,
		arg.Size,
		arg.DefaultBranch,
		arg.IsPrivate,
	)
	return scanRepository(row)
}

const setRepositoryLastAnalyzed = `-- name: SetRepositoryLastAnalyzed :one
UPDATE repositories SET last_analyzed = $2 WHERE id = $1
RETURNING ` + repositoryColumns

type SetRepositoryLastAnalyzedParams struct {
	ID           int64
	LastAnalyzed time.Time
}

func (q *Queries) SetRepositoryLastAnalyzed(ctx context.Context, arg SetRepositoryLastAnalyzedParams) (Repository, error) {
	return scanRepository(q.db.QueryRow(ctx, setRepositoryLastAnalyzed, arg.ID, arg.LastAnalyzed))
}

const listRepositoriesByUser = `-- name: ListRepositoriesByUser :many
SELECT ` + repositoryColumns + ` FROM repositories
WHERE user_id = $1
  AND ($2::text IS NULL OR language = $2)
ORDER BY CASE WHEN $3::text = 'stars' THEN stars END DESC,
         updated_at DESC, id DESC
LIMIT $4 OFFSET $5`

type ListRepositoriesByUserParams struct {
	UserID   int64
	Language *string
	SortBy   string
	Limit    int32
	Offset   int32
}

func (q *Queries) ListRepositoriesByUser(ctx context.Context, arg ListRepositoriesByUserParams) ([]Repository, error) {
	rows, err := q.db.Query(ctx, listRepositoriesByUser,
		arg.UserID,
		arg.Language,
		arg.SortBy,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanRepository)
}
