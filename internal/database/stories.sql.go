// internal/database/stories.sql.go
package database

import (
	"context"
	"fmt"
)

const storyColumns = `id, user_id, repository_id, title, content, personality, story_type, tone, easter_eggs, engagement_hooks, hashtags, is_published, published_url, published_at, generated_at`

func scanStory(row scanner) (Story, error) {
	var (
		i                     Story
		eggs, hooks, hashtags []byte
	)
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.RepositoryID,
		&i.Title,
		&i.Content,
		&i.Personality,
		&i.StoryType,
		&i.Tone,
		&eggs,
		&hooks,
		&hashtags,
		&i.IsPublished,
		&i.PublishedUrl,
		&i.PublishedAt,
		&i.GeneratedAt,
	)
	if err != nil {
		return i, err
	}
	if i.EasterEggs, err = decodeList(eggs); err != nil {
		return i, fmt.Errorf("decode easter_eggs: %w", err)
	}
	if i.EngagementHooks, err = decodeList(hooks); err != nil {
		return i, fmt.Errorf("decode engagement_hooks: %w", err)
	}
	if i.Hashtags, err = decodeList(hashtags); err != nil {
		return i, fmt.Errorf("decode hashtags: %w", err)
	}
	return i, nil
}

const createStory = `-- name: CreateStory :one
INSERT INTO stories (user_id, repository_id, title, content, personality, story_type, tone, easter_eggs, engagement_hooks, hashtags)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + storyColumns

type CreateStoryParams struct {
	UserID          int64
	RepositoryID    int64
	Title           string
	Content         string
	Personality     string
	StoryType       string
	Tone            string
	EasterEggs      []string
	EngagementHooks []string
	Hashtags        []string
}

func (q *Queries) CreateStory(ctx context.Context, arg CreateStoryParams) (Story, error) {
	row := q.db.QueryRow(ctx, createStory,
		arg.UserID,
		arg.RepositoryID,
		arg.Title,
		arg.Content,
		arg.Personality,
		arg.StoryType,
		arg.Tone,
		encodeList(arg.EasterEggs),
		encodeList(arg.EngagementHooks),
		encodeList(arg.Hashtags),
	)
	return scanStory(row)
}

const listStoriesByUser = `-- name: ListStoriesByUser :many
SELECT ` + storyColumns + ` FROM stories
WHERE user_id = $1
  AND ($2::text IS NULL OR story_type = $2)
  AND (NOT $3::boolean OR is_published)
ORDER BY generated_at DESC, id DESC
LIMIT $4 OFFSET $5`

type ListStoriesByUserParams struct {
	UserID        int64
	StoryType     *string
	PublishedOnly bool
	Limit         int32
	Offset        int32
}

func (q *Queries) ListStoriesByUser(ctx context.Context, arg ListStoriesByUserParams) ([]Story, error) {
	rows, err := q.db.Query(ctx, listStoriesByUser,
		arg.UserID,
		arg.StoryType,
		arg.PublishedOnly,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanStory)
}

const publishStory = `-- name: PublishStory :one
UPDATE stories SET is_published = TRUE, published_url = $2, published_at = NOW()
WHERE id = $1
RETURNING ` + storyColumns

type PublishStoryParams struct {
	ID           int64
	PublishedUrl string
}

func (q *Queries) PublishStory(ctx context.Context, arg PublishStoryParams) (Story, error) {
	return scanStory(q.db.QueryRow(ctx, publishStory, arg.ID, arg.PublishedUrl))
}
