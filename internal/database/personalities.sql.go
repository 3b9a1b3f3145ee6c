// internal/database/personalities.sql.go
package database

import (
	"context"
	"fmt"
)

const personalityColumns = `id, name, description, traits, catchphrases, story_style, emoji_set, created_at`

func scanPersonality(row scanner) (Personality, error) {
	var (
		i                            Personality
		traits, catchphrases, emojis []byte
	)
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&traits,
		&catchphrases,
		&i.StoryStyle,
		&emojis,
		&i.CreatedAt,
	)
	if err != nil {
		return i, err
	}
	if i.Traits, err = decodeList(traits); err != nil {
		return i, fmt.Errorf("decode traits: %w", err)
	}
	if i.Catchphrases, err = decodeList(catchphrases); err != nil {
		return i, fmt.Errorf("decode catchphrases: %w", err)
	}
	if i.EmojiSet, err = decodeList(emojis); err != nil {
		return i, fmt.Errorf("decode emoji_set: %w", err)
	}
	return i, nil
}

const createPersonalityIfAbsent = `-- name: CreatePersonalityIfAbsent :execrows
INSERT INTO personalities (name, description, traits, catchphrases, story_style, emoji_set)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (name) DO NOTHING`

type CreatePersonalityIfAbsentParams struct {
	Name         string
	Description  string
	Traits       []string
	Catchphrases []string
	StoryStyle   string
	EmojiSet     []string
}

// CreatePersonalityIfAbsent returns the number of inserted rows: 0 when the name already exists.
func (q *Queries) CreatePersonalityIfAbsent(ctx context.Context, arg CreatePersonalityIfAbsentParams) (int64, error) {
	tag, err := q.db.Exec(ctx, createPersonalityIfAbsent,
		arg.Name,
		arg.Description,
		encodeList(arg.Traits),
		encodeList(arg.Catchphrases),
		arg.StoryStyle,
		encodeList(arg.EmojiSet),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const listPersonalities = `-- name: ListPersonalities :many
SELECT ` + personalityColumns + ` FROM personalities ORDER BY id`

func (q *Queries) ListPersonalities(ctx context.Context) ([]Personality, error) {
	rows, err := q.db.Query(ctx, listPersonalities)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPersonality)
}
