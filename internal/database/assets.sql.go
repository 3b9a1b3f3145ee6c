// internal/database/assets.sql.go
package database

import (
	"context"
	"fmt"
)

const assetColumns = `id, asset_name, asset_type, storage_key, personality_id, tags, created_at`

func scanAsset(row scanner) (Asset, error) {
	var (
		i    Asset
		tags []byte
	)
	err := row.Scan(
		&i.ID,
		&i.AssetName,
		&i.AssetType,
		&i.StorageKey,
		&i.PersonalityID,
		&tags,
		&i.CreatedAt,
	)
	if err != nil {
		return i, err
	}
	if i.Tags, err = decodeList(tags); err != nil {
		return i, fmt.Errorf("decode tags: %w", err)
	}
	return i, nil
}

const createAsset = `-- name: CreateAsset :one
INSERT INTO assets (asset_name, asset_type, storage_key, personality_id, tags)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + assetColumns

type CreateAssetParams struct {
	AssetName     string
	AssetType     string
	StorageKey    string
	PersonalityID *int64
	Tags          []string
}

func (q *Queries) CreateAsset(ctx context.Context, arg CreateAssetParams) (Asset, error) {
	row := q.db.QueryRow(ctx, createAsset,
		arg.AssetName,
		arg.AssetType,
		arg.StorageKey,
		arg.PersonalityID,
		encodeList(arg.Tags),
	)
	return scanAsset(row)
}

const getAsset = `-- name: GetAsset :one
SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

func (q *Queries) GetAsset(ctx context.Context, id int64) (Asset, error) {
	return scanAsset(q.db.QueryRow(ctx, getAsset, id))
}

const listAssetsByPersonality = `-- name: ListAssetsByPersonality :many
SELECT ` + assetColumns + ` FROM assets WHERE personality_id = $1 ORDER BY id`

func (q *Queries) ListAssetsByPersonality(ctx context.Context, personalityID int64) ([]Asset, error) {
	rows, err := q.db.Query(ctx, listAssetsByPersonality, personalityID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAsset)
}
