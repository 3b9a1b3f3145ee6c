// Package assets serves personality images and emoji packs from object storage.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"repo-storyteller/internal/database"
	apperrors "repo-storyteller/internal/errors"
)

type AssetType string

const (
	TypeImage AssetType = "image"
	TypeGIF   AssetType = "gif"
	TypeEmoji AssetType = "emoji"
)

func (t AssetType) Valid() bool {
	switch t {
	case TypeImage, TypeGIF, TypeEmoji:
		return true
	}
	return false
}

// Blob is an open object. Body must be closed by the caller.
type Blob struct {
	Body        io.ReadCloser
	ContentType string
	ETag        string
	Size        int64
}

type BlobStore interface {
	Open(ctx context.Context, key string) (*Blob, error)
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
}

type Service struct {
	store database.Querier
	blobs BlobStore
}

func NewService(store database.Querier, blobs BlobStore) *Service {
	return &Service{store: store, blobs: blobs}
}

// Open looks up an asset and opens its blob.
func (s *Service) Open(ctx context.Context, id int64) (database.Asset, *Blob, error) {
	asset, err := s.store.GetAsset(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return database.Asset{}, nil, apperrors.NotFound("asset", id)
	} else if err != nil {
		return database.Asset{}, nil, err
	}

	blob, err := s.blobs.Open(ctx, asset.StorageKey)
	if errors.Is(err, ErrObjectNotFound) {
		return asset, nil, apperrors.NotFound("asset file", asset.StorageKey)
	} else if err != nil {
		return asset, nil, apperrors.Upstream("object storage", "get "+asset.StorageKey, err)
	}
	return asset, blob, nil
}

type UploadRequest struct {
	Name          string
	Type          AssetType
	PersonalityID *int64
	Tags          []string
	ContentType   string
	Size          int64
	Body          io.Reader
}

// Upload stores the blob first and then records the asset row.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (database.Asset, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return database.Asset{}, apperrors.Missing("asset_name")
	}
	if !req.Type.Valid() {
		return database.Asset{}, &apperrors.ValidationError{Field: "asset_type", Reason: fmt.Sprintf("unknown asset type %q", req.Type)}
	}
	if req.Body == nil {
		return database.Asset{}, apperrors.Missing("body")
	}

	key := path.Join("ducks", string(req.Type), uuid.NewString(), path.Base(name))
	if err := s.blobs.Put(ctx, key, req.Body, req.Size, req.ContentType); err != nil {
		return database.Asset{}, apperrors.Upstream("object storage", "put "+key, err)
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	return s.store.CreateAsset(ctx, database.CreateAssetParams{
		AssetName:     name,
		AssetType:     string(req.Type),
		StorageKey:    key,
		PersonalityID: req.PersonalityID,
		Tags:          tags,
	})
}
