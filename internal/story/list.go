package story

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"repo-storyteller/internal/database"
	apperrors "repo-storyteller/internal/errors"
	"repo-storyteller/internal/model"
)

type ListRequest struct {
	Username string
	// StoryType filters by type; an unknown value is ignored.
	StoryType     string
	PublishedOnly bool
	Limit         int
	Offset        int
}

type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

type Page struct {
	User       UserRef          `json:"user"`
	Stories    []database.Story `json:"stories"`
	Pagination Pagination       `json:"pagination"`
}

// List returns a page of a user's stories, newest first.
func (e *Engine) List(ctx context.Context, req ListRequest) (*Page, error) {
	if strings.TrimSpace(req.Username) == "" {
		return nil, apperrors.Missing("username")
	}
	if req.Offset < 0 {
		return nil, &apperrors.ValidationError{Field: "offset", Reason: "must not be negative"}
	}
	limit := defaultListLimit
	if req.Limit > 0 {
		limit = min(req.Limit, maxListLimit)
	}

	user, err := e.store.GetUserByUsername(ctx, req.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("user", req.Username)
	} else if err != nil {
		return nil, err
	}

	arg := database.ListStoriesByUserParams{
		UserID:        user.ID,
		PublishedOnly: req.PublishedOnly,
		Limit:         int32(limit),
		Offset:        int32(req.Offset),
	}
	if t := model.StoryType(req.StoryType); t.Valid() {
		s := string(t)
		arg.StoryType = &s
	}
	stories, err := e.store.ListStoriesByUser(ctx, arg)
	if err != nil {
		return nil, err
	}
	return &Page{
		User:       UserRef{ID: user.ID, Username: user.Username},
		Stories:    stories,
		Pagination: Pagination{Limit: limit, Offset: req.Offset, Count: len(stories)},
	}, nil
}

// Publish marks a story as published at url.
func (e *Engine) Publish(ctx context.Context, id int64, url string) (database.Story, error) {
	if strings.TrimSpace(url) == "" {
		return database.Story{}, apperrors.Missing("published_url")
	}
	s, err := e.store.PublishStory(ctx, database.PublishStoryParams{ID: id, PublishedUrl: url})
	if errors.Is(err, pgx.ErrNoRows) {
		return database.Story{}, apperrors.NotFound("story", id)
	}
	return s, err
}
