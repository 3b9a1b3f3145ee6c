package suggest

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"repo-storyteller/internal/database"
	apperrors "repo-storyteller/internal/errors"
	"repo-storyteller/internal/model"
)

// ListRequest filters are optional; nil matches everything.
type ListRequest struct {
	RepositoryID int64
	Category     *model.SuggestionCategory
	Priority     *model.Priority
	Difficulty   *model.Difficulty
	Implemented  *bool
	Limit        int
}

// List returns the newest suggestions of a repository that match the filters.
func (g *Generator) List(ctx context.Context, req ListRequest) ([]database.Suggestion, error) {
	arg := database.ListSuggestionsParams{
		RepositoryID:  req.RepositoryID,
		IsImplemented: req.Implemented,
		Limit:         int32(defaultListLimit),
	}
	if req.Limit > 0 {
		arg.Limit = int32(min(req.Limit, maxListLimit))
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			return nil, &apperrors.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown category %q", *req.Category)}
		}
		s := string(*req.Category)
		arg.Category = &s
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			return nil, &apperrors.ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", *req.Priority)}
		}
		s := string(*req.Priority)
		arg.Priority = &s
	}
	if req.Difficulty != nil {
		if !req.Difficulty.Valid() {
			return nil, &apperrors.ValidationError{Field: "difficulty", Reason: fmt.Sprintf("unknown difficulty %q", *req.Difficulty)}
		}
		s := string(*req.Difficulty)
		arg.Difficulty = &s
	}
	return g.store.ListSuggestions(ctx, arg)
}

// SetImplemented records whether a suggestion has been carried out.
func (g *Generator) SetImplemented(ctx context.Context, id int64, implemented bool) (database.Suggestion, error) {
	s, err := g.store.SetSuggestionImplemented(ctx, database.SetSuggestionImplementedParams{ID: id, IsImplemented: implemented})
	if errors.Is(err, pgx.ErrNoRows) {
		return database.Suggestion{}, apperrors.NotFound("suggestion", id)
	}
	return s, err
}
