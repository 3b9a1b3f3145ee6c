package api

import (
	"net/http"

	"repo-storyteller/internal/model"
	"repo-storyteller/internal/suggest"
)

const (
	suggestionsFound = "🦆 Here are your brilliant ideas! Ready to turn them into reality?"
	suggestionsNone  = "🦆 No suggestions yet, but every great project starts somewhere!"
)

type generateSuggestionsRequest struct {
	RepositoryID     int64                      `json:"repository_id"`
	SuggestionTypes  []model.SuggestionCategory `json:"suggestion_types"`
	DifficultyLevels []model.Difficulty         `json:"difficulty_levels"`
	MaxSuggestions   int                        `json:"max_suggestions"`
}

// POST /v1/suggestions/generate
func (h *Handler) generateSuggestions(w http.ResponseWriter, r *http.Request) {
	var req generateSuggestionsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	res, err := h.svc.Suggestions.Generate(r.Context(), suggest.GenerateRequest{
		RepositoryID: req.RepositoryID,
		Categories:   req.SuggestionTypes,
		Difficulties: req.DifficultyLevels,
		MaxTotal:     req.MaxSuggestions,
	})
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

// GET /v1/suggestions/repository/{id}?type=&priority=&difficulty=&implemented=&limit=
func (h *Handler) listSuggestions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}

	q := r.URL.Query()
	req := suggest.ListRequest{RepositoryID: id, Implemented: queryBool(r, "implemented"), Limit: limit}
	if v := q.Get("type"); v != "" {
		c := model.SuggestionCategory(v)
		req.Category = &c
	}
	if v := q.Get("priority"); v != "" {
		p := model.Priority(v)
		req.Priority = &p
	}
	if v := q.Get("difficulty"); v != "" {
		d := model.Difficulty(v)
		req.Difficulty = &d
	}

	suggestions, err := h.svc.Suggestions.List(r.Context(), req)
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	msg := suggestionsNone
	if len(suggestions) > 0 {
		msg = suggestionsFound
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"suggestions":  suggestions,
		"count":        len(suggestions),
		"duck_message": msg,
	})
}

type setImplementedRequest struct {
	IsImplemented bool `json:"is_implemented"`
}

// PUT /v1/suggestions/{id}/implemented
func (h *Handler) setImplemented(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	var req setImplementedRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	s, err := h.svc.Suggestions.SetImplemented(r.Context(), id, req.IsImplemented)
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"suggestion": s})
}
