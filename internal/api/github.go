package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "repo-storyteller/internal/errors"
)

type syncUserRequest struct {
	Username       string `json:"username"`
	IncludePrivate bool   `json:"include_private"`
}

// syncUser fetches a GitHub user and their repositories into the database.
// POST /v1/github/sync-user
func (h *Handler) syncUser(w http.ResponseWriter, r *http.Request) {
	var req syncUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	res, err := h.svc.Syncer.SyncUser(r.Context(), req.Username, req.IncludePrivate)
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

// listRepositories returns a page of the stored repositories of a user.
// GET /v1/github/users/{username}/repos?language=&sort_by=&limit=&offset=
func (h *Handler) listRepositories(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	if limit <= 0 || limit > 100 {
		h.respondWithErr(w, r, &apperrors.ValidationError{Field: "limit", Reason: "must be between 1 and 100"})
		return
	}

	q := r.URL.Query()
	repos, err := h.svc.Syncer.ListRepositories(r.Context(), username, q.Get("language"), q.Get("sort_by"), limit, offset)
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"user":         map[string]string{"username": username},
		"repositories": repos,
		"pagination":   map[string]int{"limit": limit, "offset": offset, "count": len(repos)},
	})
}
