package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"repo-storyteller/internal/model"
	"repo-storyteller/internal/story"
)

type generateStoryRequest struct {
	GithubUserID    int64  `json:"github_user_id"`
	RepositoryID    int64  `json:"repository_id"`
	StoryType       string `json:"story_type"`
	DuckPersonality string `json:"duck_personality"`
	Tone            string `json:"tone"`
}

// POST /v1/stories/generate
func (h *Handler) generateStory(w http.ResponseWriter, r *http.Request) {
	var req generateStoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	res, err := h.svc.Stories.Generate(r.Context(), story.GenerateRequest{
		UserID:       req.GithubUserID,
		RepositoryID: req.RepositoryID,
		StoryType:    model.StoryType(req.StoryType),
		Personality:  req.DuckPersonality,
		Tone:         req.Tone,
	})
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

// GET /v1/stories/user/{username}?story_type=&published_only=&limit=&offset=
func (h *Handler) listStories(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	page, err := h.svc.Stories.List(r.Context(), story.ListRequest{
		Username:      chi.URLParam(r, "username"),
		StoryType:     r.URL.Query().Get("story_type"),
		PublishedOnly: r.URL.Query().Get("published_only") == "true",
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, page)
}

type publishRequest struct {
	PublishedURL string `json:"published_url"`
}

// PUT /v1/stories/{id}/publish
func (h *Handler) publishStory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	var req publishRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	s, err := h.svc.Stories.Publish(r.Context(), id, req.PublishedURL)
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"story":         s,
		"published_url": req.PublishedURL,
		"message":       "Story marked as published",
	})
}
