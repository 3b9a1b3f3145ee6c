package api

import (
	"net/http"

	"repo-storyteller/internal/analyzer"
)

type analyzeRequest struct {
	Username string `json:"username"`
	RepoName string `json:"repo_name"`
	Branch   string `json:"branch"`
}

// analyzeRepository runs the file analysis of a synced repository.
// POST /v1/github/analyze-repo
func (h *Handler) analyzeRepository(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	res, err := h.svc.Analyzer.AnalyzeRepository(r.Context(), req.Username, req.RepoName, req.Branch)
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

// GET /v1/analysis/repository/{id}/summary?include_files=&complexity_threshold=
func (h *Handler) repositorySummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	threshold, err := queryFloat(r, "complexity_threshold", analyzer.DefaultComplexityThreshold)
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	includeFiles := r.URL.Query().Get("include_files") == "true"

	summary, err := h.svc.Analyzer.RepositorySummary(r.Context(), id, includeFiles, threshold)
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

type debugRequest struct {
	CodeSnippet string `json:"code_snippet"`
	Language    string `json:"language"`
	Context     string `json:"context"`
}

// POST /v1/analysis/debug-suggestions
func (h *Handler) debugSnippet(w http.ResponseWriter, r *http.Request) {
	var req debugRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	res, err := h.svc.Analyzer.DebugSnippet(r.Context(), req.CodeSnippet, req.Language, req.Context)
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}
