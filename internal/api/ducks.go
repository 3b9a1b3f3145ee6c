package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"repo-storyteller/internal/assets"
	apperrors "repo-storyteller/internal/errors"
)

const maxAssetBytes = 10 << 20

// GET /v1/ducks/personalities?include_assets=
func (h *Handler) listPersonalities(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.Stories.ListPersonalities(r.Context(), r.URL.Query().Get("include_assets") == "true")
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"personalities": ps})
}

// getAsset streams an asset blob from object storage.
// GET /v1/ducks/assets/{id}
func (h *Handler) getAsset(w http.ResponseWriter, r *http.Request) {
	if h.svc.Assets == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Asset storage is not configured")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	_, blob, err := h.svc.Assets.Open(r.Context(), id)
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	defer blob.Body.Close()

	if blob.ContentType != "" {
		w.Header().Set("Content-Type", blob.ContentType)
	}
	if blob.ETag != "" {
		w.Header().Set("ETag", strconv.Quote(blob.ETag))
	}
	if blob.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(blob.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, blob.Body); err != nil {
		h.logger.Warn("Asset stream interrupted", "asset_id", id, "error", err)
	}
}

// uploadAsset stores a multipart "file" part as a duck asset.
// POST /v1/ducks/assets (fields: asset_type, personality_id, tags)
func (h *Handler) uploadAsset(w http.ResponseWriter, r *http.Request) {
	if h.svc.Assets == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Asset storage is not configured")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxAssetBytes)
	if err := r.ParseMultipartForm(maxAssetBytes); err != nil {
		h.respondWithErr(w, r, &apperrors.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondWithErr(w, r, apperrors.Missing("file"))
		return
	}
	defer file.Close()

	req := assets.UploadRequest{
		Name:        header.Filename,
		Type:        assets.AssetType(r.FormValue("asset_type")),
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	if v := r.FormValue("personality_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.respondWithErr(w, r, &apperrors.ValidationError{Field: "personality_id", Reason: "must be an integer"})
			return
		}
		req.PersonalityID = &id
	}
	for _, tag := range strings.Split(r.FormValue("tags"), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			req.Tags = append(req.Tags, tag)
		}
	}

	asset, err := h.svc.Assets.Upload(r.Context(), req)
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]any{"asset": asset})
}

type easterEggRequest struct {
	Context      string `json:"context"`
	Personality  string `json:"personality"`
	CodeLanguage string `json:"code_language"`
}

// POST /v1/ducks/easter-eggs/generate
func (h *Handler) generateEasterEggs(w http.ResponseWriter, r *http.Request) {
	var req easterEggRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	res, err := h.svc.Stories.EasterEggs(r.Context(), req.Context, req.Personality, req.CodeLanguage)
	if err != nil {
		h.respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}
