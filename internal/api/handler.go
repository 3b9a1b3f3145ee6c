// internal/api/handler.go
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"repo-storyteller/internal/analyzer"
	"repo-storyteller/internal/assets"
	"repo-storyteller/internal/database"
	"repo-storyteller/internal/story"
	"repo-storyteller/internal/suggest"
	"repo-storyteller/internal/syncer"
)

type Syncer interface {
	SyncUser(ctx context.Context, username string, includePrivate bool) (*syncer.Result, error)
	ListRepositories(ctx context.Context, username, language, sortBy string, limit, offset int) ([]database.Repository, error)
}

type Analyzer interface {
	AnalyzeRepository(ctx context.Context, username, repoName, branch string) (*analyzer.Result, error)
	RepositorySummary(ctx context.Context, repoID int64, includeFiles bool, threshold float64) (*analyzer.Summary, error)
	DebugSnippet(ctx context.Context, code, language, codeContext string) (*analyzer.DebugResult, error)
}

type Suggester interface {
	Generate(ctx context.Context, req suggest.GenerateRequest) (*suggest.GenerateResult, error)
	List(ctx context.Context, req suggest.ListRequest) ([]database.Suggestion, error)
	SetImplemented(ctx context.Context, id int64, implemented bool) (database.Suggestion, error)
}

type Storyteller interface {
	Generate(ctx context.Context, req story.GenerateRequest) (*story.Result, error)
	List(ctx context.Context, req story.ListRequest) (*story.Page, error)
	Publish(ctx context.Context, id int64, url string) (database.Story, error)
	EasterEggs(ctx context.Context, codeContext, personality, language string) (*story.EasterEggResult, error)
	ListPersonalities(ctx context.Context, includeAssets bool) ([]story.PersonalityWithAssets, error)
}

type AssetStore interface {
	Open(ctx context.Context, id int64) (database.Asset, *assets.Blob, error)
	Upload(ctx context.Context, req assets.UploadRequest) (database.Asset, error)
}

// RequestRecorder counts served requests by route pattern and status code.
type RequestRecorder interface {
	RecordRequest(route, code string)
}

// Services are the engines the HTTP API exposes. Recorder is optional.
type Services struct {
	Syncer      Syncer
	Analyzer    Analyzer
	Suggestions Suggester
	Stories     Storyteller
	Assets      AssetStore
	Recorder    RequestRecorder
}

// Handler is the container for API dependencies.
type Handler struct {
	svc    Services
	logger *slog.Logger
}

// NewRouter creates a chi router with the /v1 API and /health. The caller may mount more
// handlers (metrics, MCP) on the returned router.
func NewRouter(svc Services, logger *slog.Logger) chi.Router {
	h := &Handler{svc: svc, logger: logger}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if svc.Recorder != nil {
		r.Use(recordRequests(svc.Recorder))
	}

	r.Get("/health", h.healthCheck)
	r.Route("/v1", func(r chi.Router) {
		// Inference routes are bounded per call by the LLM timeout instead.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))
			r.Get("/github/users/{username}/repos", h.listRepositories)
			r.Get("/analysis/repository/{id}/summary", h.repositorySummary)
			r.Get("/suggestions/repository/{id}", h.listSuggestions)
			r.Put("/suggestions/{id}/implemented", h.setImplemented)
			r.Get("/stories/user/{username}", h.listStories)
			r.Put("/stories/{id}/publish", h.publishStory)
			r.Get("/ducks/personalities", h.listPersonalities)
			r.Get("/ducks/assets/{id}", h.getAsset)
		})

		r.Post("/github/sync-user", h.syncUser)
		r.Post("/github/analyze-repo", h.analyzeRepository)
		r.Post("/analysis/debug-suggestions", h.debugSnippet)
		r.Post("/suggestions/generate", h.generateSuggestions)
		r.Post("/stories/generate", h.generateStory)
		r.Post("/ducks/easter-eggs/generate", h.generateEasterEggs)
		r.Post("/ducks/assets", h.uploadAsset)
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   "repo-storyteller",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
