// Package mcpserver exposes the pipeline engines as MCP tools and resources.
package mcpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/server"

	"repo-storyteller/internal/analyzer"
	"repo-storyteller/internal/database"
	"repo-storyteller/internal/personality"
	"repo-storyteller/internal/story"
	"repo-storyteller/internal/suggest"
)

// Version is reported to MCP clients.
var Version = "dev"

// Lookup resolves the names MCP clients use into stored rows.
type Lookup interface {
	GetUserByUsername(ctx context.Context, username string) (database.User, error)
	GetRepositoryByFullName(ctx context.Context, fullName string) (database.Repository, error)
}

type Analyzer interface {
	AnalyzeRepository(ctx context.Context, username, repoName, branch string) (*analyzer.Result, error)
	DebugSnippet(ctx context.Context, code, language, codeContext string) (*analyzer.DebugResult, error)
}

type Suggester interface {
	Generate(ctx context.Context, req suggest.GenerateRequest) (*suggest.GenerateResult, error)
}

type Storyteller interface {
	Generate(ctx context.Context, req story.GenerateRequest) (*story.Result, error)
	List(ctx context.Context, req story.ListRequest) (*story.Page, error)
}

type Deps struct {
	Lookup      Lookup
	Analyzer    Analyzer
	Suggestions Suggester
	Stories     Storyteller
	Catalog     *personality.Catalog
}

// New creates the MCP server with every tool and resource registered.
func New(deps Deps, logger *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"repo-storyteller",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
	)

	t := &toolset{deps: deps, logger: logger}
	s.AddTool(analyzeRepoTool(), t.analyzeRepo)
	s.AddTool(generateStoryTool(), t.generateStory)
	s.AddTool(personalityTool(), t.getPersonality)
	s.AddTool(debugSnippetTool(), t.debugSnippet)
	s.AddTool(suggestionsTool(), t.generateSuggestions)
	s.AddResourceTemplate(storiesResource(), t.readStories)

	return s
}

// Handler serves s over streamable HTTP.
func Handler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s)
}
