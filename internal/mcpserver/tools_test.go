package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repo-storyteller/internal/analyzer"
	"repo-storyteller/internal/database"
	apperrors "repo-storyteller/internal/errors"
	"repo-storyteller/internal/personality"
	"repo-storyteller/internal/story"
	"repo-storyteller/internal/suggest"
)

type fakeLookup struct{}

func (fakeLookup) GetUserByUsername(ctx context.Context, username string) (database.User, error) {
	if username != "octo" {
		return database.User{}, pgx.ErrNoRows
	}
	return database.User{ID: 1, Username: "octo"}, nil
}

func (fakeLookup) GetRepositoryByFullName(ctx context.Context, fullName string) (database.Repository, error) {
	if fullName != "octo/hello" {
		return database.Repository{}, pgx.ErrNoRows
	}
	return database.Repository{ID: 2, FullName: fullName}, nil
}

type fakeAnalyzer struct{}

func (fakeAnalyzer) AnalyzeRepository(ctx context.Context, username, repoName, branch string) (*analyzer.Result, error) {
	return &analyzer.Result{AnalyzedFiles: 3, Repository: database.Repository{DefaultBranch: branch}}, nil
}

func (fakeAnalyzer) DebugSnippet(ctx context.Context, code, language, codeContext string) (*analyzer.DebugResult, error) {
	return &analyzer.DebugResult{DebugAnalysis: analyzer.DebugAnalysis{Issues: []string{"off by one"}, Fixes: []string{"use <"}}}, nil
}

type fakeSuggester struct {
	got suggest.GenerateRequest
}

func (f *fakeSuggester) Generate(ctx context.Context, req suggest.GenerateRequest) (*suggest.GenerateResult, error) {
	f.got = req
	return &suggest.GenerateResult{GeneratedCount: 4}, nil
}

type fakeStories struct {
	got story.GenerateRequest
}

func (f *fakeStories) Generate(ctx context.Context, req story.GenerateRequest) (*story.Result, error) {
	f.got = req
	if req.Tone == "grim" {
		return nil, apperrors.Upstream("inference", "generate story", errors.New("refused"))
	}
	return &story.Result{Story: database.Story{Content: "Once upon a quack", Hashtags: []string{"#coding", "#go"}}}, nil
}

func (f *fakeStories) List(ctx context.Context, req story.ListRequest) (*story.Page, error) {
	if req.Username != "octo" {
		return nil, apperrors.NotFound("user", req.Username)
	}
	return &story.Page{
		User:    story.UserRef{ID: 1, Username: "octo"},
		Stories: []database.Story{{ID: 7, Title: "t", StoryType: "feature", IsPublished: true}},
	}, nil
}

func newToolset() (*toolset, *fakeSuggester, *fakeStories) {
	sg, st := &fakeSuggester{}, &fakeStories{}
	return &toolset{
		deps: Deps{
			Lookup:      fakeLookup{},
			Analyzer:    fakeAnalyzer{},
			Suggestions: sg,
			Stories:     st,
			Catalog:     personality.DefaultCatalog(),
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, sg, st
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestAnalyzeRepo(t *testing.T) {
	ts, _, _ := newToolset()

	res, err := ts.analyzeRepo(context.Background(), call(map[string]any{"username": "octo", "repo_name": "hello"}))

	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), "Repository Analysis for octo/hello:")
	assert.Contains(t, text(t, res), `"analyzed_files": 3`)
	assert.Contains(t, text(t, res), `"default_branch": "main"`)

	res, err = ts.analyzeRepo(context.Background(), call(map[string]any{"username": "octo"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGenerateStory(t *testing.T) {
	ts, _, st := newToolset()

	res, err := ts.generateStory(context.Background(), call(map[string]any{
		"username": "octo", "repo_name": "hello", "story_type": "feature", "duck_personality": "code quacker",
	}))

	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, story.GenerateRequest{UserID: 1, RepositoryID: 2, StoryType: "feature", Personality: "Code Quacker", Tone: "professional"}, st.got)
	out := text(t, res)
	assert.Contains(t, out, "Once upon a quack")
	assert.Contains(t, out, "Suggested hashtags: #coding #go")
	assert.Contains(t, out, "Catchphrase: Clean code is happy code!")
}

func TestGenerateStory_Errors(t *testing.T) {
	ts, _, _ := newToolset()

	res, err := ts.generateStory(context.Background(), call(map[string]any{"username": "nobody", "repo_name": "hello", "story_type": "feature"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "user nobody not found")

	res, err = ts.generateStory(context.Background(), call(map[string]any{"username": "octo", "repo_name": "hello", "story_type": "feature", "tone": "grim"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGetPersonality(t *testing.T) {
	ts, _, _ := newToolset()

	res, err := ts.getPersonality(context.Background(), call(map[string]any{"name": "Debug Duck"}))
	require.NoError(t, err)
	var p personality.Personality
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &p))
	assert.Equal(t, "humorous and engaging", p.StoryStyle)

	res, err = ts.getPersonality(context.Background(), call(map[string]any{"name": "Goose"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "Rubber Duckie, Code Quacker, Debug Duck")
}

func TestDebugSnippet(t *testing.T) {
	ts, _, _ := newToolset()

	res, err := ts.debugSnippet(context.Background(), call(map[string]any{"code": "for i <= n", "language": "go"}))

	require.NoError(t, err)
	out := text(t, res)
	assert.Contains(t, out, "- off by one")
	assert.Contains(t, out, "- use <")
	assert.NotContains(t, out, "Suggestions:")
}

func TestGenerateSuggestions(t *testing.T) {
	ts, sg, _ := newToolset()

	res, err := ts.generateSuggestions(context.Background(), call(map[string]any{
		"username": "octo", "repo_name": "hello", "suggestion_types": []any{"testing"}, "max_suggestions": float64(3),
	}))

	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, text(t, res), `"generated_count": 4`)
	assert.Equal(t, int64(2), sg.got.RepositoryID)
	assert.Equal(t, "testing", string(sg.got.Categories[0]))
	assert.Empty(t, sg.got.Difficulties)
	assert.Equal(t, 3, sg.got.MaxTotal)

	res, err = ts.generateSuggestions(context.Background(), call(map[string]any{"username": "octo", "repo_name": "missing"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGenerateSuggestions_Defaults(t *testing.T) {
	ts, sg, _ := newToolset()

	_, err := ts.generateSuggestions(context.Background(), call(map[string]any{"username": "octo", "repo_name": "hello"}))

	require.NoError(t, err)
	assert.Len(t, sg.got.Categories, 2)
	assert.Equal(t, defaultMaxIdeas, sg.got.MaxTotal)
}

func TestReadStories(t *testing.T) {
	ts, _, _ := newToolset()
	var req mcp.ReadResourceRequest
	req.Params.URI = "stories://user/octo"

	contents, err := ts.readStories(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, contents, 1)
	tc := contents[0].(mcp.TextResourceContents)
	assert.Equal(t, "application/json", tc.MIMEType)
	assert.Contains(t, tc.Text, `"title": "t"`)
	assert.Contains(t, tc.Text, `"is_published": true`)

	req.Params.URI = "stories://user/ghost"
	_, err = ts.readStories(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestNew_RegistersTools(t *testing.T) {
	ts, _, _ := newToolset()
	s := New(ts.deps, ts.logger)
	assert.NotNil(t, s)
	assert.NotNil(t, Handler(s))
}
