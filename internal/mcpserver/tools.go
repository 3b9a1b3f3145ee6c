package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mark3labs/mcp-go/mcp"

	"repo-storyteller/internal/model"
	"repo-storyteller/internal/story"
	"repo-storyteller/internal/suggest"
)

const (
	storiesURIPrefix = "stories://user/"
	storiesPageSize  = 10
	defaultMaxIdeas  = 5
)

type toolset struct {
	deps   Deps
	logger *slog.Logger
}

func analyzeRepoTool() mcp.Tool {
	return mcp.NewTool("analyze_github_repo",
		mcp.WithDescription("Analyze the root files of a synced GitHub repository"),
		mcp.WithString("username", mcp.Required(), mcp.Description("GitHub username")),
		mcp.WithString("repo_name", mcp.Required(), mcp.Description("Repository name")),
		mcp.WithString("branch", mcp.DefaultString("main"), mcp.Description("Branch to analyze")),
	)
}

func generateStoryTool() mcp.Tool {
	return mcp.NewTool("generate_linkedin_story",
		mcp.WithDescription("Write a LinkedIn story about a repository in a duck personality's voice"),
		mcp.WithString("username", mcp.Required(), mcp.Description("GitHub username")),
		mcp.WithString("repo_name", mcp.Required(), mcp.Description("Repository name")),
		mcp.WithString("story_type", mcp.Required(), mcp.Enum("debugging", "feature", "refactor", "learning"), mcp.Description("Type of story")),
		mcp.WithString("duck_personality", mcp.DefaultString("Rubber Duckie"), mcp.Description("Duck personality to use")),
		mcp.WithString("tone", mcp.DefaultString(story.DefaultTone), mcp.Enum("professional", "casual", "humorous"), mcp.Description("Story tone")),
	)
}

func personalityTool() mcp.Tool {
	return mcp.NewTool("get_duck_personality",
		mcp.WithDescription("Describe one duck personality"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Duck personality name")),
	)
}

func debugSnippetTool() mcp.Tool {
	return mcp.NewTool("debug_code_snippet",
		mcp.WithDescription("Find likely issues in a code snippet"),
		mcp.WithString("code", mcp.Required(), mcp.Description("Code snippet to debug")),
		mcp.WithString("language", mcp.Required(), mcp.Description("Programming language")),
		mcp.WithString("context", mcp.Description("Additional context about the code")),
	)
}

func suggestionsTool() mcp.Tool {
	return mcp.NewTool("generate_issue_suggestions",
		mcp.WithDescription("Generate improvement suggestions for a synced repository"),
		mcp.WithString("username", mcp.Required(), mcp.Description("GitHub username")),
		mcp.WithString("repo_name", mcp.Required(), mcp.Description("Repository name")),
		mcp.WithArray("suggestion_types",
			mcp.Description("Types of suggestions to generate"),
			mcp.Items(map[string]any{"type": "string", "enum": []string{"feature", "bug_fix", "improvement", "refactor", "documentation", "testing"}}),
		),
		mcp.WithArray("difficulty_levels",
			mcp.Description("Difficulty levels to target"),
			mcp.Items(map[string]any{"type": "string", "enum": []string{"beginner", "intermediate", "advanced"}}),
		),
		mcp.WithNumber("max_suggestions", mcp.DefaultNumber(defaultMaxIdeas), mcp.Description("Maximum number of suggestions to generate")),
	)
}

func storiesResource() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(storiesURIPrefix+"{username}", "User stories",
		mcp.WithTemplateDescription("Latest generated stories for a user"),
		mcp.WithTemplateMIMEType("application/json"),
	)
}

func (t *toolset) analyzeRepo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username, repoName, err := requireRepo(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := t.deps.Analyzer.AnalyzeRepository(ctx, username, repoName, req.GetString("branch", "main"))
	if err != nil {
		return t.fail("Error analyzing repository", err), nil
	}
	return jsonResult(fmt.Sprintf("Repository Analysis for %s/%s:", username, repoName), res)
}

func (t *toolset) generateStory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username, repoName, err := requireRepo(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	storyType, err := req.RequireString("story_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	user, err := t.deps.Lookup.GetUserByUsername(ctx, username)
	if err != nil {
		return t.fail("Error generating story", notFound(err, "user "+username)), nil
	}
	repo, err := t.deps.Lookup.GetRepositoryByFullName(ctx, username+"/"+repoName)
	if err != nil {
		return t.fail("Error generating story", notFound(err, "repository "+username+"/"+repoName)), nil
	}

	p := t.deps.Catalog.Resolve(req.GetString("duck_personality", ""))
	res, err := t.deps.Stories.Generate(ctx, story.GenerateRequest{
		UserID:       user.ID,
		RepositoryID: repo.ID,
		StoryType:    model.StoryType(storyType),
		Personality:  p.Name,
		Tone:         req.GetString("tone", story.DefaultTone),
	})
	if err != nil {
		return t.fail("Error generating story", err), nil
	}

	catchphrase := ""
	if len(p.Catchphrases) > 0 {
		catchphrase = p.Catchphrases[0]
	}
	return mcp.NewToolResultText(fmt.Sprintf("Generated LinkedIn Story:\n\n%s\n\nSuggested hashtags: %s\n\nPersonality: %s\nCatchphrase: %s",
		res.Story.Content, strings.Join(res.Story.Hashtags, " "), p.Name, catchphrase)), nil
}

func (t *toolset) getPersonality(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, ok := t.deps.Catalog.Lookup(name)
	if !ok {
		var names []string
		for _, p := range t.deps.Catalog.All() {
			names = append(names, p.Name)
		}
		return mcp.NewToolResultError(fmt.Sprintf("Duck personality %q not found. Available personalities: %s", name, strings.Join(names, ", "))), nil
	}
	return jsonResult("", p)
}

func (t *toolset) debugSnippet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := t.deps.Analyzer.DebugSnippet(ctx, code, req.GetString("language", ""), req.GetString("context", ""))
	if err != nil {
		return t.fail("Error debugging code", err), nil
	}

	var b strings.Builder
	b.WriteString("🦆 Debug Duck's Analysis:\n")
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s:\n", title)
		for _, it := range items {
			fmt.Fprintf(&b, "- %s\n", it)
		}
	}
	section("Issues", res.DebugAnalysis.Issues)
	section("Suggestions", res.DebugAnalysis.Suggestions)
	section("Fixes", res.DebugAnalysis.Fixes)
	b.WriteString("\nQuack! Remember: debugging is just detective work with more coffee! ☕")
	return mcp.NewToolResultText(b.String()), nil
}

func (t *toolset) generateSuggestions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username, repoName, err := requireRepo(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	repo, err := t.deps.Lookup.GetRepositoryByFullName(ctx, username+"/"+repoName)
	if err != nil {
		return t.fail("Error generating issue suggestions", notFound(err, "repository "+username+"/"+repoName)), nil
	}

	var categories []model.SuggestionCategory
	for _, c := range req.GetStringSlice("suggestion_types", []string{"feature", "improvement"}) {
		categories = append(categories, model.SuggestionCategory(c))
	}
	var difficulties []model.Difficulty
	for _, d := range req.GetStringSlice("difficulty_levels", nil) {
		difficulties = append(difficulties, model.Difficulty(d))
	}

	res, err := t.deps.Suggestions.Generate(ctx, suggest.GenerateRequest{
		RepositoryID: repo.ID,
		Categories:   categories,
		Difficulties: difficulties,
		MaxTotal:     req.GetInt("max_suggestions", defaultMaxIdeas),
	})
	if err != nil {
		return t.fail("Error generating issue suggestions", err), nil
	}
	return jsonResult("", res)
}

func (t *toolset) readStories(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	username := strings.TrimPrefix(req.Params.URI, storiesURIPrefix)
	page, err := t.deps.Stories.List(ctx, story.ListRequest{Username: username, Limit: storiesPageSize})
	if err != nil {
		return nil, err
	}

	type storyLine struct {
		ID          int64     `json:"id"`
		Title       string    `json:"title"`
		Type        string    `json:"type"`
		Personality string    `json:"personality"`
		GeneratedAt time.Time `json:"generated_at"`
		IsPublished bool      `json:"is_published"`
	}
	lines := make([]storyLine, 0, len(page.Stories))
	for _, s := range page.Stories {
		lines = append(lines, storyLine{
			ID:          s.ID,
			Title:       s.Title,
			Type:        s.StoryType,
			Personality: s.Personality,
			GeneratedAt: s.GeneratedAt,
			IsPublished: s.IsPublished,
		})
	}
	body, err := json.MarshalIndent(map[string]any{"user": page.User, "stories": lines}, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(body)},
	}, nil
}

// fail turns an engine error into a tool error result. Tool errors are reported to the
// client, not returned to the transport.
func (t *toolset) fail(prefix string, err error) *mcp.CallToolResult {
	t.logger.Warn("MCP tool failed", "error", err)
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", prefix, err))
}

func requireRepo(req mcp.CallToolRequest) (string, string, error) {
	username, err := req.RequireString("username")
	if err != nil {
		return "", "", err
	}
	repoName, err := req.RequireString("repo_name")
	if err != nil {
		return "", "", err
	}
	return username, repoName, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s not found; sync it first", what)
	}
	return err
}

func jsonResult(header string, v any) (*mcp.CallToolResult, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	if header != "" {
		return mcp.NewToolResultText(header + "\n\n" + string(body)), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}
