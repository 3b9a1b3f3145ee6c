package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"repo-storyteller/internal/database"
	"repo-storyteller/internal/database/mocks"
	apperrors "repo-storyteller/internal/errors"
	"repo-storyteller/internal/llm"
	"repo-storyteller/internal/llm/llmtest"
	"repo-storyteller/internal/model"
)

type fakeGithub struct {
	entries     []model.ContentEntry
	listErr     error
	contents    map[string]string
	downloadErr map[string]error

	mu        sync.Mutex
	downloads []string
}

func (f *fakeGithub) ListDirectory(ctx context.Context, owner, repo, path, ref string) ([]model.ContentEntry, error) {
	return f.entries, f.listErr
}

func (f *fakeGithub) GetFileContent(ctx context.Context, entry model.ContentEntry) (string, error) {
	f.mu.Lock()
	f.downloads = append(f.downloads, entry.Path)
	f.mu.Unlock()
	if err := f.downloadErr[entry.Path]; err != nil {
		return "", err
	}
	if c, ok := f.contents[entry.Path]; ok {
		return c, nil
	}
	return "package main\n", nil
}

func file(name string) model.ContentEntry {
	return model.ContentEntry{Name: name, Path: name, Type: "file", SHA: "sha-" + name, DownloadURL: "https://raw.example/" + name}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

const validAnalysis = `{"complexity_score": 3, "patterns_detected": ["factory"], "bugs_found": ["nil deref"], "improvements_suggested": [], "analysis_summary": "fine"}`

var goLang = "Go"

// expectWrites records every CreateCodeAnalysis call and answers with an echo of the params.
func expectWrites(store *mocks.Store) *[]database.CreateCodeAnalysisParams {
	var (
		mu     sync.Mutex
		writes []database.CreateCodeAnalysisParams
	)
	store.On("CreateCodeAnalysis", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()
			writes = append(writes, args.Get(1).(database.CreateCodeAnalysisParams))
		}).
		Return(database.CodeAnalysis{ID: 1}, nil)
	return &writes
}

func TestAnalyzeRepository_CapsAtTenFiles(t *testing.T) {
	ctx := context.Background()
	var entries []model.ContentEntry
	for i := range 25 {
		entries = append(entries, file(fmt.Sprintf("f%02d.go", i)))
	}
	gh := &fakeGithub{entries: entries}
	stub := &llmtest.Stub{Replies: []llmtest.Reply{{Text: validAnalysis}}}
	store := new(mocks.Store)
	repo := database.Repository{ID: 9, FullName: "octo/a", Language: &goLang}
	store.On("GetRepositoryByFullName", ctx, "octo/a").Return(repo, nil).Once()
	writes := expectWrites(store)
	store.On("SetRepositoryLastAnalyzed", ctx, mock.Anything).Return(repo, nil).Once()

	res, err := New(store, gh, stub, testLogger(), 1).AnalyzeRepository(ctx, "octo", "a", "")

	require.NoError(t, err)
	assert.Equal(t, 10, stub.Calls())
	assert.Len(t, gh.downloads, 10)
	assert.Equal(t, "f00.go", gh.downloads[0], "hosting order is kept")
	assert.Equal(t, "f09.go", gh.downloads[9])
	assert.Len(t, *writes, 10)
	assert.Equal(t, 10, res.AnalyzedFiles)
	assert.Equal(t, 10, res.Report.Requested)
	assert.Equal(t, 10, res.Report.Succeeded)
	store.AssertExpectations(t)
}

func TestAnalyzeRepository_PerFileOutcomes(t *testing.T) {
	ctx := context.Background()
	long := strings.Repeat("x", 3000) + "\nline2\nline3"
	gh := &fakeGithub{
		entries: []model.ContentEntry{
			file("ok.go"),
			{Name: "docs", Path: "docs", Type: "dir"},
			file("broken.py"),
			file("garbled.ts"),
			file("timeout.rb"),
			file("negative.go"),
		},
		contents:    map[string]string{"ok.go": long},
		downloadErr: map[string]error{"broken.py": errors.New("connection reset")},
	}
	stub := &llmtest.Stub{Respond: func(req llm.Request) (string, error) {
		switch {
		case strings.Contains(req.Prompt, "garbled.ts"):
			return "I think this file is quite nice overall.", nil
		case strings.Contains(req.Prompt, "timeout.rb"):
			return "", context.DeadlineExceeded
		case strings.Contains(req.Prompt, "negative.go"):
			return "```json\n{\"complexity_score\": -4, \"analysis_summary\": \"odd\"}\n```", nil
		}
		return validAnalysis, nil
	}}
	store := new(mocks.Store)
	repo := database.Repository{ID: 9, FullName: "octo/a", Language: &goLang}
	store.On("GetRepositoryByFullName", ctx, "octo/a").Return(repo, nil).Once()
	writes := expectWrites(store)
	store.On("SetRepositoryLastAnalyzed", ctx, mock.MatchedBy(func(p database.SetRepositoryLastAnalyzedParams) bool {
		return p.ID == 9 && !p.LastAnalyzed.IsZero()
	})).Return(repo, nil).Once()

	res, err := New(store, gh, stub, testLogger(), 1).AnalyzeRepository(ctx, "octo", "a", "dev")

	require.NoError(t, err)
	require.Len(t, *writes, 3)
	assert.Equal(t, 3, res.AnalyzedFiles)

	byPath := map[string]database.CreateCodeAnalysisParams{}
	for _, w := range *writes {
		byPath[w.FilePath] = w
	}

	ok := byPath["ok.go"]
	assert.Equal(t, int32(3), ok.LinesOfCode, "line count uses the full content")
	assert.Equal(t, []string{"nil deref"}, ok.BugsFound)
	assert.Equal(t, "Go", *ok.Language)

	garbled := byPath["garbled.ts"]
	require.NotNil(t, garbled.ComplexityScore)
	assert.Equal(t, 5.0, *garbled.ComplexityScore)
	assert.Equal(t, []string{"standard patterns"}, garbled.PatternsDetected)
	assert.Equal(t, []string{"code review recommended"}, garbled.ImprovementsSuggested)
	assert.Equal(t, "Analysis completed", garbled.AnalysisSummary)
	assert.Equal(t, "TypeScript", *garbled.Language)

	negative := byPath["negative.go"]
	require.NotNil(t, negative.ComplexityScore)
	assert.Equal(t, 0.0, *negative.ComplexityScore)

	for _, req := range stub.Requests() {
		if strings.Contains(req.Prompt, "ok.go") {
			assert.LessOrEqual(t, len(req.Prompt), len("Analyze this ok.go file:\n\n")+2000)
		}
	}

	assert.Equal(t, 6, res.Report.Requested)
	assert.Equal(t, 2, res.Report.Succeeded)
	assert.Equal(t, 1, res.Report.Fallback)
	assert.Equal(t, 3, res.Report.Skipped)
	assert.Equal(t, model.OutcomeSkipped, res.Report.Items[1].Outcome)
	assert.Equal(t, model.OutcomeFallback, res.Report.Items[3].Outcome)
	store.AssertExpectations(t)
}

func TestAnalyzeRepository_ConcurrentMatchesSequential(t *testing.T) {
	ctx := context.Background()
	var entries []model.ContentEntry
	for i := range 8 {
		entries = append(entries, file(fmt.Sprintf("f%d.go", i)))
	}
	gh := &fakeGithub{entries: entries, downloadErr: map[string]error{"f3.go": errors.New("gone")}}
	stub := &llmtest.Stub{Replies: []llmtest.Reply{{Text: validAnalysis}}}
	store := new(mocks.Store)
	repo := database.Repository{ID: 9}
	store.On("GetRepositoryByFullName", ctx, "octo/a").Return(repo, nil).Once()
	writes := expectWrites(store)
	store.On("SetRepositoryLastAnalyzed", ctx, mock.Anything).Return(repo, nil).Once()

	res, err := New(store, gh, stub, testLogger(), 4).AnalyzeRepository(ctx, "octo", "a", "main")

	require.NoError(t, err)
	assert.Len(t, *writes, 7)
	assert.Equal(t, 7, res.AnalyzedFiles)
	for i, it := range res.Report.Items {
		assert.Equal(t, fmt.Sprintf("f%d.go", i), it.Item, "report keeps listing order")
	}
	assert.Equal(t, model.OutcomeSkipped, res.Report.Items[3].Outcome)
}

func TestAnalyzeRepository_StampsEvenWhenNothingSucceeds(t *testing.T) {
	ctx := context.Background()
	gh := &fakeGithub{entries: []model.ContentEntry{file("a.go")}}
	stub := &llmtest.Stub{Replies: []llmtest.Reply{{Err: errors.New("model overloaded")}}}
	store := new(mocks.Store)
	repo := database.Repository{ID: 9}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.On("GetRepositoryByFullName", ctx, "octo/a").Return(repo, nil).Once()
	store.On("SetRepositoryLastAnalyzed", ctx, database.SetRepositoryLastAnalyzedParams{ID: 9, LastAnalyzed: now}).
		Return(database.Repository{ID: 9, LastAnalyzed: &now}, nil).Once()

	a := New(store, gh, stub, testLogger(), 1)
	a.now = func() time.Time { return now }
	res, err := a.AnalyzeRepository(ctx, "octo", "a", "")

	require.NoError(t, err)
	assert.Equal(t, 0, res.AnalyzedFiles)
	assert.Empty(t, res.AnalysisResults)
	assert.Equal(t, 1, res.Report.Skipped)
	assert.Equal(t, &now, res.Repository.LastAnalyzed)
	store.AssertNotCalled(t, "CreateCodeAnalysis", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestAnalyzeRepository_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("repository not synced", func(t *testing.T) {
		gh := &fakeGithub{}
		store := new(mocks.Store)
		store.On("GetRepositoryByFullName", ctx, "octo/missing").Return(database.Repository{}, pgx.ErrNoRows).Once()

		_, err := New(store, gh, &llmtest.Stub{}, testLogger(), 1).AnalyzeRepository(ctx, "octo", "missing", "")

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Empty(t, gh.downloads)
	})

	t.Run("listing failure aborts without stamping", func(t *testing.T) {
		upstream := apperrors.Upstream("github", "list", errors.New("500"))
		gh := &fakeGithub{listErr: upstream}
		store := new(mocks.Store)
		store.On("GetRepositoryByFullName", ctx, "octo/a").Return(database.Repository{ID: 9}, nil).Once()

		_, err := New(store, gh, &llmtest.Stub{}, testLogger(), 1).AnalyzeRepository(ctx, "octo", "a", "")

		assert.True(t, apperrors.IsUpstream(err))
		store.AssertNotCalled(t, "SetRepositoryLastAnalyzed", mock.Anything, mock.Anything)
	})

	t.Run("cancelled context stops the batch", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		gh := &fakeGithub{entries: []model.ContentEntry{file("a.go"), file("b.go")}}
		store := new(mocks.Store)
		store.On("GetRepositoryByFullName", cctx, "octo/a").Return(database.Repository{ID: 9}, nil).Once()

		_, err := New(store, gh, &llmtest.Stub{}, testLogger(), 1).AnalyzeRepository(cctx, "octo", "a", "")

		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, gh.downloads)
		store.AssertNotCalled(t, "SetRepositoryLastAnalyzed", mock.Anything, mock.Anything)
	})

	t.Run("missing repo name", func(t *testing.T) {
		_, err := New(new(mocks.Store), &fakeGithub{}, &llmtest.Stub{}, testLogger(), 1).AnalyzeRepository(ctx, "octo", "", "")
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestParseAnalysis(t *testing.T) {
	p, ok := parseAnalysis(`{"foo": 1}`)
	assert.False(t, ok, "an object without analysis fields is not an analysis")
	assert.Equal(t, "Analysis completed", p.AnalysisSummary)

	p, ok = parseAnalysis(`{"analysis_summary": "no score"}`)
	assert.True(t, ok)
	assert.Nil(t, p.ComplexityScore)
}
