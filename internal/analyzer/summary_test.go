package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repo-storyteller/internal/database"
	"repo-storyteller/internal/database/mocks"
	apperrors "repo-storyteller/internal/errors"
	"repo-storyteller/internal/llm/llmtest"
)

func score(f float64) *float64 { return &f }

func TestRepositorySummary(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.Store)
	store.On("GetRepositoryByID", ctx, int64(9)).Return(database.Repository{ID: 9, RepoName: "a"}, nil)
	analyses := []database.CodeAnalysis{
		{ComplexityScore: score(6), BugsFound: []string{"a", "b"}, ImprovementsSuggested: []string{"x"}},
		{ComplexityScore: score(8), BugsFound: []string{}, ImprovementsSuggested: []string{"y", "z"}},
	}
	threshold := DefaultComplexityThreshold
	store.On("ListCodeAnalysesAboveComplexity", ctx, database.ListCodeAnalysesAboveComplexityParams{RepositoryID: 9, MinScore: &threshold}).
		Return(analyses, nil).Once()
	store.On("ListCodeAnalysesAboveComplexity", ctx, database.ListCodeAnalysesAboveComplexityParams{RepositoryID: 9}).
		Return([]database.CodeAnalysis{}, nil).Once()

	a := New(store, &fakeGithub{}, &llmtest.Stub{}, testLogger(), 1)

	s, err := a.RepositorySummary(ctx, 9, false, DefaultComplexityThreshold)
	require.NoError(t, err)
	assert.Equal(t, "a", s.Repository.Name)
	assert.Equal(t, 2, s.AnalysisSummary.TotalFilesAnalyzed)
	assert.InDelta(t, 7.0, s.AnalysisSummary.AverageComplexity, 1e-9)
	assert.Equal(t, 2, s.AnalysisSummary.TotalBugsFound)
	assert.Equal(t, 3, s.AnalysisSummary.TotalImprovementsSuggested)
	assert.Nil(t, s.Files)

	s, err = a.RepositorySummary(ctx, 9, true, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.AnalysisSummary.AverageComplexity)
	assert.NotNil(t, s.Files)
	store.AssertExpectations(t)
}

func TestRepositorySummary_NotFound(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.Store)
	store.On("GetRepositoryByID", ctx, int64(404)).Return(database.Repository{}, pgx.ErrNoRows)

	_, err := New(store, &fakeGithub{}, &llmtest.Stub{}, testLogger(), 1).RepositorySummary(ctx, 404, false, 5)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDebugSnippet(t *testing.T) {
	ctx := context.Background()

	t.Run("parses the model answer", func(t *testing.T) {
		stub := &llmtest.Stub{Replies: []llmtest.Reply{{Text: `Here: {"issues": ["off by one"], "suggestions": [], "fixes": ["use <"]}`}}}
		a := New(new(mocks.Store), &fakeGithub{}, stub, testLogger(), 1)

		res, err := a.DebugSnippet(ctx, "for i := 0; i <= n; i++ {}", "Go", "loop")

		require.NoError(t, err)
		assert.False(t, res.Degraded)
		assert.Equal(t, []string{"off by one"}, res.DebugAnalysis.Issues)
		assert.Contains(t, stub.Requests()[0].Prompt, "in loop context")
	})

	t.Run("falls back on prose", func(t *testing.T) {
		stub := &llmtest.Stub{Replies: []llmtest.Reply{{Text: "Looks fine to me."}}}
		a := New(new(mocks.Store), &fakeGithub{}, stub, testLogger(), 1)

		res, err := a.DebugSnippet(ctx, "x := 1", "Go", "")

		require.NoError(t, err)
		assert.True(t, res.Degraded)
		assert.Equal(t, []string{"Code analysis completed"}, res.DebugAnalysis.Issues)
		assert.Equal(t, "x := 1...", res.CodeSnippet)
	})

	t.Run("inference failure is an upstream error", func(t *testing.T) {
		stub := &llmtest.Stub{Replies: []llmtest.Reply{{Err: errors.New("503")}}}
		a := New(new(mocks.Store), &fakeGithub{}, stub, testLogger(), 1)

		_, err := a.DebugSnippet(ctx, "x := 1", "Go", "")

		assert.True(t, apperrors.IsUpstream(err))
	})

	t.Run("requires code", func(t *testing.T) {
		_, err := New(new(mocks.Store), &fakeGithub{}, &llmtest.Stub{}, testLogger(), 1).DebugSnippet(ctx, " ", "Go", "")
		assert.True(t, apperrors.IsValidation(err))
	})
}
