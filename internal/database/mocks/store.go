// internal/database/mocks/store.go
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"repo-storyteller/internal/database"
)

// Store is a testify mock of database.Store. ExecTx runs fn against the mock itself.
type Store struct {
	mock.Mock
}

var _ database.Store = (*Store)(nil)

func (m *Store) ExecTx(ctx context.Context, fn func(database.Querier) error) error {
	return fn(m)
}

func (m *Store) CreateAsset(ctx context.Context, arg database.CreateAssetParams) (database.Asset, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Asset), args.Error(1)
}

func (m *Store) CreateCodeAnalysis(ctx context.Context, arg database.CreateCodeAnalysisParams) (database.CodeAnalysis, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.CodeAnalysis), args.Error(1)
}

func (m *Store) CreatePersonalityIfAbsent(ctx context.Context, arg database.CreatePersonalityIfAbsentParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) CreateRepository(ctx context.Context, arg database.CreateRepositoryParams) (database.Repository, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Repository), args.Error(1)
}

func (m *Store) CreateStory(ctx context.Context, arg database.CreateStoryParams) (database.Story, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Story), args.Error(1)
}

func (m *Store) CreateSuggestion(ctx context.Context, arg database.CreateSuggestionParams) (database.Suggestion, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Suggestion), args.Error(1)
}

func (m *Store) CreateUser(ctx context.Context, arg database.CreateUserParams) (database.User, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.User), args.Error(1)
}

func (m *Store) GetAsset(ctx context.Context, id int64) (database.Asset, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(database.Asset), args.Error(1)
}

func (m *Store) GetRepositoryByFullName(ctx context.Context, fullName string) (database.Repository, error) {
	args := m.Called(ctx, fullName)
	return args.Get(0).(database.Repository), args.Error(1)
}

func (m *Store) GetRepositoryByID(ctx context.Context, id int64) (database.Repository, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(database.Repository), args.Error(1)
}

func (m *Store) GetUserByID(ctx context.Context, id int64) (database.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(database.User), args.Error(1)
}

func (m *Store) GetUserByUsername(ctx context.Context, username string) (database.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(database.User), args.Error(1)
}

func (m *Store) ListAssetsByPersonality(ctx context.Context, personalityID int64) ([]database.Asset, error) {
	args := m.Called(ctx, personalityID)
	return args.Get(0).([]database.Asset), args.Error(1)
}

func (m *Store) ListCodeAnalysesAboveComplexity(ctx context.Context, arg database.ListCodeAnalysesAboveComplexityParams) ([]database.CodeAnalysis, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]database.CodeAnalysis), args.Error(1)
}

func (m *Store) ListPersonalities(ctx context.Context) ([]database.Personality, error) {
	args := m.Called(ctx)
	return args.Get(0).([]database.Personality), args.Error(1)
}

func (m *Store) ListRecentCodeAnalyses(ctx context.Context, arg database.ListRecentCodeAnalysesParams) ([]database.CodeAnalysis, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]database.CodeAnalysis), args.Error(1)
}

func (m *Store) ListRepositoriesByUser(ctx context.Context, arg database.ListRepositoriesByUserParams) ([]database.Repository, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]database.Repository), args.Error(1)
}

func (m *Store) ListStoriesByUser(ctx context.Context, arg database.ListStoriesByUserParams) ([]database.Story, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]database.Story), args.Error(1)
}

func (m *Store) ListSuggestions(ctx context.Context, arg database.ListSuggestionsParams) ([]database.Suggestion, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]database.Suggestion), args.Error(1)
}

func (m *Store) PublishStory(ctx context.Context, arg database.PublishStoryParams) (database.Story, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Story), args.Error(1)
}

func (m *Store) SetRepositoryLastAnalyzed(ctx context.Context, arg database.SetRepositoryLastAnalyzedParams) (database.Repository, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Repository), args.Error(1)
}

func (m *Store) SetSuggestionImplemented(ctx context.Context, arg database.SetSuggestionImplementedParams) (database.Suggestion, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Suggestion), args.Error(1)
}

func (m *Store) UpdateRepositoryMetrics(ctx context.Context, arg database.UpdateRepositoryMetricsParams) (database.Repository, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Repository), args.Error(1)
}

func (m *Store) UpdateUserProfile(ctx context.Context, arg database.UpdateUserProfileParams) (database.User, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.User), args.Error(1)
}
