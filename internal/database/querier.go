// internal/database/querier.go
package database

import (
	"context"
)

type Querier interface {
	CreateAsset(ctx context.Context, arg CreateAssetParams) (Asset, error)
	CreateCodeAnalysis(ctx context.Context, arg CreateCodeAnalysisParams) (CodeAnalysis, error)
	CreatePersonalityIfAbsent(ctx context.Context, arg CreatePersonalityIfAbsentParams) (int64, error)
	CreateRepository(ctx context.Context, arg CreateRepositoryParams) (Repository, error)
	CreateStory(ctx context.Context, arg CreateStoryParams) (Story, error)
	CreateSuggestion(ctx context.Context, arg CreateSuggestionParams) (Suggestion, error)
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	GetAsset(ctx context.Context, id int64) (Asset, error)
	GetRepositoryByFullName(ctx context.Context, fullName string) (Repository, error)
	GetRepositoryByID(ctx context.Context, id int64) (Repository, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	ListAssetsByPersonality(ctx context.Context, personalityID int64) ([]Asset, error)
	ListCodeAnalysesAboveComplexity(ctx context.Context, arg ListCodeAnalysesAboveComplexityParams) ([]CodeAnalysis, error)
	ListPersonalities(ctx context.Context) ([]Personality, error)
	ListRecentCodeAnalyses(ctx context.Context, arg ListRecentCodeAnalysesParams) ([]CodeAnalysis, error)
	ListRepositoriesByUser(ctx context.Context, arg ListRepositoriesByUserParams) ([]Repository, error)
	ListStoriesByUser(ctx context.Context, arg ListStoriesByUserParams) ([]Story, error)
	ListSuggestions(ctx context.Context, arg ListSuggestionsParams) ([]Suggestion, error)
	PublishStory(ctx context.Context, arg PublishStoryParams) (Story, error)
	SetRepositoryLastAnalyzed(ctx context.Context, arg SetRepositoryLastAnalyzedParams) (Repository, error)
	SetSuggestionImplemented(ctx context.Context, arg SetSuggestionImplementedParams) (Suggestion, error)
	UpdateRepositoryMetrics(ctx context.Context, arg UpdateRepositoryMetricsParams) (Repository, error)
	UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) (User, error)
}

var _ Querier = (*Queries)(nil)
