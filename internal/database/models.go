// internal/database/models.go
package database

import "time"

type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	GithubID    int64     `json:"github_id"`
	AvatarUrl   *string   `json:"avatar_url"`
	Bio         *string   `json:"bio"`
	Location    *string   `json:"location"`
	Company     *string   `json:"company"`
	Blog        *string   `json:"blog"`
	PublicRepos int32     `json:"public_repos"`
	Followers   int32     `json:"followers"`
	Following   int32     `json:"following"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Repository struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	GithubRepoID  int64      `json:"github_repo_id"`
	RepoName      string     `json:"repo_name"`
	FullName      string     `json:"full_name"`
	Description   *string    `json:"description"`
	Language      *string    `json:"language"`
	Stars         int32      `json:"stars"`
	Forks         int32      `json:"forks"`
	Size          int32      `json:"size"`
	DefaultBranch string     `json:"default_branch"`
	IsPrivate     bool       `json:"is_private"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastAnalyzed  *time.Time `json:"last_analyzed"`
}

// LanguageOr returns the repository language or def when it is unknown.
func (r Repository) LanguageOr(def string) string {
	if r.Language == nil || *r.Language == "" {
		return def
	}
	return *r.Language
}

type CodeAnalysis struct {
	ID                    int64     `json:"id"`
	RepositoryID          int64     `json:"repository_id"`
	FilePath              string    `json:"file_path"`
	Language              *string   `json:"language"`
	LinesOfCode           int32     `json:"lines_of_code"`
	ComplexityScore       *float64  `json:"complexity_score"`
	PatternsDetected      []string  `json:"patterns_detected"`
	BugsFound             []string  `json:"bugs_found"`
	ImprovementsSuggested []string  `json:"improvements_suggested"`
	AnalysisSummary       string    `json:"analysis_summary"`
	CreatedAt             time.Time `json:"created_at"`
}

type Suggestion struct {
	ID             int64      `json:"id"`
	RepositoryID   int64      `json:"repository_id"`
	Category       string     `json:"category"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Priority       string     `json:"priority"`
	Difficulty     string     `json:"difficulty"`
	EstimatedHours int32      `json:"estimated_hours"`
	Tags           []string   `json:"tags"`
	Rationale      string     `json:"rationale"`
	Wisdom         string     `json:"wisdom"`
	IssueUrl       *string    `json:"issue_url"`
	IsImplemented  bool       `json:"is_implemented"`
	GeneratedAt    time.Time  `json:"generated_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

type Story struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id"`
	RepositoryID    int64      `json:"repository_id"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	Personality     string     `json:"personality"`
	StoryType       string     `json:"story_type"`
	Tone            string     `json:"tone"`
	EasterEggs      []string   `json:"easter_eggs"`
	EngagementHooks []string   `json:"engagement_hooks"`
	Hashtags        []string   `json:"hashtags"`
	IsPublished     bool       `json:"is_published"`
	PublishedUrl    *string    `json:"published_url"`
	PublishedAt     *time.Time `json:"published_at"`
	GeneratedAt     time.Time  `json:"generated_at"`
}

type Personality struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Traits       []string  `json:"traits"`
	Catchphrases []string  `json:"catchphrases"`
	StoryStyle   string    `json:"story_style"`
	EmojiSet     []string  `json:"emoji_set"`
	CreatedAt    time.Time `json:"created_at"`
}

type Asset struct {
	ID            int64     `json:"id"`
	AssetName     string    `json:"asset_name"`
	AssetType     string    `json:"asset_type"`
	StorageKey    string    `json:"storage_key"`
	PersonalityID *int64    `json:"personality_id"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"created_at"`
}
