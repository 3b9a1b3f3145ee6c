// internal/syncer/syncer.go
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"repo-storyteller/internal/database"
	apperrors "repo-storyteller/internal/errors"
	"repo-storyteller/internal/model"
)

const (
	// Number of users to sync in parallel during a background cycle
	concurrency = 5

	defaultListLimit = 20
	maxListLimit     = 100
)

// GithubClient is the part of the GitHub adapter the syncer depends on.
type GithubClient interface {
	GetUser(ctx context.Context, username string) (*model.GithubUser, error)
	ListUserRepositories(ctx context.Context, username string, includePrivate bool, limit int, fn func([]model.GithubRepository) error) error
}

// SyncRecorder is notified of every finished user synchronisation.
type SyncRecorder interface {
	RecordSync(err error)
}

// Result is the outcome of one user synchronisation.
type Result struct {
	User         database.User         `json:"user"`
	Repositories []database.Repository `json:"repositories"`
	SyncedCount  int                   `json:"synced_count"`
}

// Syncer reconciles GitHub users and their repositories into the database.
type Syncer struct {
	store        database.Store
	ghClient     GithubClient
	logger       *slog.Logger
	recorder     SyncRecorder
	usersToSync  []string
	syncInterval time.Duration
	maxRepos     int
}

// NewSyncer creates a new Syncer instance. users and interval drive the background loop
// started by Start; maxRepos caps how many repositories one sync reads (0 = no cap).
func NewSyncer(store database.Store, ghClient GithubClient, logger *slog.Logger, users []string, interval time.Duration, maxRepos int) (*Syncer, error) {
	parsedUsers, err := parseUsernames(users)
	if err != nil {
		return nil, err
	}

	return &Syncer{
		store:        store,
		ghClient:     ghClient,
		logger:       logger,
		usersToSync:  parsedUsers,
		syncInterval: interval,
		maxRepos:     maxRepos,
	}, nil
}

// WithRecorder attaches a metrics recorder.
func (s *Syncer) WithRecorder(r SyncRecorder) *Syncer {
	s.recorder = r
	return s
}

// SyncUser fetches the profile and repositories of username and upserts them. The profile is
// read before anything is written, so an unknown user leaves the database untouched. Each
// repository is committed on its own; when a later listing page fails, the repositories
// already written stay.
func (s *Syncer) SyncUser(ctx context.Context, username string, includePrivate bool) (res *Result, err error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.Missing("username")
	}
	if s.recorder != nil {
		defer func() { s.recorder.RecordSync(err) }()
	}

	logger := s.logger.With("username", username)
	logger.Info("Syncing user", "include_private", includePrivate)

	ghUser, err := s.ghClient.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}

	var user database.User
	err = s.store.ExecTx(ctx, func(q database.Querier) error {
		var err error
		user, err = s.upsertUser(ctx, q, ghUser)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger = logger.With("user_id", user.ID)

	repos := []database.Repository{}
	err = s.ghClient.ListUserRepositories(ctx, username, includePrivate, s.maxRepos, func(page []model.GithubRepository) error {
		for _, r := range page {
			var repo database.Repository
			err := s.store.ExecTx(ctx, func(q database.Querier) error {
				var err error
				repo, err = s.upsertRepository(ctx, q, user.ID, r)
				return err
			})
			if err != nil {
				return err
			}
			repos = append(repos, repo)
		}
		logger.Debug("Synced repositories page", "count", len(page))
		return nil
	})
	if err != nil {
		logger.Error("Repository sync aborted", "synced_before_failure", len(repos), "error", err)
		return nil, err
	}

	logger.Info("User synced", "repositories", len(repos))
	return &Result{User: user, Repositories: repos, SyncedCount: len(repos)}, nil
}

// ListRepositories returns the stored repositories of username. sortBy is "updated_at" or "stars".
func (s *Syncer) ListRepositories(ctx context.Context, username, language, sortBy string, limit, offset int) ([]database.Repository, error) {
	switch sortBy {
	case "":
		sortBy = "updated_at"
	case "updated_at", "stars":
	default:
		return nil, &apperrors.ValidationError{Field: "sort_by", Reason: "must be updated_at or stars"}
	}
	if offset < 0 {
		return nil, &apperrors.ValidationError{Field: "offset", Reason: "must not be negative"}
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	user, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("user", username)
	} else if err != nil {
		return nil, err
	}

	arg := database.ListRepositoriesByUserParams{
		UserID: user.ID,
		SortBy: sortBy,
		Limit:  int32(limit),
		Offset: int32(offset),
	}
	if language != "" {
		arg.Language = &language
	}
	return s.store.ListRepositoriesByUser(ctx, arg)
}

// Start begins the periodic re-synchronisation of the configured users.
func (s *Syncer) Start(ctx context.Context) {
	if len(s.usersToSync) == 0 || s.syncInterval <= 0 {
		s.logger.Info("Background sync disabled")
		return
	}
	s.logger.Info("Starting syncer", "interval", s.syncInterval.String(), "users", len(s.usersToSync), "concurrency", concurrency)
	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()

	s.runSyncCycle(ctx) // Initial sync

	for {
		select {
		case <-ticker.C:
			s.runSyncCycle(ctx)
		case <-ctx.Done():
			s.logger.Info("Syncer shutting down", "reason", ctx.Err())
			return
		}
	}
}

// runSyncCycle synchronises all configured users concurrently. One failing user does not stop the others.
func (s *Syncer) runSyncCycle(ctx context.Context) {
	s.logger.Info("Starting new sync cycle")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, username := range s.usersToSync {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			_, err := s.SyncUser(gctx, username, false)
			if err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("Failed to sync user", "username", username, "error", err)
			}
			return nil
		})
	}

	_ = g.Wait()
	s.logger.Info("Sync cycle finished")
}

// upsertUser creates the user or refreshes its mutable profile fields.
func (s *Syncer) upsertUser(ctx context.Context, q database.Querier, u *model.GithubUser) (database.User, error) {
	existing, err := q.GetUserByUsername(ctx, u.Username)

	if errors.Is(err, pgx.ErrNoRows) {
		s.logger.Info("User not found in DB, creating new entry", "username", u.Username)
		return q.CreateUser(ctx, database.CreateUserParams{
			Username:    u.Username,
			GithubID:    u.GithubID,
			AvatarUrl:   u.AvatarURL,
			Bio:         u.Bio,
			Location:    u.Location,
			Company:     u.Company,
			Blog:        u.Blog,
			PublicRepos: nonNegative(u.PublicRepos),
			Followers:   nonNegative(u.Followers),
			Following:   nonNegative(u.Following),
		})
	} else if err != nil {
		return database.User{}, err
	}

	return q.UpdateUserProfile(ctx, database.UpdateUserProfileParams{
		ID:          existing.ID,
		AvatarUrl:   u.AvatarURL,
		Bio:         u.Bio,
		Location:    u.Location,
		Company:     u.Company,
		Blog:        u.Blog,
		PublicRepos: nonNegative(u.PublicRepos),
		Followers:   nonNegative(u.Followers),
		Following:   nonNegative(u.Following),
	})
}

// upsertRepository creates a repository or updates its metrics, keyed by full name.
func (s *Syncer) upsertRepository(ctx context.Context, q database.Querier, userID int64, repo model.GithubRepository) (database.Repository, error) {
	existing, err := q.GetRepositoryByFullName(ctx, repo.FullName)

	if errors.Is(err, pgx.ErrNoRows) {
		s.logger.Debug("Repository not found in DB, creating new entry", "repo", repo.FullName)
		return q.CreateRepository(ctx, database.CreateRepositoryParams{
			UserID:        userID,
			GithubRepoID:  repo.GithubRepoID,
			RepoName:      repo.Name,
			FullName:      repo.FullName,
			Description:   repo.Description,
			Language:      repo.Language,
			Stars:         nonNegative(repo.StarsCount),
			Forks:         nonNegative(repo.ForksCount),
			Size:          nonNegative(repo.Size),
			DefaultBranch: repo.DefaultBranch,
			IsPrivate:     repo.Private,
		})
	} else if err != nil {
		return database.Repository{}, err
	}

	s.logger.Debug("Repository found in DB, updating metadata", "repo", repo.FullName)
	return q.UpdateRepositoryMetrics(ctx, database.UpdateRepositoryMetricsParams{
		ID:            existing.ID,
		Description:   repo.Description,
		Language:      repo.Language,
		Stars:         nonNegative(repo.StarsCount),
		Forks:         nonNegative(repo.ForksCount),
		Size:          nonNegative(repo.Size),
		DefaultBranch: repo.DefaultBranch,
		IsPrivate:     repo.Private,
	})
}

func parseUsernames(users []string) ([]string, error) {
	var names []string
	for _, u := range users {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if strings.ContainsAny(u, "/ ") {
			return nil, &apperrors.ValidationError{Field: "USERS_TO_SYNC", Reason: "invalid username " + strconv.Quote(u)}
		}
		names = append(names, u)
	}
	return names, nil
}

func nonNegative(n int) int32 {
	return int32(max(n, 0))
}
