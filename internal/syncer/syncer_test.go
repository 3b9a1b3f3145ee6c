// internal/syncer/syncer_test.go
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"repo-storyteller/internal/database"
	"repo-storyteller/internal/database/mocks"
	apperrors "repo-storyteller/internal/errors"
	"repo-storyteller/internal/model"
)

// fakeGithub serves a fixed profile and repository pages. pageErr, when set, is returned
// instead of the page at index failPage.
type fakeGithub struct {
	user     *model.GithubUser
	userErr  error
	pages    [][]model.GithubRepository
	failPage int
	pageErr  error

	gotPrivate bool
	gotLimit   int
}

func (f *fakeGithub) GetUser(ctx context.Context, username string) (*model.GithubUser, error) {
	return f.user, f.userErr
}

func (f *fakeGithub) ListUserRepositories(ctx context.Context, username string, includePrivate bool, limit int, fn func([]model.GithubRepository) error) error {
	f.gotPrivate, f.gotLimit = includePrivate, limit
	for i, page := range f.pages {
		if f.pageErr != nil && i == f.failPage {
			return f.pageErr
		}
		if err := fn(page); err != nil {
			return err
		}
	}
	return nil
}

type recorder struct{ errs []error }

func (r *recorder) RecordSync(err error) { r.errs = append(r.errs, err) }

func newTestSyncer(t *testing.T, store database.Store, gh GithubClient) *Syncer {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := NewSyncer(store, gh, logger, nil, 0, 0)
	require.NoError(t, err)
	return s
}

func strPtr(s string) *string { return &s }

func TestSyncer_SyncUser(t *testing.T) {
	ctx := context.Background()
	ghUser := &model.GithubUser{GithubID: 7, Username: "octo", Bio: strPtr("hi"), Followers: 3}
	repoA := model.GithubRepository{GithubRepoID: 1, Owner: "octo", Name: "a", FullName: "octo/a", StarsCount: 5, DefaultBranch: "main"}
	repoB := model.GithubRepository{GithubRepoID: 2, Owner: "octo", Name: "b", FullName: "octo/b", DefaultBranch: "main"}

	t.Run("creates user and repositories on first sync", func(t *testing.T) {
		store := new(mocks.Store)
		gh := &fakeGithub{user: ghUser, pages: [][]model.GithubRepository{{repoA}, {repoB}}}
		rec := &recorder{}
		s := newTestSyncer(t, store, gh).WithRecorder(rec)

		store.On("GetUserByUsername", ctx, "octo").Return(database.User{}, pgx.ErrNoRows).Once()
		store.On("CreateUser", ctx, mock.MatchedBy(func(p database.CreateUserParams) bool {
			return p.Username == "octo" && p.GithubID == 7 && p.Followers == 3
		})).Return(database.User{ID: 10, Username: "octo", GithubID: 7}, nil).Once()
		store.On("GetRepositoryByFullName", ctx, mock.Anything).Return(database.Repository{}, pgx.ErrNoRows).Twice()
		store.On("CreateRepository", ctx, mock.MatchedBy(func(p database.CreateRepositoryParams) bool {
			return p.FullName == "octo/a" && p.UserID == 10 && p.Stars == 5
		})).Return(database.Repository{ID: 100, FullName: "octo/a"}, nil).Once()
		store.On("CreateRepository", ctx, mock.MatchedBy(func(p database.CreateRepositoryParams) bool {
			return p.FullName == "octo/b"
		})).Return(database.Repository{ID: 101, FullName: "octo/b"}, nil).Once()

		res, err := s.SyncUser(ctx, " octo ", true)

		require.NoError(t, err)
		assert.Equal(t, int64(10), res.User.ID)
		assert.Equal(t, 2, res.SyncedCount)
		assert.Equal(t, "octo/b", res.Repositories[1].FullName)
		assert.True(t, gh.gotPrivate)
		assert.Equal(t, []error{nil}, rec.errs)
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "UpdateUserProfile", mock.Anything, mock.Anything)
	})

	t.Run("updates only mutable fields on re-sync", func(t *testing.T) {
		store := new(mocks.Store)
		gh := &fakeGithub{user: ghUser, pages: [][]model.GithubRepository{{repoA}}}
		s := newTestSyncer(t, store, gh)

		store.On("GetUserByUsername", ctx, "octo").Return(database.User{ID: 10, Username: "octo", GithubID: 7}, nil).Once()
		store.On("UpdateUserProfile", ctx, mock.MatchedBy(func(p database.UpdateUserProfileParams) bool {
			return p.ID == 10 && p.Bio != nil && *p.Bio == "hi"
		})).Return(database.User{ID: 10, Username: "octo", GithubID: 7, Bio: strPtr("hi")}, nil).Once()
		store.On("GetRepositoryByFullName", ctx, "octo/a").Return(database.Repository{ID: 100, FullName: "octo/a"}, nil).Once()
		store.On("UpdateRepositoryMetrics", ctx, mock.MatchedBy(func(p database.UpdateRepositoryMetricsParams) bool {
			return p.ID == 100 && p.Stars == 5
		})).Return(database.Repository{ID: 100, FullName: "octo/a", Stars: 5}, nil).Once()

		res, err := s.SyncUser(ctx, "octo", false)

		require.NoError(t, err)
		assert.Equal(t, 1, res.SyncedCount)
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "CreateRepository", mock.Anything, mock.Anything)
	})

	t.Run("writes nothing when the profile fetch fails", func(t *testing.T) {
		store := new(mocks.Store)
		upstream := apperrors.Upstream("github", "get user octo", errors.New("502"))
		gh := &fakeGithub{userErr: upstream}
		rec := &recorder{}
		s := newTestSyncer(t, store, gh).WithRecorder(rec)

		_, err := s.SyncUser(ctx, "octo", false)

		assert.True(t, apperrors.IsUpstream(err))
		assert.Len(t, rec.errs, 1)
		store.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "GetUserByUsername", mock.Anything, mock.Anything)
	})

	t.Run("keeps repositories committed before a later page fails", func(t *testing.T) {
		store := new(mocks.Store)
		pageErr := apperrors.Upstream("github", "list repositories", errors.New("503"))
		gh := &fakeGithub{user: ghUser, pages: [][]model.GithubRepository{{repoA}, {repoB}}, failPage: 1, pageErr: pageErr}
		s := newTestSyncer(t, store, gh)

		store.On("GetUserByUsername", ctx, "octo").Return(database.User{ID: 10}, nil).Once()
		store.On("UpdateUserProfile", ctx, mock.Anything).Return(database.User{ID: 10}, nil).Once()
		store.On("GetRepositoryByFullName", ctx, "octo/a").Return(database.Repository{}, pgx.ErrNoRows).Once()
		store.On("CreateRepository", ctx, mock.Anything).Return(database.Repository{ID: 100}, nil).Once()

		_, err := s.SyncUser(ctx, "octo", false)

		assert.ErrorIs(t, err, pageErr)
		store.AssertNumberOfCalls(t, "CreateRepository", 1)
	})

	t.Run("rejects a missing username", func(t *testing.T) {
		s := newTestSyncer(t, new(mocks.Store), &fakeGithub{})

		_, err := s.SyncUser(ctx, "  ", false)

		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestSyncer_UpsertRepository_DatabaseError(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.Store)
	s := newTestSyncer(t, store, &fakeGithub{})
	dbError := errors.New("unexpected database error")

	store.On("GetRepositoryByFullName", ctx, "octo/a").Return(database.Repository{}, dbError).Once()

	_, err := s.upsertRepository(ctx, store, 1, model.GithubRepository{FullName: "octo/a"})

	assert.Equal(t, dbError, err)
	store.AssertNotCalled(t, "CreateRepository", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "UpdateRepositoryMetrics", mock.Anything, mock.Anything)
}

func TestSyncer_ListRepositories(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults and filters", func(t *testing.T) {
		store := new(mocks.Store)
		s := newTestSyncer(t, store, &fakeGithub{})
		store.On("GetUserByUsername", ctx, "octo").Return(database.User{ID: 10}, nil).Once()
		store.On("ListRepositoriesByUser", ctx, mock.MatchedBy(func(p database.ListRepositoriesByUserParams) bool {
			return p.UserID == 10 && p.SortBy == "stars" && p.Limit == 100 && p.Language != nil && *p.Language == "Go"
		})).Return([]database.Repository{{ID: 1}}, nil).Once()

		repos, err := s.ListRepositories(ctx, "octo", "Go", "stars", 500, 0)

		require.NoError(t, err)
		assert.Len(t, repos, 1)
		store.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		store := new(mocks.Store)
		s := newTestSyncer(t, store, &fakeGithub{})
		store.On("GetUserByUsername", ctx, "ghost").Return(database.User{}, pgx.ErrNoRows).Once()

		_, err := s.ListRepositories(ctx, "ghost", "", "", 0, 0)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("invalid sort", func(t *testing.T) {
		s := newTestSyncer(t, new(mocks.Store), &fakeGithub{})

		_, err := s.ListRepositories(ctx, "octo", "", "forks", 0, 0)

		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestParseUsernames(t *testing.T) {
	names, err := parseUsernames([]string{" octo ", "", "hubot"})
	require.NoError(t, err)
	assert.Equal(t, []string{"octo", "hubot"}, names)

	_, err = parseUsernames([]string{"octo/repo"})
	assert.True(t, apperrors.IsValidation(err))
}
