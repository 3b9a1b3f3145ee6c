// internal/github/client.go
package github

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/oauth2"

	apperrors "repo-storyteller/internal/errors"
	"repo-storyteller/internal/model"
	"repo-storyteller/internal/retry"
)

const (
	maxRetries       = 3
	perPage          = 100
	defaultCacheSize = 512
	// go-github refuses to send requests until the reset instant has passed.
	rateLimitMargin = 250 * time.Millisecond
)

// Client is a wrapper around the go-github client.
type Client struct {
	gh     *github.Client
	logger *slog.Logger
	retry  retry.Config
	// blob SHA -> file content
	cache *lru.Cache[string, string]
}

// NewClient creates and configures a new Client instance.
// An empty token yields an unauthenticated client.
func NewClient(token string, cacheSize int, logger *slog.Logger) *Client {
	var tc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc = oauth2.NewClient(context.Background(), ts)
	}

	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, string](cacheSize)

	cfg := retry.DefaultConfig(classify)
	cfg.MaxAttempts = maxRetries

	return &Client{
		gh:     github.NewClient(tc),
		logger: logger,
		retry:  cfg,
		cache:  cache,
	}
}

// GetUser fetches a user profile.
func (c *Client) GetUser(ctx context.Context, username string) (*model.GithubUser, error) {
	var user *github.User
	err := retry.Do(ctx, c.retry, func(ctx context.Context) error {
		var err error
		user, _, err = c.gh.Users.Get(ctx, username)
		return err
	})
	if err != nil {
		return nil, apperrors.Upstream("github", "get user "+username, err)
	}
	return toInternalUser(user), nil
}

// ListUserRepositories pages through the repositories of username, 100 per page, and hands each
// page to fn before the next one is requested. Listing stops after limit repositories when
// limit > 0. Private repositories are dropped unless includePrivate is set.
func (c *Client) ListUserRepositories(ctx context.Context, username string, includePrivate bool, limit int, fn func([]model.GithubRepository) error) error {
	opts := &github.RepositoryListByUserOptions{
		Type:        "owner",
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	if includePrivate {
		opts.Type = "all"
	}

	seen := 0
	for {
		c.logger.Debug("Fetching repositories page", "username", username, "page", opts.Page)

		var (
			repos []*github.Repository
			resp  *github.Response
		)
		err := retry.Do(ctx, c.retry, func(ctx context.Context) error {
			var err error
			repos, resp, err = c.gh.Repositories.ListByUser(ctx, username, opts)
			return err
		})
		if err != nil {
			return apperrors.Upstream("github", "list repositories of "+username, err)
		}

		page := make([]model.GithubRepository, 0, len(repos))
		for _, r := range repos {
			if r.GetPrivate() && !includePrivate {
				continue
			}
			if limit > 0 && seen == limit {
				break
			}
			page = append(page, toInternalRepository(r))
			seen++
		}
		if len(page) > 0 {
			if err := fn(page); err != nil {
				return err
			}
		}

		if resp.NextPage == 0 || (limit > 0 && seen >= limit) {
			return nil
		}
		opts.Page = resp.NextPage
	}
}

// ListDirectory lists the entries of path at ref, in the order GitHub returns them.
func (c *Client) ListDirectory(ctx context.Context, owner, repo, path, ref string) ([]model.ContentEntry, error) {
	var dir []*github.RepositoryContent
	err := retry.Do(ctx, c.retry, func(ctx context.Context) error {
		var (
			file *github.RepositoryContent
			err  error
		)
		file, dir, _, err = c.gh.Repositories.GetContents(ctx, owner, repo, path, &github.RepositoryContentGetOptions{Ref: ref})
		if err == nil && file != nil {
			dir = []*github.RepositoryContent{file}
		}
		return err
	})
	if err != nil {
		return nil, apperrors.Upstream("github", fmt.Sprintf("list %s/%s:%s", owner, repo, path), err)
	}

	entries := make([]model.ContentEntry, 0, len(dir))
	for _, e := range dir {
		entries = append(entries, model.ContentEntry{
			Name:        e.GetName(),
			Path:        e.GetPath(),
			Type:        e.GetType(),
			SHA:         e.GetSHA(),
			Size:        e.GetSize(),
			DownloadURL: e.GetDownloadURL(),
		})
	}
	return entries, nil
}

// GetFileContent downloads the raw content of a file entry. Content is cached by blob SHA.
func (c *Client) GetFileContent(ctx context.Context, entry model.ContentEntry) (string, error) {
	if !entry.IsFile() {
		return "", &apperrors.ValidationError{Field: "entry", Reason: entry.Path + " is not a downloadable file"}
	}
	if entry.SHA != "" {
		if content, ok := c.cache.Get(entry.SHA); ok {
			return content, nil
		}
	}

	var buf bytes.Buffer
	err := retry.Do(ctx, c.retry, func(ctx context.Context) error {
		buf.Reset()
		req, err := c.gh.NewRequest(http.MethodGet, entry.DownloadURL, nil)
		if err != nil {
			return err
		}
		_, err = c.gh.Do(ctx, req, &buf)
		return err
	})
	if err != nil {
		return "", apperrors.Upstream("github", "download "+entry.Path, err)
	}

	content := buf.String()
	if entry.SHA != "" {
		c.cache.Add(entry.SHA, content)
	}
	return content, nil
}

// classify retries rate limits after their reset, server errors and transport failures.
func classify(err error) (bool, time.Duration) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false, 0
	}

	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		return true, time.Until(rle.Rate.Reset.Time) + rateLimitMargin
	}
	var abuse *github.AbuseRateLimitError
	if errors.As(err, &abuse) {
		return true, abuse.GetRetryAfter()
	}
	var er *github.ErrorResponse
	if errors.As(err, &er) {
		return er.Response != nil && er.Response.StatusCode >= http.StatusInternalServerError, 0
	}
	// network failure, no response at all
	return true, 0
}

func toInternalUser(u *github.User) *model.GithubUser {
	return &model.GithubUser{
		GithubID:    u.GetID(),
		Username:    u.GetLogin(),
		AvatarURL:   nonEmpty(u.AvatarURL),
		Bio:         nonEmpty(u.Bio),
		Location:    nonEmpty(u.Location),
		Company:     nonEmpty(u.Company),
		Blog:        nonEmpty(u.Blog),
		PublicRepos: u.GetPublicRepos(),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
	}
}

// toInternalRepository translates a github.Repository object to our internal model.
func toInternalRepository(r *github.Repository) model.GithubRepository {
	branch := r.GetDefaultBranch()
	if branch == "" {
		branch = "main"
	}
	return model.GithubRepository{
		GithubRepoID:  r.GetID(),
		Owner:         r.GetOwner().GetLogin(),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		Description:   nonEmpty(r.Description),
		Language:      nonEmpty(r.Language),
		StarsCount:    r.GetStargazersCount(),
		ForksCount:    r.GetForksCount(),
		Size:          r.GetSize(),
		DefaultBranch: branch,
		Private:       r.GetPrivate(),
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
