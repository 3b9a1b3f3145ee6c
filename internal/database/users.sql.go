// internal/database/users.sql.go
package database

import (
	"context"
)

const userColumns = `id, username, github_id, avatar_url, bio, location, company, blog, public_repos, followers, following, created_at, updated_at`

func scanUser(row scanner) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.GithubID,
		&i.AvatarUrl,
		&i.Bio,
		&i.Location,
		&i.Company,
		&i.Blog,
		&i.PublicRepos,
		&i.Followers,
		&i.Following,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (username, github_id, avatar_url, bio, location, company, blog, public_repos, followers, following)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + userColumns

type CreateUserParams struct {
	Username    string
	GithubID    int64
	AvatarUrl   *string
	Bio         *string
	Location    *string
	Company     *string
	Blog        *string
	PublicRepos int32
	Followers   int32
	Following   int32
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser,
		arg.Username,
		arg.GithubID,
		arg.AvatarUrl,
		arg.Bio,
		arg.Location,
		arg.Company,
		arg.Blog,
		arg.PublicRepos,
		arg.Followers,
		arg.Following,
	)
	return scanUser(row)
}

const getUserByID = `-- name: GetUserByID :one
SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByID, id))
}

const getUserByUsername = `-- name: GetUserByUsername :one
SELECT ` + userColumns + ` FROM users WHERE username = $1`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByUsername, username))
}

const updateUserProfile = `-- name: UpdateUserProfile :one
UPDATE users
SET avatar_url = $2, bio = $3, location = $4, company = $5, blog = $6,
    public_repos = $7, followers = $8, following = $9, updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns

// UpdateUserProfileParams carries only the mutable profile fields; username and
// github_id are identity and never change after creation.
type UpdateUserProfileParams struct {
	ID          int64
	AvatarUrl   *string
	Bio         *string
	Location    *string
	Company     *string
	Blog        *string
	PublicRepos int32
	Followers   int32
	Following   int32
}

func (q *Queries) UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) (User, error) {
	row := q.db.QueryRow(ctx, updateUserProfile,
		arg.ID,
		arg.AvatarUrl,
		arg.Bio,
		arg.Location,
		arg.Company,
		arg.Blog,
		arg.PublicRepos,
		arg.Followers,
		arg.Following,
	)
	return scanUser(row)
}
