// internal/model/models.go
package model

// GithubUser is the profile of a GitHub account as returned by the hosting service.
type GithubUser struct {
	GithubID    int64
	Username    string
	AvatarURL   *string
	Bio         *string
	Location    *string
	Company     *string
	Blog        *string
	PublicRepos int
	Followers   int
	Following   int
}

// GithubRepository represents the metadata of a GitHub repository.
type GithubRepository struct {
	GithubRepoID  int64
	Owner         string
	Name          string
	FullName      string
	Description   *string
	Language      *string
	StarsCount    int
	ForksCount    int
	Size          int
	DefaultBranch string
	Private       bool
}

// ContentEntry is one item of a directory listing.
type ContentEntry struct {
	Name        string
	Path        string
	Type        string // "file", "dir", "symlink", "submodule"
	SHA         string
	Size        int
	DownloadURL string
}

// IsFile reports whether the entry is a regular file that can be downloaded.
func (e ContentEntry) IsFile() bool {
	return e.Type == "file" && e.DownloadURL != ""
}
