package repositories

import (
	"context"
	"errors"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

var (
	// ErrFileNotFound is returned by GetFileContent when the path does not exist on the default branch.
	ErrFileNotFound = errors.New("file not found")
	// ErrRepositoryNotFound is returned by GetRepository when the repository cannot be reached.
	ErrRepositoryNotFound = errors.New("repository not found")
)

// ProviderRepository abstracts a Git hosting service (GitHub, GitLab)
// providing file access, repository discovery, and PR management.
type ProviderRepository interface {
	// Name returns the provider identifier (e.g. "github").
	Name() string

	// MatchesURL reports whether a remote URL belongs to this provider.
	MatchesURL(rawURL string) bool

	// ListRepositories returns every repository in an organization, group or user account.
	ListRepositories(ctx context.Context, scope string) ([]entities.Repository, error)

	// GetRepository returns the metadata of a single repository.
	GetRepository(ctx context.Context, owner, name string) (entities.Repository, error)

	// GetFileContent reads a file from the repository's default branch.
	GetFileContent(ctx context.Context, repo entities.Repository, path string) (string, error)

	// CreateBranch creates branch from baseRef.
	CreateBranch(ctx context.Context, repo entities.Repository, branch, baseRef string) error

	// WriteFile commits content at path onto branch.
	WriteFile(
		ctx context.Context,
		repo entities.Repository,
		path, content, branch, commitMessage string,
	) error

	// CreatePullRequest opens a pull (or merge) request.
	CreatePullRequest(
		ctx context.Context,
		repo entities.Repository,
		input entities.PullRequestInput,
	) (*entities.PullRequest, error)

	// PullRequestExists reports whether an open pull request already uses sourceBranch.
	PullRequestExists(ctx context.Context, repo entities.Repository, sourceBranch string) (bool, error)
}
