package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
)

const (
	providerName  = "github"
	perPage       = 100
	headsPrefix   = "refs/heads/"
	defaultBranch = "main"
)

// GitHubProviderRepository implements repositories.ProviderRepository for GitHub.
type GitHubProviderRepository struct {
	client *gh.Client
}

// NewGitHubProviderRepository creates a new GitHub provider with the given token.
func NewGitHubProviderRepository(token string) repositories.ProviderRepository {
	return newGitHubProviderRepository(gh.NewClient(nil).WithAuthToken(token))
}

func newGitHubProviderRepository(client *gh.Client) *GitHubProviderRepository {
	return &GitHubProviderRepository{client: client}
}

func (p *GitHubProviderRepository) Name() string { return providerName }

func (p *GitHubProviderRepository) MatchesURL(rawURL string) bool {
	return strings.Contains(rawURL, "github.com")
}

// ListRepositories lists all repositories in a GitHub organization, falling
// back to the repositories owned by a user account.
func (p *GitHubProviderRepository) ListRepositories(
	ctx context.Context,
	scope string,
) ([]entities.Repository, error) {
	var all []entities.Repository
	opts := &gh.RepositoryListByOrgOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	for {
		repos, resp, err := p.client.Repositories.ListByOrg(ctx, scope, opts)
		if err != nil {
			logger.Debugf("[github] %q is not an organization (%v), listing user repositories", scope, err)
			return p.listUserRepositories(ctx, scope)
		}
		for _, r := range repos {
			if r.GetArchived() {
				continue
			}
			all = append(all, toRepository(r, scope))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

func (p *GitHubProviderRepository) listUserRepositories(
	ctx context.Context,
	user string,
) ([]entities.Repository, error) {
	var all []entities.Repository
	opts := &gh.RepositoryListByUserOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
		Type:        "owner",
	}

	for {
		repos, resp, err := p.client.Repositories.ListByUser(ctx, user, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repos for %q: %w", user, err)
		}
		for _, r := range repos {
			if r.GetArchived() {
				continue
			}
			all = append(all, toRepository(r, user))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

func (p *GitHubProviderRepository) GetRepository(
	ctx context.Context,
	owner, name string,
) (entities.Repository, error) {
	r, _, err := p.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		if isNotFound(err) {
			return entities.Repository{}, fmt.Errorf("%w: %s/%s", repositories.ErrRepositoryNotFound, owner, name)
		}
		return entities.Repository{}, fmt.Errorf("failed to get repository %s/%s: %w", owner, name, err)
	}
	return toRepository(r, owner), nil
}

func (p *GitHubProviderRepository) GetFileContent(
	ctx context.Context,
	repo entities.Repository,
	path string,
) (string, error) {
	return p.readFile(ctx, repo, path, strings.TrimPrefix(repo.DefaultBranch, headsPrefix))
}

func (p *GitHubProviderRepository) readFile(
	ctx context.Context,
	repo entities.Repository,
	path, ref string,
) (string, error) {
	file, _, err := p.getContents(ctx, repo, path, ref)
	if err != nil {
		return "", err
	}
	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("failed to decode file content: %w", err)
	}
	return content, nil
}

func (p *GitHubProviderRepository) getContents(
	ctx context.Context,
	repo entities.Repository,
	path, ref string,
) (*gh.RepositoryContent, string, error) {
	file, _, _, err := p.client.Repositories.GetContents(
		ctx, repo.Organization, repo.Name, path,
		&gh.RepositoryContentGetOptions{Ref: ref},
	)
	if err != nil {
		if isNotFound(err) {
			return nil, "", fmt.Errorf("%w: %s", repositories.ErrFileNotFound, path)
		}
		return nil, "", fmt.Errorf("failed to get file %q: %w", path, err)
	}
	if file == nil {
		return nil, "", fmt.Errorf("path %q is a directory, not a file", path)
	}
	return file, file.GetSHA(), nil
}

func (p *GitHubProviderRepository) CreateBranch(
	ctx context.Context,
	repo entities.Repository,
	branch, baseRef string,
) error {
	base, _, err := p.client.Git.GetRef(
		ctx, repo.Organization, repo.Name,
		headsPrefix+strings.TrimPrefix(baseRef, headsPrefix),
	)
	if err != nil {
		return fmt.Errorf("failed to get base branch ref: %w", err)
	}

	ref := headsPrefix + branch
	_, _, err = p.client.Git.CreateRef(
		ctx, repo.Organization, repo.Name,
		&gh.Reference{
			Ref:    &ref,
			Object: &gh.GitObject{SHA: base.Object.SHA},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}
	return nil
}

// WriteFile updates path on branch, creating it when it does not exist yet.
func (p *GitHubProviderRepository) WriteFile(
	ctx context.Context,
	repo entities.Repository,
	path, content, branch, commitMessage string,
) error {
	opts := &gh.RepositoryContentFileOptions{
		Message: gh.String(commitMessage),
		Content: []byte(content),
		Branch:  gh.String(branch),
	}

	_, sha, err := p.getContents(ctx, repo, path, branch)
	switch {
	case err == nil:
		opts.SHA = gh.String(sha)
		_, _, err = p.client.Repositories.UpdateFile(ctx, repo.Organization, repo.Name, path, opts)
	case errors.Is(err, repositories.ErrFileNotFound):
		_, _, err = p.client.Repositories.CreateFile(ctx, repo.Organization, repo.Name, path, opts)
	default:
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to commit %q: %w", path, err)
	}
	return nil
}

func (p *GitHubProviderRepository) CreatePullRequest(
	ctx context.Context,
	repo entities.Repository,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	sourceBranch := strings.TrimPrefix(input.SourceBranch, headsPrefix)
	targetBranch := strings.TrimPrefix(input.TargetBranch, headsPrefix)

	pr, _, err := p.client.PullRequests.Create(
		ctx, repo.Organization, repo.Name,
		&gh.NewPullRequest{
			Title:               &input.Title,
			Head:                &sourceBranch,
			Base:                &targetBranch,
			Body:                &input.Description,
			MaintainerCanModify: gh.Bool(true),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	return &entities.PullRequest{
		ID:     pr.GetNumber(),
		Title:  pr.GetTitle(),
		URL:    pr.GetHTMLURL(),
		Status: pr.GetState(),
	}, nil
}

func (p *GitHubProviderRepository) PullRequestExists(
	ctx context.Context,
	repo entities.Repository,
	sourceBranch string,
) (bool, error) {
	prs, _, err := p.client.PullRequests.List(
		ctx, repo.Organization, repo.Name,
		&gh.PullRequestListOptions{
			Head:  repo.Organization + ":" + strings.TrimPrefix(sourceBranch, headsPrefix),
			State: "open",
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to list pull requests: %w", err)
	}
	return len(prs) > 0, nil
}

func toRepository(r *gh.Repository, owner string) entities.Repository {
	branch := r.GetDefaultBranch()
	if branch == "" {
		branch = defaultBranch
	}
	if login := r.GetOwner().GetLogin(); login != "" {
		owner = login
	}
	return entities.Repository{
		ID:            strconv.FormatInt(r.GetID(), 10),
		Name:          r.GetName(),
		Organization:  owner,
		DefaultBranch: headsPrefix + branch,
		RemoteURL:     r.GetCloneURL(),
		ProviderName:  providerName,
	}
}

func isNotFound(err error) bool {
	var respErr *gh.ErrorResponse
	return errors.As(err, &respErr) && respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound
}
