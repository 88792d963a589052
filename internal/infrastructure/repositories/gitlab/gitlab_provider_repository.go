package gitlab

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"
	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
)

const (
	providerName  = "gitlab"
	perPage       = 100
	headsPrefix   = "refs/heads/"
	defaultBranch = "main"
)

var errClientNotInitialized = errors.New("gitlab client not initialized")

// GitLabProviderRepository implements repositories.ProviderRepository for GitLab.
type GitLabProviderRepository struct {
	client *gl.Client
}

// NewGitLabProviderRepository creates a new GitLab provider with the given token.
func NewGitLabProviderRepository(token string) repositories.ProviderRepository {
	client, err := gl.NewClient(token)
	if err != nil {
		logger.Warnf("[gitlab] Failed to create client: %v", err)
		return &GitLabProviderRepository{}
	}
	return &GitLabProviderRepository{client: client}
}

func (p *GitLabProviderRepository) Name() string { return providerName }

func (p *GitLabProviderRepository) MatchesURL(rawURL string) bool {
	return strings.Contains(rawURL, "gitlab.com")
}

// ListRepositories lists all projects in a GitLab group (subgroups included),
// falling back to the projects of a user namespace.
func (p *GitLabProviderRepository) ListRepositories(
	ctx context.Context,
	scope string,
) ([]entities.Repository, error) {
	if p.client == nil {
		return nil, errClientNotInitialized
	}

	var all []entities.Repository
	opts := &gl.ListGroupProjectsOptions{
		ListOptions:      gl.ListOptions{PerPage: perPage},
		IncludeSubGroups: gl.Ptr(true),
		Archived:         gl.Ptr(false),
	}

	for {
		projects, resp, err := p.client.Groups.ListGroupProjects(scope, opts, gl.WithContext(ctx))
		if err != nil {
			logger.Debugf("[gitlab] %q is not a group (%v), listing user projects", scope, err)
			return p.listUserProjects(ctx, scope)
		}
		for _, proj := range projects {
			all = append(all, toRepository(proj))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

func (p *GitLabProviderRepository) listUserProjects(
	ctx context.Context,
	user string,
) ([]entities.Repository, error) {
	var all []entities.Repository
	opts := &gl.ListProjectsOptions{
		ListOptions: gl.ListOptions{PerPage: perPage},
		Archived:    gl.Ptr(false),
	}

	for {
		projects, resp, err := p.client.Projects.ListUserProjects(user, opts, gl.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list projects for %q: %w", user, err)
		}
		for _, proj := range projects {
			all = append(all, toRepository(proj))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

func (p *GitLabProviderRepository) GetRepository(
	ctx context.Context,
	owner, name string,
) (entities.Repository, error) {
	if p.client == nil {
		return entities.Repository{}, errClientNotInitialized
	}

	proj, _, err := p.client.Projects.GetProject(owner+"/"+name, nil, gl.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return entities.Repository{}, fmt.Errorf("%w: %s/%s", repositories.ErrRepositoryNotFound, owner, name)
		}
		return entities.Repository{}, fmt.Errorf("failed to get project %s/%s: %w", owner, name, err)
	}
	return toRepository(proj), nil
}

func (p *GitLabProviderRepository) GetFileContent(
	ctx context.Context,
	repo entities.Repository,
	path string,
) (string, error) {
	return p.readFile(ctx, repo, path, strings.TrimPrefix(repo.DefaultBranch, headsPrefix))
}

func (p *GitLabProviderRepository) readFile(
	ctx context.Context,
	repo entities.Repository,
	path, ref string,
) (string, error) {
	if p.client == nil {
		return "", errClientNotInitialized
	}

	raw, _, err := p.client.RepositoryFiles.GetRawFile(
		projectID(repo), path,
		&gl.GetRawFileOptions{Ref: gl.Ptr(ref)},
		gl.WithContext(ctx),
	)
	if err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("%w: %s", repositories.ErrFileNotFound, path)
		}
		return "", fmt.Errorf("failed to get file %q: %w", path, err)
	}
	return string(raw), nil
}

func (p *GitLabProviderRepository) CreateBranch(
	ctx context.Context,
	repo entities.Repository,
	branch, baseRef string,
) error {
	if p.client == nil {
		return errClientNotInitialized
	}

	_, _, err := p.client.Branches.CreateBranch(projectID(repo), &gl.CreateBranchOptions{
		Branch: gl.Ptr(branch),
		Ref:    gl.Ptr(strings.TrimPrefix(baseRef, headsPrefix)),
	}, gl.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}
	return nil
}

// WriteFile commits content at path onto branch, as an update when the file
// already exists there and as a creation otherwise.
func (p *GitLabProviderRepository) WriteFile(
	ctx context.Context,
	repo entities.Repository,
	path, content, branch, commitMessage string,
) error {
	action := gl.FileUpdate
	if _, err := p.readFile(ctx, repo, path, branch); err != nil {
		if !errors.Is(err, repositories.ErrFileNotFound) {
			return err
		}
		action = gl.FileCreate
	}

	_, _, err := p.client.Commits.CreateCommit(
		projectID(repo),
		&gl.CreateCommitOptions{
			Branch:        gl.Ptr(branch),
			CommitMessage: gl.Ptr(commitMessage),
			Actions: []*gl.CommitActionOptions{{
				Action:   gl.Ptr(action),
				FilePath: gl.Ptr(strings.TrimPrefix(path, "/")),
				Content:  gl.Ptr(content),
			}},
		},
		gl.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to commit %q: %w", path, err)
	}
	return nil
}

func (p *GitLabProviderRepository) CreatePullRequest(
	ctx context.Context,
	repo entities.Repository,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	if p.client == nil {
		return nil, errClientNotInitialized
	}

	mr, _, err := p.client.MergeRequests.CreateMergeRequest(
		projectID(repo),
		&gl.CreateMergeRequestOptions{
			Title:              gl.Ptr(input.Title),
			Description:        gl.Ptr(input.Description),
			SourceBranch:       gl.Ptr(strings.TrimPrefix(input.SourceBranch, headsPrefix)),
			TargetBranch:       gl.Ptr(strings.TrimPrefix(input.TargetBranch, headsPrefix)),
			RemoveSourceBranch: gl.Ptr(true),
		},
		gl.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create merge request: %w", err)
	}

	return &entities.PullRequest{
		ID:     int(mr.IID),
		Title:  mr.Title,
		URL:    mr.WebURL,
		Status: mr.State,
	}, nil
}

func (p *GitLabProviderRepository) PullRequestExists(
	ctx context.Context,
	repo entities.Repository,
	sourceBranch string,
) (bool, error) {
	if p.client == nil {
		return false, errClientNotInitialized
	}

	mrs, _, err := p.client.MergeRequests.ListProjectMergeRequests(
		projectID(repo),
		&gl.ListProjectMergeRequestsOptions{
			SourceBranch: gl.Ptr(strings.TrimPrefix(sourceBranch, headsPrefix)),
			State:        gl.Ptr("opened"),
		},
		gl.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("failed to list merge requests: %w", err)
	}
	return len(mrs) > 0, nil
}

func projectID(repo entities.Repository) string {
	return repo.Organization + "/" + repo.Name
}

func toRepository(proj *gl.Project) entities.Repository {
	branch := proj.DefaultBranch
	if branch == "" {
		branch = defaultBranch
	}
	organization := ""
	if proj.Namespace != nil {
		organization = proj.Namespace.FullPath
	}
	return entities.Repository{
		ID:            strconv.FormatInt(proj.ID, 10),
		Name:          proj.Path,
		Organization:  organization,
		DefaultBranch: headsPrefix + branch,
		RemoteURL:     proj.HTTPURLToRepo,
		ProviderName:  providerName,
	}
}

// isNotFound matches the sentinel the client returns for every 404 response.
func isNotFound(err error) bool {
	return errors.Is(err, gl.ErrNotFound)
}
