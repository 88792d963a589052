//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
)

// SpyProviderRepository implements repositories.ProviderRepository as a configurable spy.
type SpyProviderRepository struct {
	// --- identity ---
	ProviderName string
	Token        string

	// --- ListRepositories ---
	Repositories   []entities.Repository
	DiscoverErr    error
	DiscoveredOrgs []string

	// --- GetRepository ---
	Repository       *entities.Repository
	GetRepositoryErr error

	// --- GetFileContent ---
	FileContents   map[string]string // path -> content; missing paths return ErrFileNotFound
	FileContentErr map[string]error  // path -> error
	ReadPaths      []string

	// --- CreateBranch ---
	CreateBranchErr error
	CreatedBranches []BranchCall

	// --- WriteFile ---
	WriteFileErr error
	WrittenFiles []WriteCall

	// --- CreatePullRequest ---
	CreatedPR   *entities.PullRequest
	CreatePRErr error
	PRInputs    []entities.PullRequestInput

	// --- PullRequestExists ---
	PRExistsResult   bool
	PRExistsErr      error
	PRExistsBranches []string
}

// BranchCall records a single invocation of CreateBranch.
type BranchCall struct {
	Branch  string
	BaseRef string
}

// WriteCall records a single invocation of WriteFile.
type WriteCall struct {
	Path          string
	Content       string
	Branch        string
	CommitMessage string
}

var _ repositories.ProviderRepository = (*SpyProviderRepository)(nil)

func (p *SpyProviderRepository) Name() string             { return p.ProviderName }
func (p *SpyProviderRepository) MatchesURL(_ string) bool { return false }

func (p *SpyProviderRepository) ListRepositories(
	_ context.Context, scope string,
) ([]entities.Repository, error) {
	p.DiscoveredOrgs = append(p.DiscoveredOrgs, scope)
	return p.Repositories, p.DiscoverErr
}

func (p *SpyProviderRepository) GetRepository(
	_ context.Context, owner, name string,
) (entities.Repository, error) {
	if p.GetRepositoryErr != nil {
		return entities.Repository{}, p.GetRepositoryErr
	}
	if p.Repository != nil {
		return *p.Repository, nil
	}
	return entities.Repository{
		ID:            owner + "/" + name,
		Name:          name,
		Organization:  owner,
		DefaultBranch: "refs/heads/main",
		ProviderName:  p.ProviderName,
	}, nil
}

func (p *SpyProviderRepository) GetFileContent(
	_ context.Context, _ entities.Repository, path string,
) (string, error) {
	p.ReadPaths = append(p.ReadPaths, path)
	if err, ok := p.FileContentErr[path]; ok {
		return "", err
	}
	content, ok := p.FileContents[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", repositories.ErrFileNotFound, path)
	}
	return content, nil
}

func (p *SpyProviderRepository) CreateBranch(
	_ context.Context, _ entities.Repository, branch, baseRef string,
) error {
	p.CreatedBranches = append(p.CreatedBranches, BranchCall{Branch: branch, BaseRef: baseRef})
	return p.CreateBranchErr
}

func (p *SpyProviderRepository) WriteFile(
	_ context.Context, _ entities.Repository, path, content, branch, commitMessage string,
) error {
	p.WrittenFiles = append(p.WrittenFiles, WriteCall{
		Path: path, Content: content, Branch: branch, CommitMessage: commitMessage,
	})
	return p.WriteFileErr
}

func (p *SpyProviderRepository) CreatePullRequest(
	_ context.Context, _ entities.Repository, input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	p.PRInputs = append(p.PRInputs, input)
	if p.CreatePRErr != nil {
		return nil, p.CreatePRErr
	}
	if p.CreatedPR != nil {
		return p.CreatedPR, nil
	}
	return &entities.PullRequest{ID: len(p.PRInputs), Title: input.Title, URL: "https://example.test/pr", Status: "open"}, nil
}

func (p *SpyProviderRepository) PullRequestExists(
	_ context.Context, _ entities.Repository, sourceBranch string,
) (bool, error) {
	p.PRExistsBranches = append(p.PRExistsBranches, sourceBranch)
	return p.PRExistsResult, p.PRExistsErr
}

// WrittenPaths returns the paths passed to WriteFile, in call order.
func (p *SpyProviderRepository) WrittenPaths() []string {
	paths := make([]string, 0, len(p.WrittenFiles))
	for _, w := range p.WrittenFiles {
		paths = append(paths, w.Path)
	}
	return paths
}
