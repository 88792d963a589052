package github

import (
	"net/url"

	gh "github.com/google/go-github/v66/github"
)

// NewGitHubProviderRepositoryWithURL points the provider at a test server.
func NewGitHubProviderRepositoryWithURL(baseURL string) *GitHubProviderRepository {
	client := gh.NewClient(nil)
	client.BaseURL, _ = url.Parse(baseURL + "/")
	return newGitHubProviderRepository(client)
}
