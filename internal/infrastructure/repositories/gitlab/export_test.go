package gitlab

import (
	gl "gitlab.com/gitlab-org/api/client-go"
)

// NewGitLabProviderRepositoryWithURL points the provider at a test server.
func NewGitLabProviderRepositoryWithURL(baseURL string) (*GitLabProviderRepository, error) {
	client, err := gl.NewClient("token", gl.WithBaseURL(baseURL))
	if err != nil {
		return nil, err
	}
	return &GitLabProviderRepository{client: client}, nil
}
