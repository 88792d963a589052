package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/storage/memory"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/infrastructure/repositories/terraform"
)

// GitTagResolver lists the tags of a remote and picks the highest stable semver tag.
type GitTagResolver struct {
	timeout time.Duration
}

// NewGitTagResolver creates a resolver that talks to git remotes directly.
func NewGitTagResolver(timeout time.Duration) *GitTagResolver {
	return &GitTagResolver{timeout: timeout}
}

func (r *GitTagResolver) ResolveLatestVersion(
	ctx context.Context,
	dependency entities.DeclaredDependency,
	_ entities.Ecosystem,
) (string, error) {
	cloneURL := terraform.CloneURL(dependency.Locator())
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: git.DefaultRemoteName,
		URLs: []string{cloneURL},
	})
	refs, err := remote.ListContext(ctx, &git.ListOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to list tags of %s: %w", cloneURL, err)
	}

	var tags []string
	for _, ref := range refs {
		if ref.Name().IsTag() {
			tags = append(tags, ref.Name().Short())
		}
	}
	logger.Debugf("[resolver] %s has %d tags", cloneURL, len(tags))
	return normalized(highestStable(tags), cloneURL)
}
