//go:build unit

package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainRepos "github.com/rios0rios0/safeupdate/internal/domain/repositories"
	"github.com/rios0rios0/safeupdate/internal/infrastructure/repositories"
	"github.com/rios0rios0/safeupdate/test/infrastructure/repositorydoubles"
)

func TestProviderRegistry(t *testing.T) {
	t.Parallel()

	newRegistry := func() *repositories.ProviderRegistry {
		registry := repositories.NewProviderRegistry()
		for _, name := range []string{"gitlab", "github"} {
			registry.Register(name, func(token string) domainRepos.ProviderRepository {
				return &repositorydoubles.SpyProviderRepository{ProviderName: name, Token: token}
			})
		}
		return registry
	}

	t.Run("should build the provider with the token", func(t *testing.T) {
		t.Parallel()

		// given
		registry := newRegistry()

		// when
		provider, err := registry.Get("GitHub", "ghp_token")

		// then
		require.NoError(t, err)
		spy, ok := provider.(*repositorydoubles.SpyProviderRepository)
		require.True(t, ok)
		assert.Equal(t, "github", spy.ProviderName)
		assert.Equal(t, "ghp_token", spy.Token)
	})

	t.Run("should list the supported providers for an unknown name", func(t *testing.T) {
		t.Parallel()

		// given
		registry := newRegistry()

		// when
		_, err := registry.Get("bitbucket", "token")

		// then
		require.ErrorIs(t, err, repositories.ErrUnknownProvider)
		assert.Contains(t, err.Error(), "github, gitlab")
		assert.Equal(t, []string{"github", "gitlab"}, registry.Names())
	})
}
