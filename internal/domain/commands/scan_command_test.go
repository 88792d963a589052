//go:build unit

package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/safeupdate/internal/domain/commands"
	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/safeupdate/internal/infrastructure/repositories"
)

func newScanCommand(f *runFixture) *commands.ScanCommand {
	ecosystems := infraRepos.NewEcosystemRegistry()
	ecosystems.Register(newStubEcosystem())
	return commands.NewScanCommand(f.providers, ecosystems, f.factory)
}

func TestScanCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should scan the repository named by a full URL", func(t *testing.T) {
		t.Parallel()

		// given
		f := newRunFixture()

		// when
		report, err := newScanCommand(f).Execute(context.Background(), &entities.Settings{}, commands.ScanOptions{
			Locator: "https://github.com/acme/api.git",
			Token:   "test-token",
			DryRun:  true,
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "acme/api", report.Repository.FullName())
		require.Len(t, report.Manifests, 1)
		assert.Equal(t, entities.OutcomeDryRun, report.Manifests[0].Outcome)
		assert.Len(t, f.reports.Saved, 1)
	})

	t.Run("should use the configured token of the inferred provider", func(t *testing.T) {
		t.Parallel()

		// given
		f := newRunFixture()
		var received string
		f.providers.Register("github", func(token string) repositories.ProviderRepository {
			received = token
			return f.provider
		})

		// when
		_, err := newScanCommand(f).Execute(context.Background(), githubSettings(), commands.ScanOptions{
			Locator: "github.com/acme/api",
			DryRun:  true,
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "test-token", received)
	})

	t.Run("should reject a malformed locator", func(t *testing.T) {
		t.Parallel()

		// given
		f := newRunFixture()

		// when
		_, err := newScanCommand(f).Execute(context.Background(), &entities.Settings{}, commands.ScanOptions{
			Locator: "acme",
			Token:   "test-token",
		})

		// then
		require.ErrorIs(t, err, entities.ErrInvalidLocator)
	})

	t.Run("should wrap a repository lookup failure", func(t *testing.T) {
		t.Parallel()

		// given
		f := newRunFixture()
		f.provider.GetRepositoryErr = repositories.ErrRepositoryNotFound

		// when
		_, err := newScanCommand(f).Execute(context.Background(), &entities.Settings{}, commands.ScanOptions{
			Locator: "acme/api",
			Token:   "test-token",
		})

		// then
		require.ErrorIs(t, err, repositories.ErrRepositoryNotFound)
	})

	t.Run("should fail for an unregistered provider", func(t *testing.T) {
		t.Parallel()

		// given
		f := newRunFixture()

		// when
		_, err := newScanCommand(f).Execute(context.Background(), &entities.Settings{}, commands.ScanOptions{
			Locator:      "acme/api",
			ProviderName: "bitbucket",
			Token:        "test-token",
		})

		// then
		require.ErrorIs(t, err, infraRepos.ErrUnknownProvider)
		assert.Contains(t, err.Error(), "bitbucket")
	})
}

func TestResolveTokenFromEnv(t *testing.T) {
	t.Run("should prefer GITHUB_TOKEN over GH_TOKEN", func(t *testing.T) {
		// given
		t.Setenv("GITHUB_TOKEN", "primary")
		t.Setenv("GH_TOKEN", "secondary")

		// when
		token := commands.ResolveTokenFromEnv("github")

		// then
		assert.Equal(t, "primary", token)
	})

	t.Run("should fall back to GL_TOKEN", func(t *testing.T) {
		// given
		t.Setenv("GITLAB_TOKEN", "")
		t.Setenv("GL_TOKEN", "gl")

		// when
		token := commands.ResolveTokenFromEnv("gitlab")

		// then
		assert.Equal(t, "gl", token)
		assert.Equal(t, "GITLAB_TOKEN or GL_TOKEN", commands.TokenEnvHint("gitlab"))
	})
}
