//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

//nolint:tparallel // some subtests use t.Setenv which is incompatible with t.Parallel on parent
func TestResolveToken(t *testing.T) {
	t.Run("should return inline token unchanged", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "ghp_abc123xyz"

		// when
		result := entities.ResolveToken(raw)

		// then
		assert.Equal(t, "ghp_abc123xyz", result)
	})

	t.Run("should expand environment variable reference", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("SAFEUPDATE_TEST_TOKEN", "my-secret-token")
		raw := "${SAFEUPDATE_TEST_TOKEN}"

		// when
		result := entities.ResolveToken(raw)

		// then
		assert.Equal(t, "my-secret-token", result)
	})

	t.Run("should return empty for unset env var", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "${DEFINITELY_NOT_SET_VAR_12345}"

		// when
		result := entities.ResolveToken(raw)

		// then
		assert.Empty(t, result)
	})

	t.Run("should read token from file when path exists", func(t *testing.T) {
		t.Parallel()

		// given
		tokenFile := filepath.Join(t.TempDir(), "token.key")
		require.NoError(t, os.WriteFile(tokenFile, []byte("  file-based-token  \n"), 0o600))

		// when
		result := entities.ResolveToken(tokenFile)

		// then
		assert.Equal(t, "file-based-token", result)
	})

	t.Run("should keep webhook URLs verbatim", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "https://hooks.slack.com/services/T000/B000/XXXX"

		// when
		result := entities.ResolveToken(raw)

		// then
		assert.Equal(t, raw, result)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("should accept settings without providers", func(t *testing.T) {
		t.Parallel()

		// given
		settings := entities.DefaultSettings()

		// when
		err := entities.Validate(settings)

		// then
		require.NoError(t, err)
	})

	t.Run("should fail when provider token is empty", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{
			Providers: []entities.ProviderConfig{{Type: "github", Organizations: []string{"acme"}}},
		}

		// when
		err := entities.Validate(settings)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "providers[0].token is required")
	})

	t.Run("should fail when organizations are missing", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{
			Providers: []entities.ProviderConfig{{Type: "gitlab", Token: "tok"}},
		}

		// when
		err := entities.Validate(settings)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "organizations must have at least one entry")
	})

	t.Run("should fail on an unsupported ecosystem", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{
			Ecosystems: map[string]entities.EcosystemConfig{"ruby": {Enabled: true}},
		}

		// when
		err := entities.Validate(settings)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ecosystems.ruby")
	})
}

func TestNewSettings(t *testing.T) {
	t.Run("should load a full config file and apply defaults", func(t *testing.T) {
		// given
		t.Setenv("SAFEUPDATE_GH_TOKEN", "gh-token")
		path := filepath.Join(t.TempDir(), "safeupdate.yaml")
		content := `providers:
  - type: github
    token: ${SAFEUPDATE_GH_TOKEN}
    organizations: [acme]
ecosystems:
  terraform:
    enabled: false
security:
  api_key: inline-key
  timeout: 30s
policy:
  expression: tier != "major"
report:
  directory: reports
target_branch: develop
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "gh-token", settings.Providers[0].Token)
		assert.Equal(t, 30*time.Second, settings.Security.Timeout)
		assert.Equal(t, "gemini-2.5-flash", settings.Security.Model)
		assert.Equal(t, `tier != "major"`, settings.Policy.Expression)
		assert.Equal(t, "develop", settings.TargetBranch)
		assert.Positive(t, settings.Resolver.CacheSize)
		assert.False(t, settings.EcosystemEnabled(entities.EcosystemTerraform))
		assert.True(t, settings.EcosystemEnabled(entities.EcosystemNpm))
	})

	t.Run("should fail on a missing file", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "missing.yaml")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
	})
}
