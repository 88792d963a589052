//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/safeupdate/internal/domain/commands"
	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
	doubles "github.com/rios0rios0/safeupdate/test/infrastructure/repositorydoubles"
)

func TestLocateManifests(t *testing.T) {
	t.Parallel()

	t.Run("should return present manifests in ecosystem order and skip unreadable ones", func(t *testing.T) {
		t.Parallel()

		// given
		provider := &doubles.SpyProviderRepository{
			FileContents: map[string]string{
				"package.json": "{}",
				"main.tf":      "",
			},
			FileContentErr: map[string]error{"go.mod": errors.New("rate limited")},
		}
		ecosystems := []repositories.EcosystemRepository{
			&doubles.StubEcosystemRepository{EcosystemName: entities.EcosystemNpm, Path: "package.json"},
			&doubles.StubEcosystemRepository{EcosystemName: entities.EcosystemPython, Path: "requirements.txt"},
			&doubles.StubEcosystemRepository{EcosystemName: entities.EcosystemGo, Path: "go.mod"},
			&doubles.StubEcosystemRepository{EcosystemName: entities.EcosystemTerraform, Path: "main.tf"},
		}

		// when
		manifests := commands.LocateManifests(context.Background(), provider, newRepo(), ecosystems)

		// then
		assert.Equal(t, []entities.ManifestFile{
			{Path: "package.json", Ecosystem: entities.EcosystemNpm, Content: "{}"},
			{Path: "main.tf", Ecosystem: entities.EcosystemTerraform, Content: ""},
		}, manifests)
		assert.Equal(t, []string{"package.json", "requirements.txt", "go.mod", "main.tf"}, provider.ReadPaths)
	})
}
