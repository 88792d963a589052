//go:build unit

package commands_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/safeupdate/internal/domain/commands"
	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	infraRepos "github.com/rios0rios0/safeupdate/internal/infrastructure/repositories"
	"github.com/rios0rios0/safeupdate/internal/infrastructure/repositories/report"
	"github.com/rios0rios0/safeupdate/test/domain/entitybuilders"
)

func TestHistoryCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should list the stored evaluations of the repository", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "history.db")
		store, err := report.NewSQLiteHistory(ctx, path)
		require.NoError(t, err)
		update := entitybuilders.NewResolvedUpdateBuilder().WithName("flask").WithCurrent("==1.0.0").WithLatest("1.2.0").BuildUpdate()
		require.NoError(t, store.Save(ctx, entities.RepositoryReport{
			Repository:  newRepo(),
			GeneratedAt: time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
			Manifests: []entities.ManifestReport{{
				Manifest: entities.ManifestFile{Path: "requirements.txt", Ecosystem: entities.EcosystemPython},
				Updates:  []entities.ResolvedUpdate{update},
				Outcome:  entities.OutcomeNoneApproved,
			}},
		}))
		require.NoError(t, store.Close())
		settings := &entities.Settings{Report: entities.ReportConfig{HistoryDatabase: path}}

		// when
		records, err := commands.NewHistoryCommand(infraRepos.NewHistoryOpener()).Execute(
			ctx, settings, commands.HistoryOptions{Locator: "https://github.com/acme/api"},
		)

		// then
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "flask", records[0].Dependency)
		assert.Equal(t, "1.2.0", records[0].LatestVersion)
	})

	t.Run("should fail without a configured database", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := commands.NewHistoryCommand(infraRepos.NewHistoryOpener()).Execute(
			context.Background(), &entities.Settings{}, commands.HistoryOptions{Locator: "acme/api"},
		)

		// then
		require.ErrorIs(t, err, commands.ErrNoHistoryDatabase)
	})
}
