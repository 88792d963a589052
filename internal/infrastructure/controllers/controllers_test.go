//go:build unit

package controllers_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/infrastructure/controllers"
	"github.com/rios0rios0/safeupdate/test/domain/commanddoubles"
)

type loaderSpy struct {
	paths []string
	err   error
}

func (l *loaderSpy) load(path string) (*entities.Settings, error) {
	l.paths = append(l.paths, path)
	if l.err != nil {
		return nil, l.err
	}
	return &entities.Settings{}, nil
}

func newCommand(t *testing.T, controller entities.Controller, args ...string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	cmd := &cobra.Command{Use: controller.GetBind().Use}
	controllers.AddGlobalFlags(cmd)
	controller.AddFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	return cmd, out
}

func TestScanController(t *testing.T) {
	t.Parallel()

	t.Run("should pass flags to the command and preview dry runs", func(t *testing.T) {
		t.Parallel()

		// given
		loader := &loaderSpy{}
		stub := &commanddoubles.StubScanCommand{Report: entities.RepositoryReport{
			Repository: entities.Repository{Organization: "acme", Name: "api"},
			Manifests: []entities.ManifestReport{{
				Manifest: entities.ManifestFile{Path: "go.mod", Ecosystem: entities.EcosystemGo},
				Document: "# Dependency audit: go.mod (go)\n",
			}},
		}}
		controller := controllers.NewScanController(stub, loader.load).WithPlainOutput()
		cmd, out := newCommand(t, controller, "--dry-run", "--config", "custom.yaml", "--ecosystem", "go,npm", "--token", "tok")

		// when
		err := controller.Execute(cmd, []string{"acme/api"})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"custom.yaml"}, loader.paths)
		assert.Equal(t, "acme/api", stub.LastOpts.Locator)
		assert.Equal(t, "tok", stub.LastOpts.Token)
		assert.True(t, stub.LastOpts.DryRun)
		assert.Equal(t, []entities.Ecosystem{entities.EcosystemGo, entities.EcosystemNpm}, stub.LastOpts.Ecosystems)
		assert.Contains(t, out.String(), "acme/api: go.mod (go)")
		assert.Contains(t, out.String(), "# Dependency audit: go.mod (go)")
	})

	t.Run("should reject an unknown ecosystem before loading settings", func(t *testing.T) {
		t.Parallel()

		// given
		loader := &loaderSpy{}
		stub := &commanddoubles.StubScanCommand{}
		controller := controllers.NewScanController(stub, loader.load)
		cmd, _ := newCommand(t, controller, "--ecosystem", "cargo")

		// when
		err := controller.Execute(cmd, []string{"acme/api"})

		// then
		require.Error(t, err)
		assert.Empty(t, loader.paths)
		assert.Zero(t, stub.ExecuteCallCount)
	})

	t.Run("should return the command error", func(t *testing.T) {
		t.Parallel()

		// given
		loader := &loaderSpy{}
		stub := &commanddoubles.StubScanCommand{ExecuteErr: entities.ErrInvalidLocator}
		controller := controllers.NewScanController(stub, loader.load)
		cmd, out := newCommand(t, controller)

		// when
		err := controller.Execute(cmd, []string{"acme"})

		// then
		require.ErrorIs(t, err, entities.ErrInvalidLocator)
		assert.Empty(t, out.String())
	})
}

func TestRunController(t *testing.T) {
	t.Parallel()

	t.Run("should pass the filters to the command", func(t *testing.T) {
		t.Parallel()

		// given
		loader := &loaderSpy{}
		stub := &commanddoubles.StubRunCommand{}
		controller := controllers.NewRunController(stub, loader.load).WithPlainOutput()
		cmd, _ := newCommand(t, controller, "--provider", "gitlab", "--org", "platform", "-v")

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, stub.ExecuteCallCount)
		assert.Equal(t, "gitlab", stub.LastOpts.ProviderName)
		assert.Equal(t, "platform", stub.LastOpts.OrgOverride)
		assert.True(t, stub.LastOpts.Verbose)
		assert.False(t, stub.LastOpts.DryRun)
	})

	t.Run("should return the settings error", func(t *testing.T) {
		t.Parallel()

		// given
		loader := &loaderSpy{err: errors.New("invalid config")}
		stub := &commanddoubles.StubRunCommand{}
		controller := controllers.NewRunController(stub, loader.load)
		cmd, _ := newCommand(t, controller)

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.EqualError(t, err, "invalid config")
		assert.Zero(t, stub.ExecuteCallCount)
	})
}

func TestHistoryController(t *testing.T) {
	t.Parallel()

	t.Run("should print the history table", func(t *testing.T) {
		t.Parallel()

		// given
		loader := &loaderSpy{}
		stub := &commanddoubles.StubHistoryCommand{Records: []entities.HistoryRecord{{
			RunAt:          time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
			Manifest:       "requirements.txt",
			Dependency:     "flask",
			CurrentVersion: "==1.0.0",
			LatestVersion:  "1.2.0",
			Tier:           "minor",
			Verdict:        "SAFE",
			Approved:       true,
			PullRequestURL: "https://github.com/acme/api/pull/7",
		}}}
		controller := controllers.NewHistoryController(stub, loader.load).WithPlainOutput()
		cmd, out := newCommand(t, controller)

		// when
		err := controller.Execute(cmd, []string{"acme/api"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "acme/api", stub.LastOpts.Locator)
		assert.Contains(
			t, out.String(),
			"| 2026-10-17 09:30:00 | requirements.txt | `flask` | `==1.0.0` | `1.2.0` | minor | SAFE | yes | https://github.com/acme/api/pull/7 |",
		)
	})

	t.Run("should say when nothing was recorded", func(t *testing.T) {
		t.Parallel()

		// when
		table := controllers.HistoryTable("acme/api", nil)

		// then
		assert.Equal(t, "No history recorded for `acme/api`.\n", table)
	})
}
