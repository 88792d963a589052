//go:build unit

package metrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/infrastructure/repositories/metrics"
	"github.com/rios0rios0/safeupdate/test/domain/entitybuilders"
)

func TestPrometheusMetrics(t *testing.T) {
	t.Parallel()

	t.Run("should count updates by verdict", func(t *testing.T) {
		t.Parallel()

		// given
		m := metrics.NewPrometheusMetrics("")
		safe := entitybuilders.NewResolvedUpdateBuilder().BuildUpdate()
		unchecked := entitybuilders.NewResolvedUpdateBuilder().WithoutVerdict().BuildUpdate()

		// when
		m.ObserveUpdate(safe)
		m.ObserveUpdate(safe)
		m.ObserveUpdate(unchecked)

		// then
		count, err := testutil.GatherAndCount(m.Registry(), "safeupdate_dependency_updates_total")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("should write the textfile on flush", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "safeupdate.prom")
		m := metrics.NewPrometheusMetrics(path)
		m.ObserveManifest(entities.EcosystemNpm, entities.OutcomeProposed)
		m.ObserveRepository(entities.RepositoryReport{
			GeneratedAt: time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
			Manifests: []entities.ManifestReport{
				{PullRequest: &entities.PullRequest{ID: 1}},
			},
		})

		// when
		err := m.Flush()

		// then
		require.NoError(t, err)
		content, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Contains(t, string(content), `safeupdate_manifests_total{ecosystem="npm",outcome="proposed"} 1`)
		assert.Contains(t, string(content), "safeupdate_pull_requests_total 1")
	})

	t.Run("should do nothing on flush without a textfile", func(t *testing.T) {
		t.Parallel()

		// given
		m := metrics.NewPrometheusMetrics("")

		// when
		err := m.Flush()

		// then
		require.NoError(t, err)
	})
}
