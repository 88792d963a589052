//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
)

// SpyReportRepository records saved reports.
type SpyReportRepository struct {
	Saved   []entities.RepositoryReport
	SaveErr error
}

var _ repositories.ReportRepository = (*SpyReportRepository)(nil)

func (r *SpyReportRepository) Save(_ context.Context, report entities.RepositoryReport) error {
	r.Saved = append(r.Saved, report)
	return r.SaveErr
}

// SpyNotifierRepository records run summaries.
type SpyNotifierRepository struct {
	Summaries []entities.RunSummary
	NotifyErr error
}

var _ repositories.NotifierRepository = (*SpyNotifierRepository)(nil)

func (n *SpyNotifierRepository) Notify(
	_ context.Context, summary entities.RunSummary, _ []entities.RepositoryReport,
) error {
	n.Summaries = append(n.Summaries, summary)
	return n.NotifyErr
}

// SpyMetricsRepository counts observations.
type SpyMetricsRepository struct {
	Updates      []entities.ResolvedUpdate
	Outcomes     []entities.ManifestOutcome
	Repositories int
	Flushes      int
}

var _ repositories.MetricsRepository = (*SpyMetricsRepository)(nil)

func (m *SpyMetricsRepository) ObserveUpdate(update entities.ResolvedUpdate) {
	m.Updates = append(m.Updates, update)
}

func (m *SpyMetricsRepository) ObserveManifest(_ entities.Ecosystem, outcome entities.ManifestOutcome) {
	m.Outcomes = append(m.Outcomes, outcome)
}

func (m *SpyMetricsRepository) ObserveRepository(_ entities.RepositoryReport) { m.Repositories++ }

func (m *SpyMetricsRepository) Flush() error {
	m.Flushes++
	return nil
}
