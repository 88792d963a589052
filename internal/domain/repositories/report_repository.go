package repositories

import (
	"context"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

// ReportRepository persists the audit record of a repository run.
type ReportRepository interface {
	Save(ctx context.Context, report entities.RepositoryReport) error
}

// NotifierRepository announces the outcome of a whole run.
type NotifierRepository interface {
	Notify(ctx context.Context, summary entities.RunSummary, reports []entities.RepositoryReport) error
}

// MetricsRepository records run counters.
type MetricsRepository interface {
	ObserveUpdate(update entities.ResolvedUpdate)
	ObserveManifest(ecosystem entities.Ecosystem, outcome entities.ManifestOutcome)
	ObserveRepository(report entities.RepositoryReport)
	Flush() error
}

// HistoryRepository reads back the stored audit history.
type HistoryRepository interface {
	History(ctx context.Context, repository string) ([]entities.HistoryRecord, error)
	Close() error
}
