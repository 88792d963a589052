package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	infraRepos "github.com/rios0rios0/safeupdate/internal/infrastructure/repositories"
)

// publishRun persists audit reports, exports metrics and sends the run
// notification. Every step is best-effort: failures are only logged.
func publishRun(
	ctx context.Context,
	services *infraRepos.Services,
	reports []entities.RepositoryReport,
	summary entities.RunSummary,
) {
	for _, report := range reports {
		for _, store := range services.Reports {
			if err := store.Save(ctx, report); err != nil {
				logger.Warnf("[report] Failed to save report for %s: %v", report.Repository.FullName(), err)
			}
		}
	}

	if services.Metrics != nil {
		if err := services.Metrics.Flush(); err != nil {
			logger.Warnf("[metrics] Failed to export metrics: %v", err)
		}
	}

	if services.Notifier != nil {
		if err := services.Notifier.Notify(ctx, summary, reports); err != nil {
			logger.Warnf("[notification] Failed to send run summary: %v", err)
		}
	}

	logger.Infof(
		"Run complete: %d repos processed, %d PRs created, %d held back, %d failed",
		summary.Repositories, summary.PullRequests, summary.HeldBack, summary.Failures,
	)
}

func closeServices(services *infraRepos.Services) {
	if err := services.Close(); err != nil {
		logger.Warnf("Failed to release run resources: %v", err)
	}
}
