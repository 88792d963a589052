package repositories

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	domainRepos "github.com/rios0rios0/safeupdate/internal/domain/repositories"
	"github.com/rios0rios0/safeupdate/internal/infrastructure/repositories/advisory"
	"github.com/rios0rios0/safeupdate/internal/infrastructure/repositories/metrics"
	"github.com/rios0rios0/safeupdate/internal/infrastructure/repositories/notification"
	"github.com/rios0rios0/safeupdate/internal/infrastructure/repositories/policy"
	"github.com/rios0rios0/safeupdate/internal/infrastructure/repositories/report"
	"github.com/rios0rios0/safeupdate/internal/infrastructure/repositories/resolver"
)

// ErrMissingOracleKey is returned when a non-dry run has no security oracle credentials.
var ErrMissingOracleKey = errors.New(
	"no security oracle API key found; set security.api_key or GEMINI_API_KEY / GOOGLE_API_KEY",
)

// Services are the run-scoped collaborators of the pipeline. The resolver
// cache and the metrics counters live exactly as long as one run.
type Services struct {
	Resolver domainRepos.VersionResolverRepository
	Oracle   domainRepos.SecurityOracleRepository // nil in dry runs
	Policy   domainRepos.PolicyRepository         // nil without a policy expression
	Reports  []domainRepos.ReportRepository
	Notifier domainRepos.NotifierRepository // nil without a webhook
	Metrics  domainRepos.MetricsRepository
	closers  []func() error
}

// Close releases resources held by the services.
func (s *Services) Close() error {
	var errs []error
	for _, closeFn := range s.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}

// ServiceBuilder creates the services of one run.
type ServiceBuilder func(ctx context.Context, settings *entities.Settings, dryRun bool) (*Services, error)

// ServiceFactory builds run-scoped services from settings.
type ServiceFactory struct {
	build ServiceBuilder
}

// NewServiceFactory creates a factory wired to the real adapters.
func NewServiceFactory() *ServiceFactory {
	return &ServiceFactory{build: buildServices}
}

// NewServiceFactoryWith creates a factory around a custom builder.
func NewServiceFactoryWith(build ServiceBuilder) *ServiceFactory {
	return &ServiceFactory{build: build}
}

// Build creates the services for one run.
func (f *ServiceFactory) Build(ctx context.Context, settings *entities.Settings, dryRun bool) (*Services, error) {
	return f.build(ctx, settings, dryRun)
}

func buildServices(ctx context.Context, settings *entities.Settings, dryRun bool) (*Services, error) {
	services := &Services{}

	cached, err := resolver.NewCachedResolver(resolver.NewDefaultResolver(settings.Resolver.Timeout), settings.Resolver.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver cache: %w", err)
	}
	services.Resolver = cached

	if !dryRun {
		if settings.Security.APIKey == "" {
			return nil, ErrMissingOracleKey
		}
		oracle, oracleErr := advisory.NewGeminiOracle(ctx, advisory.GeminiConfig{
			APIKey:  settings.Security.APIKey,
			Model:   settings.Security.Model,
			Timeout: settings.Security.Timeout,
		})
		if oracleErr != nil {
			return nil, fmt.Errorf("failed to create security oracle: %w", oracleErr)
		}
		services.Oracle = oracle
	}

	if settings.Policy.Expression != "" {
		celPolicy, policyErr := policy.NewCELPolicy(settings.Policy.Expression)
		if policyErr != nil {
			return nil, fmt.Errorf("invalid approval policy: %w", policyErr)
		}
		services.Policy = celPolicy
	}

	if settings.Report.Directory != "" {
		services.Reports = append(services.Reports, report.NewMarkdownDirectory(settings.Report.Directory))
	}
	if settings.Report.HistoryDatabase != "" {
		history, historyErr := report.NewSQLiteHistory(ctx, settings.Report.HistoryDatabase)
		if historyErr != nil {
			return nil, fmt.Errorf("failed to open audit history: %w", historyErr)
		}
		services.Reports = append(services.Reports, history)
		services.closers = append(services.closers, history.Close)
	}

	if settings.Notifications.SlackWebhook != "" {
		services.Notifier = notification.NewSlackNotifier(settings.Notifications.SlackWebhook)
	}

	services.Metrics = metrics.NewPrometheusMetrics(settings.Metrics.Textfile)

	logger.Debugf(
		"[services] resolver cache=%d, oracle=%t, policy=%t, reports=%d, notifier=%t",
		settings.Resolver.CacheSize, services.Oracle != nil, services.Policy != nil,
		len(services.Reports), services.Notifier != nil,
	)
	return services, nil
}

// HistoryOpener opens the audit history database for reading.
type HistoryOpener func(ctx context.Context, path string) (domainRepos.HistoryRepository, error)

// NewHistoryOpener returns the SQLite-backed opener.
func NewHistoryOpener() HistoryOpener {
	return func(ctx context.Context, path string) (domainRepos.HistoryRepository, error) {
		history, err := report.NewSQLiteHistory(ctx, path)
		if err != nil {
			return nil, err
		}
		return history, nil
	}
}
