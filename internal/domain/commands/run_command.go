package commands

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	infraRepos "github.com/rios0rios0/safeupdate/internal/infrastructure/repositories"
)

// ErrNoProviders is returned when batch mode has nothing to discover.
var ErrNoProviders = errors.New("at least one provider must be configured for batch mode")

// Run is the interface for the run command (batch mode).
type Run interface {
	Execute(ctx context.Context, settings *entities.Settings, opts RunOptions) ([]entities.RepositoryReport, error)
}

// RunOptions holds runtime options for a single run.
type RunOptions struct {
	DryRun       bool
	Verbose      bool
	ProviderName string               // If set, only process this provider (CLI override)
	OrgOverride  string               // If set, only process this org (CLI override)
	Ecosystems   []entities.Ecosystem // If set, only evaluate these ecosystems (CLI override)
}

// RunCommand orchestrates the batch flow:
// discover repositories -> locate manifests -> evaluate -> propose safe updates.
type RunCommand struct {
	providerRegistry  *infraRepos.ProviderRegistry
	ecosystemRegistry *infraRepos.EcosystemRegistry
	serviceFactory    *infraRepos.ServiceFactory
}

// NewRunCommand creates a new RunCommand with the given registries.
func NewRunCommand(
	providerRegistry *infraRepos.ProviderRegistry,
	ecosystemRegistry *infraRepos.EcosystemRegistry,
	serviceFactory *infraRepos.ServiceFactory,
) *RunCommand {
	return &RunCommand{
		providerRegistry:  providerRegistry,
		ecosystemRegistry: ecosystemRegistry,
		serviceFactory:    serviceFactory,
	}
}

// Execute runs the full update cycle using the provided configuration.
// Repositories are processed sequentially; a failing repository never stops the run.
func (it *RunCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	runOpts RunOptions,
) ([]entities.RepositoryReport, error) {
	if runOpts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	if len(settings.Providers) == 0 {
		return nil, ErrNoProviders
	}

	services, err := it.serviceFactory.Build(ctx, settings, runOpts.DryRun)
	if err != nil {
		return nil, err
	}
	defer closeServices(services)

	pipeline := NewPipeline(
		it.ecosystemRegistry.Enabled(settings),
		services.Resolver, services.Oracle, services.Policy, services.Metrics,
	)
	updateOpts := entities.UpdateOptions{
		DryRun:       runOpts.DryRun,
		Verbose:      runOpts.Verbose,
		TargetBranch: settings.TargetBranch,
		Ecosystems:   runOpts.Ecosystems,
	}

	var reports []entities.RepositoryReport
	discoveryErrors := 0

	for _, provCfg := range settings.Providers {
		// Skip if CLI filter is set and doesn't match
		if runOpts.ProviderName != "" && provCfg.Type != runOpts.ProviderName {
			continue
		}

		provider, provErr := it.providerRegistry.Get(provCfg.Type, provCfg.Token)
		if provErr != nil {
			logger.Errorf("Failed to initialize provider %q: %v", provCfg.Type, provErr)
			discoveryErrors++
			continue
		}

		logger.Infof("Processing provider: %s", provider.Name())

		for _, org := range provCfg.Organizations {
			// Skip if CLI filter is set and doesn't match
			if runOpts.OrgOverride != "" && org != runOpts.OrgOverride {
				continue
			}

			logger.Infof("Discovering repositories in %q...", org)

			repos, discoverErr := provider.ListRepositories(ctx, org)
			if discoverErr != nil {
				logger.Errorf("Failed to discover repos in %q: %v", org, discoverErr)
				discoveryErrors++
				continue
			}

			logger.Infof("Found %d repositories in %q", len(repos), org)

			for _, repo := range repos {
				if ctx.Err() != nil {
					logger.Warnf("Run interrupted: %v", ctx.Err())
					break
				}
				report := pipeline.ProcessRepository(ctx, provider, repo, updateOpts)
				for _, pr := range report.PullRequests() {
					logger.Infof("  Created PR #%d: %s (%s)", pr.ID, pr.Title, pr.URL)
				}
				reports = append(reports, report)
			}
		}
	}

	summary := entities.Summarize(reports, runOpts.DryRun)
	summary.Failures += discoveryErrors
	publishRun(ctx, services, reports, summary)
	return reports, nil
}
