package commands

import (
	"context"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	infraRepos "github.com/rios0rios0/safeupdate/internal/infrastructure/repositories"
)

const (
	providerGitHub  = "github"
	providerGitLab  = "gitlab"
	defaultProvider = providerGitHub
)

// Scan is the interface for the scan command (single repository).
type Scan interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ScanOptions) (entities.RepositoryReport, error)
}

// ScanOptions holds runtime options for a single-repository scan.
type ScanOptions struct {
	Locator      string // owner/repo, host/owner/repo or a full URL
	ProviderName string // overrides the provider inferred from the locator
	Token        string // overrides config and environment tokens
	DryRun       bool
	Verbose      bool
	Ecosystems   []entities.Ecosystem
}

// ScanCommand runs the pipeline against one repository.
type ScanCommand struct {
	providerRegistry  *infraRepos.ProviderRegistry
	ecosystemRegistry *infraRepos.EcosystemRegistry
	serviceFactory    *infraRepos.ServiceFactory
}

// NewScanCommand creates a new ScanCommand.
func NewScanCommand(
	providerRegistry *infraRepos.ProviderRegistry,
	ecosystemRegistry *infraRepos.EcosystemRegistry,
	serviceFactory *infraRepos.ServiceFactory,
) *ScanCommand {
	return &ScanCommand{
		providerRegistry:  providerRegistry,
		ecosystemRegistry: ecosystemRegistry,
		serviceFactory:    serviceFactory,
	}
}

// Execute normalizes the locator, resolves credentials and processes the repository.
// Only startup failures (locator, credentials, provider, repository lookup) are returned.
func (it *ScanCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts ScanOptions,
) (entities.RepositoryReport, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	ref, err := entities.ParseRepositoryLocator(opts.Locator)
	if err != nil {
		return entities.RepositoryReport{}, err
	}

	providerName := firstNonEmpty(opts.ProviderName, ref.Provider, defaultProvider)
	token := firstNonEmpty(opts.Token, configuredToken(settings, providerName), resolveTokenFromEnv(providerName))
	if token == "" {
		return entities.RepositoryReport{}, fmt.Errorf(
			"no auth token found for %s; set --token or the appropriate env var (%s)",
			providerName, tokenEnvHint(providerName),
		)
	}

	provider, err := it.providerRegistry.Get(providerName, token)
	if err != nil {
		return entities.RepositoryReport{}, err
	}

	services, err := it.serviceFactory.Build(ctx, settings, opts.DryRun)
	if err != nil {
		return entities.RepositoryReport{}, err
	}
	defer closeServices(services)

	repo, err := provider.GetRepository(ctx, ref.Owner, ref.Name)
	if err != nil {
		return entities.RepositoryReport{}, fmt.Errorf("failed to open %s on %s: %w", ref, providerName, err)
	}
	logger.Infof("Scanning %s on %s (default branch %s)", repo.FullName(), providerName, repo.DefaultBranch)

	pipeline := NewPipeline(
		it.ecosystemRegistry.Enabled(settings),
		services.Resolver, services.Oracle, services.Policy, services.Metrics,
	)
	report := pipeline.ProcessRepository(ctx, provider, repo, entities.UpdateOptions{
		DryRun:       opts.DryRun,
		Verbose:      opts.Verbose,
		TargetBranch: settings.TargetBranch,
		Ecosystems:   opts.Ecosystems,
	})

	reports := []entities.RepositoryReport{report}
	publishRun(ctx, services, reports, entities.Summarize(reports, opts.DryRun))
	return report, nil
}

// configuredToken returns the token of the first configured provider of the given type.
func configuredToken(settings *entities.Settings, providerName string) string {
	if settings == nil {
		return ""
	}
	for _, p := range settings.Providers {
		if p.Type == providerName && p.Token != "" {
			return p.Token
		}
	}
	return ""
}

func resolveTokenFromEnv(providerType string) string {
	switch providerType {
	case providerGitHub:
		return firstNonEmpty(os.Getenv("GITHUB_TOKEN"), os.Getenv("GH_TOKEN"))
	case providerGitLab:
		return firstNonEmpty(os.Getenv("GITLAB_TOKEN"), os.Getenv("GL_TOKEN"))
	default:
		return ""
	}
}

func tokenEnvHint(providerType string) string {
	switch providerType {
	case providerGitHub:
		return "GITHUB_TOKEN or GH_TOKEN"
	case providerGitLab:
		return "GITLAB_TOKEN or GL_TOKEN"
	default:
		return "<unknown provider>"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
