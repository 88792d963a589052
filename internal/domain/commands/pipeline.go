package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
)

var errRewriteNoChange = errors.New("rewrite produced no change")

// Pipeline evaluates the manifests of one repository: extract, resolve,
// classify, assess, partition and, outside of dry runs, propose the safe subset.
type Pipeline struct {
	ecosystems []repositories.EcosystemRepository
	resolver   repositories.VersionResolverRepository
	oracle     repositories.SecurityOracleRepository
	policy     repositories.PolicyRepository
	metrics    repositories.MetricsRepository
	now        func() time.Time
}

// NewPipeline creates a pipeline. oracle, policy and metrics may be nil.
func NewPipeline(
	ecosystems []repositories.EcosystemRepository,
	resolver repositories.VersionResolverRepository,
	oracle repositories.SecurityOracleRepository,
	policy repositories.PolicyRepository,
	metrics repositories.MetricsRepository,
) *Pipeline {
	return &Pipeline{
		ecosystems: ecosystems,
		resolver:   resolver,
		oracle:     oracle,
		policy:     policy,
		metrics:    metrics,
		now:        time.Now,
	}
}

// ProcessRepository runs the pipeline on every manifest found in repo.
// It never returns an error: failures are recorded in the report.
func (it *Pipeline) ProcessRepository(
	ctx context.Context,
	provider repositories.ProviderRepository,
	repo entities.Repository,
	opts entities.UpdateOptions,
) entities.RepositoryReport {
	report := entities.RepositoryReport{
		Repository:  repo,
		GeneratedAt: it.now(),
		DryRun:      opts.DryRun,
	}

	ecosystems := make([]repositories.EcosystemRepository, 0, len(it.ecosystems))
	byName := make(map[entities.Ecosystem]repositories.EcosystemRepository, len(it.ecosystems))
	for _, ecosystem := range it.ecosystems {
		if !opts.Allows(ecosystem.Ecosystem()) {
			continue
		}
		ecosystems = append(ecosystems, ecosystem)
		byName[ecosystem.Ecosystem()] = ecosystem
	}

	manifests := LocateManifests(ctx, provider, repo, ecosystems)
	if len(manifests) == 0 {
		logger.Infof("[pipeline] No supported manifest found in %s", repo.FullName())
	}

	for _, manifest := range manifests {
		result := it.processManifest(ctx, provider, repo, byName[manifest.Ecosystem], manifest, opts, report.GeneratedAt)
		if result.Outcome == entities.OutcomeFailed {
			report.Failed = true
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %s", manifest.Path, result.Error))
		}
		if it.metrics != nil {
			it.metrics.ObserveManifest(manifest.Ecosystem, result.Outcome)
		}
		report.Manifests = append(report.Manifests, result)
	}

	if it.metrics != nil {
		it.metrics.ObserveRepository(report)
	}
	return report
}

func (it *Pipeline) processManifest(
	ctx context.Context,
	provider repositories.ProviderRepository,
	repo entities.Repository,
	ecosystem repositories.EcosystemRepository,
	manifest entities.ManifestFile,
	opts entities.UpdateOptions,
	generatedAt time.Time,
) entities.ManifestReport {
	result := entities.ManifestReport{Manifest: manifest, RiskTier: entities.RiskLow}
	fields := logger.Fields{"repository": repo.FullName(), "manifest": manifest.Path}

	dependencies, err := ecosystem.Extract(manifest.Content)
	if err != nil {
		logger.WithFields(fields).WithField("stage", "extract").Warnf("[%s] Skipping unparsable manifest: %v", manifest.Ecosystem, err)
		result.Outcome = entities.OutcomeSkipped
		result.Error = err.Error()
		return result
	}

	updates := it.evaluate(ctx, repo, manifest, dependencies)
	result.Updates = updates
	if len(updates) == 0 {
		logger.Infof("[%s] %s in %s is up to date", manifest.Ecosystem, manifest.Path, repo.FullName())
		result.Outcome = entities.OutcomeUpToDate
		return result
	}

	document := DescriptionInput{
		Manifest:    manifest,
		Ecosystem:   ecosystem,
		GeneratedAt: generatedAt,
		DryRun:      opts.DryRun,
		Audit:       true,
	}

	if opts.DryRun {
		for _, update := range updates {
			logger.Infof(
				"[%s] [DRY RUN] Would consider %s %s -> %s (%s)",
				manifest.Ecosystem, update.Name(), update.Current(), update.BareLatest(), update.Tier,
			)
			it.observe(update)
		}
		result.Partition = entities.Partition{Candidates: updates}
		result.RiskTier = entities.DecideRiskTier(updates)
		document.Updates = updates
		document.RiskTier = result.RiskTier
		result.Document = RenderDescription(document)
		result.Outcome = entities.OutcomeDryRun
		return result
	}

	it.assess(ctx, repo, manifest, updates)
	result.Partition = entities.PartitionUpdates(updates)
	result.RiskTier = entities.DecideRiskTier(result.Partition.Approved)
	document.Updates = result.Partition.Approved
	document.HeldBack = result.Partition.HeldBack()
	document.RiskTier = result.RiskTier
	result.Document = RenderDescription(document)

	approved := result.Partition.Approved
	if len(approved) == 0 {
		logger.Infof(
			"[%s] No safe update for %s in %s (%d held back)",
			manifest.Ecosystem, manifest.Path, repo.FullName(), len(document.HeldBack),
		)
		result.Outcome = entities.OutcomeNoneApproved
		return result
	}

	result.Branch = BranchName(manifest.Ecosystem, approved)
	exists, prCheckErr := provider.PullRequestExists(ctx, repo, result.Branch)
	if prCheckErr != nil {
		logger.WithFields(fields).Warnf("[%s] Failed to check existing PRs: %v", manifest.Ecosystem, prCheckErr)
	}
	if exists {
		logger.Infof("[%s] PR already exists for branch %q, skipping", manifest.Ecosystem, result.Branch)
		result.Outcome = entities.OutcomeExistingPR
		return result
	}

	document.Audit = false
	document.HeldBack = nil
	pr, proposeErr := it.propose(ctx, provider, repo, ecosystem, manifest, result.Branch, document, opts)
	if proposeErr != nil {
		logger.WithFields(fields).WithField("stage", "write").Errorf("[%s] Failed to propose updates: %v", manifest.Ecosystem, proposeErr)
		result.Outcome = entities.OutcomeFailed
		result.Error = proposeErr.Error()
		return result
	}

	logger.Infof("[%s] Created PR #%d for %s: %s", manifest.Ecosystem, pr.ID, repo.FullName(), pr.URL)
	result.PullRequest = pr
	result.Outcome = entities.OutcomeProposed
	return result
}

// evaluate resolves and classifies every dependency. Failures are isolated:
// an unresolved or unclassifiable dependency is logged and skipped.
func (it *Pipeline) evaluate(
	ctx context.Context,
	repo entities.Repository,
	manifest entities.ManifestFile,
	dependencies []entities.DeclaredDependency,
) []entities.ResolvedUpdate {
	var updates []entities.ResolvedUpdate
	for _, dependency := range dependencies {
		if update, ok := it.evaluateDependency(ctx, repo, manifest, dependency); ok {
			updates = append(updates, update)
		}
	}
	return updates
}

func (it *Pipeline) evaluateDependency(
	ctx context.Context,
	repo entities.Repository,
	manifest entities.ManifestFile,
	dependency entities.DeclaredDependency,
) (update entities.ResolvedUpdate, ok bool) {
	entry := logger.WithFields(logger.Fields{
		"repository": repo.FullName(),
		"manifest":   manifest.Path,
		"dependency": dependency.Name,
	})
	defer func() {
		if r := recover(); r != nil {
			entry.WithField("stage", "classify").Errorf("[%s] Recovered while evaluating dependency: %v", manifest.Ecosystem, r)
			ok = false
		}
	}()

	latest, err := it.resolver.ResolveLatestVersion(ctx, dependency, manifest.Ecosystem)
	latest = strings.TrimSpace(latest)
	if err == nil && latest == "" {
		err = repositories.ErrUnresolved
	}
	if err != nil {
		entry.WithField("stage", "resolve").Warnf("[%s] Skipping unresolved dependency: %v", manifest.Ecosystem, err)
		return entities.ResolvedUpdate{}, false
	}

	classification := entities.ClassifyUpdate(dependency.Expression, latest)
	if !classification.Outdated {
		entry.Debugf("[%s] %s is up to date (%s)", manifest.Ecosystem, dependency.Name, latest)
		return entities.ResolvedUpdate{}, false
	}

	return entities.ResolvedUpdate{
		Dependency: dependency,
		Ecosystem:  manifest.Ecosystem,
		Latest:     latest,
		Tier:       classification.Tier,
	}, true
}

// assess attaches a verdict to every update and applies the approval policy to safe ones.
func (it *Pipeline) assess(
	ctx context.Context,
	repo entities.Repository,
	manifest entities.ManifestFile,
	updates []entities.ResolvedUpdate,
) {
	for i := range updates {
		verdict := it.assessTransition(ctx, updates[i])
		updates[i].Verdict = &verdict

		if verdict.Safe && it.policy != nil {
			allowed, err := it.policy.Allows(updates[i])
			if err != nil {
				logger.WithFields(logger.Fields{
					"repository": repo.FullName(),
					"manifest":   manifest.Path,
					"dependency": updates[i].Name(),
					"stage":      "policy",
				}).Warnf("[policy] Holding back update after evaluation error: %v", err)
				allowed = false
			}
			updates[i].PolicyHeld = !allowed
		}

		logger.Infof(
			"[%s] %s %s -> %s: %s",
			manifest.Ecosystem, updates[i].Name(), updates[i].Current(), updates[i].BareLatest(),
			verdict.EffectiveState(),
		)
		it.observe(updates[i])
	}
}

// assessTransition consults the security oracle; any failure is an unsafe verdict.
func (it *Pipeline) assessTransition(ctx context.Context, update entities.ResolvedUpdate) (verdict entities.SecurityVerdict) {
	if it.oracle == nil {
		return entities.UnsafeVerdict("security oracle not configured")
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[security] Recovered while assessing %s: %v", update.Name(), r)
			verdict = entities.UnsafeVerdict(fmt.Sprintf("security assessment failed: %v", r))
		}
	}()

	current, err := entities.NormalizeVersion(update.Current())
	if err != nil {
		current = update.Current()
	}
	return it.oracle.AssessTransition(ctx, repositories.AssessmentRequest{
		Ecosystem:      update.Ecosystem,
		Name:           update.Name(),
		CurrentVersion: current,
		NewVersion:     update.BareLatest(),
	})
}

// propose rewrites the manifest, commits it (plus the changelog) on a new
// branch and opens the pull request.
func (it *Pipeline) propose(
	ctx context.Context,
	provider repositories.ProviderRepository,
	repo entities.Repository,
	ecosystem repositories.EcosystemRepository,
	manifest entities.ManifestFile,
	branch string,
	document DescriptionInput,
	opts entities.UpdateOptions,
) (*entities.PullRequest, error) {
	approved := document.Updates
	rewritten, err := ecosystem.Rewrite(manifest.Content, approved)
	if err != nil {
		return nil, fmt.Errorf("failed to rewrite %s: %w", manifest.Path, err)
	}
	if rewritten == manifest.Content {
		return nil, fmt.Errorf("%s: %w", manifest.Path, errRewriteNoChange)
	}
	updated := manifest.WithContent(rewritten)

	title := PullRequestTitle(manifest.Ecosystem, approved)
	if err = provider.CreateBranch(ctx, repo, branch, repo.DefaultBranch); err != nil {
		return nil, fmt.Errorf("failed to create branch %q: %w", branch, err)
	}
	if err = provider.WriteFile(ctx, repo, updated.Path, updated.Content, branch, title); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", updated.Path, err)
	}
	it.updateChangelog(ctx, provider, repo, branch, approved)

	targetBranch := repo.DefaultBranch
	if opts.TargetBranch != "" {
		targetBranch = "refs/heads/" + strings.TrimPrefix(opts.TargetBranch, "refs/heads/")
	}

	pr, err := provider.CreatePullRequest(ctx, repo, entities.PullRequestInput{
		SourceBranch: "refs/heads/" + branch,
		TargetBranch: targetBranch,
		Title:        title,
		Description:  RenderDescription(document),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create PR: %w", err)
	}
	return pr, nil
}

// updateChangelog adds one entry per approved update to CHANGELOG.md when the
// repository keeps an Unreleased section. Failures only produce a warning.
func (it *Pipeline) updateChangelog(
	ctx context.Context,
	provider repositories.ProviderRepository,
	repo entities.Repository,
	branch string,
	approved []entities.ResolvedUpdate,
) {
	content, err := provider.GetFileContent(ctx, repo, changelogPath)
	if err != nil {
		if !errors.Is(err, repositories.ErrFileNotFound) {
			logger.Warnf("[changelog] Failed to read %s in %s: %v", changelogPath, repo.FullName(), err)
		}
		return
	}

	updated, changed := entities.InsertChangelogEntry(content, entities.ChangelogEntries(approved))
	if !changed {
		logger.Debugf("[changelog] No Unreleased section in %s, skipping", repo.FullName())
		return
	}

	if err = provider.WriteFile(ctx, repo, changelogPath, updated, branch, "chore(changelog): recorded dependency upgrades"); err != nil {
		logger.Warnf("[changelog] Failed to update %s in %s: %v", changelogPath, repo.FullName(), err)
	}
}

func (it *Pipeline) observe(update entities.ResolvedUpdate) {
	if it.metrics != nil {
		it.metrics.ObserveUpdate(update)
	}
}
