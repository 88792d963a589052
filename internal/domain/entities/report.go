package entities

import "time"

// ManifestOutcome summarizes what happened to one manifest.
type ManifestOutcome string

const (
	OutcomeUpToDate     ManifestOutcome = "up-to-date"
	OutcomeSkipped      ManifestOutcome = "skipped"
	OutcomeDryRun       ManifestOutcome = "dry-run"
	OutcomeNoneApproved ManifestOutcome = "none-approved"
	OutcomeExistingPR   ManifestOutcome = "existing-pr"
	OutcomeProposed     ManifestOutcome = "proposed"
	OutcomeFailed       ManifestOutcome = "failed"
)

// ManifestReport is the audit record of one manifest in one run.
type ManifestReport struct {
	Manifest    ManifestFile
	Updates     []ResolvedUpdate // every outdated dependency, in declaration order
	Partition   Partition
	RiskTier    RiskTier
	Outcome     ManifestOutcome
	Branch      string
	PullRequest *PullRequest
	Document    string // rendered audit Markdown
	Error       string
}

// RepositoryReport is the audit record of one repository in one run.
type RepositoryReport struct {
	Repository  Repository
	GeneratedAt time.Time
	DryRun      bool
	Manifests   []ManifestReport
	Failed      bool
	Errors      []string
}

// PullRequests returns the pull requests opened for the repository.
func (r RepositoryReport) PullRequests() []PullRequest {
	var prs []PullRequest
	for _, m := range r.Manifests {
		if m.PullRequest != nil {
			prs = append(prs, *m.PullRequest)
		}
	}
	return prs
}

// HeldBack counts the outdated dependencies excluded from pull requests.
func (r RepositoryReport) HeldBack() int {
	count := 0
	for _, m := range r.Manifests {
		count += len(m.Partition.HeldBack())
	}
	return count
}

// Summarize aggregates repository reports into a run summary.
func Summarize(reports []RepositoryReport, dryRun bool) RunSummary {
	summary := RunSummary{Repositories: len(reports), DryRun: dryRun}
	for _, r := range reports {
		summary.PullRequests += len(r.PullRequests())
		summary.HeldBack += r.HeldBack()
		if r.Failed {
			summary.Failures++
		}
	}
	return summary
}

// RunSummary aggregates a batch run.
type RunSummary struct {
	Repositories int
	PullRequests int
	Failures     int
	HeldBack     int
	DryRun       bool
}
