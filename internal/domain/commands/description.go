package commands

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
)

const (
	toolName        = "safeupdate"
	toolURL         = "https://github.com/rios0rios0/safeupdate"
	changelogPath   = "CHANGELOG.md"
	branchPrefix    = "chore/safeupdate"
	noneMarker      = "None"
	maxBranchLength = 120
)

// tierOrder is the order of the detailed-changes tables.
var tierOrder = []entities.UpdateTier{ //nolint:gochecknoglobals // read-only ordering
	entities.TierMajor,
	entities.TierMinor,
	entities.TierPatch,
	entities.TierUnknown,
}

var branchUnsafeChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// DescriptionInput is everything RenderDescription needs for one manifest.
type DescriptionInput struct {
	Manifest    entities.ManifestFile
	Ecosystem   repositories.EcosystemRepository
	Updates     []entities.ResolvedUpdate // approved updates, or every candidate in a dry run
	HeldBack    []entities.ResolvedUpdate // only rendered in audit reports
	RiskTier    entities.RiskTier
	GeneratedAt time.Time
	DryRun      bool
	Audit       bool
}

// PullRequestTitle returns the conventional-commit title for a set of updates.
func PullRequestTitle(ecosystem entities.Ecosystem, updates []entities.ResolvedUpdate) string {
	if len(updates) == 1 {
		return fmt.Sprintf(
			"chore(deps): upgraded `%s` to `%s`",
			updates[0].Name(), updates[0].BareLatest(),
		)
	}
	return fmt.Sprintf("chore(deps): upgraded %d %s dependencies", len(updates), ecosystem)
}

// BranchName returns the deterministic branch used for a manifest's updates.
func BranchName(ecosystem entities.Ecosystem, updates []entities.ResolvedUpdate) string {
	var name string
	if len(updates) == 1 {
		name = fmt.Sprintf(
			"%s-%s-%s-%s",
			branchPrefix, ecosystem, sanitizeBranchPart(updates[0].Name()), sanitizeBranchPart(updates[0].BareLatest()),
		)
	} else {
		name = fmt.Sprintf("%s-%s-%d-updates", branchPrefix, ecosystem, len(updates))
	}
	if len(name) > maxBranchLength {
		name = strings.TrimRight(name[:maxBranchLength], "-.")
	}
	return name
}

func sanitizeBranchPart(raw string) string {
	lowered := strings.ToLower(raw)
	return strings.Trim(branchUnsafeChars.ReplaceAllString(lowered, "-"), "-.")
}

// RenderDescription renders the Markdown change document. Sections always
// appear in the same order so that consumers can parse the report.
func RenderDescription(input DescriptionInput) string {
	var sb strings.Builder

	title := PullRequestTitle(input.Manifest.Ecosystem, input.Updates)
	if input.Audit {
		title = fmt.Sprintf("Dependency audit: %s", input.Manifest.FileKind())
	}
	sb.WriteString("# " + title + "\n\n")

	writeMetadata(&sb, input)
	writeSummary(&sb, input.Updates)
	writeSecurityStatement(&sb, input)
	writeRiskAssessment(&sb, input.RiskTier)
	writeDetailedChanges(&sb, input)
	writeVulnerabilityDetails(&sb, input.Updates)
	if input.Audit {
		writeHeldBack(&sb, input.HeldBack)
	}
	writeTestingInstructions(&sb, input.Ecosystem)

	sb.WriteString("---\n")
	if input.Audit {
		sb.WriteString("*This audit report was generated by [" + toolName + "](" + toolURL + ")*\n")
	} else {
		sb.WriteString("*This PR was automatically created by [" + toolName + "](" + toolURL + ")*\n")
	}
	return sb.String()
}

func writeMetadata(sb *strings.Builder, input DescriptionInput) {
	sb.WriteString("## Framework Metadata\n\n")
	sb.WriteString("| Field | Value |\n|---|---|\n")
	sb.WriteString("| Tool | " + toolName + " |\n")
	sb.WriteString("| File | `" + input.Manifest.FileKind() + "` |\n")
	sb.WriteString("| Generated | " + input.GeneratedAt.UTC().Format(time.RFC3339) + " |\n")
	if input.DryRun {
		sb.WriteString("| Mode | dry run |\n")
	}
	sb.WriteString("\n")
}

func writeSummary(sb *strings.Builder, updates []entities.ResolvedUpdate) {
	counts := entities.CountByTier(updates)
	sb.WriteString("## Updates Summary\n\n")
	sb.WriteString("| Tier | Count |\n|---|---|\n")
	for _, tier := range tierOrder {
		if tier == entities.TierUnknown && counts[tier] == 0 {
			continue
		}
		fmt.Fprintf(sb, "| %s | %d |\n", tierTitle(tier), counts[tier])
	}
	fmt.Fprintf(sb, "| **Total** | **%d** |\n\n", len(updates))
}

func writeSecurityStatement(sb *strings.Builder, input DescriptionInput) {
	sb.WriteString("## Security Verification\n\n")
	if input.DryRun {
		sb.WriteString(
			"Dry run: the security assessment was skipped. " +
				"Every outdated dependency is listed as a candidate and nothing was written.\n\n",
		)
		return
	}
	sb.WriteString(
		"Every update listed in **Detailed Changes** was assessed for known vulnerabilities " +
			"and explicitly confirmed safe for the transition from its current to its new version. " +
			"Updates that were unsafe or could not be confirmed were excluded.\n\n",
	)
}

func writeRiskAssessment(sb *strings.Builder, tier entities.RiskTier) {
	sb.WriteString("## Risk Assessment\n\n")
	sb.WriteString("**Risk tier:** " + string(tier) + "\n\n")
	switch tier {
	case entities.RiskHigh:
		sb.WriteString(
			"> **Warning:** this change contains major version upgrades that may introduce " +
				"breaking changes. Review the changelogs carefully before merging.\n\n",
		)
	case entities.RiskMedium:
		sb.WriteString(
			"> **Warning:** this change contains minor version upgrades that may introduce " +
				"new behaviour. Run the full test suite before merging.\n\n",
		)
	case entities.RiskLow:
	}
}

func writeDetailedChanges(sb *strings.Builder, input DescriptionInput) {
	sb.WriteString("## Detailed Changes\n\n")
	if len(input.Updates) == 0 {
		sb.WriteString("No updates.\n\n")
		return
	}
	for _, tier := range tierOrder {
		var rows []entities.ResolvedUpdate
		for _, update := range input.Updates {
			if update.Tier == tier {
				rows = append(rows, update)
			}
		}
		if len(rows) == 0 {
			continue
		}
		sb.WriteString("### " + tierTitle(tier) + " Updates\n\n")
		sb.WriteString("| Package | Current Version | Current CVEs | New Version | New CVEs | Category | Changelog |\n")
		sb.WriteString("|---|---|---|---|---|---|---|\n")
		for _, update := range rows {
			current, next := attributed(update)
			fmt.Fprintf(
				sb, "| `%s` | `%s` | %s | `%s` | %s | %s | %s |\n",
				escapeCell(update.Name()),
				escapeCell(update.Current()),
				vulnerabilityIDs(current),
				escapeCell(update.BareLatest()),
				vulnerabilityIDs(next),
				update.Dependency.Category,
				changelogLink(input.Ecosystem, update),
			)
		}
		sb.WriteString("\n")
	}
}

func writeVulnerabilityDetails(sb *strings.Builder, updates []entities.ResolvedUpdate) {
	sb.WriteString("## Vulnerability Details\n\n")
	written := 0
	for _, update := range updates {
		current, next := attributed(update)
		if len(current)+len(next) == 0 {
			continue
		}
		written++
		writeDetailsBlock(sb, update, current, next)
	}
	if written == 0 {
		sb.WriteString("No vulnerabilities were attributed to the listed dependencies.\n\n")
	}
}

func writeDetailsBlock(sb *strings.Builder, update entities.ResolvedUpdate, current, next []entities.Vulnerability) {
	fmt.Fprintf(
		sb, "<details>\n<summary><code>%s</code> (%d vulnerabilities)</summary>\n\n",
		update.Name(), len(current)+len(next),
	)
	fmt.Fprintf(sb, "**Current version `%s`:**\n\n", update.Current())
	writeVulnerabilityList(sb, current)
	fmt.Fprintf(sb, "**New version `%s`:**\n\n", update.BareLatest())
	writeVulnerabilityList(sb, next)
	sb.WriteString("</details>\n\n")
}

func writeVulnerabilityList(sb *strings.Builder, vulnerabilities []entities.Vulnerability) {
	if len(vulnerabilities) == 0 {
		sb.WriteString("None reported.\n\n")
		return
	}
	for _, v := range vulnerabilities {
		fmt.Fprintf(sb, "- [%s](%s) (%s)", v.ID, v.ReferenceURL(), v.Severity)
		if v.Description != "" {
			sb.WriteString(": " + v.Description)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func writeHeldBack(sb *strings.Builder, held []entities.ResolvedUpdate) {
	sb.WriteString("## Held Back Updates\n\n")
	if len(held) == 0 {
		sb.WriteString("No updates were held back.\n\n")
		return
	}
	sb.WriteString("| Package | Current Version | Current CVEs | Latest Version | New CVEs | Tier | Reason |\n")
	sb.WriteString("|---|---|---|---|---|---|---|\n")
	for _, update := range held {
		current, next := attributed(update)
		fmt.Fprintf(
			sb, "| `%s` | `%s` | %s | `%s` | %s | %s | %s |\n",
			escapeCell(update.Name()),
			escapeCell(update.Current()),
			vulnerabilityIDs(current),
			escapeCell(update.BareLatest()),
			vulnerabilityIDs(next),
			update.Tier,
			heldBackReason(update),
		)
	}
	sb.WriteString("\n")

	for _, update := range held {
		current, next := attributed(update)
		if len(current)+len(next) > 0 {
			writeDetailsBlock(sb, update, current, next)
		}
	}
}

func writeTestingInstructions(sb *strings.Builder, ecosystem repositories.EcosystemRepository) {
	sb.WriteString("## Testing Instructions\n\n")
	sb.WriteString("```bash\n")
	if ecosystem != nil {
		sb.WriteString(strings.TrimRight(ecosystem.TestingInstructions(), "\n") + "\n")
	}
	sb.WriteString("```\n\n")
}

func heldBackReason(update entities.ResolvedUpdate) string {
	switch {
	case update.Verdict == nil:
		return "unchecked"
	case update.IsSafe() && update.PolicyHeld:
		return "held by policy"
	case update.Verdict.Notes != "" && !update.Verdict.Safe && len(update.Verdict.NewVulnerabilities) == 0:
		return "unsafe: " + escapeCell(firstLine(update.Verdict.Notes))
	default:
		return "unsafe"
	}
}

func attributed(update entities.ResolvedUpdate) ([]entities.Vulnerability, []entities.Vulnerability) {
	if update.Verdict == nil {
		return nil, nil
	}
	return update.Verdict.CurrentVulnerabilities, update.Verdict.NewVulnerabilities
}

func vulnerabilityIDs(vulnerabilities []entities.Vulnerability) string {
	if len(vulnerabilities) == 0 {
		return noneMarker
	}
	ids := make([]string, 0, len(vulnerabilities))
	for _, v := range vulnerabilities {
		ids = append(ids, "["+v.ID+"]("+v.ReferenceURL()+")")
	}
	return strings.Join(ids, ", ")
}

func changelogLink(ecosystem repositories.EcosystemRepository, update entities.ResolvedUpdate) string {
	if ecosystem == nil {
		return noneMarker
	}
	link := ecosystem.ChangelogURL(update.Dependency, update.BareLatest())
	if link == "" {
		return noneMarker
	}
	return "[versions](" + link + ")"
}

func tierTitle(tier entities.UpdateTier) string {
	s := string(tier)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func escapeCell(value string) string {
	return strings.ReplaceAll(value, "|", `\|`)
}

func firstLine(value string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(value), "\n")
	return line
}
