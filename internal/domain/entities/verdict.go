package entities

import "strings"

// Severity grades a vulnerability.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityUnknown  Severity = "unknown"
)

// ParseSeverity maps free text to a Severity; "moderate" is treated as medium.
func ParseSeverity(raw string) Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityHigh
	case "medium", "moderate":
		return SeverityMedium
	case "low":
		return SeverityLow
	default:
		return SeverityUnknown
	}
}

// Vulnerability is one advisory attributed to a version.
type Vulnerability struct {
	ID          string
	Severity    Severity
	Description string
	URL         string
}

// ReferenceURL returns the advisory URL, falling back to the canonical page for the identifier.
func (v Vulnerability) ReferenceURL() string {
	if v.URL != "" {
		return v.URL
	}
	return CanonicalAdvisoryURL(v.ID)
}

// CanonicalAdvisoryURL builds a deterministic advisory URL keyed by identifier.
func CanonicalAdvisoryURL(id string) string {
	upper := strings.ToUpper(id)
	switch {
	case strings.HasPrefix(upper, "CVE-"):
		return "https://nvd.nist.gov/vuln/detail/" + upper
	case strings.HasPrefix(upper, "GHSA-"):
		return "https://github.com/advisories/" + id
	default:
		return "https://osv.dev/vulnerability/" + id
	}
}

// VerdictState is the security gate of a single dependency transition.
type VerdictState string

const (
	StateUnchecked VerdictState = "UNCHECKED"
	StateSafe      VerdictState = "SAFE"
	StateUnsafe    VerdictState = "UNSAFE"
)

// SecurityVerdict is the outcome of assessing one version transition.
// The zero value is fail-closed: Safe is false.
type SecurityVerdict struct {
	Safe                   bool
	State                  VerdictState
	CurrentVulnerabilities []Vulnerability
	NewVulnerabilities     []Vulnerability
	Notes                  string
}

// SafeVerdict builds an explicitly confirmed verdict.
func SafeVerdict(current, next []Vulnerability, notes string) SecurityVerdict {
	return SecurityVerdict{
		Safe:                   true,
		State:                  StateSafe,
		CurrentVulnerabilities: current,
		NewVulnerabilities:     next,
		Notes:                  notes,
	}
}

// UnsafeVerdict builds a rejected verdict carrying a diagnostic note.
func UnsafeVerdict(notes string) SecurityVerdict {
	return SecurityVerdict{State: StateUnsafe, Notes: notes}
}

// EffectiveState returns the gate state, treating anything not explicitly safe as unsafe.
func (v SecurityVerdict) EffectiveState() VerdictState {
	if v.Safe && v.State == StateSafe {
		return StateSafe
	}
	if v.State == StateUnchecked {
		return StateUnchecked
	}
	return StateUnsafe
}
