package advisory

import (
	"regexp"
	"strings"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

const (
	windowSize        = 400
	maxDescription    = 240
	noteEmptyResponse = "empty security assessment"
	noteNoAffirmation = "no standalone \"VERDICT: SAFE\" line in the security assessment"
	noteNegated       = "the security assessment declared the upgrade unsafe"
	noteHedged        = "the security assessment is hedged or uncertain"
	noteConfirmed     = "confirmed safe by the security assessment"
)

type section int

const (
	sectionPreamble section = iota
	sectionCurrent
	sectionNew
	sectionVerdict
)

var (
	identifierPattern = regexp.MustCompile(
		`(?i)\b(CVE-\d{4}-\d{4,}|GHSA(?:-[0-9a-z]{4}){3}|PYSEC-\d{4}-\d+|GO-\d{4}-\d{4,})\b`,
	)
	headingPattern = regexp.MustCompile(
		`(?im)^[\s#*>_-]*(?:(current|existing|old)\s+version|(new|latest|target|proposed)\s+version|(verdict)\b)`,
	)
	urlPattern      = regexp.MustCompile(`https?://[^\s)\]>"'<]+`)
	severityPattern = regexp.MustCompile(`(?i)\b(critical|high|medium|moderate|low)\b`)
	// the verdict line must stand alone: "VERDICT: SAFE? Unclear." does not count
	affirmedVerdict = regexp.MustCompile(
		`(?im)^[\s#*>_-]*verdict[ \t]*\**[ \t]*[:=-][ \t]*\**[ \t]*safe[ \t]*\**[ \t]*\.?[ \t]*$`,
	)
	negatedVerdict     = regexp.MustCompile(`(?im)verdict\s*\**\s*[:=-]\s*\**\s*unsafe\b`)
	negationVocabulary = regexp.MustCompile(`(?i)\bunsafe\b|\bnot[ \t]+(?:[a-z]+[ \t]+){0,2}safe\b`)
	hedgeVocabulary    = regexp.MustCompile(
		`(?i)\b(?:cannot|can't|could\s+not|couldn't|unable\s+to)\s+(?:confirm|verify|determine|guarantee)\b` +
			`|\b(?:unclear|uncertain|unknown\s+whether|not\s+(?:sure|certain))\b` +
			`|\bsafe\b[^.!?\n]*\?`,
	)
	leadingNoise = regexp.MustCompile(
		`^[\s:(\[*|,-]*(?i:(?:critical|high|medium|moderate|low)(?:\s+severity)?)?[\s:)\]*|,-]*`,
	)
)

type span struct {
	kind  section
	start int
	end   int
}

// ParseAssessment turns a free-text security assessment into a verdict.
// A transition is safe only when a standalone "VERDICT: SAFE" line affirms
// it, nothing negates, questions or hedges it, and no critical or high
// vulnerability is attributed to the new version. Anything else is unsafe.
func ParseAssessment(text string) entities.SecurityVerdict {
	text = strings.TrimSpace(text)
	if text == "" {
		return entities.UnsafeVerdict(noteEmptyResponse)
	}

	var current, next []entities.Vulnerability
	for _, s := range splitSections(text) {
		found := extractVulnerabilities(text[s.start:s.end])
		switch s.kind {
		case sectionCurrent:
			current = mergeVulnerabilities(current, found)
		case sectionNew, sectionPreamble:
			// unheaded identifiers are attributed to the new version
			next = mergeVulnerabilities(next, found)
		case sectionVerdict:
		}
	}

	unsafe := func(notes string) entities.SecurityVerdict {
		return entities.SecurityVerdict{
			State:                  entities.StateUnsafe,
			CurrentVulnerabilities: current,
			NewVulnerabilities:     next,
			Notes:                  notes,
		}
	}

	if negatedVerdict.MatchString(text) || negationVocabulary.MatchString(text) {
		return unsafe(noteNegated)
	}
	if hedgeVocabulary.MatchString(text) {
		return unsafe(noteHedged)
	}
	if !affirmedVerdict.MatchString(text) {
		return unsafe(noteNoAffirmation)
	}
	for _, v := range next {
		if v.Severity == entities.SeverityCritical || v.Severity == entities.SeverityHigh {
			return unsafe("the new version is affected by " + string(v.Severity) + " vulnerability " + v.ID)
		}
	}
	return entities.SafeVerdict(current, next, noteConfirmed)
}

// splitSections cuts the text at current/new version and verdict headings.
func splitSections(text string) []span {
	headings := headingPattern.FindAllStringSubmatchIndex(text, -1)
	spans := make([]span, 0, len(headings)+1)

	start, kind := 0, sectionPreamble
	for _, h := range headings {
		spans = append(spans, span{kind: kind, start: start, end: h[0]})
		start = h[1]
		switch {
		case h[2] >= 0:
			kind = sectionCurrent
		case h[4] >= 0:
			kind = sectionNew
		default:
			kind = sectionVerdict
		}
	}
	return append(spans, span{kind: kind, start: start, end: len(text)})
}

// extractVulnerabilities associates every identifier with the nearest
// following sentence, URL and severity keyword inside its window.
func extractVulnerabilities(text string) []entities.Vulnerability {
	matches := outsideURLs(text, identifierPattern.FindAllStringIndex(text, -1))
	vulnerabilities := make([]entities.Vulnerability, 0, len(matches))
	for i, m := range matches {
		end := min(m[1]+windowSize, len(text))
		if i+1 < len(matches) && matches[i+1][0] < end {
			end = matches[i+1][0]
		}
		window := text[m[1]:end]

		v := entities.Vulnerability{
			ID:       canonicalID(text[m[0]:m[1]]),
			Severity: entities.SeverityUnknown,
		}
		if keyword := severityPattern.FindString(window); keyword != "" {
			v.Severity = entities.ParseSeverity(keyword)
		}
		if url := urlPattern.FindString(window); url != "" {
			v.URL = strings.TrimRight(url, ".,;:")
		}
		v.Description = firstSentence(urlPattern.ReplaceAllString(window, ""))
		vulnerabilities = append(vulnerabilities, v)
	}
	return mergeVulnerabilities(nil, vulnerabilities)
}

// outsideURLs drops identifier matches that are part of an advisory link.
func outsideURLs(text string, matches [][]int) [][]int {
	urls := urlPattern.FindAllStringIndex(text, -1)
	kept := matches[:0]
	for _, m := range matches {
		inside := false
		for _, u := range urls {
			if m[0] >= u[0] && m[0] < u[1] {
				inside = true
				break
			}
		}
		if !inside {
			kept = append(kept, m)
		}
	}
	return kept
}

// mergeVulnerabilities appends extra to base, keeping the first record per identifier.
func mergeVulnerabilities(base, extra []entities.Vulnerability) []entities.Vulnerability {
	seen := make(map[string]bool, len(base))
	for _, v := range base {
		seen[v.ID] = true
	}
	for _, v := range extra {
		if seen[v.ID] {
			continue
		}
		seen[v.ID] = true
		base = append(base, v)
	}
	return base
}

func canonicalID(raw string) string {
	upper := strings.ToUpper(raw)
	if strings.HasPrefix(upper, "GHSA-") {
		return "GHSA-" + strings.ToLower(raw[len("GHSA-"):])
	}
	return upper
}

func firstSentence(window string) string {
	trimmed := leadingNoise.ReplaceAllString(window, "")
	if cut := strings.IndexAny(trimmed, "\n"); cut >= 0 {
		trimmed = trimmed[:cut]
	}
	if cut := strings.Index(trimmed, ". "); cut >= 0 {
		trimmed = trimmed[:cut+1]
	}
	trimmed = strings.TrimSpace(strings.Trim(trimmed, " *|()"))
	if len(trimmed) > maxDescription {
		trimmed = strings.TrimSpace(trimmed[:maxDescription]) + "..."
	}
	return trimmed
}
