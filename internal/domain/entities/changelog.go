package entities

import (
	"fmt"
	"strings"
)

const (
	unreleasedHeading = "## [Unreleased]"
	changedHeading    = "### Changed"
	releaseHeading    = "## ["
	subsectionHeading = "### "
	bulletMarker      = "- "
)

// ChangelogEntry renders the Keep-a-Changelog bullet for one approved update.
func ChangelogEntry(update ResolvedUpdate) string {
	return fmt.Sprintf(
		"- changed the %s dependency `%s` from `%s` to `%s`",
		update.Ecosystem, update.Name(), update.Current(), update.BareLatest(),
	)
}

// ChangelogEntries renders one bullet per update, preserving order.
func ChangelogEntries(updates []ResolvedUpdate) []string {
	entries := make([]string, 0, len(updates))
	for _, update := range updates {
		entries = append(entries, ChangelogEntry(update))
	}
	return entries
}

// InsertChangelogEntry adds entries under "### Changed" of the "## [Unreleased]"
// release. The second return value is false (and content is returned as-is)
// when the document has no Unreleased release or there is nothing to add.
func InsertChangelogEntry(content string, entries []string) (string, bool) {
	if len(entries) == 0 {
		return content, false
	}

	lines := strings.Split(content, "\n")
	release, ok := unreleasedBounds(lines)
	if !ok {
		return content, false
	}

	if changed := indexOfLine(lines, changedHeading, release.start+1, release.end); changed >= 0 {
		at := lastBulletAfter(lines, changed, release.end) + 1
		return strings.Join(splice(lines, at, entries), "\n"), true
	}

	block := append([]string{"", changedHeading, ""}, entries...)
	return strings.Join(splice(lines, release.start+1, block), "\n"), true
}

type lineRange struct {
	start int
	end   int
}

// unreleasedBounds locates the Unreleased heading and the next release heading (or EOF).
func unreleasedBounds(lines []string) (lineRange, bool) {
	start := indexOfLine(lines, unreleasedHeading, 0, len(lines))
	if start < 0 {
		return lineRange{}, false
	}
	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), releaseHeading) {
			end = i
			break
		}
	}
	return lineRange{start: start, end: end}, true
}

func indexOfLine(lines []string, want string, from, to int) int {
	for i := from; i < to; i++ {
		if strings.TrimSpace(lines[i]) == want {
			return i
		}
	}
	return -1
}

// lastBulletAfter returns the last bullet of the subsection opened at heading,
// or heading itself when the subsection is empty.
func lastBulletAfter(lines []string, heading, end int) int {
	last := heading
	for i := heading + 1; i < end; i++ {
		trimmed := strings.TrimSpace(lines[i])
		switch {
		case trimmed == "":
		case strings.HasPrefix(trimmed, bulletMarker):
			last = i
		case strings.HasPrefix(trimmed, subsectionHeading):
			return last
		default:
			// wrapped continuation of the previous bullet
			if last > heading {
				last = i
			}
		}
	}
	return last
}

func splice(lines []string, at int, extra []string) []string {
	out := make([]string, 0, len(lines)+len(extra))
	out = append(out, lines[:at]...)
	out = append(out, extra...)
	return append(out, lines[at:]...)
}
