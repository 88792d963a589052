package python

import (
	"regexp"
	"strings"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
)

const manifestPath = "requirements.txt"

// requirementPattern splits a pinned requirement into
// indent, name (with extras), separator, operator, separator, version and the untouched remainder.
// Two-character operators come first so that ">=" never matches as ">".
var requirementPattern = regexp.MustCompile(
	`^(\s*)([A-Za-z0-9][A-Za-z0-9._-]*(?:\[[^\]]*\])?)(\s*)(==|>=|<=|~=|!=|>|<)(\s*)([^\s,;#]+)(.*)$`,
)

const (
	groupIndent = iota + 1
	groupName
	groupSepBefore
	groupOperator
	groupSepAfter
	groupVersion
	groupRest
)

// EcosystemRepository implements repositories.EcosystemRepository for pip requirement files.
type EcosystemRepository struct{}

// NewPythonEcosystemRepository creates the requirements.txt grammar.
func NewPythonEcosystemRepository() repositories.EcosystemRepository {
	return &EcosystemRepository{}
}

func (e *EcosystemRepository) Ecosystem() entities.Ecosystem { return entities.EcosystemPython }
func (e *EcosystemRepository) ManifestPath() string          { return manifestPath }

// Extract returns one dependency per pinned requirement line. Comments,
// options (-r, -e, --index-url), URLs and unpinned names are ignored.
// When a name appears twice, the first declaration wins.
func (e *EcosystemRepository) Extract(content string) ([]entities.DeclaredDependency, error) {
	var dependencies []entities.DeclaredDependency
	seen := make(map[string]bool)

	for i, line := range strings.Split(content, "\n") {
		match := matchRequirement(line)
		if match == nil {
			continue
		}
		key := canonicalName(match[groupName])
		if seen[key] {
			continue
		}
		seen[key] = true
		dependencies = append(dependencies, entities.DeclaredDependency{
			Name:       match[groupName],
			Expression: match[groupOperator] + match[groupVersion],
			Category:   entities.CategoryDependency,
			Line:       i + 1,
		})
	}
	return dependencies, nil
}

// Rewrite replaces the version segment of the single line each approved
// update was extracted from: its recorded line when that line declares the
// name, otherwise the first declaration, as in Extract. Later duplicates,
// operators, extras, markers and comments are preserved.
func (e *EcosystemRepository) Rewrite(content string, approved []entities.ResolvedUpdate) (string, error) {
	lines := strings.Split(content, "\n")

	first := make(map[string]int)
	for i, line := range lines {
		if match := matchRequirement(line); match != nil {
			key := canonicalName(match[groupName])
			if _, ok := first[key]; !ok {
				first[key] = i
			}
		}
	}

	for _, update := range approved {
		key := canonicalName(update.Name())
		index, ok := first[key]
		if line := update.Dependency.Line; line > 0 && line <= len(lines) && declares(lines[line-1], key) {
			index, ok = line-1, true
		}
		if !ok {
			continue
		}
		match := matchRequirement(lines[index])
		lines[index] = match[groupIndent] + match[groupName] + match[groupSepBefore] +
			match[groupOperator] + match[groupSepAfter] + update.BareLatest() + match[groupRest]
	}
	return strings.Join(lines, "\n"), nil
}

func declares(line, key string) bool {
	match := matchRequirement(line)
	return match != nil && canonicalName(match[groupName]) == key
}

func (e *EcosystemRepository) TestingInstructions() string {
	return strings.Join([]string{
		"python -m venv .venv",
		". .venv/bin/activate",
		"pip install -r requirements.txt",
		"pip check",
		"python -m pytest",
	}, "\n")
}

func (e *EcosystemRepository) ChangelogURL(dependency entities.DeclaredDependency, version string) string {
	return "https://pypi.org/project/" + BaseName(dependency.Name) + "/" + version + "/#history"
}

// BaseName drops extras from a requirement name: "requests[socks]" -> "requests".
func BaseName(name string) string {
	base, _, _ := strings.Cut(name, "[")
	return strings.TrimSpace(base)
}

func matchRequirement(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "-") {
		return nil
	}
	return requirementPattern.FindStringSubmatch(line)
}

// canonicalName compares names case-insensitively with "-", "_" and "." treated alike.
func canonicalName(name string) string {
	lowered := strings.ToLower(BaseName(name))
	return strings.NewReplacer("_", "-", ".", "-").Replace(lowered)
}
