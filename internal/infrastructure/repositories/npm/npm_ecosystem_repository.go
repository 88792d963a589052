package npm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
)

const (
	manifestPath       = "package.json"
	sectionDeps        = "dependencies"
	sectionDevDeps     = "devDependencies"
	errUnexpectedToken = "unexpected token %v in %s"
)

var errNotAnObject = errors.New("package.json root is not an object")

// nonRegistryPrefixes mark expressions that point at something other than the npm registry.
var nonRegistryPrefixes = []string{ //nolint:gochecknoglobals // read-only lookup table
	"git+", "git:", "git@", "github:", "gitlab:", "bitbucket:", "http://", "https://",
	"file:", "link:", "workspace:", "portal:", "npm:", "./", "../", "/", "~/",
}

// entry is one string value inside a dependency section, with its byte span in the document.
type entry struct {
	category entities.Category
	name     string
	value    string
	start    int64
	end      int64
}

// EcosystemRepository implements repositories.EcosystemRepository for package.json.
type EcosystemRepository struct{}

// NewNpmEcosystemRepository creates the package.json grammar.
func NewNpmEcosystemRepository() repositories.EcosystemRepository {
	return &EcosystemRepository{}
}

func (e *EcosystemRepository) Ecosystem() entities.Ecosystem { return entities.EcosystemNpm }
func (e *EcosystemRepository) ManifestPath() string          { return manifestPath }

// Extract merges dependencies and devDependencies. On a name collision the
// devDependencies entry wins and keeps its category. Entries that do not
// resolve against the registry are skipped.
func (e *EcosystemRepository) Extract(content string) ([]entities.DeclaredDependency, error) {
	entries, err := scanEntries(content)
	if err != nil {
		return nil, err
	}

	var dependencies []entities.DeclaredDependency
	index := make(map[string]int)
	for _, en := range entries {
		if !isRegistryExpression(en.value) {
			continue
		}
		dependency := entities.DeclaredDependency{
			Name:       en.name,
			Expression: en.value,
			Category:   en.category,
			Line:       lineOf(content, en.start),
		}
		if i, ok := index[en.name]; ok {
			dependencies[i] = dependency
			continue
		}
		index[en.name] = len(dependencies)
		dependencies = append(dependencies, dependency)
	}
	return dependencies, nil
}

// Rewrite replaces the string value of every approved entry in place. Key
// order, indentation and all other bytes of the document are preserved.
func (e *EcosystemRepository) Rewrite(content string, approved []entities.ResolvedUpdate) (string, error) {
	if len(approved) == 0 {
		return content, nil
	}
	entries, err := scanEntries(content)
	if err != nil {
		return "", err
	}

	targets := make(map[string]entities.ResolvedUpdate, len(approved))
	for _, update := range approved {
		targets[string(update.Dependency.Category)+"/"+update.Name()] = update
	}

	type replacement struct {
		start, end int64
		literal    []byte
	}
	var replacements []replacement
	for _, en := range entries {
		update, ok := targets[string(en.category)+"/"+en.name]
		if !ok || !isRegistryExpression(en.value) {
			continue
		}
		literal, encodeErr := encodeString(entities.VersionPrefix(en.value) + update.BareLatest())
		if encodeErr != nil {
			return "", encodeErr
		}
		replacements = append(replacements, replacement{start: en.start, end: en.end, literal: literal})
	}

	sort.Slice(replacements, func(i, j int) bool { return replacements[i].start > replacements[j].start })
	out := []byte(content)
	for _, r := range replacements {
		out = append(out[:r.start], append(r.literal, out[r.end:]...)...)
	}
	return string(out), nil
}

func (e *EcosystemRepository) TestingInstructions() string {
	return strings.Join([]string{
		"npm install",
		"npm audit",
		"npm test",
	}, "\n")
}

func (e *EcosystemRepository) ChangelogURL(dependency entities.DeclaredDependency, _ string) string {
	return "https://www.npmjs.com/package/" + dependency.Name + "?activeTab=versions"
}

// scanEntries walks the token stream and records every string entry of the
// top-level dependency sections together with its byte offsets.
func scanEntries(content string) ([]entry, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", manifestPath, err)
	}
	if tok != json.Delim('{') {
		return nil, errNotAnObject
	}

	var entries []entry
	for dec.More() {
		keyTok, keyErr := dec.Token()
		if keyErr != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", manifestPath, keyErr)
		}
		key, _ := keyTok.(string)

		var category entities.Category
		switch key {
		case sectionDeps:
			category = entities.CategoryDependency
		case sectionDevDeps:
			category = entities.CategoryDevDependency
		default:
			if skipErr := skipValue(dec); skipErr != nil {
				return nil, skipErr
			}
			continue
		}

		section, sectionErr := scanSection(dec, content, key, category)
		if sectionErr != nil {
			return nil, sectionErr
		}
		entries = append(entries, section...)
	}
	return entries, nil
}

func scanSection(dec *json.Decoder, content, key string, category entities.Category) ([]entry, error) {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s.%s: %w", manifestPath, key, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 || raw[0] != '{' {
		return nil, nil
	}
	base := dec.InputOffset() - int64(len(raw))

	inner := json.NewDecoder(bytes.NewReader(raw))
	if _, err := inner.Token(); err != nil {
		return nil, err
	}

	var entries []entry
	for inner.More() {
		nameTok, err := inner.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s.%s: %w", manifestPath, key, err)
		}
		name, ok := nameTok.(string)
		if !ok {
			return nil, fmt.Errorf(errUnexpectedToken, nameTok, key)
		}

		var value json.RawMessage
		if err = inner.Decode(&value); err != nil {
			return nil, fmt.Errorf("failed to parse %s.%s.%s: %w", manifestPath, key, name, err)
		}
		end := base + inner.InputOffset()
		start := end - int64(len(value))

		var text string
		if json.Unmarshal(value, &text) != nil {
			continue
		}
		if content[start:end] != string(value) {
			return nil, fmt.Errorf("failed to locate %s.%s.%s", manifestPath, key, name)
		}
		entries = append(entries, entry{category: category, name: name, value: text, start: start, end: end})
	}
	return entries, nil
}

func skipValue(dec *json.Decoder) error {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse %s: %w", manifestPath, err)
	}
	return nil
}

// isRegistryExpression keeps plain registry ranges that pin a concrete version.
func isRegistryExpression(expression string) bool {
	value := strings.TrimSpace(expression)
	for _, prefix := range nonRegistryPrefixes {
		if strings.HasPrefix(value, prefix) {
			return false
		}
	}
	if strings.HasSuffix(value, ".git") || strings.Contains(value, "||") || strings.ContainsAny(value, " \t") {
		return false
	}
	// "owner/repo" GitHub shorthand
	if strings.Contains(value, "/") {
		return false
	}
	return strings.ContainsAny(value, "0123456789")
}

// encodeString renders a JSON string literal without HTML escaping.
func encodeString(value string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func lineOf(content string, offset int64) int {
	return strings.Count(content[:offset], "\n") + 1
}
