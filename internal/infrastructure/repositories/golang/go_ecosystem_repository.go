package golang

import (
	"fmt"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
)

const manifestPath = "go.mod"

// EcosystemRepository implements repositories.EcosystemRepository for Go modules.
type EcosystemRepository struct{}

// NewGoEcosystemRepository creates the go.mod grammar.
func NewGoEcosystemRepository() repositories.EcosystemRepository {
	return &EcosystemRepository{}
}

func (e *EcosystemRepository) Ecosystem() entities.Ecosystem { return entities.EcosystemGo }
func (e *EcosystemRepository) ManifestPath() string          { return manifestPath }

// Extract returns every require directive, indirect ones included. Modules
// replaced by a local directory and pseudo-versions are left alone.
func (e *EcosystemRepository) Extract(content string) ([]entities.DeclaredDependency, error) {
	file, err := modfile.Parse(manifestPath, []byte(content), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", manifestPath, err)
	}

	local := localReplacements(file)
	dependencies := make([]entities.DeclaredDependency, 0, len(file.Require))
	for _, req := range file.Require {
		if local[req.Mod.Path] || module.IsPseudoVersion(req.Mod.Version) {
			continue
		}
		line := 0
		if req.Syntax != nil {
			line = req.Syntax.Start.Line
		}
		dependencies = append(dependencies, entities.DeclaredDependency{
			Name:       req.Mod.Path,
			Expression: req.Mod.Version,
			Category:   entities.CategoryDependency,
			Line:       line,
		})
	}
	return dependencies, nil
}

// Rewrite bumps the approved requirements and formats the file the way the go command does.
func (e *EcosystemRepository) Rewrite(content string, approved []entities.ResolvedUpdate) (string, error) {
	if len(approved) == 0 {
		return content, nil
	}
	file, err := modfile.Parse(manifestPath, []byte(content), nil)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", manifestPath, err)
	}

	required := make(map[string]bool, len(file.Require))
	for _, req := range file.Require {
		required[req.Mod.Path] = true
	}

	for _, update := range approved {
		if !required[update.Name()] {
			continue
		}
		version := "v" + update.BareLatest()
		if err = module.Check(update.Name(), version); err != nil {
			return "", fmt.Errorf("refusing to require %s@%s: %w", update.Name(), version, err)
		}
		if err = file.AddRequire(update.Name(), version); err != nil {
			return "", fmt.Errorf("failed to update %s: %w", update.Name(), err)
		}
	}

	file.Cleanup()
	return string(modfile.Format(file.Syntax)), nil
}

func (e *EcosystemRepository) TestingInstructions() string {
	return strings.Join([]string{
		"go mod tidy",
		"go build ./...",
		"go test ./...",
	}, "\n")
}

func (e *EcosystemRepository) ChangelogURL(dependency entities.DeclaredDependency, version string) string {
	return "https://pkg.go.dev/" + dependency.Name + "@v" + strings.TrimPrefix(version, "v") + "?tab=versions"
}

// localReplacements lists modules replaced by a filesystem path.
func localReplacements(file *modfile.File) map[string]bool {
	local := make(map[string]bool)
	for _, rep := range file.Replace {
		if rep.New.Version == "" && modfile.IsDirectoryPath(rep.New.Path) {
			local[rep.Old.Path] = true
		}
	}
	return local
}
