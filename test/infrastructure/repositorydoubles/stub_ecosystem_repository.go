//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
)

// StubEcosystemRepository returns fixed dependencies and a fixed rewrite.
type StubEcosystemRepository struct {
	EcosystemName entities.Ecosystem
	Path          string
	Dependencies  []entities.DeclaredDependency
	ExtractErr    error
	Rewritten     string
	RewriteErr    error
	RewriteCalls  [][]entities.ResolvedUpdate
}

var _ repositories.EcosystemRepository = (*StubEcosystemRepository)(nil)

func (e *StubEcosystemRepository) Ecosystem() entities.Ecosystem { return e.EcosystemName }
func (e *StubEcosystemRepository) ManifestPath() string          { return e.Path }
func (e *StubEcosystemRepository) TestingInstructions() string   { return "make test" }

func (e *StubEcosystemRepository) Extract(_ string) ([]entities.DeclaredDependency, error) {
	return e.Dependencies, e.ExtractErr
}

func (e *StubEcosystemRepository) Rewrite(_ string, approved []entities.ResolvedUpdate) (string, error) {
	e.RewriteCalls = append(e.RewriteCalls, approved)
	return e.Rewritten, e.RewriteErr
}

func (e *StubEcosystemRepository) ChangelogURL(dependency entities.DeclaredDependency, version string) string {
	return "https://example.test/" + dependency.Name + "/" + version
}
