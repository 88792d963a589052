package repositories

import (
	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

// EcosystemRepository is one manifest grammar: it knows where its manifest
// lives, how to extract declared dependencies from it and how to rewrite it.
// Implementations are pure; they never touch the network.
type EcosystemRepository interface {
	// Ecosystem returns the ecosystem identifier (e.g. "npm").
	Ecosystem() entities.Ecosystem

	// ManifestPath is the candidate path read from the repository root.
	ManifestPath() string

	// Extract returns the declared dependencies of a manifest, in declaration order.
	Extract(content string) ([]entities.DeclaredDependency, error)

	// Rewrite updates only the approved entries and leaves every other byte alone.
	// Rewriting an already rewritten manifest with the same updates is a no-op.
	Rewrite(content string, approved []entities.ResolvedUpdate) (string, error)

	// TestingInstructions are the literal shell commands reviewers should run.
	TestingInstructions() string

	// ChangelogURL points at the registry page listing versions of a dependency.
	ChangelogURL(dependency entities.DeclaredDependency, version string) string
}
