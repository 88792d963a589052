package resolver

import (
	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
)

// HighestStable exports highestStable for testing.
var HighestStable = highestStable //nolint:gochecknoglobals // test export

// NewDispatchResolverWith builds a dispatcher over explicit resolvers for testing.
func NewDispatchResolverWith(
	byEcosystem map[entities.Ecosystem]repositories.VersionResolverRepository,
	git repositories.VersionResolverRepository,
) *DispatchResolver {
	return &DispatchResolver{byEcosystem: byEcosystem, git: git}
}
