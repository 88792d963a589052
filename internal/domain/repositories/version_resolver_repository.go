package repositories

import (
	"context"
	"errors"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

// ErrUnresolved is returned when a registry has no usable latest version.
var ErrUnresolved = errors.New("latest version could not be resolved")

// VersionResolverRepository is the version oracle: it answers the latest
// published version of a dependency. Any error means "unresolved".
type VersionResolverRepository interface {
	ResolveLatestVersion(
		ctx context.Context,
		dependency entities.DeclaredDependency,
		ecosystem entities.Ecosystem,
	) (string, error)
}
