package resolver

import (
	"context"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
	"github.com/rios0rios0/safeupdate/internal/infrastructure/repositories/terraform"
)

// Endpoints are the registry base URLs used by the default resolvers.
type Endpoints struct {
	Npm               string
	PyPI              string
	GoProxy           string
	TerraformRegistry string
}

// DefaultEndpoints returns the public registries.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Npm:               DefaultNpmRegistry,
		PyPI:              DefaultPyPI,
		GoProxy:           DefaultGoProxy,
		TerraformRegistry: DefaultTerraformRegistry,
	}
}

// DispatchResolver routes each lookup to the resolver of its ecosystem.
// Terraform modules sourced from git go to the git resolver instead of the registry.
type DispatchResolver struct {
	byEcosystem map[entities.Ecosystem]repositories.VersionResolverRepository
	git         repositories.VersionResolverRepository
}

// NewDefaultResolver creates a dispatcher over the public registries.
func NewDefaultResolver(timeout time.Duration) *DispatchResolver {
	return NewDispatchResolver(DefaultEndpoints(), timeout)
}

// NewDispatchResolver creates a dispatcher over the given registries.
func NewDispatchResolver(endpoints Endpoints, timeout time.Duration) *DispatchResolver {
	return &DispatchResolver{
		byEcosystem: map[entities.Ecosystem]repositories.VersionResolverRepository{
			entities.EcosystemNpm:       NewNpmResolver(endpoints.Npm, timeout),
			entities.EcosystemPython:    NewPyPIResolver(endpoints.PyPI, timeout),
			entities.EcosystemGo:        NewGoProxyResolver(endpoints.GoProxy, timeout),
			entities.EcosystemTerraform: NewTerraformRegistryResolver(endpoints.TerraformRegistry, timeout),
		},
		git: NewGitTagResolver(timeout),
	}
}

func (r *DispatchResolver) ResolveLatestVersion(
	ctx context.Context,
	dependency entities.DeclaredDependency,
	ecosystem entities.Ecosystem,
) (string, error) {
	target, ok := r.byEcosystem[ecosystem]
	if !ok {
		return "", fmt.Errorf("%w: no resolver for ecosystem %q", repositories.ErrUnresolved, ecosystem)
	}
	if ecosystem == entities.EcosystemTerraform && terraform.IsGitSource(dependency.Locator()) {
		target = r.git
	}

	version, err := target.ResolveLatestVersion(ctx, dependency, ecosystem)
	if err != nil {
		return "", err
	}
	logger.WithFields(logger.Fields{
		"ecosystem":  ecosystem,
		"dependency": dependency.Name,
	}).Debugf("[resolver] latest version is %s", version)
	return normalized(version, dependency.Locator())
}
