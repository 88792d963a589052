package resolver

import (
	"context"
	"strings"
	"time"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

// DefaultNpmRegistry is the public npm registry.
const DefaultNpmRegistry = "https://registry.npmjs.org"

// NpmResolver reads the "latest" dist-tag of an npm package.
type NpmResolver struct {
	client registryClient
}

// NewNpmResolver creates a resolver against the given registry.
func NewNpmResolver(baseURL string, timeout time.Duration) *NpmResolver {
	return &NpmResolver{client: newRegistryClient(baseURL, timeout)}
}

func (r *NpmResolver) ResolveLatestVersion(
	ctx context.Context,
	dependency entities.DeclaredDependency,
	_ entities.Ecosystem,
) (string, error) {
	// scoped packages keep their "@" but escape the separator
	name := strings.Replace(dependency.Locator(), "/", "%2f", 1)

	var tags map[string]string
	if err := r.client.getJSON(ctx, "/-/package/"+name+"/dist-tags", &tags); err != nil {
		return "", err
	}
	return normalized(tags["latest"], dependency.Locator())
}
