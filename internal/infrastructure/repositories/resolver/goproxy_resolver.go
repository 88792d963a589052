package resolver

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/mod/module"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

// DefaultGoProxy is the public Go module mirror.
const DefaultGoProxy = "https://proxy.golang.org"

// GoProxyResolver asks a module proxy for the @latest version of a module.
type GoProxyResolver struct {
	client registryClient
}

// NewGoProxyResolver creates a resolver against the given proxy.
func NewGoProxyResolver(baseURL string, timeout time.Duration) *GoProxyResolver {
	return &GoProxyResolver{client: newRegistryClient(baseURL, timeout)}
}

func (r *GoProxyResolver) ResolveLatestVersion(
	ctx context.Context,
	dependency entities.DeclaredDependency,
	_ entities.Ecosystem,
) (string, error) {
	escaped, err := module.EscapePath(dependency.Locator())
	if err != nil {
		return "", fmt.Errorf("invalid module path %q: %w", dependency.Locator(), err)
	}

	var info struct {
		Version string `json:"Version"`
	}
	if err = r.client.getJSON(ctx, "/"+escaped+"/@latest", &info); err != nil {
		return "", err
	}
	return normalized(info.Version, dependency.Locator())
}
