package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

// DefaultTerraformRegistry is the public Terraform module registry.
const DefaultTerraformRegistry = "https://registry.terraform.io"

const registryAddressParts = 3

type registryVersions struct {
	Modules []struct {
		Versions []struct {
			Version string `json:"version"`
		} `json:"versions"`
	} `json:"modules"`
}

// TerraformRegistryResolver lists module versions through the registry protocol.
type TerraformRegistryResolver struct {
	baseURL string
	timeout time.Duration
}

// NewTerraformRegistryResolver creates a resolver against the given registry.
// Sources qualified with another hostname are looked up on that host instead.
func NewTerraformRegistryResolver(baseURL string, timeout time.Duration) *TerraformRegistryResolver {
	return &TerraformRegistryResolver{baseURL: baseURL, timeout: timeout}
}

func (r *TerraformRegistryResolver) ResolveLatestVersion(
	ctx context.Context,
	dependency entities.DeclaredDependency,
	_ entities.Ecosystem,
) (string, error) {
	host, address, err := splitRegistryAddress(dependency.Locator())
	if err != nil {
		return "", err
	}
	baseURL := r.baseURL
	if host != "" {
		baseURL = "https://" + host
	}

	var listing registryVersions
	client := newRegistryClient(baseURL, r.timeout)
	if err = client.getJSON(ctx, "/v1/modules/"+address+"/versions", &listing); err != nil {
		return "", err
	}

	var raw []string
	for _, module := range listing.Modules {
		for _, v := range module.Versions {
			raw = append(raw, v.Version)
		}
	}
	return normalized(highestStable(raw), dependency.Locator())
}

// splitRegistryAddress accepts "namespace/name/provider" with an optional
// leading hostname and drops any "//subdir" suffix.
func splitRegistryAddress(source string) (string, string, error) {
	source, _, _ = strings.Cut(source, "//")
	parts := strings.Split(strings.Trim(source, "/"), "/")
	switch {
	case len(parts) == registryAddressParts:
		return "", strings.Join(parts, "/"), nil
	case len(parts) == registryAddressParts+1 && strings.Contains(parts[0], "."):
		return parts[0], strings.Join(parts[1:], "/"), nil
	default:
		return "", "", fmt.Errorf("%q is not a module registry address", source)
	}
}

// highestStable returns the highest version without a pre-release suffix,
// spelled exactly as it was listed.
func highestStable(raw []string) string {
	var best *semver.Version
	var bestRaw string
	for _, candidate := range raw {
		version, err := semver.NewVersion(candidate)
		if err != nil || version.Prerelease() != "" {
			continue
		}
		if best == nil || version.GreaterThan(best) {
			best = version
			bestRaw = candidate
		}
	}
	return bestRaw
}
