package resolver

import (
	"context"
	"net/url"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/infrastructure/repositories/python"
)

// DefaultPyPI is the public Python package index.
const DefaultPyPI = "https://pypi.org"

type pypiFile struct {
	Yanked bool `json:"yanked"`
}

type pypiProject struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
	Releases map[string][]pypiFile `json:"releases"`
}

// PyPIResolver picks the highest stable, non-yanked release of a project.
type PyPIResolver struct {
	client registryClient
}

// NewPyPIResolver creates a resolver against the given index.
func NewPyPIResolver(baseURL string, timeout time.Duration) *PyPIResolver {
	return &PyPIResolver{client: newRegistryClient(baseURL, timeout)}
}

func (r *PyPIResolver) ResolveLatestVersion(
	ctx context.Context,
	dependency entities.DeclaredDependency,
	_ entities.Ecosystem,
) (string, error) {
	name := python.BaseName(dependency.Locator())

	var project pypiProject
	if err := r.client.getJSON(ctx, "/pypi/"+url.PathEscape(name)+"/json", &project); err != nil {
		return "", err
	}
	if latest := highestRelease(project.Releases); latest != "" {
		return latest, nil
	}
	return normalized(project.Info.Version, name)
}

// highestRelease ignores pre-releases, releases without files and fully yanked releases.
func highestRelease(releases map[string][]pypiFile) string {
	var best *semver.Version
	var bestRaw string
	for raw, files := range releases {
		if !hasLiveFile(files) {
			continue
		}
		version, err := semver.NewVersion(raw)
		if err != nil || version.Prerelease() != "" {
			continue
		}
		if best == nil || version.GreaterThan(best) {
			best = version
			bestRaw = raw
		}
	}
	return bestRaw
}

func hasLiveFile(files []pypiFile) bool {
	for _, file := range files {
		if !file.Yanked {
			return true
		}
	}
	return false
}
