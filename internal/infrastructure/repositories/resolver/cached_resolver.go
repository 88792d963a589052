package resolver

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
)

const defaultCacheSize = 1024

// CachedResolver memoizes successful lookups. Failures are never cached,
// so a transient registry error is retried by the next manifest.
type CachedResolver struct {
	inner repositories.VersionResolverRepository
	cache *lru.Cache[string, string]
}

// NewCachedResolver wraps inner with an LRU of the given size.
func NewCachedResolver(inner repositories.VersionResolverRepository, size int) (*CachedResolver, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &CachedResolver{inner: inner, cache: cache}, nil
}

func (r *CachedResolver) ResolveLatestVersion(
	ctx context.Context,
	dependency entities.DeclaredDependency,
	ecosystem entities.Ecosystem,
) (string, error) {
	key := string(ecosystem) + "\x00" + dependency.Locator()
	if version, ok := r.cache.Get(key); ok {
		return version, nil
	}
	version, err := r.inner.ResolveLatestVersion(ctx, dependency, ecosystem)
	if err != nil {
		return "", err
	}
	r.cache.Add(key, version)
	return version, nil
}
