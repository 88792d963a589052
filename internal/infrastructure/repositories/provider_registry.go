package repositories

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	domainRepos "github.com/rios0rios0/safeupdate/internal/domain/repositories"
)

// ErrUnknownProvider is returned for a hosting provider nobody registered.
var ErrUnknownProvider = errors.New("unknown provider")

// ProviderFactory builds an authenticated hosting client from a token.
type ProviderFactory func(token string) domainRepos.ProviderRepository

// ProviderRegistry maps hosting names ("github", "gitlab") to client factories.
type ProviderRegistry struct {
	factories map[string]ProviderFactory
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{factories: make(map[string]ProviderFactory)}
}

func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.factories[strings.ToLower(name)] = factory
}

// Get builds the client for name, which is matched case-insensitively.
func (r *ProviderRegistry) Get(name, token string) (domainRepos.ProviderRepository, error) {
	factory, ok := r.factories[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnknownProvider, name, strings.Join(r.Names(), ", "))
	}
	return factory(token), nil
}

// Names lists the registered providers in lexical order.
func (r *ProviderRegistry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
