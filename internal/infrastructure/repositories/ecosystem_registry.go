package repositories

import (
	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	domainRepos "github.com/rios0rios0/safeupdate/internal/domain/repositories"
)

// EcosystemRegistry keeps the manifest grammars in registration order,
// which is also the order in which manifests are located.
type EcosystemRegistry struct {
	ecosystems []domainRepos.EcosystemRepository
}

// NewEcosystemRegistry creates an empty ecosystem registry.
func NewEcosystemRegistry() *EcosystemRegistry {
	return &EcosystemRegistry{}
}

// Register appends an ecosystem, replacing a previous one with the same identifier.
func (r *EcosystemRegistry) Register(ecosystem domainRepos.EcosystemRepository) {
	for i, existing := range r.ecosystems {
		if existing.Ecosystem() == ecosystem.Ecosystem() {
			r.ecosystems[i] = ecosystem
			return
		}
	}
	r.ecosystems = append(r.ecosystems, ecosystem)
}

// Get returns the ecosystem with the given identifier, or nil if not registered.
func (r *EcosystemRegistry) Get(ecosystem entities.Ecosystem) domainRepos.EcosystemRepository {
	for _, e := range r.ecosystems {
		if e.Ecosystem() == ecosystem {
			return e
		}
	}
	return nil
}

// All returns every registered ecosystem in registration order.
func (r *EcosystemRegistry) All() []domainRepos.EcosystemRepository {
	result := make([]domainRepos.EcosystemRepository, len(r.ecosystems))
	copy(result, r.ecosystems)
	return result
}

// Enabled returns the ecosystems not disabled in settings, in registration order.
func (r *EcosystemRegistry) Enabled(settings *entities.Settings) []domainRepos.EcosystemRepository {
	result := make([]domainRepos.EcosystemRepository, 0, len(r.ecosystems))
	for _, e := range r.ecosystems {
		if settings == nil || settings.EcosystemEnabled(e.Ecosystem()) {
			result = append(result, e)
		}
	}
	return result
}

// Names returns the identifiers of every registered ecosystem.
func (r *EcosystemRegistry) Names() []string {
	names := make([]string, 0, len(r.ecosystems))
	for _, e := range r.ecosystems {
		names = append(names, e.Ecosystem().String())
	}
	return names
}
