//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"strings"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
)

// StubVersionResolverRepository answers latest versions from a fixed table.
// Names absent from the table are unresolved.
type StubVersionResolverRepository struct {
	Versions map[string]string // locator -> latest
	PanicOn  string            // locator that makes the resolver panic
	Calls    []string
}

var _ repositories.VersionResolverRepository = (*StubVersionResolverRepository)(nil)

func (r *StubVersionResolverRepository) ResolveLatestVersion(
	_ context.Context, dependency entities.DeclaredDependency, _ entities.Ecosystem,
) (string, error) {
	locator := dependency.Locator()
	r.Calls = append(r.Calls, locator)
	if r.PanicOn != "" && r.PanicOn == locator {
		panic("resolver exploded on " + locator)
	}
	latest, ok := r.Versions[locator]
	if !ok {
		return "", fmt.Errorf("%w: %s", repositories.ErrUnresolved, locator)
	}
	return latest, nil
}

// StubSecurityOracleRepository returns configured verdicts per dependency name.
// Names without a verdict get the zero value, which is unsafe.
type StubSecurityOracleRepository struct {
	Verdicts map[string]entities.SecurityVerdict
	PanicOn  string
	Requests []repositories.AssessmentRequest
}

var _ repositories.SecurityOracleRepository = (*StubSecurityOracleRepository)(nil)

func (o *StubSecurityOracleRepository) AssessTransition(
	_ context.Context, request repositories.AssessmentRequest,
) entities.SecurityVerdict {
	o.Requests = append(o.Requests, request)
	if o.PanicOn != "" && o.PanicOn == request.Name {
		panic("oracle exploded on " + request.Name)
	}
	return o.Verdicts[request.Name]
}

// AssessedNames returns the dependency names sent to the oracle.
func (o *StubSecurityOracleRepository) AssessedNames() []string {
	names := make([]string, 0, len(o.Requests))
	for _, r := range o.Requests {
		names = append(names, r.Name)
	}
	return names
}

// StubPolicyRepository holds back every update whose name has one of the given prefixes.
type StubPolicyRepository struct {
	DeniedPrefixes []string
	Err            error
}

var _ repositories.PolicyRepository = (*StubPolicyRepository)(nil)

func (p *StubPolicyRepository) Allows(update entities.ResolvedUpdate) (bool, error) {
	if p.Err != nil {
		return false, p.Err
	}
	for _, prefix := range p.DeniedPrefixes {
		if strings.HasPrefix(update.Name(), prefix) {
			return false, nil
		}
	}
	return true, nil
}
