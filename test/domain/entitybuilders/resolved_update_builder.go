//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// ResolvedUpdateBuilder helps create resolved updates with a fluent interface.
type ResolvedUpdateBuilder struct {
	*testkit.BaseBuilder
	dependency entities.DeclaredDependency
	ecosystem  entities.Ecosystem
	latest     string
	tier       entities.UpdateTier
	verdict    *entities.SecurityVerdict
	policyHeld bool
}

// NewResolvedUpdateBuilder creates a new update builder: a safe minor update of requests.
func NewResolvedUpdateBuilder() *ResolvedUpdateBuilder {
	verdict := entities.SafeVerdict(nil, nil, "")
	return &ResolvedUpdateBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		dependency:  NewDeclaredDependencyBuilder().BuildDependency(),
		ecosystem:   entities.EcosystemPython,
		latest:      "2.31.0",
		tier:        entities.TierMinor,
		verdict:     &verdict,
	}
}

// WithDependency sets the declared dependency.
func (b *ResolvedUpdateBuilder) WithDependency(dependency entities.DeclaredDependency) *ResolvedUpdateBuilder {
	b.dependency = dependency
	return b
}

// WithName sets the dependency name.
func (b *ResolvedUpdateBuilder) WithName(name string) *ResolvedUpdateBuilder {
	b.dependency.Name = name
	return b
}

// WithCurrent sets the declared expression.
func (b *ResolvedUpdateBuilder) WithCurrent(expression string) *ResolvedUpdateBuilder {
	b.dependency.Expression = expression
	return b
}

// WithCategory sets the declaration category.
func (b *ResolvedUpdateBuilder) WithCategory(category entities.Category) *ResolvedUpdateBuilder {
	b.dependency.Category = category
	return b
}

// WithEcosystem sets the ecosystem.
func (b *ResolvedUpdateBuilder) WithEcosystem(ecosystem entities.Ecosystem) *ResolvedUpdateBuilder {
	b.ecosystem = ecosystem
	return b
}

// WithLatest sets the latest version.
func (b *ResolvedUpdateBuilder) WithLatest(latest string) *ResolvedUpdateBuilder {
	b.latest = latest
	return b
}

// WithTier sets the update tier.
func (b *ResolvedUpdateBuilder) WithTier(tier entities.UpdateTier) *ResolvedUpdateBuilder {
	b.tier = tier
	return b
}

// WithVerdict sets the security verdict.
func (b *ResolvedUpdateBuilder) WithVerdict(verdict entities.SecurityVerdict) *ResolvedUpdateBuilder {
	b.verdict = &verdict
	return b
}

// WithoutVerdict leaves the update unchecked.
func (b *ResolvedUpdateBuilder) WithoutVerdict() *ResolvedUpdateBuilder {
	b.verdict = nil
	return b
}

// WithPolicyHeld marks the update as held back by the approval policy.
func (b *ResolvedUpdateBuilder) WithPolicyHeld(held bool) *ResolvedUpdateBuilder {
	b.policyHeld = held
	return b
}

// Build creates the update (satisfies testkit.Builder interface).
func (b *ResolvedUpdateBuilder) Build() interface{} {
	return b.BuildUpdate()
}

// BuildUpdate creates the update with a concrete return type.
func (b *ResolvedUpdateBuilder) BuildUpdate() entities.ResolvedUpdate {
	var verdict *entities.SecurityVerdict
	if b.verdict != nil {
		copied := *b.verdict
		verdict = &copied
	}
	return entities.ResolvedUpdate{
		Dependency: b.dependency,
		Ecosystem:  b.ecosystem,
		Latest:     b.latest,
		Tier:       b.tier,
		Verdict:    verdict,
		PolicyHeld: b.policyHeld,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ResolvedUpdateBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	verdict := entities.SafeVerdict(nil, nil, "")
	b.dependency = NewDeclaredDependencyBuilder().BuildDependency()
	b.ecosystem = entities.EcosystemPython
	b.latest = "2.31.0"
	b.tier = entities.TierMinor
	b.verdict = &verdict
	b.policyHeld = false
	return b
}

// Clone creates a deep copy of the ResolvedUpdateBuilder.
func (b *ResolvedUpdateBuilder) Clone() testkit.Builder {
	clone := &ResolvedUpdateBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		dependency:  b.dependency,
		ecosystem:   b.ecosystem,
		latest:      b.latest,
		tier:        b.tier,
		policyHeld:  b.policyHeld,
	}
	if b.verdict != nil {
		verdict := *b.verdict
		clone.verdict = &verdict
	}
	return clone
}
