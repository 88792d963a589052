package entities

import "strings"

// Category tells where a dependency was declared. Only npm distinguishes
// development dependencies; every other ecosystem uses CategoryDependency.
type Category string

const (
	CategoryDependency    Category = "dependency"
	CategoryDevDependency Category = "devDependency"
)

// DeclaredDependency is one entry inside a manifest, exactly as written.
type DeclaredDependency struct {
	Name       string   // unique within (manifest, category)
	Expression string   // declared version expression, e.g. "^1.2.3", "==2.0.0", "v1.4.0"
	Category   Category // dependency or devDependency
	Source     string   // registry locator when it differs from Name (terraform modules)
	Line       int      // 1-based line in the manifest, 0 when unknown
}

// Locator returns the identifier a version resolver should look up.
func (d DeclaredDependency) Locator() string {
	if d.Source != "" {
		return d.Source
	}
	return d.Name
}

// ResolvedUpdate is the evaluation of one DeclaredDependency against its registry.
// It only exists for dependencies whose latest version is strictly newer.
type ResolvedUpdate struct {
	Dependency DeclaredDependency
	Ecosystem  Ecosystem
	Latest     string           // raw version string returned by the resolver
	Tier       UpdateTier       // patch, minor, major or unknown
	Verdict    *SecurityVerdict // nil until the security oracle was consulted
	PolicyHeld bool             // safe, but held back by the approval policy
}

// Name is a shortcut for the dependency name.
func (u ResolvedUpdate) Name() string { return u.Dependency.Name }

// Current is the declared expression the update starts from.
func (u ResolvedUpdate) Current() string { return u.Dependency.Expression }

// IsSafe reports whether the security oracle explicitly confirmed the transition.
func (u ResolvedUpdate) IsSafe() bool {
	return u.Verdict != nil && u.Verdict.Safe
}

// BareLatest returns the latest version without a leading "v".
func (u ResolvedUpdate) BareLatest() string {
	return strings.TrimPrefix(strings.TrimSpace(u.Latest), "v")
}

// VersionPrefix returns the leading non-digit run of a declared expression,
// e.g. "^" for "^1.0.0", ">=" for ">=2", "" for "1.2.3".
func VersionPrefix(expression string) string {
	for i, r := range expression {
		if r >= '0' && r <= '9' {
			return expression[:i]
		}
	}
	return expression
}
