//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// DeclaredDependencyBuilder helps create declared dependencies with a fluent interface.
type DeclaredDependencyBuilder struct {
	*testkit.BaseBuilder
	name       string
	expression string
	category   entities.Category
	source     string
	line       int
}

// NewDeclaredDependencyBuilder creates a new dependency builder with sensible defaults.
func NewDeclaredDependencyBuilder() *DeclaredDependencyBuilder {
	return &DeclaredDependencyBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "requests",
		expression:  "==2.28.0",
		category:    entities.CategoryDependency,
		line:        1,
	}
}

// WithName sets the dependency name.
func (b *DeclaredDependencyBuilder) WithName(name string) *DeclaredDependencyBuilder {
	b.name = name
	return b
}

// WithExpression sets the declared version expression.
func (b *DeclaredDependencyBuilder) WithExpression(expression string) *DeclaredDependencyBuilder {
	b.expression = expression
	return b
}

// WithCategory sets the declaration category.
func (b *DeclaredDependencyBuilder) WithCategory(category entities.Category) *DeclaredDependencyBuilder {
	b.category = category
	return b
}

// WithSource sets the registry locator.
func (b *DeclaredDependencyBuilder) WithSource(source string) *DeclaredDependencyBuilder {
	b.source = source
	return b
}

// WithLine sets the line number.
func (b *DeclaredDependencyBuilder) WithLine(line int) *DeclaredDependencyBuilder {
	b.line = line
	return b
}

// Build creates the dependency (satisfies testkit.Builder interface).
func (b *DeclaredDependencyBuilder) Build() interface{} {
	return b.BuildDependency()
}

// BuildDependency creates the dependency with a concrete return type.
func (b *DeclaredDependencyBuilder) BuildDependency() entities.DeclaredDependency {
	return entities.DeclaredDependency{
		Name:       b.name,
		Expression: b.expression,
		Category:   b.category,
		Source:     b.source,
		Line:       b.line,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *DeclaredDependencyBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "requests"
	b.expression = "==2.28.0"
	b.category = entities.CategoryDependency
	b.source = ""
	b.line = 1
	return b
}

// Clone creates a deep copy of the DeclaredDependencyBuilder.
func (b *DeclaredDependencyBuilder) Clone() testkit.Builder {
	return &DeclaredDependencyBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		expression:  b.expression,
		category:    b.category,
		source:      b.source,
		line:        b.line,
	}
}
