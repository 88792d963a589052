package policy

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

// CELPolicy decides whether a safe update may be proposed with a CEL expression.
// Available variables:
//   - name, ecosystem, category: the dependency identity
//   - tier: "patch", "minor", "major" or "unknown"
//   - current, latest: the declared expression and the bare latest version
//   - currentVulnerabilities, newVulnerabilities: attributed vulnerability counts
//
// Example: tier != "major" && !name.startsWith("@internal/")
type CELPolicy struct {
	expression string
	program    cel.Program
}

// NewCELPolicy compiles the expression; it must evaluate to a boolean.
func NewCELPolicy(expression string) (*CELPolicy, error) {
	env, err := cel.NewEnv(
		cel.Variable("name", cel.StringType),
		cel.Variable("ecosystem", cel.StringType),
		cel.Variable("category", cel.StringType),
		cel.Variable("tier", cel.StringType),
		cel.Variable("current", cel.StringType),
		cel.Variable("latest", cel.StringType),
		cel.Variable("currentVulnerabilities", cel.IntType),
		cel.Variable("newVulnerabilities", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile policy expression: %w", issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("policy expression must return a boolean, got %v", ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}
	return &CELPolicy{expression: expression, program: program}, nil
}

// Allows evaluates the expression against one update.
func (p *CELPolicy) Allows(update entities.ResolvedUpdate) (bool, error) {
	var current, next int
	if update.Verdict != nil {
		current = len(update.Verdict.CurrentVulnerabilities)
		next = len(update.Verdict.NewVulnerabilities)
	}

	out, _, err := p.program.Eval(map[string]any{
		"name":                   update.Name(),
		"ecosystem":              string(update.Ecosystem),
		"category":               string(update.Dependency.Category),
		"tier":                   string(update.Tier),
		"current":                update.Current(),
		"latest":                 update.BareLatest(),
		"currentVulnerabilities": current,
		"newVulnerabilities":     next,
	})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate policy %q for %s: %w", p.expression, update.Name(), err)
	}

	allowed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("policy expression did not return a boolean: %v", out.Value())
	}
	return allowed, nil
}
