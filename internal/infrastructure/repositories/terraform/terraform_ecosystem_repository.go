package terraform

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
)

const (
	manifestPath    = "main.tf"
	moduleBlock     = "module"
	sourceAttribute = "source"
	versionAttr     = "version"
	refParameter    = "ref="
)

// EcosystemRepository implements repositories.EcosystemRepository for Terraform module calls.
type EcosystemRepository struct{}

// NewTerraformEcosystemRepository creates the main.tf grammar.
func NewTerraformEcosystemRepository() repositories.EcosystemRepository {
	return &EcosystemRepository{}
}

func (e *EcosystemRepository) Ecosystem() entities.Ecosystem { return entities.EcosystemTerraform }
func (e *EcosystemRepository) ManifestPath() string          { return manifestPath }

// Extract returns one dependency per module block that pins a version:
// registry modules through their version attribute, git modules through
// the ref query parameter of their source.
func (e *EcosystemRepository) Extract(content string) ([]entities.DeclaredDependency, error) {
	file, diags := hclparse.NewParser().ParseHCL([]byte(content), manifestPath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %s", manifestPath, diags.Error())
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("failed to parse %s: unexpected body type", manifestPath)
	}

	var dependencies []entities.DeclaredDependency
	for _, block := range body.Blocks {
		if block.Type != moduleBlock || len(block.Labels) == 0 {
			continue
		}
		source, hasSource := stringAttribute(block.Body, sourceAttribute)
		if !hasSource {
			continue
		}

		dependency := entities.DeclaredDependency{
			Name:     block.Labels[0],
			Category: entities.CategoryDependency,
			Line:     block.DefRange().Start.Line,
		}
		if version, hasVersion := stringAttribute(block.Body, versionAttr); hasVersion {
			if !isPinnedConstraint(version) {
				continue
			}
			dependency.Source = source
			dependency.Expression = version
		} else {
			base, ref := SplitRef(source)
			if ref == "" {
				continue
			}
			dependency.Source = base
			dependency.Expression = ref
		}
		dependencies = append(dependencies, dependency)
	}
	return dependencies, nil
}

// Rewrite updates the version attribute, or the source ref, of approved
// module blocks. All other tokens are written back untouched.
func (e *EcosystemRepository) Rewrite(content string, approved []entities.ResolvedUpdate) (string, error) {
	if len(approved) == 0 {
		return content, nil
	}
	file, diags := hclwrite.ParseConfig([]byte(content), manifestPath, hcl.InitialPos)
	if diags.HasErrors() {
		return "", fmt.Errorf("failed to parse %s: %s", manifestPath, diags.Error())
	}

	targets := make(map[string]entities.ResolvedUpdate, len(approved))
	for _, update := range approved {
		targets[update.Name()] = update
	}

	for _, block := range file.Body().Blocks() {
		labels := block.Labels()
		if block.Type() != moduleBlock || len(labels) == 0 {
			continue
		}
		update, ok := targets[labels[0]]
		if !ok {
			continue
		}
		body := block.Body()

		if attr := body.GetAttribute(versionAttr); attr != nil {
			current, literal := literalValue(attr)
			if !literal {
				continue
			}
			body.SetAttributeValue(versionAttr, cty.StringVal(entities.VersionPrefix(current)+update.BareLatest()))
			continue
		}

		attr := body.GetAttribute(sourceAttribute)
		if attr == nil {
			continue
		}
		source, literal := literalValue(attr)
		if !literal {
			continue
		}
		base, ref := SplitRef(source)
		if ref == "" {
			continue
		}
		newRef := entities.VersionPrefix(ref) + update.BareLatest()
		body.SetAttributeValue(sourceAttribute, cty.StringVal(replaceRef(source, base, ref, newRef)))
	}
	return string(file.Bytes()), nil
}

func (e *EcosystemRepository) TestingInstructions() string {
	return strings.Join([]string{
		"terraform init -upgrade",
		"terraform validate",
		"terraform plan",
	}, "\n")
}

func (e *EcosystemRepository) ChangelogURL(dependency entities.DeclaredDependency, _ string) string {
	source := dependency.Locator()
	if IsGitSource(source) {
		return gitWebURL(source)
	}
	return "https://registry.terraform.io/modules/" + source
}

// IsGitSource reports whether a module source is fetched from a git remote
// rather than from a module registry.
func IsGitSource(source string) bool {
	return strings.HasPrefix(source, "git::") ||
		strings.HasPrefix(source, "git@") ||
		strings.Contains(source, "://") ||
		strings.HasPrefix(source, "github.com/") ||
		strings.HasPrefix(source, "gitlab.com/") ||
		strings.HasPrefix(source, "bitbucket.org/")
}

// SplitRef separates the ref query parameter from a module source.
// The returned base keeps every other query parameter.
func SplitRef(source string) (string, string) {
	path, query, found := strings.Cut(source, "?")
	if !found {
		return source, ""
	}
	var ref string
	var kept []string
	for _, param := range strings.Split(query, "&") {
		if value, isRef := strings.CutPrefix(param, refParameter); isRef {
			ref = value
			continue
		}
		if param != "" {
			kept = append(kept, param)
		}
	}
	if len(kept) == 0 {
		return path, ref
	}
	return path + "?" + strings.Join(kept, "&"), ref
}

func replaceRef(source, base, oldRef, newRef string) string {
	if replaced := strings.Replace(source, refParameter+oldRef, refParameter+newRef, 1); replaced != source {
		return replaced
	}
	return base + "?" + refParameter + newRef
}

// stringAttribute evaluates a literal string attribute without any variables in scope.
func stringAttribute(body *hclsyntax.Body, name string) (string, bool) {
	attr, ok := body.Attributes[name]
	if !ok {
		return "", false
	}
	value, diags := attr.Expr.Value(nil)
	if diags.HasErrors() || value.IsNull() || !value.IsKnown() || value.Type() != cty.String {
		return "", false
	}
	return value.AsString(), true
}

// literalValue reads a quoted string attribute from its raw tokens.
func literalValue(attr *hclwrite.Attribute) (string, bool) {
	tokens := attr.Expr().BuildTokens(nil)
	if len(tokens) < 2 || tokens[0].Type != hclsyntax.TokenOQuote || tokens[len(tokens)-1].Type != hclsyntax.TokenCQuote {
		return "", false
	}
	var sb strings.Builder
	for _, token := range tokens[1 : len(tokens)-1] {
		if token.Type != hclsyntax.TokenQuotedLit {
			return "", false
		}
		sb.Write(token.Bytes)
	}
	return sb.String(), true
}

// isPinnedConstraint rejects compound constraints, which have no single version to bump.
func isPinnedConstraint(version string) bool {
	return strings.ContainsAny(version, "0123456789") && !strings.Contains(version, ",")
}

// CloneURL turns a git module source into a URL git can list refs from.
// The "git::" forcing prefix, the "//subdir" suffix and the query are dropped,
// and host shorthands such as "github.com/org/repo" gain an https scheme.
func CloneURL(source string) string {
	url := strings.TrimPrefix(source, "git::")
	url, _, _ = strings.Cut(url, "?")

	from := 0
	if i := strings.Index(url, "://"); i >= 0 {
		from = i + len("://")
	}
	if i := strings.Index(url[from:], "//"); i >= 0 {
		url = url[:from+i]
	}

	if !strings.Contains(url, "://") && !strings.HasPrefix(url, "git@") {
		url = "https://" + url
	}
	return url
}

func gitWebURL(source string) string {
	url := CloneURL(source)
	if rest, found := strings.CutPrefix(url, "git@"); found {
		url = "https://" + strings.Replace(rest, ":", "/", 1)
	}
	url = strings.Replace(url, "ssh://git@", "https://", 1)
	return strings.TrimSuffix(url, ".git") + "/tags"
}
