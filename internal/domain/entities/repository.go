package entities

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLocator is returned when a repository locator cannot be normalized.
var ErrInvalidLocator = errors.New("invalid repository locator")

// Repository represents a Git repository on any hosting provider.
type Repository struct {
	ID            string
	Name          string
	Organization  string
	DefaultBranch string
	RemoteURL     string
	ProviderName  string
}

// FullName returns "organization/name".
func (r Repository) FullName() string {
	return r.Organization + "/" + r.Name
}

// RepositoryRef is a normalized {owner, repo} pair parsed from user input.
type RepositoryRef struct {
	Owner    string
	Name     string
	Provider string // inferred from the host, empty when the locator carried none
}

func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}

// knownHosts maps hosting domains to provider names.
var knownHosts = map[string]string{ //nolint:gochecknoglobals // read-only lookup table
	"github.com": "github",
	"gitlab.com": "gitlab",
}

// ParseRepositoryLocator normalizes "owner/repo", "github.com/owner/repo",
// "https://github.com/owner/repo(.git)" and "git@github.com:owner/repo.git".
func ParseRepositoryLocator(raw string) (RepositoryRef, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimSuffix(cleaned, "/")
	cleaned = strings.TrimSuffix(cleaned, ".git")
	if cleaned == "" {
		return RepositoryRef{}, fmt.Errorf("%w: empty", ErrInvalidLocator)
	}

	provider := ""
	path := cleaned

	switch {
	case strings.HasPrefix(cleaned, "git@"):
		host, after, ok := strings.Cut(strings.TrimPrefix(cleaned, "git@"), ":")
		if !ok {
			return RepositoryRef{}, fmt.Errorf("%w: %q", ErrInvalidLocator, raw)
		}
		provider = knownHosts[host]
		path = after
	case strings.Contains(cleaned, "://"):
		_, after, _ := strings.Cut(cleaned, "://")
		if at := strings.LastIndex(after, "@"); at >= 0 && at < strings.Index(after+"/", "/") {
			after = after[at+1:]
		}
		host, rest, _ := strings.Cut(after, "/")
		provider = knownHosts[host]
		path = rest
	default:
		first, rest, ok := strings.Cut(cleaned, "/")
		if ok && strings.Contains(first, ".") {
			provider = knownHosts[first]
			path = rest
		}
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" { //nolint:mnd // owner + repo
		return RepositoryRef{}, fmt.Errorf("%w: %q (expected owner/repo)", ErrInvalidLocator, raw)
	}

	return RepositoryRef{
		Owner:    segments[0],
		Name:     strings.TrimSuffix(segments[1], ".git"),
		Provider: provider,
	}, nil
}
