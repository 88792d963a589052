package entities

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// UpdateTier classifies the distance between a current and a latest version.
type UpdateTier string

const (
	TierPatch   UpdateTier = "patch"
	TierMinor   UpdateTier = "minor"
	TierMajor   UpdateTier = "major"
	TierUnknown UpdateTier = "unknown"
)

const versionComponents = 3

// ErrMalformedVersion is returned when a version string cannot be reduced to a triple.
var ErrMalformedVersion = errors.New("malformed version")

// Version is a normalized major.minor.patch triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or +1, comparing numerically component by component.
func (v Version) Compare(other Version) int {
	return semver.Compare("v"+v.String(), "v"+other.String())
}

// ParseVersion reduces an arbitrary ecosystem version string (range operators,
// leading zeros, missing components, stray suffixes) to a comparable triple.
// Every character that is not a digit or a dot is dropped; an empty result
// means "0.0.0". Components beyond the third are ignored.
func ParseVersion(raw string) (Version, error) {
	var sb strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			sb.WriteRune(r)
		}
	}
	sanitized := sb.String()
	if sanitized == "" {
		return Version{}, nil
	}

	parts := strings.Split(sanitized, ".")
	numbers := make([]int, versionComponents)
	for i := 0; i < versionComponents && i < len(parts); i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: %q (component %q)", ErrMalformedVersion, raw, parts[i])
		}
		numbers[i] = n
	}

	return Version{Major: numbers[0], Minor: numbers[1], Patch: numbers[2]}, nil
}

// NormalizeVersion returns the canonical "major.minor.patch" form of raw.
// Normalizing an already-normalized string is a fixed point.
func NormalizeVersion(raw string) (string, error) {
	v, err := ParseVersion(raw)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// Classification is the result of comparing a declared expression against the latest version.
type Classification struct {
	Tier     UpdateTier
	Outdated bool
	Current  string // normalized current, empty when it could not be parsed
	Latest   string // normalized latest, empty when it could not be parsed
}

// ClassifyUpdate normalizes both strings and decides whether latest is strictly
// newer and by how much. When either side cannot be parsed the tier is unknown
// and the dependency stays update-eligible as long as the raw versions differ.
func ClassifyUpdate(current, latest string) Classification {
	cur, curErr := ParseVersion(current)
	lat, latErr := ParseVersion(latest)
	if curErr != nil || latErr != nil {
		result := Classification{
			Tier:     TierUnknown,
			Outdated: bareVersion(current) != bareVersion(latest),
		}
		if curErr == nil {
			result.Current = cur.String()
		}
		if latErr == nil {
			result.Latest = lat.String()
		}
		return result
	}

	result := Classification{Current: cur.String(), Latest: lat.String()}
	if lat.Compare(cur) <= 0 {
		result.Tier = TierPatch
		return result
	}

	result.Outdated = true
	switch {
	case lat.Major > cur.Major:
		result.Tier = TierMajor
	case lat.Minor > cur.Minor:
		result.Tier = TierMinor
	default:
		result.Tier = TierPatch
	}
	return result
}

// bareVersion trims comparison operators and a "v" prefix from an expression.
func bareVersion(expression string) string {
	trimmed := strings.TrimSpace(expression)
	trimmed = strings.TrimLeft(trimmed, "^~=<>!v ")
	return trimmed
}
