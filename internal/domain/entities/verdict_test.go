//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

func TestCanonicalAdvisoryURL(t *testing.T) {
	t.Parallel()

	t.Run("should link CVE identifiers to NVD", func(t *testing.T) {
		t.Parallel()

		// given
		id := "cve-2023-32681"

		// when
		result := entities.CanonicalAdvisoryURL(id)

		// then
		assert.Equal(t, "https://nvd.nist.gov/vuln/detail/CVE-2023-32681", result)
	})

	t.Run("should link GHSA identifiers to the GitHub advisory database", func(t *testing.T) {
		t.Parallel()

		// given
		id := "GHSA-j8r2-6x86-q33q"

		// when
		result := entities.CanonicalAdvisoryURL(id)

		// then
		assert.Equal(t, "https://github.com/advisories/GHSA-j8r2-6x86-q33q", result)
	})

	t.Run("should link other identifiers to OSV", func(t *testing.T) {
		t.Parallel()

		// given
		id := "PYSEC-2023-74"

		// when
		result := entities.CanonicalAdvisoryURL(id)

		// then
		assert.Equal(t, "https://osv.dev/vulnerability/PYSEC-2023-74", result)
	})
}

func TestSecurityVerdict(t *testing.T) {
	t.Parallel()

	t.Run("should fail closed on the zero value", func(t *testing.T) {
		t.Parallel()

		// given
		verdict := entities.SecurityVerdict{}

		// when
		state := verdict.EffectiveState()

		// then
		assert.False(t, verdict.Safe)
		assert.Equal(t, entities.StateUnsafe, state)
	})

	t.Run("should report an explicit safe verdict", func(t *testing.T) {
		t.Parallel()

		// given
		verdict := entities.SafeVerdict(nil, nil, "no known issues")

		// when
		state := verdict.EffectiveState()

		// then
		assert.Equal(t, entities.StateSafe, state)
	})

	t.Run("should fall back to the canonical URL when none was attributed", func(t *testing.T) {
		t.Parallel()

		// given
		vulnerability := entities.Vulnerability{ID: "CVE-2023-32681"}

		// when
		url := vulnerability.ReferenceURL()

		// then
		assert.Equal(t, "https://nvd.nist.gov/vuln/detail/CVE-2023-32681", url)
	})

	t.Run("should parse moderate as medium severity", func(t *testing.T) {
		t.Parallel()

		// given
		raw := " Moderate "

		// when
		severity := entities.ParseSeverity(raw)

		// then
		assert.Equal(t, entities.SeverityMedium, severity)
	})
}
