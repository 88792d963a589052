//go:build unit

package advisory_test

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/infrastructure/repositories/advisory"
)

const sectionedSafe = `## Current Version
- CVE-2023-32681 (medium): Requests leaks Proxy-Authorization headers on redirects. https://nvd.nist.gov/vuln/detail/CVE-2023-32681

## New Version
No known vulnerabilities.

## Verdict
VERDICT: SAFE
`

func TestParseAssessment(t *testing.T) {
	t.Parallel()

	t.Run("should confirm a sectioned answer with an explicit verdict", func(t *testing.T) {
		t.Parallel()

		// given
		text := sectionedSafe

		// when
		verdict := advisory.ParseAssessment(text)

		// then
		assert.True(t, verdict.Safe)
		assert.Equal(t, entities.StateSafe, verdict.EffectiveState())
		require.Len(t, verdict.CurrentVulnerabilities, 1)
		assert.Empty(t, verdict.NewVulnerabilities)
		current := verdict.CurrentVulnerabilities[0]
		assert.Equal(t, "CVE-2023-32681", current.ID)
		assert.Equal(t, entities.SeverityMedium, current.Severity)
		assert.Equal(t, "https://nvd.nist.gov/vuln/detail/CVE-2023-32681", current.URL)
		assert.Contains(t, current.Description, "Proxy-Authorization")
	})

	t.Run("should reject a high severity vulnerability in the new version", func(t *testing.T) {
		t.Parallel()

		// given
		text := `## Current Version
No known vulnerabilities.

## New Version
- GHSA-ABCD-1234-efgh (high): remote code execution in the template loader.

## Verdict
VERDICT: SAFE`

		// when
		verdict := advisory.ParseAssessment(text)

		// then
		assert.False(t, verdict.Safe)
		require.Len(t, verdict.NewVulnerabilities, 1)
		assert.Equal(t, "GHSA-abcd-1234-efgh", verdict.NewVulnerabilities[0].ID)
		assert.Contains(t, verdict.Notes, "GHSA-abcd-1234-efgh")
	})

	t.Run("should reject an explicit unsafe verdict", func(t *testing.T) {
		t.Parallel()

		// given
		text := "## New Version\n- PYSEC-2024-12 (low): minor issue.\n\n## Verdict\nVERDICT: UNSAFE"

		// when
		verdict := advisory.ParseAssessment(text)

		// then
		assert.False(t, verdict.Safe)
		assert.Equal(t, entities.StateUnsafe, verdict.EffectiveState())
	})

	t.Run("should reject risk vocabulary without an affirmation", func(t *testing.T) {
		t.Parallel()

		// given
		text := "Version 3.0.0 is affected by CVE-2024-0001, a security advisory was published last week."

		// when
		verdict := advisory.ParseAssessment(text)

		// then
		assert.False(t, verdict.Safe)
		require.Len(t, verdict.NewVulnerabilities, 1)
		assert.Equal(t, "CVE-2024-0001", verdict.NewVulnerabilities[0].ID)
	})

	t.Run("should reject an ambiguous answer", func(t *testing.T) {
		t.Parallel()

		// given
		text := "The release mostly contains refactoring."

		// when
		verdict := advisory.ParseAssessment(text)

		// then
		assert.False(t, verdict.Safe)
		assert.NotEmpty(t, verdict.Notes)
	})

	t.Run("should reject a negated affirmation", func(t *testing.T) {
		t.Parallel()

		// given
		text := "It is not safe to upgrade until the regression is fixed."

		// when
		verdict := advisory.ParseAssessment(text)

		// then
		assert.False(t, verdict.Safe)
	})

	t.Run("should reject a free-text affirmation without a verdict line", func(t *testing.T) {
		t.Parallel()

		// given
		text := "No vulnerabilities are known for either version. It is safe to upgrade."

		// when
		verdict := advisory.ParseAssessment(text)

		// then
		assert.False(t, verdict.Safe)
		assert.Empty(t, verdict.NewVulnerabilities)
	})

	t.Run("should accept a verdict line with trailing emphasis", func(t *testing.T) {
		t.Parallel()

		// given
		text := "## New Version\nNo known vulnerabilities.\n\n**Verdict:** SAFE\n"

		// when
		verdict := advisory.ParseAssessment(text)

		// then
		assert.True(t, verdict.Safe)
	})

	for _, text := range []string{
		"It is not entirely safe to upgrade.\nVERDICT: SAFE",
		"Is it safe to upgrade? No. CVE-2024-1234 remains exploitable.",
		"Is it safe to upgrade? No. CVE-2024-1234 remains exploitable.\nVERDICT: SAFE",
		"I cannot confirm that it is safe to upgrade.\nVERDICT: SAFE",
		"It is unclear whether it is safe to upgrade; a vulnerability (CVE-2024-1111) was reported.",
		"Verdict: SAFE? Unclear. The new version has a security issue.",
		"VERDICT: SAFE, pending review of the changelog",
	} {
		t.Run("should reject the hedged answer "+fmt.Sprintf("%q", text), func(t *testing.T) {
			t.Parallel()

			// given
			input := text

			// when
			verdict := advisory.ParseAssessment(input)

			// then
			assert.False(t, verdict.Safe)
			assert.Equal(t, entities.StateUnsafe, verdict.EffectiveState())
		})
	}

	t.Run("should reject empty text", func(t *testing.T) {
		t.Parallel()

		// given
		text := "   \n"

		// when
		verdict := advisory.ParseAssessment(text)

		// then
		assert.False(t, verdict.Safe)
	})

	t.Run("should keep each identifier's details inside its own window", func(t *testing.T) {
		t.Parallel()

		// given
		text := `## Current Version
- CVE-2022-1111 critical: first issue. https://example.test/one
- GO-2022-0002: second issue without severity.

## New Version
None.

VERDICT: SAFE`

		// when
		verdict := advisory.ParseAssessment(text)

		// then
		require.Len(t, verdict.CurrentVulnerabilities, 2)
		assert.Equal(t, entities.SeverityCritical, verdict.CurrentVulnerabilities[0].Severity)
		assert.Equal(t, "https://example.test/one", verdict.CurrentVulnerabilities[0].URL)
		assert.Equal(t, "GO-2022-0002", verdict.CurrentVulnerabilities[1].ID)
		assert.Equal(t, entities.SeverityUnknown, verdict.CurrentVulnerabilities[1].Severity)
		assert.Empty(t, verdict.CurrentVulnerabilities[1].URL)
		assert.True(t, verdict.Safe)
	})
}

func TestParseAssessmentProperties(t *testing.T) {
	t.Parallel()

	properties := gopter.NewProperties(nil)
	year := gen.IntRange(1999, 2030)
	number := gen.IntRange(1000, 999999)
	kind := gen.OneConstOf("CVE", "PYSEC", "GO")
	filler := gen.OneConstOf(
		"",
		"This release has a known issue. ",
		"A security advisory was published. ",
		"The maintainers recommend reviewing the changelog. ",
		"## New Version\n",
	)

	properties.Property("an identifier without affirmation is never safe", prop.ForAll(
		func(k string, y, n int, before, after string) bool {
			text := fmt.Sprintf("%s%s-%d-%d %s", before, k, y, n, after)
			return !advisory.ParseAssessment(text).Safe
		},
		kind, year, number, filler, filler,
	))

	properties.Property("an explicit unsafe verdict always wins", prop.ForAll(
		func(before, after string) bool {
			text := before + "VERDICT: SAFE\n" + after + "\nVERDICT: UNSAFE"
			return !advisory.ParseAssessment(text).Safe
		},
		filler, filler,
	))

	properties.Property("a free-text affirmation alone is never safe", prop.ForAll(
		func(before, after string) bool {
			return !advisory.ParseAssessment(before + "It is safe to upgrade. " + after).Safe
		},
		filler, filler,
	))

	properties.Property("a critical finding in the new version is never safe", prop.ForAll(
		func(k string, y, n int) bool {
			text := fmt.Sprintf("## New Version\n- %s-%d-%d (critical): exploit.\n\nVERDICT: SAFE", k, y, n)
			return !advisory.ParseAssessment(text).Safe
		},
		kind, year, number,
	))

	properties.TestingRun(t)
}
