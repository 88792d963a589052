//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/test/domain/entitybuilders"
)

func TestInsertChangelogEntry(t *testing.T) {
	t.Parallel()

	t.Run("should create a Changed subsection in an empty Unreleased section", func(t *testing.T) {
		t.Parallel()

		// given
		content := "# Changelog\n\n## [Unreleased]\n\n## [1.0.0] - 2026-01-01\n\n### Added\n\n- initial release\n"
		entries := []string{"- changed the python dependency `requests` from `==2.28.0` to `2.31.0`"}

		// when
		result, changed := entities.InsertChangelogEntry(content, entries)

		// then
		assert.True(t, changed)
		assert.Contains(t, result, "## [Unreleased]\n\n### Changed\n\n- changed the python dependency")
		assert.Contains(t, result, "## [1.0.0] - 2026-01-01")
	})

	t.Run("should append after the last bullet of an existing Changed subsection", func(t *testing.T) {
		t.Parallel()

		// given
		content := "# Changelog\n\n## [Unreleased]\n\n### Changed\n\n- existing change\n\n### Fixed\n\n- a fix\n"
		entries := []string{"- new change"}

		// when
		result, changed := entities.InsertChangelogEntry(content, entries)

		// then
		assert.True(t, changed)
		assert.Contains(t, result, "- existing change\n- new change\n\n### Fixed")
	})

	t.Run("should leave content unchanged without an Unreleased section", func(t *testing.T) {
		t.Parallel()

		// given
		content := "# Changelog\n\n## [1.0.0] - 2026-01-01\n"

		// when
		result, changed := entities.InsertChangelogEntry(content, []string{"- change"})

		// then
		assert.False(t, changed)
		assert.Equal(t, content, result)
	})

	t.Run("should leave content unchanged without entries", func(t *testing.T) {
		t.Parallel()

		// given
		content := "# Changelog\n\n## [Unreleased]\n"

		// when
		result, changed := entities.InsertChangelogEntry(content, nil)

		// then
		assert.False(t, changed)
		assert.Equal(t, content, result)
	})
}

func TestChangelogEntries(t *testing.T) {
	t.Parallel()

	t.Run("should render one bullet per update", func(t *testing.T) {
		t.Parallel()

		// given
		updates := []entities.ResolvedUpdate{
			entitybuilders.NewResolvedUpdateBuilder().BuildUpdate(),
			entitybuilders.NewResolvedUpdateBuilder().
				WithEcosystem(entities.EcosystemNpm).
				WithName("lodash").
				WithCurrent("^4.17.20").
				WithLatest("4.17.21").
				BuildUpdate(),
		}

		// when
		entries := entities.ChangelogEntries(updates)

		// then
		assert.Equal(t, []string{
			"- changed the python dependency `requests` from `==2.28.0` to `2.31.0`",
			"- changed the npm dependency `lodash` from `^4.17.20` to `4.17.21`",
		}, entries)
	})
}
