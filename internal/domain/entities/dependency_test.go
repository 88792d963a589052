//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/test/domain/entitybuilders"
)

func TestVersionPrefix(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"^1.0.0":  "^",
		"~4.17.0": "~",
		">=2":     ">=",
		"1.2.3":   "",
		"latest":  "latest",
	}

	for expression, expected := range tests {
		t.Run("should extract the prefix of "+expression, func(t *testing.T) {
			t.Parallel()

			// given
			raw := expression

			// when
			result := entities.VersionPrefix(raw)

			// then
			assert.Equal(t, expected, result)
		})
	}
}

func TestResolvedUpdate(t *testing.T) {
	t.Parallel()

	t.Run("should strip a leading v from the latest version", func(t *testing.T) {
		t.Parallel()

		// given
		update := entitybuilders.NewResolvedUpdateBuilder().WithLatest(" v1.4.0 ").BuildUpdate()

		// when
		result := update.BareLatest()

		// then
		assert.Equal(t, "1.4.0", result)
	})

	t.Run("should not be safe without a verdict", func(t *testing.T) {
		t.Parallel()

		// given
		update := entitybuilders.NewResolvedUpdateBuilder().WithoutVerdict().BuildUpdate()

		// when
		safe := update.IsSafe()

		// then
		assert.False(t, safe)
	})

	t.Run("should look up terraform modules by source", func(t *testing.T) {
		t.Parallel()

		// given
		dependency := entitybuilders.NewDeclaredDependencyBuilder().
			WithName("vpc").
			WithSource("terraform-aws-modules/vpc/aws").
			BuildDependency()

		// when
		locator := dependency.Locator()

		// then
		assert.Equal(t, "terraform-aws-modules/vpc/aws", locator)
	})
}
