//go:build unit

package python_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/infrastructure/repositories/python"
	"github.com/rios0rios0/safeupdate/test/domain/entitybuilders"
)

const requirements = `# runtime
requests==2.28.0
flask >= 2.0.1  # web
Django~=4.1.0
celery[redis]==5.2.7 ; python_version >= "3.8"
-r base.txt
--index-url https://pypi.example.test/simple
numpy
git+https://github.com/acme/lib.git#egg=lib
requests==1.0.0
`

func TestPythonEcosystemRepositoryExtract(t *testing.T) {
	t.Parallel()

	t.Run("should extract pinned requirements in declaration order", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem := python.NewPythonEcosystemRepository()

		// when
		dependencies, err := ecosystem.Extract(requirements)

		// then
		require.NoError(t, err)
		require.Len(t, dependencies, 4)
		assert.Equal(t, "requests", dependencies[0].Name)
		assert.Equal(t, "==2.28.0", dependencies[0].Expression)
		assert.Equal(t, 2, dependencies[0].Line)
		assert.Equal(t, "flask", dependencies[1].Name)
		assert.Equal(t, ">=2.0.1", dependencies[1].Expression)
		assert.Equal(t, "~=4.1.0", dependencies[2].Expression)
		assert.Equal(t, "celery[redis]", dependencies[3].Name)
		for _, dependency := range dependencies {
			assert.Equal(t, entities.CategoryDependency, dependency.Category)
		}
	})

	t.Run("should return nothing for an empty file", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem := python.NewPythonEcosystemRepository()

		// when
		dependencies, err := ecosystem.Extract("")

		// then
		require.NoError(t, err)
		assert.Empty(t, dependencies)
	})
}

func TestPythonEcosystemRepositoryRewrite(t *testing.T) {
	t.Parallel()

	t.Run("should rewrite only approved lines and keep markers and comments", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem := python.NewPythonEcosystemRepository()
		approved := []entities.ResolvedUpdate{
			entitybuilders.NewResolvedUpdateBuilder().WithName("flask").WithCurrent(">=2.0.1").WithLatest("3.0.0").BuildUpdate(),
			entitybuilders.NewResolvedUpdateBuilder().WithName("celery[redis]").WithCurrent("==5.2.7").WithLatest("5.3.6").BuildUpdate(),
		}

		// when
		result, err := ecosystem.Rewrite(requirements, approved)

		// then
		require.NoError(t, err)
		assert.Contains(t, result, "flask >= 3.0.0  # web\n")
		assert.Contains(t, result, `celery[redis]==5.3.6 ; python_version >= "3.8"`)
		assert.Contains(t, result, "requests==2.28.0\n")
		assert.Contains(t, result, "Django~=4.1.0\n")
		assert.Contains(t, result, "numpy\n")
	})

	t.Run("should be idempotent", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem := python.NewPythonEcosystemRepository()
		approved := []entities.ResolvedUpdate{
			entitybuilders.NewResolvedUpdateBuilder().WithName("requests").WithLatest("2.31.0").BuildUpdate(),
		}
		once, err := ecosystem.Rewrite(requirements, approved)
		require.NoError(t, err)

		// when
		twice, err := ecosystem.Rewrite(once, approved)

		// then
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	})

	t.Run("should rewrite only the extracted declaration of a duplicated name", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem := python.NewPythonEcosystemRepository()
		content := "flask==1.0.0\nflask==0.9 ; python_version < \"3\"\n"
		dependencies, err := ecosystem.Extract(content)
		require.NoError(t, err)
		require.Len(t, dependencies, 1)
		approved := []entities.ResolvedUpdate{
			entitybuilders.NewResolvedUpdateBuilder().WithDependency(dependencies[0]).WithLatest("1.2.0").BuildUpdate(),
		}

		// when
		result, err := ecosystem.Rewrite(content, approved)

		// then
		require.NoError(t, err)
		assert.Equal(t, "flask==1.2.0\nflask==0.9 ; python_version < \"3\"\n", result)
	})

	t.Run("should fall back to the first declaration when the recorded line moved", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem := python.NewPythonEcosystemRepository()
		approved := []entities.ResolvedUpdate{
			entitybuilders.NewResolvedUpdateBuilder().WithName("requests").WithLatest("2.31.0").BuildUpdate(),
		}

		// when
		result, err := ecosystem.Rewrite(requirements, approved)

		// then
		require.NoError(t, err)
		assert.Contains(t, result, "requests==2.31.0\n")
		assert.Contains(t, result, "requests==1.0.0\n")
	})

	t.Run("should leave content untouched without approved updates", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem := python.NewPythonEcosystemRepository()

		// when
		result, err := ecosystem.Rewrite(requirements, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, requirements, result)
	})
}

func TestPythonEcosystemRepositoryChangelogURL(t *testing.T) {
	t.Parallel()

	t.Run("should drop extras from the project URL", func(t *testing.T) {
		t.Parallel()

		// given
		ecosystem := python.NewPythonEcosystemRepository()
		dependency := entitybuilders.NewDeclaredDependencyBuilder().WithName("celery[redis]").BuildDependency()

		// when
		url := ecosystem.ChangelogURL(dependency, "5.3.6")

		// then
		assert.Equal(t, "https://pypi.org/project/celery/5.3.6/#history", url)
	})
}
