package repositories

import (
	"go.uber.org/dig"

	ghRepo "github.com/rios0rios0/safeupdate/internal/infrastructure/repositories/github"
	glRepo "github.com/rios0rios0/safeupdate/internal/infrastructure/repositories/gitlab"
	goRepo "github.com/rios0rios0/safeupdate/internal/infrastructure/repositories/golang"
	npmRepo "github.com/rios0rios0/safeupdate/internal/infrastructure/repositories/npm"
	pyRepo "github.com/rios0rios0/safeupdate/internal/infrastructure/repositories/python"
	tfRepo "github.com/rios0rios0/safeupdate/internal/infrastructure/repositories/terraform"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register provider registry with all provider factories
	if err := container.Provide(func() *ProviderRegistry {
		reg := NewProviderRegistry()
		reg.Register("github", ghRepo.NewGitHubProviderRepository)
		reg.Register("gitlab", glRepo.NewGitLabProviderRepository)
		return reg
	}); err != nil {
		return err
	}

	// Register ecosystems in manifest lookup order
	if err := container.Provide(func() *EcosystemRegistry {
		reg := NewEcosystemRegistry()
		reg.Register(npmRepo.NewNpmEcosystemRepository())
		reg.Register(pyRepo.NewPythonEcosystemRepository())
		reg.Register(goRepo.NewGoEcosystemRepository())
		reg.Register(tfRepo.NewTerraformEcosystemRepository())
		return reg
	}); err != nil {
		return err
	}

	if err := container.Provide(NewServiceFactory); err != nil {
		return err
	}
	return container.Provide(NewHistoryOpener)
}
