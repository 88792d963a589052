package internal

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/rios0rios0/safeupdate/internal/domain/commands"
	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/infrastructure/controllers"
	"github.com/rios0rios0/safeupdate/internal/infrastructure/repositories"
)

type layer struct {
	name     string
	register func(*dig.Container) error
}

// layers are registered bottom-up: adapters, entities, commands, then the CLI.
func layers() []layer {
	return []layer{
		{name: "repositories", register: repositories.RegisterProviders},
		{name: "entities", register: entities.RegisterProviders},
		{name: "commands", register: commands.RegisterProviders},
		{name: "controllers", register: controllers.RegisterProviders},
	}
}

// RegisterProviders registers every layer and the AppInternal root with the container.
func RegisterProviders(container *dig.Container) error {
	for _, l := range layers() {
		if err := l.register(container); err != nil {
			return fmt.Errorf("failed to register %s: %w", l.name, err)
		}
	}
	if err := container.Provide(NewAppInternal); err != nil {
		return fmt.Errorf("failed to register the application root: %w", err)
	}
	return nil
}

// BuildAppInternal assembles a fresh container and resolves the application root.
func BuildAppInternal() (*AppInternal, error) {
	container := dig.New()
	if err := RegisterProviders(container); err != nil {
		return nil, err
	}

	var app *AppInternal
	if err := container.Invoke(func(ai *AppInternal) { app = ai }); err != nil {
		return nil, fmt.Errorf("failed to resolve the application root: %w", err)
	}
	return app, nil
}
