package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewScanController); err != nil {
		return err
	}
	if err := container.Provide(NewRunController); err != nil {
		return err
	}
	if err := container.Provide(NewHistoryController); err != nil {
		return err
	}
	return container.Provide(NewControllers)
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	scanController *ScanController,
	runController *RunController,
	historyController *HistoryController,
) *[]entities.Controller {
	return &[]entities.Controller{
		scanController,
		runController,
		historyController,
	}
}
