package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/safeupdate/internal/domain/commands"
	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

// RunController handles the "run" subcommand (batch mode).
type RunController struct {
	command commands.Run
	load    entities.SettingsLoader
	render  markdownRenderer
}

// NewRunController creates a new RunController.
func NewRunController(command commands.Run, load entities.SettingsLoader) *RunController {
	return &RunController{command: command, load: load, render: newTerminalRenderer()}
}

// GetBind returns the Cobra command metadata for the run controller.
func (it *RunController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "run",
		Short: "Run the security-gated update engine over every configured organization",
		Long: `Discover repositories, evaluate their manifests and create pull requests
containing only the updates confirmed safe by the security assessment.

This is the main command intended to be used in a cronjob. It reads the
configuration file, discovers repositories from each configured provider and
organization, then evaluates every enabled ecosystem in each repository.`,
		Args: cobra.NoArgs,
	}
}

// AddFlags adds the run-specific flags to the given Cobra command.
func (it *RunController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", "", "Only process this provider (github, gitlab)")
	cmd.Flags().String("org", "", "Only process this organization/group")
	addEcosystemFlag(cmd)
}

// Execute runs the batch update mode.
func (it *RunController) Execute(cmd *cobra.Command, _ []string) error {
	global := readGlobalFlags(cmd)
	providerFilter, _ := cmd.Flags().GetString("provider")
	orgOverride, _ := cmd.Flags().GetString("org")
	ecosystems, err := readEcosystems(cmd)
	if err != nil {
		return err
	}

	settings, err := it.load(global.configPath)
	if err != nil {
		return err
	}

	logger.Info("Starting safeupdate run...")
	reports, err := it.command.Execute(commandContext(cmd), settings, commands.RunOptions{
		DryRun:       global.dryRun,
		Verbose:      global.verbose,
		ProviderName: providerFilter,
		OrgOverride:  orgOverride,
		Ecosystems:   ecosystems,
	})
	if err != nil {
		return err
	}

	if global.dryRun {
		previewReports(cmd.OutOrStdout(), it.render, reports)
	}
	return nil
}
