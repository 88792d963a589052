package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/safeupdate/internal/domain/commands"
	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

// ScanController handles the "scan" subcommand (single repository).
type ScanController struct {
	command commands.Scan
	load    entities.SettingsLoader
	render  markdownRenderer
}

// NewScanController creates a new ScanController.
func NewScanController(command commands.Scan, load entities.SettingsLoader) *ScanController {
	return &ScanController{command: command, load: load, render: newTerminalRenderer()}
}

// GetBind returns the Cobra command metadata for the scan controller.
func (it *ScanController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "scan <owner/repo | host/owner/repo | URL>",
		Short: "Evaluate one repository and propose its safe updates",
		Long: `Read the supported manifests of one repository, resolve the latest version
of every declared dependency, assess each transition for known vulnerabilities and
open one pull request per manifest with the updates confirmed safe.

With --dry-run nothing is assessed or written: every outdated dependency is listed
as a candidate and the audit document is printed.`,
		Args: cobra.ExactArgs(1),
	}
}

// AddFlags adds the scan-specific flags to the given Cobra command.
func (it *ScanController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", "", "Git provider (github, gitlab); inferred from the locator by default")
	addEcosystemFlag(cmd)
}

// Execute scans the repository named by the first argument.
func (it *ScanController) Execute(cmd *cobra.Command, args []string) error {
	global := readGlobalFlags(cmd)
	providerName, _ := cmd.Flags().GetString("provider")
	ecosystems, err := readEcosystems(cmd)
	if err != nil {
		return err
	}

	settings, err := it.load(global.configPath)
	if err != nil {
		return err
	}

	report, err := it.command.Execute(commandContext(cmd), settings, commands.ScanOptions{
		Locator:      args[0],
		ProviderName: providerName,
		Token:        global.token,
		DryRun:       global.dryRun,
		Verbose:      global.verbose,
		Ecosystems:   ecosystems,
	})
	if err != nil {
		return err
	}

	if global.dryRun {
		previewReports(cmd.OutOrStdout(), it.render, []entities.RepositoryReport{report})
	}
	return nil
}
