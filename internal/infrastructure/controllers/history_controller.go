package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/safeupdate/internal/domain/commands"
	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

// HistoryController handles the "history" subcommand.
type HistoryController struct {
	command commands.History
	load    entities.SettingsLoader
	render  markdownRenderer
}

// NewHistoryController creates a new HistoryController.
func NewHistoryController(command commands.History, load entities.SettingsLoader) *HistoryController {
	return &HistoryController{command: command, load: load, render: newTerminalRenderer()}
}

// GetBind returns the Cobra command metadata for the history controller.
func (it *HistoryController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "history <owner/repo>",
		Short: "Show the recorded evaluations of a repository",
		Long: `Print every outdated dependency recorded for a repository in the audit
history database (report.history_database), oldest first, with its security
verdict and whether it was proposed.`,
		Args: cobra.ExactArgs(1),
	}
}

// AddFlags has nothing to add beyond the global flags.
func (it *HistoryController) AddFlags(_ *cobra.Command) {}

// Execute prints the history of the repository named by the first argument.
func (it *HistoryController) Execute(cmd *cobra.Command, args []string) error {
	global := readGlobalFlags(cmd)
	settings, err := it.load(global.configPath)
	if err != nil {
		return err
	}

	records, err := it.command.Execute(commandContext(cmd), settings, commands.HistoryOptions{Locator: args[0]})
	if err != nil {
		return err
	}
	writeMarkdown(cmd.OutOrStdout(), it.render, historyTable(args[0], records))
	return nil
}

func historyTable(locator string, records []entities.HistoryRecord) string {
	if len(records) == 0 {
		return fmt.Sprintf("No history recorded for `%s`.\n", locator)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# History of `%s`\n\n", locator)
	sb.WriteString("| Run | Manifest | Package | Current | Latest | Tier | Verdict | Proposed | Pull Request |\n")
	sb.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, r := range records {
		proposed := "no"
		switch {
		case r.DryRun:
			proposed = "dry run"
		case r.Approved:
			proposed = "yes"
		}
		fmt.Fprintf(
			&sb, "| %s | %s | `%s` | `%s` | `%s` | %s | %s | %s | %s |\n",
			r.RunAt.UTC().Format(time.DateTime), r.Manifest, r.Dependency,
			strings.ReplaceAll(r.CurrentVersion, "|", `\|`), r.LatestVersion,
			r.Tier, r.Verdict, proposed, r.PullRequestURL,
		)
	}
	return sb.String()
}
