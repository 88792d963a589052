package controllers

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

var knownEcosystems = []entities.Ecosystem{ //nolint:gochecknoglobals // read-only lookup
	entities.EcosystemNpm,
	entities.EcosystemPython,
	entities.EcosystemGo,
	entities.EcosystemTerraform,
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	token      string
	dryRun     bool
	verbose    bool
}

// AddGlobalFlags registers the persistent flags every subcommand understands.
func AddGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to config file (default: auto-detect)")
	flags.String("token", "", "Auth token for the Git provider (overrides config and env vars)")
	flags.Bool("dry-run", false, "Report every candidate update without assessing or writing anything")
	flags.BoolP("verbose", "v", false, "Enable verbose output")
}

func readGlobalFlags(cmd *cobra.Command) globalFlags {
	configPath, _ := cmd.Flags().GetString("config")
	token, _ := cmd.Flags().GetString("token")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	return globalFlags{configPath: configPath, token: token, dryRun: dryRun, verbose: verbose}
}

func addEcosystemFlag(cmd *cobra.Command) {
	names := make([]string, 0, len(knownEcosystems))
	for _, e := range knownEcosystems {
		names = append(names, e.String())
	}
	cmd.Flags().StringSlice("ecosystem", nil, "Only evaluate these ecosystems ("+strings.Join(names, ", ")+")")
}

func readEcosystems(cmd *cobra.Command) ([]entities.Ecosystem, error) {
	raw, _ := cmd.Flags().GetStringSlice("ecosystem")
	selected := make([]entities.Ecosystem, 0, len(raw))
	for _, name := range raw {
		ecosystem, ok := lookupEcosystem(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			return nil, fmt.Errorf("unknown ecosystem %q", name)
		}
		selected = append(selected, ecosystem)
	}
	return selected, nil
}

func lookupEcosystem(name string) (entities.Ecosystem, bool) {
	for _, e := range knownEcosystems {
		if e.String() == name {
			return e, true
		}
	}
	return "", false
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
