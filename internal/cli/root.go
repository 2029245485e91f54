package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// annotationSkipConfig marks commands that run even when the configuration
// does not load, so they can report or replace it.
const annotationSkipConfig = "safeguard/skip-config"

// NewRootCmd creates the root Cobra command for the safeguard CLI.
func NewRootCmd(ver string) *cobra.Command {
	var state *runState

	cmd := &cobra.Command{
		Use:           "safeguard",
		Short:         "Safeguard Mechanism baseline and credit projections",
		Long:          "safeguard: project a mine site's emissions, Safeguard baselines and SMC credits from its consumption ledger",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := setupRun(cmd)
			if err != nil {
				return err
			}
			state = s
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupRun(cmd, state)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "configuration file (default $SAFEGUARD_HOME/config.yaml)")
	cmd.PersistentFlags().String("log-format", "", "log format: console or json")

	cmd.AddCommand(
		NewProjectCmd(), NewTaxCmd(), NewScenariosCmd(),
		newFactorsCmd(), NewERCCmd(), newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Monthly projection from the consolidated ledger
  safeguard project --ledger ledger.csv --factors nga-factors.xlsx

  # Fiscal-year roll-up as JSON
  safeguard project --ledger ledger.csv --annual --output json

  # Carbon tax and credit value by fiscal year
  safeguard tax --ledger ledger.csv

  # Compare scenario overlays
  safeguard scenarios --ledger ledger.csv --scenario low-price.yaml --scenario fast-decline.yaml

  # Look up a factor
  safeguard factors resolve --year 2025 --fuel "Diesel oil" --scope 1

  # ERC and transition schedule
  safeguard erc --from 2023 --to 2052

  # Initialize configuration
  safeguard config init`

// newFactorsCmd creates the factors command group.
func newFactorsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "factors", Short: "Emission factor table commands"}
	cmd.AddCommand(NewFactorsResolveCmd(), NewFactorsSummaryCmd())
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd())
	return cmd
}
