package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/safeguard/internal/config"
)

// NewConfigValidateCmd creates the config validate command.
func NewConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Loads the configuration (the --config file or the user file, then the
project overlay, then SAFEGUARD_* environment overrides) and checks:

- the schema version against the supported major version
- intensities, thresholds and the minimum baseline
- the decline rates and the transition schedule
- opt-in rules and operational phase dates
- market prices and escalations
- factor categories, aliases and cache TTL
- output and logging settings`,
		Example: `  safeguard config validate
  safeguard config validate --config scenario.yaml`,
		Annotations: map[string]string{annotationSkipConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			state := stateFrom(cmd.Context())
			if state.cfgErr != nil {
				cmd.PrintErrf("Configuration is invalid:\n  %v\n", state.cfgErr)
				return &ExitError{Code: ExitConfig, Err: state.cfgErr}
			}
			cmd.Printf("Configuration is valid (version %s, facility %q)\n",
				state.cfg.Version, state.cfg.Facility.Name)
			if state.cfg.Version != config.CurrentVersion {
				cmd.Printf("Note: current schema version is %s\n", config.CurrentVersion)
			}
			return nil
		},
	}
}
