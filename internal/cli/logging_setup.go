package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/safeguard/internal/config"
	"github.com/rshade/safeguard/internal/logging"
)

// runState is the per-invocation state built before a command runs.
type runState struct {
	cfg       *config.Config
	cfgErr    error
	logResult *logging.LogPathResult
	diags     *logging.Diagnostics
}

type stateKey struct{}

// stateFrom returns the run state attached by setupRun. Commands invoked
// without the root pre-run (tests calling RunE directly) get defaults.
func stateFrom(ctx context.Context) *runState {
	if s, ok := ctx.Value(stateKey{}).(*runState); ok && s != nil {
		return s
	}
	return &runState{cfg: config.New(), diags: logging.NewDiagnostics()}
}

// setupRun loads configuration, configures logging from it and the CLI
// flags, and attaches the trace ID, diagnostics sink and run state to the
// command context.
func setupRun(cmd *cobra.Command) (*runState, error) {
	state := &runState{diags: logging.NewDiagnostics()}

	cfg, err := loadConfig(cmd)
	if err != nil {
		if cmd.Annotations[annotationSkipConfig] == "" {
			return nil, &ExitError{Code: ExitConfig, Err: err}
		}
		state.cfgErr = err
		cfg = config.New()
	}
	state.cfg = cfg

	loggingCfg := cfg.Logging
	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		loggingCfg.Format = format
	}

	if loggingCfg.File != "" {
		if dirErr := cfg.EnsureLogDir(); dirErr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", dirErr)
		}
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	state.logResult = &result
	logging.SetGlobal(result.Logger)
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	ctx = logging.ContextWithDiagnostics(ctx, state.diags)
	ctx = context.WithValue(ctx, stateKey{}, state)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")

	return state, nil
}

// loadConfig reads --config, or the user config file when it exists, and
// overlays the project-local .safeguard/config.yaml of the working
// directory.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		if def, err := config.DefaultConfigPath(); err == nil {
			if _, statErr := os.Stat(def); statErr == nil {
				path = def
			}
		}
	}

	var overlays []string
	if wd, err := os.Getwd(); err == nil {
		overlays = append(overlays, config.ProjectConfigPath(wd))
	}
	return config.Load(path, overlays...)
}

// cleanupRun closes the log file handle.
func cleanupRun(_ *cobra.Command, state *runState) error {
	if state == nil || state.logResult == nil {
		return nil
	}
	if err := state.logResult.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}
