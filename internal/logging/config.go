// Package logging builds the zerolog loggers used across the safeguard CLI
// and carries them, together with trace IDs and the diagnostics sink, through
// context.Context.
package logging

// Output destinations and formats understood by NewLogger.
const (
	OutputStderr = "stderr"
	OutputFile   = "file"

	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config controls logger construction.
type Config struct {
	// Level is a zerolog level name (trace, debug, info, warn, error). Unknown
	// values fall back to info.
	Level string

	// Format is "console" (human readable) or "json".
	Format string

	// Output is "stderr" or "file".
	Output string

	// File is the log file path when Output is "file".
	File string

	// Caller adds the caller file:line to every event.
	Caller bool
}

// DefaultConfig returns an info-level console logger writing to stderr.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: FormatConsole,
		Output: OutputStderr,
	}
}
