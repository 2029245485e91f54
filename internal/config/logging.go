package config

import (
	"github.com/rshade/safeguard/internal/logging"
)

// ToLoggingConfig converts the logging section for the logging package. A
// configured file switches output from stderr to that file.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}
