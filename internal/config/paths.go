package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Directory and file names.
const (
	EnvHome        = "SAFEGUARD_HOME"
	DirName        = ".safeguard"
	ConfigFileName = "config.yaml"
)

// GetConfigDir returns SAFEGUARD_HOME or ~/.safeguard.
func GetConfigDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, DirName), nil
}

// DefaultConfigPath returns the user configuration file path.
func DefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// ProjectConfigPath returns the project-local overlay path under dir.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, DirName, ConfigFileName)
}

// EnsureConfigDir creates the user configuration directory.
func EnsureConfigDir() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

// EnsureLogDir creates the parent directory of the configured log file. It
// does nothing when logging goes to stderr.
func (c *Config) EnsureLogDir() error {
	if c.Logging.File == "" {
		return nil
	}
	logDir := filepath.Dir(c.Logging.File)
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}
