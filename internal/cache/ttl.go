package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// TTL bounds. Factor workbooks change once a year, so entries live for a
// week by default.
const (
	DefaultTTLSeconds = 7 * 24 * 60 * 60
	MinTTLSeconds     = 60
	MaxTTLSeconds     = 90 * 24 * 60 * 60

	EnvCacheDir     = "SAFEGUARD_CACHE_DIR"
	EnvCacheTTL     = "SAFEGUARD_CACHE_TTL_SECONDS"
	EnvCacheEnabled = "SAFEGUARD_CACHE_ENABLED"
)

// ErrInvalidTTL reports a TTL outside [MinTTLSeconds, MaxTTLSeconds].
var ErrInvalidTTL = fmt.Errorf("TTL must be between %d and %d seconds", MinTTLSeconds, MaxTTLSeconds)

// ValidateTTL checks seconds against the allowed range.
func ValidateTTL(seconds int) error {
	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return nil
}

// TTLFromEnv returns the TTL from SAFEGUARD_CACHE_TTL_SECONDS, or fallback
// when unset or invalid.
func TTLFromEnv(fallback int) int {
	raw := os.Getenv(EnvCacheTTL)
	if raw == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || ValidateTTL(seconds) != nil {
		return fallback
	}
	return seconds
}

// EnabledFromEnv applies SAFEGUARD_CACHE_ENABLED over fallback.
func EnabledFromEnv(fallback bool) bool {
	raw := os.Getenv(EnvCacheEnabled)
	if raw == "" {
		return fallback
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return enabled
}

// DefaultDirectory returns SAFEGUARD_CACHE_DIR or the user cache directory.
func DefaultDirectory() string {
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		return dir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "safeguard", "factors")
}

// FormatAge renders a duration as "3d 4h", "2h 5m" or "40s".
func FormatAge(d time.Duration) string {
	switch {
	case d >= 24*time.Hour:
		days := int(d.Hours()) / 24
		return fmt.Sprintf("%dd %dh", days, int(d.Hours())%24)
	case d >= time.Hour:
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	case d >= time.Minute:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}
