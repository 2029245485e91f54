package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// gitignoreContent keeps generated output of a project-local .safeguard/
// directory out of version control while the config overlay stays tracked.
const gitignoreContent = `# safeguard project-local data (auto-generated)
cache/
*.log
*.ndjson
`

// GitignoreContent returns the .gitignore written into project-local
// .safeguard/ directories.
func GitignoreContent() string {
	return gitignoreContent
}

// EnsureGitignore writes dir/.gitignore unless one exists, creating dir as
// needed. It reports whether a file was written.
func EnsureGitignore(dir string) (bool, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, ".gitignore")
	//nolint:gosec // .gitignore must be world-readable (0644).
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("creating .gitignore at %s: %w", path, err)
	}
	if _, err = f.WriteString(gitignoreContent); err != nil {
		_ = f.Close()
		return false, fmt.Errorf("writing .gitignore at %s: %w", path, err)
	}
	return true, f.Close()
}
