// Package filex holds small filesystem helpers for the CLI's data directory.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DataDirName is the directory created under the user's config dir.
const DataDirName = "euem"

// DefaultDataDir returns <user config dir>/euem, or ./.euem when the
// platform does not report a config dir.
func DefaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return "." + DataDirName
	}
	return filepath.Join(base, DataDirName)
}

// EnsureDir creates dir (and parents) with owner-only permissions and
// returns its absolute path. A leading "~/" is expanded to the home dir.
func EnsureDir(dir string) (string, error) {
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("home dir: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}
