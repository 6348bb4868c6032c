package localstore

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDirName = "caloriespot"
	fileName   = "local.db"
)

// DefaultPath is the store location inside the user config directory.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName, fileName), nil
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create local store directory: %w", err)
	}
	return nil
}
