// =============================================================================
// Budget Importer - Filesystem Helpers
// =============================================================================

// Package utils provides small filesystem helpers shared by the CLI and the
// export layer.
package utils

import (
	"fmt"
	"os"
)

// EnsureDir creates the directory (and any missing parents) if it does not
// already exist. An empty path is a no-op.
func EnsureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	return nil
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
