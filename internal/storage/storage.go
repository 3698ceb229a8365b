// Package storage persists export buffers under the data directory.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Save writes data to dir/name, creating dir if needed, and returns the
// full path written.
func Save(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
