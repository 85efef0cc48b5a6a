package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns ~/.openplayground/logs, falling back to the temp
// directory when the home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".openplayground", "logs")
	}
	return filepath.Join(home, ".openplayground", "logs")
}

// DefaultLogPath returns the server log path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "server.log")
}
