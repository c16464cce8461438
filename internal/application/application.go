// Package application holds the program identity and where its data lives.
package application

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	// AppName names the binary, the data directory and the store files
	AppName = "wavelink"

	// EnvPrefix prefixes every environment variable read by the configuration
	EnvPrefix = "WAVELINK"

	// Version is reported by the version command
	Version = "0.3.0"
)

var dataDir = sync.OnceValues(func() (string, error) {
	return resolveDataDir(os.UserConfigDir)
})

// DataDir returns the default data directory, wavelink under the user
// config directory. WAVELINK_DATA_DIR or --data-dir replace it.
func DataDir() (string, error) {
	return dataDir()
}

func resolveDataDir(base func() (string, error)) (string, error) {
	dir, err := base()
	if err != nil {
		return "", fmt.Errorf("failed to locate the user config directory: %w", err)
	}

	return filepath.Join(dir, AppName), nil
}
