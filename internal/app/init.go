package app

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed default_config.toml
var defaultConfig []byte

// EnsureInitialized creates the configuration directory and drops a starter
// config.toml on first run. An existing config file is never touched.
func EnsureInitialized(configDir string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file %s: %w", path, err)
	}

	if err := os.WriteFile(path, defaultConfig, 0o644); err != nil {
		return fmt.Errorf("failed to write starter config %s: %w", path, err)
	}
	return nil
}
