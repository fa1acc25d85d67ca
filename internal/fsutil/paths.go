package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolve turns a possibly ~-relative or relative path into an absolute path
// anchored at root. Resolution is purely lexical; no filesystem access occurs.
func Resolve(root, path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot resolve '~' without home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}

	if filepath.IsAbs(path) {
		return path, nil
	}

	return filepath.Join(root, path), nil
}
