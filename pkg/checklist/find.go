package checklist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the config file FindFile looks for.
const FileName = ".precheck.toml"

// ErrNotFound is returned when no config file exists between the start
// directory and the search boundary.
var ErrNotFound = errors.New(FileName + " not found")

// FindFile returns explicitPath if set, otherwise searches upward from
// startDir. The search stops at the home directory, at a directory containing
// .git, or at the filesystem root.
func FindFile(startDir, explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %w", err)
		}
		return explicitPath, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		configPath := filepath.Join(currentDir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		if currentDir == homeDir {
			break
		}

		if _, err := os.Stat(filepath.Join(currentDir, ".git")); err == nil {
			break
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", ErrNotFound
}
