package config

import (
	"os"
	"path/filepath"
	"sync"
)

const envHome = "STAKEHOLDER_REPORT_HOME"

var (
	homeOnce sync.Once
	homeDir  string
)

// GetHome returns the workspace directory default paths are resolved against.
//
// Resolution order:
//  1. $STAKEHOLDER_REPORT_HOME environment variable
//  2. Nearest ancestor of the working directory that contains test-results/
//  3. Current working directory
func GetHome() string {
	homeOnce.Do(func() {
		homeDir = resolveHome()
	})
	return homeDir
}

// GetResultsDir returns <home>/test-results.
func GetResultsDir() string {
	return filepath.Join(GetHome(), "test-results")
}

func resolveHome() string {
	// 1. Environment variable
	if env := os.Getenv(envHome); env != "" {
		return env
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}

	// 2. Walk up looking for a test-results directory
	for dir := cwd; ; {
		if info, err := os.Stat(filepath.Join(dir, "test-results")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// 3. Current working directory
	return cwd
}

// ResetHome resets the cached home directory (for testing).
func ResetHome() {
	homeOnce = sync.Once{}
	homeDir = ""
}
