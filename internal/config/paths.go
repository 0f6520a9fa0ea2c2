// Package config manages platerun configuration, run parameters and
// filesystem paths.
//
// The data root defaults to ~/.platerun/ and holds the run history (runs/)
// and an optional default parameter file (params.yaml). The root can be moved
// with the PLATERUN_ROOT environment variable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the filesystem paths used by platerun.
type Paths struct {
	// Root is the base directory for all platerun data (default: ~/.platerun)
	Root string

	// Runs is the directory containing run records
	Runs string

	// Params is the path to the default run parameter file
	Params string
}

// DefaultPaths returns the default paths for platerun.
// Paths can be overridden with environment variables:
// - PLATERUN_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("PLATERUN_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".platerun")
	}

	return &Paths{
		Root:   root,
		Runs:   filepath.Join(root, "runs"),
		Params: filepath.Join(root, "params.yaml"),
	}, nil
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Root,
		p.Runs,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
