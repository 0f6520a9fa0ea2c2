package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	t.Run("returns paths based on home directory", func(t *testing.T) {
		t.Setenv("PLATERUN_ROOT", "")

		paths, err := DefaultPaths()
		if err != nil {
			t.Fatalf("DefaultPaths failed: %v", err)
		}

		if paths.Root == "" {
			t.Error("Root should not be empty")
		}
		if paths.Runs != filepath.Join(paths.Root, "runs") {
			t.Errorf("Runs path incorrect: got %s", paths.Runs)
		}
		if paths.Params != filepath.Join(paths.Root, "params.yaml") {
			t.Errorf("Params path incorrect: got %s", paths.Params)
		}
		if filepath.Base(paths.Root) != ".platerun" {
			t.Errorf("Root should end with .platerun, got: %s", paths.Root)
		}
	})

	t.Run("respects PLATERUN_ROOT environment variable", func(t *testing.T) {
		customRoot := "/custom/platerun/path"
		t.Setenv("PLATERUN_ROOT", customRoot)

		paths, err := DefaultPaths()
		if err != nil {
			t.Fatalf("DefaultPaths failed: %v", err)
		}

		if paths.Root != customRoot {
			t.Errorf("Expected root %s, got %s", customRoot, paths.Root)
		}
		if paths.Runs != filepath.Join(customRoot, "runs") {
			t.Errorf("Runs should be under custom root, got: %s", paths.Runs)
		}
	})
}

func TestEnsureDirectories(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", ".platerun")
	paths := &Paths{
		Root:   root,
		Runs:   filepath.Join(root, "runs"),
		Params: filepath.Join(root, "params.yaml"),
	}

	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	for _, dir := range []string{paths.Root, paths.Runs} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected %s to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("expected %s to be a directory", dir)
		}
	}

	// Idempotent
	if err := paths.EnsureDirectories(); err != nil {
		t.Errorf("second EnsureDirectories failed: %v", err)
	}
}
