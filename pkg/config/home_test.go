package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetHome_EnvVar(t *testing.T) {
	ResetHome()
	defer ResetHome()
	t.Setenv(envHome, "/custom/path")

	got := GetHome()
	if got != "/custom/path" {
		t.Errorf("GetHome() = %q, want %q", got, "/custom/path")
	}
}

func TestGetHome_FindsResultsDirInAncestor(t *testing.T) {
	ResetHome()
	defer ResetHome()
	t.Setenv(envHome, "")

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "test-results"), 0o755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "tests", "pom")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(nested); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	if got := GetHome(); got != root {
		t.Errorf("GetHome() = %q, want %q", got, root)
	}
}

func TestGetHome_FallbackToCwd(t *testing.T) {
	ResetHome()
	defer ResetHome()
	t.Setenv(envHome, "")

	if got := GetHome(); got == "" {
		t.Error("GetHome() returned empty string")
	}
}

func TestGetHome_Cached(t *testing.T) {
	ResetHome()
	defer ResetHome()
	t.Setenv(envHome, "/first")

	first := GetHome()

	// Changing env does not affect the cached value
	t.Setenv(envHome, "/second")
	second := GetHome()

	if first != second {
		t.Errorf("GetHome() not cached: first=%q, second=%q", first, second)
	}
}

func TestGetResultsDir(t *testing.T) {
	ResetHome()
	defer ResetHome()
	t.Setenv(envHome, "/work")

	want := filepath.Join("/work", "test-results")
	if got := GetResultsDir(); got != want {
		t.Errorf("GetResultsDir() = %q, want %q", got, want)
	}
}
