// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// ProjectRoot returns the absolute path to the project root.
func ProjectRoot() string {
	_, thisFile, _, _ := runtime.Caller(0)
	dir := filepath.Dir(thisFile)
	// internal/testutil -> project root
	return filepath.Join(dir, "..", "..")
}

// TemplatesDir returns the shipped template directory.
func TemplatesDir() string {
	return filepath.Join(ProjectRoot(), "templates")
}

// ExampleDataModel returns the path of the shipped example data model.
func ExampleDataModel() string {
	return filepath.Join(ProjectRoot(), "bgp_evpn_data_model.yml")
}

// WriteFile writes content to name under dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// WriteDataModel writes FabricYAML to a temp directory and returns its path.
func WriteDataModel(t *testing.T) string {
	t.Helper()
	return WriteFile(t, t.TempDir(), "bgp_evpn_data_model.yml", FabricYAML)
}

// CopyTemplates copies the shipped templates into a temp directory and
// applies overrides keyed by file name. An empty override removes the file.
func CopyTemplates(t *testing.T, overrides map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	entries, err := os.ReadDir(TemplatesDir())
	if err != nil {
		t.Fatalf("reading templates: %v", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(TemplatesDir(), e.Name()))
		if err != nil {
			t.Fatalf("reading template %s: %v", e.Name(), err)
		}
		WriteFile(t, dir, e.Name(), string(data))
	}

	for name, content := range overrides {
		if content == "" {
			if err := os.Remove(filepath.Join(dir, name)); err != nil {
				t.Fatalf("removing template %s: %v", name, err)
			}
			continue
		}
		WriteFile(t, dir, name, content)
	}
	return dir
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error but got nil", msg)
	}
}

// Must is a generic helper that calls t.Fatal if err is not nil and returns the value.
func Must[T any](t *testing.T, val T, err error) T {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return val
}
