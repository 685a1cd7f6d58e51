// Package testutil provides golden-file helpers shared by tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// GoldenFile reads the content of the golden file of the current test.
func GoldenFile(t *testing.T) string {
	return GoldenFileNamed(t, t.Name()+".md")
}

// GoldenFileNamed reads the content of the given golden file under testdata/.
func GoldenFileNamed(t *testing.T, filename string) string {
	t.Helper()
	path := filepath.Join("testdata", filename)
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed reading golden file %s: %v", path, err)
	}
	return string(b)
}
