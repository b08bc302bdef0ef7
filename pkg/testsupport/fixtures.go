package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree writes files, keyed by slash separated relative path, under a
// fresh temporary directory and returns the directory.
func WriteTree(tb testing.TB, files map[string]string) string {
	tb.Helper()
	root := tb.TempDir()
	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			tb.Fatalf("create fixture dir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			tb.Fatalf("write fixture %s: %v", rel, err)
		}
	}
	return root
}
