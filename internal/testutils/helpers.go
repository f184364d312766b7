package testutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Clock returns a time source that advances one millisecond per call, so
// generated node ids are predictable.
func Clock() func() time.Time {
	t := time.UnixMilli(1_700_000_000_000)
	return func() time.Time {
		t = t.Add(time.Millisecond)
		return t
	}
}

// WriteFile creates name inside a temporary directory and returns its path.
// It fails the test immediately on error.
func WriteFile(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644), "Failed to write %s", name)
	return path
}
