package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecoverPanic(t *testing.T) {
	dir := t.TempDir()
	panicDir.Store(&dir)

	cleaned := false
	func() {
		defer RecoverPanic("worker", func() { cleaned = true })
		panic("boom")
	}()
	require.True(t, cleaned)

	matches, err := filepath.Glob(filepath.Join(dir, "lazylist-panic-worker-*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	require.Contains(t, string(data), "Panic in worker: boom")
	require.Contains(t, string(data), "Stack Trace:")
}

func TestRecoverPanicWithoutPanic(t *testing.T) {
	called := false
	func() {
		defer RecoverPanic("idle", func() { called = true })
	}()
	require.False(t, called)
}
