package worker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("graph TD; A-->B"), 0o644))
	stamp := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, stamp, stamp))
	return path
}

func TestSweep_RemovesStaleTempSources(t *testing.T) {
	dir := t.TempDir()
	stale := writeAged(t, dir, "abc.mmd", 2*time.Hour)
	fresh := writeAged(t, dir, "def.mmd", time.Minute)

	NewCacheSweeper(dir, time.Hour, time.Hour).Sweep()

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh, "recent temp files may belong to an in-flight render")
}

func TestSweep_NeverTouchesArtifacts(t *testing.T) {
	dir := t.TempDir()
	svg := writeAged(t, dir, "abc.svg", 240*time.Hour)

	NewCacheSweeper(dir, time.Hour, time.Hour).Sweep()

	assert.FileExists(t, svg)
}

func TestSweep_MissingDir(t *testing.T) {
	s := NewCacheSweeper(filepath.Join(t.TempDir(), "nope"), time.Hour, time.Hour)
	assert.NotPanics(t, func() { s.Sweep() })
}
