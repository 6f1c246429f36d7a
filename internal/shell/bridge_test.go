package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(DefaultShell); err != nil {
		t.Skip("no /bin/sh available")
	}
}

func TestRun_CapturesStdoutAndStderr(t *testing.T) {
	requireShell(t)
	out := NewScrollback(1024)

	res, err := NewBridge("").Run("printf out; printf err 1>&2", out)
	require.NoError(t, err)
	require.Equal(t, 0, res.ExitCode)
	require.Equal(t, "outerr", out.String())
	require.Equal(t, int64(6), res.Bytes)
	require.NotEmpty(t, res.RunID)
}

func TestRun_NonZeroExitIsNotAnError(t *testing.T) {
	requireShell(t)
	out := NewScrollback(64)

	res, err := NewBridge(DefaultShell).Run("echo boom; exit 3", out)
	require.NoError(t, err)
	require.Equal(t, 3, res.ExitCode)
	require.Equal(t, "boom\n", out.String())
}

func TestRun_RetainsTailOfLargeOutput(t *testing.T) {
	requireShell(t)
	out := NewScrollback(1000)

	res, err := NewBridge("").Run("i=0; while [ $i -lt 300 ]; do printf '%09d\\n' $i; i=$((i+1)); done", out)
	require.NoError(t, err)
	require.Equal(t, int64(3000), res.Bytes)
	require.Equal(t, 1000, out.Len())
	require.True(t, strings.HasSuffix(out.String(), "000000299\n"))
	require.True(t, strings.HasPrefix(out.String(), "000000200\n"))
}

func TestRun_ResetsPreviousOutput(t *testing.T) {
	requireShell(t)
	out := NewScrollback(64)
	b := NewBridge("")

	_, err := b.Run("echo first", out)
	require.NoError(t, err)
	_, err = b.Run("echo second", out)
	require.NoError(t, err)
	require.Equal(t, "second\n", out.String())
}

// TestRun_SpawnFailureLeavesOutput verifies a missing shell reports ErrSpawn
// and does not touch the scrollback.
func TestRun_SpawnFailureLeavesOutput(t *testing.T) {
	out := NewScrollback(64)
	_, _ = out.Write([]byte("keep"))

	_, err := NewBridge(filepath.Join(t.TempDir(), "no-such-shell")).Run("echo hi", out)
	require.ErrorIs(t, err, ErrSpawn)
	require.Equal(t, "keep", out.String())
}

func TestRun_WorkingDirectory(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), nil, 0o644))
	out := NewScrollback(256)

	_, err := NewBridge("", WithDir(dir)).Run("ls", out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "marker.txt")
}
