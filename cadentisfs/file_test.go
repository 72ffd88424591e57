//go:build linux || darwin

package cadentisfs

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cadentis/cadentis"
)

func newTestRuntime(t *testing.T) *cadentis.Runtime {
	t.Helper()
	rt, err := cadentis.NewBuilder().WorkerThreads(2).Build()
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = rt.Shutdown(ctx)
	})
	return rt
}

func TestFileWriteThenReadAtRoundTrips(t *testing.T) {
	rt := newTestRuntime(t)
	path := filepath.Join(t.TempDir(), "roundtrip.txt")

	wf, err := Create(path)
	require.NoError(t, err)
	wres := cadentis.BlockOn[cadentis.Result[int]](rt, wf.WriteAt([]byte("hello world"), 0))
	require.NoError(t, wres.Err)
	require.Equal(t, len("hello world"), wres.Value)
	require.NoError(t, wf.Close())

	rfh, err := Open(path)
	require.NoError(t, err)
	defer rfh.Close()

	buf := make([]byte, 5)
	rres := cadentis.BlockOn[cadentis.Result[int]](rt, rfh.ReadAt(buf, 6))
	require.NoError(t, rres.Err)
	require.Equal(t, 5, rres.Value)
	require.Equal(t, "world", string(buf))
}

func TestFileWriteAtRejectsOversizedBuffer(t *testing.T) {
	rt := newTestRuntime(t)
	path := filepath.Join(t.TempDir(), "oversized.txt")

	f, err := Create(path)
	require.NoError(t, err)
	defer f.Close()

	oversized := make([]byte, maxOutboundBuffer+1)
	res := cadentis.BlockOn[cadentis.Result[int]](rt, f.WriteAt(oversized, 0))
	require.ErrorIs(t, res.Err, cadentis.ErrOutboundBufferFull)
}

func TestOpenMissingFileErrors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}
