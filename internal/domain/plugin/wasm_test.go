package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileTestProgram(t *testing.T, data []byte) (*WASMRuntime, *WASMProgram) {
	t.Helper()
	ctx := context.Background()

	runtime, err := NewWASMRuntime(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = runtime.Close(ctx) })

	path := filepath.Join(t.TempDir(), "prog.wasm")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	prog, err := runtime.Compile(ctx, path)
	require.NoError(t, err)
	return runtime, prog
}

func TestWASMRuntimeCompile(t *testing.T) {
	_, prog := compileTestProgram(t, emptyWASM)
	assert.Contains(t, prog.Path(), "prog.wasm")
}

func TestWASMRuntimeCompileInvalid(t *testing.T) {
	ctx := context.Background()
	runtime, err := NewWASMRuntime(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = runtime.Close(ctx) })

	path := filepath.Join(t.TempDir(), "bad.wasm")
	require.NoError(t, os.WriteFile(path, []byte("not wasm"), 0o644))

	_, err = runtime.Compile(ctx, path)
	assert.Error(t, err)
}

func TestWASMRuntimeCompileMissingFile(t *testing.T) {
	ctx := context.Background()
	runtime, err := NewWASMRuntime(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = runtime.Close(ctx) })

	_, err = runtime.Compile(ctx, filepath.Join(t.TempDir(), "missing.wasm"))
	assert.Error(t, err)
}

func TestWASMRuntimeCompileAfterClose(t *testing.T) {
	ctx := context.Background()
	runtime, err := NewWASMRuntime(ctx)
	require.NoError(t, err)
	require.NoError(t, runtime.Close(ctx))
	// Closing twice is a no-op.
	require.NoError(t, runtime.Close(ctx))

	_, err = runtime.Compile(ctx, "anything.wasm")
	assert.Error(t, err)
}

func TestWASMImporterSyncMissingExport(t *testing.T) {
	_, prog := compileTestProgram(t, emptyWASM)

	importer := &wasmImporter{meta: Metadata{Name: "w"}, prog: prog}
	err := importer.Sync(context.Background(), "repo", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync")
}

func TestWASMDistributorPublishMissingExport(t *testing.T) {
	_, prog := compileTestProgram(t, emptyWASM)

	distributor := &wasmDistributor{meta: Metadata{Name: "w"}, prog: prog}
	err := distributor.Publish(context.Background(), "repo", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish")
}
