package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeImporter is a minimal importer used to populate symbol tables in tests.
type fakeImporter struct {
	meta Metadata
}

func (f *fakeImporter) Metadata() Metadata {
	return f.meta
}

func (f *fakeImporter) Sync(_ context.Context, _ string, _ *PluginConfig) error {
	return nil
}

// fakeDistributor is a minimal distributor counterpart.
type fakeDistributor struct {
	meta Metadata
}

func (f *fakeDistributor) Metadata() Metadata {
	return f.meta
}

func (f *fakeDistributor) Publish(_ context.Context, _ string, _ *PluginConfig) error {
	return nil
}

// importerFactory returns a factory producing a fakeImporter with the given
// identity.
func importerFactory(name, version string, types ...string) Factory {
	meta := Metadata{Name: name, Version: version, Types: types}
	return func() any { return &fakeImporter{meta: meta} }
}

// distributorFactory returns a factory producing a fakeDistributor.
func distributorFactory(name, version string, types ...string) Factory {
	meta := Metadata{Name: name, Version: version, Types: types}
	return func() any { return &fakeDistributor{meta: meta} }
}

// writeFile creates a file with the given content inside dir.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// emptyWASM is the smallest valid WASM program: magic and version only.
var emptyWASM = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
