package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTableRegisterAndResolve(t *testing.T) {
	table := NewSymbolTable()
	require.NoError(t, table.Register("rpm.Importer", importerFactory("rpm", "1.0")))

	factory, ok := table.Resolve("rpm.Importer")
	require.True(t, ok)
	require.NotNil(t, factory)

	importer, ok := factory().(Importer)
	require.True(t, ok)
	assert.Equal(t, "rpm", importer.Metadata().Name)
}

func TestSymbolTableRejectsEmptyName(t *testing.T) {
	table := NewSymbolTable()
	assert.Error(t, table.Register("", importerFactory("rpm", "1.0")))
}

func TestSymbolTableRejectsNilFactory(t *testing.T) {
	table := NewSymbolTable()
	assert.Error(t, table.Register("rpm.Importer", nil))
}

func TestSymbolTableRejectsDuplicate(t *testing.T) {
	table := NewSymbolTable()
	require.NoError(t, table.Register("rpm.Importer", importerFactory("rpm", "1.0")))
	assert.Error(t, table.Register("rpm.Importer", importerFactory("rpm", "2.0")))
}

func TestSymbolTableUnknownSymbol(t *testing.T) {
	table := NewSymbolTable()
	_, ok := table.Resolve("missing")
	assert.False(t, ok)
}

func TestSymbolTableSymbolsSorted(t *testing.T) {
	table := NewSymbolTable()
	require.NoError(t, table.Register("b", importerFactory("b", "")))
	require.NoError(t, table.Register("a", importerFactory("a", "")))

	assert.Equal(t, []string{"a", "b"}, table.Symbols())
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	table := NewSymbolTable()
	table.MustRegister("rpm.Importer", importerFactory("rpm", "1.0"))
	assert.Panics(t, func() {
		table.MustRegister("rpm.Importer", importerFactory("rpm", "1.0"))
	})
}
