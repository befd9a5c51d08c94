// Package plugin implements the content plugin registry: discovery of
// importer and distributor modules on disk, metadata validation, per-plugin
// enablement from configuration, and a name+version keyed lookup API.
package plugin

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Kind distinguishes the two plugin capability families.
type Kind string

const (
	// KindImporter marks plugins that pull content into the server.
	KindImporter Kind = "importer"
	// KindDistributor marks plugins that push content out of the server.
	KindDistributor Kind = "distributor"
)

// Metadata describes a plugin's identity and capabilities.
type Metadata struct {
	// Name is the plugin identifier. Required.
	Name string
	// Version identifies this release of the plugin. An empty version is a
	// valid, distinct identity that orders below every non-empty version.
	Version string
	// Types lists the content types the plugin supports, in declaration order.
	Types []string
	// ConfFile names the configuration file the plugin expects, if any.
	ConfFile string
}

// Importer is the capability contract for plugins that pull content in.
// The registry only calls Metadata; Sync belongs to the sync subsystem.
type Importer interface {
	Metadata() Metadata
	Sync(ctx context.Context, repoID string, conf *PluginConfig) error
}

// Distributor is the capability contract for plugins that push content out.
// The registry only calls Metadata; Publish belongs to the publish subsystem.
type Distributor interface {
	Metadata() Metadata
	Publish(ctx context.Context, repoID string, conf *PluginConfig) error
}

// Factory constructs a plugin instance. Factories are the registered "class"
// of a plugin: the registry hands them out, callers instantiate.
type Factory func() any

// SymbolTable maps exported symbol names to plugin factories. Plugin
// implementations compiled into the server register themselves here, and
// module manifests on disk activate them by name.
type SymbolTable struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{factories: make(map[string]Factory)}
}

// Register adds a factory under the given symbol name.
// Registering the same symbol twice is an error.
func (t *SymbolTable) Register(symbol string, factory Factory) error {
	if symbol == "" {
		return fmt.Errorf("symbol name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory for symbol %q cannot be nil", symbol)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.factories[symbol]; exists {
		return fmt.Errorf("symbol %q already registered", symbol)
	}
	t.factories[symbol] = factory
	return nil
}

// MustRegister is Register that panics on error, for use from package init.
func (t *SymbolTable) MustRegister(symbol string, factory Factory) {
	if err := t.Register(symbol, factory); err != nil {
		panic(err)
	}
}

// Resolve returns the factory registered under the symbol name.
func (t *SymbolTable) Resolve(symbol string) (Factory, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	factory, ok := t.factories[symbol]
	return factory, ok
}

// Symbols returns all registered symbol names, sorted.
func (t *SymbolTable) Symbols() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	symbols := make([]string, 0, len(t.factories))
	for s := range t.factories {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// DefaultSymbols is the table plugin packages register into from init.
var DefaultSymbols = NewSymbolTable()

// RegisterSymbol registers a factory in the default symbol table,
// panicking on duplicates. Intended for plugin package init functions.
func RegisterSymbol(symbol string, factory Factory) {
	DefaultSymbols.MustRegister(symbol, factory)
}
