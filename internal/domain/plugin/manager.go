package plugin

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/packhouse/packhouse/internal/ports"
)

// Manager orchestrates plugin discovery and owns the importer and
// distributor version registries. Discovery runs once per kind during
// startup; afterwards the registries are read-only and lookups may run
// concurrently.
type Manager struct {
	log           ports.Logger
	symbols       *SymbolTable
	serverVersion string

	importerPaths    PathSet
	distributorPaths PathSet

	mu                 sync.RWMutex
	importers          *VersionRegistry
	distributors       *VersionRegistry
	importersLoaded    bool
	distributorsLoaded bool

	wasmMu       sync.Mutex
	wasm         *WASMRuntime
	wasmDisabled bool

	// Initialize-time configuration, applied by the lifecycle functions.
	settings        *Settings
	conventionPaths bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(log ports.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithSymbolTable sets the symbol table module exports resolve against
// (default: DefaultSymbols).
func WithSymbolTable(symbols *SymbolTable) Option {
	return func(m *Manager) {
		m.symbols = symbols
	}
}

// WithServerVersion sets the server version used for manifest
// minServerVersion gates.
func WithServerVersion(version string) Option {
	return func(m *Manager) {
		m.serverVersion = version
	}
}

// WithSettings supplies deployment settings applied by Initialize.
func WithSettings(settings *Settings) Option {
	return func(m *Manager) {
		m.settings = settings
	}
}

// WithoutConventionPaths stops Initialize from registering the convention
// directories. Used by embedders and tests that supply their own paths.
func WithoutConventionPaths() Option {
	return func(m *Manager) {
		m.conventionPaths = false
	}
}

// WithoutWASM rejects wasm-backed module exports. Deployments that only ship
// compiled-in plugins can rule out the sandbox entirely.
func WithoutWASM() Option {
	return func(m *Manager) {
		m.wasmDisabled = true
	}
}

// NewManager creates a manager with empty registries. Nothing is discovered
// until LoadImporters and LoadDistributors run.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		log:             nopLogger{},
		symbols:         DefaultSymbols,
		importers:       NewVersionRegistry(KindImporter),
		distributors:    NewVersionRegistry(KindDistributor),
		conventionPaths: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddImporterConfigPath registers a directory holding importer configuration
// files. The path must exist and be readable.
func (m *Manager) AddImporterConfigPath(path string) error {
	return m.importerPaths.AddConfigPath(path)
}

// AddImporterPluginPath registers a directory holding importer module
// manifests, with its namespace label.
func (m *Manager) AddImporterPluginPath(path, namespace string) error {
	return m.importerPaths.AddPluginPath(path, namespace)
}

// AddDistributorConfigPath registers a directory holding distributor
// configuration files.
func (m *Manager) AddDistributorConfigPath(path string) error {
	return m.distributorPaths.AddConfigPath(path)
}

// AddDistributorPluginPath registers a directory holding distributor module
// manifests, with its namespace label.
func (m *Manager) AddDistributorPluginPath(path, namespace string) error {
	return m.distributorPaths.AddPluginPath(path, namespace)
}

// wasmRuntime lazily starts the shared WASM runtime.
func (m *Manager) wasmRuntime(ctx context.Context) (*WASMRuntime, error) {
	m.wasmMu.Lock()
	defer m.wasmMu.Unlock()

	if m.wasm != nil {
		return m.wasm, nil
	}
	runtime, err := NewWASMRuntime(ctx)
	if err != nil {
		return nil, err
	}
	m.wasm = runtime
	return runtime, nil
}

// LoadImporters runs the importer discovery pass. It may be called exactly
// once per manager; any failure commits nothing.
func (m *Manager) LoadImporters(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.importersLoaded {
		return ErrImportersLoaded
	}
	registry, err := m.loadPass(ctx, KindImporter, &m.importerPaths)
	if err != nil {
		return err
	}
	m.importers = registry
	m.importersLoaded = true
	return nil
}

// LoadDistributors runs the distributor discovery pass. It may be called
// exactly once per manager; any failure commits nothing.
func (m *Manager) LoadDistributors(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.distributorsLoaded {
		return ErrDistributorsLoaded
	}
	registry, err := m.loadPass(ctx, KindDistributor, &m.distributorPaths)
	if err != nil {
		return err
	}
	m.distributors = registry
	m.distributorsLoaded = true
	return nil
}

// loadPass runs one discovery pass: load configs, load modules, classify,
// filter by enablement, register. Registrations are staged into a fresh
// registry that is published by the caller only on success, so discovery is
// all-or-nothing per invocation.
func (m *Manager) loadPass(ctx context.Context, kind Kind, paths *PathSet) (*VersionRegistry, error) {
	log := m.log.With(ports.F("pass", uuid.NewString()), ports.F("kind", string(kind)))

	configs, err := LoadConfigs(paths.ConfigPaths())
	if err != nil {
		return nil, err
	}

	wasm := m.wasmRuntime
	if m.wasmDisabled {
		wasm = nil
	}
	loader := NewModuleLoader(m.symbols, m.serverVersion, wasm)
	modules, err := loader.Load(ctx, paths.PluginPaths())
	if err != nil {
		return nil, err
	}

	candidates, err := Classify(modules, kind)
	if err != nil {
		return nil, err
	}

	registry := NewVersionRegistry(kind)
	for _, candidate := range candidates {
		conf := configs[candidate.Meta.ConfFile]
		enabled, err := IsEnabled(candidate.Meta.Name, conf)
		if err != nil {
			return nil, err
		}
		if !enabled {
			log.Info(ctx, "plugin disabled, skipping",
				ports.F("name", candidate.Meta.Name),
				ports.F("version", candidate.Meta.Version),
				ports.F("module", candidate.Module))
			continue
		}
		if conf == nil {
			conf = emptyPluginConfig()
		}
		entry := &Entry{Meta: candidate.Meta, Class: candidate.Class, Config: conf}
		if err := registry.Register(entry); err != nil {
			return nil, err
		}
		log.Info(ctx, "plugin loaded",
			ports.F("name", candidate.Meta.Name),
			ports.F("version", candidate.Meta.Version),
			ports.F("types", strings.Join(candidate.Meta.Types, ",")),
			ports.F("module", candidate.Module))
	}

	log.Info(ctx, "discovery pass complete", ports.F("plugins", len(registry.Loaded())))
	return registry, nil
}

// GetImporterClass returns the class registered for an importer. An empty
// version resolves the latest.
func (m *Manager) GetImporterClass(name, version string) (Factory, error) {
	entry, err := m.importerRegistry().Resolve(name, version)
	if err != nil {
		return nil, err
	}
	return entry.Class, nil
}

// GetImporterConfig returns the resolved configuration for an importer. An
// empty version resolves the latest.
func (m *Manager) GetImporterConfig(name, version string) (*PluginConfig, error) {
	entry, err := m.importerRegistry().Resolve(name, version)
	if err != nil {
		return nil, err
	}
	return entry.Config, nil
}

// GetDistributorClass returns the class registered for a distributor. An
// empty version resolves the latest.
func (m *Manager) GetDistributorClass(name, version string) (Factory, error) {
	entry, err := m.distributorRegistry().Resolve(name, version)
	if err != nil {
		return nil, err
	}
	return entry.Class, nil
}

// GetDistributorConfig returns the resolved configuration for a distributor.
// An empty version resolves the latest.
func (m *Manager) GetDistributorConfig(name, version string) (*PluginConfig, error) {
	entry, err := m.distributorRegistry().Resolve(name, version)
	if err != nil {
		return nil, err
	}
	return entry.Config, nil
}

// GetLoadedImporters enumerates registered importer (name, version) pairs.
func (m *Manager) GetLoadedImporters() []NameVersion {
	return m.importerRegistry().Loaded()
}

// GetLoadedDistributors enumerates registered distributor (name, version) pairs.
func (m *Manager) GetLoadedDistributors() []NameVersion {
	return m.distributorRegistry().Loaded()
}

func (m *Manager) importerRegistry() *VersionRegistry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.importers
}

func (m *Manager) distributorRegistry() *VersionRegistry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.distributors
}

// Close releases manager resources, including the WASM runtime if one was
// started.
func (m *Manager) Close(ctx context.Context) error {
	m.wasmMu.Lock()
	defer m.wasmMu.Unlock()

	if m.wasm == nil {
		return nil
	}
	err := m.wasm.Close(ctx)
	m.wasm = nil
	return err
}

// nopLogger is the manager's default logger. The domain package cannot
// depend on the logging adapters, so it carries its own discard logger.
type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...ports.Field) {}
func (nopLogger) Info(context.Context, string, ...ports.Field)  {}
func (nopLogger) Warn(context.Context, string, ...ports.Field)  {}
func (nopLogger) Error(context.Context, string, ...ports.Field) {}
func (l nopLogger) With(...ports.Field) ports.Logger            { return l }
func (nopLogger) Level() ports.Level                            { return ports.LevelInfo }
func (nopLogger) SetLevel(ports.Level)                          {}
