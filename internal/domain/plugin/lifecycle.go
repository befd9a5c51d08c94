package plugin

import (
	"context"
	"sync"
)

// Convention paths. Configuration files live under /etc/packhouse, module
// manifests under /usr/local/share/packhouse, split by plugin kind.
const (
	DefaultImporterConfigDir    = "/etc/packhouse/importers"
	DefaultDistributorConfigDir = "/etc/packhouse/distributors"

	DefaultImporterPluginDir    = "/usr/local/share/packhouse/importers"
	DefaultDistributorPluginDir = "/usr/local/share/packhouse/distributors"

	importerNamespace    = "packhouse.importers"
	distributorNamespace = "packhouse.distributors"
)

var (
	defaultMu      sync.Mutex
	defaultManager *Manager
)

// Initialize creates the process-wide manager, registers the convention
// paths (unless disabled) and any settings-supplied paths, and runs both
// discovery passes. It fails with ErrAlreadyInitialized if a manager already
// exists, and with the triggering discovery error, committing nothing, if
// discovery fails. Discovery errors are startup failures: they indicate a
// misconfigured deployment, not a transient fault.
func Initialize(ctx context.Context, opts ...Option) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultManager != nil {
		return ErrAlreadyInitialized
	}

	m := NewManager(opts...)
	if err := bootstrap(ctx, m); err != nil {
		_ = m.Close(ctx)
		return err
	}

	defaultManager = m
	return nil
}

// bootstrap registers paths and runs discovery for a fresh manager.
func bootstrap(ctx context.Context, m *Manager) error {
	if m.conventionPaths {
		if err := addConventionPaths(m); err != nil {
			return err
		}
	}
	if m.settings != nil {
		if err := applySettings(m, m.settings); err != nil {
			return err
		}
	}
	if err := m.LoadImporters(ctx); err != nil {
		return err
	}
	return m.LoadDistributors(ctx)
}

func addConventionPaths(m *Manager) error {
	if err := m.AddImporterConfigPath(DefaultImporterConfigDir); err != nil {
		return err
	}
	if err := m.AddImporterPluginPath(DefaultImporterPluginDir, importerNamespace); err != nil {
		return err
	}
	if err := m.AddDistributorConfigPath(DefaultDistributorConfigDir); err != nil {
		return err
	}
	return m.AddDistributorPluginPath(DefaultDistributorPluginDir, distributorNamespace)
}

func applySettings(m *Manager, settings *Settings) error {
	if settings.DisableWASM {
		m.wasmDisabled = true
	}
	for _, dir := range settings.Importers.ConfigDirs {
		if err := m.AddImporterConfigPath(dir); err != nil {
			return err
		}
	}
	for _, dir := range settings.Importers.PluginDirs {
		if err := m.AddImporterPluginPath(dir.Path, dir.Namespace); err != nil {
			return err
		}
	}
	for _, dir := range settings.Distributors.ConfigDirs {
		if err := m.AddDistributorConfigPath(dir); err != nil {
			return err
		}
	}
	for _, dir := range settings.Distributors.PluginDirs {
		if err := m.AddDistributorPluginPath(dir.Path, dir.Namespace); err != nil {
			return err
		}
	}
	return nil
}

// Finalize releases the process-wide manager so a fresh Initialize can run.
// It fails with ErrNotInitialized if no manager exists. Not expected under
// normal server operation; test harnesses use it between cycles.
func Finalize(ctx context.Context) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultManager == nil {
		return ErrNotInitialized
	}
	err := defaultManager.Close(ctx)
	defaultManager = nil
	return err
}

// Default returns the process-wide manager created by Initialize.
func Default() (*Manager, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultManager == nil {
		return nil, ErrNotInitialized
	}
	return defaultManager, nil
}

// GetImporterClass looks up an importer class on the process-wide manager.
func GetImporterClass(name, version string) (Factory, error) {
	m, err := Default()
	if err != nil {
		return nil, err
	}
	return m.GetImporterClass(name, version)
}

// GetImporterConfig looks up an importer configuration on the process-wide
// manager.
func GetImporterConfig(name, version string) (*PluginConfig, error) {
	m, err := Default()
	if err != nil {
		return nil, err
	}
	return m.GetImporterConfig(name, version)
}

// GetDistributorClass looks up a distributor class on the process-wide
// manager.
func GetDistributorClass(name, version string) (Factory, error) {
	m, err := Default()
	if err != nil {
		return nil, err
	}
	return m.GetDistributorClass(name, version)
}

// GetDistributorConfig looks up a distributor configuration on the
// process-wide manager.
func GetDistributorConfig(name, version string) (*PluginConfig, error) {
	m, err := Default()
	if err != nil {
		return nil, err
	}
	return m.GetDistributorConfig(name, version)
}

// GetLoadedImporters enumerates importers on the process-wide manager.
func GetLoadedImporters() ([]NameVersion, error) {
	m, err := Default()
	if err != nil {
		return nil, err
	}
	return m.GetLoadedImporters(), nil
}

// GetLoadedDistributors enumerates distributors on the process-wide manager.
func GetLoadedDistributors() ([]NameVersion, error) {
	m, err := Default()
	if err != nil {
		return nil, err
	}
	return m.GetLoadedDistributors(), nil
}
