package plugin

import (
	"errors"
	"fmt"
)

// Sentinel errors for lifecycle preconditions.
var (
	// ErrAlreadyInitialized indicates Initialize was called while a manager exists.
	ErrAlreadyInitialized = errors.New("plugin manager already initialized")
	// ErrNotInitialized indicates a lifecycle or lookup call before Initialize.
	ErrNotInitialized = errors.New("plugin manager not initialized")
	// ErrImportersLoaded indicates LoadImporters was called twice on one manager.
	ErrImportersLoaded = errors.New("importers already loaded")
	// ErrDistributorsLoaded indicates LoadDistributors was called twice on one manager.
	ErrDistributorsLoaded = errors.New("distributors already loaded")
)

// PathError indicates a registered directory does not exist or is unreadable.
// It is raised at registration time, before any discovery runs.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("cannot use path %s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// IsPathError returns true if the error indicates an invalid directory.
func IsPathError(err error) bool {
	var pathErr *PathError
	return errors.As(err, &pathErr)
}

// MalformedPluginError indicates a discovered plugin lacks required metadata.
type MalformedPluginError struct {
	Module string
	Symbol string
}

func (e *MalformedPluginError) Error() string {
	return fmt.Sprintf("plugin %s in module %s has no name metadata", e.Symbol, e.Module)
}

// IsMalformedPlugin returns true if the error indicates missing plugin metadata.
func IsMalformedPlugin(err error) bool {
	var malErr *MalformedPluginError
	return errors.As(err, &malErr)
}

// ConflictingPluginError indicates two configuration files share a name, or
// two plugins claim the same (name, version) identity.
type ConflictingPluginError struct {
	// File is set for configuration file name collisions.
	File string
	// Name and Version are set for plugin identity collisions.
	Name    string
	Version string
	Kind    Kind
}

func (e *ConflictingPluginError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("more than one configuration file named %s", e.File)
	}
	return fmt.Sprintf("two %s plugins named %s with version %q found", e.Kind, e.Name, e.Version)
}

// IsConflictingPlugin returns true if the error indicates a plugin or config conflict.
func IsConflictingPlugin(err error) bool {
	var conflictErr *ConflictingPluginError
	return errors.As(err, &conflictErr)
}

// ModuleLoadError indicates a plugin module could not be loaded.
type ModuleLoadError struct {
	Module string
	Reason string
	Err    error
}

func (e *ModuleLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("loading module %s: %s: %v", e.Module, e.Reason, e.Err)
	}
	return fmt.Sprintf("loading module %s: %s", e.Module, e.Reason)
}

func (e *ModuleLoadError) Unwrap() error {
	return e.Err
}

// IsModuleLoad returns true if the error indicates a module load failure.
func IsModuleLoad(err error) bool {
	var loadErr *ModuleLoadError
	return errors.As(err, &loadErr)
}

// ConfigError indicates a configuration file could not be parsed, or a
// recognized key holds a value of the wrong shape.
type ConfigError struct {
	File   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s: %s: %v", e.File, e.Reason, e.Err)
	}
	return fmt.Sprintf("config %s: %s", e.File, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError returns true if the error indicates a malformed configuration.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// PluginNotFoundError indicates a lookup for a name or (name, version) that
// was never registered. This is a normal, recoverable condition for callers.
type PluginNotFoundError struct {
	Kind    Kind
	Name    string
	Version string
}

func (e *PluginNotFoundError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("no %s plugin named %s with version %s", e.Kind, e.Name, e.Version)
	}
	return fmt.Sprintf("no %s plugin named %s", e.Kind, e.Name)
}

// IsPluginNotFound returns true if the error indicates an unknown plugin.
func IsPluginNotFound(err error) bool {
	var notFoundErr *PluginNotFoundError
	return errors.As(err, &notFoundErr)
}
