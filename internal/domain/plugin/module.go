package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

const (
	// moduleSuffix marks files in a plugin directory as module manifests.
	moduleSuffix = ".yaml"

	// maxManifestSize limits manifest file size to prevent memory exhaustion (256KB).
	maxManifestSize int64 = 256 * 1024
)

// skipModules are manifest base names that never hold plugins: shared
// scaffolding manifests and directory documentation.
var skipModules = map[string]struct{}{
	"base": {},
	"doc":  {},
}

// Symbol is one exported plugin value resolved from a module manifest.
type Symbol struct {
	// Name is the exported symbol name (or the wasm program path for
	// wasm-backed exports), used in diagnostics.
	Name string
	// Factory constructs the exported value.
	Factory Factory
}

// Module is a loaded plugin module: the resolved exports of one manifest.
type Module struct {
	// Name is the module identity: "<namespace>.<basename>", or the bare
	// basename for an unlabeled directory.
	Name string
	// Path is the manifest file location.
	Path string
	// Symbols are the module's exports, in declaration order.
	Symbols []Symbol
}

// moduleManifest is the on-disk shape of a plugin module.
type moduleManifest struct {
	// MinServerVersion optionally gates the module on a minimum server
	// release (semver).
	MinServerVersion string `yaml:"minServerVersion"`
	// Exports lists the plugin values this module activates.
	Exports []manifestExport `yaml:"exports"`
}

// manifestExport activates either a symbol registered in the symbol table or
// a sandboxed WASM program with inline metadata.
type manifestExport struct {
	Symbol string `yaml:"symbol"`

	WASM     string   `yaml:"wasm"`
	Kind     Kind     `yaml:"kind"`
	Name     string   `yaml:"name"`
	Version  string   `yaml:"version"`
	Types    []string `yaml:"types"`
	ConfFile string   `yaml:"confFile"`
}

// ModuleLoader loads plugin modules from plugin directories.
type ModuleLoader struct {
	symbols       *SymbolTable
	serverVersion string
	wasm          func(ctx context.Context) (*WASMRuntime, error)
}

// NewModuleLoader creates a loader resolving exports against the given
// symbol table. wasm provides the runtime for wasm-backed exports; it may be
// nil to reject them.
func NewModuleLoader(symbols *SymbolTable, serverVersion string, wasm func(ctx context.Context) (*WASMRuntime, error)) *ModuleLoader {
	return &ModuleLoader{
		symbols:       symbols,
		serverVersion: serverVersion,
		wasm:          wasm,
	}
}

// Load imports every plugin module found in the given directories, in order.
// Discovery is fail-fast: the first module that cannot be loaded aborts the
// whole call with a ModuleLoadError naming it.
func (l *ModuleLoader) Load(ctx context.Context, dirs []PluginDir) ([]*Module, error) {
	modules := make([]*Module, 0)
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir.Path)
		if err != nil {
			return nil, &PathError{Path: dir.Path, Err: err}
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, moduleSuffix) {
				continue
			}
			base := strings.TrimSuffix(name, moduleSuffix)
			if _, skip := skipModules[base]; skip {
				continue
			}
			moduleName := base
			if dir.Namespace != "" {
				moduleName = dir.Namespace + "." + base
			}
			module, err := l.loadModule(ctx, moduleName, filepath.Join(dir.Path, name))
			if err != nil {
				return nil, err
			}
			modules = append(modules, module)
		}
	}
	return modules, nil
}

// loadModule parses one manifest and resolves its exports.
func (l *ModuleLoader) loadModule(ctx context.Context, moduleName, path string) (*Module, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ModuleLoadError{Module: moduleName, Reason: "reading manifest", Err: err}
	}
	if info.Size() > maxManifestSize {
		return nil, &ModuleLoadError{
			Module: moduleName,
			Reason: fmt.Sprintf("manifest size %d bytes exceeds limit of %d bytes", info.Size(), maxManifestSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ModuleLoadError{Module: moduleName, Reason: "reading manifest", Err: err}
	}

	var manifest moduleManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, &ModuleLoadError{Module: moduleName, Reason: "parsing manifest", Err: err}
	}

	if err := l.checkServerVersion(moduleName, manifest.MinServerVersion); err != nil {
		return nil, err
	}

	module := &Module{Name: moduleName, Path: path}
	for _, export := range manifest.Exports {
		symbol, err := l.resolveExport(ctx, moduleName, path, export)
		if err != nil {
			return nil, err
		}
		module.Symbols = append(module.Symbols, symbol)
	}
	return module, nil
}

// checkServerVersion enforces a manifest's minServerVersion gate.
func (l *ModuleLoader) checkServerVersion(moduleName, minVersion string) error {
	if minVersion == "" || l.serverVersion == "" {
		return nil
	}
	min := semverCanonical(minVersion)
	server := semverCanonical(l.serverVersion)
	if !semver.IsValid(min) {
		return &ModuleLoadError{Module: moduleName, Reason: fmt.Sprintf("invalid minServerVersion %q", minVersion)}
	}
	if !semver.IsValid(server) {
		return nil
	}
	if semver.Compare(server, min) < 0 {
		return &ModuleLoadError{
			Module: moduleName,
			Reason: fmt.Sprintf("requires server version %s or newer, running %s", minVersion, l.serverVersion),
		}
	}
	return nil
}

// resolveExport turns one manifest export into a Symbol.
func (l *ModuleLoader) resolveExport(ctx context.Context, moduleName, manifestPath string, export manifestExport) (Symbol, error) {
	switch {
	case export.Symbol != "" && export.WASM != "":
		return Symbol{}, &ModuleLoadError{Module: moduleName, Reason: "export declares both symbol and wasm"}
	case export.Symbol != "":
		factory, ok := l.symbols.Resolve(export.Symbol)
		if !ok {
			return Symbol{}, &ModuleLoadError{Module: moduleName, Reason: fmt.Sprintf("symbol %q is not registered", export.Symbol)}
		}
		return Symbol{Name: export.Symbol, Factory: factory}, nil
	case export.WASM != "":
		return l.resolveWASMExport(ctx, moduleName, manifestPath, export)
	default:
		return Symbol{}, &ModuleLoadError{Module: moduleName, Reason: "export declares neither symbol nor wasm"}
	}
}

// resolveWASMExport compiles a wasm-backed export and wraps it in the
// matching capability adapter.
func (l *ModuleLoader) resolveWASMExport(ctx context.Context, moduleName, manifestPath string, export manifestExport) (Symbol, error) {
	if l.wasm == nil {
		return Symbol{}, &ModuleLoadError{Module: moduleName, Reason: "wasm exports are disabled"}
	}
	runtime, err := l.wasm(ctx)
	if err != nil {
		return Symbol{}, &ModuleLoadError{Module: moduleName, Reason: "starting wasm runtime", Err: err}
	}

	prog, err := runtime.Compile(ctx, filepath.Join(filepath.Dir(manifestPath), export.WASM))
	if err != nil {
		return Symbol{}, &ModuleLoadError{Module: moduleName, Reason: fmt.Sprintf("wasm program %s", export.WASM), Err: err}
	}

	meta := Metadata{
		Name:     export.Name,
		Version:  export.Version,
		Types:    export.Types,
		ConfFile: export.ConfFile,
	}

	var factory Factory
	switch export.Kind {
	case KindImporter:
		factory = func() any { return &wasmImporter{meta: meta, prog: prog} }
	case KindDistributor:
		factory = func() any { return &wasmDistributor{meta: meta, prog: prog} }
	default:
		return Symbol{}, &ModuleLoadError{Module: moduleName, Reason: fmt.Sprintf("unknown export kind %q for wasm program %s", export.Kind, export.WASM)}
	}
	return Symbol{Name: export.WASM, Factory: factory}, nil
}

// semverCanonical normalizes a version to the "v"-prefixed form x/mod expects.
func semverCanonical(v string) string {
	if strings.HasPrefix(v, "v") || strings.HasPrefix(v, "V") {
		return "v" + v[1:]
	}
	return "v" + v
}
