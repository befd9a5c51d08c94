package plugin

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// WASMRuntime compiles and runs WASM plugin programs. One runtime is shared
// by every WASM-backed plugin loaded through a manager.
type WASMRuntime struct {
	runtime wazero.Runtime
	mu      sync.Mutex
	closed  bool
}

// NewWASMRuntime creates a wazero-backed runtime with WASI support.
func NewWASMRuntime(ctx context.Context) (*WASMRuntime, error) {
	cfg := wazero.NewRuntimeConfig().
		WithCloseOnContextDone(true)

	r := wazero.NewRuntimeWithConfig(ctx, cfg)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("instantiating WASI: %w", err)
	}

	return &WASMRuntime{runtime: r}, nil
}

// Compile reads and compiles a WASM program from disk. Compilation validates
// the program; it does not run any of its code.
func (r *WASMRuntime) Compile(ctx context.Context, path string) (*WASMProgram, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, fmt.Errorf("wasm runtime closed")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading wasm program: %w", err)
	}

	compiled, err := r.runtime.CompileModule(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("compiling wasm program: %w", err)
	}

	return &WASMProgram{runtime: r.runtime, compiled: compiled, path: path}, nil
}

// Close releases the runtime and every program compiled through it.
func (r *WASMRuntime) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.runtime.Close(ctx)
}

// WASMProgram is a compiled WASM plugin program.
type WASMProgram struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	path     string
}

// Path returns the on-disk location the program was compiled from.
func (p *WASMProgram) Path() string {
	return p.path
}

// invoke instantiates the program and calls the named exported function.
// Each invocation gets a fresh instance.
func (p *WASMProgram) invoke(ctx context.Context, entry string) error {
	modConfig := wazero.NewModuleConfig().
		WithName("").
		WithStartFunctions("_initialize")

	instance, err := p.runtime.InstantiateModule(ctx, p.compiled, modConfig)
	if err != nil {
		return fmt.Errorf("instantiating %s: %w", p.path, err)
	}
	defer func() { _ = instance.Close(ctx) }()

	fn := instance.ExportedFunction(entry)
	if fn == nil {
		return fmt.Errorf("program %s does not export %q", p.path, entry)
	}

	if _, err := fn.Call(ctx); err != nil {
		return fmt.Errorf("calling %s in %s: %w", entry, p.path, err)
	}
	return nil
}

// wasmImporter adapts a WASM program to the Importer contract. Metadata comes
// from the module manifest that declared the program.
type wasmImporter struct {
	meta Metadata
	prog *WASMProgram
}

func (w *wasmImporter) Metadata() Metadata {
	return w.meta
}

func (w *wasmImporter) Sync(ctx context.Context, _ string, _ *PluginConfig) error {
	return w.prog.invoke(ctx, "sync")
}

// wasmDistributor adapts a WASM program to the Distributor contract.
type wasmDistributor struct {
	meta Metadata
	prog *WASMProgram
}

func (w *wasmDistributor) Metadata() Metadata {
	return w.meta
}

func (w *wasmDistributor) Publish(ctx context.Context, _ string, _ *PluginConfig) error {
	return w.prog.invoke(ctx, "publish")
}

var (
	_ Importer    = (*wasmImporter)(nil)
	_ Distributor = (*wasmDistributor)(nil)
)
