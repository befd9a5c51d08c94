package plugin

import (
	"sort"
	"sync"
)

// Entry is a registered plugin: metadata, class, and resolved configuration.
// Entries are immutable once registered.
type Entry struct {
	Meta   Metadata
	Class  Factory
	Config *PluginConfig
}

// NameVersion identifies one registered plugin release.
type NameVersion struct {
	Name    string
	Version string
}

// VersionRegistry maps plugin names to their registered versions for one
// plugin kind. After discovery it is read-only and safe for concurrent reads.
type VersionRegistry struct {
	kind Kind

	mu      sync.RWMutex
	entries map[string]map[string]*Entry
}

// NewVersionRegistry creates an empty registry for the given kind.
func NewVersionRegistry(kind Kind) *VersionRegistry {
	return &VersionRegistry{
		kind:    kind,
		entries: make(map[string]map[string]*Entry),
	}
}

// Kind returns the plugin kind this registry holds.
func (r *VersionRegistry) Kind() Kind {
	return r.kind
}

// Register adds an entry under its (name, version) identity. Two plugins
// claiming the same identity is always a conflict, never a silent override.
func (r *VersionRegistry) Register(entry *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	versions, ok := r.entries[entry.Meta.Name]
	if !ok {
		versions = make(map[string]*Entry)
		r.entries[entry.Meta.Name] = versions
	}
	if _, exists := versions[entry.Meta.Version]; exists {
		return &ConflictingPluginError{Kind: r.kind, Name: entry.Meta.Name, Version: entry.Meta.Version}
	}
	versions[entry.Meta.Version] = entry
	return nil
}

// Resolve returns the entry for (name, version). An empty version resolves
// the latest version under CompareVersions. Unknown names and versions are
// PluginNotFoundErrors.
func (r *VersionRegistry) Resolve(name, version string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions, ok := r.entries[name]
	if !ok {
		return nil, &PluginNotFoundError{Kind: r.kind, Name: name}
	}

	if version != "" {
		entry, ok := versions[version]
		if !ok {
			return nil, &PluginNotFoundError{Kind: r.kind, Name: name, Version: version}
		}
		return entry, nil
	}

	var latest *Entry
	var latestVersion string
	first := true
	for v, entry := range versions {
		if first || CompareVersions(v, latestVersion) > 0 {
			latest = entry
			latestVersion = v
			first = false
		}
	}
	return latest, nil
}

// Names returns all registered plugin names, sorted.
func (r *VersionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Versions returns the registered versions for a name, ordered by
// CompareVersions. It returns nil for unknown names.
func (r *VersionRegistry) Versions(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, ok := r.entries[name]
	if !ok {
		return nil
	}
	versions := make([]string, 0, len(entries))
	for v := range entries {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool {
		return CompareVersions(versions[i], versions[j]) < 0
	})
	return versions
}

// Loaded enumerates every registered (name, version) pair, sorted by name
// then version.
func (r *VersionRegistry) Loaded() []NameVersion {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loaded := make([]NameVersion, 0, len(r.entries))
	for name, versions := range r.entries {
		for version := range versions {
			loaded = append(loaded, NameVersion{Name: name, Version: version})
		}
	}
	sort.Slice(loaded, func(i, j int) bool {
		if loaded[i].Name != loaded[j].Name {
			return loaded[i].Name < loaded[j].Name
		}
		return CompareVersions(loaded[i].Version, loaded[j].Version) < 0
	})
	return loaded
}
