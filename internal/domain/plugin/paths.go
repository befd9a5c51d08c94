package plugin

import "os"

// PluginDir is a plugin directory tagged with a logical namespace label.
// Module identities are formed as "<namespace>.<basename>".
type PluginDir struct {
	Path      string
	Namespace string
}

// PathSet holds the ordered configuration and plugin directories for one
// plugin kind. Paths are validated once, when added.
type PathSet struct {
	configDirs []string
	pluginDirs []PluginDir
}

// AddConfigPath validates and appends a configuration directory.
func (s *PathSet) AddConfigPath(path string) error {
	if err := checkPath(path); err != nil {
		return err
	}
	s.configDirs = append(s.configDirs, path)
	return nil
}

// AddPluginPath validates and appends a plugin directory with its namespace
// label. An empty namespace means module names are bare basenames.
func (s *PathSet) AddPluginPath(path, namespace string) error {
	if err := checkPath(path); err != nil {
		return err
	}
	s.pluginDirs = append(s.pluginDirs, PluginDir{Path: path, Namespace: namespace})
	return nil
}

// ConfigPaths returns the registered configuration directories in order.
func (s *PathSet) ConfigPaths() []string {
	paths := make([]string, len(s.configDirs))
	copy(paths, s.configDirs)
	return paths
}

// PluginPaths returns the registered plugin directories in order.
func (s *PathSet) PluginPaths() []PluginDir {
	dirs := make([]PluginDir, len(s.pluginDirs))
	copy(dirs, s.pluginDirs)
	return dirs
}

// checkPath verifies that a path exists and is readable.
func checkPath(path string) error {
	if _, err := os.Stat(path); err != nil {
		return &PathError{Path: path, Err: err}
	}
	// Stat alone does not prove read permission.
	f, err := os.Open(path)
	if err != nil {
		return &PathError{Path: path, Err: err}
	}
	_ = f.Close()
	return nil
}
