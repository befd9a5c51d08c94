package plugin

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// configSuffix marks files in a configuration directory as plugin configs.
const configSuffix = ".conf"

// PluginConfig is a parsed, section-based plugin configuration file.
// Plugins with no matching file on disk get an empty default.
type PluginConfig struct {
	// File is the configuration file name ("" for the empty default).
	File string

	ini *ini.File
}

// emptyPluginConfig returns the empty default configuration.
func emptyPluginConfig() *PluginConfig {
	return &PluginConfig{ini: ini.Empty()}
}

// Sections returns the section names present in the configuration.
func (c *PluginConfig) Sections() []string {
	names := make([]string, 0)
	for _, name := range c.ini.SectionStrings() {
		if name == ini.DefaultSection {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Value returns the string value of a key in a section, and whether the
// section and key exist.
func (c *PluginConfig) Value(section, key string) (string, bool) {
	sec, err := c.ini.GetSection(section)
	if err != nil {
		return "", false
	}
	if !sec.HasKey(key) {
		return "", false
	}
	return sec.Key(key).String(), true
}

// LoadConfigs scans the given directories, in order, for configuration
// files and parses each into a PluginConfig keyed by file name. A file name
// occurring more than once across the union of directories is a conflict,
// never an override.
func LoadConfigs(dirs []string) (map[string]*PluginConfig, error) {
	configs := make(map[string]*PluginConfig)
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			// The directory was validated at registration time; treat a
			// later failure as the same class of deployment fault.
			return nil, &PathError{Path: dir, Err: err}
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, configSuffix) {
				continue
			}
			if _, seen := configs[name]; seen {
				return nil, &ConflictingPluginError{File: name}
			}
			parsed, err := ini.Load(filepath.Join(dir, name))
			if err != nil {
				return nil, &ConfigError{File: name, Reason: "parsing", Err: err}
			}
			configs[name] = &PluginConfig{File: name, ini: parsed}
		}
	}
	return configs, nil
}
