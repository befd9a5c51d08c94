package plugin

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultSettingsPath is the convention location of the deployment settings
// file.
const DefaultSettingsPath = "/etc/packhouse/packhouse.toml"

// Settings is the TOML deployment settings file. It supplies additional
// discovery directories beyond the convention paths and the server log
// level.
//
//	log_level = "debug"
//
//	[importers]
//	config_dirs = ["/srv/packhouse/importers"]
//
//	[[importers.plugin_dirs]]
//	path = "/srv/packhouse/plugins/importers"
//	namespace = "site.importers"
type Settings struct {
	LogLevel     string       `toml:"log_level"`
	DisableWASM  bool         `toml:"disable_wasm"`
	Importers    KindSettings `toml:"importers"`
	Distributors KindSettings `toml:"distributors"`
}

// KindSettings holds the extra directories for one plugin kind.
type KindSettings struct {
	ConfigDirs []string           `toml:"config_dirs"`
	PluginDirs []PluginDirSetting `toml:"plugin_dirs"`
}

// PluginDirSetting is a plugin directory with its namespace label.
type PluginDirSetting struct {
	Path      string `toml:"path"`
	Namespace string `toml:"namespace"`
}

// LoadSettings reads and parses a settings file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{File: path, Reason: "reading settings", Err: err}
	}
	return ParseSettings(path, data)
}

// ParseSettings parses settings from raw TOML.
func ParseSettings(path string, data []byte) (*Settings, error) {
	var settings Settings
	if err := toml.Unmarshal(data, &settings); err != nil {
		return nil, &ConfigError{File: path, Reason: "parsing settings", Err: err}
	}
	return &settings, nil
}
