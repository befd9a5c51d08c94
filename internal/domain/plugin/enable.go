package plugin

// enabledKey is the recognized per-section enablement flag.
const enabledKey = "enabled"

// IsEnabled decides whether a plugin is enabled given its resolved
// configuration. A plugin is enabled by default: a nil config, a config with
// no section named after the plugin, or a section without an enabled key all
// mean enabled. A malformed boolean is a ConfigError, not a silent default.
func IsEnabled(name string, conf *PluginConfig) (bool, error) {
	if conf == nil {
		return true, nil
	}
	sec, err := conf.ini.GetSection(name)
	if err != nil {
		return true, nil
	}
	if !sec.HasKey(enabledKey) {
		return true, nil
	}
	enabled, err := sec.Key(enabledKey).Bool()
	if err != nil {
		return false, &ConfigError{File: conf.File, Reason: "section [" + name + "] has a non-boolean enabled value", Err: err}
	}
	return enabled, nil
}
