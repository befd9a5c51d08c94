package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadOneConfig(t *testing.T, content string) *PluginConfig {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "plugin.conf", content)
	configs, err := LoadConfigs([]string{dir})
	require.NoError(t, err)
	return configs["plugin.conf"]
}

func TestIsEnabled(t *testing.T) {
	tests := []struct {
		name    string
		content string
		plugin  string
		want    bool
	}{
		{name: "explicitly enabled", content: "[rpm]\nenabled = true\n", plugin: "rpm", want: true},
		{name: "explicitly disabled", content: "[rpm]\nenabled = false\n", plugin: "rpm", want: false},
		{name: "no enabled key defaults on", content: "[rpm]\nfeed = x\n", plugin: "rpm", want: true},
		{name: "no matching section defaults on", content: "[other]\nenabled = false\n", plugin: "rpm", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := loadOneConfig(t, tt.content)
			enabled, err := IsEnabled(tt.plugin, conf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, enabled)
		})
	}
}

func TestIsEnabledNilConfig(t *testing.T) {
	enabled, err := IsEnabled("rpm", nil)
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestIsEnabledMalformedBool(t *testing.T) {
	conf := loadOneConfig(t, "[rpm]\nenabled = sometimes\n")
	_, err := IsEnabled("rpm", conf)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}
