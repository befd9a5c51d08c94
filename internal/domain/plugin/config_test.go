package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rpm.conf", "[rpm]\nfeed = https://example.org/repo\n")
	writeFile(t, dir, "notes.txt", "ignored\n")

	configs, err := LoadConfigs([]string{dir})
	require.NoError(t, err)
	require.Len(t, configs, 1)

	conf := configs["rpm.conf"]
	require.NotNil(t, conf)
	assert.Equal(t, "rpm.conf", conf.File)
	assert.Equal(t, []string{"rpm"}, conf.Sections())

	value, ok := conf.Value("rpm", "feed")
	require.True(t, ok)
	assert.Equal(t, "https://example.org/repo", value)

	_, ok = conf.Value("rpm", "missing")
	assert.False(t, ok)
	_, ok = conf.Value("missing", "feed")
	assert.False(t, ok)
}

func TestLoadConfigsAcrossDirectories(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	writeFile(t, a, "rpm.conf", "[rpm]\n")
	writeFile(t, b, "deb.conf", "[deb]\n")

	configs, err := LoadConfigs([]string{a, b})
	require.NoError(t, err)
	assert.Len(t, configs, 2)
}

func TestLoadConfigsDuplicateName(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	// Identical contents do not excuse the collision.
	writeFile(t, a, "rpm.conf", "[rpm]\n")
	writeFile(t, b, "rpm.conf", "[rpm]\n")

	_, err := LoadConfigs([]string{a, b})
	require.Error(t, err)
	assert.True(t, IsConflictingPlugin(err))
}

func TestLoadConfigsUnreadableDir(t *testing.T) {
	_, err := LoadConfigs([]string{t.TempDir() + "/missing"})
	require.Error(t, err)
	assert.True(t, IsPathError(err))
}

func TestEmptyPluginConfig(t *testing.T) {
	conf := emptyPluginConfig()
	assert.Empty(t, conf.File)
	assert.Empty(t, conf.Sections())
}
