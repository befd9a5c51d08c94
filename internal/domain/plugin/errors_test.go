package plugin

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
	}{
		{name: "path", err: &PathError{Path: "/nope"}, pred: IsPathError},
		{name: "malformed", err: &MalformedPluginError{Module: "m", Symbol: "s"}, pred: IsMalformedPlugin},
		{name: "conflict", err: &ConflictingPluginError{Name: "rpm", Version: "1.0", Kind: KindImporter}, pred: IsConflictingPlugin},
		{name: "module load", err: &ModuleLoadError{Module: "m", Reason: "r"}, pred: IsModuleLoad},
		{name: "config", err: &ConfigError{File: "f", Reason: "r"}, pred: IsConfigError},
		{name: "not found", err: &PluginNotFoundError{Kind: KindImporter, Name: "rpm"}, pred: IsPluginNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.pred(tt.err))
			assert.True(t, tt.pred(fmt.Errorf("wrapped: %w", tt.err)))
			assert.False(t, tt.pred(errors.New("unrelated")))
		})
	}
}

func TestConflictingPluginErrorMessages(t *testing.T) {
	fileConflict := &ConflictingPluginError{File: "rpm.conf"}
	assert.Contains(t, fileConflict.Error(), "rpm.conf")

	identityConflict := &ConflictingPluginError{Kind: KindImporter, Name: "rpm", Version: "1.0"}
	assert.Contains(t, identityConflict.Error(), "rpm")
	assert.Contains(t, identityConflict.Error(), "1.0")
}

func TestPluginNotFoundErrorMessages(t *testing.T) {
	withVersion := &PluginNotFoundError{Kind: KindDistributor, Name: "rpm", Version: "2.0"}
	assert.Contains(t, withVersion.Error(), "2.0")

	withoutVersion := &PluginNotFoundError{Kind: KindDistributor, Name: "rpm"}
	assert.NotContains(t, withoutVersion.Error(), "version")
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	assert.ErrorIs(t, &PathError{Path: "/x", Err: cause}, cause)
	assert.ErrorIs(t, &ModuleLoadError{Module: "m", Err: cause}, cause)
	assert.ErrorIs(t, &ConfigError{File: "f", Err: cause}, cause)
}
