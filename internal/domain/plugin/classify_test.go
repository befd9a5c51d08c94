package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moduleWith(name string, symbols ...Symbol) *Module {
	return &Module{Name: name, Path: name + ".yaml", Symbols: symbols}
}

func TestClassifyImporters(t *testing.T) {
	modules := []*Module{
		moduleWith("mod",
			Symbol{Name: "rpm.Importer", Factory: importerFactory("rpm", "1.0", "rpm", "srpm")},
			Symbol{Name: "rpm.Distributor", Factory: distributorFactory("rpm", "1.0", "rpm")},
		),
	}

	candidates, err := Classify(modules, KindImporter)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "rpm.Importer", candidates[0].Symbol)
	assert.Equal(t, "rpm", candidates[0].Meta.Name)
	assert.Equal(t, []string{"rpm", "srpm"}, candidates[0].Meta.Types)
}

func TestClassifyDistributors(t *testing.T) {
	modules := []*Module{
		moduleWith("mod",
			Symbol{Name: "rpm.Importer", Factory: importerFactory("rpm", "1.0")},
			Symbol{Name: "rpm.Distributor", Factory: distributorFactory("rpm", "1.0")},
		),
	}

	candidates, err := Classify(modules, KindDistributor)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "rpm.Distributor", candidates[0].Symbol)
}

func TestClassifySkipsNonPlugins(t *testing.T) {
	modules := []*Module{
		moduleWith("mod",
			Symbol{Name: "helper", Factory: func() any { return struct{}{} }},
		),
	}

	candidates, err := Classify(modules, KindImporter)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestClassifyMissingName(t *testing.T) {
	modules := []*Module{
		moduleWith("mod",
			Symbol{Name: "broken", Factory: importerFactory("", "1.0")},
		),
	}

	_, err := Classify(modules, KindImporter)
	require.Error(t, err)
	assert.True(t, IsMalformedPlugin(err))
}

func TestClassifyKeepsEmptyVersion(t *testing.T) {
	modules := []*Module{
		moduleWith("mod",
			Symbol{Name: "rpm.Importer", Factory: importerFactory("rpm", "")},
		),
	}

	candidates, err := Classify(modules, KindImporter)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Empty(t, candidates[0].Meta.Version)
}
