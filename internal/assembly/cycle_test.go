package assembly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libforge/libforge/internal/testutil"
)

// TestAnalyzeCycles_Acyclic tests that a dependency tree produces no
// warnings.
func TestAnalyzeCycles_Acyclic(t *testing.T) {
	a := gated(t,
		testutil.ModuleSpec{Name: "a", Deps: []string{"core:b"}},
		testutil.ModuleSpec{Name: "b"},
	)

	assert.Empty(t, a.AnalyzeCycles())
}

// TestAnalyzeCycles_SelfLoop tests detection of a module depending on
// itself.
func TestAnalyzeCycles_SelfLoop(t *testing.T) {
	a := gated(t,
		testutil.ModuleSpec{Name: "a", Deps: []string{"core:a"}},
	)

	warnings := a.AnalyzeCycles()
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"core:a", "core:a"}, warnings[0].Path)
	assert.Contains(t, warnings[0].Message, "depends on itself")
}

// TestAnalyzeCycles_TwoNodeCycle tests detection of a mutual dependency.
func TestAnalyzeCycles_TwoNodeCycle(t *testing.T) {
	a := gated(t,
		testutil.ModuleSpec{Name: "a", Deps: []string{"core:b"}},
		testutil.ModuleSpec{Name: "b", Deps: []string{"core:a"}},
	)

	warnings := a.AnalyzeCycles()
	require.Len(t, warnings, 1)
	assert.Len(t, warnings[0].Path, 3, "cycle path should return to its start")
	assert.Equal(t, warnings[0].Path[0], warnings[0].Path[len(warnings[0].Path)-1])
	assert.Contains(t, warnings[0].Message, "dependency cycle")
}

// TestAnalyzeCycles_IgnoresUnknownDeps tests that a dependency on a module
// absent from the environment is skipped rather than reported as a cycle.
func TestAnalyzeCycles_IgnoresUnknownDeps(t *testing.T) {
	a := gated(t,
		testutil.ModuleSpec{Name: "a", Deps: []string{"core:missing"}},
	)

	assert.Empty(t, a.AnalyzeCycles())
}

// TestAnalyzeCycles_MixedGraph tests one cycle amid acyclic modules.
func TestAnalyzeCycles_MixedGraph(t *testing.T) {
	a := gated(t,
		testutil.ModuleSpec{Name: "a", Deps: []string{"core:b"}},
		testutil.ModuleSpec{Name: "b", Deps: []string{"core:c"}},
		testutil.ModuleSpec{Name: "c", Deps: []string{"core:b"}},
		testutil.ModuleSpec{Name: "d"},
	)

	warnings := a.AnalyzeCycles()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Path, "core:b")
	assert.Contains(t, warnings[0].Path, "core:c")
	assert.NotContains(t, warnings[0].Path, "core:a")
}
