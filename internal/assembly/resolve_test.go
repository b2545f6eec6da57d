package assembly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libforge/libforge/internal/model"
	"github.com/libforge/libforge/internal/testutil"
)

// gated builds a ready-to-resolve assembler from module specs in a single
// repository named "core".
func gated(t *testing.T, modules ...testutil.ModuleSpec) *Assembler {
	t.Helper()
	a := loadAll(t, testutil.NewSource("core", nil, modules))
	require.NoError(t, a.MergeOptions(nil))
	require.NoError(t, a.GateModules())
	return a
}

// TestResolveDependencies_TransitiveClosure tests that a chain A -> B -> C
// resolves to all three, requested module first.
func TestResolveDependencies_TransitiveClosure(t *testing.T) {
	a := gated(t,
		testutil.ModuleSpec{Name: "a", Deps: []string{"core:b"}},
		testutil.ModuleSpec{Name: "b", Deps: []string{"core:c"}},
		testutil.ModuleSpec{Name: "c"},
	)

	selected, err := a.ResolveDependencies([]string{"core:a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"core:a", "core:b", "core:c"}, qualifiedNames(selected))
}

// TestResolveDependencies_CycleTerminates tests that a cycle A -> B -> A
// still yields each module exactly once.
func TestResolveDependencies_CycleTerminates(t *testing.T) {
	a := gated(t,
		testutil.ModuleSpec{Name: "a", Deps: []string{"core:b"}},
		testutil.ModuleSpec{Name: "b", Deps: []string{"core:a"}},
	)

	selected, err := a.ResolveDependencies([]string{"core:a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"core:a", "core:b"}, qualifiedNames(selected))
}

// TestResolveDependencies_SharedDependencyOnce tests that a diamond keeps
// the shared dependency deduplicated.
func TestResolveDependencies_SharedDependencyOnce(t *testing.T) {
	a := gated(t,
		testutil.ModuleSpec{Name: "a", Deps: []string{"core:b", "core:c"}},
		testutil.ModuleSpec{Name: "b", Deps: []string{"core:d"}},
		testutil.ModuleSpec{Name: "c", Deps: []string{"core:d"}},
		testutil.ModuleSpec{Name: "d"},
	)

	selected, err := a.ResolveDependencies([]string{"core:a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"core:a", "core:b", "core:c", "core:d"}, qualifiedNames(selected))
}

// TestResolveDependencies_DuplicateRequest tests that requesting the same
// module twice selects it once.
func TestResolveDependencies_DuplicateRequest(t *testing.T) {
	a := gated(t, testutil.ModuleSpec{Name: "a"})

	selected, err := a.ResolveDependencies([]string{"core:a", "core:a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"core:a"}, qualifiedNames(selected))
}

// TestResolveDependencies_UnknownRequest tests that requesting a module
// with no environment entry fails and names it.
func TestResolveDependencies_UnknownRequest(t *testing.T) {
	a := gated(t, testutil.ModuleSpec{Name: "a"})

	_, err := a.ResolveDependencies([]string{"core:missing"})
	require.Error(t, err)
	assert.Equal(t, model.ErrUnknownModule, model.ErrorCode(err))
	assert.Contains(t, err.Error(), "core:missing")
}

// TestResolveDependencies_GatedOutDependency tests that depending on a
// module that availability gating removed is a resolution error, exactly
// as if the module never existed.
func TestResolveDependencies_GatedOutDependency(t *testing.T) {
	src := testutil.NewSource("core",
		[]testutil.OptionSpec{testutil.OptDefault("arch", "avr")},
		[]testutil.ModuleSpec{
			{Name: "a", Deps: []string{"core:fpu"}},
			{Name: "fpu", Available: func(opts *model.OptionView) (bool, error) {
				arch, _ := opts.Get("arch")
				return arch == "arm", nil
			}},
		})

	a := loadAll(t, src)
	require.NoError(t, a.MergeOptions(nil))
	require.NoError(t, a.GateModules())

	_, err := a.ResolveDependencies([]string{"core:a"})
	require.Error(t, err)
	assert.Equal(t, model.ErrUnknownModule, model.ErrorCode(err))
	assert.Contains(t, err.Error(), "core:fpu")
}

// TestResolveDependencies_EmptyRequest tests that an empty request list
// yields an empty selection.
func TestResolveDependencies_EmptyRequest(t *testing.T) {
	a := gated(t, testutil.ModuleSpec{Name: "a"})

	selected, err := a.ResolveDependencies(nil)
	require.NoError(t, err)
	assert.Empty(t, selected)
}
