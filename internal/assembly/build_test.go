package assembly

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libforge/libforge/internal/model"
	"github.com/libforge/libforge/internal/testutil"
)

// TestBuildModules_TopologicalInvocation tests that Build callbacks run
// dependencies-first and receive the shared environment and config.
func TestBuildModules_TopologicalInvocation(t *testing.T) {
	var calls []string
	record := func(name string) func(*model.Environment, model.BuildContext) error {
		return func(env *model.Environment, cfg model.BuildContext) error {
			_, err := env.Lookup("core:" + name)
			require.NoError(t, err, "environment must be visible during build")
			assert.Equal(t, "/tmp/out", cfg.OutPath())
			calls = append(calls, name)
			return nil
		}
	}

	src := testutil.NewSource("core", nil, []testutil.ModuleSpec{
		{Name: "a", Deps: []string{"core:b"}, Build: record("a")},
		{Name: "b", Build: record("b")},
	})

	a := loadAll(t, src)
	require.NoError(t, a.MergeOptions(nil))
	require.NoError(t, a.GateModules())
	selected, err := a.ResolveDependencies([]string{"core:a"})
	require.NoError(t, err)

	cfg := NewBuildConfig("/tmp/out", a.ResolvedOptions())
	ordered, err := a.BuildModules(selected, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, calls)

	names := make([]string, len(ordered))
	for i, m := range ordered {
		names[i] = m.QualifiedName()
	}
	assert.Equal(t, []string{"core:b", "core:a"}, names, "returned order must match invocation order")
}

// TestBuildModules_FailureAborts tests that the first Build error stops
// the run and names the failing module.
func TestBuildModules_FailureAborts(t *testing.T) {
	cause := errors.New("generator crashed")
	built := 0

	src := testutil.NewSource("core", nil, []testutil.ModuleSpec{
		{Name: "a", Deps: []string{"core:b"}, Build: func(*model.Environment, model.BuildContext) error {
			built++
			return nil
		}},
		{Name: "b", Build: func(*model.Environment, model.BuildContext) error {
			return cause
		}},
	})

	a := loadAll(t, src)
	require.NoError(t, a.MergeOptions(nil))
	require.NoError(t, a.GateModules())
	selected, err := a.ResolveDependencies([]string{"core:a"})
	require.NoError(t, err)

	_, err = a.BuildModules(selected, NewBuildConfig("", a.ResolvedOptions()))
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "core:b")
	assert.Zero(t, built, "modules after the failure must not build")
}

// TestBuildModules_CycleFatal tests that an unorderable selection fails
// before any Build callback runs.
func TestBuildModules_CycleFatal(t *testing.T) {
	built := 0
	mark := func(*model.Environment, model.BuildContext) error {
		built++
		return nil
	}

	src := testutil.NewSource("core", nil, []testutil.ModuleSpec{
		{Name: "a", Deps: []string{"core:b"}, Build: mark},
		{Name: "b", Deps: []string{"core:a"}, Build: mark},
	})

	a := loadAll(t, src)
	require.NoError(t, a.MergeOptions(nil))
	require.NoError(t, a.GateModules())
	selected, err := a.ResolveDependencies([]string{"core:a"})
	require.NoError(t, err)

	_, err = a.BuildModules(selected, NewBuildConfig("", nil))
	require.Error(t, err)
	assert.Equal(t, model.ErrDependencyCycle, model.ErrorCode(err))
	assert.Zero(t, built)
}

// TestBuildConfig_OptionLookup tests qualified option access from a build
// context.
func TestBuildConfig_OptionLookup(t *testing.T) {
	cfg := NewBuildConfig("out", map[string]string{"core:arch": "avr"})

	v, ok := cfg.Option("core:arch")
	assert.True(t, ok)
	assert.Equal(t, "avr", v)

	_, ok = cfg.Option("core:missing")
	assert.False(t, ok)
}
