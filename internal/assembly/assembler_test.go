package assembly

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libforge/libforge/internal/model"
	"github.com/libforge/libforge/internal/testutil"
)

// loadAll loads the given fake sources into a fresh assembler, failing the
// test on any loading error.
func loadAll(t *testing.T, srcs ...*testutil.Source) *Assembler {
	t.Helper()
	a := New()
	for _, s := range srcs {
		_, err := a.LoadRepository(s, s.BasePath)
		require.NoError(t, err)
	}
	return a
}

// TestLoadRepository_Success tests that a well-formed definition source
// produces a named repository with all modules loaded and indexed.
func TestLoadRepository_Success(t *testing.T) {
	src := testutil.NewSource("core",
		[]testutil.OptionSpec{testutil.OptDefault("target", "hosted")},
		[]testutil.ModuleSpec{{Name: "uart"}, {Name: "timer"}},
	)

	a := New()
	repo, err := a.LoadRepository(src, src.BasePath)
	require.NoError(t, err)

	assert.Equal(t, "core", repo.Name())
	assert.Equal(t, src.BasePath, repo.BasePath())
	require.Len(t, repo.Modules(), 2)
	assert.Equal(t, "core:uart", repo.Modules()[0].QualifiedName())
	assert.Equal(t, "core:timer", repo.Modules()[1].QualifiedName())
	assert.Len(t, a.Repositories(), 1)
}

// TestLoadRepository_MissingPrepare tests that a definition unit without a
// prepare entry point fails structurally.
func TestLoadRepository_MissingPrepare(t *testing.T) {
	src := testutil.NewSource("core", nil, nil)
	src.OmitPrepare = true

	_, err := New().LoadRepository(src, src.BasePath)
	require.Error(t, err)
	assert.Equal(t, model.ErrMissingPrepare, model.ErrorCode(err))
}

// TestLoadRepository_NameUnset tests that prepare completing without
// setting a repository name is fatal.
func TestLoadRepository_NameUnset(t *testing.T) {
	src := testutil.NewSource("core", nil, nil)
	src.SkipRepoName = true

	_, err := New().LoadRepository(src, src.BasePath)
	require.Error(t, err)
	assert.Equal(t, model.ErrRepoNameUnset, model.ErrorCode(err))
}

// TestLoadRepository_DuplicateName tests that loading two repositories
// under the same name is fatal, not a silent merge.
func TestLoadRepository_DuplicateName(t *testing.T) {
	first := testutil.NewSource("core", nil, []testutil.ModuleSpec{{Name: "uart"}})
	second := testutil.NewSource("core", nil, []testutil.ModuleSpec{{Name: "spi"}})
	second.BasePath = "/repos/core-copy"

	a := New()
	_, err := a.LoadRepository(first, first.BasePath)
	require.NoError(t, err)

	_, err = a.LoadRepository(second, second.BasePath)
	require.Error(t, err)
	assert.Equal(t, model.ErrDuplicateRepo, model.ErrorCode(err))
	assert.Contains(t, err.Error(), "core")
}

// TestLoadRepository_ModuleNameUnset tests that a module whose init never
// assigns a name is rejected during loading.
func TestLoadRepository_ModuleNameUnset(t *testing.T) {
	src := testutil.NewSource("core", nil,
		[]testutil.ModuleSpec{{Name: "uart", SkipName: true}})

	_, err := New().LoadRepository(src, src.BasePath)
	require.Error(t, err)
	assert.Equal(t, model.ErrModuleNameUnset, model.ErrorCode(err))
}

// TestLoadRepository_DuplicateModuleName tests that two loading units in
// the same repository resolving to the same module name collide fatally.
func TestLoadRepository_DuplicateModuleName(t *testing.T) {
	src := testutil.NewSource("core", nil, []testutil.ModuleSpec{
		{Name: "uart"},
		{Name: "uart2"},
	})
	// Both units claim the name "uart" at init time.
	src.Modules[1].InitName = "uart"

	_, err := New().LoadRepository(src, src.BasePath)
	require.Error(t, err)
	assert.Equal(t, model.ErrDuplicateModule, model.ErrorCode(err))
}

// TestLoadRepository_WrapsUnitError tests that a non-config error from a
// definition unit is wrapped with the unit path and stays inspectable.
func TestLoadRepository_WrapsUnitError(t *testing.T) {
	cause := errors.New("syntax error near line 3")
	src := testutil.NewSource("core", nil, []testutil.ModuleSpec{{Name: "uart"}})
	src.ModuleErr = cause

	_, err := New().LoadRepository(src, src.BasePath)
	require.Error(t, err)
	assert.Equal(t, model.ErrUnitLoad, model.ErrorCode(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "uart/module")
}

// TestPipeline_EndToEnd tests the full pipeline on a small repository: an
// option without a default, a gated dependency, and a transitive request.
func TestPipeline_EndToEnd(t *testing.T) {
	src := testutil.NewSource("core",
		[]testutil.OptionSpec{testutil.Opt("arch")},
		[]testutil.ModuleSpec{
			{Name: "uart", Available: func(opts *model.OptionView) (bool, error) {
				arch, ok := opts.Get("arch")
				return ok && arch == "avr", nil
			}},
			{Name: "timer", Deps: []string{"core:uart"}},
		},
	)

	a := loadAll(t, src)
	require.NoError(t, a.MergeOptions([]model.Override{{Name: "core:arch", Value: "avr"}}))
	require.NoError(t, a.GateModules())

	selected, err := a.ResolveDependencies([]string{"core:timer"})
	require.NoError(t, err)

	names := qualifiedNames(selected)
	assert.Equal(t, []string{"core:timer", "core:uart"}, names)
}

// TestPipeline_UnsetOptionNamesOption tests that omitting a required
// override fails the merge stage and the error names the option.
func TestPipeline_UnsetOptionNamesOption(t *testing.T) {
	src := testutil.NewSource("core",
		[]testutil.OptionSpec{testutil.Opt("arch")},
		[]testutil.ModuleSpec{{Name: "uart"}},
	)

	a := loadAll(t, src)
	err := a.MergeOptions(nil)
	require.Error(t, err)
	assert.Equal(t, model.ErrOptionUnset, model.ErrorCode(err))
	assert.Contains(t, err.Error(), "arch")
}

// TestPipeline_IndependentRuns tests that two assemblers over the same
// definitions never share environment state.
func TestPipeline_IndependentRuns(t *testing.T) {
	build := func() *Assembler {
		src := testutil.NewSource("core", nil, []testutil.ModuleSpec{{Name: "uart"}})
		a := loadAll(t, src)
		require.NoError(t, a.MergeOptions(nil))
		require.NoError(t, a.GateModules())
		return a
	}

	first := build()
	second := build()

	m1, err := first.Environment().Lookup("core:uart")
	require.NoError(t, err)
	m2, err := second.Environment().Lookup("core:uart")
	require.NoError(t, err)
	assert.NotSame(t, m1, m2, "separate runs must produce separate module instances")
}

func qualifiedNames(modules []*model.Module) []string {
	names := make([]string, len(modules))
	for i, m := range modules {
		names[i] = m.QualifiedName()
	}
	return names
}
