package assembly

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libforge/libforge/internal/model"
	"github.com/libforge/libforge/internal/testutil"
)

// TestGateModules_AvailabilitySplit tests that prepare decides membership:
// available modules land in the environment, the rest do not.
func TestGateModules_AvailabilitySplit(t *testing.T) {
	src := testutil.NewSource("core",
		[]testutil.OptionSpec{testutil.OptDefault("arch", "avr")},
		[]testutil.ModuleSpec{
			{Name: "uart"},
			{Name: "fpu", Available: func(opts *model.OptionView) (bool, error) {
				arch, _ := opts.Get("arch")
				return arch == "arm", nil
			}},
		},
	)

	a := loadAll(t, src)
	require.NoError(t, a.MergeOptions(nil))
	require.NoError(t, a.GateModules())

	env := a.Environment()
	assert.Equal(t, []string{"core:uart"}, env.Names())

	_, err := env.Lookup("core:fpu")
	require.Error(t, err)
	assert.Equal(t, model.ErrUnknownModule, model.ErrorCode(err))
}

// TestGateModules_CrossRepositoryRead tests that prepare can read another
// repository's option through its qualified name.
func TestGateModules_CrossRepositoryRead(t *testing.T) {
	core := testutil.NewSource("core",
		[]testutil.OptionSpec{testutil.OptDefault("arch", "arm")}, nil)
	drivers := testutil.NewSource("drivers", nil,
		[]testutil.ModuleSpec{
			{Name: "dma", Available: func(opts *model.OptionView) (bool, error) {
				arch, ok := opts.Get("core:arch")
				return ok && arch == "arm", nil
			}},
		})

	a := loadAll(t, core, drivers)
	require.NoError(t, a.MergeOptions(nil))
	require.NoError(t, a.GateModules())

	_, err := a.Environment().Lookup("drivers:dma")
	assert.NoError(t, err)
}

// TestGateModules_BareNameScopedToOwnRepo tests that a bare option name in
// prepare resolves within the module's own repository only.
func TestGateModules_BareNameScopedToOwnRepo(t *testing.T) {
	core := testutil.NewSource("core",
		[]testutil.OptionSpec{testutil.OptDefault("debug", "true")}, nil)
	drivers := testutil.NewSource("drivers", nil,
		[]testutil.ModuleSpec{
			{Name: "dma", Available: func(opts *model.OptionView) (bool, error) {
				// "debug" exists only in core, so the bare lookup must miss.
				_, ok := opts.Get("debug")
				return !ok, nil
			}},
		})

	a := loadAll(t, core, drivers)
	require.NoError(t, a.MergeOptions(nil))
	require.NoError(t, a.GateModules())

	_, err := a.Environment().Lookup("drivers:dma")
	assert.NoError(t, err)
}

// TestGateModules_PrepareError tests that a failing prepare aborts gating
// with the module named.
func TestGateModules_PrepareError(t *testing.T) {
	cause := errors.New("lookup exploded")
	src := testutil.NewSource("core", nil,
		[]testutil.ModuleSpec{
			{Name: "uart", Available: func(*model.OptionView) (bool, error) {
				return false, cause
			}},
		})

	a := loadAll(t, src)
	require.NoError(t, a.MergeOptions(nil))

	err := a.GateModules()
	require.Error(t, err)
	assert.Equal(t, model.ErrUnitLoad, model.ErrorCode(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "core:uart")
}

// TestGateModules_DeterministicOrder tests that environment registration
// follows repository load order, then module registration order.
func TestGateModules_DeterministicOrder(t *testing.T) {
	core := testutil.NewSource("core", nil,
		[]testutil.ModuleSpec{{Name: "uart"}, {Name: "timer"}})
	drivers := testutil.NewSource("drivers", nil,
		[]testutil.ModuleSpec{{Name: "dma"}})

	a := loadAll(t, core, drivers)
	require.NoError(t, a.MergeOptions(nil))
	require.NoError(t, a.GateModules())

	assert.Equal(t,
		[]string{"core:uart", "core:timer", "drivers:dma"},
		a.Environment().Names())
}
