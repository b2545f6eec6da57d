// Package harness runs YAML-defined resolution scenarios end to end.
//
// A scenario declares repositories, options, and gated modules in memory,
// then drives the full pipeline: load, option merge, availability gating,
// and dependency resolution. Outcomes are checked against the scenario's
// expect clause and optionally snapshotted to golden files.
package harness

import (
	"fmt"
	"slices"

	"github.com/libforge/libforge/internal/assembly"
	"github.com/libforge/libforge/internal/model"
	"github.com/libforge/libforge/internal/testutil"
)

// Result captures the outcome of one scenario run.
type Result struct {
	// Modules is the selection in resolution order. Empty when the run
	// failed.
	Modules []string

	// BuildOrder is the dependency-respecting ordering of the selection,
	// or nil when the selection contains a cycle.
	BuildOrder []string

	// Options is the fully resolved option set.
	Options map[string]string

	// Warnings lists dependency cycle messages from static analysis.
	Warnings []string

	// ErrorCode is the configuration error code, or "" on success.
	ErrorCode string
	Err       error
}

// Run executes a scenario against a fresh assembler.
func Run(scenario *Scenario) *Result {
	a := assembly.New()

	for _, spec := range scenario.Repositories {
		src := buildSource(spec)
		if _, err := a.LoadRepository(src, src.BasePath); err != nil {
			return failed(err)
		}
	}

	overrides := make([]model.Override, 0, len(scenario.Options))
	for _, opt := range scenario.Options {
		overrides = append(overrides, model.Override{Name: opt.Name, Value: opt.Value})
	}
	if err := a.MergeOptions(overrides); err != nil {
		return failed(err)
	}
	if err := a.GateModules(); err != nil {
		return failed(err)
	}

	selected, err := a.ResolveDependencies(scenario.Request)
	if err != nil {
		return failed(err)
	}

	result := &Result{Options: a.ResolvedOptions()}
	for _, m := range selected {
		result.Modules = append(result.Modules, m.QualifiedName())
	}
	for _, w := range a.AnalyzeCycles() {
		result.Warnings = append(result.Warnings, w.Message)
	}
	if ordered, err := assembly.BuildOrder(selected); err == nil {
		for _, m := range ordered {
			result.BuildOrder = append(result.BuildOrder, m.QualifiedName())
		}
	}
	return result
}

// Check compares a result against the scenario's expect clause.
func Check(scenario *Scenario, result *Result) error {
	expect := scenario.Expect
	if expect.Error != "" {
		if result.Err == nil {
			return fmt.Errorf("expected error %s, got modules %v", expect.Error, result.Modules)
		}
		if result.ErrorCode != expect.Error {
			return fmt.Errorf("expected error %s, got %s: %v", expect.Error, result.ErrorCode, result.Err)
		}
		return nil
	}

	if result.Err != nil {
		return fmt.Errorf("expected modules %v, got error: %v", expect.Modules, result.Err)
	}
	if !slices.Equal(result.Modules, expect.Modules) {
		return fmt.Errorf("expected modules %v, got %v", expect.Modules, result.Modules)
	}
	return nil
}

func failed(err error) *Result {
	return &Result{ErrorCode: model.ErrorCode(err), Err: err}
}

// buildSource converts a repository spec into an in-memory definition
// source.
func buildSource(spec RepositorySpec) *testutil.Source {
	options := make([]testutil.OptionSpec, 0, len(spec.Options))
	for _, opt := range spec.Options {
		if opt.Default != nil {
			options = append(options, testutil.OptDefault(opt.Name, *opt.Default))
		} else {
			options = append(options, testutil.Opt(opt.Name))
		}
	}

	modules := make([]testutil.ModuleSpec, 0, len(spec.Modules))
	for _, mod := range spec.Modules {
		ms := testutil.ModuleSpec{Name: mod.Name, Deps: mod.Depends}
		if cond := mod.AvailableWhen; cond != nil {
			ms.Available = func(opts *model.OptionView) (bool, error) {
				v, ok := opts.Get(cond.Option)
				return ok && v == cond.Equals, nil
			}
		}
		modules = append(modules, ms)
	}

	return testutil.NewSource(spec.Name, options, modules)
}
