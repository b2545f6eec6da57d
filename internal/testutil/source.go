// Package testutil provides in-memory definition sources for tests.
//
// Tests build repositories programmatically instead of authoring Lua
// definition units on disk; the fake source implements the same contract
// the loader drives in production, so pipeline behavior is identical.
package testutil

import (
	"github.com/libforge/libforge/internal/model"
)

// OptionSpec declares one repository option for a fake repository.
type OptionSpec struct {
	Name    string
	Default string
	HasDef  bool
}

// Opt declares an option with no default.
func Opt(name string) OptionSpec {
	return OptionSpec{Name: name}
}

// OptDefault declares an option with a default value.
func OptDefault(name, value string) OptionSpec {
	return OptionSpec{Name: name, Default: value, HasDef: true}
}

// ModuleSpec declares one module for a fake repository.
//
// Available decides gating; a nil Available gates the module in
// unconditionally. Build is optional and defaults to a no-op.
type ModuleSpec struct {
	Name      string
	Deps      []string
	Available func(opts *model.OptionView) (bool, error)
	Build     func(env *model.Environment, cfg model.BuildContext) error

	// InitName overrides the name Init assigns; leave empty to use Name.
	// Set SkipName to make Init return without setting any name, which
	// the loader must reject.
	InitName string
	SkipName bool
}

// Source is an in-memory model.Source describing one repository.
type Source struct {
	RepoName string
	BasePath string
	Options  []OptionSpec
	Modules  []ModuleSpec

	// OmitPrepare simulates a definition unit with no prepare entry point.
	OmitPrepare bool
	// SkipRepoName simulates a prepare callback that never sets a name.
	SkipRepoName bool
	// ModuleErr, when set, makes every module loading unit fail with it.
	ModuleErr error
}

// NewSource creates a fake source for a repository with the given options
// and modules. Module loading-unit paths are derived as "<name>/module".
func NewSource(repoName string, options []OptionSpec, modules []ModuleSpec) *Source {
	return &Source{
		RepoName: repoName,
		BasePath: "/repos/" + repoName,
		Options:  options,
		Modules:  modules,
	}
}

// Repository implements model.Source.
func (s *Source) Repository() (model.RepositoryDef, error) {
	if s.OmitPrepare {
		return nil, model.Errf(model.ErrMissingPrepare,
			"no prepare entry point in repository definition %q", s.BasePath)
	}
	return &repoDef{src: s}, nil
}

// Module implements model.Source.
func (s *Source) Module(path string) (model.ModuleDef, error) {
	if s.ModuleErr != nil {
		return nil, s.ModuleErr
	}
	for i := range s.Modules {
		if modulePath(s.Modules[i].Name) == path {
			return &moduleDef{spec: &s.Modules[i]}, nil
		}
	}
	return nil, model.Errf(model.ErrUnitLoad, "no module definition at %q", path)
}

func modulePath(name string) string {
	return name + "/module"
}

type repoDef struct {
	src *Source
}

func (d *repoDef) Prepare(r *model.Repository) error {
	if !d.src.SkipRepoName {
		r.SetName(d.src.RepoName)
	}
	for _, opt := range d.src.Options {
		var err error
		if opt.HasDef {
			err = r.AddOptionDefault(opt.Name, opt.Default)
		} else {
			err = r.AddOption(opt.Name)
		}
		if err != nil {
			return err
		}
	}
	for _, m := range d.src.Modules {
		r.AddModule(modulePath(m.Name))
	}
	return nil
}

type moduleDef struct {
	spec *ModuleSpec
}

func (d *moduleDef) Init(m *model.Module) error {
	switch {
	case d.spec.SkipName:
	case d.spec.InitName != "":
		m.SetName(d.spec.InitName)
	default:
		m.SetName(d.spec.Name)
	}
	for _, dep := range d.spec.Deps {
		m.AddDependency(dep)
	}
	return nil
}

func (d *moduleDef) Prepare(m *model.Module, opts *model.OptionView) (bool, error) {
	if d.spec.Available == nil {
		return true, nil
	}
	return d.spec.Available(opts)
}

func (d *moduleDef) Build(env *model.Environment, cfg model.BuildContext) error {
	if d.spec.Build == nil {
		return nil
	}
	return d.spec.Build(env, cfg)
}
