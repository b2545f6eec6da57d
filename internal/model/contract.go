package model

// The definition-unit contract. Repository and module authors supply
// values implementing these interfaces; the loader constructs objects
// against this contract instead of executing arbitrary code in a shared
// namespace.

// RepositoryDef is implemented by a repository definition unit. Prepare
// must set the repository's name, declare its options, and register its
// module loading-unit paths. It must not load modules or touch generation.
type RepositoryDef interface {
	Prepare(r *Repository) error
}

// ModuleDef is implemented by a module definition unit. The three
// callbacks are required and are invoked by the pipeline in this order:
//
//   - Init fixes the module's identity: it must set the name and may
//     declare dependencies (qualified names). It must not read options or
//     perform generation work.
//   - Prepare is a pure availability predicate over the resolved options
//     of the owning repository. It may read but must not mutate options,
//     and must not perform generation side effects.
//   - Build performs generation. It runs once per selected module, after
//     resolution completes, and never before the whole pipeline succeeds.
type ModuleDef interface {
	Init(m *Module) error
	Prepare(m *Module, opts *OptionView) (bool, error)
	Build(env *Environment, cfg BuildContext) error
}

// Source maps a repository definition unit and its module loading-unit
// paths to contract values. Implementations include the Lua-backed source
// (definition units authored as scripts) and in-memory sources for tests.
type Source interface {
	// Repository returns the repository definition. It fails with a
	// structural error if the unit exposes no prepare entry point.
	Repository() (RepositoryDef, error)

	// Module returns the definition for the unit at the given
	// loading-unit path. It fails with a structural error if any of the
	// three required callbacks is missing.
	Module(path string) (ModuleDef, error)
}

// BuildContext is the project configuration handed to Build callbacks.
// The core treats it as opaque; generation code reads the output path and
// resolved option values from it.
type BuildContext interface {
	// OutPath returns the output path the library is generated into.
	OutPath() string

	// Option returns the resolved value of a fully qualified option name.
	Option(qname string) (string, bool)
}
