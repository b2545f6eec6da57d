package model

// Module is a named unit of generation owned by exactly one repository.
// Its identity (name and dependency list) is fixed by running its Init
// callback exactly once; the pipeline rejects a module whose Init did not
// set a name.
type Module struct {
	name string
	repo string // owning repository name (non-owning back-reference)
	path string // loading-unit path, relative to the repository base
	deps []string
	def  ModuleDef
}

// NewModule creates a module bound to its owning repository and
// loading-unit path. The name is unset until Init runs.
func NewModule(repo, path string, def ModuleDef) *Module {
	return &Module{repo: repo, path: path, def: def}
}

// Name returns the module name, or "" if Init has not set one.
func (m *Module) Name() string { return m.name }

// SetName assigns the module name. Called by the Init callback.
func (m *Module) SetName(name string) { m.name = name }

// Repository returns the name of the owning repository.
func (m *Module) Repository() string { return m.repo }

// Path returns the loading-unit path the module was loaded from.
func (m *Module) Path() string { return m.path }

// QualifiedName returns the "repository:module" form.
func (m *Module) QualifiedName() string { return QualifiedName(m.repo, m.name) }

// AddDependency appends a qualified module name to the dependency list.
// Called by the Init callback.
func (m *Module) AddDependency(qname string) { m.deps = append(m.deps, qname) }

// Dependencies returns the declared dependency list in declaration order.
func (m *Module) Dependencies() []string { return m.deps }

// Def returns the module's callback handles.
func (m *Module) Def() ModuleDef { return m.def }
