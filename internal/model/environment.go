package model

// Environment is the registry of modules that passed availability gating,
// keyed by qualified name. It is populated exactly once during the gating
// stage and read-only afterward, and it is the sole source of truth for
// dependency resolution.
//
// An Environment is an ordinary value owned by its assembler; separate
// assembly runs use separate environments and never interfere.
type Environment struct {
	names   []string // registration order
	modules map[string]*Module
}

// NewEnvironment creates an empty environment.
func NewEnvironment() *Environment {
	return &Environment{modules: make(map[string]*Module)}
}

// Register adds a gated module under its qualified name. A second module
// under the same qualified name is an identity error rather than a silent
// replacement.
func (e *Environment) Register(m *Module) error {
	qname := m.QualifiedName()
	if _, ok := e.modules[qname]; ok {
		return Errf(ErrDuplicateModule,
			"module %q already registered in the environment", qname)
	}
	e.modules[qname] = m
	e.names = append(e.names, qname)
	return nil
}

// Lookup resolves a qualified name to a module. A name with no entry fails
// with a resolution error: the module was never loaded, or was gated out
// as unavailable.
func (e *Environment) Lookup(qname string) (*Module, error) {
	m, ok := e.modules[qname]
	if !ok {
		return nil, Errf(ErrUnknownModule,
			"module %q not available: never loaded, or unavailable under the resolved options", qname)
	}
	return m, nil
}

// Names returns the qualified names of all registered modules in
// registration order.
func (e *Environment) Names() []string { return e.names }

// Len returns the number of registered modules.
func (e *Environment) Len() int { return len(e.modules) }
