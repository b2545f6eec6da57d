package model

// Repository is a named collection of modules and options loaded from a
// single definition unit. Modules are registered by loading-unit path
// during prepare and filled in one by one as they are loaded; the
// repository is immutable once the pipeline moves past the loading stage,
// except that its options are assigned values during the merge stage.
type Repository struct {
	name     string
	basePath string

	modulePaths []string           // registration order
	modules     map[string]*Module // loading-unit path -> module (nil until loaded)

	optionNames []string // declaration order
	options     map[string]*Option
}

// NewRepository creates an empty repository bound to the definition unit's
// directory. The name must be set by the definition's prepare callback
// before the repository is registered.
func NewRepository(basePath string) *Repository {
	return &Repository{
		basePath: basePath,
		modules:  make(map[string]*Module),
		options:  make(map[string]*Option),
	}
}

// Name returns the repository name, or "" if prepare has not set one.
func (r *Repository) Name() string { return r.name }

// SetName assigns the repository name. Called by the prepare callback,
// which may declare options before or after naming the repository; options
// already declared pick up the new owner.
func (r *Repository) SetName(name string) {
	r.name = name
	for _, opt := range r.options {
		opt.repo = name
	}
}

// BasePath returns the directory the repository was loaded from.
func (r *Repository) BasePath() string { return r.basePath }

// AddModule registers a module loading-unit path. The module itself is not
// loaded yet; registering the same path twice is a no-op.
func (r *Repository) AddModule(path string) {
	if _, ok := r.modules[path]; ok {
		return
	}
	r.modules[path] = nil
	r.modulePaths = append(r.modulePaths, path)
}

// AddOption declares an option with no value. Declaring the same option
// name twice is an identity error.
func (r *Repository) AddOption(name string) error {
	return r.addOption(name, nil)
}

// AddOptionDefault declares an option with a default value.
func (r *Repository) AddOptionDefault(name, value string) error {
	return r.addOption(name, &value)
}

func (r *Repository) addOption(name string, def *string) error {
	if _, ok := r.options[name]; ok {
		return Errf(ErrDuplicateOption,
			"option %q already declared in repository %q", name, r.name)
	}
	opt := &Option{name: name, repo: r.name}
	if def != nil {
		opt.SetValue(*def)
	}
	r.options[name] = opt
	r.optionNames = append(r.optionNames, name)
	return nil
}

// ModulePaths returns the registered loading-unit paths in registration
// order.
func (r *Repository) ModulePaths() []string { return r.modulePaths }

// Module returns the module loaded from the given path, or nil if the path
// is unregistered or the module is not yet loaded.
func (r *Repository) Module(path string) *Module { return r.modules[path] }

// SetModule stores a loaded module under its loading-unit path, replacing
// the not-yet-loaded placeholder.
func (r *Repository) SetModule(path string, m *Module) { r.modules[path] = m }

// Modules returns the loaded modules in registration order, skipping any
// still-unloaded placeholders.
func (r *Repository) Modules() []*Module {
	out := make([]*Module, 0, len(r.modulePaths))
	for _, p := range r.modulePaths {
		if m := r.modules[p]; m != nil {
			out = append(out, m)
		}
	}
	return out
}

// OptionNames returns the declared option names in declaration order.
func (r *Repository) OptionNames() []string { return r.optionNames }

// Option returns the declared option with the given bare name, or nil.
func (r *Repository) Option(name string) *Option { return r.options[name] }
