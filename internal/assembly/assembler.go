package assembly

import (
	"log/slog"

	"github.com/libforge/libforge/internal/model"
)

// Assembler drives the resolution pipeline. It owns the loaded
// repositories, the module index built during loading, and the Environment
// populated during gating. A fresh Assembler is created per run; separate
// runs never share state.
type Assembler struct {
	repositories []*model.Repository // load order
	byName       map[string]*model.Repository
	moduleIndex  map[string]*model.Module // qualified name -> module
	env          *model.Environment
	resolved     map[string]string // qualified option name -> value
}

// New creates an empty assembler.
func New() *Assembler {
	return &Assembler{
		byName:      make(map[string]*model.Repository),
		moduleIndex: make(map[string]*model.Module),
		env:         model.NewEnvironment(),
	}
}

// Repositories returns the loaded repositories in load order.
func (a *Assembler) Repositories() []*model.Repository {
	return a.repositories
}

// Environment returns the environment of gated modules. It is empty until
// GateModules has run.
func (a *Assembler) Environment() *model.Environment {
	return a.env
}

// ResolvedOptions returns the fully resolved option set as a qualified
// name to value mapping. It is nil until MergeOptions has run.
func (a *Assembler) ResolvedOptions() map[string]string {
	return a.resolved
}

// LoadRepository loads one repository from its definition source: it
// invokes the definition's prepare callback, then loads every registered
// module and indexes it under its qualified name.
//
// It fails with a configuration error if the definition exposes no prepare
// entry point, if prepare completes without setting a name, if the name
// collides with an already-loaded repository, or if any module fails to
// load.
func (a *Assembler) LoadRepository(src model.Source, basePath string) (*model.Repository, error) {
	repo := model.NewRepository(basePath)

	def, err := src.Repository()
	if err != nil {
		return nil, wrapUnitErr(basePath, err)
	}
	if err := def.Prepare(repo); err != nil {
		return nil, wrapUnitErr(basePath, err)
	}
	if repo.Name() == "" {
		return nil, model.Errf(model.ErrRepoNameUnset,
			"prepare in repository definition %q completed without setting a name", basePath)
	}
	if _, exists := a.byName[repo.Name()]; exists {
		return nil, model.Errf(model.ErrDuplicateRepo,
			"repository name %q is ambiguous: already loaded, names must be unique", repo.Name())
	}

	// Load every module still marked as not yet loaded, and index it.
	for _, path := range repo.ModulePaths() {
		if repo.Module(path) != nil {
			continue
		}
		m, err := loadModule(src, repo, path)
		if err != nil {
			return nil, err
		}
		repo.SetModule(path, m)

		qname := m.QualifiedName()
		if _, exists := a.moduleIndex[qname]; exists {
			return nil, model.Errf(model.ErrDuplicateModule,
				"module name %q is ambiguous: already registered from another loading unit", qname)
		}
		a.moduleIndex[qname] = m
		slog.Info("found module", "module", qname, "path", path)
	}

	a.byName[repo.Name()] = repo
	a.repositories = append(a.repositories, repo)
	slog.Info("loaded repository", "repository", repo.Name(), "modules", len(repo.Modules()))
	return repo, nil
}

// loadModule constructs a module from its loading unit and fixes its
// identity by invoking Init exactly once.
func loadModule(src model.Source, repo *model.Repository, path string) (*model.Module, error) {
	slog.Debug("loading module definition", "path", path)

	def, err := src.Module(path)
	if err != nil {
		return nil, wrapUnitErr(path, err)
	}

	m := model.NewModule(repo.Name(), path, def)
	if err := def.Init(m); err != nil {
		return nil, wrapUnitErr(path, err)
	}
	if m.Name() == "" {
		return nil, model.Errf(model.ErrModuleNameUnset,
			"init in module definition %q completed without setting a name", path)
	}
	return m, nil
}

// wrapUnitErr adds loading-unit context to an underlying error.
// ConfigErrors already carry their code and context and pass through.
func wrapUnitErr(path string, err error) error {
	if model.IsConfigError(err) {
		return err
	}
	return model.WrapErr(model.ErrUnitLoad, "invalid definition unit "+path, err)
}
