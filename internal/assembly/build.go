package assembly

import (
	"log/slog"

	"github.com/libforge/libforge/internal/model"
)

// BuildConfig is the concrete BuildContext handed to Build callbacks: the
// output path plus read access to the fully resolved option set.
type BuildConfig struct {
	outPath string
	options map[string]string
}

// NewBuildConfig creates a build context over the resolved options.
func NewBuildConfig(outPath string, options map[string]string) *BuildConfig {
	return &BuildConfig{outPath: outPath, options: options}
}

// OutPath implements model.BuildContext.
func (c *BuildConfig) OutPath() string { return c.outPath }

// Option implements model.BuildContext.
func (c *BuildConfig) Option(qname string) (string, bool) {
	v, ok := c.options[qname]
	return v, ok
}

// BuildModules invokes every selected module's Build callback with the
// environment and the project configuration. Modules are built in
// topological order so a module's dependencies are generated before it; a
// dependency cycle is fatal here. The first Build failure aborts the run.
// The order the modules were built in is returned.
func (a *Assembler) BuildModules(selected []*model.Module, cfg model.BuildContext) ([]*model.Module, error) {
	ordered, err := BuildOrder(selected)
	if err != nil {
		return nil, err
	}
	for _, m := range ordered {
		slog.Info("building module", "module", m.QualifiedName())
		if err := m.Def().Build(a.env, cfg); err != nil {
			return nil, model.WrapErr(model.ErrUnitLoad,
				"build of module "+m.QualifiedName()+" failed", err)
		}
	}
	return ordered, nil
}
