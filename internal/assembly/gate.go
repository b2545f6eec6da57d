package assembly

import (
	"log/slog"

	"github.com/libforge/libforge/internal/model"
)

// GateModules decides, per module, whether it is usable given the resolved
// options of its owning repository, and publishes usable modules into the
// Environment.
//
// Gating proceeds in a stable order (repositories in load order, modules
// in registration order within each) so the environment contents are
// reproducible run to run. Each module's Prepare receives an option view
// scoped to its owning repository with cross-repository read access.
//
// A qualified-name collision in the environment is a fatal identity error.
func (a *Assembler) GateModules() error {
	for _, repo := range a.repositories {
		view := model.NewOptionView(repo.Name(), a.resolved)
		for _, path := range repo.ModulePaths() {
			m := repo.Module(path)

			available, err := m.Def().Prepare(m, view)
			if err != nil {
				return model.WrapErr(model.ErrUnitLoad,
					"prepare of module "+m.QualifiedName()+" failed", err)
			}
			if !available {
				slog.Debug("module gated out", "module", m.QualifiedName())
				continue
			}
			if err := a.env.Register(m); err != nil {
				return err
			}
			slog.Debug("module available", "module", m.QualifiedName())
		}
	}
	return nil
}
