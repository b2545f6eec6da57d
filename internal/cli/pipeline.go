package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/libforge/libforge/internal/assembly"
	"github.com/libforge/libforge/internal/luadef"
	"github.com/libforge/libforge/internal/model"
	"github.com/libforge/libforge/internal/project"
	"github.com/libforge/libforge/internal/store"
)

// pipelineOptions holds the flags shared by resolve, build, and validate.
type pipelineOptions struct {
	Repositories []string // -r, repeatable; joined with the document's list
	Project      string   // -p
	TraceDB      string   // optional trace log database
}

func addPipelineFlags(cmd *cobra.Command, p *pipelineOptions) {
	cmd.Flags().StringArrayVarP(&p.Repositories, "repository", "r", nil,
		"repository directory containing repo.lua (repeatable)")
	cmd.Flags().StringVarP(&p.Project, "project", "p", "",
		"project request document")
	cmd.Flags().StringVar(&p.TraceDB, "trace-db", "",
		"record the run to this SQLite trace database")
	_ = cmd.MarkFlagRequired("project")
}

// pipelineResult carries the loaded state of a successful pipeline run.
// Close must be called once the definition units are no longer needed;
// build callbacks require them to stay open.
type pipelineResult struct {
	doc      *project.Document
	asm      *assembly.Assembler
	selected []*model.Module
	sources  []*luadef.Source
}

func (r *pipelineResult) Close() {
	for _, s := range r.sources {
		s.Close()
	}
}

func (r *pipelineResult) selectedNames() []string {
	names := make([]string, len(r.selected))
	for i, m := range r.selected {
		names[i] = m.QualifiedName()
	}
	return names
}

// runPipeline drives the full resolution pipeline: project document, all
// repositories from flags and document, option merge, gating, and
// dependency resolution. The first failing stage aborts the run.
func runPipeline(p *pipelineOptions) (*pipelineResult, error) {
	doc, err := project.Load(p.Project)
	if err != nil {
		return nil, err
	}

	res := &pipelineResult{doc: doc, asm: assembly.New()}
	dirs := append(append([]string{}, p.Repositories...), doc.Repositories...)
	for _, dir := range dirs {
		src := luadef.NewSource(dir)
		res.sources = append(res.sources, src)
		if _, err := res.asm.LoadRepository(src, dir); err != nil {
			res.Close()
			return nil, err
		}
	}

	if err := res.asm.MergeOptions(doc.Overrides); err != nil {
		res.Close()
		return nil, err
	}
	if err := res.asm.GateModules(); err != nil {
		res.Close()
		return nil, err
	}

	res.selected, err = res.asm.ResolveDependencies(doc.Modules)
	if err != nil {
		res.Close()
		return nil, err
	}
	return res, nil
}

// recordRun writes the run to the trace database when one is configured.
// Trace logging is best effort: a failed write is logged, never fatal.
func recordRun(p *pipelineOptions, res *pipelineResult, outPath string) {
	if p.TraceDB == "" {
		return
	}

	s, err := store.Open(p.TraceDB)
	if err != nil {
		slog.Warn("trace database unavailable", "path", p.TraceDB, "error", err)
		return
	}
	defer s.Close()

	requested := make(map[string]bool, len(res.doc.Modules))
	for _, name := range res.doc.Modules {
		requested[name] = true
	}

	run := store.Run{Project: p.Project, OutPath: outPath}
	for _, repo := range res.asm.Repositories() {
		run.Repositories = append(run.Repositories, store.RepositoryRecord{
			Name:    repo.Name(),
			Path:    repo.BasePath(),
			Modules: len(repo.Modules()),
		})
	}
	for name, value := range res.asm.ResolvedOptions() {
		run.Options = append(run.Options, store.OptionRecord{Name: name, Value: value})
	}
	for _, m := range res.selected {
		run.Modules = append(run.Modules, store.ModuleRecord{
			Name:      m.QualifiedName(),
			Requested: requested[m.QualifiedName()],
		})
	}

	id, err := s.WriteRun(context.Background(), run)
	if err != nil {
		slog.Warn("recording run failed", "error", err)
		return
	}
	slog.Info("run recorded", "run_id", id)
}
