package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/libforge/libforge/internal/assembly"
)

// BuildResult is the JSON payload of a successful build.
type BuildResult struct {
	Modules []string `json:"modules"` // build order
	OutPath string   `json:"outpath"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	pipeline := &pipelineOptions{}
	var outPath string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Resolve the project request and build the selected modules",
		Long: `Build resolves the project request, orders the selection so every
module follows its dependencies, and invokes each module's build callback
with the environment and the project configuration.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(rootOpts, pipeline, outPath, cmd)
		},
	}

	addPipelineFlags(cmd, pipeline)
	cmd.Flags().StringVarP(&outPath, "outpath", "o", "",
		"output directory for generated files (overrides the project document)")
	return cmd
}

func runBuild(opts *RootOptions, pipeline *pipelineOptions, outPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	res, err := runPipeline(pipeline)
	if err != nil {
		return formatter.Fail(err)
	}
	defer res.Close()

	// Flag wins over document; default is the working directory.
	if outPath == "" {
		outPath = res.doc.OutPath
	}
	if outPath == "" {
		outPath = "."
	}
	if err := os.MkdirAll(outPath, 0o755); err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("creating output directory %s: %v", outPath, err))
	}

	cfg := assembly.NewBuildConfig(outPath, res.asm.ResolvedOptions())
	ordered, err := res.asm.BuildModules(res.selected, cfg)
	if err != nil {
		return formatter.Fail(err)
	}

	recordRun(pipeline, res, outPath)

	names := make([]string, len(ordered))
	for i, m := range ordered {
		names[i] = m.QualifiedName()
	}
	if opts.Format == "json" {
		return formatter.Success(BuildResult{Modules: names, OutPath: outPath})
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), "built", name)
	}
	return nil
}
