package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ResolveResult is the JSON payload of a successful resolve.
type ResolveResult struct {
	Modules []string          `json:"modules"` // selection in resolution order
	Options map[string]string `json:"options"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	pipeline := &pipelineOptions{}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the project request to its module selection",
		Long: `Resolve loads the repositories, merges option overrides, gates modules
on the resolved options, and expands the requested modules into their full
dependency closure. Nothing is built.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(rootOpts, pipeline, cmd)
		},
	}

	addPipelineFlags(cmd, pipeline)
	return cmd
}

func runResolve(opts *RootOptions, pipeline *pipelineOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	res, err := runPipeline(pipeline)
	if err != nil {
		return formatter.Fail(err)
	}
	defer res.Close()

	recordRun(pipeline, res, res.doc.OutPath)

	if opts.Format == "json" {
		return formatter.Success(ResolveResult{
			Modules: res.selectedNames(),
			Options: res.asm.ResolvedOptions(),
		})
	}

	for _, name := range res.selectedNames() {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
