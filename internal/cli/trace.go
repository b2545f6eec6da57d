package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/libforge/libforge/internal/store"
)

// NewTraceCommand creates the trace command group for inspecting the
// resolution trace log.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect recorded resolution runs",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "trace.db",
		"trace database path")

	list := &cobra.Command{
		Use:           "list",
		Short:         "List recorded runs, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceList(rootOpts, dbPath, cmd)
		},
	}
	list.Flags().Int("limit", 20, "maximum runs to list (0 for all)")

	show := &cobra.Command{
		Use:           "show <run-id>",
		Short:         "Show one recorded run in full",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceShow(rootOpts, dbPath, args[0], cmd)
		},
	}

	cmd.AddCommand(list)
	cmd.AddCommand(show)
	return cmd
}

func runTraceList(opts *RootOptions, dbPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	s, err := store.Open(dbPath)
	if err != nil {
		return NewExitError(ExitCommandError, err.Error())
	}
	defer s.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := s.ListRuns(cmd.Context(), limit)
	if err != nil {
		return formatter.Fail(err)
	}

	if opts.Format == "json" {
		return formatter.Success(runs)
	}
	for _, run := range runs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  %d modules\n",
			run.ID, run.CreatedAt.Format(time.RFC3339), run.Project, run.Modules)
	}
	return nil
}

func runTraceShow(opts *RootOptions, dbPath, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	s, err := store.Open(dbPath)
	if err != nil {
		return NewExitError(ExitCommandError, err.Error())
	}
	defer s.Close()

	run, err := s.GetRun(cmd.Context(), id)
	if err != nil {
		return formatter.Fail(err)
	}

	if opts.Format == "json" {
		return formatter.Success(run)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s\n", run.ID)
	fmt.Fprintf(out, "  project: %s\n", run.Project)
	fmt.Fprintf(out, "  outpath: %s\n", run.OutPath)
	fmt.Fprintf(out, "  created: %s\n", run.CreatedAt.Format(time.RFC3339))
	fmt.Fprintln(out, "  repositories:")
	for _, repo := range run.Repositories {
		fmt.Fprintf(out, "    %s (%s, %d modules)\n", repo.Name, repo.Path, repo.Modules)
	}
	fmt.Fprintln(out, "  options:")
	for _, opt := range run.Options {
		fmt.Fprintf(out, "    %s = %s\n", opt.Name, opt.Value)
	}
	fmt.Fprintln(out, "  modules:")
	for _, mod := range run.Modules {
		marker := " "
		if mod.Requested {
			marker = "*"
		}
		fmt.Fprintf(out, "    %s %s\n", marker, mod.Name)
	}
	return nil
}
