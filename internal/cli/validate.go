package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/libforge/libforge/internal/assembly"
	"github.com/libforge/libforge/internal/luadef"
	"github.com/libforge/libforge/internal/model"
	"github.com/libforge/libforge/internal/project"
)

// ValidationIssue is one problem found while validating a project.
type ValidationIssue struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// ValidationReport is the JSON payload of a validate run.
type ValidationReport struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationIssue `json:"errors,omitempty"`
	Warnings []string          `json:"warnings,omitempty"` // dependency cycles
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	pipeline := &pipelineOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the project request without building anything",
		Long: `Validate runs the resolution pipeline and reports configuration
errors: malformed documents, unknown or unset options, and unresolvable
module requests. Dependency cycles among available modules are reported
as warnings, since resolution tolerates them.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateProject(rootOpts, pipeline, cmd)
		},
	}

	addPipelineFlags(cmd, pipeline)
	return cmd
}

func runValidateProject(opts *RootOptions, pipeline *pipelineOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	report := validateProject(pipeline)

	if opts.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else {
		printReport(cmd, report)
	}

	if !report.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

// validateProject runs the pipeline stage by stage and collects what it
// can. Loading and merging are fail-fast; after a successful gate stage,
// every requested module is checked so one bad request does not hide the
// next.
func validateProject(pipeline *pipelineOptions) *ValidationReport {
	report := &ValidationReport{Valid: true}
	fail := func(err error) *ValidationReport {
		report.Valid = false
		report.Errors = append(report.Errors, ValidationIssue{
			Code:    model.ErrorCode(err),
			Message: err.Error(),
		})
		return report
	}

	doc, err := project.Load(pipeline.Project)
	if err != nil {
		return fail(err)
	}

	asm := assembly.New()
	dirs := append(append([]string{}, pipeline.Repositories...), doc.Repositories...)
	for _, dir := range dirs {
		src := luadef.NewSource(dir)
		defer src.Close()
		if _, err := asm.LoadRepository(src, dir); err != nil {
			return fail(err)
		}
	}

	if err := asm.MergeOptions(doc.Overrides); err != nil {
		return fail(err)
	}
	if err := asm.GateModules(); err != nil {
		return fail(err)
	}

	for _, name := range doc.Modules {
		if _, err := asm.ResolveDependencies([]string{name}); err != nil {
			report.Valid = false
			report.Errors = append(report.Errors, ValidationIssue{
				Code:    model.ErrorCode(err),
				Message: err.Error(),
			})
		}
	}

	for _, warning := range asm.AnalyzeCycles() {
		report.Warnings = append(report.Warnings, warning.Message)
	}
	return report
}

func printReport(cmd *cobra.Command, report *ValidationReport) {
	out := cmd.OutOrStdout()
	for _, issue := range report.Errors {
		if issue.Code != "" {
			fmt.Fprintf(out, "error [%s]: %s\n", issue.Code, issue.Message)
		} else {
			fmt.Fprintf(out, "error: %s\n", issue.Message)
		}
	}
	for _, warning := range report.Warnings {
		fmt.Fprintf(out, "warning: %s\n", warning)
	}
	if report.Valid {
		fmt.Fprintln(out, "project is valid")
	}
}
