package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results for a dataset file.
type ValidationResult struct {
	Valid   bool `json:"valid"`
	Teams   int  `json:"teams"`
	Members int  `json:"members"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <dataset.yaml>",
		Short: "Validate a dataset file without running queries",
		Long: `Validate a YAML dataset file against the dataset schema.

Checks structure, field types, and that every member's team reference
names a team defined in the file.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ds, err := LoadDataset(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	formatter.VerboseLog("Loaded %d team(s), %d member(s) from %s", len(ds.Teams), len(ds.Members), path)

	// Building the session exercises the referential checks the schema
	// cannot express (team name resolution, persist ordering).
	if _, err := BuildSession(ds); err != nil {
		return outputLoadError(formatter, err)
	}

	result := ValidationResult{Valid: true, Teams: len(ds.Teams), Members: len(ds.Members)}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "dataset valid: %d team(s), %d member(s)\n", result.Teams, result.Members)
	return nil
}

// outputLoadError reports a load failure and maps it to an exit code:
// missing files are command errors, schema violations are failures.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		code := ExitFailure
		if loadErr.Code == ErrCodeNotFound || loadErr.Code == ErrCodeReadFailed {
			code = ExitCommandError
		}
		return NewExitError(code, loadErr.Message)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return NewExitError(ExitFailure, err.Error())
}
