package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nan-1212/abipy/internal/fixture"
	"github.com/nan-1212/abipy/internal/schema"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                     `json:"valid"`
	Errors   []schema.ValidationError `json:"errors,omitempty"`
	Identity *fixture.Identity        `json:"identity,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Validate a serialized AbinitInput document",
		Long: `Validate a serialized AbinitInput document.

Checks the document against the embedded CUE schema, decodes it and runs the
semantic checks: Cartesian coordinates consistent with the lattice, site
occupancies, lattice metrics, one pseudopotential per element and no
structure variables in the variable list.

Exit codes:
  0 - Document valid
  1 - Document invalid
  2 - Command error (file not found, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(newFormatter(rootOpts, cmd), args[0])
		},
	}

	return cmd
}

func runValidate(f *OutputFormatter, path string) error {
	data, err := readDocument(f, path)
	if err != nil {
		return err
	}

	doc, errs, err := decodeDocument(data)
	if err != nil {
		return f.fail(ErrCodeGeneric, "failed to decode document", err)
	}
	if doc != nil {
		f.VerboseLog("Decoded %s: %s, %d variable(s)", path, doc.Input.Structure.Formula(), doc.Input.Len())
		errs = fixture.Validate(doc)
	}
	if len(errs) > 0 {
		return outputValidationErrors(f, errs)
	}

	id, err := fixture.Identify(doc)
	if err != nil {
		return f.fail(ErrCodeGeneric, "failed to hash document", err)
	}

	if f.Format == "json" {
		return f.Success(ValidationResult{Valid: true, Identity: &id})
	}
	fmt.Fprintf(f.Writer, "\u2713 %s valid (%s)\n", path, doc.Input.Structure.ReducedFormula())
	return nil
}

// outputValidationErrors outputs validation errors and returns an
// ExitFailure error.
func outputValidationErrors(f *OutputFormatter, errs []schema.ValidationError) error {
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if f.Format == "json" {
		if err := f.Failure(errs[0].Code, errs[0].Message, ValidationResult{Valid: false, Errors: errs}); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(f.Writer, "\u2717 Validation failed")
	fmt.Fprintln(f.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(f.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(f.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}
	return exitErr
}
