package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nan-1212/abipy/internal/fixture"
)

// NewRoundTripCommand creates the roundtrip command.
func NewRoundTripCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roundtrip <document>",
		Short: "Check that a document survives decode and encode",
		Long: `Decode a document, encode it again and compare the canonical JSON of
both. Number spellings (6 vs 6.0) and key order are not differences.

Exit codes:
  0 - Equivalent
  1 - Document differs after the round trip, or does not decode
  2 - Command error`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoundTrip(newFormatter(rootOpts, cmd), args[0])
		},
	}

	return cmd
}

func runRoundTrip(f *OutputFormatter, path string) error {
	// Decode first so schema problems are reported as validation errors.
	_, data, err := loadDocument(f, path)
	if err != nil {
		return err
	}

	report, err := fixture.RoundTrip(data)
	if err != nil {
		return f.fail(ErrCodeGeneric, "round trip failed", err)
	}

	if !report.Equivalent {
		if f.Format == "json" {
			if err := f.Failure(ErrCodeRoundTrip, "document differs after round trip", report); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(f.Writer, "\u2717 Document differs after round trip (-original +re-encoded)")
			fmt.Fprintln(f.Writer)
			fmt.Fprint(f.Writer, report.Diff)
		}
		return NewExitError(ExitFailure, "document differs after round trip")
	}

	if f.Format == "json" {
		return f.Success(report)
	}
	fmt.Fprintf(f.Writer, "\u2713 Round trip equivalent (%s)\n", report.OriginalID)
	return nil
}
