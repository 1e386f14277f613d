package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nan-1212/abipy/internal/fixture"
	"github.com/nan-1212/abipy/internal/format"
	"github.com/nan-1212/abipy/internal/pseudo"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	PseudoDir string
}

// PseudoCheck is the verification outcome of one pseudopotential.
type PseudoCheck struct {
	Basename string `json:"basename"`
	Path     string `json:"path"`
	Recorded string `json:"md5"`
	Actual   string `json:"actual,omitempty"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <document>",
		Short: "Verify pseudopotential checksums",
		Long: `Compute the MD5 of every pseudopotential file referenced by a document and
compare it with the recorded checksum.

By default the recorded file paths are used. With --pseudo-dir, files are
looked up by basename in that directory instead.

Exit codes:
  0 - All checksums match
  1 - A checksum differs or a file is missing
  2 - Command error`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.PseudoDir, "pseudo-dir", "", "directory holding the pseudopotential files")

	return cmd
}

func runVerify(opts *VerifyOptions, cmd *cobra.Command, path string) error {
	f := newFormatter(opts.RootOptions, cmd)
	doc, _, err := loadDocument(f, path)
	if err != nil {
		return err
	}

	results, err := fixture.VerifyPseudos(cmd.Context(), doc, opts.PseudoDir)
	if err != nil {
		return f.fail(ErrCodeGeneric, "verification interrupted", err)
	}

	checks := make([]PseudoCheck, len(results))
	failed := 0
	for i, r := range results {
		checks[i] = PseudoCheck{
			Basename: r.Pseudo.Basename,
			Path:     r.Path,
			Recorded: r.Pseudo.MD5,
			Actual:   r.Actual,
			OK:       r.OK(),
		}
		if !r.OK() {
			failed++
			checks[i].Error = verifyErrorText(r.Err)
		}
	}

	if failed > 0 {
		msg := fmt.Sprintf("%d of %d pseudopotential(s) failed verification", failed, len(checks))
		if f.Format == "json" {
			if err := f.Failure(ErrCodeChecksum, msg, checks); err != nil {
				return err
			}
		} else {
			fmt.Fprint(f.Writer, pseudoTable(checks))
			fmt.Fprintf(f.Writer, "\u2717 %s\n", msg)
		}
		return NewExitError(ExitFailure, msg)
	}

	if f.Format == "json" {
		return f.Success(checks)
	}
	fmt.Fprint(f.Writer, pseudoTable(checks))
	fmt.Fprintf(f.Writer, "\u2713 %d pseudopotential(s) verified\n", len(checks))
	return nil
}

func verifyErrorText(err error) string {
	var ce *pseudo.ChecksumError
	if errors.As(err, &ce) {
		return "md5 mismatch"
	}
	return err.Error()
}

func pseudoTable(checks []PseudoCheck) string {
	t := format.NewTable(format.ASCII)
	t.Header("pseudo", "md5", "status")
	for _, c := range checks {
		status := "ok"
		if !c.OK {
			status = c.Error
		}
		t.Row(c.Basename, c.Recorded, status)
	}
	return t.String() + "\n"
}
