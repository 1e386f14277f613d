package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nan-1212/abipy/internal/abinput"
	"github.com/nan-1212/abipy/internal/fixture"
	"github.com/nan-1212/abipy/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	Filter    string // case filter (glob pattern)
	GoldenDir string // defaults to <cases-dir>/../golden
}

// CaseResult holds the result of a single case.
type CaseResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Codes  []string `json:"codes,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Cases  []CaseResult `json:"cases"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Total  int          `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <cases-dir>",
		Short: "Run conformance cases",
		Long: `Run the conformance cases in a directory.

Each case names a document and the expectations to check: validity and
error codes, round trip, structure facts, tags, pseudopotential checksums
and, with a golden name, the rendered ABINIT input.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (invalid paths, unreadable case file, etc.)

Examples:
  abipy test ./testdata/cases
  abipy test ./testdata/cases --filter "alas_*"
  abipy test ./testdata/cases --update
  abipy test ./testdata/cases --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter cases by glob pattern on the case name")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden-dir", "", "directory of golden renderings (default <cases-dir>/../golden)")

	return cmd
}

func runTests(opts *TestOptions, casesDir string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	if _, err := os.Stat(casesDir); errors.Is(err, os.ErrNotExist) {
		return f.fail(ErrCodeNotFound, fmt.Sprintf("cases directory not found: %s", casesDir), nil)
	}
	if opts.Filter != "" {
		if _, err := filepath.Match(opts.Filter, ""); err != nil {
			return f.fail(ErrCodeGeneric, "invalid filter pattern", err)
		}
	}

	all, err := harness.LoadCases(casesDir)
	if err != nil {
		return f.fail(ErrCodeGeneric, "failed to load cases", err)
	}
	cases := filterCases(all, opts.Filter)

	goldenDir := opts.GoldenDir
	if goldenDir == "" {
		goldenDir = filepath.Join(casesDir, "..", "golden")
	}

	if len(cases) == 0 {
		if f.Format == "json" {
			return f.Success(TestResult{Cases: []CaseResult{}})
		}
		fmt.Fprintln(f.Writer, "No cases found.")
		return nil
	}

	result := TestResult{
		Cases: make([]CaseResult, 0, len(cases)),
		Total: len(cases),
	}
	for _, c := range cases {
		cr := runCase(cmd, c, goldenDir, opts.Update)
		result.Cases = append(result.Cases, cr)
		if cr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}

		if f.Format != "json" {
			printCaseResult(f, cr)
		}
	}

	if f.Format == "json" {
		return outputTestJSON(f, result)
	}
	return outputTestText(f, result)
}

// filterCases keeps the cases whose name matches pattern. The pattern was
// checked before, so match errors cannot occur here.
func filterCases(cases []*harness.Case, pattern string) []*harness.Case {
	if pattern == "" {
		return cases
	}
	var out []*harness.Case
	for _, c := range cases {
		if ok, _ := filepath.Match(pattern, c.Name); ok {
			out = append(out, c)
		}
	}
	return out
}

// runCase executes a single case and returns the result.
func runCase(cmd *cobra.Command, c *harness.Case, goldenDir string, update bool) CaseResult {
	result, err := harness.Run(cmd.Context(), c)
	if err != nil {
		return CaseResult{
			Name:   c.Name,
			Errors: []string{fmt.Sprintf("execution failed: %v", err)},
		}
	}

	cr := CaseResult{Name: c.Name, Pass: result.Pass, Codes: result.Codes, Errors: result.Errors}
	if c.Golden == "" {
		return cr
	}

	if err := checkGolden(c, goldenDir, update); err != nil {
		cr.Pass = false
		cr.Errors = append(cr.Errors, err.Error())
	}
	return cr
}

// goldenFilePath returns the path of the rendering golden file of a case.
func goldenFilePath(goldenDir, name string) string {
	return filepath.Join(goldenDir, name+".golden")
}

// checkGolden renders the case document and compares it with, or with
// update writes it to, the golden file.
func checkGolden(c *harness.Case, goldenDir string, update bool) error {
	doc, err := fixture.Load(c.Document)
	if err != nil {
		return fmt.Errorf("golden: %w", err)
	}
	rendered, err := abinput.Render(doc.Input)
	if err != nil {
		return fmt.Errorf("golden: %w", err)
	}

	path := goldenFilePath(goldenDir, c.Golden)
	if update {
		if err := os.MkdirAll(goldenDir, 0o755); err != nil {
			return fmt.Errorf("failed to create golden directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("failed to write golden file: %w", err)
		}
		return nil
	}

	want, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read golden file: %w", err)
	}
	if !bytes.Equal(want, []byte(rendered)) {
		return fmt.Errorf("rendering does not match golden file %s (run with --update to regenerate)", path)
	}
	return nil
}

func printCaseResult(f *OutputFormatter, cr CaseResult) {
	if cr.Pass {
		fmt.Fprintf(f.Writer, "\u2713 %s\n", cr.Name)
		return
	}
	fmt.Fprintf(f.Writer, "\u2717 %s\n", cr.Name)
	for _, e := range cr.Errors {
		fmt.Fprintf(f.Writer, "  %s\n", e)
	}
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(f *OutputFormatter, result TestResult) error {
	if result.Failed == 0 {
		return f.Success(result)
	}

	msg := fmt.Sprintf("%d case(s) failed", result.Failed)
	if err := f.Failure(ErrCodeTestFailed, msg, result); err != nil {
		return err
	}
	return NewExitError(ExitFailure, msg)
}

// outputTestText outputs the test summary as text.
func outputTestText(f *OutputFormatter, result TestResult) error {
	fmt.Fprintln(f.Writer)
	fmt.Fprintf(f.Writer, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", result.Failed))
	}

	fmt.Fprintln(f.Writer, "\u2713 All cases passed")
	return nil
}
