package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nan-1212/abipy/internal/crystal"
	"github.com/nan-1212/abipy/internal/format"
	"github.com/nan-1212/abipy/internal/hist"
)

// HistShowResult is the JSON payload of hist show.
type HistShowResult struct {
	Path           string             `json:"path"`
	Formula        string             `json:"formula"`
	Natom          int                `json:"natom"`
	NumSteps       int                `json:"num_steps"`
	InitialVolume  float64            `json:"initial_volume"`
	FinalVolume    float64            `json:"final_volume"`
	VolumeChange   float64            `json:"volume_change"`
	LatticeChanges map[string]float64 `json:"lattice_changes"`
	Energies       hist.Energies      `json:"energies"`
	Pressures      []float64          `json:"pressures"`
	FinalForces    hist.ForceStats    `json:"final_forces"`
}

// XDATCAROptions holds flags for hist xdatcar.
type XDATCAROptions struct {
	*RootOptions
	Output  string
	NoGroup bool
}

// RobotOptions holds flags for hist robot.
type RobotOptions struct {
	*RootOptions
	Markdown bool
}

// NewHistCommand creates the hist command and its subcommands.
func NewHistCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hist",
		Short: "Inspect relaxation histories",
		Long: `Inspect ABINIT relaxation histories (HIST) exported as JSON.

Energies are reported in eV, pressures in GPa, forces in eV/Angstrom and
volumes in Angstrom^3.`,
	}

	cmd.AddCommand(newHistShowCommand(rootOpts))
	cmd.AddCommand(newHistXDATCARCommand(rootOpts))
	cmd.AddCommand(newHistRobotCommand(rootOpts))

	return cmd
}

// openHist reads a HIST file, reporting failures through f.
func openHist(f *OutputFormatter, path string) (*hist.File, error) {
	h, err := hist.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, f.fail(ErrCodeNotFound, fmt.Sprintf("HIST file not found: %s", path), nil)
	}
	if err != nil {
		return nil, f.fail(ErrCodeHist, "failed to read HIST file", err)
	}
	f.VerboseLog("Read %s: %d atom(s), %d step(s)", path, h.Natom, h.NumSteps())
	return h, nil
}

func newHistShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <hist-file>",
		Short:         "Summarize a relaxation history",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistShow(newFormatter(rootOpts, cmd), args[0])
		},
	}
}

func runHistShow(f *OutputFormatter, path string) error {
	h, err := openHist(f, path)
	if err != nil {
		return err
	}

	if f.Format != "json" {
		text, err := h.Summary("")
		if err != nil {
			return f.fail(ErrCodeHist, "failed to summarize history", err)
		}
		fmt.Fprint(f.Writer, text)
		return nil
	}

	initial, err := h.InitialStructure()
	if err != nil {
		return f.fail(ErrCodeHist, "failed to build structures", err)
	}
	final, err := h.FinalStructure()
	if err != nil {
		return f.fail(ErrCodeHist, "failed to build structures", err)
	}
	forces, err := h.ForceStats(-1)
	if err != nil {
		return f.fail(ErrCodeHist, "failed to compute forces", err)
	}
	analyzer := crystal.NewRelaxationAnalyzer(initial, final)

	return f.Success(HistShowResult{
		Path:           path,
		Formula:        final.Formula(),
		Natom:          h.Natom,
		NumSteps:       h.NumSteps(),
		InitialVolume:  initial.Lattice.Volume(),
		FinalVolume:    final.Lattice.Volume(),
		VolumeChange:   analyzer.VolumeChange(),
		LatticeChanges: analyzer.LatticeParameterChanges(),
		Energies:       h.Energies(),
		Pressures:      h.Pressures(),
		FinalForces:    forces,
	})
}

func newHistXDATCARCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &XDATCAROptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "xdatcar <hist-file>",
		Short: "Export the trajectory as a VASP XDATCAR",
		Long: `Export the trajectory of a relaxation history in the VASP XDATCAR format.

Atoms are grouped by species unless --no-group is given, in which case each
atom gets its own species block in input order.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistXDATCAR(opts, newFormatter(rootOpts, cmd), args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the XDATCAR here instead of stdout")
	cmd.Flags().BoolVar(&opts.NoGroup, "no-group", false, "keep atoms in input order instead of grouping by species")

	return cmd
}

func runHistXDATCAR(opts *XDATCAROptions, f *OutputFormatter, path string) error {
	h, err := openHist(f, path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.WriteXDATCAR(&buf, !opts.NoGroup); err != nil {
		return f.fail(ErrCodeHist, "failed to write XDATCAR", err)
	}

	if opts.Output == "" {
		if f.Format == "json" {
			return f.Success(RenderResult{Text: buf.String()})
		}
		_, err := f.Writer.Write(buf.Bytes())
		return err
	}

	if err := os.WriteFile(opts.Output, buf.Bytes(), 0o644); err != nil {
		return f.fail(ErrCodeWriteFailed, "failed to write output", err)
	}
	if f.Format == "json" {
		return f.Success(RenderResult{Output: opts.Output})
	}
	fmt.Fprintf(f.Writer, "\u2713 Wrote %s (%d configurations)\n", opts.Output, h.NumSteps())
	return nil
}

func newHistRobotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RobotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "robot <hist-file>...",
		Short: "Tabulate the final results of several histories",
		Long: `Read several relaxation histories concurrently and tabulate their final
structure, energy, pressure and largest force.

Example:
  abipy hist robot run1_HIST.json run2_HIST.json
  abipy hist robot --markdown runs/*_HIST.json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistRobot(opts, cmd, args)
		},
	}

	cmd.Flags().BoolVar(&opts.Markdown, "markdown", false, "render the table as Markdown")

	return cmd
}

func runHistRobot(opts *RobotOptions, cmd *cobra.Command, paths []string) error {
	f := newFormatter(opts.RootOptions, cmd)

	robot, err := hist.OpenRobot(cmd.Context(), paths...)
	if errors.Is(err, os.ErrNotExist) {
		return f.fail(ErrCodeNotFound, "HIST file not found", err)
	}
	if err != nil {
		return f.fail(ErrCodeHist, "failed to read histories", err)
	}

	if f.Format == "json" {
		rows, err := robot.Rows()
		if err != nil {
			return f.fail(ErrCodeHist, "failed to tabulate histories", err)
		}
		return f.Success(rows)
	}

	mode := format.ASCII
	if opts.Markdown {
		mode = format.Markdown
	}
	table, err := robot.Table(mode)
	if err != nil {
		return f.fail(ErrCodeHist, "failed to tabulate histories", err)
	}
	fmt.Fprintln(f.Writer, table)
	return nil
}
