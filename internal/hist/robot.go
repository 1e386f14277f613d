package hist

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/nan-1212/abipy/internal/format"
	"github.com/nan-1212/abipy/internal/logging"
)

// Robot collects several histories under unique labels and tabulates
// their final results.
type Robot struct {
	labels []string
	hists  map[string]*File
}

// NewRobot returns an empty robot.
func NewRobot() *Robot {
	return &Robot{hists: make(map[string]*File)}
}

// Add registers h under label.
func (r *Robot) Add(label string, h *File) error {
	if _, dup := r.hists[label]; dup {
		return fmt.Errorf("robot: duplicate label %q", label)
	}
	r.labels = append(r.labels, label)
	r.hists[label] = h
	return nil
}

// Len returns the number of histories.
func (r *Robot) Len() int { return len(r.labels) }

// Labels returns the labels in insertion order.
func (r *Robot) Labels() []string {
	return append([]string(nil), r.labels...)
}

// Get returns the history registered under label.
func (r *Robot) Get(label string) (*File, bool) {
	h, ok := r.hists[label]
	return h, ok
}

// OpenRobot reads every path concurrently and labels each history with
// its path. The first failure cancels the remaining reads.
func OpenRobot(ctx context.Context, paths ...string) (*Robot, error) {
	files := make([]*File, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, p := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			h, err := Open(p)
			if err != nil {
				return err
			}
			files[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r := NewRobot()
	for i, p := range paths {
		if err := r.Add(p, files[i]); err != nil {
			return nil, err
		}
	}
	logging.New("hist").Debug("robot loaded", "files", r.Len())
	return r, nil
}

// Row holds the final results of one history.
type Row struct {
	Label         string  `json:"label"`
	Formula       string  `json:"formula"`
	Natom         int     `json:"natom"`
	Volume        float64 `json:"volume"`
	NumSteps      int     `json:"num_steps"`
	FinalEnergy   float64 `json:"final_energy"`
	FinalPressure float64 `json:"final_pressure"`
	FinalMaxForce float64 `json:"final_max_force"`
}

// Rows returns one row per history, in insertion order.
func (r *Robot) Rows() ([]Row, error) {
	rows := make([]Row, 0, len(r.labels))
	for _, label := range r.labels {
		h := r.hists[label]
		final, err := h.FinalStructure()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
		fs, err := h.ForceStats(-1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
		rows = append(rows, Row{
			Label:         label,
			Formula:       final.ReducedFormula(),
			Natom:         final.NumSites(),
			Volume:        final.Lattice.Volume(),
			NumSteps:      h.NumSteps(),
			FinalEnergy:   h.FinalEnergy(),
			FinalPressure: h.FinalPressure(),
			FinalMaxForce: fs.Max,
		})
	}
	return rows, nil
}

// Table renders the rows as a table. Pressures are in GPa, energies in eV
// and forces in eV/Angstrom.
func (r *Robot) Table(m format.Mode) (string, error) {
	rows, err := r.Rows()
	if err != nil {
		return "", err
	}
	tb := format.NewTable(m)
	tb.Header("label", "formula", "natom", "volume", "num_steps", "final_energy", "final_pressure", "final_fmax")
	for _, row := range rows {
		tb.Row(row.Label, row.Formula, row.Natom,
			fmt.Sprintf("%.4f", row.Volume),
			row.NumSteps,
			fmt.Sprintf("%.6f", row.FinalEnergy),
			fmt.Sprintf("%.3f", row.FinalPressure),
			fmt.Sprintf("%.4e", row.FinalMaxForce))
	}
	tb.AlignColumns(map[int]format.Align{3: format.AlignRight, 4: format.AlignRight, 5: format.AlignRight, 6: format.AlignRight, 7: format.AlignRight, 8: format.AlignRight})
	return tb.String(), nil
}
