// Package hist reads the relaxation history written by ABINIT (the HIST
// variables) and derives structures, energies, forces and stresses per
// step.
//
// The history is read from a JSON dump of the netCDF variables. Units
// follow ABINIT on input (Bohr, Hartree) and are converted on access:
// energies in eV, forces in eV/Angstrom, pressures in GPa. Stress tensors
// stay in Ha/Bohr^3.
package hist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/nan-1212/abipy/internal/crystal"
	"github.com/nan-1212/abipy/internal/ir"
	"github.com/nan-1212/abipy/internal/pseudo"
	"github.com/nan-1212/abipy/internal/units"
)

// ErrShape is returned when the arrays of a history disagree on the number
// of steps or atoms.
var ErrShape = errors.New("inconsistent HIST dimensions")

// ForcesProperty is the site property holding Cartesian forces in eV/Angstrom.
const ForcesProperty = "cartesian_forces"

// File is one HIST relaxation history.
type File struct {
	Path string `json:"-"`

	Natom  int              `json:"natom"`
	Ntypat int              `json:"ntypat"`
	Npsp   int              `json:"npsp"`
	Typat  []int            `json:"typat"`
	Znucl  []float64        `json:"znucl"`
	Rprimd []crystal.Mat3   `json:"rprimd"`
	Xred   [][]crystal.Vec3 `json:"xred"`
	Fcart  [][]crystal.Vec3 `json:"fcart"`
	Strten [][6]float64     `json:"strten"`

	Etotal  []float64 `json:"etotal"`
	Ekin    []float64 `json:"ekin,omitempty"`
	Entropy []float64 `json:"entropy,omitempty"`
}

// Open reads the history at path.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hist: %w", err)
	}
	defer f.Close()

	h, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	h.Path = path
	return h, nil
}

// Read decodes a history from r and checks its dimensions.
func Read(r io.Reader) (*File, error) {
	var h File
	if err := json.NewDecoder(r).Decode(&h); err != nil {
		return nil, fmt.Errorf("decode hist: %w", err)
	}
	if h.Npsp == 0 {
		h.Npsp = h.Ntypat
	}
	if err := h.check(); err != nil {
		return nil, err
	}
	return &h, nil
}

func (h *File) check() error {
	steps := len(h.Rprimd)
	switch {
	case h.Natom <= 0:
		return fmt.Errorf("%w: natom=%d", ErrShape, h.Natom)
	case steps == 0:
		return fmt.Errorf("%w: no steps", ErrShape)
	case len(h.Typat) != h.Natom:
		return fmt.Errorf("%w: %d typat entries, natom=%d", ErrShape, len(h.Typat), h.Natom)
	case len(h.Znucl) != h.Npsp:
		return fmt.Errorf("%w: %d znucl entries, npsp=%d", ErrShape, len(h.Znucl), h.Npsp)
	}

	perStep := map[string]int{
		"xred":   len(h.Xred),
		"fcart":  len(h.Fcart),
		"strten": len(h.Strten),
		"etotal": len(h.Etotal),
	}
	if h.Ekin != nil {
		perStep["ekin"] = len(h.Ekin)
	}
	if h.Entropy != nil {
		perStep["entropy"] = len(h.Entropy)
	}
	for name, n := range perStep {
		if n != steps {
			return fmt.Errorf("%w: %s has %d steps, rprimd has %d", ErrShape, name, n, steps)
		}
	}
	for t := range steps {
		if len(h.Xred[t]) != h.Natom || len(h.Fcart[t]) != h.Natom {
			return fmt.Errorf("%w: step %d does not hold %d atoms", ErrShape, t, h.Natom)
		}
	}
	return nil
}

func (h *File) checkMixing() error {
	if h.Npsp != h.Ntypat {
		return fmt.Errorf("%w: npsp=%d, ntypat=%d", pseudo.ErrAlchemicalMixing, h.Npsp, h.Ntypat)
	}
	return nil
}

// NumSteps returns the number of steps recorded.
func (h *File) NumSteps() int { return len(h.Rprimd) }

// Structures returns the structure at every step, with the Cartesian
// forces attached as a site property.
func (h *File) Structures() ([]*crystal.Structure, error) {
	if err := h.checkMixing(); err != nil {
		return nil, err
	}
	forces := h.CartForces()
	out := make([]*crystal.Structure, h.NumSteps())
	for t := range out {
		s, err := h.structureAt(t)
		if err != nil {
			return nil, err
		}
		for i := range s.Sites {
			if s.Sites[i].Properties == nil {
				s.Sites[i].Properties = ir.Object{}
			}
			f := forces[t][i]
			s.Sites[i].Properties[ForcesProperty] = ir.FloatVector(f[0], f[1], f[2])
		}
		out[t] = s
	}
	return out, nil
}

func (h *File) structureAt(t int) (*crystal.Structure, error) {
	s, err := crystal.FromAbivars(crystal.Vec3{1, 1, 1}, h.Rprimd[t], h.Xred[t], h.Znucl, h.Typat)
	if err != nil {
		return nil, fmt.Errorf("step %d: %w", t, err)
	}
	return s, nil
}

// InitialStructure returns the structure of the first step.
func (h *File) InitialStructure() (*crystal.Structure, error) {
	if err := h.checkMixing(); err != nil {
		return nil, err
	}
	return h.structureAt(0)
}

// FinalStructure returns the structure of the last step.
func (h *File) FinalStructure() (*crystal.Structure, error) {
	if err := h.checkMixing(); err != nil {
		return nil, err
	}
	return h.structureAt(h.NumSteps() - 1)
}

// Energies holds the energy terms of every step, in eV.
type Energies struct {
	Total   []float64 `json:"etotals"`
	Kinetic []float64 `json:"kinetic_terms,omitempty"`
	Entropy []float64 `json:"entropies,omitempty"`
}

// Energies returns the energy terms in eV.
func (h *File) Energies() Energies {
	return Energies{
		Total:   units.HaToEVSlice(h.Etotal),
		Kinetic: units.HaToEVSlice(h.Ekin),
		Entropy: units.HaToEVSlice(h.Entropy),
	}
}

// FinalEnergy returns the total energy of the last step in eV.
func (h *File) FinalEnergy() float64 {
	return h.Etotal[len(h.Etotal)-1] * units.HaToEV
}

// CartForces returns the Cartesian forces in eV/Angstrom, indexed by step
// then atom.
func (h *File) CartForces() [][]crystal.Vec3 {
	out := make([][]crystal.Vec3, len(h.Fcart))
	for t, step := range h.Fcart {
		out[t] = make([]crystal.Vec3, len(step))
		for i, f := range step {
			for k := range 3 {
				out[t][i][k] = f[k] * units.HaBohrToEVAng
			}
		}
	}
	return out
}

// StressTensors expands the Voigt components stored by ABINIT, ordered
// (1,1) (2,2) (3,3) (3,2) (3,1) (2,1), into symmetric tensors in Ha/Bohr^3.
func (h *File) StressTensors() []crystal.Mat3 {
	out := make([]crystal.Mat3, len(h.Strten))
	for t, c := range h.Strten {
		var m crystal.Mat3
		for i := range 3 {
			m[i][i] = c[i]
		}
		for p, ij := range [3][2]int{{2, 1}, {2, 0}, {1, 0}} {
			m[ij[0]][ij[1]] = c[3+p]
			m[ij[1]][ij[0]] = c[3+p]
		}
		out[t] = m
	}
	return out
}

// Pressures returns the pressure of every step in GPa.
func (h *File) Pressures() []float64 {
	tensors := h.StressTensors()
	out := make([]float64, len(tensors))
	for t, m := range tensors {
		out[t] = -units.HaBohr3ToGPa / 3 * m.Trace()
	}
	return out
}

// FinalPressure returns the pressure of the last step in GPa.
func (h *File) FinalPressure() float64 {
	p := h.Pressures()
	return p[len(p)-1]
}

// ForceStats summarises the moduli of the atomic forces of one step, in
// eV/Angstrom.
type ForceStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// ForceStats returns the force statistics of step. Negative steps count
// from the end, so -1 is the last step.
func (h *File) ForceStats(step int) (ForceStats, error) {
	n := h.NumSteps()
	if step < 0 {
		step += n
	}
	if step < 0 || step >= n {
		return ForceStats{}, fmt.Errorf("step %d out of range [0, %d)", step, n)
	}

	forces := h.CartForces()[step]
	st := ForceStats{Min: math.Inf(1), Max: math.Inf(-1)}
	mods := make([]float64, len(forces))
	for i, f := range forces {
		m := f.Norm()
		mods[i] = m
		st.Min = math.Min(st.Min, m)
		st.Max = math.Max(st.Max, m)
		st.Mean += m
	}
	st.Mean /= float64(len(mods))
	for _, m := range mods {
		st.Std += (m - st.Mean) * (m - st.Mean)
	}
	st.Std = math.Sqrt(st.Std / float64(len(mods)))
	return st, nil
}
