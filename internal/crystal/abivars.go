package crystal

import (
	"errors"
	"fmt"

	"github.com/nan-1212/abipy/internal/periodic"
	"github.com/nan-1212/abipy/internal/units"
)

// ErrDisordered is returned when a disordered structure is converted to
// ABINIT variables.
var ErrDisordered = errors.New("disordered structures cannot be expressed with typat/znucl")

// Abivars holds the ABINIT variables that describe a structure. Lengths
// are in Bohr, typat is 1-based.
type Abivars struct {
	Natom  int
	Ntypat int
	Typat  []int
	Znucl  []float64
	Xred   []Vec3
	Acell  Vec3
	Rprim  Mat3
}

// FromAbivars builds a structure from ABINIT geometry variables. The
// primitive vectors are rprimd[i] = acell[i] * rprim[i], in Bohr.
func FromAbivars(acell Vec3, rprim Mat3, xred []Vec3, znucl []float64, typat []int) (*Structure, error) {
	if len(xred) != len(typat) {
		return nil, fmt.Errorf("abivars: %d positions for %d typat entries", len(xred), len(typat))
	}
	var m Mat3
	for i := range 3 {
		for j := range 3 {
			m[i][j] = acell[i] * rprim[i][j] * units.BohrToAng
		}
	}
	l, err := NewLattice(m)
	if err != nil {
		return nil, fmt.Errorf("abivars: %w", err)
	}

	symbols := make([]string, len(typat))
	for i, t := range typat {
		if t < 1 || t > len(znucl) {
			return nil, fmt.Errorf("abivars: typat[%d]=%d out of range 1..%d", i, t, len(znucl))
		}
		el, err := periodic.FromZnucl(znucl[t-1])
		if err != nil {
			return nil, fmt.Errorf("abivars: znucl[%d]: %w", t-1, err)
		}
		symbols[i] = el.Symbol
	}
	return NewStructure(l, symbols, xred)
}

// ToAbivars converts an ordered structure to ABINIT variables. Types are
// numbered in order of first appearance; acell is 1 and rprim carries the
// full vectors in Bohr.
func (s *Structure) ToAbivars() (*Abivars, error) {
	if !s.IsOrdered() {
		return nil, ErrDisordered
	}
	types := s.Types()
	index := make(map[string]int, len(types))
	av := &Abivars{
		Natom:  len(s.Sites),
		Ntypat: len(types),
		Acell:  Vec3{1, 1, 1},
	}
	for i, sym := range types {
		index[sym] = i + 1
		el, err := periodic.FromSymbol(sym)
		if err != nil {
			return nil, err
		}
		av.Znucl = append(av.Znucl, float64(el.Z))
	}
	for _, site := range s.Sites {
		av.Typat = append(av.Typat, index[site.Species[0].Element])
		av.Xred = append(av.Xred, site.Frac)
	}
	m := s.Lattice.Matrix()
	for i := range 3 {
		for j := range 3 {
			av.Rprim[i][j] = m[i][j] * units.AngToBohr
		}
	}
	return av, nil
}
