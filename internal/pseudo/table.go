package pseudo

import (
	"errors"
	"fmt"

	"github.com/nan-1212/abipy/internal/crystal"
)

var (
	// ErrMissingPseudo: an element of the structure has no pseudopotential.
	ErrMissingPseudo = errors.New("no pseudopotential for element")
	// ErrAlchemicalMixing: an element has more than one pseudopotential.
	ErrAlchemicalMixing = errors.New("alchemical mixing is not supported")
)

// Table is an ordered collection of pseudopotentials.
type Table struct {
	pseudos []*Pseudo
}

// NewTable returns a table holding ps in the given order.
func NewTable(ps ...*Pseudo) *Table {
	return &Table{pseudos: ps}
}

// All returns the pseudopotentials in table order.
func (t *Table) All() []*Pseudo { return t.pseudos }

// Len returns the number of pseudopotentials.
func (t *Table) Len() int { return len(t.pseudos) }

// Lookup returns every pseudopotential for symbol.
func (t *Table) Lookup(symbol string) []*Pseudo {
	var out []*Pseudo
	for _, p := range t.pseudos {
		if p.Symbol == symbol {
			out = append(out, p)
		}
	}
	return out
}

// Symbols returns the distinct element symbols in table order.
func (t *Table) Symbols() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range t.pseudos {
		if !seen[p.Symbol] {
			seen[p.Symbol] = true
			out = append(out, p.Symbol)
		}
	}
	return out
}

// ForStructure returns one pseudopotential per type of s, in the order of
// s.Types().
func (t *Table) ForStructure(s *crystal.Structure) ([]*Pseudo, error) {
	types := s.Types()
	out := make([]*Pseudo, 0, len(types))
	for _, sym := range types {
		found := t.Lookup(sym)
		switch len(found) {
		case 0:
			return nil, fmt.Errorf("%w %s", ErrMissingPseudo, sym)
		case 1:
			out = append(out, found[0])
		default:
			return nil, fmt.Errorf("%w: %d pseudopotentials for %s", ErrAlchemicalMixing, len(found), sym)
		}
	}
	return out, nil
}
