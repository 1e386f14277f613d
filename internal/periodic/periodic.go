// Package periodic maps chemical element symbols to atomic numbers and
// standard atomic masses.
package periodic

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownElement is returned for symbols or atomic numbers outside the table.
var ErrUnknownElement = errors.New("unknown element")

// Element is one entry of the periodic table.
type Element struct {
	Z      int
	Symbol string
	Name   string
	Mass   float64 // standard atomic weight in amu
}

var bySymbol = func() map[string]Element {
	m := make(map[string]Element, len(elements))
	for _, e := range elements {
		m[e.Symbol] = e
	}
	return m
}()

// FromSymbol looks up an element by its symbol. The match is exact
// ("Al", not "AL" or "al").
func FromSymbol(symbol string) (Element, error) {
	e, ok := bySymbol[symbol]
	if !ok {
		return Element{}, fmt.Errorf("%w: symbol %q", ErrUnknownElement, symbol)
	}
	return e, nil
}

// FromZ looks up an element by atomic number.
func FromZ(z int) (Element, error) {
	if z < 1 || z > len(elements) {
		return Element{}, fmt.Errorf("%w: Z=%d", ErrUnknownElement, z)
	}
	return elements[z-1], nil
}

// FromZnucl converts an ABINIT znucl entry to an element. znucl is a float
// in ABINIT files; alchemical (non-integral) values are rejected.
func FromZnucl(znucl float64) (Element, error) {
	z := math.Round(znucl)
	if math.Abs(z-znucl) > 1e-8 {
		return Element{}, fmt.Errorf("%w: non-integral znucl %g", ErrUnknownElement, znucl)
	}
	return FromZ(int(z))
}

// IsSymbol reports whether s is a known element symbol.
func IsSymbol(s string) bool {
	_, ok := bySymbol[s]
	return ok
}

// NormalizeSymbol fixes the capitalisation of a symbol ("AL" -> "Al").
func NormalizeSymbol(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// Count returns the number of elements in the table.
func Count() int {
	return len(elements)
}
