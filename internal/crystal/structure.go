package crystal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nan-1212/abipy/internal/ir"
	"github.com/nan-1212/abipy/internal/periodic"
	"github.com/nan-1212/abipy/internal/units"
)

// Discriminators written for structures built in Go.
const (
	DefaultModule = "pymatgen.core.structure"
	ClassName     = "Structure"
)

// Structure is a lattice with an ordered list of sites.
type Structure struct {
	Module  string
	Class   string
	Lattice *Lattice
	Sites   []Site
	// Charge is nil when the document carries "charge": null.
	Charge *float64

	hasCharge bool
	extra     ir.Object
}

// NewStructure builds an ordered structure from element symbols and
// fractional coordinates.
func NewStructure(l *Lattice, elements []string, frac []Vec3) (*Structure, error) {
	if len(elements) != len(frac) {
		return nil, fmt.Errorf("got %d elements for %d positions", len(elements), len(frac))
	}
	s := &Structure{Module: DefaultModule, Class: ClassName, Lattice: l}
	for i, el := range elements {
		if !periodic.IsSymbol(el) {
			return nil, fmt.Errorf("site %d: %w: %q", i, periodic.ErrUnknownElement, el)
		}
		s.Sites = append(s.Sites, NewSite(l, el, frac[i]))
	}
	return s, nil
}

// NumSites returns the number of sites.
func (s *Structure) NumSites() int { return len(s.Sites) }

// Amount is the quantity of one element in a composition.
type Amount struct {
	Element string
	Amount  float64
}

// Composition lists element amounts in order of first appearance.
type Composition []Amount

// Composition sums the occupancies of every element over all sites.
func (s *Structure) Composition() Composition {
	var comp Composition
	index := make(map[string]int)
	for _, site := range s.Sites {
		for _, sp := range site.Species {
			i, ok := index[sp.Element]
			if !ok {
				i = len(comp)
				index[sp.Element] = i
				comp = append(comp, Amount{Element: sp.Element})
			}
			comp[i].Amount += sp.Occu
		}
	}
	return comp
}

// Formula returns the full formula, e.g. "Al1 As1".
func (c Composition) Formula() string {
	parts := make([]string, len(c))
	for i, a := range c {
		parts[i] = a.Element + formatAmount(a.Amount)
	}
	return strings.Join(parts, " ")
}

// ReducedFormula divides integral amounts by their gcd and drops unit
// counts, e.g. "Al2 As2" -> "AlAs".
func (c Composition) ReducedFormula() string {
	div := int64(0)
	for _, a := range c {
		n := int64(a.Amount)
		if float64(n) != a.Amount {
			div = 1
			break
		}
		div = gcd(div, n)
	}
	if div == 0 {
		div = 1
	}
	var sb strings.Builder
	for _, a := range c {
		sb.WriteString(a.Element)
		amt := a.Amount / float64(div)
		if amt != 1 {
			sb.WriteString(formatAmount(amt))
		}
	}
	return sb.String()
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Formula is shorthand for s.Composition().Formula().
func (s *Structure) Formula() string { return s.Composition().Formula() }

// ReducedFormula is shorthand for s.Composition().ReducedFormula().
func (s *Structure) ReducedFormula() string { return s.Composition().ReducedFormula() }

// Types returns the distinct elements in order of first appearance.
func (s *Structure) Types() []string {
	comp := s.Composition()
	out := make([]string, len(comp))
	for i, a := range comp {
		out[i] = a.Element
	}
	return out
}

// Density returns the mass density in g/cm^3.
func (s *Structure) Density() (float64, error) {
	var mass float64
	for _, a := range s.Composition() {
		el, err := periodic.FromSymbol(a.Element)
		if err != nil {
			return 0, err
		}
		mass += el.Mass * a.Amount
	}
	return mass * units.AmuToGram / (s.Lattice.Volume() * units.Ang3ToCm3), nil
}

// IsOrdered reports whether every site is ordered.
func (s *Structure) IsOrdered() bool {
	for _, site := range s.Sites {
		if !site.IsOrdered() {
			return false
		}
	}
	return true
}

// ViolationKind classifies a structure invariant failure.
type ViolationKind int

const (
	// CoordinateMismatch: xyz disagrees with lattice * abc.
	CoordinateMismatch ViolationKind = iota + 1
	// BadOccupancy: a non-positive occupancy or a sum above one.
	BadOccupancy
)

func (k ViolationKind) String() string {
	switch k {
	case CoordinateMismatch:
		return "coordinate_mismatch"
	case BadOccupancy:
		return "occupancy"
	default:
		return "unknown"
	}
}

// Violation is one broken structure invariant.
type Violation struct {
	Kind    ViolationKind
	Site    int
	Message string
}

func (v Violation) Error() string {
	return fmt.Sprintf("sites[%d]: %s", v.Site, v.Message)
}

// Validate checks every site and returns all violations found.
func (s *Structure) Validate() []Violation {
	var out []Violation
	for i, site := range s.Sites {
		sum := 0.0
		for _, sp := range site.Species {
			if sp.Occu <= 0 {
				out = append(out, Violation{
					Kind:    BadOccupancy,
					Site:    i,
					Message: fmt.Sprintf("occupancy of %s must be positive, got %g", sp.Element, sp.Occu),
				})
			}
			sum += sp.Occu
		}
		if sum > 1+OccupancyTol {
			out = append(out, Violation{
				Kind:    BadOccupancy,
				Site:    i,
				Message: fmt.Sprintf("occupancies sum to %g > 1", sum),
			})
		}
		if d := site.CoordMismatch(s.Lattice); d > CoordTol {
			out = append(out, Violation{
				Kind:    CoordinateMismatch,
				Site:    i,
				Message: fmt.Sprintf("xyz differs from lattice * abc by %.3g Angstrom", d),
			})
		}
	}
	return out
}

// ToValue encodes the structure as a pymatgen/abipy Structure object.
func (s *Structure) ToValue() ir.Object {
	obj := make(ir.Object, len(s.extra)+5)
	for k, v := range s.extra {
		obj[k] = v
	}
	if s.Module != "" {
		obj["@module"] = ir.String(s.Module)
	}
	if s.Class != "" {
		obj["@class"] = ir.String(s.Class)
	}
	switch {
	case s.Charge != nil:
		obj["charge"] = ir.Float(*s.Charge)
	case s.hasCharge:
		obj["charge"] = ir.Null{}
	}
	obj["lattice"] = s.Lattice.ToValue()
	sites := make(ir.Array, len(s.Sites))
	for i, site := range s.Sites {
		sites[i] = site.ToValue()
	}
	obj["sites"] = sites
	return obj
}

// FromValue decodes a Structure object.
func FromValue(v ir.Value) (*Structure, error) {
	obj, ok := v.(ir.Object)
	if !ok {
		return nil, fmt.Errorf("structure: expected object, got %s", ir.KindOf(v))
	}
	s := &Structure{}
	if m, ok := obj["@module"].(ir.String); ok {
		s.Module = string(m)
	}
	if c, ok := obj["@class"].(ir.String); ok {
		s.Class = string(c)
	}

	if raw, present := obj["charge"]; present {
		s.hasCharge = true
		if _, isNull := raw.(ir.Null); !isNull {
			q, ok := ir.AsFloat(raw)
			if !ok {
				return nil, fmt.Errorf("structure charge: expected number or null, got %s", ir.KindOf(raw))
			}
			s.Charge = &q
		}
	}

	rawLattice, present := obj["lattice"]
	if !present {
		return nil, errors.New("structure: missing lattice")
	}
	l, err := LatticeFromValue(rawLattice)
	if err != nil {
		return nil, fmt.Errorf("structure: %w", err)
	}
	s.Lattice = l

	rawSites, ok := obj["sites"].(ir.Array)
	if !ok {
		return nil, errors.New("structure: sites must be an array")
	}
	for i, rs := range rawSites {
		site, err := SiteFromValue(rs, l)
		if err != nil {
			return nil, fmt.Errorf("structure sites[%d]: %w", i, err)
		}
		s.Sites = append(s.Sites, site)
	}

	s.extra = leftover(obj, "@module", "@class", "charge", "lattice", "sites")
	return s, nil
}

// MarshalJSON implements json.Marshaler.
func (s *Structure) MarshalJSON() ([]byte, error) {
	return ir.Marshal(s.ToValue())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Structure) UnmarshalJSON(data []byte) error {
	v, err := ir.Unmarshal(data)
	if err != nil {
		return err
	}
	decoded, err := FromValue(v)
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}
