package crystal

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nan-1212/abipy/internal/ir"
	"github.com/nan-1212/abipy/internal/periodic"
)

const (
	// OccupancyTol is the slack allowed on the sum of occupancies of a site.
	OccupancyTol = 1e-8
	// CoordTol is the largest allowed gap (Angstrom) between recorded
	// Cartesian coordinates and lattice * fractional coordinates.
	CoordTol = 1e-5
)

// Species is an element with a partial occupancy.
type Species struct {
	Element string
	Occu    float64

	extra ir.Object
}

// Site is one atomic position of a structure.
type Site struct {
	Species    []Species
	Frac       Vec3
	Cart       Vec3
	Label      string
	Properties ir.Object

	extra ir.Object
	// derivedCart is set when Cart was computed because "xyz" was absent.
	derivedCart bool
	// hasLabel is set when the decoded site carried a "label", even "".
	hasLabel bool
}

// NewSite returns an ordered site of the given element, with Cartesian
// coordinates computed from the lattice.
func NewSite(l *Lattice, element string, frac Vec3) Site {
	return Site{
		Species: []Species{{Element: element, Occu: 1}},
		Frac:    frac,
		Cart:    l.CartCoords(frac),
		Label:   element,
	}
}

// IsOrdered reports whether the site holds a single fully occupied species.
func (s Site) IsOrdered() bool {
	return len(s.Species) == 1 && s.Species[0].Occu == 1
}

// Occupancy returns the sum of the species occupancies.
func (s Site) Occupancy() float64 {
	var sum float64
	for _, sp := range s.Species {
		sum += sp.Occu
	}
	return sum
}

// SpeciesString returns "Al" for ordered sites and "Al:0.500, Ga:0.500"
// for disordered ones.
func (s Site) SpeciesString() string {
	if s.IsOrdered() {
		return s.Species[0].Element
	}
	parts := make([]string, len(s.Species))
	for i, sp := range s.Species {
		parts[i] = fmt.Sprintf("%s:%.3f", sp.Element, sp.Occu)
	}
	return strings.Join(parts, ", ")
}

// CoordMismatch returns the largest component gap between the recorded
// Cartesian coordinates and the ones derived from the fractional ones.
func (s Site) CoordMismatch(l *Lattice) float64 {
	want := l.CartCoords(s.Frac)
	var worst float64
	for i := range 3 {
		worst = math.Max(worst, math.Abs(want[i]-s.Cart[i]))
	}
	return worst
}

// ToValue encodes the site as a pymatgen site object.
func (s Site) ToValue() ir.Object {
	obj := make(ir.Object, len(s.extra)+5)
	for k, v := range s.extra {
		obj[k] = v
	}
	species := make(ir.Array, len(s.Species))
	for i, sp := range s.Species {
		o := make(ir.Object, len(sp.extra)+2)
		for k, v := range sp.extra {
			o[k] = v
		}
		o["element"] = ir.String(sp.Element)
		o["occu"] = occuValue(sp.Occu)
		species[i] = o
	}
	obj["species"] = species
	obj["abc"] = ir.FloatVector(s.Frac[:]...)
	if !s.derivedCart {
		obj["xyz"] = ir.FloatVector(s.Cart[:]...)
	}
	if s.Label != "" || s.hasLabel {
		obj["label"] = ir.String(s.Label)
	}
	if s.Properties != nil {
		obj["properties"] = s.Properties
	}
	return obj
}

func occuValue(f float64) ir.Value {
	if f == math.Trunc(f) {
		return ir.Int(int64(f))
	}
	return ir.Float(f)
}

// SiteFromValue decodes a pymatgen site. When "xyz" is absent it is computed
// from "abc"; a recorded "xyz" is kept as is and checked by Validate.
func SiteFromValue(v ir.Value, l *Lattice) (Site, error) {
	obj, ok := v.(ir.Object)
	if !ok {
		return Site{}, fmt.Errorf("expected object, got %s", ir.KindOf(v))
	}

	var s Site
	rawSpecies, ok := obj["species"].(ir.Array)
	if !ok || len(rawSpecies) == 0 {
		return Site{}, errors.New("species: expected non-empty array")
	}
	for i, rs := range rawSpecies {
		sp, err := speciesFromValue(rs)
		if err != nil {
			return Site{}, fmt.Errorf("species[%d]: %w", i, err)
		}
		s.Species = append(s.Species, sp)
	}

	abc, err := ir.AsFloats(obj["abc"])
	if err != nil {
		return Site{}, fmt.Errorf("abc: %w", err)
	}
	if s.Frac, err = toVec3(abc); err != nil {
		return Site{}, fmt.Errorf("abc: %w", err)
	}

	if rawXYZ, present := obj["xyz"]; present {
		xyz, err := ir.AsFloats(rawXYZ)
		if err != nil {
			return Site{}, fmt.Errorf("xyz: %w", err)
		}
		if s.Cart, err = toVec3(xyz); err != nil {
			return Site{}, fmt.Errorf("xyz: %w", err)
		}
	} else {
		s.Cart = l.CartCoords(s.Frac)
		s.derivedCart = true
	}

	if rawLabel, present := obj["label"]; present {
		label, ok := rawLabel.(ir.String)
		if !ok {
			return Site{}, fmt.Errorf("label: expected string, got %s", ir.KindOf(rawLabel))
		}
		s.Label = string(label)
		s.hasLabel = true
	}
	if rawProps, present := obj["properties"]; present {
		props, ok := rawProps.(ir.Object)
		if !ok {
			return Site{}, fmt.Errorf("properties: expected object, got %s", ir.KindOf(rawProps))
		}
		s.Properties = props
	}

	s.extra = leftover(obj, "species", "abc", "xyz", "label", "properties")
	return s, nil
}

func speciesFromValue(v ir.Value) (Species, error) {
	obj, ok := v.(ir.Object)
	if !ok {
		return Species{}, fmt.Errorf("expected object, got %s", ir.KindOf(v))
	}
	el, ok := obj["element"].(ir.String)
	if !ok {
		return Species{}, errors.New("element: expected string")
	}
	if !periodic.IsSymbol(string(el)) {
		return Species{}, fmt.Errorf("element: %w: %q", periodic.ErrUnknownElement, string(el))
	}
	occu, ok := ir.AsFloat(obj["occu"])
	if !ok {
		return Species{}, errors.New("occu: expected number")
	}
	return Species{
		Element: string(el),
		Occu:    occu,
		extra:   leftover(obj, "element", "occu"),
	}, nil
}

// leftover returns the entries of obj whose keys are not listed, or nil.
func leftover(obj ir.Object, known ...string) ir.Object {
	var out ir.Object
	for k, v := range obj {
		skip := false
		for _, kk := range known {
			if k == kk {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		if out == nil {
			out = make(ir.Object)
		}
		out[k] = v
	}
	return out
}

func formatAmount(x float64) string {
	if x == math.Trunc(x) {
		return strconv.FormatInt(int64(x), 10)
	}
	return strconv.FormatFloat(x, 'g', 6, 64)
}
