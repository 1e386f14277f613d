package crystal

import (
	"errors"
	"fmt"
	"math"

	"github.com/nan-1212/abipy/internal/ir"
)

// ErrSingularLattice is returned for lattice matrices with (near) zero volume.
var ErrSingularLattice = errors.New("singular lattice matrix")

// metricsRelTol is the relative tolerance used when comparing recorded
// lattice metrics with the ones derived from the matrix.
const metricsRelTol = 1e-6

// Lattice is a periodic cell. Rows of the matrix are the lattice vectors
// in Angstrom.
type Lattice struct {
	matrix Mat3
	inv    Mat3
	abc    [3]float64
	angles [3]float64
	volume float64

	// extra holds keys this package does not interpret (e.g. "pbc").
	extra ir.Object
	// omitted lists metrics the decoded object did not record.
	omitted map[string]bool
}

// NewLattice builds a lattice from row vectors in Angstrom.
func NewLattice(m Mat3) (*Lattice, error) {
	det := m.det()
	if math.Abs(det) < 1e-10 {
		return nil, fmt.Errorf("%w: volume %g", ErrSingularLattice, det)
	}
	l := &Lattice{matrix: m, inv: m.inverse(), volume: math.Abs(det)}
	a, b, c := Vec3(m[0]), Vec3(m[1]), Vec3(m[2])
	l.abc = [3]float64{a.Norm(), b.Norm(), c.Norm()}
	l.angles = [3]float64{angleDeg(b, c), angleDeg(a, c), angleDeg(a, b)}
	return l, nil
}

// MustLattice is NewLattice that panics on error. Intended for tests and
// package-level fixtures.
func MustLattice(m Mat3) *Lattice {
	l, err := NewLattice(m)
	if err != nil {
		panic(err)
	}
	return l
}

// FromParameters builds a lattice from lengths (Angstrom) and angles
// (degrees), with the third vector along z.
func FromParameters(a, b, c, alpha, beta, gamma float64) (*Lattice, error) {
	ar, br, gr := radians(alpha), radians(beta), radians(gamma)
	val := (math.Cos(ar)*math.Cos(br) - math.Cos(gr)) / (math.Sin(ar) * math.Sin(br))
	val = math.Max(-1, math.Min(1, val))
	gammaStar := math.Acos(val)

	m := Mat3{
		{a * math.Sin(br), 0, a * math.Cos(br)},
		{-b * math.Sin(ar) * math.Cos(gammaStar), b * math.Sin(ar) * math.Sin(gammaStar), b * math.Cos(ar)},
		{0, 0, c},
	}
	return NewLattice(m)
}

// Cubic returns a simple cubic lattice with edge a.
func Cubic(a float64) *Lattice {
	return MustLattice(Mat3{{a, 0, 0}, {0, a, 0}, {0, 0, a}})
}

// FCC returns the primitive face-centred cubic lattice of the conventional
// cube with edge a.
func FCC(a float64) *Lattice {
	h := a / 2
	return MustLattice(Mat3{{0, h, h}, {h, 0, h}, {h, h, 0}})
}

// Matrix returns a copy of the lattice vectors.
func (l *Lattice) Matrix() Mat3 { return l.matrix }

// InvMatrix returns the inverse of the lattice matrix.
func (l *Lattice) InvMatrix() Mat3 { return l.inv }

// ABC returns the lattice vector lengths.
func (l *Lattice) ABC() [3]float64 { return l.abc }

// Angles returns alpha, beta, gamma in degrees.
func (l *Lattice) Angles() [3]float64 { return l.angles }

// Volume returns the cell volume in cubic Angstrom.
func (l *Lattice) Volume() float64 { return l.volume }

// ReciprocalMatrix returns the reciprocal lattice (with the 2*pi factor).
func (l *Lattice) ReciprocalMatrix() Mat3 {
	r := l.inv.transpose()
	for i := range 3 {
		for j := range 3 {
			r[i][j] *= 2 * math.Pi
		}
	}
	return r
}

// CartCoords converts fractional coordinates to Cartesian.
func (l *Lattice) CartCoords(frac Vec3) Vec3 {
	return rowTimes(frac, l.matrix)
}

// FracCoords converts Cartesian coordinates to fractional.
func (l *Lattice) FracCoords(cart Vec3) Vec3 {
	return rowTimes(cart, l.inv)
}

// Scaled returns a copy of the lattice with every vector multiplied by f.
func (l *Lattice) Scaled(f float64) *Lattice {
	m := l.matrix
	for i := range 3 {
		for j := range 3 {
			m[i][j] *= f
		}
	}
	return MustLattice(m)
}

// MetricsError reports a recorded lattice metric that disagrees with the
// value derived from the matrix.
type MetricsError struct {
	Field    string
	Recorded float64
	Computed float64
}

func (e *MetricsError) Error() string {
	return fmt.Sprintf("lattice %s: recorded %g, matrix gives %g", e.Field, e.Recorded, e.Computed)
}

func closeRel(a, b float64) bool {
	return math.Abs(a-b) <= metricsRelTol*math.Max(1, math.Abs(b))
}

var metricKeys = []string{"a", "b", "c", "alpha", "beta", "gamma", "volume"}

func (l *Lattice) metric(key string) *float64 {
	switch key {
	case "a":
		return &l.abc[0]
	case "b":
		return &l.abc[1]
	case "c":
		return &l.abc[2]
	case "alpha":
		return &l.angles[0]
	case "beta":
		return &l.angles[1]
	case "gamma":
		return &l.angles[2]
	case "volume":
		return &l.volume
	}
	return nil
}

// ToValue encodes the lattice as a pymatgen lattice object.
func (l *Lattice) ToValue() ir.Object {
	obj := make(ir.Object, len(l.extra)+8)
	for k, v := range l.extra {
		obj[k] = v
	}
	rows := make(ir.Array, 3)
	for i, row := range l.matrix {
		rows[i] = ir.FloatVector(row[:]...)
	}
	obj["matrix"] = rows
	for _, k := range metricKeys {
		if !l.omitted[k] {
			obj[k] = ir.Float(*l.metric(k))
		}
	}
	return obj
}

// LatticeFromValue decodes a pymatgen lattice object. Recorded metrics are
// checked against the matrix; a disagreement is returned as *MetricsError.
// Metrics within tolerance are kept as recorded.
func LatticeFromValue(v ir.Value) (*Lattice, error) {
	obj, ok := v.(ir.Object)
	if !ok {
		return nil, fmt.Errorf("lattice: expected object, got %s", ir.KindOf(v))
	}
	raw, ok := obj["matrix"]
	if !ok {
		return nil, errors.New("lattice: missing matrix")
	}
	rows, err := ir.AsMatrix(raw)
	if err != nil {
		return nil, fmt.Errorf("lattice matrix: %w", err)
	}
	m, err := toMat3(rows)
	if err != nil {
		return nil, fmt.Errorf("lattice matrix: %w", err)
	}
	l, err := NewLattice(m)
	if err != nil {
		return nil, err
	}

	known := map[string]bool{"matrix": true}
	for _, k := range metricKeys {
		known[k] = true
		rv, present := obj[k]
		if !present {
			if l.omitted == nil {
				l.omitted = make(map[string]bool)
			}
			l.omitted[k] = true
			continue
		}
		rec, ok := ir.AsFloat(rv)
		if !ok {
			return nil, fmt.Errorf("lattice %s: expected number, got %s", k, ir.KindOf(rv))
		}
		p := l.metric(k)
		if !closeRel(rec, *p) {
			return nil, &MetricsError{Field: k, Recorded: rec, Computed: *p}
		}
		*p = rec
	}
	for k, v := range obj {
		if !known[k] {
			if l.extra == nil {
				l.extra = make(ir.Object)
			}
			l.extra[k] = v
		}
	}
	return l, nil
}

func toMat3(rows [][]float64) (Mat3, error) {
	var m Mat3
	if len(rows) != 3 {
		return m, fmt.Errorf("expected 3 rows, got %d", len(rows))
	}
	for i, r := range rows {
		if len(r) != 3 {
			return m, fmt.Errorf("row %d: expected 3 components, got %d", i, len(r))
		}
		copy(m[i][:], r)
	}
	return m, nil
}

func toVec3(xs []float64) (Vec3, error) {
	var v Vec3
	if len(xs) != 3 {
		return v, fmt.Errorf("expected 3 components, got %d", len(xs))
	}
	copy(v[:], xs)
	return v, nil
}
