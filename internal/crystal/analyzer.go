package crystal

// RelaxationAnalyzer compares the initial and final structures of a
// relaxation.
type RelaxationAnalyzer struct {
	Initial *Structure
	Final   *Structure
}

// NewRelaxationAnalyzer returns an analyzer for the two structures.
func NewRelaxationAnalyzer(initial, final *Structure) *RelaxationAnalyzer {
	return &RelaxationAnalyzer{Initial: initial, Final: final}
}

// VolumeChange returns the fractional volume change, final/initial - 1.
func (r *RelaxationAnalyzer) VolumeChange() float64 {
	return r.Final.Lattice.Volume()/r.Initial.Lattice.Volume() - 1
}

// LatticeParameterChanges returns the fractional change of a, b and c.
func (r *RelaxationAnalyzer) LatticeParameterChanges() map[string]float64 {
	i, f := r.Initial.Lattice.ABC(), r.Final.Lattice.ABC()
	return map[string]float64{
		"a": f[0]/i[0] - 1,
		"b": f[1]/i[1] - 1,
		"c": f[2]/i[2] - 1,
	}
}
