// Package units holds the conversion factors between ABINIT atomic units
// and the units used for reporting.
package units

// CODATA 2014 values, as used by ABINIT 8.
const (
	// BohrToAng converts Bohr radii to Angstrom.
	BohrToAng = 0.52917721067
	// AngToBohr converts Angstrom to Bohr radii.
	AngToBohr = 1 / BohrToAng
	// HaToEV converts Hartree to electron-volt.
	HaToEV = 27.21138602
	// EVToHa converts electron-volt to Hartree.
	EVToHa = 1 / HaToEV
	// HaBohr3ToGPa converts a stress in Ha/Bohr^3 to GPa.
	HaBohr3ToGPa = 29421.033
	// HaBohrToEVAng converts a force in Ha/Bohr to eV/Angstrom.
	HaBohrToEVAng = HaToEV / BohrToAng
	// AmuToGram converts atomic mass units to grams.
	AmuToGram = 1.660539040e-24
	// Ang3ToCm3 converts cubic Angstrom to cubic centimetres.
	Ang3ToCm3 = 1e-24
)

// BohrToAngVec converts a vector in Bohr to Angstrom.
func BohrToAngVec(v [3]float64) [3]float64 {
	return [3]float64{v[0] * BohrToAng, v[1] * BohrToAng, v[2] * BohrToAng}
}

// AngToBohrVec converts a vector in Angstrom to Bohr.
func AngToBohrVec(v [3]float64) [3]float64 {
	return [3]float64{v[0] * AngToBohr, v[1] * AngToBohr, v[2] * AngToBohr}
}

// HaToEVSlice converts a series of energies from Hartree to eV.
func HaToEVSlice(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x * HaToEV
	}
	return out
}
