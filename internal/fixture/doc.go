// Package fixture loads AbinitInput documents and checks the properties a
// fixture must hold: schema conformance, structure and pseudopotential
// invariants, canonical round-trip and pseudopotential checksums.
//
// Error codes:
//
//	E201-E204  raw document (see package schema)
//	E301       site xyz disagrees with lattice * abc
//	E302       occupancy out of range
//	E303       element without pseudopotential
//	E304       element with several pseudopotentials, or extra pseudopotentials
//	E305       recorded lattice metrics disagree with the matrix
//	E306       duplicate variable in abi_args
//	E307       geometry variable set in abi_args
//	E308       disordered structure
//	E309       typed decoding failed
package fixture
