// Package harness runs conformance cases against fixture documents.
//
// # Case Format
//
// Cases are YAML files; paths are relative to the case file:
//
//	name: alas_dfpt
//	description: "AlAs DFPT input decodes, validates and round-trips"
//	document: ../fixtures/alas_dfpt.json
//	pseudo_dir: ../pseudos
//	golden: alas_dfpt
//	expect:
//	  valid: true
//	  round_trip: true
//	  natom: 2
//	  formula: AlAs
//	  tags: [DFPT, PH_Q_PERT]
//	  num_args: 17
//	  pseudos_verified: true
//
// For documents that must be rejected, expect.errors lists the validation
// codes (E2xx, E3xx) that have to be reported.
//
// Every expectation is optional; omitted ones are not checked. Unknown
// fields are rejected so that typos do not silently disable checks.
//
// Each run also stores the document in a fresh in-memory catalog and
// reads it back, so a case checks the catalog encoding as well.
//
// # Golden Renderings
//
// RunWithGolden additionally compares the ABINIT rendering of the document
// with a goldie golden file. Regenerate with:
//
//	go test ./internal/harness -update
package harness
