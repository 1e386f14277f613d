// Package ir provides the generic JSON value tree used for fixture documents.
//
// Typed packages (crystal, pseudo, abinput) decode into their own structs,
// but anything the toolkit does not model (ABINIT variable values, site
// properties, decorators) travels as an ir.Value. ir imports nothing
// internal; every other package may import it.
//
// Key design constraints:
//   - Int and Float stay distinct on decode (json.Number based)
//   - MarshalCanonical (RFC 8785) is the only form used for equivalence and hashing
//   - Identities are SHA-256 with a versioned domain prefix
package ir
