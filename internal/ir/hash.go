package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainDocument  = "abipy/document/v1"
	DomainStructure = "abipy/structure/v1"
	DomainInput     = "abipy/input/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ContentID hashes the canonical form of v under the given domain.
func ContentID(domain string, v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("content id (%s): %w", domain, err)
	}
	return hashWithDomain(domain, canonical), nil
}

// DocumentID computes the identity of a whole fixture document.
// Two documents with the same ID are equivalent object graphs.
func DocumentID(doc Object) (string, error) {
	return ContentID(DomainDocument, doc)
}

// StructureID computes the identity of a serialized structure.
func StructureID(structure Object) (string, error) {
	return ContentID(DomainStructure, structure)
}

// InputID computes the identity of the simulation parameters alone:
// abi_args and tags, independent of structure and pseudos.
//
// The ordered argument list is hashed as-is; reordering variables changes
// the rendered input file and therefore the identity.
func InputID(abiArgs Array, tags []string) (string, error) {
	tagArr := make(Array, len(tags))
	for i, t := range tags {
		tagArr[i] = String(t)
	}
	return ContentID(DomainInput, Object{
		"abi_args": abiArgs,
		"tags":     tagArr,
	})
}

// MustDocumentID is like DocumentID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustDocumentID(doc Object) string {
	id, err := DocumentID(doc)
	if err != nil {
		panic(err)
	}
	return id
}
