package queryir

import "github.com/nan-1212/abipy/internal/ir"

// Query is the root of a catalog query.
type Query interface {
	queryNode()
}

// Predicate filters catalog documents.
type Predicate interface {
	predicateNode()
}

// Select returns the documents matching Filter (all documents when nil),
// at most Limit of them when Limit > 0.
type Select struct {
	Filter Predicate
	Limit  int
}

func (Select) queryNode() {}

// HasTag matches documents carrying Tag.
type HasTag struct {
	Tag string
}

func (HasTag) predicateNode() {}

// HasElement matches documents whose structure contains Symbol.
type HasElement struct {
	Symbol string
}

func (HasElement) predicateNode() {}

// HasPseudo matches documents referencing a pseudopotential with the
// given md5 (case-insensitive).
type HasPseudo struct {
	MD5 string
}

func (HasPseudo) predicateNode() {}

// ClassIs matches documents whose top-level @class is Class.
type ClassIs struct {
	Class string
}

func (ClassIs) predicateNode() {}

// FormulaIs matches documents whose reduced formula is Formula, e.g. "AlAs".
type FormulaIs struct {
	Formula string
}

func (FormulaIs) predicateNode() {}

// MinSites matches documents whose structure has at least N sites.
type MinSites struct {
	N int
}

func (MinSites) predicateNode() {}

// Equals compares a catalog column with a literal. Field must be one of
// Columns.
type Equals struct {
	Field string
	Value ir.Value
}

func (Equals) predicateNode() {}

// And matches when every predicate matches. An empty And matches
// everything.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Columns lists the document columns Equals may reference.
var Columns = []string{"class", "formula", "nsites", "structure_id", "input_id", "import_id"}

// IsColumn reports whether name is one of Columns.
func IsColumn(name string) bool {
	for _, c := range Columns {
		if c == name {
			return true
		}
	}
	return false
}
