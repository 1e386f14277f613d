package store

import (
	"fmt"

	"github.com/nan-1212/abipy/internal/abinput"
	"github.com/nan-1212/abipy/internal/ir"
)

// Record is one catalogued document with its search keys.
type Record struct {
	ID          string
	Module      string
	Class       string
	Formula     string
	FullFormula string
	NumSites    int
	Comment     *string
	Canonical   string
	StructureID string
	InputID     string
	ImportID    string
	Seq         int64

	Tags     []string
	Elements []string
	Pseudos  []PseudoRef
}

// PseudoRef is a pseudopotential referenced by a catalogued document.
type PseudoRef struct {
	DocumentID string `json:"document_id"`
	Position   int    `json:"position"`
	MD5        string `json:"md5"`
	Symbol     string `json:"symbol"`
	Basename   string `json:"basename"`
}

// NewRecord derives the catalog record of in. The document id is computed
// over the canonical JSON of the encoded input.
func NewRecord(in *abinput.Input) (*Record, error) {
	obj := in.ToValue()
	canonical, err := ir.MarshalCanonical(obj)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	id, err := ir.DocumentID(obj)
	if err != nil {
		return nil, err
	}
	structureID, err := ir.StructureID(in.Structure.ToValue())
	if err != nil {
		return nil, err
	}
	inputID, err := in.InputID()
	if err != nil {
		return nil, err
	}

	rec := &Record{
		ID:          id,
		Module:      in.Module,
		Class:       in.Class,
		Formula:     in.Structure.ReducedFormula(),
		FullFormula: in.Structure.Formula(),
		NumSites:    in.Structure.NumSites(),
		Comment:     in.Comment,
		Canonical:   string(canonical),
		StructureID: structureID,
		InputID:     inputID,
		Tags:        in.Tags(),
		Elements:    in.Structure.Types(),
	}
	for i, p := range in.Pseudos {
		rec.Pseudos = append(rec.Pseudos, PseudoRef{
			DocumentID: id,
			Position:   i,
			MD5:        normalizeMD5(p.MD5),
			Symbol:     p.Symbol,
			Basename:   p.Basename,
		})
	}
	return rec, nil
}

// Document decodes the stored canonical JSON back into an input.
func (r *Record) Document() (*abinput.Input, error) {
	v, err := ir.Unmarshal([]byte(r.Canonical))
	if err != nil {
		return nil, fmt.Errorf("unmarshal document %s: %w", r.ID, err)
	}
	return abinput.FromValue(v)
}
