package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nan-1212/abipy/internal/fixture"
)

// AssertionError describes an unmet expectation.
type AssertionError struct {
	Type     string // Expectation name
	Expected string
	Actual   string
	Detail   string // Optional diff or per-item report
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.Detail != "" {
		fmt.Fprintf(&buf, "\n%s", e.Detail)
	}
	return buf.String()
}

// checkValidity compares the reported codes with expect.valid and
// expect.errors. Listed codes must all be reported; others may be too.
func checkValidity(result *Result, e Expect, codes []string) {
	valid := len(codes) == 0
	if e.Valid != nil && *e.Valid != valid {
		result.AddError((&AssertionError{
			Type:     "valid",
			Expected: fmt.Sprint(*e.Valid),
			Actual:   fmt.Sprintf("%v (codes %v)", valid, codes),
		}).Error())
	}
	for _, want := range e.Errors {
		if !slices.Contains(codes, want) {
			result.AddError((&AssertionError{
				Type:     "errors",
				Expected: "code " + want,
				Actual:   fmt.Sprintf("codes %v", codes),
			}).Error())
		}
	}
}

// decodedExpectations names the expectations that need a decoded document.
func decodedExpectations(e Expect) []string {
	var names []string
	if e.RoundTrip != nil && *e.RoundTrip {
		names = append(names, "round_trip")
	}
	if e.Natom != nil {
		names = append(names, "natom")
	}
	if e.Formula != "" {
		names = append(names, "formula")
	}
	if e.Tags != nil {
		names = append(names, "tags")
	}
	if e.NumArgs != nil {
		names = append(names, "num_args")
	}
	if e.PseudosVerified != nil {
		names = append(names, "pseudos_verified")
	}
	if e.DocumentID != "" {
		names = append(names, "document_id")
	}
	return names
}

func checkDocument(result *Result, e Expect, doc *fixture.Document, id fixture.Identity) {
	in := doc.Input
	if e.Natom != nil && in.Structure.NumSites() != *e.Natom {
		result.AddError((&AssertionError{
			Type:     "natom",
			Expected: fmt.Sprint(*e.Natom),
			Actual:   fmt.Sprint(in.Structure.NumSites()),
		}).Error())
	}
	if e.Formula != "" && in.Structure.ReducedFormula() != e.Formula {
		result.AddError((&AssertionError{
			Type:     "formula",
			Expected: e.Formula,
			Actual:   in.Structure.ReducedFormula(),
		}).Error())
	}
	if e.Tags != nil && !slices.Equal(in.Tags(), e.Tags) {
		result.AddError((&AssertionError{
			Type:     "tags",
			Expected: fmt.Sprint(e.Tags),
			Actual:   fmt.Sprint(in.Tags()),
		}).Error())
	}
	if e.NumArgs != nil && in.Len() != *e.NumArgs {
		result.AddError((&AssertionError{
			Type:     "num_args",
			Expected: fmt.Sprint(*e.NumArgs),
			Actual:   fmt.Sprint(in.Len()),
		}).Error())
	}
	if e.DocumentID != "" && id.Document != e.DocumentID {
		result.AddError((&AssertionError{
			Type:     "document_id",
			Expected: e.DocumentID,
			Actual:   id.Document,
		}).Error())
	}
}
