// Package schema validates raw fixture documents against an embedded CUE
// schema before they are decoded into typed values.
package schema

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/nan-1212/abipy/internal/ir"
)

// Validation error codes (E200-E299)
const (
	ErrMalformedJSON    = "E201" // document is not valid JSON
	ErrSchemaMismatch   = "E202" // value does not match the CUE schema
	ErrMissingKey       = "E203" // required top-level key absent
	ErrBadDiscriminator = "E204" // @module/@class not an AbinitInput
)

// Expected discriminators of a fixture document.
const (
	DocumentModule = "abipy.abio.inputs"
	DocumentClass  = "AbinitInput"
)

// RequiredKeys are the top-level keys every document carries.
var RequiredKeys = []string{"@module", "@class", "structure", "pseudos", "comment", "decorators", "abi_args", "tags"}

//go:embed document.cue
var documentSchema string

const dataFile = "document.json"

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validator checks documents against the compiled schema. A cue.Context is
// not safe for concurrent use, so calls are serialised.
type Validator struct {
	mu  sync.Mutex
	ctx *cue.Context
	def cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(documentSchema, cue.Filename("document.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile document schema: %w", err)
	}
	def := v.LookupPath(cue.ParsePath("#Document"))
	if !def.Exists() {
		return nil, fmt.Errorf("document schema has no #Document definition")
	}
	return &Validator{ctx: ctx, def: def}, nil
}

var defaultValidator = sync.OnceValues(NewValidator)

// ValidateDocument validates data with the embedded schema.
// Returns all errors found (does not fail-fast).
func ValidateDocument(data []byte) []ValidationError {
	v, err := defaultValidator()
	if err != nil {
		return []ValidationError{{Field: "schema", Message: err.Error(), Code: ErrSchemaMismatch}}
	}
	return v.Validate(data)
}

// Validate checks data and returns every violation, sorted by field.
func (v *Validator) Validate(data []byte) []ValidationError {
	val, err := ir.Unmarshal(data)
	if err != nil {
		return []ValidationError{{Field: "$", Message: err.Error(), Code: ErrMalformedJSON}}
	}
	obj, ok := val.(ir.Object)
	if !ok {
		return []ValidationError{{Field: "$", Message: "document must be a JSON object, got " + ir.KindOf(val), Code: ErrSchemaMismatch}}
	}

	errs := checkTopLevel(obj)
	errs = append(errs, v.checkShape(data)...)
	slices.SortStableFunc(errs, func(a, b ValidationError) int {
		return strings.Compare(a.Field, b.Field)
	})
	return slices.Compact(errs)
}

func checkTopLevel(obj ir.Object) []ValidationError {
	var errs []ValidationError
	for _, k := range RequiredKeys {
		if _, ok := obj[k]; !ok {
			errs = append(errs, ValidationError{
				Field:   k,
				Message: "required key is missing",
				Code:    ErrMissingKey,
			})
		}
	}
	want := map[string]string{"@module": DocumentModule, "@class": DocumentClass}
	for _, k := range []string{"@module", "@class"} {
		got, present := obj[k]
		if !present {
			continue
		}
		if s, ok := got.(ir.String); !ok || string(s) != want[k] {
			errs = append(errs, ValidationError{
				Field:   k,
				Message: fmt.Sprintf("expected %q, got %s", want[k], describe(got)),
				Code:    ErrBadDiscriminator,
			})
		}
	}
	return append(errs, checkTags(obj["tags"])...)
}

// checkTags reports repeated tags; the tag list is a set.
func checkTags(v ir.Value) []ValidationError {
	tags, ok := v.(ir.Array)
	if !ok {
		return nil
	}
	var errs []ValidationError
	seen := make(map[string]bool, len(tags))
	for i, t := range tags {
		s, ok := t.(ir.String)
		if !ok {
			continue
		}
		if seen[string(s)] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("tags.%d", i),
				Message: fmt.Sprintf("duplicate tag %q", string(s)),
				Code:    ErrSchemaMismatch,
			})
		}
		seen[string(s)] = true
	}
	return errs
}

func describe(v ir.Value) string {
	if s, ok := v.(ir.String); ok {
		return fmt.Sprintf("%q", string(s))
	}
	return ir.KindOf(v)
}

func (v *Validator) checkShape(data []byte) []ValidationError {
	expr, err := cuejson.Extract(dataFile, data)
	if err != nil {
		return []ValidationError{{Field: "$", Message: err.Error(), Code: ErrMalformedJSON}}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	doc := v.ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return []ValidationError{{Field: "$", Message: err.Error(), Code: ErrMalformedJSON}}
	}
	err = v.def.Unify(doc).Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var errs []ValidationError
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		ve := ValidationError{
			Field:   fieldPath(e.Path()),
			Message: fmt.Sprintf(format, args...),
			Code:    ErrSchemaMismatch,
		}
		for _, p := range cueerrors.Positions(e) {
			if p.Filename() == dataFile {
				ve.Line = p.Line()
				break
			}
		}
		errs = append(errs, ve)
	}
	return errs
}

// fieldPath drops the definition root CUE puts in front of error paths,
// so shape errors name fields the same way as the other checks.
func fieldPath(path []string) string {
	if len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	if len(path) == 0 {
		return "$"
	}
	return strings.Join(path, ".")
}

// HasCode reports whether any error carries code.
func HasCode(errs []ValidationError, code string) bool {
	return slices.ContainsFunc(errs, func(e ValidationError) bool { return e.Code == code })
}
