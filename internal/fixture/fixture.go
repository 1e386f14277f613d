package fixture

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/nan-1212/abipy/internal/abinput"
	"github.com/nan-1212/abipy/internal/crystal"
	"github.com/nan-1212/abipy/internal/ir"
	"github.com/nan-1212/abipy/internal/logging"
	"github.com/nan-1212/abipy/internal/pseudo"
	"github.com/nan-1212/abipy/internal/schema"
)

// Semantic validation codes (E300-E399)
const (
	ErrCoordinateMismatch = "E301"
	ErrOccupancy          = "E302"
	ErrMissingPseudo      = "E303"
	ErrDuplicatePseudo    = "E304"
	ErrLatticeMetrics     = "E305"
	ErrDuplicateVariable  = "E306"
	ErrStructureVariable  = "E307"
	ErrDisordered         = "E308"
	ErrDecode             = "E309"
)

func logger() *slog.Logger {
	return logging.New("fixture")
}

// Document is a decoded fixture.
type Document struct {
	Path  string
	Raw   ir.Object
	Input *abinput.Input
}

// Error carries the validation errors that stopped a document from loading.
type Error struct {
	Errors []schema.ValidationError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Error()
	}
	return "invalid document: " + strings.Join(msgs, "; ")
}

// Load reads and decodes the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load fixture: %w", err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	doc.Path = path
	logger().Debug("fixture loaded",
		"path", path,
		"formula", doc.Input.Structure.Formula(),
		"num_args", doc.Input.Len())
	return doc, nil
}

// Decode checks data against the schema, then decodes it. Failures are
// returned as *Error.
func Decode(data []byte) (*Document, error) {
	if errs := schema.ValidateDocument(data); len(errs) > 0 {
		return nil, &Error{Errors: errs}
	}
	v, err := ir.Unmarshal(data)
	if err != nil {
		return nil, &Error{Errors: []schema.ValidationError{{Field: "$", Message: err.Error(), Code: schema.ErrMalformedJSON}}}
	}
	raw := v.(ir.Object)

	in, err := abinput.FromValue(raw)
	if err != nil {
		return nil, &Error{Errors: []schema.ValidationError{decodeError(err)}}
	}
	return &Document{Raw: raw, Input: in}, nil
}

func decodeError(err error) schema.ValidationError {
	var me *crystal.MetricsError
	switch {
	case errors.As(err, &me):
		return schema.ValidationError{Field: "structure.lattice." + me.Field, Message: me.Error(), Code: ErrLatticeMetrics}
	case errors.Is(err, abinput.ErrDuplicateKey):
		return schema.ValidationError{Field: "abi_args", Message: err.Error(), Code: ErrDuplicateVariable}
	default:
		return schema.ValidationError{Field: "$", Message: err.Error(), Code: ErrDecode}
	}
}

// Validate checks the semantic invariants of a decoded document and returns
// all violations.
func Validate(doc *Document) []schema.ValidationError {
	var errs []schema.ValidationError
	for _, v := range doc.Input.Structure.Validate() {
		code := ErrOccupancy
		if v.Kind == crystal.CoordinateMismatch {
			code = ErrCoordinateMismatch
		}
		errs = append(errs, schema.ValidationError{
			Field:   fmt.Sprintf("structure.sites.%d", v.Site),
			Message: v.Message,
			Code:    code,
		})
	}

	for _, err := range abinput.Validate(doc.Input) {
		ve := schema.ValidationError{Message: err.Error()}
		switch {
		case errors.Is(err, pseudo.ErrMissingPseudo):
			ve.Field, ve.Code = "pseudos", ErrMissingPseudo
		case errors.Is(err, pseudo.ErrAlchemicalMixing), errors.Is(err, abinput.ErrPseudoCount):
			ve.Field, ve.Code = "pseudos", ErrDuplicatePseudo
		case errors.Is(err, abinput.ErrStructureVariable):
			ve.Field, ve.Code = "abi_args", ErrStructureVariable
		case errors.Is(err, crystal.ErrDisordered):
			ve.Field, ve.Code = "structure.sites", ErrDisordered
		default:
			ve.Field, ve.Code = "$", ErrDecode
		}
		errs = append(errs, ve)
	}

	if len(errs) > 0 {
		logger().Info("fixture invalid", "path", doc.Path, "errors", len(errs))
	}
	return errs
}

// Identity holds the content identities of a document.
type Identity struct {
	Document  string `json:"document_id"`
	Structure string `json:"structure_id"`
	Input     string `json:"input_id"`
}

// Identify computes the identities of the re-encoded document.
func Identify(doc *Document) (Identity, error) {
	var id Identity
	var err error
	obj := doc.Input.ToValue()
	if id.Document, err = ir.DocumentID(obj); err != nil {
		return Identity{}, err
	}
	if id.Structure, err = ir.StructureID(doc.Input.Structure.ToValue()); err != nil {
		return Identity{}, err
	}
	if id.Input, err = doc.Input.InputID(); err != nil {
		return Identity{}, err
	}
	return id, nil
}
