package queryir

import (
	"fmt"
	"regexp"

	"github.com/nan-1212/abipy/internal/ir"
	"github.com/nan-1212/abipy/internal/periodic"
)

var md5Pattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

// Validate checks a query and returns every problem found. A nil result
// means the query can be compiled.
func Validate(q Query) []error {
	v := &validator{}
	v.validateQuery(q)
	return v.errs
}

type validator struct {
	errs []error
}

func (v *validator) addError(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case Select:
		v.validateSelect(query)
	case *Select:
		if query == nil {
			v.addError("nil query")
			return
		}
		v.validateSelect(*query)
	case nil:
		v.addError("nil query")
	default:
		v.addError("unknown query type %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	if sel.Limit < 0 {
		v.addError("negative limit %d", sel.Limit)
	}
	if sel.Filter != nil {
		v.validatePredicate(sel.Filter)
	}
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case HasTag:
		if pred.Tag == "" {
			v.addError("empty tag")
		}
	case HasElement:
		if !periodic.IsSymbol(pred.Symbol) {
			v.addError("unknown element %q", pred.Symbol)
		}
	case HasPseudo:
		if !md5Pattern.MatchString(pred.MD5) {
			v.addError("malformed md5 %q", pred.MD5)
		}
	case ClassIs:
		if pred.Class == "" {
			v.addError("empty class")
		}
	case FormulaIs:
		if pred.Formula == "" {
			v.addError("empty formula")
		}
	case MinSites:
		if pred.N < 0 {
			v.addError("negative site count %d", pred.N)
		}
	case Equals:
		v.validateEquals(pred)
	case And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	case nil:
		v.addError("nil predicate")
	default:
		v.addError("unknown predicate type %T", p)
	}
}

func (v *validator) validateEquals(eq Equals) {
	if !IsColumn(eq.Field) {
		v.addError("unknown column %q", eq.Field)
	}
	switch eq.Value.(type) {
	case ir.String, ir.Int:
	case nil, ir.Null:
		v.addError("column %q compared to null", eq.Field)
	default:
		v.addError("column %q compared to %s; only strings and integers are comparable", eq.Field, ir.KindOf(eq.Value))
	}
}
