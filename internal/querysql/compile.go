// Package querysql compiles catalog queries to parameterised SQLite SQL.
package querysql

import (
	"fmt"
	"strings"

	"github.com/nan-1212/abipy/internal/ir"
	"github.com/nan-1212/abipy/internal/queryir"
)

// SummaryColumns is the column list every compiled query selects, in scan
// order.
const SummaryColumns = "d.id, d.class, d.formula, d.nsites, d.structure_id, d.input_id, d.import_id, d.seq"

// OrderBy is the ordering of every compiled query.
const OrderBy = "d.formula COLLATE BINARY ASC, d.id COLLATE BINARY ASC"

// Compile converts q to SQL and its parameters. Values are always bound
// as parameters, never interpolated.
func Compile(q queryir.Query) (string, []any, error) {
	if errs := queryir.Validate(q); len(errs) > 0 {
		return "", nil, fmt.Errorf("invalid query: %w", errs[0])
	}

	var sel queryir.Select
	switch query := q.(type) {
	case queryir.Select:
		sel = query
	case *queryir.Select:
		sel = *query
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}

	var sb strings.Builder
	var params []any
	sb.WriteString("SELECT " + SummaryColumns + " FROM documents d")
	if sel.Filter != nil {
		where, p, err := compilePredicate(sel.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		sb.WriteString(" WHERE " + where)
		params = p
	}
	sb.WriteString(" ORDER BY " + OrderBy)
	if sel.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		params = append(params, sel.Limit)
	}
	return sb.String(), params, nil
}

func compilePredicate(p queryir.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case queryir.HasTag:
		return exists("document_tags", "tag = ?"), []any{pred.Tag}, nil
	case queryir.HasElement:
		return exists("document_elements", "element = ?"), []any{pred.Symbol}, nil
	case queryir.HasPseudo:
		return exists("document_pseudos", "md5 = ?"), []any{strings.ToLower(pred.MD5)}, nil
	case queryir.ClassIs:
		return "d.class = ?", []any{pred.Class}, nil
	case queryir.FormulaIs:
		return "d.formula = ?", []any{pred.Formula}, nil
	case queryir.MinSites:
		return "d.nsites >= ?", []any{pred.N}, nil
	case queryir.Equals:
		return compileEquals(pred)
	case queryir.And:
		return compileAnd(pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func exists(table, cond string) string {
	return fmt.Sprintf("EXISTS (SELECT 1 FROM %s x WHERE x.document_id = d.id AND x.%s)", table, cond)
}

func compileEquals(eq queryir.Equals) (string, []any, error) {
	if !queryir.IsColumn(eq.Field) {
		return "", nil, fmt.Errorf("unknown column %q", eq.Field)
	}
	param, err := valueToParam(eq.Value)
	if err != nil {
		return "", nil, fmt.Errorf("column %s: %w", eq.Field, err)
	}
	return fmt.Sprintf("d.%s = ?", eq.Field), []any{param}, nil
}

func compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}
	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, pred := range and.Predicates {
		sql, p, err := compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		params = append(params, p...)
	}
	if len(parts) == 1 {
		return parts[0], params, nil
	}
	return "(" + strings.Join(parts, " AND ") + ")", params, nil
}

func valueToParam(v ir.Value) (any, error) {
	switch val := v.(type) {
	case ir.String:
		return string(val), nil
	case ir.Int:
		return int64(val), nil
	default:
		return nil, fmt.Errorf("unsupported value for SQL parameter: %s", ir.KindOf(v))
	}
}
