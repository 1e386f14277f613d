package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nan-1212/abipy/internal/ir"
	"github.com/nan-1212/abipy/internal/queryir"
)

func TestCompileAll(t *testing.T) {
	sql, params, err := Compile(queryir.Select{})
	require.NoError(t, err)

	assert.Equal(t, "SELECT "+SummaryColumns+" FROM documents d ORDER BY "+OrderBy, sql)
	assert.Empty(t, params)
}

func TestCompilePredicates(t *testing.T) {
	tests := []struct {
		name   string
		filter queryir.Predicate
		where  string
		params []any
	}{
		{"tag", queryir.HasTag{Tag: "DFPT"},
			"EXISTS (SELECT 1 FROM document_tags x WHERE x.document_id = d.id AND x.tag = ?)", []any{"DFPT"}},
		{"element", queryir.HasElement{Symbol: "As"},
			"EXISTS (SELECT 1 FROM document_elements x WHERE x.document_id = d.id AND x.element = ?)", []any{"As"}},
		{"pseudo md5 lowered", queryir.HasPseudo{MD5: "4074AB8722CDB8D93F5F0C754C8AAE03"},
			"EXISTS (SELECT 1 FROM document_pseudos x WHERE x.document_id = d.id AND x.md5 = ?)",
			[]any{"4074ab8722cdb8d93f5f0c754c8aae03"}},
		{"class", queryir.ClassIs{Class: "AbinitInput"}, "d.class = ?", []any{"AbinitInput"}},
		{"formula", queryir.FormulaIs{Formula: "AlAs"}, "d.formula = ?", []any{"AlAs"}},
		{"min sites", queryir.MinSites{N: 2}, "d.nsites >= ?", []any{2}},
		{"equals", queryir.Equals{Field: "nsites", Value: ir.Int(2)}, "d.nsites = ?", []any{int64(2)}},
		{"empty and", queryir.And{}, "1 = 1", nil},
		{"single and", queryir.And{Predicates: []queryir.Predicate{queryir.HasTag{Tag: "GS"}}},
			"EXISTS (SELECT 1 FROM document_tags x WHERE x.document_id = d.id AND x.tag = ?)", []any{"GS"}},
		{"and", queryir.And{Predicates: []queryir.Predicate{
			queryir.ClassIs{Class: "AbinitInput"},
			queryir.FormulaIs{Formula: "AlAs"},
		}}, "(d.class = ? AND d.formula = ?)", []any{"AbinitInput", "AlAs"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := Compile(&queryir.Select{Filter: tt.filter})
			require.NoError(t, err)

			assert.Equal(t, "SELECT "+SummaryColumns+" FROM documents d WHERE "+tt.where+" ORDER BY "+OrderBy, sql)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestCompileNeverInterpolates(t *testing.T) {
	evil := "x' OR '1'='1"
	sql, params, err := Compile(queryir.Select{Filter: queryir.And{Predicates: []queryir.Predicate{
		queryir.HasTag{Tag: evil},
		queryir.FormulaIs{Formula: evil},
	}}})
	require.NoError(t, err)

	assert.NotContains(t, sql, evil)
	assert.Equal(t, []any{evil, evil}, params)
}

func TestCompileLimit(t *testing.T) {
	sql, params, err := Compile(queryir.Select{Filter: queryir.MinSites{N: 1}, Limit: 5})
	require.NoError(t, err)

	assert.Contains(t, sql, "ORDER BY "+OrderBy+" LIMIT ?")
	assert.Equal(t, []any{1, 5}, params)
}

func TestCompileRejectsInvalid(t *testing.T) {
	_, _, err := Compile(queryir.Select{Filter: queryir.Equals{Field: "canonical", Value: ir.String("x")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown column")

	_, _, err = Compile(nil)
	assert.Error(t, err)
}

func TestOrderBy_CollationBeforeDirection(t *testing.T) {
	// SQLite only accepts COLLATE ahead of ASC/DESC in an ordering term.
	assert.Equal(t, "d.formula COLLATE BINARY ASC, d.id COLLATE BINARY ASC", OrderBy)
	assert.NotContains(t, OrderBy, "ASC COLLATE")
}
