package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nan-1212/abipy/internal/ir"
)

func TestBeginImport(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.BeginImport(ctx, "testdata/fixtures")
	require.NoError(t, err)
	second, err := s.BeginImport(ctx, "elsewhere")
	require.NoError(t, err)

	id, err := uuid.Parse(first.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())

	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, int64(2), second.Seq)
	assert.Equal(t, ir.ToolVersion, first.ToolVersion)
	assert.Equal(t, ir.SchemaVersion, first.SchemaVersion)

	imports, err := s.Imports(ctx)
	require.NoError(t, err)
	require.Len(t, imports, 2)
	assert.Equal(t, *first, imports[0])
	assert.Equal(t, "elsewhere", imports[1].Source)
}

func TestNewRecord(t *testing.T) {
	in := loadInput(t, "alas_dfpt.json")

	rec, err := NewRecord(in)
	require.NoError(t, err)

	assert.Equal(t, ir.MustDocumentID(in.ToValue()), rec.ID)
	assert.Equal(t, "AbinitInput", rec.Class)
	assert.Equal(t, "AlAs", rec.Formula)
	assert.Equal(t, "Al1 As1", rec.FullFormula)
	assert.Equal(t, 2, rec.NumSites)
	assert.Nil(t, rec.Comment)
	assert.Equal(t, []string{"DFPT", "PH_Q_PERT"}, rec.Tags)
	assert.Equal(t, []string{"Al", "As"}, rec.Elements)
	require.Len(t, rec.Pseudos, 2)
	assert.Equal(t, "33as.pspnc", rec.Pseudos[1].Basename)

	canonical, err := ir.MarshalCanonical(in.ToValue())
	require.NoError(t, err)
	assert.Equal(t, string(canonical), rec.Canonical)
}

func TestPutDocument_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	in := loadInput(t, "alas_dfpt.json")

	imp, err := s.BeginImport(ctx, "first")
	require.NoError(t, err)
	rec, err := NewRecord(in)
	require.NoError(t, err)

	inserted, err := s.PutDocument(ctx, imp.ID, rec)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, imp.ID, rec.ImportID)
	assert.Equal(t, int64(1), rec.Seq)

	again, err := s.BeginImport(ctx, "second")
	require.NoError(t, err)
	dup, err := NewRecord(in)
	require.NoError(t, err)
	inserted, err = s.PutDocument(ctx, again.ID, dup)
	require.NoError(t, err)
	assert.False(t, inserted, "same content must not be stored twice")

	got, err := s.GetDocument(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, imp.ID, got.ImportID, "first import wins")

	var tags int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM document_tags").Scan(&tags))
	assert.Equal(t, 2, tags)
}

func TestPutDocument_UnknownImport(t *testing.T) {
	s := createTestStore(t)
	rec, err := NewRecord(loadInput(t, "alas_dfpt.json"))
	require.NoError(t, err)

	_, err = s.PutDocument(context.Background(), "no-such-import", rec)
	assert.Error(t, err, "foreign key on import_id must be enforced")
}
