package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nan-1212/abipy/internal/ir"
)

// Import is a batch of documents added together.
type Import struct {
	ID            string `json:"id"`
	Source        string `json:"source"`
	ToolVersion   string `json:"tool_version"`
	SchemaVersion string `json:"schema_version"`
	Seq           int64  `json:"seq"`
}

// BeginImport records a new import batch for source.
func (s *Store) BeginImport(ctx context.Context, source string) (*Import, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	seq, err := nextSeq(ctx, tx, "imports")
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	imp := &Import{
		ID:            id.String(),
		Source:        source,
		ToolVersion:   ir.ToolVersion,
		SchemaVersion: ir.SchemaVersion,
		Seq:           seq,
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO imports (id, source, tool_version, schema_version, seq)
		VALUES (?, ?, ?, ?, ?)
	`, imp.ID, imp.Source, imp.ToolVersion, imp.SchemaVersion, imp.Seq)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("begin import: commit: %w", err)
	}
	return imp, nil
}

// PutDocument stores rec under the import importID. Documents are keyed by
// content, so storing an existing document returns inserted=false and
// leaves the first import in place.
func (s *Store) PutDocument(ctx context.Context, importID string, rec *Record) (inserted bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("put document: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	seq, err := nextSeq(ctx, tx, "documents")
	if err != nil {
		return false, fmt.Errorf("put document: %w", err)
	}

	var comment any
	if rec.Comment != nil {
		comment = *rec.Comment
	}
	result, err := tx.ExecContext(ctx, `
		INSERT INTO documents
		(id, module, class, formula, full_formula, nsites, comment, canonical, structure_id, input_id, import_id, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID, rec.Module, rec.Class, rec.Formula, rec.FullFormula, rec.NumSites,
		comment, rec.Canonical, rec.StructureID, rec.InputID, importID, seq,
	)
	if err != nil {
		return false, fmt.Errorf("put document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("put document: rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	for i, tag := range rec.Tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO document_tags (document_id, tag, position) VALUES (?, ?, ?)",
			rec.ID, tag, i); err != nil {
			return false, fmt.Errorf("put document: tag %q: %w", tag, err)
		}
	}
	for _, el := range rec.Elements {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO document_elements (document_id, element) VALUES (?, ?)",
			rec.ID, el); err != nil {
			return false, fmt.Errorf("put document: element %s: %w", el, err)
		}
	}
	for _, p := range rec.Pseudos {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO document_pseudos (document_id, position, md5, symbol, basename) VALUES (?, ?, ?, ?, ?)",
			rec.ID, p.Position, normalizeMD5(p.MD5), p.Symbol, p.Basename); err != nil {
			return false, fmt.Errorf("put document: pseudo %s: %w", p.Basename, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("put document: commit: %w", err)
	}
	rec.ImportID = importID
	rec.Seq = seq
	return true, nil
}

// nextSeq returns the next logical sequence number of table.
func nextSeq(ctx context.Context, tx *sql.Tx, table string) (int64, error) {
	var seq int64
	err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) + 1 FROM "+table).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next seq of %s: %w", table, err)
	}
	return seq, nil
}

func normalizeMD5(md5 string) string {
	return strings.ToLower(md5)
}
