package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nan-1212/abipy/internal/queryir"
	"github.com/nan-1212/abipy/internal/querysql"
)

// ErrAmbiguous is returned when an id prefix matches several documents.
var ErrAmbiguous = errors.New("ambiguous id prefix")

// Summary is the listing view of a catalogued document.
type Summary struct {
	ID          string `json:"id"`
	Class       string `json:"class"`
	Formula     string `json:"formula"`
	NumSites    int    `json:"nsites"`
	StructureID string `json:"structure_id"`
	InputID     string `json:"input_id"`
	ImportID    string `json:"import_id"`
	Seq         int64  `json:"seq"`
}

// GetDocument returns the document with the given id, including its
// canonical JSON and search keys.
func (s *Store) GetDocument(ctx context.Context, id string) (*Record, error) {
	var rec Record
	var comment sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, module, class, formula, full_formula, nsites, comment, canonical,
		       structure_id, input_id, import_id, seq
		FROM documents
		WHERE id = ?
	`, id).Scan(
		&rec.ID, &rec.Module, &rec.Class, &rec.Formula, &rec.FullFormula, &rec.NumSites,
		&comment, &rec.Canonical, &rec.StructureID, &rec.InputID, &rec.ImportID, &rec.Seq,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if comment.Valid {
		rec.Comment = &comment.String
	}

	if rec.Tags, err = s.readStrings(ctx,
		"SELECT tag FROM document_tags WHERE document_id = ? ORDER BY position ASC", id); err != nil {
		return nil, fmt.Errorf("get document tags: %w", err)
	}
	if rec.Elements, err = s.readStrings(ctx,
		"SELECT element FROM document_elements WHERE document_id = ? ORDER BY element COLLATE BINARY ASC", id); err != nil {
		return nil, fmt.Errorf("get document elements: %w", err)
	}
	if rec.Pseudos, err = s.readPseudos(ctx,
		"SELECT document_id, position, md5, symbol, basename FROM document_pseudos WHERE document_id = ? ORDER BY position ASC", id); err != nil {
		return nil, fmt.Errorf("get document pseudos: %w", err)
	}
	return &rec, nil
}

// ResolveID expands a unique id prefix to the full document id.
func (s *Store) ResolveID(ctx context.Context, prefix string) (string, error) {
	ids, err := s.readStrings(ctx, `
		SELECT id FROM documents
		WHERE substr(id, 1, length(?1)) = ?1
		ORDER BY id COLLATE BINARY ASC
		LIMIT 2
	`, prefix)
	if err != nil {
		return "", fmt.Errorf("resolve id: %w", err)
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("document %s: %w", prefix, ErrNotFound)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguous, prefix)
	}
}

// ListDocuments returns every document ordered by formula then id.
func (s *Store) ListDocuments(ctx context.Context) ([]Summary, error) {
	return s.Find(ctx, queryir.Select{})
}

// Find returns the documents matching q ordered by formula then id.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) Find(ctx context.Context, q queryir.Query) ([]Summary, error) {
	query, params, err := querysql.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.Class, &sum.Formula, &sum.NumSites,
			&sum.StructureID, &sum.InputID, &sum.ImportID, &sum.Seq); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

// PseudosByMD5 returns every pseudopotential reference with the given md5
// (case-insensitive), ordered by document id then position.
func (s *Store) PseudosByMD5(ctx context.Context, md5 string) ([]PseudoRef, error) {
	refs, err := s.readPseudos(ctx, `
		SELECT document_id, position, md5, symbol, basename
		FROM document_pseudos
		WHERE md5 = ?
		ORDER BY document_id COLLATE BINARY ASC, position ASC
	`, normalizeMD5(md5))
	if err != nil {
		return nil, fmt.Errorf("pseudos by md5: %w", err)
	}
	return refs, nil
}

// Imports returns every import batch in sequence order.
func (s *Store) Imports(ctx context.Context) ([]Import, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, tool_version, schema_version, seq
		FROM imports
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	out := []Import{}
	for rows.Next() {
		var imp Import
		if err := rows.Scan(&imp.ID, &imp.Source, &imp.ToolVersion, &imp.SchemaVersion, &imp.Seq); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		out = append(out, imp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate imports: %w", err)
	}
	return out, nil
}

func (s *Store) readStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) readPseudos(ctx context.Context, query string, args ...any) ([]PseudoRef, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PseudoRef{}
	for rows.Next() {
		var p PseudoRef
		if err := rows.Scan(&p.DocumentID, &p.Position, &p.MD5, &p.Symbol, &p.Basename); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
