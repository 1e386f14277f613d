package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nan-1212/abipy/internal/abinput"
	"github.com/nan-1212/abipy/internal/testutil"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// loadInput decodes a fixture from testdata/fixtures.
func loadInput(t *testing.T, name string) *abinput.Input {
	t.Helper()
	return testutil.LoadInput(t, name)
}

// putInput stores in under a fresh import and returns its record.
func putInput(t *testing.T, s *Store, in *abinput.Input) *Record {
	t.Helper()
	ctx := context.Background()
	imp, err := s.BeginImport(ctx, "test")
	if err != nil {
		t.Fatalf("BeginImport() failed: %v", err)
	}
	rec, err := NewRecord(in)
	if err != nil {
		t.Fatalf("NewRecord() failed: %v", err)
	}
	if _, err := s.PutDocument(ctx, imp.ID, rec); err != nil {
		t.Fatalf("PutDocument() failed: %v", err)
	}
	return rec
}
