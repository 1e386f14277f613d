// Package testutil provides test helpers shared by packages that work on
// the documents under testdata/.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/nan-1212/abipy/internal/abinput"
	"github.com/nan-1212/abipy/internal/ir"
)

// TestdataDir returns the absolute path of the repository testdata
// directory, independent of the working directory of the test.
func TestdataDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("testutil: cannot locate source file")
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "testdata")
}

// Path joins elem onto the testdata directory.
func Path(elem ...string) string {
	return filepath.Join(append([]string{TestdataDir()}, elem...)...)
}

// FixturePath returns the path of a fixture document.
func FixturePath(name string) string {
	return Path("fixtures", name)
}

// ReadFixture returns the bytes of a fixture document.
func ReadFixture(t testing.TB, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(FixturePath(name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return data
}

// LoadInput decodes a fixture document without running the schema or
// semantic checks, so invalid fixtures load too.
func LoadInput(t testing.TB, name string) *abinput.Input {
	t.Helper()
	v, err := ir.Unmarshal(ReadFixture(t, name))
	if err != nil {
		t.Fatalf("unmarshal fixture %s: %v", name, err)
	}
	in, err := abinput.FromValue(v)
	if err != nil {
		t.Fatalf("decode fixture %s: %v", name, err)
	}
	return in
}

// GaAsVariant returns the AlAs DFPT fixture with Al replaced by Ga and the
// PH_Q_PERT tag removed. The pseudopotentials are left untouched, so the
// result is only meant for catalog and query tests.
func GaAsVariant(t testing.TB) *abinput.Input {
	t.Helper()
	in := LoadInput(t, "alas_dfpt.json")
	in.Structure.Sites[0].Species[0].Element = "Ga"
	in.RemoveTags("PH_Q_PERT")
	return in
}
