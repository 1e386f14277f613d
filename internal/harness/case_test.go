package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var casesDir = filepath.Join("..", "..", "testdata", "cases")

// writeCase writes content to a case file in a temporary directory.
func writeCase(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "case.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fixtureAbs(t *testing.T, name string) string {
	t.Helper()
	p, err := filepath.Abs(filepath.Join("..", "..", "testdata", "fixtures", name))
	require.NoError(t, err)
	return p
}

func TestLoadCase_ResolvesRelativePaths(t *testing.T) {
	c, err := LoadCase(filepath.Join(casesDir, "alas_dfpt.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "alas_dfpt", c.Name)
	assert.Equal(t, filepath.Join(casesDir, "..", "fixtures", "alas_dfpt.json"), c.Document)
	assert.Equal(t, filepath.Join(casesDir, "..", "pseudos"), c.PseudoDir)
	require.NotNil(t, c.Expect.Natom)
	assert.Equal(t, 2, *c.Expect.Natom)
	assert.Equal(t, []string{"DFPT", "PH_Q_PERT"}, c.Expect.Tags)
}

func TestLoadCase_UnknownField(t *testing.T) {
	path := writeCase(t, `
name: typo
description: "typo in expect"
document: `+fixtureAbs(t, "alas_dfpt.json")+`
expects:
  valid: true
`)
	_, err := LoadCase(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadCase_MissingFields(t *testing.T) {
	doc := fixtureAbs(t, "alas_dfpt.json")
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"name", "description: d\ndocument: " + doc + "\n", "name is required"},
		{"description", "name: n\ndocument: " + doc + "\n", "description is required"},
		{"document", "name: n\ndescription: d\n", "document is required"},
		{"missing document file", "name: n\ndescription: d\ndocument: nope.json\n", "document not found"},
		{"valid with errors", "name: n\ndescription: d\ndocument: " + doc + "\nexpect:\n  valid: true\n  errors: [E301]\n", "errors listed for a valid document"},
		{"negative natom", "name: n\ndescription: d\ndocument: " + doc + "\nexpect:\n  natom: -1\n", "natom must be non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCase(writeCase(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadCase_MissingFile(t *testing.T) {
	_, err := LoadCase(filepath.Join(casesDir, "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read case file")
}

func TestLoadCases(t *testing.T) {
	cases, err := LoadCases(casesDir)
	require.NoError(t, err)
	require.Len(t, cases, 7)

	names := make([]string, len(cases))
	for i, c := range cases {
		names[i] = c.Name
	}
	assert.IsIncreasing(t, names)
}
