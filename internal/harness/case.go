package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Case is one conformance case.
type Case struct {
	// Name uniquely identifies the case and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the case checks.
	Description string `yaml:"description"`

	// Document is the path of the fixture document.
	Document string `yaml:"document"`

	// PseudoDir relocates pseudopotential files for checksum checks.
	// Empty means the paths recorded in the document are used.
	PseudoDir string `yaml:"pseudo_dir,omitempty"`

	// Golden names the rendering golden file, if any.
	Golden string `yaml:"golden,omitempty"`

	Expect Expect `yaml:"expect"`

	// Path is the file the case was loaded from.
	Path string `yaml:"-"`
}

// Expect lists the expectations of a case. Nil fields are not checked.
type Expect struct {
	Valid           *bool    `yaml:"valid,omitempty"`
	Errors          []string `yaml:"errors,omitempty"`
	RoundTrip       *bool    `yaml:"round_trip,omitempty"`
	Natom           *int     `yaml:"natom,omitempty"`
	Formula         string   `yaml:"formula,omitempty"`
	Tags            []string `yaml:"tags,omitempty"`
	NumArgs         *int     `yaml:"num_args,omitempty"`
	PseudosVerified *bool    `yaml:"pseudos_verified,omitempty"`
	DocumentID      string   `yaml:"document_id,omitempty"`
}

// LoadCase reads and parses a case file. Relative document and pseudo_dir
// paths are resolved against the directory of the case file.
func LoadCase(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read case file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:"
	var c Case
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	c.Path = path

	base := filepath.Dir(path)
	if c.Document != "" && !filepath.IsAbs(c.Document) {
		c.Document = filepath.Join(base, c.Document)
	}
	if c.PseudoDir != "" && !filepath.IsAbs(c.PseudoDir) {
		c.PseudoDir = filepath.Join(base, c.PseudoDir)
	}

	if err := validateCase(&c); err != nil {
		return nil, fmt.Errorf("invalid case %s: %w", path, err)
	}
	return &c, nil
}

// LoadCases loads every *.yaml case in dir, sorted by file name.
func LoadCases(dir string) ([]*Case, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	cases := make([]*Case, 0, len(paths))
	seen := make(map[string]string)
	for _, p := range paths {
		c, err := LoadCase(p)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("case name %q used by %s and %s", c.Name, prev, p)
		}
		seen[c.Name] = p
		cases = append(cases, c)
	}
	return cases, nil
}

// validateCase checks that required fields are present and consistent.
func validateCase(c *Case) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Description == "" {
		return fmt.Errorf("description is required")
	}
	if c.Document == "" {
		return fmt.Errorf("document is required")
	}
	if _, err := os.Stat(c.Document); err != nil {
		return fmt.Errorf("document not found: %s", c.Document)
	}

	e := c.Expect
	if e.Valid != nil && *e.Valid && len(e.Errors) > 0 {
		return fmt.Errorf("expect: errors listed for a valid document")
	}
	if e.Natom != nil && *e.Natom < 0 {
		return fmt.Errorf("expect: natom must be non-negative")
	}
	if e.NumArgs != nil && *e.NumArgs < 0 {
		return fmt.Errorf("expect: num_args must be non-negative")
	}
	return nil
}
