package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/nan-1212/abipy/internal/abinput"
	"github.com/nan-1212/abipy/internal/fixture"
)

// RunWithGolden runs the case and, when it names a golden file, compares
// the ABINIT rendering of the document against goldenDir/<golden>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, c *Case, goldenDir string) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), c)
	if err != nil {
		return nil, err
	}
	if c.Golden == "" {
		return result, nil
	}

	doc, err := fixture.Load(c.Document)
	if err != nil {
		return nil, err
	}
	rendered, err := abinput.Render(doc.Input)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(goldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, c.Golden, []byte(rendered))
	return result, nil
}
