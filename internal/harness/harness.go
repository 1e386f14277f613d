package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/nan-1212/abipy/internal/fixture"
	"github.com/nan-1212/abipy/internal/logging"
	"github.com/nan-1212/abipy/internal/pseudo"
	"github.com/nan-1212/abipy/internal/store"
)

// Harness runs cases. Each case gets a fresh in-memory catalog.
type Harness struct {
	store  *store.Store
	logger *slog.Logger
}

// Run executes a case and returns the result. The returned error is
// reserved for failures of the harness itself (unreadable document,
// catalog errors); unmet expectations are reported in Result.
func Run(ctx context.Context, c *Case) (*Result, error) {
	data, err := os.ReadFile(c.Document)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		logger: logging.New("harness").With("case", c.Name),
	}
	return h.run(ctx, c, data)
}

func (h *Harness) run(ctx context.Context, c *Case, data []byte) (*Result, error) {
	result := NewResult()

	doc, err := fixture.Decode(data)
	var fe *fixture.Error
	switch {
	case errors.As(err, &fe):
		for _, ve := range fe.Errors {
			result.Codes = append(result.Codes, ve.Code)
		}
	case err != nil:
		return nil, err
	default:
		for _, ve := range fixture.Validate(doc) {
			result.Codes = append(result.Codes, ve.Code)
		}
	}

	checkValidity(result, c.Expect, result.Codes)

	if doc == nil {
		// Nothing more can be checked on a document that does not decode.
		for _, name := range decodedExpectations(c.Expect) {
			result.AddError(fmt.Sprintf("%s: document did not decode", name))
		}
		h.logger.Debug("case finished", "pass", result.Pass, "codes", result.Codes)
		return result, nil
	}

	id, err := fixture.Identify(doc)
	if err != nil {
		return nil, err
	}
	result.Identity = &id

	if c.Expect.RoundTrip != nil {
		report, err := fixture.RoundTrip(data)
		if err != nil {
			return nil, err
		}
		if report.Equivalent != *c.Expect.RoundTrip {
			result.AddError((&AssertionError{
				Type:     "round_trip",
				Expected: fmt.Sprint(*c.Expect.RoundTrip),
				Actual:   fmt.Sprint(report.Equivalent),
				Detail:   report.Diff,
			}).Error())
		}
	}

	checkDocument(result, c.Expect, doc, id)

	if c.Expect.PseudosVerified != nil {
		results, err := fixture.VerifyPseudos(ctx, doc, c.PseudoDir)
		if err != nil {
			return nil, err
		}
		checkPseudos(result, *c.Expect.PseudosVerified, results)
	}

	if err := h.checkCatalog(ctx, c, doc, result); err != nil {
		return nil, err
	}

	h.logger.Debug("case finished", "pass", result.Pass, "codes", result.Codes)
	return result, nil
}

// checkCatalog stores the document and reads it back.
func (h *Harness) checkCatalog(ctx context.Context, c *Case, doc *fixture.Document, result *Result) error {
	imp, err := h.store.BeginImport(ctx, c.Path)
	if err != nil {
		return err
	}
	rec, err := store.NewRecord(doc.Input)
	if err != nil {
		return err
	}
	if _, err := h.store.PutDocument(ctx, imp.ID, rec); err != nil {
		return err
	}
	got, err := h.store.GetDocument(ctx, rec.ID)
	if err != nil {
		return err
	}
	if got.Canonical != rec.Canonical {
		result.AddError((&AssertionError{
			Type:     "catalog",
			Expected: "stored canonical JSON equal to the encoded document",
			Actual:   "stored document differs",
		}).Error())
	}
	return nil
}

func checkPseudos(result *Result, want bool, results []pseudo.Result) {
	got := pseudo.AllOK(results)
	if got == want {
		return
	}
	detail := ""
	for _, r := range results {
		if !r.OK() {
			detail += fmt.Sprintf("%s: %v\n", r.Pseudo.Basename, r.Err)
		}
	}
	result.AddError((&AssertionError{
		Type:     "pseudos_verified",
		Expected: fmt.Sprint(want),
		Actual:   fmt.Sprint(got),
		Detail:   detail,
	}).Error())
}
