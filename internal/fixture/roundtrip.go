package fixture

import (
	"bytes"
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/nan-1212/abipy/internal/ir"
)

// RoundTripReport compares a document with its decode/encode image.
type RoundTripReport struct {
	Equivalent  bool   `json:"equivalent"`
	Diff        string `json:"diff,omitempty"`
	OriginalID  string `json:"original_id"`
	ReencodedID string `json:"reencoded_id"`
}

// RoundTrip decodes data, encodes it again and compares both canonical
// forms. The diff is computed on the canonical value trees, so number
// spellings such as 6 and 6.0 never show up as differences.
func RoundTrip(data []byte) (*RoundTripReport, error) {
	orig, err := ir.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("round trip: %w", err)
	}
	origObj, ok := orig.(ir.Object)
	if !ok {
		return nil, fmt.Errorf("round trip: expected object, got %s", ir.KindOf(orig))
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("round trip: %w", err)
	}
	return compare(origObj, doc.Input.ToValue())
}

func compare(orig, reenc ir.Object) (*RoundTripReport, error) {
	a, err := ir.MarshalCanonical(orig)
	if err != nil {
		return nil, fmt.Errorf("canonical original: %w", err)
	}
	b, err := ir.MarshalCanonical(reenc)
	if err != nil {
		return nil, fmt.Errorf("canonical re-encoded: %w", err)
	}

	report := &RoundTripReport{Equivalent: bytes.Equal(a, b)}
	if report.OriginalID, err = ir.DocumentID(orig); err != nil {
		return nil, err
	}
	if report.ReencodedID, err = ir.DocumentID(reenc); err != nil {
		return nil, err
	}
	if !report.Equivalent {
		want, err := ir.Unmarshal(a)
		if err != nil {
			return nil, err
		}
		got, err := ir.Unmarshal(b)
		if err != nil {
			return nil, err
		}
		report.Diff = cmp.Diff(ir.ToAny(want), ir.ToAny(got))
	}

	logger().Debug("round trip",
		"equivalent", report.Equivalent,
		"original_id", report.OriginalID)
	return report, nil
}
