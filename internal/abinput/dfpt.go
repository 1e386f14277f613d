package abinput

import (
	"fmt"

	"github.com/nan-1212/abipy/internal/crystal"
	"github.com/nan-1212/abipy/internal/ir"
)

// Tags attached to response-function inputs.
const (
	TagDFPT    = "DFPT"
	TagPhQPert = "PH_Q_PERT"
)

var perturbationVars = []string{"rfphon", "rfelfd", "rfstrs"}

// Perturbations returns the response-function variables switched on.
func (in *Input) Perturbations() []string {
	var out []string
	for _, k := range perturbationVars {
		v, ok := in.Get(k)
		if !ok {
			continue
		}
		if n, ok := ir.AsInt(v); ok && n != 0 {
			out = append(out, k)
		}
	}
	return out
}

// IsDFPT reports whether the input describes a perturbation calculation,
// either through its variables or its tags.
func (in *Input) IsDFPT() bool {
	return len(in.Perturbations()) > 0 || in.HasTag(TagDFPT)
}

// QPoints returns the q-points in reduced coordinates. nqpt defaults to 1
// when qpt is present.
func (in *Input) QPoints() ([]crystal.Vec3, error) {
	raw, ok := in.Get("qpt")
	if !ok {
		return nil, nil
	}
	nqpt := int64(1)
	if v, ok := in.Get("nqpt"); ok {
		n, ok := ir.AsInt(v)
		if !ok {
			return nil, fmt.Errorf("nqpt: expected integer, got %s", ir.KindOf(v))
		}
		nqpt = n
	}

	var flat []float64
	switch val := raw.(type) {
	case ir.Array:
		if len(val) > 0 {
			if _, nested := val[0].(ir.Array); nested {
				rows, err := ir.AsMatrix(val)
				if err != nil {
					return nil, fmt.Errorf("qpt: %w", err)
				}
				for _, r := range rows {
					flat = append(flat, r...)
				}
				break
			}
		}
		fs, err := ir.AsFloats(val)
		if err != nil {
			return nil, fmt.Errorf("qpt: %w", err)
		}
		flat = fs
	default:
		return nil, fmt.Errorf("qpt: expected array, got %s", ir.KindOf(raw))
	}

	if int64(len(flat)) != 3*nqpt {
		return nil, fmt.Errorf("qpt: %d values for nqpt=%d", len(flat), nqpt)
	}
	out := make([]crystal.Vec3, nqpt)
	for i := range out {
		copy(out[i][:], flat[3*i:3*i+3])
	}
	return out, nil
}
