package abinput

import (
	"errors"
	"fmt"

	"github.com/nan-1212/abipy/internal/crystal"
)

var (
	// ErrStructureVariable: a geometry variable was set directly instead of
	// being derived from the structure.
	ErrStructureVariable = errors.New("structure variable set in abi_args")
	// ErrPseudoCount: the number of pseudopotentials differs from ntypat.
	ErrPseudoCount = errors.New("number of pseudopotentials differs from ntypat")
)

var structureVars = map[string]bool{
	"natom": true, "ntypat": true, "typat": true, "znucl": true,
	"xred": true, "xcart": true, "xangst": true,
	"acell": true, "rprim": true, "angdeg": true,
}

// IsStructureVariable reports whether key is derived from the structure.
func IsStructureVariable(key string) bool {
	return structureVars[key]
}

// Validate checks the input for consistency and returns every problem
// found. Errors wrap ErrStructureVariable, ErrPseudoCount,
// crystal.ErrDisordered, pseudo.ErrMissingPseudo or
// pseudo.ErrAlchemicalMixing.
func Validate(in *Input) []error {
	var errs []error
	for _, a := range in.args {
		if structureVars[a.Key] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrStructureVariable, a.Key))
		}
	}

	if !in.Structure.IsOrdered() {
		errs = append(errs, crystal.ErrDisordered)
		return errs
	}

	if _, err := in.PseudoTable().ForStructure(in.Structure); err != nil {
		errs = append(errs, err)
		return errs
	}
	if ntypat := len(in.Structure.Types()); len(in.Pseudos) != ntypat {
		errs = append(errs, fmt.Errorf("%w: %d pseudopotentials, ntypat=%d", ErrPseudoCount, len(in.Pseudos), ntypat))
	}
	return errs
}
