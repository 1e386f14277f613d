package fixture

import (
	"sync"

	"github.com/nan-1212/abipy/internal/abinput"
	"github.com/nan-1212/abipy/internal/crystal"
	"github.com/nan-1212/abipy/internal/ir"
	"github.com/nan-1212/abipy/internal/mson"
	"github.com/nan-1212/abipy/internal/pseudo"
)

// Registry returns the registry of every class a fixture document can hold.
var Registry = sync.OnceValue(func() *mson.Registry {
	r := mson.NewRegistry()

	decodeStructure := func(v ir.Value) (any, error) { return crystal.FromValue(v) }
	r.Register("pymatgen.core.structure", crystal.ClassName, decodeStructure)
	r.Register("abipy.core.structure", crystal.ClassName, decodeStructure)

	decodePseudo := func(v ir.Value) (any, error) { return pseudo.FromValue(v) }
	for _, class := range []string{
		pseudo.ClassNcAbinitPseudo,
		pseudo.ClassNcAbinitHeader,
		pseudo.ClassPawAbinitPseudo,
		pseudo.ClassPseudo,
	} {
		r.Register(pseudo.DefaultModule, class, decodePseudo)
	}

	r.Register(abinput.ModuleName, abinput.ClassName, func(v ir.Value) (any, error) {
		return abinput.FromValue(v)
	})
	return r
})
