// Package pseudo describes pseudopotential files referenced by an input
// and checks them against their recorded MD5 checksums.
package pseudo

import (
	"errors"
	"fmt"

	"github.com/nan-1212/abipy/internal/ir"
	"github.com/nan-1212/abipy/internal/periodic"
)

// DefaultModule is the @module written for descriptors built in Go.
const DefaultModule = "pymatgen.io.abinit.pseudos"

// Known descriptor classes. Other classes are accepted and kept verbatim.
const (
	ClassNcAbinitPseudo  = "NcAbinitPseudo"
	ClassNcAbinitHeader  = "NcAbinitHeader"
	ClassPawAbinitPseudo = "PawAbinitPseudo"
	ClassPseudo          = "Pseudo"
)

// KnownClass reports whether class is one of the descriptor classes above.
func KnownClass(class string) bool {
	switch class {
	case ClassNcAbinitPseudo, ClassNcAbinitHeader, ClassPawAbinitPseudo, ClassPseudo:
		return true
	}
	return false
}

// Pseudo is the descriptor of one pseudopotential file.
type Pseudo struct {
	Module   string
	Class    string
	Basename string
	Type     string
	Symbol   string
	Z        int
	ZVal     float64
	LMax     *int // nil when the document carries "l_max": null
	MD5      string
	Filepath string

	extra ir.Object
	// absent lists the optional keys missing from the decoded object.
	absent map[string]bool
}

// optionalKeys are left out on encode when they were absent on decode and
// the field still has its zero value.
var optionalKeys = []string{"@module", "@class", "type", "l_max", "md5", "filepath"}

// ToValue encodes the descriptor.
func (p *Pseudo) ToValue() ir.Object {
	obj := make(ir.Object, len(p.extra)+10)
	for k, v := range p.extra {
		obj[k] = v
	}
	obj["@module"] = ir.String(p.Module)
	obj["@class"] = ir.String(p.Class)
	obj["basename"] = ir.String(p.Basename)
	obj["type"] = ir.String(p.Type)
	obj["symbol"] = ir.String(p.Symbol)
	obj["Z"] = ir.Int(p.Z)
	obj["Z_val"] = ir.Float(p.ZVal)
	if p.LMax != nil {
		obj["l_max"] = ir.Int(*p.LMax)
	} else {
		obj["l_max"] = ir.Null{}
	}
	obj["md5"] = ir.String(p.MD5)
	obj["filepath"] = ir.String(p.Filepath)
	for _, k := range optionalKeys {
		if p.absent[k] && p.isZero(k) {
			delete(obj, k)
		}
	}
	return obj
}

func (p *Pseudo) isZero(key string) bool {
	switch key {
	case "@module":
		return p.Module == ""
	case "@class":
		return p.Class == ""
	case "type":
		return p.Type == ""
	case "l_max":
		return p.LMax == nil
	case "md5":
		return p.MD5 == ""
	case "filepath":
		return p.Filepath == ""
	}
	return false
}

var knownKeys = map[string]bool{
	"@module": true, "@class": true, "basename": true, "type": true,
	"symbol": true, "Z": true, "Z_val": true, "l_max": true, "md5": true,
	"filepath": true,
}

// FromValue decodes a descriptor object.
func FromValue(v ir.Value) (*Pseudo, error) {
	obj, ok := v.(ir.Object)
	if !ok {
		return nil, fmt.Errorf("pseudo: expected object, got %s", ir.KindOf(v))
	}
	p := &Pseudo{}
	strs := []struct {
		key      string
		dst      *string
		required bool
	}{
		{"@module", &p.Module, false},
		{"@class", &p.Class, false},
		{"basename", &p.Basename, true},
		{"type", &p.Type, false},
		{"symbol", &p.Symbol, true},
		{"md5", &p.MD5, false},
		{"filepath", &p.Filepath, false},
	}
	for _, f := range strs {
		raw, present := obj[f.key]
		if !present {
			if f.required {
				return nil, fmt.Errorf("pseudo: missing %s", f.key)
			}
			continue
		}
		s, ok := raw.(ir.String)
		if !ok {
			return nil, fmt.Errorf("pseudo %s: expected string, got %s", f.key, ir.KindOf(raw))
		}
		*f.dst = string(s)
	}

	z, ok := ir.AsInt(obj["Z"])
	if !ok {
		return nil, errors.New("pseudo Z: expected integer")
	}
	p.Z = int(z)
	if p.ZVal, ok = ir.AsFloat(obj["Z_val"]); !ok {
		return nil, errors.New("pseudo Z_val: expected number")
	}
	if raw, present := obj["l_max"]; present {
		if _, isNull := raw.(ir.Null); !isNull {
			l, ok := ir.AsInt(raw)
			if !ok {
				return nil, fmt.Errorf("pseudo l_max: expected integer or null, got %s", ir.KindOf(raw))
			}
			lm := int(l)
			p.LMax = &lm
		}
	}

	el, err := periodic.FromSymbol(p.Symbol)
	if err != nil {
		return nil, fmt.Errorf("pseudo %s: %w", p.Basename, err)
	}
	if el.Z != p.Z {
		return nil, fmt.Errorf("pseudo %s: symbol %s has Z=%d, descriptor says %d", p.Basename, p.Symbol, el.Z, p.Z)
	}

	for _, k := range optionalKeys {
		if _, present := obj[k]; !present {
			if p.absent == nil {
				p.absent = make(map[string]bool)
			}
			p.absent[k] = true
		}
	}
	for k, v := range obj {
		if !knownKeys[k] {
			if p.extra == nil {
				p.extra = make(ir.Object)
			}
			p.extra[k] = v
		}
	}
	return p, nil
}

// MarshalJSON implements json.Marshaler.
func (p *Pseudo) MarshalJSON() ([]byte, error) {
	return ir.Marshal(p.ToValue())
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Pseudo) UnmarshalJSON(data []byte) error {
	v, err := ir.Unmarshal(data)
	if err != nil {
		return err
	}
	decoded, err := FromValue(v)
	if err != nil {
		return err
	}
	*p = *decoded
	return nil
}

// String returns a one-line description.
func (p *Pseudo) String() string {
	return fmt.Sprintf("<%s: %s> Z=%d Z_val=%g", p.Class, p.Basename, p.Z, p.ZVal)
}
