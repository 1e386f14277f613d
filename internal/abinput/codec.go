package abinput

import (
	"errors"
	"fmt"

	"github.com/nan-1212/abipy/internal/crystal"
	"github.com/nan-1212/abipy/internal/ir"
	"github.com/nan-1212/abipy/internal/pseudo"
)

var documentKeys = map[string]bool{
	"@module": true, "@class": true, "structure": true, "pseudos": true,
	"comment": true, "decorators": true, "abi_args": true, "tags": true,
}

// ToValue encodes the input as an AbinitInput document.
func (in *Input) ToValue() ir.Object {
	obj := make(ir.Object, len(in.extra)+8)
	for k, v := range in.extra {
		obj[k] = v
	}
	obj["@module"] = ir.String(in.Module)
	obj["@class"] = ir.String(in.Class)
	obj["structure"] = in.Structure.ToValue()

	pseudos := make(ir.Array, len(in.Pseudos))
	for i, p := range in.Pseudos {
		pseudos[i] = p.ToValue()
	}
	obj["pseudos"] = pseudos

	if in.Comment != nil {
		obj["comment"] = ir.String(*in.Comment)
	} else {
		obj["comment"] = ir.Null{}
	}

	decorators := make(ir.Array, len(in.Decorators))
	for i, d := range in.Decorators {
		decorators[i] = d
	}
	obj["decorators"] = decorators

	obj["abi_args"] = in.AbiArgs()

	tags := make(ir.Array, len(in.tags))
	for i, t := range in.tags {
		tags[i] = ir.String(t)
	}
	obj["tags"] = tags
	return obj
}

// AbiArgs returns the variables as [[key, value], ...].
func (in *Input) AbiArgs() ir.Array {
	out := make(ir.Array, len(in.args))
	for i, a := range in.args {
		out[i] = ir.Array{ir.String(a.Key), a.Value}
	}
	return out
}

// FromValue decodes an AbinitInput document.
func FromValue(v ir.Value) (*Input, error) {
	obj, ok := v.(ir.Object)
	if !ok {
		return nil, fmt.Errorf("input: expected object, got %s", ir.KindOf(v))
	}
	in := &Input{index: make(map[string]int)}
	if m, ok := obj["@module"].(ir.String); ok {
		in.Module = string(m)
	}
	if c, ok := obj["@class"].(ir.String); ok {
		in.Class = string(c)
	}

	rawStructure, present := obj["structure"]
	if !present {
		return nil, errors.New("input: missing structure")
	}
	s, err := crystal.FromValue(rawStructure)
	if err != nil {
		return nil, err
	}
	in.Structure = s

	if raw, present := obj["pseudos"]; present {
		arr, ok := raw.(ir.Array)
		if !ok {
			return nil, fmt.Errorf("input pseudos: expected array, got %s", ir.KindOf(raw))
		}
		for i, rp := range arr {
			p, err := pseudo.FromValue(rp)
			if err != nil {
				return nil, fmt.Errorf("input pseudos[%d]: %w", i, err)
			}
			in.Pseudos = append(in.Pseudos, p)
		}
	}

	switch c := obj["comment"].(type) {
	case nil, ir.Null:
	case ir.String:
		s := string(c)
		in.Comment = &s
	default:
		return nil, fmt.Errorf("input comment: expected string or null, got %s", ir.KindOf(c))
	}

	if raw, present := obj["decorators"]; present {
		arr, ok := raw.(ir.Array)
		if !ok {
			return nil, fmt.Errorf("input decorators: expected array, got %s", ir.KindOf(raw))
		}
		for i, d := range arr {
			dobj, ok := d.(ir.Object)
			if !ok {
				return nil, fmt.Errorf("input decorators[%d]: expected object, got %s", i, ir.KindOf(d))
			}
			in.Decorators = append(in.Decorators, dobj)
		}
	}

	if err := in.decodeArgs(obj["abi_args"]); err != nil {
		return nil, err
	}

	if raw, present := obj["tags"]; present {
		arr, ok := raw.(ir.Array)
		if !ok {
			return nil, fmt.Errorf("input tags: expected array, got %s", ir.KindOf(raw))
		}
		for i, t := range arr {
			ts, ok := t.(ir.String)
			if !ok {
				return nil, fmt.Errorf("input tags[%d]: expected string, got %s", i, ir.KindOf(t))
			}
			if in.HasTag(string(ts)) {
				return nil, fmt.Errorf("input tags[%d]: %w: %s", i, ErrDuplicateTag, ts)
			}
			in.AddTags(string(ts))
		}
	}

	in.extra = make(ir.Object)
	for k, v := range obj {
		if !documentKeys[k] {
			in.extra[k] = v
		}
	}
	return in, nil
}

func (in *Input) decodeArgs(raw ir.Value) error {
	if raw == nil {
		return errors.New("input: missing abi_args")
	}
	arr, ok := raw.(ir.Array)
	if !ok {
		return fmt.Errorf("input abi_args: expected array, got %s", ir.KindOf(raw))
	}
	for i, entry := range arr {
		pair, ok := entry.(ir.Array)
		if !ok || len(pair) != 2 {
			return fmt.Errorf("input abi_args[%d]: expected [key, value] pair", i)
		}
		key, ok := pair[0].(ir.String)
		if !ok {
			return fmt.Errorf("input abi_args[%d]: key must be a string, got %s", i, ir.KindOf(pair[0]))
		}
		if _, dup := in.index[string(key)]; dup {
			return fmt.Errorf("input abi_args[%d]: %w: %s", i, ErrDuplicateKey, key)
		}
		in.Set(string(key), pair[1])
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (in *Input) MarshalJSON() ([]byte, error) {
	return ir.Marshal(in.ToValue())
}

// UnmarshalJSON implements json.Unmarshaler.
func (in *Input) UnmarshalJSON(data []byte) error {
	v, err := ir.Unmarshal(data)
	if err != nil {
		return err
	}
	decoded, err := FromValue(v)
	if err != nil {
		return err
	}
	*in = *decoded
	return nil
}

// InputID returns the content identity of the variables and tags.
func (in *Input) InputID() (string, error) {
	return ir.InputID(in.AbiArgs(), in.SortedTags())
}
