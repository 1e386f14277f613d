// Package abinput models an ABINIT input: a structure, its
// pseudopotentials and an ordered list of input variables with tags.
package abinput

import (
	"errors"
	"slices"

	"github.com/nan-1212/abipy/internal/crystal"
	"github.com/nan-1212/abipy/internal/ir"
	"github.com/nan-1212/abipy/internal/pseudo"
)

// Discriminators of the input document.
const (
	ModuleName = "abipy.abio.inputs"
	ClassName  = "AbinitInput"
)

// ErrDuplicateKey is returned when abi_args lists a variable twice.
var ErrDuplicateKey = errors.New("duplicate input variable")

// ErrDuplicateTag is returned when a document lists a tag twice.
var ErrDuplicateTag = errors.New("duplicate tag")

// Arg is one input variable.
type Arg struct {
	Key   string
	Value ir.Value
}

// Input is an ABINIT input. Variables keep their insertion order.
type Input struct {
	Module     string
	Class      string
	Structure  *crystal.Structure
	Pseudos    []*pseudo.Pseudo
	Comment    *string
	Decorators []ir.Object

	args  []Arg
	index map[string]int
	tags  []string
	extra ir.Object
}

// New returns an empty input for the given structure and pseudopotentials.
func New(s *crystal.Structure, pseudos ...*pseudo.Pseudo) *Input {
	return &Input{
		Module:    ModuleName,
		Class:     ClassName,
		Structure: s,
		Pseudos:   pseudos,
		index:     make(map[string]int),
	}
}

// Set assigns a variable. Setting an existing variable keeps its position.
func (in *Input) Set(key string, v ir.Value) {
	if in.index == nil {
		in.index = make(map[string]int)
	}
	if i, ok := in.index[key]; ok {
		in.args[i].Value = v
		return
	}
	in.index[key] = len(in.args)
	in.args = append(in.args, Arg{Key: key, Value: v})
}

// SetVars assigns several variables in order.
func (in *Input) SetVars(args ...Arg) {
	for _, a := range args {
		in.Set(a.Key, a.Value)
	}
}

// Get returns the value of a variable.
func (in *Input) Get(key string) (ir.Value, bool) {
	i, ok := in.index[key]
	if !ok {
		return nil, false
	}
	return in.args[i].Value, true
}

// Remove deletes variables and reports how many were present.
func (in *Input) Remove(keys ...string) int {
	n := 0
	for _, k := range keys {
		i, ok := in.index[k]
		if !ok {
			continue
		}
		in.args = slices.Delete(in.args, i, i+1)
		n++
		in.reindex()
	}
	return n
}

func (in *Input) reindex() {
	in.index = make(map[string]int, len(in.args))
	for i, a := range in.args {
		in.index[a.Key] = i
	}
}

// Keys returns the variable names in insertion order.
func (in *Input) Keys() []string {
	out := make([]string, len(in.args))
	for i, a := range in.args {
		out[i] = a.Key
	}
	return out
}

// Args returns a copy of the variables in insertion order.
func (in *Input) Args() []Arg {
	return slices.Clone(in.args)
}

// Len returns the number of variables.
func (in *Input) Len() int { return len(in.args) }

// AddTags adds tags, ignoring ones already present.
func (in *Input) AddTags(tags ...string) {
	for _, t := range tags {
		if !in.HasTag(t) {
			in.tags = append(in.tags, t)
		}
	}
}

// HasTag reports whether tag is set.
func (in *Input) HasTag(tag string) bool {
	return slices.Contains(in.tags, tag)
}

// RemoveTags drops the given tags.
func (in *Input) RemoveTags(tags ...string) {
	in.tags = slices.DeleteFunc(in.tags, func(t string) bool {
		return slices.Contains(tags, t)
	})
}

// Tags returns the tags in the order they were added.
func (in *Input) Tags() []string {
	return slices.Clone(in.tags)
}

// SortedTags returns the tags sorted, for set comparisons and identity.
func (in *Input) SortedTags() []string {
	out := slices.Clone(in.tags)
	slices.Sort(out)
	return out
}

// PseudoTable returns the pseudopotentials as a table.
func (in *Input) PseudoTable() *pseudo.Table {
	return pseudo.NewTable(in.Pseudos...)
}
