// Package mson dispatches JSON objects tagged with "@module" and "@class"
// discriminators to registered decoders.
package mson

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/nan-1212/abipy/internal/ir"
)

// ErrUnknownClass is returned when no decoder is registered for a
// discriminator pair.
var ErrUnknownClass = errors.New("unknown @module/@class")

// Envelope holds the discriminators of an object.
type Envelope struct {
	Module  string
	Class   string
	Version string
}

// Key returns "module.class".
func (e Envelope) Key() string {
	return e.Module + "." + e.Class
}

// EnvelopeOf reads the discriminators of obj. Missing or non-string
// entries are left empty.
func EnvelopeOf(obj ir.Object) Envelope {
	var e Envelope
	if s, ok := obj["@module"].(ir.String); ok {
		e.Module = string(s)
	}
	if s, ok := obj["@class"].(ir.String); ok {
		e.Class = string(s)
	}
	if s, ok := obj["@version"].(ir.String); ok {
		e.Version = string(s)
	}
	return e
}

// ReadEnvelope decodes data and returns its discriminators.
func ReadEnvelope(data []byte) (Envelope, error) {
	v, err := ir.Unmarshal(data)
	if err != nil {
		return Envelope{}, err
	}
	obj, ok := v.(ir.Object)
	if !ok {
		return Envelope{}, fmt.Errorf("expected JSON object, got %s", ir.KindOf(v))
	}
	e := EnvelopeOf(obj)
	if e.Module == "" || e.Class == "" {
		return e, errors.New("missing @module or @class")
	}
	return e, nil
}

// Decoder builds a typed value from a decoded object.
type Decoder func(ir.Value) (any, error)

// Registry maps discriminator pairs to decoders. It is safe for concurrent
// use.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// Register associates a decoder with module.class, replacing any previous
// one.
func (r *Registry) Register(module, class string, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[Envelope{Module: module, Class: class}.Key()] = d
}

// Known returns the registered "module.class" keys, sorted.
func (r *Registry) Known() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.decoders))
	for k := range r.decoders {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Lookup returns the decoder for e.
func (r *Registry) Lookup(e Envelope) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decoders[e.Key()]
	return d, ok
}

// DecodeValue dispatches v on its discriminators.
func (r *Registry) DecodeValue(v ir.Value) (any, error) {
	obj, ok := v.(ir.Object)
	if !ok {
		return nil, fmt.Errorf("expected JSON object, got %s", ir.KindOf(v))
	}
	e := EnvelopeOf(obj)
	d, ok := r.Lookup(e)
	if !ok {
		return nil, fmt.Errorf("%w: %q/%q", ErrUnknownClass, e.Module, e.Class)
	}
	out, err := d(obj)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", e.Key(), err)
	}
	return out, nil
}

// Decode parses data and dispatches it on its discriminators.
func (r *Registry) Decode(data []byte) (any, error) {
	v, err := ir.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return r.DecodeValue(v)
}
