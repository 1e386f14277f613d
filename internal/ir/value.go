package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf16"
)

// Value is a sealed interface over the JSON value kinds that appear in
// fixture documents. Only Null, String, Int, Float, Bool, Array and Object
// implement it.
//
// Int and Float are kept apart so that an ABINIT variable written as `1`
// stays an integer and `1.0` stays a float through a decode/encode cycle.
type Value interface {
	irValue() // Sealed - only these types implement it
}

// Null represents a JSON null value.
// Documents use null for absent optional fields (comment, charge).
type Null struct{}

func (Null) irValue() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// String represents a string value.
type String string

func (String) irValue() {}

// Int represents an integral JSON number.
type Int int64

func (Int) irValue() {}

// Float represents a non-integral JSON number, or one written with a
// fraction or exponent.
type Float float64

func (Float) irValue() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) irValue() {}

// Array represents an ordered list of values.
type Array []Value

func (Array) irValue() {}

// Object represents a map of string keys to values.
// Use SortedKeys() for deterministic iteration.
type Object map[string]Value

func (Object) irValue() {}

// Pair is a key/value pair for typed Object construction.
type Pair struct {
	Key   string
	Value Value
}

// O is a shorthand for Pair.
// Example: NewObject(O("symbol", String("Al")), O("Z", Int(13)))
func O(key string, value Value) Pair {
	return Pair{Key: key, Value: value}
}

// NewObject creates an Object from key/value pairs.
func NewObject(pairs ...Pair) Object {
	obj := make(Object, len(pairs))
	for _, p := range pairs {
		obj[p.Key] = p.Value
	}
	return obj
}

// NewArray creates an Array from values.
func NewArray(vals ...Value) Array {
	return Array(vals)
}

// FloatVector builds an Array of Floats.
func FloatVector(xs ...float64) Array {
	arr := make(Array, len(xs))
	for i, x := range xs {
		arr[i] = Float(x)
	}
	return arr
}

// IntVector builds an Array of Ints.
func IntVector(xs ...int64) Array {
	arr := make(Array, len(xs))
	for i, x := range xs {
		arr[i] = Int(x)
	}
	return arr
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's string comparison orders by UTF-8 bytes, which differs for
// characters outside the BMP.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings by UTF-16 code units.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// UnmarshalJSON implements json.Unmarshaler for Object.
func (obj *Object) UnmarshalJSON(data []byte) error {
	v, err := Unmarshal(data)
	if err != nil {
		return err
	}
	o, ok := v.(Object)
	if !ok {
		return fmt.Errorf("expected JSON object, got %s", KindOf(v))
	}
	*obj = o
	return nil
}

// UnmarshalJSON implements json.Unmarshaler for Array.
func (arr *Array) UnmarshalJSON(data []byte) error {
	v, err := Unmarshal(data)
	if err != nil {
		return err
	}
	a, ok := v.(Array)
	if !ok {
		return fmt.Errorf("expected JSON array, got %s", KindOf(v))
	}
	*arr = a
	return nil
}

// MarshalJSON implements json.Marshaler for Object with sorted keys.
// NOTE: This is NOT canonical marshaling - floats keep their ".0" marker.
// Use MarshalCanonical for identity computation.
func (obj Object) MarshalJSON() ([]byte, error) {
	return Marshal(obj)
}

// MarshalJSON implements json.Marshaler for Array.
func (arr Array) MarshalJSON() ([]byte, error) {
	return Marshal(arr)
}

// MarshalJSON implements json.Marshaler for Float.
func (f Float) MarshalJSON() ([]byte, error) {
	return Marshal(f)
}

// Unmarshal decodes a single JSON value into a Value.
// Numbers are read with json.Number so large integers survive intact;
// numbers containing '.', 'e' or 'E' become Float.
func Unmarshal(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}

	return FromAny(raw)
}

// FromAny converts a decoded Go value (as produced by encoding/json with
// UseNumber, or built by hand) into a Value.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("non-finite number: %v", val)
		}
		return Float(val), nil
	case json.Number:
		return numberValue(val)
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			e, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = e
		}
		return arr, nil
	case []float64:
		return FloatVector(val...), nil
	case []int64:
		return IntVector(val...), nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			e, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = e
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

func numberValue(n json.Number) (Value, error) {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return Int(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("invalid number %s: %w", s, err)
	}
	return Float(f), nil
}

// ToAny converts a Value back into plain Go values (nil, bool, string,
// int64, float64, []any, map[string]any).
func ToAny(v Value) any {
	switch val := v.(type) {
	case Null, nil:
		return nil
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Bool:
		return bool(val)
	case Array:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = ToAny(e)
		}
		return out
	case Object:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = ToAny(e)
		}
		return out
	default:
		return nil
	}
}

// KindOf returns a short name of the value kind, for error messages.
func KindOf(v Value) string {
	switch v.(type) {
	case Null, nil:
		return "null"
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// AsFloat returns the numeric value of an Int or Float.
func AsFloat(v Value) (float64, bool) {
	switch val := v.(type) {
	case Int:
		return float64(val), true
	case Float:
		return float64(val), true
	default:
		return 0, false
	}
}

// AsInt returns the value of an Int, or of a Float with no fractional part.
func AsInt(v Value) (int64, bool) {
	switch val := v.(type) {
	case Int:
		return int64(val), true
	case Float:
		f := float64(val)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f), true
		}
	}
	return 0, false
}

// AsFloats converts a numeric Array into a []float64.
func AsFloats(v Value) ([]float64, error) {
	arr, ok := v.(Array)
	if !ok {
		return nil, fmt.Errorf("expected array of numbers, got %s", KindOf(v))
	}
	out := make([]float64, len(arr))
	for i, e := range arr {
		f, ok := AsFloat(e)
		if !ok {
			return nil, fmt.Errorf("[%d]: expected number, got %s", i, KindOf(e))
		}
		out[i] = f
	}
	return out, nil
}

// AsInts converts an integral numeric Array into a []int64.
func AsInts(v Value) ([]int64, error) {
	arr, ok := v.(Array)
	if !ok {
		return nil, fmt.Errorf("expected array of integers, got %s", KindOf(v))
	}
	out := make([]int64, len(arr))
	for i, e := range arr {
		n, ok := AsInt(e)
		if !ok {
			return nil, fmt.Errorf("[%d]: expected integer, got %s", i, KindOf(e))
		}
		out[i] = n
	}
	return out, nil
}

// AsMatrix converts an Array of numeric Arrays into rows of float64.
func AsMatrix(v Value) ([][]float64, error) {
	arr, ok := v.(Array)
	if !ok {
		return nil, fmt.Errorf("expected array of rows, got %s", KindOf(v))
	}
	out := make([][]float64, len(arr))
	for i, row := range arr {
		r, err := AsFloats(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	switch val := v.(type) {
	case Array:
		out := make(Array, len(val))
		for i, e := range val {
			out[i] = Clone(e)
		}
		return out
	case Object:
		out := make(Object, len(val))
		for k, e := range val {
			out[k] = Clone(e)
		}
		return out
	default:
		return v
	}
}
