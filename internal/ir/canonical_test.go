package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nanValue() float64 { return math.NaN() }

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", String("hello"), `"hello"`},
		{"empty string", String(""), `""`},
		{"int", Int(42), "42"},
		{"negative int", Int(-100), "-100"},
		{"max int64", Int(9223372036854775807), "9223372036854775807"},
		{"bool true", Bool(true), "true"},
		{"null", Null{}, "null"},
		{"nil", nil, "null"},
		{"empty array", Array{}, "[]"},
		{"empty object", Object{}, "{}"},
		{"array of ints", Array{Int(1), Int(2), Int(3)}, "[1,2,3]"},
		{"simple object", Object{"a": Int(1)}, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalNumbers(t *testing.T) {
	// Expected values follow ECMAScript Number.prototype.toString.
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1, "1"},
		{6.0, "6"},
		{0.5, "0.5"},
		{-2.25, "-2.25"},
		{10.2, "10.2"},
		{5.4306, "5.4306"},
		{1e-7, "1e-7"},
		{1.5e-7, "1.5e-7"},
		{0.000001, "0.000001"},
		{123456789, "123456789"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1.2345e22, "1.2345e+22"},
		{0.30000000000000004, "0.30000000000000004"},
		{333333333.33333329, "333333333.3333333"},
		{4.50, "4.5"},
		{1e-10, "1e-10"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result, err := MarshalCanonical(Float(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalRuntimeSum(t *testing.T) {
	// Operands are variables so the sum is rounded at run time.
	a, b := 0.1, 0.2
	result, err := MarshalCanonical(Float(a + b))
	require.NoError(t, err)
	assert.Equal(t, "0.30000000000000004", string(result))
}

func TestMarshalCanonicalIntAndFloatCoincide(t *testing.T) {
	a, err := MarshalCanonical(Object{"ecut": Int(6)})
	require.NoError(t, err)
	b, err := MarshalCanonical(Object{"ecut": Float(6)})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMarshalCanonicalRejectsNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := MarshalCanonical(Float(f))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-finite")
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := Object{
		"zebra": Int(1),
		"alpha": Int(2),
		"beta":  Int(3),
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":3,"zebra":1}`, string(result))
}

func TestMarshalCanonicalNestedSortedKeys(t *testing.T) {
	obj := Object{
		"z": Object{"b": Int(1), "a": Int(2)},
		"a": Int(3),
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"z":{"a":2,"b":1}}`, string(result))
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	// U+E000 vs U+10000: UTF-16 order differs from UTF-8.
	obj := Object{
		"\uE000":     Int(1),
		"\U00010000": Int(2), // UTF-16: 0xD800, 0xDC00
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)

	expected := "{\"\U00010000\":2,\"\uE000\":1}"
	assert.Equal(t, expected, string(result))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	result, err := MarshalCanonical(Object{
		"html": String("<script>alert('xss')</script>"),
		"amp":  String("a & b"),
	})
	require.NoError(t, err)

	assert.Contains(t, string(result), "<script>")
	assert.Contains(t, string(result), "a & b")
	assert.NotContains(t, string(result), "\\u003c")
	assert.NotContains(t, string(result), "\\u0026")
}

func TestMarshalCanonicalStringEscaping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"control", "a\x01b", `"a\u0001b"`},
		{"line separator", "a\u2028b", "\"a\u2028b\""},
		{"literal backslash u2028", `\u2028`, `"\\u2028"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(String(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	composed := "caf\u00E9"
	decomposed := "cafe\u0301"

	r1, err := MarshalCanonical(Object{composed: String(composed)})
	require.NoError(t, err)
	r2, err := MarshalCanonical(Object{decomposed: String(decomposed)})
	require.NoError(t, err)

	assert.Equal(t, r1, r2, "NFC normalization should make keys and values equal")
}

func TestMarshalCanonicalNFCKeyCollision(t *testing.T) {
	_, err := MarshalCanonical(Object{
		"caf\u00E9":  Int(1),
		"cafe\u0301": Int(2),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collide")
}

func TestMarshalKeepsFloatMarker(t *testing.T) {
	result, err := Marshal(Object{"ecut": Float(6), "nband": Int(6)})
	require.NoError(t, err)
	assert.Equal(t, `{"ecut":6.0,"nband":6}`, string(result))
}

func TestMarshalIndent(t *testing.T) {
	result, err := MarshalIndent(Object{"a": IntVector(1, 2)}, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": [\n    1,\n    2\n  ]\n}", string(result))
}

func TestMarshalCanonicalWithGoTypes(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"int64", int64(42), "42"},
		{"int", 42, "42"},
		{"float64", 0.25, "0.25"},
		{"bool", true, "true"},
		{"map", map[string]any{"b": int64(1), "a": "test"}, `{"a":"test","b":1}`},
		{"slice", []any{int64(1), "two", true}, `[1,"two",true]`},
		{"float slice", []float64{0, 0.5}, `[0,0.5]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalRejectsUnsupported(t *testing.T) {
	_, err := MarshalCanonical(struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestMarshalCanonicalIdempotency(t *testing.T) {
	testCases := []Value{
		String("hello"),
		Int(42),
		Float(5.4306),
		Array{Int(1), String("two"), Bool(false), Null{}},
		Object{"a": Int(1), "b": String("test")},
		Object{
			"matrix": Array{FloatVector(0, 2.8, 2.8), FloatVector(2.8, 0, 2.8), FloatVector(2.8, 2.8, 0)},
			"label":  String("Al"),
		},
	}

	for _, original := range testCases {
		canonical1, err := MarshalCanonical(original)
		require.NoError(t, err)

		val, err := Unmarshal(canonical1)
		require.NoError(t, err)

		canonical2, err := MarshalCanonical(val)
		require.NoError(t, err)

		assert.Equal(t, canonical1, canonical2, "canonical marshaling must be idempotent")
	}
}

// FuzzMarshalCanonicalIdempotent tests the idempotency property via fuzzing
func FuzzMarshalCanonicalIdempotent(f *testing.F) {
	f.Add(`{"a":1,"b":"test"}`)
	f.Add(`[1,2.5,3e-9]`)
	f.Add(`"hello"`)
	f.Add(`{"nested":{"deep":{"value":1.0e21}}}`)

	f.Fuzz(func(t *testing.T, jsonStr string) {
		val, err := Unmarshal([]byte(jsonStr))
		if err != nil {
			t.Skip()
		}

		canonical1, err := MarshalCanonical(val)
		if err != nil {
			t.Skip()
		}

		val2, err := Unmarshal(canonical1)
		require.NoError(t, err)

		canonical2, err := MarshalCanonical(val2)
		require.NoError(t, err)

		assert.Equal(t, canonical1, canonical2, "canonical marshaling must be idempotent")
	})
}
