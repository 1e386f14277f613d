package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	var _ Value = Null{}
	var _ Value = String("test")
	var _ Value = Int(42)
	var _ Value = Float(4.2)
	var _ Value = Bool(true)
	var _ Value = Array{String("a"), Int(1)}
	var _ Value = Object{"key": String("value")}
}

func TestObjectSortedKeys(t *testing.T) {
	obj := Object{
		"zebra":  String("z"),
		"apple":  String("a"),
		"banana": String("b"),
	}

	assert.Equal(t, []string{"apple", "banana", "zebra"}, obj.SortedKeys())
}

func TestObjectSortedKeysRFC8785Order(t *testing.T) {
	obj := Object{
		"a":  Int(1),
		"A":  Int(2),
		"aa": Int(3),
		"aA": Int(4),
		"Aa": Int(5),
		"AA": Int(6),
	}

	// 'A' = 65, 'a' = 97
	assert.Equal(t, []string{"A", "AA", "Aa", "a", "aA", "aa"}, obj.SortedKeys())
}

func TestCompareKeysRFC8785(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"a", "b", -1},
		{"b", "a", 1},
		{"a", "a", 0},
		{"aa", "a", 1},
		{"a", "aa", -1},
		{"", "", 0},
		{"", "a", -1},
		{"@class", "@module", -1},
		{"@module", "abi_args", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			result := compareKeysRFC8785(tt.a, tt.b)
			switch {
			case tt.expected < 0:
				assert.Less(t, result, 0)
			case tt.expected > 0:
				assert.Greater(t, result, 0)
			default:
				assert.Equal(t, 0, result)
			}
		})
	}
}

func TestUnmarshalKeepsIntFloatDistinction(t *testing.T) {
	tests := []struct {
		input    string
		expected Value
	}{
		{`1`, Int(1)},
		{`-7`, Int(-7)},
		{`1.0`, Float(1)},
		{`2.5e-3`, Float(0.0025)},
		{`1E2`, Float(100)},
		{`9223372036854775807`, Int(9223372036854775807)},
		{`"ecut"`, String("ecut")},
		{`true`, Bool(true)},
		{`null`, Null{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Unmarshal([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestUnmarshalHugeIntegerBecomesFloat(t *testing.T) {
	v, err := Unmarshal([]byte(`123456789012345678901234567890`))
	require.NoError(t, err)
	_, isFloat := v.(Float)
	assert.True(t, isFloat, "expected Float, got %T", v)
}

func TestUnmarshalRejectsTrailingData(t *testing.T) {
	_, err := Unmarshal([]byte(`{"a":1} {"b":2}`))
	require.Error(t, err)
}

func TestUnmarshalNested(t *testing.T) {
	v, err := Unmarshal([]byte(`{"abi_args":[["ecut",6.0],["ngkpt",[4,4,4]]],"comment":null}`))
	require.NoError(t, err)

	obj := v.(Object)
	args := obj["abi_args"].(Array)
	require.Len(t, args, 2)

	first := args[0].(Array)
	assert.Equal(t, String("ecut"), first[0])
	assert.Equal(t, Float(6), first[1])

	second := args[1].(Array)
	assert.Equal(t, IntVector(4, 4, 4), second[1])

	_, isNull := obj["comment"].(Null)
	assert.True(t, isNull)
}

func TestNullInObjectRoundTrip(t *testing.T) {
	obj := Object{
		"present": String("value"),
		"missing": Null{},
	}

	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"missing":null`)

	var decoded Object
	require.NoError(t, json.Unmarshal(data, &decoded))

	_, isNull := decoded["missing"].(Null)
	assert.True(t, isNull, "expected Null, got %T", decoded["missing"])
}

func TestArrayUnmarshalJSONRejectsObject(t *testing.T) {
	var arr Array
	err := json.Unmarshal([]byte(`{"a":1}`), &arr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected JSON array")
}

func TestFloatMarshalJSONKeepsFraction(t *testing.T) {
	data, err := json.Marshal(Array{Float(6), Int(6), Float(0.5)})
	require.NoError(t, err)
	assert.Equal(t, `[6.0,6,0.5]`, string(data))

	var back Array
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Array{Float(6), Int(6), Float(0.5)}, back)
}

func TestFromAnyAndToAny(t *testing.T) {
	in := map[string]any{
		"s":   "x",
		"i":   int64(3),
		"f":   1.5,
		"b":   false,
		"n":   nil,
		"arr": []any{int64(1), "two"},
	}

	v, err := FromAny(in)
	require.NoError(t, err)
	assert.Equal(t, in, ToAny(v))
}

func TestFromAnyRejectsNaN(t *testing.T) {
	_, err := FromAny([]any{1.0, nanValue()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-finite")
}

func TestAsHelpers(t *testing.T) {
	f, ok := AsFloat(Int(3))
	assert.True(t, ok)
	assert.Equal(t, 3.0, f)

	n, ok := AsInt(Float(4))
	assert.True(t, ok)
	assert.Equal(t, int64(4), n)

	_, ok = AsInt(Float(4.5))
	assert.False(t, ok)

	floats, err := AsFloats(Array{Int(1), Float(0.25)})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0.25}, floats)

	_, err = AsFloats(Array{String("x")})
	require.Error(t, err)

	ints, err := AsInts(Array{Int(1), Float(2)})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ints)

	m, err := AsMatrix(Array{FloatVector(0, 0.5, 0.5), FloatVector(0.5, 0, 0.5)})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 0.5, 0.5}, {0.5, 0, 0.5}}, m)

	_, err = AsMatrix(Array{Int(1)})
	require.Error(t, err)
}

func TestCloneIsDeep(t *testing.T) {
	orig := Object{"v": Array{Int(1), Object{"k": String("a")}}}
	cp := Clone(orig).(Object)

	cp["v"].(Array)[1].(Object)["k"] = String("b")
	assert.Equal(t, String("a"), orig["v"].(Array)[1].(Object)["k"])
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "null", KindOf(Null{}))
	assert.Equal(t, "float", KindOf(Float(1)))
	assert.Equal(t, "array", KindOf(Array{}))
	assert.Equal(t, "object", KindOf(Object{}))
}
