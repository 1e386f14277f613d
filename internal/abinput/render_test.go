package abinput

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nan-1212/abipy/internal/crystal"
	"github.com/nan-1212/abipy/internal/ir"
)

func TestFormatScalar(t *testing.T) {
	tests := []struct {
		in   ir.Value
		want string
	}{
		{ir.Int(4), "4"},
		{ir.Int(-1), "-1"},
		{ir.Float(6), "6.0"},
		{ir.Float(0.25), "0.25"},
		{ir.Float(1e-8), "1e-8"},
		{ir.Float(-0.5), "-0.5"},
		{ir.String("*1"), "*1"},
		{ir.Bool(true), "1"},
		{ir.Bool(false), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := FormatScalar(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FormatScalar(ir.Object{})
	assert.Error(t, err)
}

func TestRenderSmallInput(t *testing.T) {
	s, err := crystal.NewStructure(crystal.Cubic(4), []string{"Si"}, []crystal.Vec3{{0, 0, 0}})
	require.NoError(t, err)
	in := New(s)
	comment := "silicon"
	in.Comment = &comment
	in.Set("ecut", ir.Float(10))
	in.Set("shiftk", ir.Array{ir.FloatVector(0.5, 0.5, 0.5), ir.FloatVector(0, 0, 0)})
	in.Set("skipped", ir.Null{})
	in.Set("empty", ir.Array{})

	out, err := Render(in)
	require.NoError(t, err)

	want := "# silicon\n" +
		"\n" +
		"ecut    10.0\n" +
		"shiftk  0.5 0.5 0.5\n" +
		"        0.0 0.0 0.0\n" +
		"\n" +
		"#### STRUCTURE ####\n" +
		"natom  1\n" +
		"ntypat 1\n" +
		"typat  1\n" +
		"znucl  14.0\n" +
		"xred   0.0 0.0 0.0\n" +
		"acell  1.0 1.0 1.0\n"
	assert.Contains(t, out, want)
	assert.Contains(t, out, "\n#### PSEUDOS ####\n")
}

func TestRenderRejectsObjects(t *testing.T) {
	in := alasInput(t)
	in.Set("weird", ir.Object{"a": ir.Int(1)})
	_, err := Render(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weird")
}

func TestRenderMatchesGolden(t *testing.T) {
	for _, name := range []string{"alas_dfpt", "alas_dfpt_comment"} {
		t.Run(name, func(t *testing.T) {
			var in Input
			require.NoError(t, json.Unmarshal(loadFixture(t, name+".json"), &in))

			got, err := Render(&in)
			require.NoError(t, err)

			want, err := os.ReadFile(filepath.Join("..", "..", "testdata", "golden", name+".golden"))
			require.NoError(t, err)
			assert.Equal(t, string(want), got)
		})
	}
}

func TestDFPTHelpers(t *testing.T) {
	var in Input
	require.NoError(t, json.Unmarshal(loadFixture(t, "alas_dfpt.json"), &in))

	assert.True(t, in.IsDFPT())
	assert.Equal(t, []string{"rfphon"}, in.Perturbations())

	qs, err := in.QPoints()
	require.NoError(t, err)
	assert.Equal(t, []crystal.Vec3{{0.25, 0, 0}}, qs)
}

func TestQPoints(t *testing.T) {
	in := alasInput(t)
	qs, err := in.QPoints()
	require.NoError(t, err)
	assert.Nil(t, qs)
	assert.False(t, in.IsDFPT())

	in.Set("nqpt", ir.Int(2))
	in.Set("qpt", ir.Array{ir.FloatVector(0, 0, 0), ir.FloatVector(0.5, 0, 0)})
	qs, err = in.QPoints()
	require.NoError(t, err)
	assert.Equal(t, []crystal.Vec3{{0, 0, 0}, {0.5, 0, 0}}, qs)

	in.Set("qpt", ir.FloatVector(0, 0, 0))
	_, err = in.QPoints()
	assert.ErrorContains(t, err, "nqpt=2")

	in.Set("qpt", ir.String("gamma"))
	_, err = in.QPoints()
	assert.ErrorContains(t, err, "expected array")

	in.Set("rfelfd", ir.Int(0))
	assert.Empty(t, in.Perturbations())
	in.AddTags(TagDFPT)
	assert.True(t, in.IsDFPT())
}
