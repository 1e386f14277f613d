package crystal

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nan-1212/abipy/internal/ir"
)

func TestNewLatticeRejectsSingular(t *testing.T) {
	_, err := NewLattice(Mat3{{1, 0, 0}, {2, 0, 0}, {0, 0, 1}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSingularLattice))
}

func TestFCCMetrics(t *testing.T) {
	l := FCC(5.613)
	abc := l.ABC()
	for _, x := range abc {
		assert.InDelta(t, 5.613/math.Sqrt2, x, 1e-12)
	}
	for _, ang := range l.Angles() {
		assert.InDelta(t, 60, ang, 1e-9)
	}
	assert.InDelta(t, math.Pow(5.613, 3)/4, l.Volume(), 1e-9)
}

func TestFromParameters(t *testing.T) {
	tests := []struct {
		name               string
		a, b, c            float64
		alpha, beta, gamma float64
	}{
		{"cubic", 4, 4, 4, 90, 90, 90},
		{"hexagonal", 3.2, 3.2, 5.1, 90, 90, 120},
		{"triclinic", 3, 4, 5, 80, 95, 105},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := FromParameters(tt.a, tt.b, tt.c, tt.alpha, tt.beta, tt.gamma)
			require.NoError(t, err)

			abc := l.ABC()
			assert.InDelta(t, tt.a, abc[0], 1e-9)
			assert.InDelta(t, tt.b, abc[1], 1e-9)
			assert.InDelta(t, tt.c, abc[2], 1e-9)

			ang := l.Angles()
			assert.InDelta(t, tt.alpha, ang[0], 1e-9)
			assert.InDelta(t, tt.beta, ang[1], 1e-9)
			assert.InDelta(t, tt.gamma, ang[2], 1e-9)
		})
	}
}

func TestCartFracRoundTrip(t *testing.T) {
	l, err := FromParameters(3, 4, 5, 80, 95, 105)
	require.NoError(t, err)

	frac := Vec3{0.1, 0.25, 0.7}
	back := l.FracCoords(l.CartCoords(frac))
	for i := range 3 {
		assert.InDelta(t, frac[i], back[i], 1e-12)
	}
}

func TestReciprocalMatrix(t *testing.T) {
	l := FCC(5.613)
	m, r := l.Matrix(), l.ReciprocalMatrix()

	for i := range 3 {
		for j := range 3 {
			got := dot(Vec3(m[i]), Vec3(r[j]))
			want := 0.0
			if i == j {
				want = 2 * math.Pi
			}
			assert.InDelta(t, want, got, 1e-9, "a_%d . b_%d", i, j)
		}
	}
}

func TestScaled(t *testing.T) {
	l := Cubic(2).Scaled(1.5)
	assert.InDelta(t, 27, l.Volume(), 1e-12)
}

func TestLatticeValueRoundTrip(t *testing.T) {
	l := FCC(5.613)
	obj := l.ToValue()
	obj["pbc"] = ir.Array{ir.Bool(true), ir.Bool(true), ir.Bool(true)}

	decoded, err := LatticeFromValue(obj)
	require.NoError(t, err)

	again := decoded.ToValue()
	want, err := ir.MarshalCanonical(obj)
	require.NoError(t, err)
	got, err := ir.MarshalCanonical(again)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestLatticeFromValueKeepsRecordedMetrics(t *testing.T) {
	obj := Cubic(4).ToValue()
	obj["a"] = ir.Float(4 * (1 + 1e-9))

	l, err := LatticeFromValue(obj)
	require.NoError(t, err)
	assert.Equal(t, 4*(1+1e-9), l.ABC()[0])
}

func TestLatticeFromValueRejectsBadMetrics(t *testing.T) {
	obj := Cubic(4).ToValue()
	obj["volume"] = ir.Float(65)

	_, err := LatticeFromValue(obj)
	require.Error(t, err)

	var me *MetricsError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "volume", me.Field)
	assert.InDelta(t, 64, me.Computed, 1e-9)
}

func TestLatticeFromValueErrors(t *testing.T) {
	tests := []struct {
		name  string
		input ir.Value
		want  string
	}{
		{"not object", ir.Int(1), "expected object"},
		{"no matrix", ir.Object{}, "missing matrix"},
		{"two rows", ir.Object{"matrix": ir.Array{ir.FloatVector(1, 0, 0), ir.FloatVector(0, 1, 0)}}, "expected 3 rows"},
		{"short row", ir.Object{"matrix": ir.Array{ir.FloatVector(1, 0), ir.FloatVector(0, 1, 0), ir.FloatVector(0, 0, 1)}}, "row 0"},
		{"string metric", func() ir.Value {
			o := Cubic(1).ToValue()
			o["a"] = ir.String("1")
			return o
		}(), "expected number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LatticeFromValue(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLatticeValueRoundTripWithoutMetrics(t *testing.T) {
	obj := ir.Object{"matrix": FCC(5.613).ToValue()["matrix"]}

	l, err := LatticeFromValue(obj)
	require.NoError(t, err)
	assert.InDelta(t, 5.613*5.613*5.613/4, l.Volume(), 1e-9)

	back := l.ToValue()
	for _, k := range metricKeys {
		assert.NotContains(t, back, k)
	}
	want, err := ir.MarshalCanonical(obj)
	require.NoError(t, err)
	got, err := ir.MarshalCanonical(back)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestLatticeValueRoundTripPartialMetrics(t *testing.T) {
	obj := Cubic(4).ToValue()
	delete(obj, "volume")
	delete(obj, "gamma")

	l, err := LatticeFromValue(obj)
	require.NoError(t, err)

	back := l.ToValue()
	assert.NotContains(t, back, "volume")
	assert.NotContains(t, back, "gamma")
	assert.Equal(t, obj["a"], back["a"])
	assert.Contains(t, l.Scaled(2).ToValue(), "volume")
}
