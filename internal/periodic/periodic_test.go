package periodic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableIsConsistent(t *testing.T) {
	require.Equal(t, 118, Count())
	seen := make(map[string]bool)
	for i, e := range elements {
		assert.Equal(t, i+1, e.Z, "element %s out of order", e.Symbol)
		assert.False(t, seen[e.Symbol], "duplicate symbol %s", e.Symbol)
		assert.Greater(t, e.Mass, 0.0)
		seen[e.Symbol] = true
	}
}

func TestFromSymbol(t *testing.T) {
	tests := []struct {
		symbol string
		z      int
	}{
		{"H", 1},
		{"Al", 13},
		{"As", 33},
		{"Si", 14},
		{"Og", 118},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			e, err := FromSymbol(tt.symbol)
			require.NoError(t, err)
			assert.Equal(t, tt.z, e.Z)
		})
	}
}

func TestFromSymbolUnknown(t *testing.T) {
	_, err := FromSymbol("Xx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownElement))

	_, err = FromSymbol("AL")
	require.Error(t, err, "lookup is case sensitive")
}

func TestFromZ(t *testing.T) {
	e, err := FromZ(33)
	require.NoError(t, err)
	assert.Equal(t, "As", e.Symbol)

	_, err = FromZ(0)
	assert.ErrorIs(t, err, ErrUnknownElement)
	_, err = FromZ(119)
	assert.ErrorIs(t, err, ErrUnknownElement)
}

func TestFromZnucl(t *testing.T) {
	e, err := FromZnucl(13.0)
	require.NoError(t, err)
	assert.Equal(t, "Al", e.Symbol)

	_, err = FromZnucl(13.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-integral")
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "Al", NormalizeSymbol("AL"))
	assert.Equal(t, "As", NormalizeSymbol(" as "))
	assert.Equal(t, "", NormalizeSymbol(""))
	assert.True(t, IsSymbol(NormalizeSymbol("SI")))
}
