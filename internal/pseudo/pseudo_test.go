package pseudo

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nan-1212/abipy/internal/crystal"
	"github.com/nan-1212/abipy/internal/ir"
)

func writePseudo(t *testing.T, dir, basename, symbol string, z int, content string) *Pseudo {
	t.Helper()
	path := filepath.Join(dir, basename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	sum := md5.Sum([]byte(content))
	lmax := 2
	return &Pseudo{
		Module:   DefaultModule,
		Class:    ClassNcAbinitPseudo,
		Basename: basename,
		Type:     "NC",
		Symbol:   symbol,
		Z:        z,
		ZVal:     3,
		LMax:     &lmax,
		MD5:      hex.EncodeToString(sum[:]),
		Filepath: path,
	}
}

func TestComputeMD5(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x")
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0o644))

	sum, err := ComputeMD5(path)
	require.NoError(t, err)
	assert.Equal(t, "b1946ac92492d2347c6235b4d2611184", sum)

	_, err = ComputeMD5(filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	p := writePseudo(t, dir, "13al.pspnc", "Al", 13, "aluminium pseudo\n")

	actual, err := Verify(p, "")
	require.NoError(t, err)
	assert.Equal(t, p.MD5, actual)
}

func TestVerifyMismatch(t *testing.T) {
	dir := t.TempDir()
	p := writePseudo(t, dir, "13al.pspnc", "Al", 13, "aluminium pseudo\n")
	require.NoError(t, os.WriteFile(p.Filepath, []byte("tampered\n"), 0o644))

	_, err := Verify(p, "")
	var ce *ChecksumError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, p.MD5, ce.Recorded)
	assert.NotEqual(t, ce.Recorded, ce.Actual)
}

func TestVerifyMissingFileAndChecksum(t *testing.T) {
	p := &Pseudo{Basename: "gone.psp8", Symbol: "Si", Z: 14, MD5: "00", Filepath: "/nonexistent/gone.psp8"}
	_, err := Verify(p, "")
	assert.ErrorIs(t, err, os.ErrNotExist)

	p.MD5 = ""
	_, err = Verify(p, "")
	assert.ErrorIs(t, err, ErrNoChecksum)
}

func TestVerifyUppercaseChecksum(t *testing.T) {
	dir := t.TempDir()
	p := writePseudo(t, dir, "14si.pspnc", "Si", 14, "si\n")
	p.MD5 = hexUpper(p.MD5)

	_, err := Verify(p, "")
	assert.NoError(t, err)
}

func hexUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'f' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func TestPathRelocation(t *testing.T) {
	p := &Pseudo{Basename: "13al.pspnc", Filepath: "/old/place/13al.pspnc"}
	assert.Equal(t, "/old/place/13al.pspnc", p.Path(""))
	assert.Equal(t, filepath.Join("/new", "13al.pspnc"), p.Path("/new"))

	p.Filepath = ""
	assert.Equal(t, "13al.pspnc", p.Path(""))
}

func TestVerifyAll(t *testing.T) {
	dir := t.TempDir()
	good := writePseudo(t, dir, "13al.pspnc", "Al", 13, "al\n")
	bad := writePseudo(t, dir, "33as.pspnc", "As", 33, "as\n")
	bad.MD5 = "ffffffffffffffffffffffffffffffff"
	missing := &Pseudo{Basename: "14si.pspnc", Symbol: "Si", Z: 14, MD5: "aa"}

	results, err := VerifyAll(context.Background(), []*Pseudo{good, bad, missing}, VerifyOptions{Dir: dir, Parallel: 2})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].OK())
	assert.Same(t, good, results[0].Pseudo)

	var ce *ChecksumError
	assert.True(t, errors.As(results[1].Err, &ce))
	assert.ErrorIs(t, results[2].Err, os.ErrNotExist)
	assert.False(t, AllOK(results))
	assert.True(t, AllOK(results[:1]))
}

func TestVerifyAllCancelled(t *testing.T) {
	dir := t.TempDir()
	p := writePseudo(t, dir, "13al.pspnc", "Al", 13, "al\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := VerifyAll(ctx, []*Pseudo{p, p, p}, VerifyOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDescriptorRoundTrip(t *testing.T) {
	input := `{"@module":"pymatgen.io.abinit.pseudos","@class":"NcAbinitPseudo","basename":"13al.981214.fhi","type":"NC","symbol":"Al","Z":13,"Z_val":3.0,"l_max":3,"md5":"ad9af7b4e1ac1e8d0e2e9a2bc8d3e5c7","filepath":"/data/13al.981214.fhi","dojo_report":{}}`

	var p Pseudo
	require.NoError(t, json.Unmarshal([]byte(input), &p))
	assert.Equal(t, "Al", p.Symbol)
	assert.Equal(t, 3.0, p.ZVal)
	require.NotNil(t, p.LMax)
	assert.Equal(t, 3, *p.LMax)
	assert.True(t, KnownClass(p.Class))

	out, err := json.Marshal(&p)
	require.NoError(t, err)

	orig, err := ir.Unmarshal([]byte(input))
	require.NoError(t, err)
	want, err := ir.MarshalCanonical(orig)
	require.NoError(t, err)
	got, err := ir.MarshalCanonical(p.ToValue())
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
	assert.Contains(t, string(out), `"Z_val":3.0`)
}

func TestDescriptorRoundTripOptionalKeys(t *testing.T) {
	full := `{"@module":"pymatgen.io.abinit.pseudos","@class":"NcAbinitPseudo","basename":"13al.981214.fhi","type":"NC","symbol":"Al","Z":13,"Z_val":3.0,"l_max":3,"md5":"ad9af7b4e1ac1e8d0e2e9a2bc8d3e5c7","filepath":"/data/13al.981214.fhi"}`

	for _, key := range []string{"@module", "@class", "type", "l_max", "md5", "filepath"} {
		t.Run(key, func(t *testing.T) {
			v, err := ir.Unmarshal([]byte(full))
			require.NoError(t, err)
			obj := v.(ir.Object)
			delete(obj, key)

			p, err := FromValue(obj)
			require.NoError(t, err)
			got := p.ToValue()
			assert.NotContains(t, got, key)

			want, err := ir.MarshalCanonical(obj)
			require.NoError(t, err)
			enc, err := ir.MarshalCanonical(got)
			require.NoError(t, err)
			assert.Equal(t, string(want), string(enc))
		})
	}
}

func TestAbsentKeyEmittedOnceSet(t *testing.T) {
	p, err := FromValue(ir.Object{
		"basename": ir.String("13al.pspnc"),
		"symbol":   ir.String("Al"),
		"Z":        ir.Int(13),
		"Z_val":    ir.Float(3),
	})
	require.NoError(t, err)
	assert.NotContains(t, p.ToValue(), "md5")

	p.MD5 = "ad9af7b4e1ac1e8d0e2e9a2bc8d3e5c7"
	assert.Equal(t, ir.String(p.MD5), p.ToValue()["md5"])
}

func TestFromValueNullLMaxAndUnknownClass(t *testing.T) {
	obj := ir.Object{
		"@class":   ir.String("HghPseudo"),
		"basename": ir.String("Si.hgh"),
		"symbol":   ir.String("Si"),
		"Z":        ir.Int(14),
		"Z_val":    ir.Int(4),
		"l_max":    ir.Null{},
	}
	p, err := FromValue(obj)
	require.NoError(t, err)
	assert.Nil(t, p.LMax)
	assert.False(t, KnownClass(p.Class))
	assert.Equal(t, ir.Null{}, p.ToValue()["l_max"])
	assert.Contains(t, p.String(), "Si.hgh")
}

func TestFromValueErrors(t *testing.T) {
	base := func() ir.Object {
		return ir.Object{
			"basename": ir.String("13al.pspnc"),
			"symbol":   ir.String("Al"),
			"Z":        ir.Int(13),
			"Z_val":    ir.Float(3),
		}
	}
	tests := []struct {
		name   string
		mutate func(ir.Object)
		want   string
	}{
		{"missing basename", func(o ir.Object) { delete(o, "basename") }, "missing basename"},
		{"symbol not string", func(o ir.Object) { o["symbol"] = ir.Int(1) }, "expected string"},
		{"fractional Z", func(o ir.Object) { o["Z"] = ir.Float(13.5) }, "Z: expected integer"},
		{"no Z_val", func(o ir.Object) { delete(o, "Z_val") }, "Z_val"},
		{"bad l_max", func(o ir.Object) { o["l_max"] = ir.String("p") }, "l_max"},
		{"unknown symbol", func(o ir.Object) { o["symbol"] = ir.String("Qq") }, "unknown element"},
		{"Z mismatch", func(o ir.Object) { o["Z"] = ir.Int(14) }, "descriptor says 14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := base()
			tt.mutate(obj)
			_, err := FromValue(obj)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTableForStructure(t *testing.T) {
	s, err := crystal.NewStructure(crystal.FCC(5.613), []string{"As", "Al"}, []crystal.Vec3{{0, 0, 0}, {0.25, 0.25, 0.25}})
	require.NoError(t, err)

	al := &Pseudo{Basename: "al", Symbol: "Al", Z: 13}
	as := &Pseudo{Basename: "as", Symbol: "As", Z: 33}
	si := &Pseudo{Basename: "si", Symbol: "Si", Z: 14}

	table := NewTable(al, si, as)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"Al", "Si", "As"}, table.Symbols())

	got, err := table.ForStructure(s)
	require.NoError(t, err)
	assert.Equal(t, []*Pseudo{as, al}, got, "ordered like the structure types")

	_, err = NewTable(al).ForStructure(s)
	assert.ErrorIs(t, err, ErrMissingPseudo)

	_, err = NewTable(al, as, &Pseudo{Basename: "as2", Symbol: "As", Z: 33}).ForStructure(s)
	assert.ErrorIs(t, err, ErrAlchemicalMixing)
}
