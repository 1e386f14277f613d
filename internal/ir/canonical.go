package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON.
// CRITICAL: This is the ONLY serialization that should be used for
// round-trip equivalence and content-addressed identity.
//
// Key differences from standard json.Marshal:
// 1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
// 2. No HTML escaping (< > & are NOT escaped), U+2028/U+2029 literal
// 3. Strings are NFC normalized
// 4. Numbers use the ECMAScript shortest form (1.0 and 1 both become 1)
// 5. NaN and Inf are rejected
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v, true); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Marshal produces compact JSON with sorted keys and no HTML escaping.
// Unlike MarshalCanonical, a Float with an integral value keeps a ".0"
// suffix and strings are not normalized, so decoding the output gives back
// the same Value.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v, false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent is Marshal with indentation applied.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	compact, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, prefix, indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v any, canonical bool) error {
	switch val := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case String:
		writeString(buf, string(val), canonical)
	case string:
		writeString(buf, val, canonical)
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case int:
		buf.WriteString(strconv.Itoa(val))
	case Float:
		return writeFloat(buf, float64(val), canonical)
	case float64:
		return writeFloat(buf, val, canonical)
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case Array:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, elem, canonical); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case Object:
		return writeObject(buf, val, canonical)
	case []any, map[string]any, []float64, []int64:
		conv, err := FromAny(val)
		if err != nil {
			return err
		}
		return writeValue(buf, conv, canonical)
	default:
		return fmt.Errorf("unsupported type for JSON value: %T", v)
	}
	return nil
}

func writeFloat(buf *bytes.Buffer, f float64, canonical bool) error {
	s, err := FormatNumber(f)
	if err != nil {
		return err
	}
	if !canonical && !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	buf.WriteString(s)
	return nil
}

func writeObject(buf *bytes.Buffer, obj Object, canonical bool) error {
	keys := obj.SortedKeys()
	if canonical {
		// NFC can merge two distinct keys; re-sort on the normalized form.
		normalized := make(Object, len(obj))
		for _, k := range keys {
			nk := norm.NFC.String(k)
			if _, dup := normalized[nk]; dup {
				return fmt.Errorf("keys collide after NFC normalization: %q", nk)
			}
			normalized[nk] = obj[k]
		}
		obj = normalized
		keys = obj.SortedKeys()
	}

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(buf, k, canonical)
		buf.WriteByte(':')
		if err := writeValue(buf, obj[k], canonical); err != nil {
			return fmt.Errorf("value for key %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

// writeString escapes only what RFC 8785 requires: quote, backslash and
// control characters below U+0020. Everything else is written literally.
func writeString(buf *bytes.Buffer, s string, canonical bool) {
	if canonical {
		s = norm.NFC.String(s)
	}
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '\b':
			buf.WriteString(`\b`)
		case r == '\f':
			buf.WriteString(`\f`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r < 0x20:
			fmt.Fprintf(buf, `\u%04x`, r)
		case r == utf8.RuneError && size == 1:
			buf.WriteString("\uFFFD")
		default:
			buf.WriteString(s[i : i+size])
		}
		i += size
	}
	buf.WriteByte('"')
}

// FormatNumber renders f the way ECMAScript Number.prototype.toString does,
// which is the number form RFC 8785 mandates.
func FormatNumber(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("non-finite numbers are forbidden in JSON: %v", f)
	}
	if f == 0 {
		return "0", nil
	}

	// Shortest round-trip digits; 'e' form gives d.dddde+XX.
	s := strconv.FormatFloat(f, 'e', -1, 64)
	sign := ""
	if s[0] == '-' {
		sign = "-"
		s = s[1:]
	}
	mant, expPart, _ := strings.Cut(s, "e")
	exp, err := strconv.Atoi(expPart)
	if err != nil {
		return "", fmt.Errorf("format number %v: %w", f, err)
	}
	digits := strings.Replace(mant, ".", "", 1)
	k := len(digits)
	n := exp + 1 // value = 0.digits * 10^n

	var out string
	switch {
	case k <= n && n <= 21:
		out = digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		out = digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		out = "0." + strings.Repeat("0", -n) + digits
	default:
		e := n - 1
		esign := "+"
		if e < 0 {
			esign = "-"
			e = -e
		}
		if k == 1 {
			out = digits + "e" + esign + strconv.Itoa(e)
		} else {
			out = digits[:1] + "." + digits[1:] + "e" + esign + strconv.Itoa(e)
		}
	}
	return sign + out, nil
}
