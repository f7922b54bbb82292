// Package jsonutil provides kind-checked extraction of members from raw
// JSON values, plus deterministic compact re-encoding of raw snippets.
//
// Extraction failures carry a *KindError naming the member and the JSON
// kinds involved, so callers can distinguish "wrong type of data" from
// "malformed extension shape" without string matching.
//
// Compact produces byte-stable output for a given input: objects are
// re-emitted with members in sorted key order, numbers keep their source
// spelling, and all insignificant whitespace is removed. Two raw snippets
// that parse to the same tree compact to the same bytes, which is what
// makes lossless pass-through testable.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// KindError reports a JSON value of the wrong kind encountered while
// extracting a member.
type KindError struct {
	Member string
	Want   string
	Got    string
}

func (e *KindError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("expected %s, got %s", e.Want, e.Got)
	}
	return fmt.Sprintf("member %q: expected %s, got %s", e.Member, e.Want, e.Got)
}

// Kind reports the JSON kind of raw by its first significant byte:
// "object", "array", "string", "number", "bool", "null", or "invalid"
// for empty/blank input.
func Kind(raw json.RawMessage) string {
	for _, c := range raw {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return "object"
		case '[':
			return "array"
		case '"':
			return "string"
		case 't', 'f':
			return "bool"
		case 'n':
			return "null"
		default:
			return "number"
		}
	}
	return "invalid"
}

// Object decodes raw as a JSON object. member names the value in the
// returned *KindError when raw is some other kind.
func Object(member string, raw json.RawMessage) (map[string]json.RawMessage, error) {
	if k := Kind(raw); k != "object" {
		return nil, &KindError{Member: member, Want: "object", Got: k}
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("member %q: %w", member, err)
	}
	return obj, nil
}

// String decodes raw as a JSON string.
func String(member string, raw json.RawMessage) (string, error) {
	if k := Kind(raw); k != "string" {
		return "", &KindError{Member: member, Want: "string", Got: k}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("member %q: %w", member, err)
	}
	return s, nil
}

// Float decodes raw as a JSON number.
func Float(member string, raw json.RawMessage) (float64, error) {
	if k := Kind(raw); k != "number" {
		return 0, &KindError{Member: member, Want: "number", Got: k}
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("member %q: %w", member, err)
	}
	return f, nil
}

// Uint decodes raw as a non-negative JSON integer.
func Uint(member string, raw json.RawMessage) (uint32, error) {
	if k := Kind(raw); k != "number" {
		return 0, &KindError{Member: member, Want: "integer", Got: k}
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("member %q: %w", member, err)
	}
	v, err := strconv.ParseUint(n.String(), 10, 32)
	if err != nil {
		return 0, &KindError{Member: member, Want: "integer", Got: "number"}
	}
	return uint32(v), nil
}

// FloatArray decodes raw as a JSON array of numbers.
func FloatArray(member string, raw json.RawMessage) ([]float64, error) {
	if k := Kind(raw); k != "array" {
		return nil, &KindError{Member: member, Want: "array", Got: k}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("member %q: %w", member, err)
	}
	out := make([]float64, len(elems))
	for i, e := range elems {
		f, err := Float(member, e)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// UintOrDefault returns obj[member] as a non-negative integer, or def
// when the member is absent.
func UintOrDefault(obj map[string]json.RawMessage, member string, def uint32) (uint32, error) {
	raw, ok := obj[member]
	if !ok {
		return def, nil
	}
	return Uint(member, raw)
}

// FloatOrDefault returns obj[member] as a number, or def when the member
// is absent.
func FloatOrDefault(obj map[string]json.RawMessage, member string, def float64) (float64, error) {
	raw, ok := obj[member]
	if !ok {
		return def, nil
	}
	return Float(member, raw)
}

// Compact re-encodes raw deterministically: object members sorted by key,
// no insignificant whitespace, number spellings preserved from the input.
func Compact(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	if err := dec.Decode(new(any)); err != io.EOF {
		if err == nil {
			return "", fmt.Errorf("trailing data after JSON value")
		}
		return "", err
	}

	var buf bytes.Buffer
	if err := writeCompact(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeCompact(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(x))
	case string:
		b, err := json.Marshal(x)
		if err != nil {
			return err
		}
		buf.Write(b)
	case json.Number:
		buf.WriteString(x.String())
	case []any:
		buf.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCompact(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := writeCompact(buf, x[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported JSON value type %T", v)
	}
	return nil
}

// Number formats f the shortest way that round-trips: plain decimal for
// ordinary magnitudes, unpadded exponent form for extremes. NaN and the
// infinities have no JSON spelling and produce an error.
func Number(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("number has no JSON representation: %v", f)
	}
	if f == 0 {
		return "0", nil
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		return trimExponent(strconv.FormatFloat(f, 'e', -1, 64)), nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// NumberArray formats fs as a JSON array using Number for each element.
func NumberArray(fs []float64) (string, error) {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range fs {
		if i > 0 {
			b.WriteByte(',')
		}
		s, err := Number(f)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	b.WriteByte(']')
	return b.String(), nil
}

// trimExponent strips the zero padding Go puts in exponents (1e-06 → 1e-6).
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	sign := s[i+1]
	exp := strings.TrimLeft(s[i+2:], "0")
	if exp == "" {
		exp = "0"
	}
	return s[:i+1] + string(sign) + exp
}
