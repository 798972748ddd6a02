// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package pjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf8"
)

// Kind identifies the shape of a [Value].
type Kind int

const (
	KNull Kind = iota
	KBool
	KNumber
	KString
	KArray
	KObject
)

func (k Kind) String() string {
	switch k {
	case KNull:
		return "null"
	case KBool:
		return "bool"
	case KNumber:
		return "number"
	case KString:
		return "string"
	case KArray:
		return "array"
	case KObject:
		return "object"
	default:
		return "invalid"
	}
}

// Member is a single key/value pair of an object, in source order.
type Member struct {
	Key   string
	Value Value
}

// Value is an immutable JSON value. The zero Value is JSON null.
//
// A Value is always a complete, independently valid snapshot: it never
// shares mutable storage with the live container that produced it (see
// [github.com/mjpartial/pjson/builder]), so holding onto one never pins or
// observes later mutation of the value the builder is still assembling.
//
// Numbers are retained as their original source text rather than converted
// to float64 eagerly, so that values outside float64's precision (large
// integers, in particular) are not silently corrupted; use [Value.Float64]
// or [Value.Int64] to convert on demand.
type Value struct {
	kind Kind
	b    bool
	num  string
	str  string
	arr  []Value
	obj  []Member
}

// NullValue returns the JSON null value.
func NullValue() Value { return Value{kind: KNull} }

// Bool returns a JSON boolean value.
func Bool(b bool) Value { return Value{kind: KBool, b: b} }

// RawNumber returns a JSON number value whose source text is exactly text.
// The caller is responsible for text being a syntactically valid JSON
// number; the Tokenizer guarantees this for values it produces.
func RawNumber(text string) Value { return Value{kind: KNumber, num: text} }

// NumberFromInt64 returns a JSON number value for n.
func NumberFromInt64(n int64) Value { return RawNumber(strconv.FormatInt(n, 10)) }

// NumberFromFloat64 returns a JSON number value for f.
func NumberFromFloat64(f float64) Value {
	return RawNumber(strconv.FormatFloat(f, 'g', -1, 64))
}

// String returns a JSON string value.
func String(s string) Value { return Value{kind: KString, str: s} }

// Array returns a JSON array value containing items, in order. The returned
// Value owns a private copy of items.
func Array(items []Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KArray, arr: cp}
}

// Object returns a JSON object value containing members, in order. If a key
// occurs more than once, later members are kept and earlier ones with the
// same key are discarded, matching the last-write-wins semantics of the
// builder. The returned Value owns a private copy of members.
func Object(members []Member) Value {
	seen := make(map[string]int, len(members))
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if i, ok := seen[m.Key]; ok {
			out[i] = m
			continue
		}
		seen[m.Key] = len(out)
		out = append(out, m)
	}
	return Value{kind: KObject, obj: out}
}

// Kind reports the shape of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KNull }

// Bool returns v's boolean value. It panics if v.Kind() != KBool.
func (v Value) Bool() bool {
	if v.kind != KBool {
		panic(fmt.Sprintf("Bool called on a %v value", v.kind))
	}
	return v.b
}

// NumberText returns v's number value as its original source text. It
// panics if v.Kind() != KNumber.
func (v Value) NumberText() string {
	if v.kind != KNumber {
		panic(fmt.Sprintf("NumberText called on a %v value", v.kind))
	}
	return v.num
}

// Float64 parses v's number value as a float64.
func (v Value) Float64() (float64, error) { return strconv.ParseFloat(v.NumberText(), 64) }

// Int64 parses v's number value as an int64.
func (v Value) Int64() (int64, error) { return strconv.ParseInt(v.NumberText(), 10, 64) }

// Str returns v's string value. It panics if v.Kind() != KString.
func (v Value) Str() string {
	if v.kind != KString {
		panic(fmt.Sprintf("Str called on a %v value", v.kind))
	}
	return v.str
}

// Elements returns v's array elements. It panics if v.Kind() != KArray.
// The returned slice must not be modified.
func (v Value) Elements() []Value {
	if v.kind != KArray {
		panic(fmt.Sprintf("Elements called on a %v value", v.kind))
	}
	return v.arr
}

// Members returns v's object members in source order. It panics if
// v.Kind() != KObject. The returned slice must not be modified.
func (v Value) Members() []Member {
	if v.kind != KObject {
		panic(fmt.Sprintf("Members called on a %v value", v.kind))
	}
	return v.obj
}

// Find returns the value of the named member and reports whether it was
// present. It panics if v.Kind() != KObject.
func (v Value) Find(key string) (Value, bool) {
	for _, m := range v.Members() {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Equal reports whether v and w represent the same JSON value. Numbers are
// compared by their parsed float64 value, not their source text, so "1.0"
// and "1" compare equal.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KNull:
		return true
	case KBool:
		return v.b == w.b
	case KNumber:
		vf, verr := v.Float64()
		wf, werr := w.Float64()
		if verr != nil || werr != nil {
			return v.num == w.num
		}
		return vf == wf
	case KString:
		return v.str == w.str
	case KArray:
		if len(v.arr) != len(w.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(w.arr[i]) {
				return false
			}
		}
		return true
	case KObject:
		if len(v.obj) != len(w.obj) {
			return false
		}
		for _, m := range v.obj {
			wv, ok := w.Find(m.Key)
			if !ok || !m.Value.Equal(wv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// MarshalJSON implements [encoding/json.Marshaler].
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KNull:
		buf.WriteString("null")
	case KBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KNumber:
		buf.WriteString(v.num)
	case KString:
		quoteInto(buf, v.str)
	case KArray:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KObject:
		buf.WriteByte('{')
		for i, m := range v.obj {
			if i > 0 {
				buf.WriteByte(',')
			}
			quoteInto(buf, m.Key)
			buf.WriteByte(':')
			if err := m.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("pjson: invalid value kind %v", v.kind)
	}
	return nil
}

// controlEsc mirrors the teacher's internal/escape control-character table:
// a handful of control codes get a named escape, the rest get \u00XX.
var controlEsc = [' ' + 1]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
}

const hexDigit = "0123456789abcdef"

// quoteInto appends the JSON-quoted form of s to buf, escaping control
// characters, the replacement rune, and the two line/paragraph separators
// that some JSON consumers (notably JavaScript) cannot embed literally.
func quoteInto(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch {
		case r < utf8.RuneSelf:
			switch {
			case r < ' ':
				if b := controlEsc[r]; b != 0 {
					buf.WriteByte('\\')
					buf.WriteByte(b)
				} else {
					buf.WriteString("\\u00")
					buf.WriteByte(hexDigit[r>>4])
					buf.WriteByte(hexDigit[r&15])
				}
			case r == '\\' || r == '"':
				buf.WriteByte('\\')
				buf.WriteByte(byte(r))
			default:
				buf.WriteByte(byte(r))
			}
		case r == '�':
			buf.WriteString(`�`)
		case r == ' ':
			buf.WriteString(` `)
		case r == ' ':
			buf.WriteString(` `)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}

// UnmarshalJSON implements [encoding/json.Unmarshaler]. It decodes through
// [encoding/json] itself using json.Number, so that numbers round-trip
// through their original source text instead of through float64.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = fromGeneric(raw)
	return nil
}

func fromGeneric(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return NullValue()
	case bool:
		return Bool(t)
	case json.Number:
		return RawNumber(string(t))
	case string:
		return String(t)
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = fromGeneric(e)
		}
		return Array(items)
	case map[string]any:
		members := make([]Member, 0, len(t))
		for k, e := range t {
			members = append(members, Member{Key: k, Value: fromGeneric(e)})
		}
		return Object(members)
	default:
		panic(fmt.Sprintf("pjson: unexpected decoded type %T", raw))
	}
}
