package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the shape of an upstream JSON value.
type Kind uint8

const (
	// KindAbsent marks a field that was not present at all
	KindAbsent Kind = iota
	// KindNull is an explicit JSON null
	KindNull
	// KindBool is a JSON boolean
	KindBool
	// KindNumber is a JSON number
	KindNumber
	// KindString is a JSON string
	KindString
	// KindList is a JSON array
	KindList
	// KindMap is a JSON object
	KindMap
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a loosely typed upstream JSON value. BaseLinker returns the same
// field as a scalar in one inventory and as a keyed map in another, so
// fields are decoded into Value and resolved explicitly by kind.
//
// Object keys keep document order. The zero Value is absent.
type Value struct {
	kind   Kind
	text   string // number literal or string content
	flag   bool
	items  []Value
	keys   []string
	fields map[string]Value
}

// ParseValue decodes a JSON document into a Value.
func ParseValue(data []byte) (Value, error) {
	var v Value
	if err := json.Unmarshal(data, &v); err != nil {
		return Value{}, err
	}
	return v, nil
}

// StringValue returns a string Value
func StringValue(s string) Value {
	return Value{kind: KindString, text: s}
}

// NumberValue returns a number Value
func NumberValue(f float64) Value {
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

// EmptyMap returns a map Value with no keys
func EmptyMap() Value {
	return Value{kind: KindMap, fields: map[string]Value{}}
}

// Kind returns the shape of the value
func (v Value) Kind() Kind {
	return v.kind
}

// IsAbsent reports whether the field was missing
func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// IsMapShape reports whether the value is a keyed map (JSON object).
func (v Value) IsMapShape() bool {
	return v.kind == KindMap
}

// IsList reports whether the value is a JSON array
func (v Value) IsList() bool {
	return v.kind == KindList
}

// Truthy follows the upstream's loose notion of "set": absent, null, false,
// zero and the empty string are unset, everything else (including empty
// maps and lists) is set.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindAbsent, KindNull:
		return false
	case KindBool:
		return v.flag
	case KindNumber:
		f, ok := v.Float()
		return ok && f != 0
	case KindString:
		return v.text != ""
	default:
		return true
	}
}

// Get returns the field stored under key. Non-map values and missing keys
// yield an absent Value.
func (v Value) Get(key string) Value {
	if v.kind != KindMap {
		return Value{}
	}
	return v.fields[key]
}

// Keys returns the map keys in document order
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	return append([]string(nil), v.keys...)
}

// Len returns the number of map entries or list items
func (v Value) Len() int {
	switch v.kind {
	case KindMap:
		return len(v.keys)
	case KindList:
		return len(v.items)
	default:
		return 0
	}
}

// FirstKey returns the first key of a map in document order
func (v Value) FirstKey() (string, bool) {
	if v.kind != KindMap || len(v.keys) == 0 {
		return "", false
	}
	return v.keys[0], true
}

// Items returns list elements, or map values in key order
func (v Value) Items() []Value {
	switch v.kind {
	case KindList:
		return append([]Value(nil), v.items...)
	case KindMap:
		out := make([]Value, 0, len(v.keys))
		for _, k := range v.keys {
			out = append(out, v.fields[k])
		}
		return out
	default:
		return nil
	}
}

// Str returns the content of a string value
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.text, true
}

// Text renders a scalar as text: strings as-is, numbers as their literal,
// booleans as true/false. Other kinds return false.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindString, KindNumber:
		return v.text, true
	case KindBool:
		return strconv.FormatBool(v.flag), true
	default:
		return "", false
	}
}

// Float returns a finite float for numbers and numeric strings.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber, KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// With returns a copy of the map with key set to val. The receiver is left
// untouched. Setting a key on a non-map value starts a new map.
func (v Value) With(key string, val Value) Value {
	out := Value{kind: KindMap, fields: make(map[string]Value, len(v.keys)+1)}
	if v.kind == KindMap {
		out.keys = make([]string, len(v.keys), len(v.keys)+1)
		copy(out.keys, v.keys)
		for k, f := range v.fields {
			out.fields[k] = f
		}
	}
	if _, exists := out.fields[key]; !exists {
		out.keys = append(out.keys, key)
	}
	out.fields[key] = val
	return out
}

// MarshalJSON encodes the value back to JSON preserving key order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindAbsent, KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.flag))
	case KindNumber:
		buf.WriteString(v.text)
	case KindString:
		b, err := json.Marshal(v.text)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(b)
			buf.WriteByte(':')
			if err := v.fields[k].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("integration: cannot encode value of kind %d", v.kind)
	}
	return nil
}

// UnmarshalJSON decodes any JSON document, keeping object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	decoded, err := decodeValue(dec)
	if err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("integration: unexpected trailing data in JSON value")
	}
	*v = decoded
	return nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case nil:
		return Value{kind: KindNull}, nil
	case bool:
		return Value{kind: KindBool, flag: t}, nil
	case json.Number:
		return Value{kind: KindNumber, text: t.String()}, nil
	case string:
		return Value{kind: KindString, text: t}, nil
	case json.Delim:
		switch t {
		case '[':
			items := make([]Value, 0)
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{kind: KindList, items: items}, nil
		case '{':
			out := Value{kind: KindMap, fields: make(map[string]Value)}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("integration: invalid object key %v", keyTok)
				}
				field, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				if _, dup := out.fields[key]; !dup {
					out.keys = append(out.keys, key)
				}
				out.fields[key] = field
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return out, nil
		}
	}
	return Value{}, fmt.Errorf("integration: unexpected JSON token %v", tok)
}
