package bizinfo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// ValueKind is the JSON type held by a Value.
type ValueKind int

const (
	Null ValueKind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k ValueKind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is a decoded JSON document of unspecified shape. The zero Value is null.
// Numbers keep their original text as json.Number.
type Value struct {
	v any
}

// Parse decodes exactly one JSON value from data. Trailing non-whitespace is an error.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return Value{}, err
		}
		return Value{}, fmt.Errorf("invalid character after top-level value at offset %d", dec.InputOffset())
	}
	return Value{v: raw}, nil
}

// Kind reports the JSON type of v.
func (v Value) Kind() ValueKind {
	switch v.v.(type) {
	case nil:
		return Null
	case bool:
		return Bool
	case json.Number:
		return Number
	case string:
		return String
	case []any:
		return Array
	case map[string]any:
		return Object
	default:
		return Null
	}
}

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.v == nil }

func (v Value) AsBool() (bool, bool) {
	b, ok := v.v.(bool)
	return b, ok
}

func (v Value) AsNumber() (json.Number, bool) {
	n, ok := v.v.(json.Number)
	return n, ok
}

func (v Value) AsString() (string, bool) {
	s, ok := v.v.(string)
	return s, ok
}

// AsArray returns the elements of an array value.
func (v Value) AsArray() ([]Value, bool) {
	arr, ok := v.v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]Value, len(arr))
	for i, el := range arr {
		out[i] = Value{v: el}
	}
	return out, true
}

// AsObject returns the members of an object value.
func (v Value) AsObject() (map[string]Value, bool) {
	obj, ok := v.v.(map[string]any)
	if !ok {
		return nil, false
	}
	out := make(map[string]Value, len(obj))
	for k, el := range obj {
		out[k] = Value{v: el}
	}
	return out, true
}

// Get returns the member key of an object value.
func (v Value) Get(key string) (Value, bool) {
	obj, ok := v.v.(map[string]any)
	if !ok {
		return Value{}, false
	}
	el, ok := obj[key]
	return Value{v: el}, ok
}

// Keys returns the sorted member names of an object value.
func (v Value) Keys() []string {
	obj, ok := v.v.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Interface returns the underlying decoded value (nil, bool, json.Number, string,
// []any or map[string]any).
func (v Value) Interface() any { return v.v }

// MarshalJSON encodes v with sorted object keys.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.v)
}

// UnmarshalJSON decodes a Value, keeping numbers as json.Number.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Decode converts v into dst for callers that own a schema.
func (v Value) Decode(dst any) error {
	raw, err := v.MarshalJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
