package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Object is a controller JSON document. Fields the tool never inspects stay in
// the map and are sent back unchanged when the document is committed.
type Object map[string]any

// String returns the field as a string. Numbers are rendered in their JSON form.
func (o Object) String(key string) string {
	switch v := o[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns the field as a bool, false when absent or not a boolean
func (o Object) Bool(key string) bool {
	b, _ := o[key].(bool)
	return b
}

// Int64 returns the field as an integer
func (o Object) Int64(key string) (int64, bool) {
	switch v := o[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		if f, err := v.Float64(); err == nil {
			return int64(f), true
		}
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

// Object returns a nested object field
func (o Object) Object(key string) Object {
	return asObject(o[key])
}

// Objects returns a sequence field as objects, skipping non-object elements
func (o Object) Objects(key string) []Object {
	return asObjects(o[key])
}

// Has reports whether the field is present, even when its value is null
func (o Object) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Set assigns a field
func (o Object) Set(key string, value any) {
	o[key] = value
}

// Delete removes a field if present
func (o Object) Delete(key string) {
	delete(o, key)
}

// Clone returns a deep copy of the document
func (o Object) Clone() Object {
	if o == nil {
		return nil
	}
	return cloneValue(o).(Object)
}

// JSON renders the document with indentation, for debug logs and dry runs
func (o Object) JSON() string {
	data, err := json.MarshalIndent(o, "", "    ")
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(o))
	}
	return string(data)
}

// Flatten joins the values of the given keys present in the document with sep.
// Keys are visited in the order given.
func (o Object) Flatten(sep string, keys ...string) string {
	var buf bytes.Buffer
	for _, key := range keys {
		v, ok := o[key]
		if !ok {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString(sep)
		}
		if v == nil {
			buf.WriteString("null")
			continue
		}
		buf.WriteString(o.String(key))
	}
	return buf.String()
}

// Decode reads a JSON value, converting every object into an Object and
// keeping numbers as json.Number.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return normalize(v), nil
}

// DecodeBytes is Decode for an in-memory payload
func DecodeBytes(data []byte) (any, error) {
	return Decode(bytes.NewReader(data))
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		obj := make(Object, len(t))
		for k, child := range t {
			obj[k] = normalize(child)
		}
		return obj
	case []any:
		for i, child := range t {
			t[i] = normalize(child)
		}
		return t
	default:
		return v
	}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Object:
		out := make(Object, len(t))
		for k, child := range t {
			out[k] = cloneValue(child)
		}
		return out
	case map[string]any:
		out := make(Object, len(t))
		for k, child := range t {
			out[k] = cloneValue(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = cloneValue(child)
		}
		return out
	case []Object:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = cloneValue(child)
		}
		return out
	default:
		return v
	}
}

func asObject(v any) Object {
	switch t := v.(type) {
	case Object:
		return t
	case map[string]any:
		return Object(t)
	default:
		return nil
	}
}

func asObjects(v any) []Object {
	switch t := v.(type) {
	case []Object:
		return t
	case []any:
		out := make([]Object, 0, len(t))
		for _, item := range t {
			if obj := asObject(item); obj != nil {
				out = append(out, obj)
			}
		}
		return out
	default:
		return nil
	}
}

// AsObjects converts a decoded JSON array into objects
func AsObjects(v any) []Object {
	return asObjects(v)
}
