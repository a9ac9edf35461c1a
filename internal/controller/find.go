package controller

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Find searches root depth-first for an object whose key field equals value.
// Sequences are searched element by element. An object that does not match
// is searched through each of its sequence-valued fields in key order; nested
// objects that are not inside a sequence are not searched. key defaults to "id".
func Find(root any, value any, key string) Object {
	if key == "" {
		key = "id"
	}
	return find(root, value, key)
}

func find(node any, value any, key string) Object {
	switch t := node.(type) {
	case []any:
		for _, item := range t {
			if r := find(item, value, key); r != nil {
				return r
			}
		}
	case []Object:
		for _, item := range t {
			if r := find(item, value, key); r != nil {
				return r
			}
		}
	case map[string]any:
		return findInObject(Object(t), value, key)
	case Object:
		return findInObject(t, value, key)
	}
	return nil
}

func findInObject(obj Object, value any, key string) Object {
	if v, ok := obj[key]; ok && jsonEqual(v, value) {
		return obj
	}

	fields := make([]string, 0, len(obj))
	for k, v := range obj {
		switch v.(type) {
		case []any, []Object:
			fields = append(fields, k)
		}
	}
	sort.Strings(fields)

	for _, k := range fields {
		if r := find(obj[k], value, key); r != nil {
			return r
		}
	}
	return nil
}

// jsonEqual compares two JSON scalars. Numbers compare by value whatever their
// Go representation.
func jsonEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	an, aNum := toFloat(a)
	bn, bNum := toFloat(b)
	if aNum || bNum {
		return aNum && bNum && an == bn
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(n.String(), 64)
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
