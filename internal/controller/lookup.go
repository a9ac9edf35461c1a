package controller

import "fmt"

// Lookup returns the first item whose key field equals value. An empty value
// means the caller did not ask for anything and yields (nil, nil). A value that
// matches no item is an ErrTypeLookup error.
func Lookup(items []Object, key, value string) (Object, error) {
	if value == "" {
		return nil, nil
	}
	for _, item := range items {
		if v, ok := item[key]; ok && jsonEqual(v, value) {
			return item, nil
		}
	}
	return nil, NewLookupError(value + " not found")
}

// FindOrFail is Find with an ErrTypeLookup error instead of a nil result.
// what names the searched field in the message, e.g. "hostname".
func FindOrFail(root any, value any, key, what string) (Object, error) {
	if r := Find(root, value, key); r != nil {
		return r, nil
	}
	if what == "" {
		what = key
	}
	return nil, NewLookupError(fmt.Sprintf("%s %v not found", what, value))
}
