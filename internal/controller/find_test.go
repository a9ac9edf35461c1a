package controller

import (
	"encoding/json"
	"testing"
)

func mustDecode(t *testing.T, s string) any {
	t.Helper()
	v, err := DecodeBytes([]byte(s))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestFind(t *testing.T) {
	devices := mustDecode(t, `{"response":[
		{"id":"d-1","hostname":"edge-1","family":"Switches and Hubs"},
		{"id":"d-2","hostname":"edge-2","family":"Switches and Hubs"}
	],"version":"1.0"}`)

	tests := []struct {
		name   string
		root   any
		value  any
		key    string
		wantID string
	}{
		{"by hostname", devices, "edge-2", "hostname", "d-2"},
		{"default key is id", devices, "d-1", "", "d-1"},
		{"first match wins", devices, "Switches and Hubs", "family", "d-1"},
		{"no match", devices, "edge-9", "hostname", ""},
		{"top-level array", devices.(Object)["response"], "edge-1", "hostname", "d-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Find(tt.root, tt.value, tt.key)
			if tt.wantID == "" {
				if got != nil {
					t.Errorf("Find() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Find() = nil, want %s", tt.wantID)
			}
			if got.String("id") != tt.wantID {
				t.Errorf("Find() id = %s, want %s", got.String("id"), tt.wantID)
			}
		})
	}
}

func TestFind_MatchesRootObject(t *testing.T) {
	root := Object{"id": "x", "items": []any{Object{"id": "y"}}}
	if got := Find(root, "x", "id"); got == nil || got.String("id") != "x" {
		t.Errorf("Find() = %v, want root", got)
	}
}

func TestFind_SearchesEverySequenceField(t *testing.T) {
	// The match sits in the second sequence field in key order.
	root := mustDecode(t, `{
		"alpha":[{"id":"a-1","children":[{"id":"a-2"}]}],
		"beta":[{"id":"b-1"},{"id":"b-2"}],
		"meta":{"id":"hidden"}
	}`)

	got := Find(root, "b-2", "id")
	if got == nil || got.String("id") != "b-2" {
		t.Errorf("Find() = %v, want b-2", got)
	}

	if got := Find(root, "a-2", "id"); got == nil {
		t.Error("Find() should descend into nested sequences")
	}
}

func TestFind_DoesNotDescendIntoPlainObjects(t *testing.T) {
	root := mustDecode(t, `{"meta":{"id":"hidden","list":[{"id":"deeper"}]},"items":[]}`)

	if got := Find(root, "hidden", "id"); got != nil {
		t.Errorf("Find() = %v, want nil", got)
	}
	if got := Find(root, "deeper", "id"); got != nil {
		t.Errorf("Find() = %v, want nil", got)
	}
}

func TestFind_SortedFieldOrder(t *testing.T) {
	root := mustDecode(t, `{"zeta":[{"name":"dup","id":"z"}],"alpha":[{"name":"dup","id":"a"}]}`)

	got := Find(root, "dup", "name")
	if got == nil || got.String("id") != "a" {
		t.Errorf("Find() = %v, want the alpha entry", got)
	}
}

func TestFind_NumericValues(t *testing.T) {
	root := mustDecode(t, `[{"vlanId":1021,"name":"data"},{"vlanId":1022,"name":"voice"}]`)

	for _, value := range []any{1022, int64(1022), 1022.0, json.Number("1022")} {
		got := Find(root, value, "vlanId")
		if got == nil || got.String("name") != "voice" {
			t.Errorf("Find(%T) = %v, want voice", value, got)
		}
	}

	if got := Find(root, "1022", "vlanId"); got != nil {
		t.Errorf("a string should not equal a number, got %v", got)
	}
}

func TestFind_TypedSlices(t *testing.T) {
	items := []Object{{"id": "1"}, {"id": "2"}}
	if got := Find(items, "2", "id"); got == nil {
		t.Error("Find() should search []Object")
	}
	if got := Find("scalar", "2", "id"); got != nil {
		t.Error("Find() on a scalar should be nil")
	}
	if got := Find(nil, "2", "id"); got != nil {
		t.Error("Find() on nil should be nil")
	}
}

func TestFind_BoolAndNull(t *testing.T) {
	root := []any{Object{"id": "a", "flag": false}, Object{"id": "b", "flag": nil}, Object{"id": "c", "flag": true}}

	if got := Find(root, true, "flag"); got == nil || got.String("id") != "c" {
		t.Errorf("Find(true) = %v, want c", got)
	}
	if got := Find(root, nil, "flag"); got == nil || got.String("id") != "b" {
		t.Errorf("Find(nil) = %v, want b", got)
	}
}
