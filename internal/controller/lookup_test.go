package controller

import (
	"testing"
)

var testProfiles = []Object{
	{"name": "Closed Authentication", "siteProfileUuid": "sp-closed"},
	{"name": "Open Authentication", "siteProfileUuid": "sp-open"},
	{"name": "No Authentication", "siteProfileUuid": "sp-none"},
}

func TestLookup(t *testing.T) {
	got, err := Lookup(testProfiles, "name", "Open Authentication")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got.String("siteProfileUuid") != "sp-open" {
		t.Errorf("Lookup() = %v, want sp-open", got)
	}
}

func TestLookup_EmptyValue(t *testing.T) {
	for _, items := range [][]Object{testProfiles, nil, {}} {
		got, err := Lookup(items, "name", "")
		if err != nil {
			t.Errorf("Lookup(\"\") error = %v, want nil", err)
		}
		if got != nil {
			t.Errorf("Lookup(\"\") = %v, want nil", got)
		}
	}
}

func TestLookup_Missing(t *testing.T) {
	for _, value := range []string{"Easy Connect", "open authentication", " "} {
		got, err := Lookup(testProfiles, "name", value)
		if got != nil {
			t.Errorf("Lookup(%q) = %v, want nil", value, got)
		}
		if !IsLookupError(err) {
			t.Fatalf("Lookup(%q) error = %v, want lookup error", value, err)
		}
		if err.(*APIError).Message != value+" not found" {
			t.Errorf("Message = %q, want %q", err.(*APIError).Message, value+" not found")
		}
	}
}

func TestLookup_FirstMatch(t *testing.T) {
	items := []Object{{"name": "dup", "id": "1"}, {"name": "dup", "id": "2"}}
	got, _ := Lookup(items, "name", "dup")
	if got.String("id") != "1" {
		t.Errorf("Lookup() id = %s, want 1", got.String("id"))
	}
}

func TestFindOrFail(t *testing.T) {
	root := []any{Object{"hostname": "edge-1", "id": "d-1"}}

	got, err := FindOrFail(root, "edge-1", "hostname", "device")
	if err != nil || got.String("id") != "d-1" {
		t.Errorf("FindOrFail() = %v, %v", got, err)
	}

	_, err = FindOrFail(root, "edge-7", "hostname", "device")
	if !IsLookupError(err) {
		t.Fatalf("expected lookup error, got %v", err)
	}
	if err.(*APIError).Message != "device edge-7 not found" {
		t.Errorf("Message = %q", err.(*APIError).Message)
	}

	_, err = FindOrFail(root, "x", "id", "")
	if err.(*APIError).Message != "id x not found" {
		t.Errorf("Message = %q", err.(*APIError).Message)
	}
}
