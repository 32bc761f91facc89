package id_test

import (
	"encoding/json"
	"testing"

	"github.com/xraph/radius/id"
)

func TestNew(t *testing.T) {
	i := id.New()
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if len(i.String()) != 24 {
		t.Errorf("expected 24 hex chars, got %q", i.String())
	}
}

func TestParseRoundTrip(t *testing.T) {
	original := id.New()
	parsed, err := id.Parse(original.String())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed != original {
		t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too short", "abc"},
		{"not hex", "zzzzzzzzzzzzzzzzzzzzzzzz"},
		{"too long", "0000000000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := id.Parse(tt.input); err == nil {
				t.Errorf("expected error for %q, got nil", tt.input)
			}
		})
	}
}

func TestZeroHexIsNotNil(t *testing.T) {
	i := id.MustParse("000000000000000000000000")
	if i.IsNil() {
		t.Fatal("all-zero parsed id must not be nil")
	}
	if i.String() != "000000000000000000000000" {
		t.Errorf("unexpected string %q", i.String())
	}
}

func TestNilID(t *testing.T) {
	var i id.ID
	if !i.IsNil() {
		t.Error("zero-value ID should be nil")
	}
	if i.String() != "" {
		t.Errorf("expected empty string, got %q", i.String())
	}
}

func TestParseAll(t *testing.T) {
	a, b := id.New(), id.New()
	got, err := id.ParseAll([]string{a.String(), b.String()})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("unexpected result %v", got)
	}

	if _, err := id.ParseAll([]string{a.String(), "nope"}); err == nil {
		t.Fatal("expected error for malformed entry")
	}
}

func TestJSON(t *testing.T) {
	type doc struct {
		ID   id.ID   `json:"id"`
		Refs []id.ID `json:"refs"`
	}

	original := doc{ID: id.New(), Refs: []id.ID{id.New(), id.MustParse("000000000000000000000000")}}
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var restored doc
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if restored.ID != original.ID {
		t.Errorf("id mismatch: %q != %q", restored.ID, original.ID)
	}
	if len(restored.Refs) != 2 || restored.Refs[1] != original.Refs[1] {
		t.Errorf("refs mismatch: %v", restored.Refs)
	}

	if err := json.Unmarshal([]byte(`{"id":"bad"}`), &restored); err == nil {
		t.Error("expected error for malformed id")
	}
}

func TestValueScan(t *testing.T) {
	original := id.New()
	val, err := original.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var scanned id.ID
	if scanErr := scanned.Scan(val); scanErr != nil {
		t.Fatalf("Scan failed: %v", scanErr)
	}
	if scanned != original {
		t.Errorf("mismatch: %q != %q", scanned.String(), original.String())
	}

	var nilID id.ID
	val, err = nilID.Value()
	if err != nil {
		t.Fatalf("Value(nil) failed: %v", err)
	}
	if val != nil {
		t.Errorf("expected nil value for nil ID, got %v", val)
	}

	var scanned2 id.ID
	if err := scanned2.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) failed: %v", err)
	}
	if !scanned2.IsNil() {
		t.Error("expected nil after scan of nil")
	}

	if err := scanned2.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}

func TestStrings(t *testing.T) {
	a := id.MustParse("65a1f0c2e4b0a1b2c3d4e5f6")
	got := id.Strings([]id.ID{a})
	if len(got) != 1 || got[0] != "65a1f0c2e4b0a1b2c3d4e5f6" {
		t.Fatalf("unexpected %v", got)
	}
}

func TestUniqueness(t *testing.T) {
	a := id.New()
	b := id.New()
	if a == b {
		t.Errorf("two consecutive New() calls returned the same ID: %q", a.String())
	}
}
