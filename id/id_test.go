package id_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/xraph/tasker/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix id.Prefix
	}{
		{"StepID", id.NewStepID, id.PrefixStep},
		{"WorkerID", id.NewWorkerID, id.PrefixWorker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn()
			if got.IsNil() {
				t.Fatal("expected non-nil ID")
			}
			if got.Prefix() != tt.prefix {
				t.Errorf("Prefix() = %q, want %q", got.Prefix(), tt.prefix)
			}
			if !strings.HasPrefix(got.String(), string(tt.prefix)+"_") {
				t.Errorf("expected prefix %q in %q", tt.prefix, got.String())
			}
		})
	}
}

func TestUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		s := id.NewWorkerID().String()
		if seen[s] {
			t.Fatalf("duplicate ID %q", s)
		}
		seen[s] = true
	}
}

func TestParseRoundTrip(t *testing.T) {
	original := id.NewWorkerID()
	parsed, err := id.ParseWorkerID(original.String())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed.String() != original.String() {
		t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
	}
}

func TestCrossTypeRejection(t *testing.T) {
	if _, err := id.ParseWorkerID(id.NewStepID().String()); err == nil {
		t.Error("expected ParseWorkerID to reject a step ID")
	}
}

func TestParseInvalid(t *testing.T) {
	inputs := []string{
		"",
		"wkr_short",
		"WKR_01h2xcejqtf2nbrexx3vqjhp41",
		"wkr_01h2xcejqtf2nbrexx3vqjhp4!",
	}
	for _, in := range inputs {
		if _, err := id.Parse(in); err == nil {
			t.Errorf("Parse(%q): expected error", in)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	id.MustParse("not-an-id")
}

func TestNilID(t *testing.T) {
	var i id.ID
	if !i.IsNil() {
		t.Fatal("zero value should be nil")
	}
	if i.String() != "" {
		t.Errorf("nil String() = %q, want empty", i.String())
	}
	if i.Prefix() != "" {
		t.Errorf("nil Prefix() = %q, want empty", i.Prefix())
	}
}

func TestJSON(t *testing.T) {
	type wrapper struct {
		ID id.WorkerID `json:"id"`
	}

	w := wrapper{ID: id.NewWorkerID()}
	data, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got wrapper
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID.String() != w.ID.String() {
		t.Errorf("got %q, want %q", got.ID, w.ID)
	}
}
