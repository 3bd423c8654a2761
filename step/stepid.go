package step

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/xraph/tasker/id"
)

// StepID is the orchestrator's identifier for a step attempt. Tasker never
// interprets it: a JSON string or number is accepted and echoed back on
// the Result exactly as received.
type StepID struct {
	text   string
	number bool
}

// StepIDOf returns the StepID for a string identifier.
func StepIDOf(s string) StepID { return StepID{text: s} }

// NewStepID mints a locally generated identifier ("step_…") for callers
// that run steps without an orchestrator-assigned one.
func NewStepID() StepID { return StepIDOf(id.NewStepID().String()) }

// String returns the identifier's text. Numeric identifiers are returned
// as their JSON literal.
func (s StepID) String() string { return s.text }

// IsZero reports whether no identifier was supplied.
func (s StepID) IsZero() bool { return s.text == "" && !s.number }

// MarshalJSON writes the identifier in the form it was received. A zero
// StepID is written as null.
func (s StepID) MarshalJSON() ([]byte, error) {
	switch {
	case s.number:
		return []byte(s.text), nil
	case s.text == "":
		return []byte("null"), nil
	default:
		return json.Marshal(s.text)
	}
}

// UnmarshalJSON accepts a JSON string, a JSON number, or null.
func (s *StepID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = StepID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("step: decode step_id: %w", err)
		}
		*s = StepID{text: text}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("step: step_id must be a string or number, got %s", data)
	}
	*s = StepID{text: n.String(), number: true}
	return nil
}
