package step

import "encoding/json"

// Request is a single invocation attempt of a step, built by the
// dispatch loop and discarded once the handler returns.
type Request struct {
	// StepID tags the result produced for this attempt. It is opaque.
	StepID StepID `json:"step_id"`

	// TaskID is the task the step belongs to. Informational only.
	TaskID string `json:"task_id,omitempty"`

	// Callable is the registry key of the handler to run.
	Callable string `json:"callable"`

	// Context is the task context. Nil is treated as an empty object.
	Context map[string]any `json:"context"`

	// DependencyResults holds the prior outcome of each upstream step,
	// keyed by upstream step name.
	DependencyResults map[string]DependencyResult `json:"dependency_results"`
}

// DependencyResult is an upstream step's recorded outcome. Only Result
// is handed to handlers. Every other field the orchestrator sends is kept
// undecoded in Extra, whatever its shape.
type DependencyResult struct {
	Result any
	Extra  map[string]json.RawMessage
}

// UnmarshalJSON reads "result" and keeps the sibling fields raw.
func (d *DependencyResult) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*d = DependencyResult{}
	if raw, ok := fields["result"]; ok {
		if err := json.Unmarshal(raw, &d.Result); err != nil {
			return err
		}
		delete(fields, "result")
	}
	if len(fields) > 0 {
		d.Extra = fields
	}
	return nil
}

// MarshalJSON writes "result" alongside the preserved sibling fields.
func (d DependencyResult) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Extra)+1)
	for k, v := range d.Extra {
		out[k] = v
	}
	out["result"] = d.Result
	return json.Marshal(out)
}

// TaskContext returns the request's task context, or an empty map when
// none was provided.
func (r *Request) TaskContext() map[string]any {
	if r.Context == nil {
		return map[string]any{}
	}
	return r.Context
}

// DependencyOutputs returns the upstream outputs keyed by step name,
// stripped of everything but each dependency's result payload.
func (r *Request) DependencyOutputs() Deps {
	deps := make(Deps, len(r.DependencyResults))
	for name, dr := range r.DependencyResults {
		deps[name] = dr.Result
	}
	return deps
}
