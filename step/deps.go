package step

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Deps maps upstream step names to the output each produced.
type Deps map[string]any

// Value returns the output of the named upstream step.
func (d Deps) Value(name string) (any, bool) {
	v, ok := d[name]
	return v, ok
}

// Decode converts the named upstream output into v by round-tripping it
// through JSON, the same representation the orchestrator stores.
func (d Deps) Decode(name string, v any) error {
	raw, ok := d[name]
	if !ok {
		return fmt.Errorf("step: missing dependency result %q", name)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("step: encode dependency result %q: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("step: decode dependency result %q: %w", name, err)
	}
	return nil
}

// Names returns the upstream step names in sorted order.
func (d Deps) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
