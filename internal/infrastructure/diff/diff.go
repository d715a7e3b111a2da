package diff

import (
	"encoding/json"
	"fmt"
)

type Differ struct{}

// Diff returns the flattened keys whose value changed between the two
// snapshots, including keys that disappeared (reported as nil).
func (d *Differ) Diff(before, after map[string]any) map[string]any {
	delta := map[string]any{}
	for k, v := range after {
		if before[k] != v {
			delta[k] = v
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			delta[k] = nil
		}
	}
	return delta
}

// Flatten projeta qualquer valor serializável num mapa de folhas
// escalares com chaves pontuadas ("items.0.quantity"), comparável com
// segurança por ==.
func Flatten(v any) map[string]any {
	out := map[string]any{}
	raw, err := json.Marshal(v)
	if err != nil {
		return out
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return out
	}
	flattenInto(out, "", tree)
	return out
}

func flattenInto(out map[string]any, prefix string, v any) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			flattenInto(out, joinKey(prefix, k), child)
		}
	case []any:
		for i, child := range t {
			flattenInto(out, joinKey(prefix, fmt.Sprintf("%d", i)), child)
		}
	default:
		if prefix != "" {
			out[prefix] = v
		}
	}
}

func joinKey(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + "." + k
}
