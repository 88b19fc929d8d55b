// Package csl handles CSL-JSON citation records and their resolution from DOIs.
package csl

// Record is a decoded CSL-JSON citation record as returned by DOI content
// negotiation. Values keep their decoded JSON types: string, float64, bool,
// []any, or map[string]any.
type Record map[string]any

// Clone returns a deep copy of the record. The schema mapper drains fields
// from its working copy, so callers that need the original intact should
// hand it a clone.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return deepCopyMap(r)
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		// JSON scalars (string, float64, bool, nil) are immutable.
		return v
	}
}
