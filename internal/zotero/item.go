// Package zotero maps CSL citation records onto Zotero item templates and
// talks to the Zotero write API.
package zotero

// Item is a Zotero item in API form: a flat mapping from field name to
// value. New items start from a shape-bearing template fetched from the API
// (or supplied by the caller) in which every field carries its empty value:
// "" for scalars, [] for multi-valued fields, {} for nested ones.
type Item map[string]any

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	if it == nil {
		return nil
	}
	return cloneMap(it)
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// fieldShape classifies a template field once, up front. The write-back
// policy is decided by the field's declared shape, not by inspecting
// whatever value happens to be there mid-mapping.
type fieldShape int

const (
	shapeScalar fieldShape = iota // string: converted value overwrites
	shapeList                     // list: converted list extends
	shapeMap                      // mapping: converted mapping merges
	shapeOther                    // anything else: write skipped, reported
)

func shapeOf(v any) fieldShape {
	switch v.(type) {
	case string:
		return shapeScalar
	case []any:
		return shapeList
	case map[string]any:
		return shapeMap
	default:
		return shapeOther
	}
}

// templateShapes classifies every field of a template.
func templateShapes(template Item) map[string]fieldShape {
	shapes := make(map[string]fieldShape, len(template))
	for k, v := range template {
		shapes[k] = shapeOf(v)
	}
	return shapes
}

// isCreatorSentinel reports whether v is the single-element placeholder the
// Zotero API puts in fresh templates to declare the creators shape:
// [{creatorType: author, firstName: "", lastName: ""}]. It must not survive
// into real output.
func isCreatorSentinel(v any) bool {
	list, ok := v.([]any)
	if !ok || len(list) != 1 {
		return false
	}
	entry, ok := list[0].(map[string]any)
	if !ok || len(entry) != 3 {
		return false
	}
	return entry["creatorType"] == "author" &&
		entry["firstName"] == "" &&
		entry["lastName"] == ""
}
