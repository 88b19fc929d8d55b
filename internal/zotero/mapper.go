package zotero

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/scholer/instaporter/internal/csl"
)

// ErrFieldType is returned when a citation field has a type the mapper does
// not know how to coerce. The mapper never guesses beyond the one sanctioned
// rule (pick the first non-empty element of a list).
var ErrFieldType = errors.New("unexpected citation field type")

// converter turns one CSL field value into a Zotero field value. A nil
// result with nil error means the field is left unset (recorded on the
// report by the converter itself).
type converter func(value any, sourceField string, rep *Report) (any, error)

// fieldMapping is one row of the transform table.
type fieldMapping struct {
	target  string
	source  string
	convert converter
}

// fieldTable drives the mapping, applied in order. Both author and editor
// feed creators; the list shape of creators makes the second application
// extend rather than overwrite.
var fieldTable = []fieldMapping{
	{"abstractNote", "abstract", convertScalar},
	{"accessDate", "accessed", convertDate},
	{"archive", "archive", convertScalar},
	{"archiveLocation", "archive_location", convertScalar},
	{"callNumber", "call-number", convertScalar},
	{"creators", "author", creatorConverter("author")},
	{"creators", "editor", creatorConverter("editor")},
	{"date", "issued", convertDate},
	{"DOI", "DOI", convertScalar},
	{"extra", "note", convertScalar},
	{"ISSN", "ISSN", convertScalar},
	{"issue", "issue", convertScalar},
	{"journalAbbreviation", "container-title-short", convertScalar},
	{"language", "language", convertScalar},
	{"libraryCatalog", "source", convertScalar},
	{"pages", "page", convertScalar},
	{"publicationTitle", "container-title", convertScalar},
	{"series", "collection-title", convertScalar},
	{"seriesTitle", "collection-title", convertScalar},
	{"shortTitle", "title-short", convertScalar},
	{"title", "title", convertScalar},
	{"url", "URL", convertScalar},
	{"volume", "volume", convertScalar},
}

// Report collects the mapper's diagnostics. None of these are errors; they
// exist so callers can see what the record did and did not provide.
type Report struct {
	SourceMissing []string // table source fields absent from the record
	TargetMissing []string // table target fields absent from the template
	Unconsumed    []string // record fields no table row consumed
	Warnings      []string // empty creator lists, dates without usable keys
	Anomalies     []string // write-backs skipped due to shape mismatches
}

// MapRecord converts a CSL record into a Zotero item using template to
// declare the field shapes. Neither argument is mutated: the mapper works on
// deep copies, draining each consumed field from its private copy of the
// record so unconsumed fields can be reported. A field value the mapper
// cannot coerce is a hard error; everything else degrades onto the report.
func MapRecord(template Item, rec csl.Record) (Item, *Report, error) {
	item := template.Clone()
	work := rec.Clone()
	rep := &Report{}

	if isCreatorSentinel(item["creators"]) {
		item["creators"] = []any{}
	}
	shapes := templateShapes(item)

	for _, fm := range fieldTable {
		value, ok := work[fm.source]
		if !ok {
			rep.SourceMissing = append(rep.SourceMissing, fm.source)
			continue
		}
		delete(work, fm.source)

		if _, ok := item[fm.target]; !ok {
			rep.TargetMissing = append(rep.TargetMissing, fm.target)
			continue
		}

		converted, err := fm.convert(value, fm.source, rep)
		if err != nil {
			return nil, rep, fmt.Errorf("field %s: %w", fm.source, err)
		}
		if converted == nil {
			continue
		}

		switch shapes[fm.target] {
		case shapeScalar:
			item[fm.target] = converted
		case shapeList:
			extension, ok := converted.([]any)
			if !ok {
				rep.Anomalies = append(rep.Anomalies,
					fmt.Sprintf("field %s: cannot extend list with %T value", fm.target, converted))
				continue
			}
			item[fm.target] = append(item[fm.target].([]any), extension...)
		case shapeMap:
			merged, ok := converted.(map[string]any)
			if !ok {
				rep.Anomalies = append(rep.Anomalies,
					fmt.Sprintf("field %s: cannot merge %T value into mapping", fm.target, converted))
				continue
			}
			existing := item[fm.target].(map[string]any)
			for k, v := range merged {
				existing[k] = v
			}
		default:
			rep.Anomalies = append(rep.Anomalies,
				fmt.Sprintf("field %s: template value has unexpected type %T", fm.target, item[fm.target]))
		}
	}

	for k := range work {
		rep.Unconsumed = append(rep.Unconsumed, k)
	}
	sort.Strings(rep.Unconsumed)

	return item, rep, nil
}

// convertScalar passes strings through. A list collapses to its first
// non-empty element (first element when all are empty); any other type is a
// hard error, since Zotero rejects non-string scalar fields server-side.
func convertScalar(value any, sourceField string, rep *Report) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: empty list", ErrFieldType)
		}
		for _, e := range v {
			if s, ok := e.(string); ok && s != "" {
				return s, nil
			}
		}
		return v[0], nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrFieldType, value)
	}
}

// creatorConverter builds a converter producing creator entries of the
// given type. Accepts a single name mapping or a list of them; order is
// preserved. An empty input yields an empty list, noted on the report.
func creatorConverter(creatorType string) converter {
	return func(value any, sourceField string, rep *Report) (any, error) {
		var names []any
		switch v := value.(type) {
		case map[string]any:
			names = []any{v}
		case []any:
			names = v
		default:
			return nil, fmt.Errorf("%w: %T", ErrFieldType, value)
		}
		if len(names) == 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("field %s is empty", sourceField))
		}

		creators := make([]any, 0, len(names))
		for _, n := range names {
			name, ok := n.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s entry is %T", ErrFieldType, sourceField, n)
			}
			creators = append(creators, map[string]any{
				"creatorType": creatorType,
				"firstName":   stringField(name, "given"),
				"lastName":    stringField(name, "family"),
			})
		}
		return creators, nil
	}
}

// convertDate formats a CSL date mapping as a fixed-width asctime string,
// e.g. "Mon Feb 25 00:00:00 2015". A timestamp key (epoch milliseconds)
// wins; otherwise date-parts [[y, m, d]] is read with missing month/day
// defaulting to 1. Neither key present is a warning, not an error.
func convertDate(value any, sourceField string, rep *Report) (any, error) {
	date, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrFieldType, value)
	}

	if ts, ok := numberField(date, "timestamp"); ok {
		return time.UnixMilli(int64(ts)).UTC().Format(time.ANSIC), nil
	}

	parts := dateParts(date)
	if parts == nil {
		rep.Warnings = append(rep.Warnings,
			fmt.Sprintf("field %s has neither timestamp nor date-parts", sourceField))
		return nil, nil
	}

	year := parts[0]
	month, day := 1, 1
	if len(parts) > 1 {
		month = parts[1]
	}
	if len(parts) > 2 {
		day = parts[2]
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d out of range", ErrFieldType, month)
	}
	// date-parts carries no weekday; the legacy format always stamps Mon.
	return fmt.Sprintf("Mon %s %2d 00:00:00 %d",
		time.Month(month).String()[:3], day, year), nil
}

// dateParts pulls the first [y, m, d] group out of a CSL date mapping.
// Returns nil when absent or empty.
func dateParts(date map[string]any) []int {
	groups, ok := date["date-parts"].([]any)
	if !ok || len(groups) == 0 {
		return nil
	}
	first, ok := groups[0].([]any)
	if !ok || len(first) == 0 {
		return nil
	}
	parts := make([]int, 0, len(first))
	for _, p := range first {
		n, ok := asNumber(p)
		if !ok {
			return nil
		}
		parts = append(parts, int(n))
	}
	return parts
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func numberField(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	return asNumber(v)
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
