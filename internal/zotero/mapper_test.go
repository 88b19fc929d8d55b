package zotero

import (
	"errors"
	"reflect"
	"testing"

	"github.com/scholer/instaporter/internal/csl"
)

// journalTemplate mirrors the Zotero /items/new?itemType=journalArticle
// response: scalar fields empty, creators holding the single-author
// placeholder, tags/collections empty lists, relations an empty mapping.
func journalTemplate() Item {
	return Item{
		"itemType": "journalArticle",
		"title":    "",
		"creators": []any{
			map[string]any{"creatorType": "author", "firstName": "", "lastName": ""},
		},
		"abstractNote":        "",
		"publicationTitle":    "",
		"volume":              "",
		"issue":               "",
		"pages":               "",
		"date":                "",
		"series":              "",
		"seriesTitle":         "",
		"seriesText":          "",
		"journalAbbreviation": "",
		"language":            "",
		"DOI":                 "",
		"ISSN":                "",
		"shortTitle":          "",
		"url":                 "",
		"accessDate":          "",
		"archive":             "",
		"archiveLocation":     "",
		"libraryCatalog":      "",
		"callNumber":          "",
		"rights":              "",
		"extra":               "",
		"tags":                []any{},
		"collections":         []any{},
		"relations":           map[string]any{},
	}
}

func name(given, family string) map[string]any {
	return map[string]any{"given": given, "family": family}
}

// natureRecord is shaped like the resolver's CSL-JSON for a Nature article.
func natureRecord() csl.Record {
	return csl.Record{
		"DOI":             "10.1038/nature14586",
		"ISSN":            []any{"0028-0836", "1476-4687"},
		"title":           "Nucleic acid memory structures",
		"container-title": "Nature",
		"volume":          "523",
		"issue":           "7561",
		"page":            "297-302",
		"source":          "Crossref",
		"language":        "en",
		"URL":             "http://dx.doi.org/10.1038/nature14586",
		"author": []any{
			name("Erik", "Benson"),
			name("Abdulmelik", "Mohammed"),
			name("Johan", "Gardell"),
			name("Sergej", "Masich"),
		},
		"editor": []any{
			name("Pekka", "Orponen"),
			name("", "Högberg"),
			name("Björn", ""),
		},
		"issued": map[string]any{
			"date-parts": []any{[]any{float64(2015), float64(2), float64(25)}},
		},
		"publisher": "Springer Nature",
		"score":     float64(1),
	}
}

func TestMapRecordFixture(t *testing.T) {
	rec := natureRecord()
	item, rep, err := MapRecord(journalTemplate(), rec)
	if err != nil {
		t.Fatalf("MapRecord() error = %v", err)
	}

	wantScalars := map[string]string{
		"title":            "Nucleic acid memory structures",
		"publicationTitle": "Nature",
		"volume":           "523",
		"issue":            "7561",
		"pages":            "297-302",
		"DOI":              "10.1038/nature14586",
		"ISSN":             "0028-0836", // first non-empty element of the list
		"language":         "en",
		"libraryCatalog":   "Crossref",
		"url":              "http://dx.doi.org/10.1038/nature14586",
		"date":             "Mon Feb 25 00:00:00 2015",
	}
	for field, want := range wantScalars {
		if got := item[field]; got != want {
			t.Errorf("item[%q] = %v, want %q", field, got, want)
		}
	}

	// Untouched template fields keep their empty values.
	for _, field := range []string{"abstractNote", "series", "shortTitle", "extra"} {
		if got := item[field]; got != "" {
			t.Errorf("item[%q] = %v, want empty", field, got)
		}
	}

	creators, ok := item["creators"].([]any)
	if !ok {
		t.Fatalf("creators is %T", item["creators"])
	}
	if len(creators) != 7 {
		t.Fatalf("len(creators) = %d, want 4 authors + 3 editors", len(creators))
	}
	first := creators[0].(map[string]any)
	if first["creatorType"] != "author" || first["firstName"] != "Erik" || first["lastName"] != "Benson" {
		t.Errorf("creators[0] = %v", first)
	}
	fifth := creators[4].(map[string]any)
	if fifth["creatorType"] != "editor" || fifth["firstName"] != "Pekka" {
		t.Errorf("creators[4] = %v", fifth)
	}
	// Missing given/family become empty strings, never dropped entries.
	sixth := creators[5].(map[string]any)
	if sixth["firstName"] != "" || sixth["lastName"] != "Högberg" {
		t.Errorf("creators[5] = %v", sixth)
	}

	wantUnconsumed := []string{"publisher", "score"}
	if !reflect.DeepEqual(rep.Unconsumed, wantUnconsumed) {
		t.Errorf("Unconsumed = %v, want %v", rep.Unconsumed, wantUnconsumed)
	}

	// The record itself must survive the mapping untouched.
	if len(rec) != len(natureRecord()) {
		t.Errorf("input record was mutated: %d keys", len(rec))
	}
}

func TestMapRecordCreatorPlaceholderReset(t *testing.T) {
	item, rep, err := MapRecord(journalTemplate(), csl.Record{"title": "bare"})
	if err != nil {
		t.Fatal(err)
	}

	creators, ok := item["creators"].([]any)
	if !ok || len(creators) != 0 {
		t.Errorf("creators = %v, want empty list after placeholder reset", item["creators"])
	}

	found := 0
	for _, f := range rep.SourceMissing {
		if f == "author" || f == "editor" {
			found++
		}
	}
	if found != 2 {
		t.Errorf("SourceMissing = %v, want author and editor reported", rep.SourceMissing)
	}
}

func TestMapRecordSeriesConsumesCollectionTitle(t *testing.T) {
	rec := csl.Record{"collection-title": "Nature Outlook"}
	item, rep, err := MapRecord(journalTemplate(), rec)
	if err != nil {
		t.Fatal(err)
	}

	if item["series"] != "Nature Outlook" {
		t.Errorf("series = %v", item["series"])
	}
	// The first table row drains the field, so the seriesTitle row finds it
	// missing rather than double-consuming.
	if item["seriesTitle"] != "" {
		t.Errorf("seriesTitle = %v, want empty", item["seriesTitle"])
	}
	foundMissing := false
	for _, f := range rep.SourceMissing {
		if f == "collection-title" {
			foundMissing = true
		}
	}
	if !foundMissing {
		t.Errorf("SourceMissing = %v, want collection-title for the seriesTitle row", rep.SourceMissing)
	}
	if len(rep.Unconsumed) != 0 {
		t.Errorf("Unconsumed = %v, want none", rep.Unconsumed)
	}
}

func TestMapRecordScalarCoercion(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    any
		wantErr bool
	}{
		{name: "string passes", value: "x", want: "x"},
		{name: "list picks first non-empty", value: []any{"", "0028-0836"}, want: "0028-0836"},
		{name: "all-empty list yields first element", value: []any{"", ""}, want: ""},
		{name: "empty list is an error", value: []any{}, wantErr: true},
		{name: "number is an error", value: float64(7), wantErr: true},
		{name: "mapping is an error", value: map[string]any{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, _, err := MapRecord(journalTemplate(), csl.Record{"ISSN": tt.value})
			if tt.wantErr {
				if !errors.Is(err, ErrFieldType) {
					t.Fatalf("error = %v, want ErrFieldType", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if item["ISSN"] != tt.want {
				t.Errorf("ISSN = %v, want %v", item["ISSN"], tt.want)
			}
		})
	}
}

func TestConvertDate(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    string
		wantNil bool
		wantErr bool
	}{
		{
			name:  "timestamp epoch millis",
			value: map[string]any{"timestamp": float64(1424822400000)},
			want:  "Wed Feb 25 00:00:00 2015",
		},
		{
			name: "timestamp wins over date-parts",
			value: map[string]any{
				"timestamp":  float64(1424822400000),
				"date-parts": []any{[]any{float64(1999)}},
			},
			want: "Wed Feb 25 00:00:00 2015",
		},
		{
			name:  "full date-parts",
			value: map[string]any{"date-parts": []any{[]any{float64(2015), float64(2), float64(25)}}},
			want:  "Mon Feb 25 00:00:00 2015",
		},
		{
			name:  "year only defaults month and day",
			value: map[string]any{"date-parts": []any{[]any{float64(2009)}}},
			want:  "Mon Jan  1 00:00:00 2009",
		},
		{
			name:  "year and month default day",
			value: map[string]any{"date-parts": []any{[]any{float64(2011), float64(12)}}},
			want:  "Mon Dec  1 00:00:00 2011",
		},
		{
			name:    "neither key is a warning not an error",
			value:   map[string]any{"date-time": "2015-02-25"},
			wantNil: true,
		},
		{
			name:    "month out of range",
			value:   map[string]any{"date-parts": []any{[]any{float64(2015), float64(13)}}},
			wantErr: true,
		},
		{
			name:    "non-mapping value",
			value:   "2015-02-25",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := &Report{}
			got, err := convertDate(tt.value, "issued", rep)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldType) {
					t.Fatalf("error = %v, want ErrFieldType", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if tt.wantNil {
				if got != nil {
					t.Fatalf("got %v, want nil", got)
				}
				if len(rep.Warnings) == 0 {
					t.Error("expected a warning for a date without usable keys")
				}
				return
			}
			if got != tt.want {
				t.Errorf("convertDate() = %v, want %q", got, tt.want)
			}
		})
	}
}

func TestMapRecordTargetMissing(t *testing.T) {
	template := journalTemplate()
	delete(template, "ISSN")

	_, rep, err := MapRecord(template, natureRecord())
	if err != nil {
		t.Fatal(err)
	}

	found := false
	for _, f := range rep.TargetMissing {
		if f == "ISSN" {
			found = true
		}
	}
	if !found {
		t.Errorf("TargetMissing = %v, want ISSN", rep.TargetMissing)
	}
}

func TestMapRecordDoesNotMutateTemplate(t *testing.T) {
	template := journalTemplate()
	_, _, err := MapRecord(template, natureRecord())
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(template, journalTemplate()) {
		t.Error("template was mutated")
	}
}

func TestMapRecordEmptyCreatorListWarns(t *testing.T) {
	_, rep, err := MapRecord(journalTemplate(), csl.Record{"author": []any{}})
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Warnings) == 0 {
		t.Errorf("Warnings = %v, want a note about the empty author list", rep.Warnings)
	}
}
