package zotero

import (
	"reflect"
	"testing"

	"github.com/scholer/instaporter/internal/meta"
)

func TestBuildItem(t *testing.T) {
	m := &meta.Metadata{
		URL:      "https://www.nature.com/articles/nature14586",
		DOI:      "10.1038/nature14586",
		Citation: natureRecord(),
		HTML: meta.HTMLMeta{
			Keywords: []string{"DNA origami", "self-assembly"},
		},
	}

	item, rep, err := BuildItem(journalTemplate(), m, []string{"ABCD1234"})
	if err != nil {
		t.Fatalf("BuildItem() error = %v", err)
	}
	if rep == nil {
		t.Fatal("report is nil")
	}

	// The page URL replaces the resolver's doi.org redirect.
	if item["url"] != "https://www.nature.com/articles/nature14586" {
		t.Errorf("url = %v", item["url"])
	}

	wantCollections := []any{"ABCD1234"}
	if !reflect.DeepEqual(item["collections"], wantCollections) {
		t.Errorf("collections = %v, want %v", item["collections"], wantCollections)
	}

	tags, ok := item["tags"].([]any)
	if !ok || len(tags) != 2 {
		t.Fatalf("tags = %v, want 2 entries", item["tags"])
	}
	first, _ := tags[0].(map[string]any)
	if first["tag"] != "DNA origami" || first["type"] != 1 {
		t.Errorf("tags[0] = %v", first)
	}
}

func TestBuildItemAbstractBackfill(t *testing.T) {
	rec := natureRecord() // carries no abstract field
	m := &meta.Metadata{
		URL:      "https://example.org/a",
		Citation: rec,
		HTML:     meta.HTMLMeta{Abstract: "Page-derived abstract."},
	}

	item, _, err := BuildItem(journalTemplate(), m, nil)
	if err != nil {
		t.Fatal(err)
	}
	if item["abstractNote"] != "Page-derived abstract." {
		t.Errorf("abstractNote = %v", item["abstractNote"])
	}
}

func TestBuildItemCitationAbstractWins(t *testing.T) {
	rec := natureRecord()
	rec["abstract"] = "Citation abstract."
	m := &meta.Metadata{
		URL:      "https://example.org/a",
		Citation: rec,
		HTML:     meta.HTMLMeta{Abstract: "Page abstract."},
	}

	item, _, err := BuildItem(journalTemplate(), m, nil)
	if err != nil {
		t.Fatal(err)
	}
	if item["abstractNote"] != "Citation abstract." {
		t.Errorf("abstractNote = %v", item["abstractNote"])
	}
}

func TestBuildItemNoExtras(t *testing.T) {
	m := &meta.Metadata{Citation: natureRecord()}

	item, _, err := BuildItem(journalTemplate(), m, nil)
	if err != nil {
		t.Fatal(err)
	}

	// Without a page URL the mapped resolver URL stands.
	if item["url"] != "http://dx.doi.org/10.1038/nature14586" {
		t.Errorf("url = %v", item["url"])
	}
	if tags, _ := item["tags"].([]any); len(tags) != 0 {
		t.Errorf("tags = %v, want empty", item["tags"])
	}
	if _, ok := item["collections"].([]any); !ok {
		t.Errorf("collections = %v, want template list preserved", item["collections"])
	}
}
