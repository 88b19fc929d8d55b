package zotero

import (
	"github.com/scholer/instaporter/internal/meta"
)

// BuildItem maps the citation record from m onto template and then layers in
// the page-derived extras: the source URL (the resolver's URL field is
// usually just a doi.org redirect, so the page URL wins), the target
// collections, keyword tags, and an abstract backfill for records that
// carried none.
func BuildItem(template Item, m *meta.Metadata, collections []string) (Item, *Report, error) {
	item, rep, err := MapRecord(template, m.Citation)
	if err != nil {
		return nil, rep, err
	}

	if m.URL != "" {
		item["url"] = m.URL
	}
	if len(collections) > 0 {
		ids := make([]any, len(collections))
		for i, id := range collections {
			ids[i] = id
		}
		item["collections"] = ids
	}
	if len(m.HTML.Keywords) > 0 {
		tags := make([]any, len(m.HTML.Keywords))
		for i, kw := range m.HTML.Keywords {
			tags[i] = map[string]any{"tag": kw, "type": 1}
		}
		if existing, ok := item["tags"].([]any); ok {
			item["tags"] = append(existing, tags...)
		} else {
			item["tags"] = tags
		}
	}
	if abstract, _ := item["abstractNote"].(string); abstract == "" && m.HTML.Abstract != "" {
		item["abstractNote"] = m.HTML.Abstract
	}

	return item, rep, nil
}
