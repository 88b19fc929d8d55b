// Package meta extracts document metadata from raw HTML.
//
// Extraction is pattern based on purpose: the inputs are semi-trusted,
// template-generated journal pages, and only a handful of known fields are
// needed. Each rule is a small pure function with an explicit not-found
// return value, so swapping in a real parse tree later only changes
// internals.
package meta

import (
	"context"

	"github.com/scholer/instaporter/internal/csl"
)

// Heading is one <hN> element, in document order.
type Heading struct {
	Level int    `json:"level"` // 1-6
	Text  string `json:"text"`
}

// HTMLMeta holds the fields extracted directly from the page markup.
type HTMLMeta struct {
	Title    string    `json:"title,omitempty"`
	Headings []Heading `json:"headings,omitempty"`
	Keywords []string  `json:"keywords,omitempty"`
	Abstract string    `json:"abstract,omitempty"` // not extracted yet, kept for the Zotero backfill
}

// Metadata is everything known about a fetched page. It is built once per
// fetch, read by the rewrite/bookmark/reference stages, then discarded.
type Metadata struct {
	URL      string     `json:"url,omitempty"`
	DOI      string     `json:"doi,omitempty"`
	HTML     HTMLMeta   `json:"html"`
	Citation csl.Record `json:"citation,omitempty"` // nil unless the DOI resolved
}

// Resolver resolves a DOI to a CSL record. *csl.Client satisfies this.
type Resolver interface {
	Resolve(ctx context.Context, doi string) (csl.Record, error)
}

// Extract assembles a Metadata record from raw HTML. When a DOI is found and
// a resolver is supplied, the DOI is resolved and the citation attached; a
// resolver failure narrows the record to HTML-only metadata rather than
// failing the extraction.
func Extract(ctx context.Context, html, pageURL string, resolver Resolver) *Metadata {
	m := &Metadata{
		URL: pageURL,
		DOI: ExtractDOI(html),
		HTML: HTMLMeta{
			Title:    ExtractTitle(html),
			Headings: ExtractHeadings(html),
			Keywords: ExtractKeywords(html),
		},
	}
	if m.DOI != "" && resolver != nil {
		if rec, err := resolver.Resolve(ctx, m.DOI); err == nil {
			m.Citation = rec
		}
	}
	return m
}
