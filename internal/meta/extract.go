package meta

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// doiPattern finds the first "doi" mention followed by a DOI-shaped
// identifier: 10.<4-6 digits>/<suffix without quote, space, angle bracket,
// ampersand or percent characters>. Later DOIs in the document (reference
// sections, related-article links) are ignored: first match wins.
var doiPattern = regexp.MustCompile(`(?s)doi.*?(10\.\d{4,6}/[^\s"'<>&%]+)`)

// titlePattern spans newlines; journal titles are frequently wrapped.
var titlePattern = regexp.MustCompile(`(?s)<title>(.*?)</title>`)

// keywordsPatterns match a <meta> tag carrying exactly name="keywords" plus
// one other attribute, in either attribute order. The other attribute's
// value is the keyword list.
var keywordsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`<meta\s+name="keywords"\s+[\w-]+="([^"]*)"`),
	regexp.MustCompile(`<meta\s+[\w-]+="([^"]*)"\s+name="keywords"`),
}

// headingPatterns has one pattern per heading level. RE2 has no
// backreferences, so requiring the closing level to equal the opening level
// is expressed as six fixed patterns whose matches are merged by offset.
// A single trailing colon before the closing tag is not captured.
var headingPatterns = func() [6]*regexp.Regexp {
	var pats [6]*regexp.Regexp
	for i := range pats {
		n := i + 1
		pats[i] = regexp.MustCompile(fmt.Sprintf(`(?s)<h%d[^>]*>(.*?):?</h%d>`, n, n))
	}
	return pats
}()

// ExtractDOI returns the first DOI found in the document, or "" if none.
func ExtractDOI(html string) string {
	m := doiPattern.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtractTitle returns the first <title> content, or "" if none. The text is
// returned verbatim, including any internal newlines.
func ExtractTitle(html string) string {
	m := titlePattern.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtractHeadings returns all <hN>...</hN> pairs whose opening and closing
// levels agree, in document order. Mismatched pairs (<h2>...</h3>) are not
// captured. Inner text is whitespace-trimmed with any single trailing colon
// stripped.
func ExtractHeadings(html string) []Heading {
	type match struct {
		pos     int
		heading Heading
	}
	var found []match
	for i, pat := range headingPatterns {
		for _, loc := range pat.FindAllStringSubmatchIndex(html, -1) {
			text := html[loc[2]:loc[3]]
			found = append(found, match{
				pos:     loc[0],
				heading: Heading{Level: i + 1, Text: strings.TrimSpace(text)},
			})
		}
	}
	sort.Slice(found, func(a, b int) bool { return found[a].pos < found[b].pos })

	if len(found) == 0 {
		return nil
	}
	headings := make([]Heading, len(found))
	for i, m := range found {
		headings[i] = m.heading
	}
	return headings
}

// ExtractKeywords returns the comma-separated keyword list from a
// name="keywords" meta tag, each element trimmed. Returns nil when no such
// tag exists; an empty content attribute yields a single empty string.
func ExtractKeywords(html string) []string {
	for _, pat := range keywordsPatterns {
		if m := pat.FindStringSubmatch(html); m != nil {
			parts := strings.Split(m[1], ",")
			for i, p := range parts {
				parts[i] = strings.TrimSpace(p)
			}
			return parts
		}
	}
	return nil
}
