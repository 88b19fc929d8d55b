package rewrite

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// urlAttrPattern matches href and src attribute values. The two attributes
// never overlap, so a single pass over both is order-independent.
var urlAttrPattern = regexp.MustCompile(`(href|src)="([^"]*?)"`)

// AbsoluteURLs resolves every href="..." and src="..." attribute value
// against base using standard relative-reference resolution. Absolute URLs
// pass through unchanged; scheme-relative, path-relative and query- or
// fragment-only references resolve against the base. Attribute values that
// do not parse as URL references are left as-is. Returns the rewritten
// document and the number of resolved attributes.
func AbsoluteURLs(html, base string) (string, int, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", 0, fmt.Errorf("parsing base url: %w", err)
	}

	var out strings.Builder
	out.Grow(len(html))
	count := 0
	last := 0
	for _, loc := range urlAttrPattern.FindAllStringSubmatchIndex(html, -1) {
		attr := html[loc[2]:loc[3]]
		ref := html[loc[4]:loc[5]]

		resolved, err := baseURL.Parse(ref)
		if err != nil {
			continue
		}

		out.WriteString(html[last:loc[0]])
		out.WriteString(attr)
		out.WriteString(`="`)
		out.WriteString(resolved.String())
		out.WriteString(`"`)
		last = loc[1]
		count++
	}
	out.WriteString(html[last:])
	return out.String(), count, nil
}
