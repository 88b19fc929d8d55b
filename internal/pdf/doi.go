// Package pdf extracts DOIs from local PDF files, so an article saved as
// PDF can be enriched through the resolver without its HTML page.
package pdf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// doiPattern matches the normalized DOI form used across the pipeline:
// 10.<4-6 digits>/<suffix>. Trailing sentence punctuation is trimmed after
// matching since PDF text runs words and punctuation together.
var doiPattern = regexp.MustCompile(`10\.\d{4,6}/[^\s"'<>&%]+`)

// maxScanPages bounds the search; the DOI is nearly always on page one.
const maxScanPages = 3

// ExtractDOI scans the first pages of a PDF for a DOI. Returns "" (not an
// error) when none is found.
func ExtractDOI(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	pages := r.NumPage()
	if pages > maxScanPages {
		pages = maxScanPages
	}

	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if doi := findDOI(text); doi != "" {
			return doi, nil
		}
	}
	return "", nil
}

// findDOI returns the first plausible DOI in text.
func findDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if strings.Contains(match[3:], "/") && !strings.HasSuffix(match, "/") {
			return match
		}
	}
	return ""
}
