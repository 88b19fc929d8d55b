package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/scholer/instaporter/internal/instapaper"
)

// Title truncation length for list output.
const ListTitleMaxLen = 60

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// printBookmarksHuman prints bookmarks in human-readable format.
func printBookmarksHuman(bookmarks []instapaper.Bookmark) {
	for _, bm := range bookmarks {
		star := " "
		if bm.Starred == "1" {
			star = "*"
		}
		fmt.Printf("%s %d  %s\n", star, bm.BookmarkID, truncateString(bm.Title, ListTitleMaxLen))
		fmt.Printf("    %s\n", bm.URL)
	}
}

// formatUnixTime formats a unix timestamp for human output.
func formatUnixTime(ts int64) string {
	return time.Unix(ts, 0).Format("2006-01-02 15:04")
}
