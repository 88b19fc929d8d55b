package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/scholer/instaporter/internal/clipboard"
	"github.com/scholer/instaporter/internal/config"
	"github.com/scholer/instaporter/internal/csl"
	"github.com/scholer/instaporter/internal/fetch"
	"github.com/scholer/instaporter/internal/instapaper"
	"github.com/scholer/instaporter/internal/meta"
	"github.com/scholer/instaporter/internal/pdf"
	"github.com/scholer/instaporter/internal/rewrite"
	"github.com/scholer/instaporter/internal/store"
	"github.com/scholer/instaporter/internal/zotero"
)

var (
	addTitle       string
	addDescription string
	addFolder      string
	addFile        string
	addNoContent   bool
	addZotero      bool
	addForce       bool
	addDryRun      bool
)

func init() {
	// Load .env file if present (for credentials)
	_ = godotenv.Load()

	addCmd.Flags().StringVar(&addTitle, "title", "", "Bookmark title (default: extracted from the page)")
	addCmd.Flags().StringVar(&addDescription, "description", "", "Bookmark description")
	addCmd.Flags().StringVar(&addFolder, "folder", "", "Folder ID to file the bookmark in")
	addCmd.Flags().StringVar(&addFile, "file", "", "Read page HTML from a local file instead of fetching the URL")
	addCmd.Flags().BoolVar(&addNoContent, "no-content", false, "Submit the URL only and let Instapaper fetch the page")
	addCmd.Flags().BoolVar(&addZotero, "zotero", false, "Also create a Zotero item from the resolved citation")
	addCmd.Flags().BoolVar(&addForce, "force", false, "Submit even if the URL is already in the history")
	addCmd.Flags().BoolVar(&addDryRun, "dry-run", false, "Fetch, extract and rewrite but submit nothing")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add [url|file.html|file.pdf]",
	Short: "Fetch a page and save it as an Instapaper bookmark",
	Long: `Fetch a page, extract its metadata and submit it to Instapaper.

The argument is a URL, a local HTML file, or a local PDF; when
omitted, the URL is read from the system clipboard. A PDF is scanned
for its DOI and submitted through the DOI's landing page. The page is
fetched once and its processed content is submitted with the
bookmark, after two rewrites: symbol images (Greek letters, math
signs served as <img> tags by some journals) become HTML entities,
and relative links become absolute.

A DOI found in the page is resolved to citation metadata; with
--zotero the citation is also registered as a Zotero item.

Examples:
  instap add https://www.nature.com/articles/nature14586
  instap add                       # URL from clipboard
  instap add paper.pdf --zotero
  instap add --file page.html https://example.org/article
  instap add --zotero https://doi.org/10.1038/nature14586`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

// AddResponse is the response for the add command.
type AddResponse struct {
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	DOI             string   `json:"doi,omitempty"`
	BookmarkID      int64    `json:"bookmark_id"`
	ZoteroKey       string   `json:"zotero_key,omitempty"`
	SymbolsReplaced int      `json:"symbols_replaced,omitempty"`
	LinksRewritten  int      `json:"links_rewritten,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	ctx := cmd.Context()

	var client *instapaper.Client
	if !addDryRun {
		client = mustLoggedInClient(cfg)
	}

	pageURL := resolveTarget(args)
	if pageURL == "" && addFile == "" {
		exitWithError(ExitError, "no URL given and clipboard is empty")
	}

	if !addForce && !addDryRun {
		warnIfResubmitted(cfg, pageURL)
	}

	var warnings []string

	// Fetch the page. A local file keeps the given URL as the link target
	// and rewrite base.
	html, finalURL, err := fetchPage(ctx, pageURL)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if finalURL != "" {
		pageURL = finalURL
	}

	m := meta.Extract(ctx, html, pageURL, csl.NewClient())
	if m.DOI != "" && m.Citation == nil {
		warnings = append(warnings, fmt.Sprintf("DOI %s did not resolve to a citation", m.DOI))
	}

	title := addTitle
	if title == "" {
		title = strings.TrimSpace(m.HTML.Title)
	}

	params := instapaper.AddBookmarkParams{
		URL:         pageURL,
		Title:       title,
		Description: addDescription,
		FolderID:    addFolder,
	}

	var symbolStats rewrite.SymbolStats
	var linksRewritten int
	if !addNoContent {
		content := html
		content, symbolStats = rewrite.Symbols(content)
		if symbolStats.Unrecognized > 0 {
			warnings = append(warnings,
				fmt.Sprintf("%d symbol images were not recognized", symbolStats.Unrecognized))
		}
		content, linksRewritten, err = rewrite.AbsoluteURLs(content, pageURL)
		if err != nil {
			exitWithError(ExitDataError, "rewriting links: %v", err)
		}
		params.Content = content
		params.NoResolveFinalURL = true // pageURL is already the post-redirect URL
		if cfg.PrivateSource != "" && addFile != "" {
			params.IsPrivateFromSource = cfg.PrivateSource
		}
	}

	resp := AddResponse{
		URL:             pageURL,
		Title:           title,
		DOI:             m.DOI,
		SymbolsReplaced: symbolStats.Replaced,
		LinksRewritten:  linksRewritten,
	}

	if !addDryRun {
		bm, err := client.AddBookmark(ctx, params)
		if err != nil {
			exitWithError(ExitError, "adding bookmark: %v", err)
		}
		resp.Title = bm.Title
		resp.BookmarkID = bm.BookmarkID

		if addZotero {
			resp.ZoteroKey = createZoteroItem(ctx, cfg, m, &warnings)
		}

		recordSubmission(cfg, store.Entry{
			URL:        pageURL,
			Title:      title,
			DOI:        m.DOI,
			BookmarkID: bm.BookmarkID,
			ZoteroKey:  resp.ZoteroKey,
		}, &warnings)
	}
	resp.Warnings = warnings
	if humanOutput {
		printAddResponseHuman(resp)
	} else {
		outputJSON(resp)
	}
	return nil
}

// resolveTarget turns the argument into the page URL. A local PDF is
// scanned for its DOI and submitted through the doi.org landing page; a
// local HTML file is read like --file, with the URL taken from the
// clipboard when one is there.
func resolveTarget(args []string) string {
	if len(args) == 0 {
		return argOrClipboard(args)
	}
	arg := strings.TrimSpace(args[0])
	if _, err := os.Stat(arg); err != nil {
		return arg
	}
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".pdf":
		doi, err := pdf.ExtractDOI(arg)
		if err != nil {
			exitWithError(ExitDataError, "reading %s: %v", arg, err)
		}
		if doi == "" {
			exitWithError(ExitDataError, "no DOI found in %s", arg)
		}
		return "https://doi.org/" + doi
	default:
		addFile = arg
		return argOrClipboard(nil)
	}
}

// argOrClipboard returns the first argument, or the clipboard content when
// no argument was given.
func argOrClipboard(args []string) string {
	if len(args) > 0 {
		return strings.TrimSpace(args[0])
	}
	text, err := clipboard.Paste()
	if err != nil {
		return ""
	}
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "http://") && !strings.HasPrefix(text, "https://") {
		return ""
	}
	return text
}

// fetchPage returns the page HTML and the final URL after redirects. With
// --file the HTML comes from disk and the URL is passed through unchanged.
func fetchPage(ctx context.Context, pageURL string) (html, finalURL string, err error) {
	if addFile != "" {
		html, err = fetch.File(addFile)
		return html, pageURL, err
	}
	return fetch.New().Page(ctx, pageURL)
}

// warnIfResubmitted checks the history for a previous submission of the URL
// and exits with a hint unless --force is given. History being unavailable
// is not a reason to block a submission.
func warnIfResubmitted(cfg *config.Config, pageURL string) {
	if pageURL == "" {
		return
	}
	db, err := store.Open(cfg.HistoryDBPath())
	if err != nil {
		return
	}
	defer db.Close()

	entries, err := db.FindByURL(pageURL)
	if err != nil || len(entries) == 0 {
		return
	}
	exitWithError(ExitError,
		"already submitted %s on %s (bookmark %d)\n\nUse --force to submit again.",
		pageURL, formatUnixTime(entries[0].SubmittedAt), entries[0].BookmarkID)
}

// createZoteroItem maps the citation onto a journalArticle template and
// creates the item. Failures degrade to warnings so the bookmark submission
// still counts.
func createZoteroItem(ctx context.Context, cfg *config.Config, m *meta.Metadata, warnings *[]string) string {
	if m.Citation == nil {
		*warnings = append(*warnings, "no citation metadata, skipping Zotero item")
		return ""
	}
	zc := mustZoteroClient(cfg)

	template, err := zc.ItemTemplate(ctx, "journalArticle")
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("fetching Zotero template: %v", err))
		return ""
	}
	item, rep, err := zotero.BuildItem(template, m, cfg.ZoteroCollections)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("mapping citation: %v", err))
		return ""
	}
	*warnings = append(*warnings, rep.Warnings...)

	key, _, err := zc.CreateItems(ctx, []zotero.Item{item})
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("creating Zotero item: %v", err))
		return ""
	}
	return key
}

// recordSubmission appends the submission to the history database. History
// failures are warnings, not errors.
func recordSubmission(cfg *config.Config, e store.Entry, warnings *[]string) {
	db, err := store.Open(cfg.HistoryDBPath())
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("opening history: %v", err))
		return
	}
	defer db.Close()

	if _, err := db.Record(e); err != nil {
		*warnings = append(*warnings, fmt.Sprintf("recording history: %v", err))
	}
}

func printAddResponseHuman(resp AddResponse) {
	fmt.Printf("Bookmarked %d: %s\n", resp.BookmarkID, resp.Title)
	fmt.Printf("  %s\n", resp.URL)
	if resp.DOI != "" {
		fmt.Printf("  DOI: %s\n", resp.DOI)
	}
	if resp.ZoteroKey != "" {
		fmt.Printf("  Zotero item: %s\n", resp.ZoteroKey)
	}
	if resp.SymbolsReplaced > 0 || resp.LinksRewritten > 0 {
		fmt.Printf("  Rewrote %d symbols, %d links\n", resp.SymbolsReplaced, resp.LinksRewritten)
	}
	for _, w := range resp.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
}
