package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/scholer/instaporter/internal/csl"
	"github.com/scholer/instaporter/internal/fetch"
	"github.com/scholer/instaporter/internal/meta"
	"github.com/scholer/instaporter/internal/zotero"
)

var (
	zoteroDOI    string
	zoteroDryRun bool
)

func init() {
	// Load .env file if present (for ZOTERO_API_KEY)
	_ = godotenv.Load()

	zoteroAddCmd.Flags().StringVar(&zoteroDOI, "doi", "", "Resolve this DOI directly instead of fetching a page")
	zoteroAddCmd.Flags().BoolVar(&zoteroDryRun, "dry-run", false, "Show the mapped item without creating it")
	zoteroCmd.AddCommand(zoteroAddCmd)
	rootCmd.AddCommand(zoteroCmd)
}

var zoteroCmd = &cobra.Command{
	Use:   "zotero",
	Short: "Create Zotero items from citation metadata",
}

var zoteroAddCmd = &cobra.Command{
	Use:   "add [url]",
	Short: "Create a Zotero journalArticle item from a page or DOI",
	Long: `Resolve citation metadata and create a Zotero item from it.

With a URL the page is fetched and its DOI extracted; with --doi the
resolver is called directly. The citation is mapped onto the library's
journalArticle template, and the mapping report (missing, unconsumed
and anomalous fields) accompanies the created item.

Examples:
  instap zotero add https://www.nature.com/articles/nature14586
  instap zotero add --doi 10.1038/nature14586
  instap zotero add --doi 10.1038/nature14586 --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runZoteroAdd,
}

// ZoteroAddResponse is the response for the zotero add command.
type ZoteroAddResponse struct {
	Key    string         `json:"key,omitempty"`
	Item   zotero.Item    `json:"item"`
	Report *zotero.Report `json:"report,omitempty"`
}

func runZoteroAdd(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	ctx := cmd.Context()

	var m *meta.Metadata
	if zoteroDOI != "" {
		rec, err := csl.NewClient().Resolve(ctx, zoteroDOI)
		if err != nil {
			exitWithError(ExitDataError, "resolving %s: %v", zoteroDOI, err)
		}
		m = &meta.Metadata{DOI: zoteroDOI, Citation: rec}
	} else {
		pageURL := argOrClipboard(args)
		if pageURL == "" {
			exitWithError(ExitError, "no URL given and clipboard is empty")
		}
		html, finalURL, err := fetch.New().Page(ctx, pageURL)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		m = meta.Extract(ctx, html, finalURL, csl.NewClient())
		if m.DOI == "" {
			exitWithError(ExitDataError, "no DOI found in %s", finalURL)
		}
		if m.Citation == nil {
			exitWithError(ExitDataError, "DOI %s did not resolve to a citation", m.DOI)
		}
	}

	zc := mustZoteroClient(cfg)
	template, err := zc.ItemTemplate(ctx, "journalArticle")
	if err != nil {
		exitWithError(ExitError, "fetching Zotero template: %v", err)
	}

	item, rep, err := zotero.BuildItem(template, m, cfg.ZoteroCollections)
	if err != nil {
		exitWithError(ExitDataError, "mapping citation: %v", err)
	}

	key := ""
	if !zoteroDryRun {
		key, _, err = zc.CreateItems(ctx, []zotero.Item{item})
		if err != nil {
			exitWithError(ExitError, "creating Zotero item: %v", err)
		}
	}

	if humanOutput {
		if zoteroDryRun {
			fmt.Println("Dry run - no item created")
		} else {
			fmt.Printf("Created Zotero item %s\n", key)
		}
		if title, ok := item["title"].(string); ok {
			fmt.Printf("  %s\n", title)
		}
		if len(rep.Unconsumed) > 0 {
			fmt.Printf("  unconsumed citation fields: %d\n", len(rep.Unconsumed))
		}
		for _, w := range rep.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
	} else {
		outputJSON(ZoteroAddResponse{Key: key, Item: item, Report: rep})
	}
	return nil
}
