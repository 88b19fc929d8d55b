package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholer/instaporter/internal/store"
)

var (
	historyLimit int
	historyURL   string
	historyDOI   string
)

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 25, "Number of entries to show")
	historyCmd.Flags().StringVar(&historyURL, "url", "", "Show submissions of this URL only")
	historyCmd.Flags().StringVar(&historyDOI, "doi", "", "Show submissions with this DOI only")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the local submission history",
	Long: `Show past bookmark submissions recorded in the local history
database, newest first.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenHistory(cfg)
	defer db.Close()

	var entries []store.Entry
	var err error
	switch {
	case historyURL != "":
		entries, err = db.FindByURL(historyURL)
	case historyDOI != "":
		entries, err = db.FindByDOI(historyDOI)
	default:
		entries, err = db.Recent(historyLimit)
	}
	if err != nil {
		exitWithError(ExitError, "reading history: %v", err)
	}

	if humanOutput {
		printHistoryHuman(entries)
	} else {
		if entries == nil {
			entries = []store.Entry{}
		}
		outputJSON(entries)
	}
	return nil
}

func printHistoryHuman(entries []store.Entry) {
	if len(entries) == 0 {
		fmt.Println("No submissions recorded.")
		return
	}
	for _, e := range entries {
		fmt.Printf("%s  %s\n", formatUnixTime(e.SubmittedAt), truncateString(e.Title, ListTitleMaxLen))
		fmt.Printf("    %s\n", e.URL)
		if e.DOI != "" {
			fmt.Printf("    DOI: %s\n", e.DOI)
		}
		if e.ZoteroKey != "" {
			fmt.Printf("    Zotero: %s\n", e.ZoteroKey)
		}
	}
}
