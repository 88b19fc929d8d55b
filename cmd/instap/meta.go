package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scholer/instaporter/internal/csl"
	"github.com/scholer/instaporter/internal/fetch"
	"github.com/scholer/instaporter/internal/meta"
	"github.com/scholer/instaporter/internal/pdf"
)

var (
	metaFile      string
	metaNoResolve bool
)

func init() {
	metaCmd.Flags().StringVar(&metaFile, "file", "", "Read page HTML from a local file instead of fetching the URL")
	metaCmd.Flags().BoolVar(&metaNoResolve, "no-resolve", false, "Skip resolving the DOI to citation metadata")
	rootCmd.AddCommand(metaCmd)
	rootCmd.AddCommand(doiCmd)
}

var metaCmd = &cobra.Command{
	Use:   "meta [url]",
	Short: "Extract metadata from a page without bookmarking it",
	Long: `Fetch a page and show what would be extracted: title, headings,
keywords, DOI and (unless --no-resolve) the resolved citation.

Useful for checking a page before 'instap add', or for piping the
citation JSON elsewhere.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMeta,
}

func runMeta(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	pageURL := argOrClipboard(args)
	if pageURL == "" && metaFile == "" {
		exitWithError(ExitError, "no URL given and clipboard is empty")
	}

	var html string
	var err error
	if metaFile != "" {
		html, err = fetch.File(metaFile)
	} else {
		html, pageURL, err = fetch.New().Page(ctx, pageURL)
	}
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	var resolver meta.Resolver
	if !metaNoResolve {
		resolver = csl.NewClient()
	}
	m := meta.Extract(ctx, html, pageURL, resolver)

	if humanOutput {
		printMetadataHuman(m)
	} else {
		outputJSON(m)
	}
	return nil
}

var doiCmd = &cobra.Command{
	Use:   "doi <file.pdf>",
	Short: "Extract the DOI from a local PDF",
	Long: `Scan the first pages of a PDF for a DOI and print it.

With --human the bare DOI is printed, suitable for shell substitution.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doi, err := pdf.ExtractDOI(args[0])
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		if doi == "" {
			exitWithError(ExitDataError, "no DOI found in %s", args[0])
		}
		if humanOutput {
			fmt.Println(doi)
		} else {
			outputJSON(map[string]string{"doi": doi})
		}
		return nil
	},
}

func printMetadataHuman(m *meta.Metadata) {
	fmt.Printf("URL:   %s\n", m.URL)
	if m.HTML.Title != "" {
		fmt.Printf("Title: %s\n", strings.TrimSpace(m.HTML.Title))
	}
	if m.DOI != "" {
		fmt.Printf("DOI:   %s\n", m.DOI)
	}
	if len(m.HTML.Keywords) > 0 {
		fmt.Printf("Keywords: %s\n", strings.Join(m.HTML.Keywords, ", "))
	}
	if len(m.HTML.Headings) > 0 {
		fmt.Println("Headings:")
		for _, h := range m.HTML.Headings {
			fmt.Printf("  h%d %s\n", h.Level, truncateString(h.Text, ListTitleMaxLen))
		}
	}
	if m.Citation != nil {
		fmt.Println("Citation:")
		if title, ok := m.Citation["title"].(string); ok {
			fmt.Printf("  title: %s\n", title)
		}
		if ct, ok := m.Citation["container-title"].(string); ok {
			fmt.Printf("  container: %s\n", ct)
		}
	}
}
