// Package main provides the instap CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/scholer/instaporter/internal/config"
	"github.com/scholer/instaporter/internal/instapaper"
	"github.com/scholer/instaporter/internal/store"
	"github.com/scholer/instaporter/internal/zotero"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "instap",
	Short: "Bookmark journal articles to Instapaper and Zotero",
	Long: `instap saves web pages, primarily scientific articles, to Instapaper
and optionally registers them as Zotero references.

Core features:
  - Fetch a page, extract its DOI and resolve it to citation metadata
  - Rewrite symbol images and relative links so saved content is readable
  - Submit bookmarks through the Instapaper full API (xAuth)
  - Create Zotero items from resolved citations
  - Keep a local SQLite history of submissions

All commands output JSON by default; pass --human for readable text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustInstapaperClient builds an Instapaper client from config. Exits when
// the consumer credentials are missing; access tokens are attached when
// present but their absence is the caller's concern (login doesn't have any).
func mustInstapaperClient(cfg *config.Config) *instapaper.Client {
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" {
		exitWithError(ExitConfigError,
			"Instapaper consumer key/secret not configured\n\nSet instapaper_consumer_key and instapaper_consumer_secret in %s\nor the INSTAPAPER_CONSUMER_KEY / INSTAPAPER_CONSUMER_SECRET environment variables.",
			config.Path())
	}

	var opts []instapaper.ClientOption
	if cfg.AccessTokens != nil {
		opts = append(opts, instapaper.WithTokens(*cfg.AccessTokens))
	}
	return instapaper.NewClient(cfg.ConsumerKey, cfg.ConsumerSecret, opts...)
}

// mustLoggedInClient builds an Instapaper client that holds access tokens,
// exiting with a pointer to `instap login` when none are saved.
func mustLoggedInClient(cfg *config.Config) *instapaper.Client {
	client := mustInstapaperClient(cfg)
	if !client.LoggedIn() {
		exitWithError(ExitAuthError, "not logged in to Instapaper\n\nRun 'instap login' first.")
	}
	return client
}

// mustZoteroClient builds a Zotero client from config, exits when the
// library is not configured.
func mustZoteroClient(cfg *config.Config) *zotero.Client {
	if cfg.ZoteroLibraryID == "" || cfg.ZoteroAPIKey == "" {
		exitWithError(ExitConfigError,
			"Zotero library not configured\n\nSet zotero_library_id and zotero_api_key in %s\nor the ZOTERO_LIBRARY_ID / ZOTERO_API_KEY environment variables.",
			config.Path())
	}
	return zotero.NewClient(cfg.ZoteroLibraryID, cfg.ZoteroLibraryType, cfg.ZoteroAPIKey)
}

// mustOpenHistory opens the submission history database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenHistory(cfg *config.Config) *store.DB {
	path := cfg.HistoryDBPath()
	if path == "" {
		exitWithError(ExitConfigError, "cannot determine history database path")
	}
	db, err := store.Open(path)
	if err != nil {
		exitWithError(ExitError, "opening history database: %v", err)
	}
	return db
}
