package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scholer/instaporter/internal/config"
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the instap configuration",
}

// ConfigResponse is the response for config show. Secrets are reported as
// set/unset rather than echoed.
type ConfigResponse struct {
	Path              string   `json:"path"`
	Username          string   `json:"instapaper_username,omitempty"`
	ConsumerKeySet    bool     `json:"consumer_key_set"`
	AccessTokensSet   bool     `json:"access_tokens_set"`
	ZoteroLibraryID   string   `json:"zotero_library_id,omitempty"`
	ZoteroLibraryType string   `json:"zotero_library_type,omitempty"`
	ZoteroAPIKeySet   bool     `json:"zotero_api_key_set"`
	ZoteroCollections []string `json:"zotero_collections,omitempty"`
	HistoryDB         string   `json:"history_db,omitempty"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()

		resp := ConfigResponse{
			Path:              config.Path(),
			Username:          cfg.Username,
			ConsumerKeySet:    cfg.ConsumerKey != "",
			AccessTokensSet:   cfg.AccessTokens != nil,
			ZoteroLibraryID:   cfg.ZoteroLibraryID,
			ZoteroLibraryType: cfg.ZoteroLibraryType,
			ZoteroAPIKeySet:   cfg.ZoteroAPIKey != "",
			ZoteroCollections: cfg.ZoteroCollections,
			HistoryDB:         cfg.HistoryDBPath(),
		}

		if humanOutput {
			fmt.Printf("config:        %s\n", resp.Path)
			fmt.Printf("username:      %s\n", resp.Username)
			fmt.Printf("consumer key:  %s\n", setOrUnset(resp.ConsumerKeySet))
			fmt.Printf("access tokens: %s\n", setOrUnset(resp.AccessTokensSet))
			fmt.Printf("zotero:        %s %s (key %s)\n",
				resp.ZoteroLibraryType, resp.ZoteroLibraryID, setOrUnset(resp.ZoteroAPIKeySet))
			fmt.Printf("history db:    %s\n", resp.HistoryDB)
		} else {
			outputJSON(resp)
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if humanOutput {
			fmt.Println(config.Path())
		} else {
			outputJSON(StatusResponse{Status: "ok", Path: config.Path()})
		}
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a single configuration value",
	Long: `Print a single configuration value.

Keys:
  username             Instapaper username
  consumer-key         Instapaper OAuth consumer key
  consumer-secret      Instapaper OAuth consumer secret
  zotero-library-id    Zotero library ID
  zotero-library-type  Zotero library type (user or group)
  zotero-api-key       Zotero API key
  zotero-collections   Comma-separated Zotero collection keys
  history-db           Path to the submission history database
  private-source       Source label for private local-file bookmarks`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		key := normalizeKey(args[0])
		value, ok := configValue(cfg, key)
		if !ok {
			exitWithError(ExitError, "unknown configuration key: %s", args[0])
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): value})
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		key := normalizeKey(args[0])
		value := args[1]

		switch key {
		case "username":
			cfg.Username = value
		case "consumer-key":
			cfg.ConsumerKey = value
		case "consumer-secret":
			cfg.ConsumerSecret = value
		case "zotero-library-id":
			cfg.ZoteroLibraryID = value
		case "zotero-library-type":
			if value != "user" && value != "group" {
				exitWithError(ExitConfigError, "zotero-library-type must be user or group, got %q", value)
			}
			cfg.ZoteroLibraryType = value
		case "zotero-api-key":
			cfg.ZoteroAPIKey = value
		case "zotero-collections":
			cfg.ZoteroCollections = splitCollections(value)
		case "history-db":
			cfg.HistoryDB = config.ExpandTilde(value)
		case "private-source":
			cfg.PrivateSource = value
		default:
			exitWithError(ExitError, "unknown configuration key: %s", args[0])
		}

		if err := cfg.Save(); err != nil {
			exitWithError(ExitError, "saving config: %v", err)
		}

		if humanOutput {
			fmt.Printf("Updated %s\n", key)
		} else {
			outputJSON(StatusResponse{Status: "updated", Path: config.Path()})
		}
		return nil
	},
}

func configValue(cfg *config.Config, key string) (string, bool) {
	switch key {
	case "username":
		return cfg.Username, true
	case "consumer-key":
		return cfg.ConsumerKey, true
	case "consumer-secret":
		return cfg.ConsumerSecret, true
	case "zotero-library-id":
		return cfg.ZoteroLibraryID, true
	case "zotero-library-type":
		return cfg.ZoteroLibraryType, true
	case "zotero-api-key":
		return cfg.ZoteroAPIKey, true
	case "zotero-collections":
		return strings.Join(cfg.ZoteroCollections, ","), true
	case "history-db":
		return cfg.HistoryDBPath(), true
	case "private-source":
		return cfg.PrivateSource, true
	}
	return "", false
}

// normalizeKey folds underscore spellings into the dashed key names.
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	return key
}

func splitCollections(value string) []string {
	var keys []string
	for _, k := range strings.Split(value, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func setOrUnset(b bool) string {
	if b {
		return "set"
	}
	return "unset"
}
