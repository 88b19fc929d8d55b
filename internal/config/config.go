// Package config handles the global instap configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/scholer/instaporter/internal/instapaper"
)

// Config represents configuration stored in ~/.config/instap/config.yml.
// Credentials can also come from the environment; see ApplyEnv.
type Config struct {
	// Instapaper account and application credentials.
	Username       string `yaml:"instapaper_username,omitempty"`
	Password       string `yaml:"instapaper_password,omitempty"`
	ConsumerKey    string `yaml:"instapaper_consumer_key,omitempty"`
	ConsumerSecret string `yaml:"instapaper_consumer_secret,omitempty"`

	// AccessTokens is the xAuth token pair saved after a successful login.
	AccessTokens *instapaper.Tokens `yaml:"access_tokens,omitempty"`

	// Zotero library settings.
	ZoteroLibraryID   string   `yaml:"zotero_library_id,omitempty"`
	ZoteroLibraryType string   `yaml:"zotero_library_type,omitempty"` // user or group
	ZoteroAPIKey      string   `yaml:"zotero_api_key,omitempty"`
	ZoteroCollections []string `yaml:"zotero_collections,omitempty"`

	// PrivateSource labels bookmarks submitted with local content instead of
	// a fetchable URL, e.g. "Scientific journal".
	PrivateSource string `yaml:"private_source,omitempty"`

	// HistoryDB overrides the default submission history database path.
	HistoryDB string `yaml:"history_db,omitempty"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "instap"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// HistoryDBFile is the default history database file name, stored
	// alongside the config.
	HistoryDBFile = "history.db"
)

// configCache caches the loaded config.
var configCache *Config

// Path returns the path to the config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/instap/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load loads the configuration file and applies environment overrides.
// Returns an empty config (not an error) if the file doesn't exist.
func Load() (*Config, error) {
	if configCache != nil {
		return configCache, nil
	}

	cfg := &Config{}
	path := Path()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	cfg.ApplyEnv()
	configCache = cfg
	return cfg, nil
}

// ResetCache clears the cached config.
// Useful for testing.
func ResetCache() {
	configCache = nil
}

// ApplyEnv overrides fields from environment variables. Called by Load; the
// variables cover everything needed for a non-interactive run.
func (c *Config) ApplyEnv() {
	setFromEnv(&c.Username, "INSTAPAPER_USERNAME")
	setFromEnv(&c.Password, "INSTAPAPER_PASSWORD")
	setFromEnv(&c.ConsumerKey, "INSTAPAPER_CONSUMER_KEY")
	setFromEnv(&c.ConsumerSecret, "INSTAPAPER_CONSUMER_SECRET")
	setFromEnv(&c.ZoteroLibraryID, "ZOTERO_LIBRARY_ID")
	setFromEnv(&c.ZoteroLibraryType, "ZOTERO_LIBRARY_TYPE")
	setFromEnv(&c.ZoteroAPIKey, "ZOTERO_API_KEY")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Save writes the configuration back to the config file, creating the
// directory if needed. The file holds credentials, hence the tight mode.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	configCache = c
	return nil
}

// HistoryDBPath returns the submission history database path, defaulting to
// history.db next to the config file.
func (c *Config) HistoryDBPath() string {
	if c.HistoryDB != "" {
		return ExpandTilde(c.HistoryDB)
	}
	path := Path()
	if path == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(path), HistoryDBFile)
}

// ExpandTilde expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
