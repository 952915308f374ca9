// Package config loads application configuration from an optional TOML file
// with UPTRACK_-prefixed environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all settings for the sync, API and export binaries.
type Config struct {
	Up       UpConfig
	Database DatabaseConfig
	API      APIConfig
	Export   ExportConfig
}

// UpConfig holds Up API access settings. Token has no default; set
// UPTRACK_UP_TOKEN or put it in the config file.
type UpConfig struct {
	Token   string
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// APIConfig holds dashboard server settings.
type APIConfig struct {
	Addr string
}

// ExportConfig holds CSV export settings. Bucket is optional; when set,
// exports are also uploaded to GCS.
type ExportConfig struct {
	Dir    string
	Bucket string
}

// Load reads configuration from file and environment. The config file is
// looked up at $UPTRACK_CONFIG, then ~/.config/uptrack/config.toml; a missing
// file is fine, defaults and env cover everything.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("up.token", "")
	v.SetDefault("up.base_url", "https://api.up.com.au/api/v1")
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "uptrack", "uptrack.db"))
	v.SetDefault("api.addr", ":8080")
	v.SetDefault("export.dir", "export")
	v.SetDefault("export.bucket", "")

	v.SetConfigType("toml")
	if path := os.Getenv("UPTRACK_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "uptrack"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("UPTRACK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
