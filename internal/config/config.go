// This file defines the configuration structure for the application.
package config

import (
	// use Viper for loading the config.yml file.
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port        int    `mapstructure:"port"`
	TempDir     string `mapstructure:"temp_dir"`
	MaxWorkers  int    `mapstructure:"max_workers"`
	TaskTimeout int    `mapstructure:"task_timeout"` // seconds, ceiling for one enrichment batch
	ProgressTTL int    `mapstructure:"progress_ttl"` // minutes a finished progress record is kept
	Database    struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Ebay struct {
		AppID              string `mapstructure:"app_id"`
		CertID             string `mapstructure:"cert_id"`
		RuName             string `mapstructure:"ru_name"`
		UserAccessToken    string `mapstructure:"user_access_token"` // debug bypass for OAuth
		OAuthBaseURL       string `mapstructure:"oauth_base_url"`
		TokenURL           string `mapstructure:"token_url"`
		FeedAPIBaseURL     string `mapstructure:"feed_api_base_url"`
		TradingAPIURL      string `mapstructure:"trading_api_url"`
		SiteID             string `mapstructure:"site_id"`
		MarketplaceID      string `mapstructure:"marketplace_id"`
		CompatibilityLevel string `mapstructure:"compatibility_level"`
		AcceptedCurrency   string `mapstructure:"accepted_currency"`
	} `mapstructure:"ebay"`
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or "yaml"
	viper.AddConfigPath(".")      // looking for config in the current directory

	// --- Environment Variable Overrides ---
	// This tells Viper to look for environment variables with a "WOOD_" prefix.
	// e.g., WOOD_EBAY_APP_ID will override the `ebay.app_id` key.
	viper.SetEnvPrefix("WOOD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("port", 8080)
	viper.SetDefault("temp_dir", "./temp")
	viper.SetDefault("max_workers", 4)
	viper.SetDefault("task_timeout", 300)
	viper.SetDefault("progress_ttl", 60)
	viper.SetDefault("database.path", "./wood.db")
	viper.SetDefault("ebay.oauth_base_url", "https://auth.ebay.com/oauth2/authorize")
	viper.SetDefault("ebay.token_url", "https://api.ebay.com/identity/v1/oauth2/token")
	viper.SetDefault("ebay.feed_api_base_url", "https://api.ebay.com/sell/feed/v1")
	viper.SetDefault("ebay.trading_api_url", "https://api.ebay.com/ws/api.dll")
	viper.SetDefault("ebay.site_id", "0")
	viper.SetDefault("ebay.marketplace_id", "EBAY_US")
	viper.SetDefault("ebay.compatibility_level", "1217")
	viper.SetDefault("ebay.accepted_currency", "USD")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error and use defaults
		} else {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
