// This test file verifies the configuration loading logic using Viper.

package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults when no config file", func(t *testing.T) {
		// Ensure no config file exists for this test
		os.Remove("config.yml")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned an error: %v", err)
		}

		// Check if default values are set
		if cfg.Port != 8080 {
			t.Errorf("Expected default port 8080, got %d", cfg.Port)
		}
		if cfg.MaxWorkers != 4 {
			t.Errorf("Expected default max_workers 4, got %d", cfg.MaxWorkers)
		}
		if cfg.Database.Path != "./wood.db" {
			t.Errorf("Expected default db path './wood.db', got '%s'", cfg.Database.Path)
		}
		if cfg.Ebay.AcceptedCurrency != "USD" {
			t.Errorf("Expected default accepted currency 'USD', got '%s'", cfg.Ebay.AcceptedCurrency)
		}
		if cfg.Ebay.TradingAPIURL != "https://api.ebay.com/ws/api.dll" {
			t.Errorf("Unexpected default trading API URL: %s", cfg.Ebay.TradingAPIURL)
		}
	})

	t.Run("Loads from config file", func(t *testing.T) {
		// Create a temporary config file for this test
		configContent := `
port: 9999
max_workers: 8
database:
  path: "/tmp/test.db"
ebay:
  app_id: "test-app"
  site_id: "3"
unknown_setting: "should be ignored"
`
		// Create the config file in the current directory so Viper can find it.
		// Note: `t.TempDir()` is not used here because Viper looks in the CWD.
		configPath := "config.yml"
		if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
			t.Fatalf("Failed to write test config file: %v", err)
		}
		// Clean up the file after the test
		defer os.Remove(configPath)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned an error: %v", err)
		}

		// Check if values from the file were loaded
		if cfg.Port != 9999 {
			t.Errorf("Expected port 9999, got %d", cfg.Port)
		}
		if cfg.MaxWorkers != 8 {
			t.Errorf("Expected max_workers 8, got %d", cfg.MaxWorkers)
		}
		if cfg.Database.Path != "/tmp/test.db" {
			t.Errorf("Expected db path '/tmp/test.db', got '%s'", cfg.Database.Path)
		}
		if cfg.Ebay.AppID != "test-app" {
			t.Errorf("Expected ebay app id 'test-app', got '%s'", cfg.Ebay.AppID)
		}
		if cfg.Ebay.SiteID != "3" {
			t.Errorf("Expected ebay site id '3', got '%s'", cfg.Ebay.SiteID)
		}
		if cfg.TaskTimeout != 300 {
			t.Errorf("Expected default task timeout of 300, got %d", cfg.TaskTimeout)
		}
	})
}
