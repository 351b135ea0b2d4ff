// Shared test server setup utilities, which simplify all API tests.

package testutil

import (
	"database/sql"
	"testing"

	"github.com/Staninbui/wood/internal/api"
	"github.com/Staninbui/wood/internal/config"
	"github.com/Staninbui/wood/internal/core"
)

// SetupTestApp builds a fully wired core.App backed by an in-memory
// database and a throwaway temp directory.
func SetupTestApp(t *testing.T) *core.App {
	t.Helper()
	db := SetupTestDB(t)

	cfg := &config.Config{
		TempDir:     t.TempDir(),
		MaxWorkers:  2,
		TaskTimeout: 10,
		ProgressTTL: 60,
	}
	cfg.Ebay.AcceptedCurrency = "USD"

	app, err := core.NewFromParts(cfg, db, "test")
	if err != nil {
		t.Fatalf("Failed to build test app: %v", err)
	}
	go app.WsHub().Run()
	return app
}

// SetupTestServer initializes a full core.App and api.Server for integration testing.
func SetupTestServer(t *testing.T) (*api.Server, *sql.DB) {
	t.Helper()
	app := SetupTestApp(t)
	server := api.NewServer(app)
	return server, app.DB()
}
