// HTTP clients for the three eBay surfaces this service talks to: the
// OAuth2 identity endpoints, the Feed API (inventory report tasks) and
// the legacy Trading API (per-item detail). Certificate verification is
// left at the Go default; never disable it.

package ebay

import (
	"net/http"
	"time"

	"github.com/Staninbui/wood/internal/config"
)

const (
	feedType      = "LMS_ACTIVE_INVENTORY_REPORT"
	schemaVersion = "1.0"

	// Per-call ceiling for any single eBay request. Individual GetItem
	// calls hitting this limit fail that item only, never the batch.
	requestTimeout = 30 * time.Second
)

// Client talks to the eBay APIs configured in config.yml.
type Client struct {
	http *http.Client
	cfg  *config.Config
}

// New creates a Client using the endpoints and credentials from cfg.
func New(cfg *config.Config) *Client {
	return &Client{
		http: &http.Client{Timeout: requestTimeout},
		cfg:  cfg,
	}
}
