package ebay

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Staninbui/wood/internal/models"
	"github.com/antchfx/xmlquery"
)

const getItemRequestTemplate = `<?xml version="1.0" encoding="utf-8"?>
<GetItemRequest xmlns="urn:ebay:apis:eBLBaseComponents">
    <ItemID>%s</ItemID>
    <IncludeItemSpecifics>true</IncludeItemSpecifics>
    <DetailLevel>ItemReturnAttributes</DetailLevel>
</GetItemRequest>`

// GetItem calls the Trading API for one listing and normalizes the reply.
// Missing scalar fields become empty strings instead of failing the whole
// parse; the Trading API routinely omits fields depending on the listing.
func (c *Client) GetItem(ctx context.Context, itemID, authToken string) (*models.ItemDetails, error) {
	body := fmt.Sprintf(getItemRequestTemplate, itemID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Ebay.TradingAPIURL, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-EBAY-API-COMPATIBILITY-LEVEL", c.cfg.Ebay.CompatibilityLevel)
	req.Header.Set("X-EBAY-API-DEV-NAME", c.cfg.Ebay.AppID)
	req.Header.Set("X-EBAY-API-CERT-NAME", c.cfg.Ebay.CertID)
	req.Header.Set("X-EBAY-API-CALL-NAME", "GetItem")
	req.Header.Set("X-EBAY-API-IAF-TOKEN", authToken)
	req.Header.Set("X-EBAY-API-SITEID", c.cfg.Ebay.SiteID)
	req.Header.Set("Content-Type", "text/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trading api GetItem failed for item %s: %w", itemID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trading api GetItem failed for item %s: unexpected status %d", itemID, resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("trading api GetItem failed for item %s: %w", itemID, err)
	}
	return parseGetItemResponse(payload)
}

// parseGetItemResponse extracts the fields we care about from a GetItem
// reply. Queries match on local element names so the eBay default
// namespace never gets in the way.
func parseGetItemResponse(payload []byte) (*models.ItemDetails, error) {
	doc, err := xmlquery.Parse(strings.NewReader(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("GetItem response parse error: %w", err)
	}

	details := &models.ItemDetails{
		ItemID:        findText(doc, "//ItemID"),
		Title:         findText(doc, "//Title"),
		SKU:           findText(doc, "//SKU"),
		Quantity:      findText(doc, "//Quantity"),
		ItemSpecifics: make(map[string]string),
	}

	if price := xmlquery.FindOne(doc, "//CurrentPrice"); price != nil {
		details.CurrentPrice = price.InnerText()
		details.Currency = price.SelectAttr("currencyID")
	}

	if category := xmlquery.FindOne(doc, "//PrimaryCategory"); category != nil {
		details.CategoryID = findText(category, "CategoryID")
		details.CategoryName = findText(category, "CategoryName")
	}

	// Duplicate specific names resolve last-write-wins.
	for _, nvl := range xmlquery.Find(doc, "//ItemSpecifics/NameValueList") {
		name := xmlquery.FindOne(nvl, "Name")
		value := xmlquery.FindOne(nvl, "Value")
		if name != nil && value != nil {
			details.ItemSpecifics[name.InnerText()] = value.InnerText()
		}
	}

	return details, nil
}

func findText(node *xmlquery.Node, expr string) string {
	if n := xmlquery.FindOne(node, expr); n != nil {
		return n.InnerText()
	}
	return ""
}
