package models

// InventoryTask mirrors one Feed API inventory_task resource.
type InventoryTask struct {
	TaskID         string `json:"task_id"`
	Status         string `json:"status"` // CREATED, IN_PROGRESS, COMPLETED, FAILED
	CreationDate   string `json:"creation_date,omitempty"`
	CompletionDate string `json:"completion_date,omitempty"`
	FeedType       string `json:"feed_type,omitempty"`
	SchemaVersion  string `json:"schema_version,omitempty"`
	Location       string `json:"location,omitempty"`
}

// ItemDetails is the normalized result of one Trading API GetItem call.
// Scalar fields default to the empty string when the response omits them;
// ItemSpecifics collects the NameValueList pairs, last write wins on
// duplicate names. Immutable once produced.
type ItemDetails struct {
	ItemID        string            `json:"item_id"`
	Title         string            `json:"title"`
	SKU           string            `json:"sku"`
	CurrentPrice  string            `json:"current_price"`
	Currency      string            `json:"currency"`
	Quantity      string            `json:"quantity"`
	CategoryID    string            `json:"category_id"`
	CategoryName  string            `json:"category_name"`
	ItemSpecifics map[string]string `json:"item_specifics"`
}
