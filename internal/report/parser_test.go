package report

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

const reportWithSKUs = `<?xml version="1.0" encoding="UTF-8"?>
<ActiveInventoryReport xmlns="urn:ebay:apis:eBLBaseComponents">
  <SKUDetails>
    <SKU>A-1</SKU>
    <ItemID>1001</ItemID>
  </SKUDetails>
  <SKUDetails>
    <SKU>A-2</SKU>
    <ItemID>1001</ItemID>
  </SKUDetails>
  <SKUDetails>
    <SKU>B-1</SKU>
    <ItemID>1002</ItemID>
  </SKUDetails>
</ActiveInventoryReport>`

const reportWithoutSKUs = `<?xml version="1.0" encoding="UTF-8"?>
<ActiveInventoryReport xmlns="urn:ebay:apis:eBLBaseComponents">
  <InventoryStatus><ItemID>2001</ItemID></InventoryStatus>
  <InventoryStatus><ItemID>2002</ItemID></InventoryStatus>
  <InventoryStatus><ItemID>2001</ItemID></InventoryStatus>
</ActiveInventoryReport>`

func TestExtractItemIDsDeduplicates(t *testing.T) {
	archive := buildZip(t, map[string]string{"report.xml": reportWithSKUs})

	ids, err := ExtractItemIDs(context.Background(), archive)
	require.NoError(t, err)
	assert.Equal(t, []string{"1001", "1002"}, ids)
}

func TestExtractItemIDsFallsBackWithoutSKUDetails(t *testing.T) {
	archive := buildZip(t, map[string]string{"report.xml": reportWithoutSKUs})

	ids, err := ExtractItemIDs(context.Background(), archive)
	require.NoError(t, err)
	assert.Equal(t, []string{"2001", "2002"}, ids)
}

func TestExtractItemIDsSkipsNonXMLEntries(t *testing.T) {
	archive := buildZip(t, map[string]string{
		"readme.txt": "not a report",
		"report.xml": reportWithSKUs,
	})

	ids, err := ExtractItemIDs(context.Background(), archive)
	require.NoError(t, err)
	assert.Equal(t, []string{"1001", "1002"}, ids)
}

func TestExtractItemIDsNoXMLEntry(t *testing.T) {
	archive := buildZip(t, map[string]string{"readme.txt": "nothing here"})

	_, err := ExtractItemIDs(context.Background(), archive)
	assert.ErrorIs(t, err, ErrNoDocumentFound)
}

func TestExtractItemIDsEmptyDocument(t *testing.T) {
	archive := buildZip(t, map[string]string{
		"report.xml": `<?xml version="1.0"?><ActiveInventoryReport/>`,
	})

	ids, err := ExtractItemIDs(context.Background(), archive)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestExtractItemIDsMalformedDocument(t *testing.T) {
	archive := buildZip(t, map[string]string{
		"report.xml": `<ActiveInventoryReport><ItemID>1</ActiveInventoryReport>`,
	})

	_, err := ExtractItemIDs(context.Background(), archive)
	assert.ErrorIs(t, err, ErrParse)
}

func TestExtractItemIDsCorruptArchive(t *testing.T) {
	_, err := ExtractItemIDs(context.Background(), []byte("definitely not a zip"))
	assert.Error(t, err)
}
