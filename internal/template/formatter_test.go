package template

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Staninbui/wood/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleItems() []*models.ItemDetails {
	return []*models.ItemDetails{
		{
			ItemID:       "1001",
			Title:        "Vintage Camera",
			SKU:          "CAM-01",
			CurrentPrice: "49.99",
			Currency:     "USD",
			Quantity:     "3",
			CategoryName: "Cameras",
			ItemSpecifics: map[string]string{
				"Brand": "Canon",
				"Color": "Black",
			},
		},
		{
			ItemID:       "1002",
			Title:        "Record Player",
			SKU:          "REC-07",
			CurrentPrice: "120.00",
			Currency:     "USD",
			Quantity:     "1",
			CategoryName: "Audio",
			ItemSpecifics: map[string]string{
				"Brand":    "Technics",
				"Material": "Aluminum",
			},
		},
	}
}

func TestBuildSparseSpecificColumns(t *testing.T) {
	table, err := Build(sampleItems())
	require.NoError(t, err)

	assert.Equal(t, append([]string{
		"Action", "Category name", "Item number", "Title", "Listing site",
		"Currency", "Start price", "Buy It Now price", "Available quantity",
		"Relationship", "Relationship details", "Custom label (SKU)",
	}, "C:Brand", "C:Color", "C:Material"), table.Header)

	require.Len(t, table.Rows, 2)
	for _, row := range table.Rows {
		assert.Len(t, row, len(table.Header))
	}

	// Each item fills only its own specifics.
	assert.Equal(t, []string{"Canon", "Black", ""}, table.Rows[0][12:])
	assert.Equal(t, []string{"Technics", "", "Aluminum"}, table.Rows[1][12:])
	assert.Equal(t, "Revise", table.Rows[0][0])
	assert.Equal(t, "US", table.Rows[0][4])
}

func TestBuildDisjointSpecifics(t *testing.T) {
	items := []*models.ItemDetails{
		{ItemID: "1", ItemSpecifics: map[string]string{"Size": "L"}},
		{ItemID: "2", ItemSpecifics: map[string]string{"Weight": "2kg"}},
	}

	table, err := Build(items)
	require.NoError(t, err)
	assert.Equal(t, []string{"C:Size", "C:Weight"}, table.Header[12:])
	assert.Equal(t, []string{"L", ""}, table.Rows[0][12:])
	assert.Equal(t, []string{"", "2kg"}, table.Rows[1][12:])
}

func TestBuildDefaultsCurrency(t *testing.T) {
	table, err := Build([]*models.ItemDetails{{ItemID: "1"}})
	require.NoError(t, err)
	assert.Equal(t, "USD", table.Rows[0][5])
}

func TestBuildNoData(t *testing.T) {
	_, err := Build(nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestWriteCSVFormat(t *testing.T) {
	table, err := Build(sampleItems())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}), "output must start with a UTF-8 BOM")

	lines := strings.Split(strings.TrimRight(string(out[3:]), "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "#INFO,Version=1.0.0,Template= eBay-active-revise-price-quantity-download_US", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Action,Category name,"))
	assert.Contains(t, lines[2], "Vintage Camera")
	assert.Contains(t, lines[3], "Record Player")
}

func TestWriteXLSX(t *testing.T) {
	table, err := Build(sampleItems())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, table.WriteXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("eBay Listings")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Action", rows[0][0])
	assert.Equal(t, "1001", rows[1][2])
	assert.Equal(t, "Record Player", rows[2][3])
}
