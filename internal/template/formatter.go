// Package template renders enriched item details into the eBay File
// Exchange revise template, as CSV or as an XLSX workbook.
package template

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/Staninbui/wood/internal/models"
	"github.com/xuri/excelize/v2"
)

// ErrNoData is returned when there are no items to render.
var ErrNoData = errors.New("template: no item data to render")

const infoPreamble = "#INFO,Version=1.0.0,Template= eBay-active-revise-price-quantity-download_US"

// utf8BOM marks the file so Excel decodes it as UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var fixedColumns = []string{
	"Action",
	"Category name",
	"Item number",
	"Title",
	"Listing site",
	"Currency",
	"Start price",
	"Buy It Now price",
	"Available quantity",
	"Relationship",
	"Relationship details",
	"Custom label (SKU)",
}

// Table is a rendered template: one header row plus one data row per
// item, all rows the same width.
type Table struct {
	Header []string
	Rows   [][]string
}

// Build lays the items out on the File Exchange grid. Item specifics
// become sparse "C:<name>" columns; the header carries the sorted union
// of every specific name seen, and items without a given specific leave
// that cell empty.
func Build(items []*models.ItemDetails) (*Table, error) {
	if len(items) == 0 {
		return nil, ErrNoData
	}

	specificSet := make(map[string]struct{})
	for _, item := range items {
		for name := range item.ItemSpecifics {
			specificSet[name] = struct{}{}
		}
	}
	specificNames := make([]string, 0, len(specificSet))
	for name := range specificSet {
		specificNames = append(specificNames, name)
	}
	sort.Strings(specificNames)

	header := make([]string, 0, len(fixedColumns)+len(specificNames))
	header = append(header, fixedColumns...)
	for _, name := range specificNames {
		header = append(header, "C:"+name)
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		currency := item.Currency
		if currency == "" {
			currency = "USD"
		}
		row := []string{
			"Revise",
			item.CategoryName,
			item.ItemID,
			item.Title,
			"US",
			currency,
			item.CurrentPrice,
			"", // Buy It Now price
			item.Quantity,
			"", // Relationship
			"", // Relationship details
			item.SKU,
		}
		for _, name := range specificNames {
			row = append(row, item.ItemSpecifics[name])
		}
		rows = append(rows, row)
	}

	return &Table{Header: header, Rows: rows}, nil
}

// WriteCSV emits the table in File Exchange upload form: a UTF-8 BOM,
// the #INFO preamble line, then the header and data rows.
func (t *Table) WriteCSV(w io.Writer) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, infoPreamble); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX emits the table as a single-sheet workbook with column
// widths fitted to the content.
func (t *Table) WriteXLSX(w io.Writer) error {
	const sheet = "eBay Listings"

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	widths := make([]int, len(t.Header))
	writeRow := func(rowNum int, cells []string) error {
		for col, value := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheet, cell, value); err != nil {
				return err
			}
			if len(value) > widths[col] {
				widths[col] = len(value)
			}
		}
		return nil
	}

	if err := writeRow(1, t.Header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := writeRow(i+2, row); err != nil {
			return err
		}
	}

	for col, width := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		fitted := width + 2
		if fitted > 50 {
			fitted = 50
		}
		if err := f.SetColWidth(sheet, name, name, float64(fitted)); err != nil {
			return err
		}
	}

	return f.Write(w)
}
