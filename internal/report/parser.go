// Package report extracts listing item IDs from the ZIP archive the
// Feed API produces for an active inventory report.
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/mholt/archives"
)

var (
	// ErrNoDocumentFound means the archive held no XML report entry.
	ErrNoDocumentFound = errors.New("report: no xml document in archive")

	// ErrParse wraps XML syntax errors in the report entry.
	ErrParse = errors.New("report: malformed document")
)

// ExtractItemIDs unpacks the report archive, locates the first XML
// entry and returns the unique item IDs in document order. A well
// formed report with no listings yields an empty slice, not an error.
//
// Multi-variation listings repeat their parent ItemID once per SKU, so
// IDs are read from SKUDetails first and deduplicated. Reports without
// SKUDetails blocks fall back to scanning every ItemID element.
func ExtractItemIDs(ctx context.Context, archive []byte) ([]string, error) {
	doc, err := findReportDocument(ctx, archive)
	if err != nil {
		return nil, err
	}

	nodes := xmlquery.Find(doc, "//SKUDetails/ItemID")
	if len(nodes) == 0 {
		nodes = xmlquery.Find(doc, "//ItemID")
	}

	seen := make(map[string]struct{}, len(nodes))
	ids := make([]string, 0, len(nodes))
	for _, node := range nodes {
		id := strings.TrimSpace(node.InnerText())
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func findReportDocument(ctx context.Context, archive []byte) (*xmlquery.Node, error) {
	var doc *xmlquery.Node

	err := archives.Zip{}.Extract(ctx, bytes.NewReader(archive), func(ctx context.Context, f archives.FileInfo) error {
		if doc != nil || f.IsDir() || !strings.HasSuffix(strings.ToLower(f.NameInArchive), ".xml") {
			return nil
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("report: open %s: %w", f.NameInArchive, err)
		}
		defer rc.Close()

		parsed, err := parseDocument(rc)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrParse, f.NameInArchive, err)
		}
		doc = parsed
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("report: extract archive: %w", err)
	}
	if doc == nil {
		return nil, ErrNoDocumentFound
	}
	return doc, nil
}

func parseDocument(r io.Reader) (*xmlquery.Node, error) {
	return xmlquery.Parse(r)
}
