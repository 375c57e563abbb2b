package bill

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zombor/bills-parser/internal/extraction"
)

// DefaultFilename names uploads that arrive without a filename
const DefaultFilename = "upload.pdf"

// Service turns uploaded bills into parse results
type Service struct {
	extractor extraction.Extractor
}

// NewService creates a new Service backed by the given extractor
func NewService(extractor extraction.Extractor) *Service {
	return &Service{
		extractor: extractor,
	}
}

// Parse extracts the header and items of an upload and computes its totals
func (s *Service) Parse(ctx context.Context, filename string, data []byte, contentType string) (*ParseResult, error) {
	if filename == "" {
		filename = DefaultFilename
	}

	correlationID := CorrelationIDFromContext(ctx)

	doc, err := s.extractor.Extract(ctx, filename, data, contentType)
	if err != nil {
		slog.Error("Failed to extract bill",
			"correlation_id", correlationID,
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, fmt.Errorf("extracting bill: %w", err)
	}

	items := make([]LineItem, 0, len(doc.Items))
	for _, it := range doc.Items {
		items = append(items, LineItem{
			Desc: it.Desc,
			SKU:  it.SKU,
			Qty:  it.Qty,
			Unit: it.Unit,
			Rate: it.Rate,
			Disc: it.Disc,
			Tax:  it.Tax,
		})
	}

	result := &ParseResult{
		Header: Header{
			Vendor:    doc.Header.Vendor,
			InvoiceNo: doc.Header.InvoiceNo,
			Date:      doc.Header.Date,
			Terms:     doc.Header.Terms,
			Agent:     doc.Header.Agent,
			BillTo:    doc.Header.BillTo,
			ShipTo:    doc.Header.ShipTo,
		},
		Items:     items,
		Totals:    ComputeTotals(items),
		Anomalies: []string{},
	}

	slog.Info("Parsed bill",
		"correlation_id", correlationID,
		"filename", filename,
		"items", len(result.Items),
		"total", result.Totals.Total,
	)

	return result, nil
}
