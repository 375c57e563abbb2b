package extraction

import "context"

// Header contains the bill header fields an extractor found.
// A nil field means the extractor could not find it.
type Header struct {
	Vendor    *string `json:"vendor"`
	InvoiceNo *string `json:"invoiceNo"`
	Date      *string `json:"date"` // YYYY-MM-DD
	Terms     *int    `json:"terms"`
	Agent     *string `json:"agent"`
	BillTo    *string `json:"billTo"`
	ShipTo    *string `json:"shipTo"`
}

// Item is a single line of a bill as read by an extractor
type Item struct {
	Desc string  `json:"desc"`
	SKU  string  `json:"sku"`
	Qty  float64 `json:"qty"`
	Unit string  `json:"unit"`
	Rate float64 `json:"rate"`
	Disc float64 `json:"disc"`
	Tax  float64 `json:"tax"`
}

// Document is everything an extractor produced for one upload
type Document struct {
	Header Header `json:"header"`
	Items  []Item `json:"items"`
}

// Extractor turns an uploaded file into a Document
type Extractor interface {
	// Extract reads the header and line items of an uploaded bill
	Extract(ctx context.Context, filename string, data []byte, contentType string) (*Document, error)
	// Close releases any resources held by the extractor
	Close() error
}
