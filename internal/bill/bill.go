package bill

// LineItem is one row of a bill
type LineItem struct {
	Desc string  `json:"desc"`
	SKU  string  `json:"sku"`
	Qty  float64 `json:"qty"`
	Unit string  `json:"unit"`
	Rate float64 `json:"rate"`
	Disc float64 `json:"disc"` // Discount percent
	Tax  float64 `json:"tax"`  // Tax percent
}

// Header holds the bill header. Missing fields serialize as null.
type Header struct {
	Vendor    *string `json:"vendor"`
	InvoiceNo *string `json:"invoiceNo"`
	Date      *string `json:"date"`  // YYYY-MM-DD
	Terms     *int    `json:"terms"` // Payment terms in days
	Agent     *string `json:"agent"`
	BillTo    *string `json:"billTo"`
	ShipTo    *string `json:"shipTo"`
}

// Totals are the computed bill totals, each rounded to two decimals
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"`
	Rounding float64 `json:"rounding"`
	Total    float64 `json:"total"`
}

// ParseResult is the response for a parsed upload
type ParseResult struct {
	Header    Header     `json:"header"`
	Items     []LineItem `json:"items"`
	Totals    Totals     `json:"totals"`
	Anomalies []string   `json:"anomalies"`
}
