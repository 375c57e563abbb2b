package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// alternative date layouts LLMs tend to answer with
var dateLayouts = []string{
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"January 2, 2006",
}

// parseDocumentJSON parses the JSON answer of an LLM extractor
func parseDocumentJSON(text string) (*Document, error) {
	text = trimCodeFence(text)

	// Find the JSON object boundaries - look for first { and last }
	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}

	text = text[startIdx : endIdx+1]

	var doc Document
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	h := &doc.Header
	h.Vendor = cleanString(h.Vendor)
	h.InvoiceNo = cleanString(h.InvoiceNo)
	h.Agent = cleanString(h.Agent)
	h.BillTo = cleanString(h.BillTo)
	h.ShipTo = cleanString(h.ShipTo)
	h.Date = normalizeDate(h.Date)
	if h.Terms != nil && *h.Terms < 0 {
		h.Terms = nil
	}

	for i := range doc.Items {
		item := &doc.Items[i]
		item.Desc = strings.TrimSpace(item.Desc)
		item.SKU = strings.TrimSpace(item.SKU)
		item.Unit = strings.ToUpper(strings.TrimSpace(item.Unit))
		if item.Unit == "" {
			item.Unit = "PC"
		}
	}
	if doc.Items == nil {
		doc.Items = []Item{}
	}

	return &doc, nil
}

// cleanString trims s and turns blank values into nil
func cleanString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// normalizeDate rewrites a date into YYYY-MM-DD, or drops it if unreadable
func normalizeDate(date *string) *string {
	date = cleanString(date)
	if date == nil {
		return nil
	}
	if d, err := time.Parse(dateLayout, *date); err == nil {
		return ptr(d.Format(dateLayout))
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, *date); err == nil {
			return ptr(d.Format(dateLayout))
		}
	}
	return nil
}
