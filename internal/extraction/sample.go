package extraction

import (
	"context"
	"log/slog"
	"time"
)

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Sample is a stand-in extractor. It never looks at the uploaded bytes and
// always answers with the same demo bill, dated today in UTC.
type Sample struct {
	clock Clock
}

// NewSample creates a Sample extractor that uses the system clock
func NewSample() *Sample {
	return NewSampleWithClock(systemClock{})
}

// NewSampleWithClock creates a Sample extractor with a custom clock for testing
func NewSampleWithClock(clock Clock) *Sample {
	return &Sample{clock: clock}
}

// SampleItems returns the fixed demo line items. Each call returns a new slice.
func SampleItems() []Item {
	return []Item{
		{Desc: "BLOCK SCREW A - EX5CLASS", SKU: "D0054", Qty: 20, Unit: "PC", Rate: 4.5},
		{Desc: "METER ASSY TCB - Y15ZR V2 (2PV)", SKU: "3F0236", Qty: 2, Unit: "SET", Rate: 175},
		{Desc: "CLIP PANEL - WAVE", SKU: "W0088", Qty: 10, Unit: "PC", Rate: 1.8},
		{Desc: "HOSE BREATHER - EX5", SKU: "H0136", Qty: 12, Unit: "PC", Rate: 3.2},
	}
}

// SampleHeader returns the fixed demo header with the given date
func SampleHeader(date string) Header {
	return Header{
		Vendor:    ptr("SUPPLIER SDN BHD"),
		InvoiceNo: ptr("I-DEMO-0001"),
		Date:      ptr(date),
		Terms:     ptr(30),
		Agent:     ptr("AUTO"),
		BillTo:    ptr("UCON MOTORSPORT"),
		ShipTo:    ptr("UCON MOTORSPORT"),
	}
}

// Extract returns the demo bill
func (s *Sample) Extract(ctx context.Context, filename string, data []byte, contentType string) (*Document, error) {
	slog.Debug("Returning sample document", "filename", filename, "content_type", contentType, "file_size", len(data))

	today := s.clock.Now().UTC().Format(dateLayout)
	return &Document{
		Header: SampleHeader(today),
		Items:  SampleItems(),
	}, nil
}

// Close is a no-op
func (s *Sample) Close() error {
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
