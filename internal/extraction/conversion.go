package extraction

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// ErrUnsupportedFormat is returned when an upload cannot be turned into an
// image for a vision model
var ErrUnsupportedFormat = errors.New("unsupported file format, expected PDF, JPEG, PNG, GIF or HEIC")

// billExtractionPrompt is shared by all LLM extractors
const billExtractionPrompt = `You are reading a supplier invoice or bill. Read every line of text in the image and extract the header and the line items.

Header fields:
- vendor: the supplier or company issuing the bill
- invoiceNo: the invoice or bill number
- date: the invoice date in YYYY-MM-DD format
- terms: payment terms in days as an integer (for example 30 for "30 DAYS")
- agent: the sales agent or salesperson, if printed
- billTo: the customer the bill is addressed to
- shipTo: the delivery address name

Each line item:
- desc: item description
- sku: item code or SKU
- qty: quantity as a number
- unit: unit of measure (PC, SET, BOX, ...)
- rate: unit price as a number
- disc: discount percent for the line as a number, 0 if none
- tax: tax percent for the line as a number, 0 if none

Return ONLY valid JSON in this exact format:
{
  "header": {"vendor": "", "invoiceNo": "", "date": "YYYY-MM-DD", "terms": 0, "agent": "", "billTo": "", "shipTo": ""},
  "items": [{"desc": "", "sku": "", "qty": 0, "unit": "", "rate": 0, "disc": 0, "tax": 0}]
}

Important:
- Numbers must be JSON numbers, not strings
- Do not compute totals, only copy the printed line values
- If you cannot find a header field, use null for that field
- Do not include any text before or after the JSON
- Do not use markdown code blocks`

// pdfToImage renders the first page of a PDF as PNG
func pdfToImage(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("%w: opening PDF: %w", ErrUnsupportedFormat, err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("%w: PDF has no pages", ErrUnsupportedFormat)
	}

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("%w: rendering PDF page: %w", ErrUnsupportedFormat, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}

	return buf.Bytes(), nil
}

// imageToPNG converts any supported image format to PNG
func imageToPNG(imageData []byte, mimeType string) ([]byte, error) {
	var img image.Image
	var err error

	if isHEICFormat(imageData) || isHEICMimeType(mimeType) {
		img, err = heic.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("%w: decoding HEIC/HEIF image: %w", ErrUnsupportedFormat, err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("%w: decoding image: %w", ErrUnsupportedFormat, err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}

	return buf.Bytes(), nil
}

// isHEICFormat checks for an ftyp box with a HEIC/HEIF brand
func isHEICFormat(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}

func isHEICMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

// toPNG prepares an upload for a vision model. PDFs are rendered, other
// images are re-encoded, PNGs pass through untouched.
func toPNG(data []byte, contentType string) ([]byte, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	switch {
	case mimeType == "application/pdf":
		pngData, err := pdfToImage(data)
		if err != nil {
			return nil, fmt.Errorf("converting PDF to image: %w", err)
		}
		return pngData, nil
	case mimeType != "image/png" || isHEICFormat(data):
		pngData, err := imageToPNG(data, mimeType)
		if err != nil {
			return nil, fmt.Errorf("converting image to PNG: %w", err)
		}
		return pngData, nil
	}
	return data, nil
}

// trimCodeFence removes a markdown fence around an LLM answer
func trimCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
