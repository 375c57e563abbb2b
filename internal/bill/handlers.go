package bill

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/zombor/bills-parser/internal/extraction"
)

// maxUploadSize bounds the multipart body of a parse request
const maxUploadSize = int64(50 << 20)

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeError writes an {"error": message} response
func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{
		"error": message,
	})
}

// contentTypeFor picks the upload's content type, falling back to its extension
func contentTypeFor(filename, declared string) string {
	contentType := strings.ToLower(strings.TrimSpace(declared))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	}
	return "application/octet-stream"
}

// formUpload returns the "file" part of a parsed multipart form.
// A part sent with an empty filename is parsed as a plain value, it is still
// the upload and gets DefaultFilename.
func formUpload(r *http.Request) (string, []byte, string, error) {
	f, header, err := r.FormFile("file")
	if err == nil {
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return "", nil, "", fmt.Errorf("reading file data: %w", err)
		}
		filename := header.Filename
		if filename == "" {
			filename = DefaultFilename
		}
		return filename, data, header.Header.Get("Content-Type"), nil
	}
	if !errors.Is(err, http.ErrMissingFile) {
		return "", nil, "", fmt.Errorf("getting file from form: %w", err)
	}

	if r.MultipartForm != nil {
		if values := r.MultipartForm.Value["file"]; len(values) > 0 {
			return DefaultFilename, []byte(values[0]), "", nil
		}
	}
	return "", nil, "", fmt.Errorf("getting file from form: %w", http.ErrMissingFile)
}

// handleParse accepts a bill upload and returns its parsed contents
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	correlationID := CorrelationIDFromContext(r.Context())
	outcome := OutcomeOK
	defer func() {
		s.metrics.observe(outcome, time.Since(start).Seconds())
	}()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "correlation_id", correlationID, "error", err)
		outcome = OutcomeBadRequest
		message := "Request must be a multipart form with a file field named \"file\"."
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			message = "File is too large. Maximum size is 50MB."
		}
		writeError(w, http.StatusBadRequest, message)
		return
	}

	filename, data, declaredType, err := formUpload(r)
	if err != nil {
		slog.Error("Error getting file from form", "correlation_id", correlationID, "error", err)
		if errors.Is(err, http.ErrMissingFile) {
			outcome = OutcomeMissingFile
			writeError(w, http.StatusUnprocessableEntity, "Field \"file\" is required.")
			return
		}
		outcome = OutcomeReadError
		writeError(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}
	contentType := contentTypeFor(filename, declaredType)

	result, err := s.service.Parse(r.Context(), filename, data, contentType)
	if err != nil {
		slog.Error("Error parsing bill", "correlation_id", correlationID, "filename", filename, "error", err)
		if errors.Is(err, extraction.ErrUnsupportedFormat) {
			outcome = OutcomeUnsupported
			writeError(w, http.StatusUnsupportedMediaType, "Unsupported file. Upload a PDF, JPEG, PNG, GIF or HEIC bill.")
			return
		}
		outcome = OutcomeExtractorError
		writeError(w, http.StatusBadGateway, "Could not extract the bill. Please try again.")
		return
	}

	s.metrics.observeItems(len(result.Items))
	writeJSON(w, http.StatusOK, result)
}

// handleHealth reports that the server is up
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}
