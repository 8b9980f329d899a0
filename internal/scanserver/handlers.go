package scanserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/zombor/invoice-capture/internal/imaging"
	"github.com/zombor/invoice-capture/internal/invoice"
	"github.com/zombor/invoice-capture/internal/onec"
)

const (
	// maxUploadSize leaves room for the multipart envelope around a 10MB file
	maxUploadSize = 11 << 20
	maxSubmitSize = 1 << 20
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// scanError is the body the capture client reads as a service error
func scanError(message string) map[string]any {
	return map[string]any{
		"error": message,
		"Items": []any{},
	}
}

// handleScan extracts an invoice from the uploaded "file" part
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		message := "Error parsing form"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			message = "File is too large. Maximum size is 10MB."
			writeJSON(w, http.StatusRequestEntityTooLarge, scanError(message))
			return
		}
		writeJSON(w, http.StatusBadRequest, scanError(message))
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeJSON(w, http.StatusBadRequest, scanError("No file provided"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeJSON(w, http.StatusInternalServerError, scanError("Error reading file. Please try again."))
		return
	}

	contentType := imaging.NormalizeMime(header.Header.Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = imaging.ContentType(header.Filename, data)
	}

	response, err := s.service.Scan(r.Context(), header.Filename, data, contentType)
	if err != nil {
		// Scanner failures are answered with 200 so clients can tell them
		// apart from transport problems
		writeJSON(w, http.StatusOK, scanError(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// handleSubmit receives the message the capture client hands to its host
// and forwards it to 1C
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload invoice.Payload
	if err := json.NewDecoder(io.LimitReader(r.Body, maxSubmitSize)).Decode(&payload); err != nil {
		slog.Error("Error decoding submission", "error", err)
		writeJSON(w, http.StatusBadRequest, onec.Result{Error: "Invalid JSON"})
		return
	}

	submission, err := s.service.Submit(r.Context(), payload)
	if err != nil {
		slog.Error("Error journaling submission", "error", err)
	}

	writeJSON(w, http.StatusOK, submission.Result)
}

// handleListSubmissions returns the submission journal
func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	submissions, err := s.service.ListSubmissions()
	if err != nil {
		slog.Error("Error listing submissions", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, submissions)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
