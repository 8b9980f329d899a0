package scanserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/invoice-capture/internal/imaging"
	"github.com/zombor/invoice-capture/internal/invoice"
	"github.com/zombor/invoice-capture/internal/onec"
	"github.com/zombor/invoice-capture/internal/scanning"
)

// IDGenerator generates unique IDs for scans and submissions
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// Forwarder hands a document to the accounting system
type Forwarder interface {
	Send(ctx context.Context, payload any) onec.Result
}

// uuidGenerator generates time-ordered UUIDv7 ids
type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service scans uploads and forwards reviewed documents
type Service struct {
	db          DB
	scanner     scanning.Scanner
	storage     Storage
	forwarder   Forwarder
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with UUIDv7 ids and the wall clock
func NewService(db DB, scanner scanning.Scanner, storage Storage, forwarder Forwarder) *Service {
	return NewServiceWithDeps(db, scanner, storage, forwarder, &uuidGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner scanning.Scanner, storage Storage, forwarder Forwarder, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		forwarder:   forwarder,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}\s\-_]`)
	spaceRuns   = regexp.MustCompile(`\s+`)
)

// sanitizeFilename drops special characters and truncates long phone
// generated names. Letters of any script are kept.
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	base = unsafeChars.ReplaceAllString(base, "")
	base = spaceRuns.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	if r := []rune(base); len(r) > 50 {
		base = string(r[:50])
	}
	if base == "" {
		base = "invoice"
	}
	return base + ext
}

// contentHash identifies an upload for the scan cache
func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Scan extracts an invoice from an upload. Identical uploads are answered
// from the cache without calling the model again.
func (s *Service) Scan(ctx context.Context, filename string, data []byte, contentType string) (*ScanResponse, error) {
	hash := contentHash(data)

	cached, err := s.db.GetScan(hash)
	switch {
	case err == nil:
		slog.Info("Scan cache hit", "filename", filename, "hash", hash, "scan_id", cached.ID)
		return &cached.Response, nil
	case !errors.Is(err, ErrNotFound):
		slog.Warn("Reading scan cache failed", "hash", hash, "error", err)
	}

	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	invoiceData, err := s.scanner.ScanInvoice(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to scan invoice",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		if delErr := s.storage.Delete(savedPath); delErr != nil {
			slog.Warn("Failed to delete file", "filename", savedPath, "error", delErr)
		}
		return nil, fmt.Errorf("scanning invoice: %w", err)
	}

	response := ScanResponse{
		SupplierINN: invoiceData.SupplierINN,
		DocNumber:   invoiceData.DocNumber,
		DocDate:     invoiceData.DocDate,
		TotalSum:    invoiceData.TotalSum,
		Items:       invoiceData.Items,
	}
	if response.Items == nil {
		response.Items = []map[string]any{}
	}

	if imaging.NormalizeMime(contentType) == imaging.MimePDF {
		preview, err := imaging.PDFPreview(data)
		if err != nil {
			slog.Warn("Failed to render PDF preview", "filename", filename, "error", err)
		} else {
			response.Preview = preview
		}
	}

	// Empty results are not cached so a retry asks the model again
	if len(response.Items) > 0 {
		scan := &Scan{
			ID:          id,
			Hash:        hash,
			Filename:    savedPath,
			ContentType: contentType,
			Response:    response,
			CreatedAt:   now,
		}
		if err := s.db.SaveScan(scan); err != nil {
			slog.Warn("Failed to cache scan", "scan_id", id, "error", err)
		}
	}

	slog.Info("Invoice scanned", "filename", filename, "scan_id", id, "items", len(response.Items))
	return &response, nil
}

// Submit forwards a reviewed document to 1C and journals the outcome
func (s *Service) Submit(ctx context.Context, payload invoice.Payload) (*Submission, error) {
	result := s.forwarder.Send(ctx, payload)

	submission := &Submission{
		ID:        s.idGenerator.Generate(),
		Payload:   payload,
		Result:    result,
		CreatedAt: s.timeSource.Now(),
	}

	slog.Info("Document forwarded",
		"submission_id", submission.ID,
		"supplier_inn", payload.SupplierINN,
		"doc_number", payload.DocNumber,
		"success", result.Success,
	)

	if err := s.db.SaveSubmission(submission); err != nil {
		return submission, fmt.Errorf("saving submission: %w", err)
	}
	return submission, nil
}

// ListSubmissions returns the submission journal
func (s *Service) ListSubmissions() ([]*Submission, error) {
	submissions, err := s.db.ListSubmissions()
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	return submissions, nil
}
