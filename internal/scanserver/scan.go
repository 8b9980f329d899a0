package scanserver

import (
	"time"

	"github.com/zombor/invoice-capture/internal/invoice"
	"github.com/zombor/invoice-capture/internal/onec"
)

// ScanResponse is the body of a successful /api/scan answer
type ScanResponse struct {
	SupplierINN string           `json:"SupplierINN"`
	DocNumber   string           `json:"DocNumber"`
	DocDate     string           `json:"DocDate"`
	TotalSum    any              `json:"TotalSum,omitempty"`
	Items       []map[string]any `json:"Items"`
	// Preview is the rendered first page of a PDF upload
	Preview string `json:"preview,omitempty"`
}

// Scan is a cached extraction, keyed by the SHA-256 of the upload
type Scan struct {
	ID          string       `json:"id"`
	Hash        string       `json:"hash"`
	Filename    string       `json:"filename"`
	ContentType string       `json:"content_type"`
	Response    ScanResponse `json:"response"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Submission is one document forwarded to 1C
type Submission struct {
	ID        string          `json:"id"`
	Payload   invoice.Payload `json:"payload"`
	Result    onec.Result     `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}
