package scanning

import (
	"context"
)

// InvoiceData contains the fields extracted from an invoice. Items are kept
// as loose objects: models name the item keys inconsistently and clients
// normalize them.
type InvoiceData struct {
	SupplierINN string           `json:"SupplierINN"`
	DocNumber   string           `json:"DocNumber"`
	DocDate     string           `json:"DocDate"`
	TotalSum    any              `json:"TotalSum,omitempty"`
	Items       []map[string]any `json:"Items"`
}

// Scanner defines the interface for invoice scanning operations
type Scanner interface {
	// ScanInvoice analyzes an invoice image/PDF and extracts its line items
	ScanInvoice(ctx context.Context, imageData []byte, contentType string) (*InvoiceData, error)
	// Close closes the scanner and releases resources
	Close() error
}

// invoiceScanPrompt is the shared prompt used by all LLM providers
const invoiceScanPrompt = `Analyze the image of the document (waybill, UPD, TORG-12, invoice for payment or receipt). The document is usually in Russian.
Extract the data as strict JSON. Keep the key case exactly as shown (PascalCase).

IMPORTANT ABOUT NUMBERS: in Russian documents a comma (for example "1,000" or "5,5") is the decimal separator.
Convert such numbers to JSON numbers with a dot (for example 1.0 or 5.5).
Do not confuse it with a thousands separator: "1,000" in the quantity column is the number 1 (one), not 1000.

Structure:
{
  "SupplierINN": "seller tax ID (INN), digits only",
  "DocNumber": "document number",
  "DocDate": "date (DD.MM.YYYY)",
  "TotalSum": number (float),
  "Items": [
    {
      "ItemName": "item name",
      "ItemArticle": "article or an empty string",
      "Quantity": number (float),
      "Price": number (float),
      "Total": number (float)
    }
  ]
}

Important:
- If you cannot find a field, use an empty string for text fields
- Do not include any text before or after the JSON
- Do not use markdown code blocks`
