package invoice

import (
	"encoding/json"
	"fmt"
)

// Status is the review state of a captured document
type Status string

const (
	StatusReady Status = "ready"
	StatusSent  Status = "sent"
	StatusError Status = "error"
)

// Icon returns the marker shown next to a document in the documents list
func (s Status) Icon() string {
	switch s {
	case StatusSent:
		return "✅"
	case StatusError:
		return "❌"
	default:
		return "📄"
	}
}

// LineItem is one row of an invoice. The row total is never stored, it is
// always derived from quantity and unit price.
type LineItem struct {
	Article   string  `json:"ItemArticle"`
	Name      string  `json:"ItemName"`
	Quantity  float64 `json:"Quantity"`
	UnitPrice float64 `json:"Price"`
}

// Total returns quantity × unit price
func (i LineItem) Total() float64 {
	return i.Quantity * i.UnitPrice
}

// FormatTotal renders the derived total with two decimals, as shown in the grid
func (i LineItem) FormatTotal() string {
	return fmt.Sprintf("%.2f", i.Total())
}

// MarshalJSON emits the derived Total next to the stored fields.
// Decoding ignores any incoming Total.
func (i LineItem) MarshalJSON() ([]byte, error) {
	type plain LineItem
	return json.Marshal(struct {
		plain
		Total float64 `json:"Total"`
	}{
		plain: plain(i),
		Total: i.Total(),
	})
}

// NewLineItem returns the row inserted by "add item"
func NewLineItem() LineItem {
	return LineItem{Quantity: 1}
}

// Record is the structured content extracted from one document
type Record struct {
	SupplierTaxID  string
	DocumentNumber string
	DocumentDate   string
	TotalAmount    Amount
	Items          []LineItem
}

// Document is one captured page or photo together with its extracted record
type Document struct {
	ID       string
	FileName string
	// Preview is a data URL usable directly as an image source
	Preview string
	Record  Record
	Status  Status
}

// DisplayName returns the file name, or a positional fallback when the
// source had none
func (d *Document) DisplayName(index int) string {
	if d.FileName != "" {
		return d.FileName
	}
	return fmt.Sprintf("Document %d", index+1)
}

// CloneItems returns a copy of items so the grid and the record never share
// a backing array
func CloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
