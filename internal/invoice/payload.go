package invoice

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Payload is the message handed to the host for the accounting integration
type Payload struct {
	SupplierINN    string     `json:"SupplierINN"`
	DocNumber      string     `json:"DocNumber"`
	DocDate        string     `json:"DocDate"`
	TotalSum       Amount     `json:"TotalSum"`
	Items          []LineItem `json:"Items"`
	DocumentIndex  int        `json:"documentIndex"`
	TotalDocuments int        `json:"totalDocuments"`
}

// NewPayload builds the outbound message for the document at index in a
// queue of total documents
func NewPayload(r Record, index, total int) Payload {
	items := CloneItems(r.Items)
	if items == nil {
		items = []LineItem{}
	}
	return Payload{
		SupplierINN:    strings.TrimSpace(r.SupplierTaxID),
		DocNumber:      r.DocumentNumber,
		DocDate:        r.DocumentDate,
		TotalSum:       r.TotalAmount,
		Items:          items,
		DocumentIndex:  index,
		TotalDocuments: total,
	}
}

// Encode returns the single JSON string sent over the host channel
func (p Payload) Encode() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshaling payload: %w", err)
	}
	return string(data), nil
}
