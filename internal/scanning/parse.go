package scanning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// rawInvoice accepts whatever types the model chose for the header fields
type rawInvoice struct {
	SupplierINN any              `json:"SupplierINN"`
	DocNumber   any              `json:"DocNumber"`
	DocDate     any              `json:"DocDate"`
	TotalSum    any              `json:"TotalSum"`
	Items       []map[string]any `json:"Items"`
}

// cleanResponse strips markdown code fences around a model answer
func cleanResponse(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// parseInvoiceJSON parses the JSON answer of a model
func parseInvoiceJSON(text string) (*InvoiceData, error) {
	text = cleanResponse(text)

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

	// Numbers stay json.Number so they are passed on exactly as read
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()

	var raw rawInvoice
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	data := &InvoiceData{
		SupplierINN: digitsOnly(textValue(raw.SupplierINN)),
		DocNumber:   textValue(raw.DocNumber),
		DocDate:     textValue(raw.DocDate),
		TotalSum:    raw.TotalSum,
		Items:       raw.Items,
	}
	if data.Items == nil {
		data.Items = []map[string]any{}
	}

	return data, nil
}

func textValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// digitsOnly drops spaces and punctuation models sometimes keep in tax IDs
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
