package extraction

import (
	"github.com/zombor/invoice-capture/internal/invoice"
)

// Kind tags the outcome of one extraction call
type Kind int

const (
	KindOK Kind = iota
	// KindTooLarge means the file was rejected locally and never sent
	KindTooLarge
	// KindNetworkError covers transport failures, non-2xx statuses and
	// undecodable bodies
	KindNetworkError
	// KindServiceError means the service answered with an explicit error
	KindServiceError
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindTooLarge:
		return "tooLarge"
	case KindNetworkError:
		return "networkError"
	case KindServiceError:
		return "serviceError"
	default:
		return "unknown"
	}
}

// Result is the whole contract of Extract: failures are values, not errors
type Result struct {
	Kind    Kind
	Message string

	Items       []invoice.LineItem
	SupplierINN string
	DocNumber   string
	DocDate     string
	TotalSum    invoice.Amount
	// Preview is set when the service rendered its own preview, e.g. the
	// first page of a PDF
	Preview string
}

// OK reports whether the call succeeded, regardless of the item count
func (r Result) OK() bool {
	return r.Kind == KindOK
}

// Record converts a successful result into the reviewable record
func (r Result) Record() invoice.Record {
	return invoice.Record{
		SupplierTaxID:  r.SupplierINN,
		DocumentNumber: r.DocNumber,
		DocumentDate:   r.DocDate,
		TotalAmount:    r.TotalSum,
		Items:          invoice.CloneItems(r.Items),
	}
}
