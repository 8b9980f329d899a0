package workflow

import (
	"github.com/zombor/invoice-capture/internal/invoice"
)

// Fields are the header inputs of the review form, as raw text
type Fields struct {
	SupplierTaxID  string
	DocumentNumber string
	DocumentDate   string
	TotalAmount    string
}

// ListEntry is one row of the documents list
type ListEntry struct {
	Index    int
	Name     string
	Icon     string
	Active   bool
	Position string
}

// View is the capture/review surface
type View interface {
	SetProgress(text string)
	SetProgressVisible(visible bool)
	SetCaptureVisible(visible bool)
	ClearFileInput()
	SetPreview(dataURL string)
	HidePreview()
	SetReviewVisible(visible bool)
	Fields() Fields
	SetFields(Fields)
	// RenderList draws the documents list; an empty slice hides it
	RenderList(entries []ListEntry)
}

// Grid is the editable line-item table
type Grid interface {
	Rows() []invoice.LineItem
	ReplaceRows(rows []invoice.LineItem)
	AddRow(row invoice.LineItem)
	// OnRowEdited registers the handler run after any cell edit
	OnRowEdited(fn func())
}
