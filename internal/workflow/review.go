package workflow

import (
	"fmt"
	"log/slog"

	"github.com/zombor/invoice-capture/internal/bridge"
	"github.com/zombor/invoice-capture/internal/invoice"
)

const (
	submitLabel    = "📤 Submit"
	submittedLabel = "✅ Already submitted"

	deleteConfirmation = "Delete the current document from the list?"
	backConfirmation   = "Return to scanning? Unsaved changes will be lost."
)

// ShowDocument makes the document at i current and loads it into the
// review surface. Out of range indexes are ignored.
func (w *Workflow) ShowDocument(i int) bool {
	return w.queue.SetCurrent(i)
}

// SelectDocument is the operator picking a document from the list
func (w *Workflow) SelectDocument(i int) {
	if w.ShowDocument(i) {
		w.bridge.Impact(bridge.ImpactLight)
	}
}

// renderDocument is the queue listener: it fills the preview, the header
// fields and the grid from the document at i
func (w *Workflow) renderDocument(i int) {
	doc, ok := w.queue.At(i)
	if !ok {
		return
	}

	w.view.SetPreview(doc.Preview)
	w.view.SetFields(Fields{
		SupplierTaxID:  doc.Record.SupplierTaxID,
		DocumentNumber: doc.Record.DocumentNumber,
		DocumentDate:   doc.Record.DocumentDate,
		TotalAmount:    doc.Record.TotalAmount.Display(),
	})
	w.grid.ReplaceRows(invoice.CloneItems(doc.Record.Items))
	w.renderMainButton(doc)
	w.renderList()
}

func (w *Workflow) renderMainButton(doc *invoice.Document) {
	if doc.Status == invoice.StatusSent {
		w.bridge.ShowMainButton(submittedLabel)
		return
	}
	w.bridge.ShowMainButton(submitLabel)
}

func (w *Workflow) renderList() {
	docs := w.queue.Documents()
	entries := make([]ListEntry, 0, len(docs))
	for i, doc := range docs {
		entries = append(entries, ListEntry{
			Index:    i,
			Name:     doc.DisplayName(i),
			Icon:     doc.Status.Icon(),
			Active:   i == w.queue.Index(),
			Position: fmt.Sprintf("%d/%d", i+1, len(docs)),
		})
	}
	w.view.RenderList(entries)
}

// SaveCurrentDocument copies the header fields and the grid rows into the
// current record
func (w *Workflow) SaveCurrentDocument() {
	doc, ok := w.queue.Current()
	if !ok {
		return
	}

	fields := w.view.Fields()
	doc.Record.SupplierTaxID = fields.SupplierTaxID
	doc.Record.DocumentNumber = fields.DocumentNumber
	doc.Record.DocumentDate = fields.DocumentDate
	doc.Record.TotalAmount = invoice.Amount(fields.TotalAmount)
	doc.Record.Items = invoice.CloneItems(w.grid.Rows())
}

// AddItem appends an empty row with quantity 1
func (w *Workflow) AddItem() {
	if w.queue.Len() == 0 {
		return
	}
	w.grid.AddRow(invoice.NewLineItem())
	w.SaveCurrentDocument()
	w.bridge.Impact(bridge.ImpactLight)
}

// DeleteCurrent drops the current document after confirmation. Deleting
// the last document returns to the capture screen.
func (w *Workflow) DeleteCurrent() {
	doc, ok := w.queue.Current()
	if !ok {
		return
	}
	if !w.bridge.Confirm(deleteConfirmation) {
		return
	}

	w.queue.RemoveAt(w.queue.Index())
	slog.Info("Document deleted", "id", doc.ID, "remaining", w.queue.Len())

	if w.queue.Len() == 0 {
		w.Reset()
	} else {
		w.ShowDocument(w.queue.Index())
	}
	w.bridge.Notify(bridge.NotificationSuccess)
}

// Back returns to the capture screen after confirmation
func (w *Workflow) Back() {
	if w.bridge.Confirm(backConfirmation) {
		w.Reset()
	}
}

// Reset clears the session and shows the capture screen
func (w *Workflow) Reset() {
	w.queue.Reset()
	w.view.SetReviewVisible(false)
	w.view.SetCaptureVisible(true)
	w.view.ClearFileInput()
	w.view.HidePreview()
	w.grid.ReplaceRows(nil)
	w.bridge.HideMainButton()
	w.bridge.HideBackButton()
	w.renderList()
}
