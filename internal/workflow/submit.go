package workflow

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/zombor/invoice-capture/internal/bridge"
	"github.com/zombor/invoice-capture/internal/invoice"
)

const encodeFailure = "❌ The document could not be prepared for sending. Check the numbers and try again."

// SubmitCurrent saves, validates and sends the current document to the
// host. A *invoice.ValidationError is alerted to the operator and leaves
// the document untouched. Submitting an already sent document sends it
// again.
func (w *Workflow) SubmitCurrent() error {
	doc, ok := w.queue.Current()
	if !ok {
		return invoice.NewValidationError(invoice.ErrEmptyQueue)
	}

	w.SaveCurrentDocument()

	if err := invoice.Validate(doc.Record); err != nil {
		var verr *invoice.ValidationError
		if errors.As(err, &verr) {
			w.bridge.Alert(verr.Message)
		}
		w.bridge.Notify(bridge.NotificationError)
		return err
	}

	payload := invoice.NewPayload(doc.Record, w.queue.Index(), w.queue.Len())
	data, err := payload.Encode()
	if err != nil {
		slog.Error("Encoding document failed", "id", doc.ID, "error", err)
		w.bridge.Alert(encodeFailure)
		w.bridge.Notify(bridge.NotificationError)
		return fmt.Errorf("encoding document %s: %w", doc.ID, err)
	}

	doc.Status = invoice.StatusSent
	w.renderList()
	w.renderMainButton(doc)
	w.bridge.Impact(bridge.ImpactMedium)
	w.bridge.SendData(data)

	slog.Info("Document submitted", "id", doc.ID, "index", payload.DocumentIndex, "total", payload.TotalDocuments)
	return nil
}
