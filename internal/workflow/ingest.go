package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zombor/invoice-capture/internal/bridge"
	"github.com/zombor/invoice-capture/internal/extraction"
	"github.com/zombor/invoice-capture/internal/imaging"
	"github.com/zombor/invoice-capture/internal/invoice"
)

// Failure describes one file that did not make it into the queue
type Failure struct {
	FileName string
	// Kind is KindOK for a successful call that found no items
	Kind    extraction.Kind
	Message string
}

// Summary is the outcome of one batch
type Summary struct {
	Total     int
	Processed int
	Failures  []Failure
}

// Ingest extracts files one after another and queues every document that
// has at least one item. A failed file is reported to the operator and
// never stops the batch.
func (w *Workflow) Ingest(ctx context.Context, files []extraction.File) Summary {
	summary := Summary{Total: len(files)}
	if len(files) == 0 {
		return summary
	}

	slog.Info("Starting batch", "files", len(files))

	first := w.queue.Len()
	w.view.SetCaptureVisible(false)
	w.view.SetProgressVisible(true)

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			slog.Warn("Batch interrupted", "remaining", len(files)-i, "error", err)
			break
		}

		label := fmt.Sprintf("Processing document %d of %d", i+1, len(files))
		preview, result := w.extractStep(ctx, label, f)

		if failure, ok := w.classify(f, result); !ok {
			summary.Failures = append(summary.Failures, failure)
			continue
		}

		if result.Preview != "" {
			preview = result.Preview
		}
		w.queue.Append(&invoice.Document{
			ID:       w.ids.Generate(),
			FileName: f.Name,
			Preview:  preview,
			Record:   result.Record(),
			Status:   invoice.StatusReady,
		})
		summary.Processed++
		w.bridge.Notify(bridge.NotificationSuccess)

		slog.Info("Document queued", "filename", f.Name, "items", len(result.Items))
	}

	w.view.SetProgressVisible(false)

	if summary.Processed == 0 {
		w.restoreCapture()
		return summary
	}

	w.ShowDocument(first)
	w.view.SetReviewVisible(true)
	w.bridge.ShowBackButton()
	w.bridge.Notify(bridge.NotificationSuccess)
	if len(files) > 1 {
		w.bridge.Alert(fmt.Sprintf("✅ Processed %d of %d", summary.Processed, len(files)))
	}

	slog.Info("Batch finished", "total", summary.Total, "processed", summary.Processed)
	return summary
}

// extractStep renders the local preview and waits for the extraction while
// the progress text animates
func (w *Workflow) extractStep(ctx context.Context, label string, f extraction.File) (string, extraction.Result) {
	p := w.startProgress(ctx, label)
	defer p.stop()

	preview := imaging.Preview(f.Data, f.ContentType)
	return preview, w.extractor.Extract(ctx, f)
}

// classify alerts the operator about an unusable result. It returns false
// when the file must be skipped.
func (w *Workflow) classify(f extraction.File, result extraction.Result) (Failure, bool) {
	var message string
	notification := bridge.NotificationError

	switch {
	case result.Kind == extraction.KindTooLarge:
		message = fmt.Sprintf("❌ File \"%s\" is too large (maximum 10MB)", f.Name)
	case result.Kind == extraction.KindServiceError:
		message = fmt.Sprintf("❌ Error processing \"%s\":\n%s", f.Name, result.Message)
	case result.Kind == extraction.KindNetworkError:
		message = fmt.Sprintf("❌ Network error processing \"%s\": %s", f.Name, result.Message)
	case len(result.Items) == 0:
		message = fmt.Sprintf("❌ No items found in \"%s\"", f.Name)
		notification = bridge.NotificationWarning
	default:
		return Failure{}, true
	}

	slog.Warn("File skipped", "filename", f.Name, "kind", result.Kind, "message", result.Message)

	w.bridge.Alert(message)
	w.bridge.Notify(notification)
	return Failure{FileName: f.Name, Kind: result.Kind, Message: message}, false
}

// restoreCapture brings back the capture control after a batch that queued
// nothing
func (w *Workflow) restoreCapture() {
	w.view.SetProgressVisible(false)
	w.view.SetCaptureVisible(true)
	w.view.HidePreview()
}
