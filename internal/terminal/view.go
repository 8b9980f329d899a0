package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/zombor/invoice-capture/internal/invoice"
	"github.com/zombor/invoice-capture/internal/workflow"
)

// View renders the capture and review surface as plain text. Progress
// updates arrive from the animation goroutine, so all state is guarded.
type View struct {
	mu  sync.Mutex
	out io.Writer

	progressVisible bool
	captureVisible  bool
	reviewVisible   bool
	preview         string
	fields          workflow.Fields
	entries         []workflow.ListEntry
}

// NewView creates a View writing to out
func NewView(out io.Writer) *View {
	return &View{out: out, captureVisible: true}
}

func (v *View) SetProgress(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.progressVisible {
		return
	}
	// pad so a shorter frame erases the previous one
	fmt.Fprintf(v.out, "\r%-48s", text)
}

func (v *View) SetProgressVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.progressVisible && !visible {
		fmt.Fprintln(v.out)
	}
	v.progressVisible = visible
}

func (v *View) SetCaptureVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.captureVisible = visible
	if visible {
		fmt.Fprintln(v.out, "Ready to scan. Use: scan <file> [file...]")
	}
}

// ClearFileInput is a no-op: file paths are never kept between batches
func (v *View) ClearFileInput() {}

func (v *View) SetPreview(dataURL string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.preview = dataURL
}

func (v *View) HidePreview() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.preview = ""
}

func (v *View) SetReviewVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reviewVisible = visible
}

func (v *View) Fields() workflow.Fields {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fields
}

func (v *View) SetFields(fields workflow.Fields) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fields = fields
}

// SetField changes one header field by its command name
func (v *View) SetField(name, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch strings.ToLower(name) {
	case "inn", "tax", "supplier":
		v.fields.SupplierTaxID = value
	case "number", "doc":
		v.fields.DocumentNumber = value
	case "date":
		v.fields.DocumentDate = value
	case "total", "sum":
		v.fields.TotalAmount = value
	default:
		return fmt.Errorf("unknown field %q (use inn, number, date or total)", name)
	}
	return nil
}

func (v *View) RenderList(entries []workflow.ListEntry) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries = append([]workflow.ListEntry(nil), entries...)
}

// ReviewVisible reports whether a document is under review
func (v *View) ReviewVisible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.reviewVisible
}

// PrintList writes the documents list, marking the current one
func (v *View) PrintList() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.entries) == 0 {
		fmt.Fprintln(v.out, "No documents.")
		return
	}
	for _, e := range v.entries {
		marker := " "
		if e.Active {
			marker = ">"
		}
		fmt.Fprintf(v.out, "%s %s %s (%s)\n", marker, e.Icon, e.Name, e.Position)
	}
}

// PrintDocument writes the header fields and the grid rows
func (v *View) PrintDocument(rows []invoice.LineItem) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.reviewVisible {
		fmt.Fprintln(v.out, "Nothing to review.")
		return
	}
	for _, e := range v.entries {
		if e.Active {
			fmt.Fprintf(v.out, "%s %s (%s)\n", e.Icon, e.Name, e.Position)
		}
	}
	if v.preview != "" {
		fmt.Fprintf(v.out, "Preview: %s\n", previewKind(v.preview))
	}
	fmt.Fprintf(v.out, "  INN:    %s\n", v.fields.SupplierTaxID)
	fmt.Fprintf(v.out, "  Number: %s\n", v.fields.DocumentNumber)
	fmt.Fprintf(v.out, "  Date:   %s\n", v.fields.DocumentDate)
	fmt.Fprintf(v.out, "  Total:  %s\n", v.fields.TotalAmount)
	for i, row := range rows {
		fmt.Fprintf(v.out, "  %2d. [%s] %s  %g × %g = %s\n",
			i+1, row.Article, row.Name, row.Quantity, row.UnitPrice, row.FormatTotal())
	}
}

// previewKind names the image type of a data URL without dumping it
func previewKind(dataURL string) string {
	header, _, ok := strings.Cut(dataURL, ",")
	if !ok {
		return "unknown"
	}
	return strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
}
